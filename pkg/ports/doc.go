/*
Package ports defines the driven ports (interfaces) of the tandem coordinator.

These interfaces decouple the state machine from external implementations,
allowing the coordinator to page through any backing store and to combine
picks with any (possibly slow or failing) function.

# Key Interfaces

  - PageSource: Supplies pages of values for a search term (Memory, Redis, HTTP).
  - Combiner: Merges the two committed picks into a display message.
  - Coordinator: The event-dispatch surface consumed by adapters (HTTP, MCP, CLI).
*/
package ports
