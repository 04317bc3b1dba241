/*
Package domain contains the core domain models of the tandem coordinator.

It defines the values shown by the two lists, the per-region state, the
events consumers dispatch and the immutable Snapshot handed to the display
layer. This package is kept pure and free of I/O, following the same
hexagonal layout as the ports and adapters packages.

# Key Entities

  - Value: an item of a list (code + label).
  - Page: one batch fetched from a PageSource, with the cursor of the next page.
  - ListState: the loading/search/pagination state of one list region.
  - SelectionState: the cross-list pick sequence (first pick, second pick, combining).
  - Snapshot: the atomic view of all regions after an event was processed.
  - Event: the discrete inputs accepted by the coordinator.
*/
package domain
