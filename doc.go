/*
Package tandem is a coordination engine that drives two independent,
paginated, searchable selection lists and combines a value picked from each
into a single derived message.

It is built as a parallel state machine: two list regions (each with its own
loading / loading more / ready states) and a selection region (init, first
committed, combining) evolve independently under one serialized event loop.
Page fetches and the combination are the only asynchronous steps; their
results are applied only if the region is still waiting for them.

# Concept

The coordinator owns no I/O. Pages come from a ports.PageSource (in memory,
Redis or HTTP) and combinations from a ports.Combiner. The display layer
dispatches events and reads an immutable domain.Snapshot after each one.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/tandem"
		"github.com/aretw0/tandem/pkg/adapters/memory"
		"github.com/aretw0/tandem/pkg/domain"
	)

	func main() {
		articles := memory.NewSource(memory.Values("one", "two", "three"))
		categories := memory.NewSource(memory.Values("red", "green"))

		c, err := tandem.New(articles, categories, memory.NewCombiner())
		if err != nil {
			log.Fatal(err)
		}
		defer c.Close()

		ctx := context.Background()
		if _, err := c.WaitFor(ctx, tandem.ListsReady); err != nil {
			log.Fatal(err)
		}

		c.Dispatch(ctx, domain.PickFirst{Code: "one"})
		c.Dispatch(ctx, domain.PickSecond{Code: "red"})

		snap, _ := c.WaitFor(ctx, tandem.HasMessage)
		fmt.Println(snap.Message.Text)
	}
*/
package tandem
