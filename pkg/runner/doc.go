/*
Package runner drives a coordinator from a line-oriented terminal or pipe.

It bridges the coordinator and the outside world: published snapshots are
handed to an IOHandler for display, and lines read from the handler are
parsed into events and dispatched.

# Key Components

  - Runner: the loop that pairs Watch with Dispatch.
  - IOHandler: decouples presentation and input (text or JSON lines).
  - TextHandler: interactive commands such as "search a foo" or "pick b 2".
  - JSONHandler: one JSON event request per line, one snapshot per line out.

# Usage

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
		runner.WithLogger(logger),
	)

	if err := r.Run(ctx, coordinator); err != nil {
		log.Fatal(err)
	}
*/
package runner
