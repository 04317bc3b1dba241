package main

import (
	"fmt"

	"github.com/aretw0/tandem/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the state diagram",
	Long: `Outputs a Mermaid state diagram of the two list regions and the selection.
A running server highlights the current statuses at GET /graph.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
