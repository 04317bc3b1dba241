package main

import (
	"os"

	"github.com/aretw0/tandem/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the interactive two-list view",
	Long: `Starts a coordinator and shows both lists in the terminal. Commands are read
line by line from stdin; with --json both directions are NDJSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		debug, _ := cmd.Flags().GetBool("debug")
		jsonMode, _ := cmd.Flags().GetBool("json")
		plain, _ := cmd.Flags().GetBool("plain")

		return cli.RunSession(cmd.Context(), cli.RunOptions{
			ConfigPath: configPath,
			JSON:       jsonMode,
			Plain:      plain,
			Debug:      debug,
			Signals:    true,
		}, os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")
	runCmd.Flags().Bool("plain", false, "Plain text output even on a terminal")

	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
