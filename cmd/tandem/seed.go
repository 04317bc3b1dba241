package main

import (
	"github.com/aretw0/tandem/internal/cli"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the configured catalogs to Redis",
	Long:  `Populates the Redis catalogs from the configuration. Existing catalogs are kept unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		force, _ := cmd.Flags().GetBool("force")
		return cli.Seed(cmd.Context(), configPath, force, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().Bool("force", false, "Replace catalogs that already hold values")
}
