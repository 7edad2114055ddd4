package cmd

import (
	"github.com/spf13/cobra"
)

// migrateSeedCmd represents the migrate seed command
var migrateSeedCmd = &cobra.Command{
	Use:   "seed <file> [database-url]",
	Short: "Load organizations, pulses and users from a YAML file",
	Run:   cmdHandler.Migration.MigrateSeed,
}

func init() {
	migrateCmd.AddCommand(migrateSeedCmd)
}
