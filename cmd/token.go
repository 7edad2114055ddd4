package cmd

import (
	"github.com/spf13/cobra"
)

// tokenCmd represents the token command
var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Issue a realtime subscriber token",
	Run:   cmdHandler.Token.IssueToken,
}

func init() {
	tokenCmd.Flags().DurationVar(&cmdHandler.Token.TTL, "ttl", cmdHandler.Token.TTL, "token lifetime")
	RootCmd.AddCommand(tokenCmd)
}
