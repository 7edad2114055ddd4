package cmd

import (
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/cmd/server"
	"github.com/spf13/cobra"
)

// serveAuthorityCmd represents the serve authority command
var serveAuthorityCmd = &cobra.Command{
	Use:   "authority",
	Short: "Serve the channel authority over NATS",
	Run:   server.RunServeAuthority(c),
}

func init() {
	serveCmd.AddCommand(serveAuthorityCmd)
}
