package cmd

import (
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/cmd/server"
	"github.com/spf13/cobra"
)

// serveAPICmd represents the serve api command
var serveAPICmd = &cobra.Command{
	Use:   "api",
	Short: "Serve the session lifecycle API, realtime hub and companion watcher",
	Run:   server.RunServeAPI(c),
}

func init() {
	serveCmd.AddCommand(serveAPICmd)
}
