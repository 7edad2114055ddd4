package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/Jose-offshrly/zunou-services-sub021/config"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/fanout"
	"github.com/spf13/cobra"
)

type TokenHandler struct {
	c   *config.Config
	TTL time.Duration
}

func newTokenHandler(c *config.Config) *TokenHandler {
	return &TokenHandler{c: c, TTL: time.Hour}
}

// IssueToken prints a realtime subscriber token for a user id.
func (h *TokenHandler) IssueToken(cmd *cobra.Command, args []string) {
	if len(args) < 1 || args[0] == "" {
		fmt.Println(cmd.UsageString())
		os.Exit(2)
	}
	if h.c.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is not set")
		os.Exit(1)
	}

	token, err := fanout.IssueToken([]byte(h.c.JWTSecret), args[0], h.TTL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not issue token: %s\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
