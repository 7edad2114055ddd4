package cli

import "github.com/Jose-offshrly/zunou-services-sub021/config"

type Handler struct {
	Migration *MigrateHandler
	Token     *TokenHandler
}

func NewHandler(c *config.Config) *Handler {
	return &Handler{
		Migration: newMigrateHandler(c),
		Token:     newTokenHandler(c),
	}
}
