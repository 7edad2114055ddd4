package cli

import (
	"fmt"
	"os"

	"github.com/Jose-offshrly/zunou-services-sub021/config"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/storage/postgres"
	colorable "github.com/mattn/go-colorable"
	migrate "github.com/rubenv/sql-migrate"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type MigrateHandler struct {
	c *config.Config
}

func newMigrateHandler(c *config.Config) *MigrateHandler {
	return &MigrateHandler{c: c}
}

// getDatabaseURL returns the positional database url or falls back to the
// configured one.
func (h *MigrateHandler) getDatabaseURL(cmd *cobra.Command, args []string, position int) (url string) {
	if len(args) > position {
		url = args[position]
	}
	if url == "" {
		url = h.c.DatabaseURL
	}
	if url == "" {
		fmt.Println(cmd.UsageString())
	}
	return
}

func setupCLILogging() {
	log.SetLevel(log.DebugLevel)
	log.SetFormatter(&log.TextFormatter{
		ForceColors: true,
	})
	log.SetOutput(colorable.NewColorableStdout())
}

func (h *MigrateHandler) MigrateSQL(cmd *cobra.Command, args []string) {
	url := h.getDatabaseURL(cmd, args, 0)
	if url == "" {
		os.Exit(2) // Return missing keyword or command
	}

	setupCLILogging()
	log.Info("Applying SQL migration...")

	db, err := postgres.Open(url)
	if err != nil {
		log.Errorf("An error occurred while connecting to SQL: %s", err)
		os.Exit(1)
	}
	defer db.Close()

	migrations := &migrate.FileMigrationSource{
		Dir: "db/migrations",
	}

	n, err := migrate.Exec(db.DB, "postgres", migrations, migrate.Up)
	if err != nil {
		log.Errorf("An error occurred while running the migrations: %s", err)
		os.Exit(1)
	}
	log.Infof("Migration successful! Applied a total of %d migrations.", n)
}

// MigrateSeed loads a directory file into the database.
func (h *MigrateHandler) MigrateSeed(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		fmt.Println(cmd.UsageString())
		os.Exit(2)
	}
	url := h.getDatabaseURL(cmd, args, 1)
	if url == "" {
		os.Exit(2)
	}

	setupCLILogging()
	log.WithField("file", args[0]).Info("Seeding directory...")

	f, err := os.Open(args[0])
	if err != nil {
		log.Errorf("An error occurred while opening the seed file: %s", err)
		os.Exit(1)
	}
	defer f.Close()

	seed, err := ReadSeed(f)
	if err != nil {
		log.Errorf("An error occurred while reading the seed file: %s", err)
		os.Exit(1)
	}

	db, err := postgres.Open(url)
	if err != nil {
		log.Errorf("An error occurred while connecting to SQL: %s", err)
		os.Exit(1)
	}
	defer db.Close()

	n, err := seed.Apply(cmd.Context(), postgres.NewStore(db))
	if err != nil {
		log.Errorf("An error occurred while seeding: %s", err)
		os.Exit(1)
	}
	log.Infof("Seed successful! Created a total of %d records.", n)
}
