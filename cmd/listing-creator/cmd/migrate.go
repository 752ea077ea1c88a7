package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/ebay-listing-creator/internal/config"
	"github.com/donaldgifford/ebay-listing-creator/internal/session"
	"github.com/donaldgifford/ebay-listing-creator/pkg/logger"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply session store schema migrations",
		Long: "Applies pending migrations for the sqlite and postgres session backends.\n" +
			"The file and memory backends have no schema.",
		RunE: runMigrate,
	}
}

func runMigrate(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	sc := cfg.Session.StoreConfig()
	switch sc.Backend {
	case session.BackendSQLite, session.BackendPostgres:
	default:
		log.Info("backend has no schema, nothing to migrate", "backend", sc.Backend)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	log.Info("running migrations", "backend", sc.Backend)

	// Open applies pending migrations before returning.
	store, err := session.Open(ctx, sc)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	if err := store.Close(); err != nil {
		return fmt.Errorf("closing session store: %w", err)
	}

	log.Info("migrations complete")
	return nil
}
