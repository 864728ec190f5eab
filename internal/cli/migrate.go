package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"wizkid-challenge/internal/catalog"
	"wizkid-challenge/internal/domain"
	"wizkid-challenge/internal/infra/postgres"
	"wizkid-challenge/internal/logging"
)

// NewMigrateCmd applies database migrations and optionally seeds the question bank.
func NewMigrateCmd(configPath *string) *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context(), *configPath, seed)
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "load catalog.path (or the built-in bank) into the questions table")
	return cmd
}

func runMigrations(ctx context.Context, configPath string, seed bool) error {
	cfg, logger, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	ctx = logging.IntoContext(ctx, logger)

	if err := runMigrationsWithConfig(ctx, cfg.Postgres.URL); err != nil {
		return err
	}
	if !seed {
		return nil
	}

	bank := catalog.Builtin()
	if cfg.Catalog.Path != "" {
		if bank, err = catalog.NewFileLoader(cfg.Catalog.Path).LoadCatalog(ctx); err != nil {
			return err
		}
	}
	return seedQuestions(ctx, cfg.Postgres.URL, bank)
}

func runMigrationsWithConfig(ctx context.Context, dsn string) error {
	logger := logging.FromContext(ctx)
	db := postgres.OpenBun(dsn)
	defer db.Close()

	group, err := postgres.Migrate(ctx, db)
	if err != nil {
		return err
	}
	if group.IsZero() {
		logger.Info().Msg("no new migrations")
		return nil
	}
	logger.Info().Str("group", group.String()).Msg("migrations applied")
	return nil
}

func seedQuestions(ctx context.Context, dsn string, bank domain.Catalog) error {
	pool, err := postgres.OpenPool(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	n, err := postgres.NewCatalogLoader(pool).Seed(ctx, bank)
	if err != nil {
		return err
	}
	logger := logging.FromContext(ctx)
	logger.Info().Int("questions", n).Msg("question bank seeded")
	return nil
}
