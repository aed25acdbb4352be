package commands

import (
	"context"

	"github.com/wolfeidau/tenantpress/internal/logger"
)

type MigrateCmd struct {
	PostgresStore PostgresStoreFlags `embed:"" prefix:"postgres-"`
}

func (c *MigrateCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Setup(globals.Debug)
	ctx = log.WithContext(ctx)

	log.Info().Str("version", globals.Version).Msg("Running migrations")

	pool, err := c.PostgresStore.connect(ctx, true)
	if err != nil {
		return err
	}
	pool.Close()

	log.Info().Msg("Database is up to date")
	return nil
}
