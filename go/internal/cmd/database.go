package main

import (
	"context"
	"fmt"

	"github.com/mcdev12/dynastycap/go/internal/dbconfig"
	"github.com/mcdev12/dynastycap/go/internal/store"
	"github.com/rs/zerolog/log"
)

func setupDatabase(ctx context.Context) (*store.Store, func(), error) {
	cfg := dbconfig.NewConfigFromEnv()
	db, err := cfg.Open(ctx)
	if err != nil {
		return nil, nil, err
	}

	st := store.NewStore(db)
	if err := st.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Msg("connected to database")
	return st, func() { db.Close() }, nil
}
