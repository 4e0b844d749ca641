package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/dynastycap/go/internal/capengine"
	"github.com/mcdev12/dynastycap/go/internal/capfeed"
	"github.com/mcdev12/dynastycap/go/internal/contracts"
	"github.com/mcdev12/dynastycap/go/internal/keylock"
	"github.com/mcdev12/dynastycap/go/internal/leagues"
	"github.com/mcdev12/dynastycap/go/internal/market"
	"github.com/mcdev12/dynastycap/go/internal/outbox"
	"github.com/mcdev12/dynastycap/go/internal/store"
	"github.com/mcdev12/dynastycap/go/internal/turnover"
	"github.com/rs/zerolog/log"
)

type Services struct {
	Leagues   *leagues.Service
	Contracts *contracts.Service
	Turnover  *turnover.Service
	Feed      *capfeed.Hub
	Relay     *outbox.Worker

	closers []func()
}

// Close releases publisher connections.
func (s *Services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func setupServices(ctx context.Context, cfg *Config, st *store.Store) (*Services, error) {
	// Store → App → Service; one clock and one lock table shared by every app
	clock := clockwork.NewRealClock()
	locks := keylock.New()
	markets := market.NewProvider(st, clock, cfg.Market.FreshFor)
	services := &Services{}

	// Leagues
	var presets map[string]capengine.PolicyPreset
	if cfg.PresetsFile != "" {
		loaded, err := capengine.LoadPresets(cfg.PresetsFile)
		if err != nil {
			return nil, err
		}
		presets = loaded
		log.Info().Int("presets", len(presets)).Str("file", cfg.PresetsFile).Msg("loaded league presets")
	}
	services.Leagues = leagues.NewService(leagues.NewApp(st, presets, clock))

	// Contracts
	inTeamTx := func(ctx context.Context, teamID uuid.UUID, fn func(contracts.Repository) error) error {
		return st.InTeamTx(ctx, teamID, func(q *store.Queries) error { return fn(q) })
	}
	contractsApp := contracts.NewApp(st, inTeamTx, markets, locks, clock)
	services.Contracts = contracts.NewService(contractsApp)

	// Turnover
	inLeagueTx := func(ctx context.Context, leagueID uuid.UUID, fn func(turnover.Repository) error) error {
		return st.InLeagueTx(ctx, leagueID, func(q *store.Queries) error { return fn(q) })
	}
	turnoverApp := turnover.NewApp(st, inLeagueTx, markets, locks, clock, cfg.Turnover.Workers)
	services.Turnover = turnover.NewService(turnoverApp)

	// Outbox relay fans out to JetStream and the websocket feed
	var publishers outbox.Publishers
	if cfg.NATS.Enabled {
		jsCfg := outbox.DefaultJetStreamConfig()
		if cfg.NATS.URL != "" {
			jsCfg.URL = cfg.NATS.URL
		}
		if cfg.NATS.StreamName != "" {
			jsCfg.StreamName = cfg.NATS.StreamName
		}
		if cfg.NATS.SubjectPrefix != "" {
			jsCfg.SubjectPrefix = cfg.NATS.SubjectPrefix
		}
		js, err := outbox.NewJetStreamPublisher(ctx, jsCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create JetStream publisher: %w", err)
		}
		publishers = append(publishers, js)
		services.closers = append(services.closers, func() {
			if err := js.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close JetStream publisher")
			}
		})
	}
	if cfg.Feed.Enabled {
		services.Feed = capfeed.NewHub(capfeed.DefaultConfig())
		publishers = append(publishers, services.Feed)
	}
	if len(publishers) == 0 {
		log.Warn().Msg("no outbox publishers configured, cap events stay in the outbox")
		return services, nil
	}

	relayCfg := outbox.DefaultConfig()
	if cfg.Outbox.PollInterval > 0 {
		relayCfg.PollInterval = cfg.Outbox.PollInterval
	}
	if cfg.Outbox.BatchSize > 0 {
		relayCfg.BatchSize = cfg.Outbox.BatchSize
	}
	if cfg.Outbox.MaxRetries > 0 {
		relayCfg.MaxRetries = cfg.Outbox.MaxRetries
	}
	if cfg.Outbox.RetryDelay > 0 {
		relayCfg.RetryDelay = cfg.Outbox.RetryDelay
	}
	inTx := func(ctx context.Context, fn func(outbox.Repository) error) error {
		return st.InTx(ctx, func(q *store.Queries) error { return fn(q) })
	}
	services.Relay = outbox.NewWorker(inTx, publishers, relayCfg, clock)
	return services, nil
}
