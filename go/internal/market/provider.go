package market

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/dynastycap/go/internal/capengine"
	"github.com/mcdev12/dynastycap/go/internal/models"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

// DefaultFreshFor is how long a position snapshot is trusted before it is rebuilt.
const DefaultFreshFor = 5 * time.Minute

// Source lists the league contracts a snapshot is built from.
type Source interface {
	ListPositionContracts(ctx context.Context, leagueID uuid.UUID, position models.Position) ([]models.Contract, error)
}

// Provider serves position market snapshots, rebuilding them when stale.
type Provider struct {
	source   Source
	cache    *gocache.Cache
	clock    clockwork.Clock
	freshFor time.Duration
}

func NewProvider(source Source, clock clockwork.Clock, freshFor time.Duration) *Provider {
	if freshFor <= 0 {
		freshFor = DefaultFreshFor
	}
	return &Provider{
		source:   source,
		cache:    gocache.New(gocache.NoExpiration, freshFor*2),
		clock:    clock,
		freshFor: freshFor,
	}
}

func cacheKey(leagueID uuid.UUID, position models.Position) string {
	return leagueID.String() + ":" + string(position)
}

// Market returns the snapshot for a league position. A cached snapshot is
// returned only while it is fresh by the provider's clock.
func (p *Provider) Market(ctx context.Context, leagueID uuid.UUID, position models.Position) (capengine.PositionMarket, error) {
	key := cacheKey(leagueID, position)
	now := p.clock.Now()

	if cached, found := p.cache.Get(key); found {
		m := cached.(capengine.PositionMarket)
		if m.Fresh(now) {
			return m, nil
		}
	}

	contracts, err := p.source.ListPositionContracts(ctx, leagueID, position)
	if err != nil {
		return capengine.PositionMarket{}, fmt.Errorf("failed to load %s market: %w", position, err)
	}
	m := capengine.NewPositionMarket(leagueID, position, contracts, now, p.freshFor)
	p.cache.Set(key, m, gocache.NoExpiration)

	log.Debug().
		Str("league_id", leagueID.String()).
		Str("position", string(position)).
		Int("sample_size", m.SampleSize).
		Int64("average", m.Average).
		Msg("rebuilt position market")
	return m, nil
}

// Invalidate drops the snapshot for one league position.
func (p *Provider) Invalidate(leagueID uuid.UUID, position models.Position) {
	p.cache.Delete(cacheKey(leagueID, position))
}

// InvalidateLeague drops every snapshot for a league, e.g. after turnover.
func (p *Provider) InvalidateLeague(leagueID uuid.UUID) {
	prefix := leagueID.String() + ":"
	for key := range p.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			p.cache.Delete(key)
		}
	}
}
