package turnover

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/mcdev12/dynastycap/go/internal/models"
	"github.com/mcdev12/dynastycap/go/internal/outbox"
	"github.com/mcdev12/dynastycap/go/internal/store"
)

type memStore struct {
	txMu sync.Mutex

	mu        sync.Mutex
	leagues   map[uuid.UUID]models.League
	teams     map[uuid.UUID]models.FantasyTeam
	contracts map[uuid.UUID]models.Contract
	deadMoney []models.DeadMoney
	events    []outbox.Event

	failContract uuid.UUID
	invalidated  []uuid.UUID
}

func newMemStore() *memStore {
	return &memStore{
		leagues:   make(map[uuid.UUID]models.League),
		teams:     make(map[uuid.UUID]models.FantasyTeam),
		contracts: make(map[uuid.UUID]models.Contract),
	}
}

func (m *memStore) inLeagueTx(ctx context.Context, leagueID uuid.UUID, fn func(Repository) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	if _, err := m.GetLeague(ctx, leagueID); err != nil {
		return err
	}

	m.mu.Lock()
	leagues, teams, contracts := maps.Clone(m.leagues), maps.Clone(m.teams), maps.Clone(m.contracts)
	deadMoney, events := slices.Clone(m.deadMoney), slices.Clone(m.events)
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.leagues, m.teams, m.contracts = leagues, teams, contracts
		m.deadMoney, m.events = deadMoney, events
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) InvalidateLeague(leagueID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated = append(m.invalidated, leagueID)
}

func (m *memStore) GetLeague(_ context.Context, id uuid.UUID) (*models.League, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.leagues[id]
	if !ok {
		return nil, fmt.Errorf("league %s: %w", id, store.ErrNotFound)
	}
	return &l, nil
}

func (m *memStore) UpdateLeague(_ context.Context, league models.League) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leagues[league.ID] = league
	return nil
}

func (m *memStore) ListLeagueTeams(_ context.Context, leagueID uuid.UUID) ([]models.FantasyTeam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.FantasyTeam
	for _, t := range m.teams {
		if t.LeagueID == leagueID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStore) UpdateTeam(_ context.Context, team models.FantasyTeam) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teams[team.ID] = team
	return nil
}

func (m *memStore) ListLeagueContracts(_ context.Context, leagueID uuid.UUID) ([]models.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Contract
	for _, c := range m.contracts {
		if c.LeagueID == leagueID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) UpsertContract(_ context.Context, c models.Contract) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == m.failContract {
		return errors.New("write failed")
	}
	m.contracts[c.ID] = c
	return nil
}

func (m *memStore) ListLeagueDeadMoney(_ context.Context, leagueID uuid.UUID) ([]models.DeadMoney, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.DeadMoney
	for _, r := range m.deadMoney {
		if t, ok := m.teams[r.TeamID]; ok && t.LeagueID == leagueID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) InsertOutboxEvent(_ context.Context, e outbox.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}
