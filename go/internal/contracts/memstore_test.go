package contracts

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

// memStore is an in-memory Repository. inTeamTx serializes transactions and
// restores a snapshot when fn fails.
type memStore struct {
	txMu sync.Mutex

	mu        sync.Mutex
	leagues   map[uuid.UUID]models.League
	teams     map[uuid.UUID]models.FantasyTeam
	contracts map[uuid.UUID]models.Contract
	deadMoney []models.DeadMoney
	events    []outbox.Event

	failOutbox bool
}

func newMemStore() *memStore {
	return &memStore{
		leagues:   make(map[uuid.UUID]models.League),
		teams:     make(map[uuid.UUID]models.FantasyTeam),
		contracts: make(map[uuid.UUID]models.Contract),
	}
}

func (m *memStore) inTeamTx(ctx context.Context, teamID uuid.UUID, fn func(Repository) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	if _, err := m.GetTeam(ctx, teamID); err != nil {
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

func (m *memStore) GetLeague(_ context.Context, id uuid.UUID) (*models.League, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.leagues[id]
	if !ok {
		return nil, fmt.Errorf("league %s: %w", id, store.ErrNotFound)
	}
	return &l, nil
}

func (m *memStore) GetTeam(_ context.Context, id uuid.UUID) (*models.FantasyTeam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.teams[id]
	if !ok {
		return nil, fmt.Errorf("team %s: %w", id, store.ErrNotFound)
	}
	return &t, nil
}

func (m *memStore) UpdateTeam(_ context.Context, team models.FantasyTeam) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.teams[team.ID]; !ok {
		return fmt.Errorf("team %s: %w", team.ID, store.ErrNotFound)
	}
	m.teams[team.ID] = team
	return nil
}

func (m *memStore) GetContract(_ context.Context, id uuid.UUID) (*models.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contracts[id]
	if !ok {
		return nil, fmt.Errorf("contract %s: %w", id, store.ErrNotFound)
	}
	return &c, nil
}

func (m *memStore) ListTeamContracts(_ context.Context, teamID uuid.UUID) ([]models.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Contract
	for _, c := range m.contracts {
		if c.TeamID == teamID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) ListPositionContracts(_ context.Context, leagueID uuid.UUID, position models.Position) ([]models.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Contract
	for _, c := range m.contracts {
		if c.LeagueID == leagueID && c.Position == position && c.Status == models.ContractStatusActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) UpsertContract(_ context.Context, c models.Contract) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contracts[c.ID] = c
	return nil
}

func (m *memStore) ListTeamDeadMoney(_ context.Context, teamID uuid.UUID) ([]models.DeadMoney, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.DeadMoney
	for _, r := range m.deadMoney {
		if r.TeamID == teamID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) InsertDeadMoney(_ context.Context, r models.DeadMoney) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deadMoney = append(m.deadMoney, r)
	return nil
}

func (m *memStore) InsertOutboxEvent(_ context.Context, e outbox.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOutbox {
		return errors.New("outbox unavailable")
	}
	m.events = append(m.events, e)
	return nil
}

func (m *memStore) eventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.events))
	for i, e := range m.events {
		types[i] = e.EventType
	}
	return types
}
