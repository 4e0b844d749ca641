package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/dynastycap/go/internal/models"
)

type fakeSource struct {
	contracts []models.Contract
	calls     int
	err       error
}

func (f *fakeSource) ListPositionContracts(_ context.Context, _ uuid.UUID, position models.Position) ([]models.Contract, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Contract
	for _, c := range f.contracts {
		if c.Position == position {
			out = append(out, c)
		}
	}
	return out, nil
}

func wr(salary int64) models.Contract {
	return models.Contract{
		ID:            uuid.New(),
		Position:      models.PositionWR,
		CurrentSalary: salary,
		Status:        models.ContractStatusActive,
	}
}

func TestProviderCachesWhileFresh(t *testing.T) {
	clock := clockwork.NewFakeClock()
	src := &fakeSource{contracts: []models.Contract{wr(10_000_000), wr(20_000_000)}}
	p := NewProvider(src, clock, time.Minute)
	leagueID := uuid.New()

	m, err := p.Market(context.Background(), leagueID, models.PositionWR)
	if err != nil {
		t.Fatalf("Market() error = %v", err)
	}
	if m.Average != 15_000_000 || m.SampleSize != 2 {
		t.Errorf("Market() = avg %d n %d, want avg 15000000 n 2", m.Average, m.SampleSize)
	}

	src.contracts = append(src.contracts, wr(30_000_000))
	clock.Advance(30 * time.Second)
	m, _ = p.Market(context.Background(), leagueID, models.PositionWR)
	if src.calls != 1 || m.Average != 15_000_000 {
		t.Errorf("fresh snapshot: calls = %d avg = %d, want 1 and 15000000", src.calls, m.Average)
	}

	clock.Advance(time.Minute)
	m, _ = p.Market(context.Background(), leagueID, models.PositionWR)
	if src.calls != 2 || m.Average != 20_000_000 {
		t.Errorf("stale snapshot: calls = %d avg = %d, want 2 and 20000000", src.calls, m.Average)
	}
	if !m.FetchedAt.Equal(clock.Now()) {
		t.Errorf("FetchedAt = %v, want %v", m.FetchedAt, clock.Now())
	}
}

func TestProviderInvalidate(t *testing.T) {
	clock := clockwork.NewFakeClock()
	src := &fakeSource{contracts: []models.Contract{wr(10_000_000)}}
	p := NewProvider(src, clock, time.Hour)
	leagueID := uuid.New()
	ctx := context.Background()

	if _, err := p.Market(ctx, leagueID, models.PositionWR); err != nil {
		t.Fatalf("Market() error = %v", err)
	}
	p.Invalidate(leagueID, models.PositionWR)
	if _, err := p.Market(ctx, leagueID, models.PositionWR); err != nil {
		t.Fatalf("Market() error = %v", err)
	}
	if src.calls != 2 {
		t.Errorf("calls after Invalidate = %d, want 2", src.calls)
	}

	p.InvalidateLeague(leagueID)
	if _, err := p.Market(ctx, leagueID, models.PositionWR); err != nil {
		t.Fatalf("Market() error = %v", err)
	}
	if src.calls != 3 {
		t.Errorf("calls after InvalidateLeague = %d, want 3", src.calls)
	}
}

func TestProviderSourceError(t *testing.T) {
	src := &fakeSource{err: errors.New("db down")}
	p := NewProvider(src, clockwork.NewFakeClock(), time.Minute)

	if _, err := p.Market(context.Background(), uuid.New(), models.PositionQB); err == nil {
		t.Fatal("Market() error = nil, want source error")
	}
}
