package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is a committed domain change waiting to be relayed
type Event struct {
	ID        uuid.UUID       `json:"id"`
	LeagueID  uuid.UUID       `json:"league_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	SentAt    *time.Time      `json:"sent_at,omitempty"`
}

// NewEvent marshals payload into an event for leagueID.
func NewEvent(leagueID uuid.UUID, eventType string, payload any, now time.Time) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return Event{
		ID:        uuid.New(),
		LeagueID:  leagueID,
		EventType: eventType,
		Payload:   data,
		CreatedAt: now,
	}, nil
}

// Publisher delivers relayed events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Publishers fans an event out to every publisher, stopping at the first error.
type Publishers []Publisher

func (ps Publishers) Publish(ctx context.Context, event Event) error {
	for _, p := range ps {
		if err := p.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
