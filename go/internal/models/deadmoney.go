package models

import (
	"time"

	"github.com/google/uuid"
)

// DeadMoney is an immutable cap charge a team carries for a released contract in one season.
type DeadMoney struct {
	ID         uuid.UUID  `json:"id"`
	TeamID     uuid.UUID  `json:"team_id"`
	PlayerID   uuid.UUID  `json:"player_id"`
	ContractID *uuid.UUID `json:"contract_id,omitempty"`
	Amount     int64      `json:"amount"`
	Year       int        `json:"year"`
	Reason     string     `json:"reason"`
	CreatedAt  time.Time  `json:"created_at"`
}
