package models

import (
	"time"

	"github.com/google/uuid"
)

// FantasyTeam is a league member owning contracts. Cap figures are derived and
// only written by the aggregate recompute.
type FantasyTeam struct {
	ID                  uuid.UUID `json:"id"`
	LeagueID            uuid.UUID `json:"league_id"`
	Name                string    `json:"name"`
	AvailableCap        int64     `json:"available_cap"`
	CurrentDeadMoney    int64     `json:"current_dead_money"`
	NextSeasonDeadMoney int64     `json:"next_season_dead_money"`
	FranchiseTagsUsed   int       `json:"franchise_tags_used"`
	UpdatedAt           time.Time `json:"updated_at"`
}
