package turnover

import (
	"github.com/google/uuid"
	"github.com/mcdev12/dynastycap/go/internal/capengine"
	"github.com/mcdev12/dynastycap/go/internal/models"
)

// PreviewRequest selects the league to preview
type PreviewRequest struct {
	LeagueID uuid.UUID `json:"league_id"`
}

// CommitRequest closes Season for a league
type CommitRequest struct {
	LeagueID uuid.UUID `json:"league_id"`
	Season   int       `json:"season"`
}

// Plan is the before/after of every contract turnover would touch
type Plan struct {
	LeagueID       uuid.UUID                  `json:"league_id"`
	FromSeason     int                        `json:"from_season"`
	ToSeason       int                        `json:"to_season"`
	Changes        []capengine.TurnoverChange `json:"changes"`
	ContractsCount int                        `json:"contracts_count"`
	ExpiringCount  int                        `json:"expiring_count"`
}

// CommitResult is what a committed turnover changed
type CommitResult struct {
	LeagueID       uuid.UUID                  `json:"league_id"`
	PreviousSeason int                        `json:"previous_season"`
	Season         int                        `json:"season"`
	Changes        []capengine.TurnoverChange `json:"changes"`
	Teams          []models.FantasyTeam       `json:"teams"`
}
