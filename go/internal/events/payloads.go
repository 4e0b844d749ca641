package events

import (
	"github.com/mcdev12/dynastycap/go/internal/capengine"
)

// Event types written to the cap outbox
const (
	TypeContractCreated           = "ContractCreated"
	TypeContractExtended          = "ContractExtended"
	TypeFranchiseTagApplied       = "FranchiseTagApplied"
	TypeContractReleased          = "ContractReleased"
	TypeFourthYearOptionActivated = "FourthYearOptionActivated"
	TypeSeasonTurnoverCommitted   = "SeasonTurnoverCommitted"
)

// ContractPayload is shared by create, extend and option events
type ContractPayload struct {
	ContractID     string `json:"contract_id"`
	TeamID         string `json:"team_id"`
	PlayerID       string `json:"player_id"`
	Season         int    `json:"season"`
	CurrentSalary  int64  `json:"current_salary"`
	YearsRemaining int    `json:"years_remaining"`
	Status         string `json:"status"`
	AvailableCap   int64  `json:"available_cap"`
}

// FranchiseTagAppliedPayload is the payload for a FranchiseTagApplied event
type FranchiseTagAppliedPayload struct {
	ContractPayload
	Quote             capengine.TagQuote `json:"quote"`
	FranchiseTagsUsed int                `json:"franchise_tags_used"`
}

// ContractReleasedPayload is the payload for a ContractReleased event
type ContractReleasedPayload struct {
	ContractPayload
	Charge capengine.DeadMoneyCharge `json:"charge"`
}

// SeasonTurnoverCommittedPayload is the payload for a SeasonTurnoverCommitted event
type SeasonTurnoverCommittedPayload struct {
	LeagueID          string `json:"league_id"`
	PreviousSeason    int    `json:"previous_season"`
	Season            int    `json:"season"`
	ContractsTurned   int    `json:"contracts_turned"`
	ContractsExpired  int    `json:"contracts_expired"`
	TeamsRecalculated int    `json:"teams_recalculated"`
}
