package models

import (
	"time"

	"github.com/google/uuid"
)

// AcquisitionType represents how a contract originated
type AcquisitionType string

const (
	AcquisitionTypeAuction     AcquisitionType = "AUCTION"
	AcquisitionTypeFAAB        AcquisitionType = "FAAB"
	AcquisitionTypeRookieDraft AcquisitionType = "ROOKIE_DRAFT"
	AcquisitionTypeTrade       AcquisitionType = "TRADE"
	AcquisitionTypeUndisputed  AcquisitionType = "UNDISPUTED"
)

// ContractStatus represents where a contract is in its lifecycle
type ContractStatus string

const (
	ContractStatusActive   ContractStatus = "ACTIVE"
	ContractStatusTagged   ContractStatus = "TAGGED"
	ContractStatusExtended ContractStatus = "EXTENDED"
	ContractStatusCut      ContractStatus = "CUT"
	ContractStatusExpired  ContractStatus = "EXPIRED"
)

// CountsAgainstCap reports whether a contract in this status is part of a team's used cap.
func (s ContractStatus) CountsAgainstCap() bool {
	switch s {
	case ContractStatusActive, ContractStatusTagged, ContractStatusExtended:
		return true
	default:
		return false
	}
}

// Contract is a player's deal with a fantasy team
type Contract struct {
	ID                        uuid.UUID       `json:"id"`
	PlayerID                  uuid.UUID       `json:"player_id"`
	TeamID                    uuid.UUID       `json:"team_id"`
	LeagueID                  uuid.UUID       `json:"league_id"`
	Position                  Position        `json:"position"`
	OriginalSalary            int64           `json:"original_salary"`
	CurrentSalary             int64           `json:"current_salary"`
	OriginalYears             int             `json:"original_years"`
	YearsRemaining            int             `json:"years_remaining"`
	TotalValue                int64           `json:"total_value"`
	GuaranteedMoney           int64           `json:"guaranteed_money"`
	AcquisitionType           AcquisitionType `json:"acquisition_type"`
	Status                    ContractStatus  `json:"status"`
	HasFourthYearOption       bool            `json:"has_fourth_year_option"`
	FourthYearOptionActivated bool            `json:"fourth_year_option_activated"`
	HasBeenTagged             bool            `json:"has_been_tagged"`
	HasBeenExtended           bool            `json:"has_been_extended"`
	SignedSeason              int             `json:"signed_season"`
	ReleasedSeason            *int            `json:"released_season,omitempty"`
	CreatedAt                 time.Time       `json:"created_at"`
	UpdatedAt                 time.Time       `json:"updated_at"`
}
