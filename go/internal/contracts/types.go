package contracts

import (
	"github.com/google/uuid"
	"github.com/mcdev12/dynastycap/go/internal/capengine"
	"github.com/mcdev12/dynastycap/go/internal/models"
)

// CreateContractRequest represents the data needed to sign a new contract
type CreateContractRequest struct {
	PlayerID        uuid.UUID              `json:"player_id"`
	TeamID          uuid.UUID              `json:"team_id"`
	Position        models.Position        `json:"position"`
	Years           int                    `json:"years"`
	AnnualSalary    int64                  `json:"annual_salary"`
	AcquisitionType models.AcquisitionType `json:"acquisition_type"`
	GuaranteedMoney int64                  `json:"guaranteed_money,omitempty"`
	DraftRound      int                    `json:"draft_round,omitempty"`
}

// ExtendContractRequest represents an extension offer on a contract in its final year
type ExtendContractRequest struct {
	ContractID      uuid.UUID `json:"contract_id"`
	AdditionalYears int       `json:"additional_years"`
	NewSalary       int64     `json:"new_salary"`
}

// ContractRequest identifies a single contract
type ContractRequest struct {
	ContractID uuid.UUID `json:"contract_id"`
}

// TeamRequest identifies a single team
type TeamRequest struct {
	TeamID uuid.UUID `json:"team_id"`
}

// ContractResult is returned by every contract mutation
type ContractResult struct {
	Contract models.Contract    `json:"contract"`
	Team     models.FantasyTeam `json:"team"`
	Cap      capengine.TeamCap  `json:"cap"`
}

// FranchiseTagResult is returned when a tag is applied
type FranchiseTagResult struct {
	ContractResult
	Quote  capengine.TagQuote       `json:"quote"`
	Market capengine.PositionMarket `json:"market"`
}

// ReleaseResult is returned when a contract is cut
type ReleaseResult struct {
	ContractResult
	DeadMoney []models.DeadMoney        `json:"dead_money"`
	Charge    capengine.DeadMoneyCharge `json:"charge"`
}

// ReleasePreview shows what releasing a contract today would cost
type ReleasePreview struct {
	Contract  models.Contract           `json:"contract"`
	Charge    capengine.DeadMoneyCharge `json:"charge"`
	CapBefore capengine.TeamCap         `json:"cap_before"`
	CapAfter  capengine.TeamCap         `json:"cap_after"`
}

// FranchiseTagPreview prices a tag and reports whether it would be allowed
type FranchiseTagPreview struct {
	Contract models.Contract          `json:"contract"`
	Quote    capengine.TagQuote       `json:"quote"`
	Market   capengine.PositionMarket `json:"market"`
	Eligible bool                     `json:"eligible"`
	Reason   string                   `json:"reason,omitempty"`
}

// TeamCapSummary is a team's live cap position
type TeamCapSummary struct {
	Team      models.FantasyTeam `json:"team"`
	Cap       capengine.TeamCap  `json:"cap"`
	Contracts []models.Contract  `json:"contracts"`
	DeadMoney []models.DeadMoney `json:"dead_money"`
}
