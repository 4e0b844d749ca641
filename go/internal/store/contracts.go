package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/dynastycap/go/internal/models"
	"github.com/mcdev12/dynastycap/go/internal/sqlutil"
)

const contractColumns = `id, player_id, team_id, league_id, position, original_salary, current_salary,
	original_years, years_remaining, total_value, guaranteed_money, acquisition_type, status,
	has_fourth_year_option, fourth_year_option_activated, has_been_tagged, has_been_extended,
	signed_season, released_season, created_at, updated_at`

// UpsertContract inserts a contract or overwrites every mutable column of an existing one.
func (q *Queries) UpsertContract(ctx context.Context, c models.Contract) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO contracts (`+contractColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
		ON CONFLICT (id) DO UPDATE SET
			current_salary = EXCLUDED.current_salary,
			years_remaining = EXCLUDED.years_remaining,
			total_value = EXCLUDED.total_value,
			guaranteed_money = EXCLUDED.guaranteed_money,
			status = EXCLUDED.status,
			fourth_year_option_activated = EXCLUDED.fourth_year_option_activated,
			has_been_tagged = EXCLUDED.has_been_tagged,
			has_been_extended = EXCLUDED.has_been_extended,
			released_season = EXCLUDED.released_season,
			updated_at = EXCLUDED.updated_at`,
		c.ID, c.PlayerID, c.TeamID, c.LeagueID, string(c.Position), c.OriginalSalary, c.CurrentSalary,
		c.OriginalYears, c.YearsRemaining, c.TotalValue, c.GuaranteedMoney, string(c.AcquisitionType), string(c.Status),
		c.HasFourthYearOption, c.FourthYearOptionActivated, c.HasBeenTagged, c.HasBeenExtended,
		c.SignedSeason, sqlutil.ToSqlInt32(c.ReleasedSeason), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert contract: %w", err)
	}
	return nil
}

func (q *Queries) GetContract(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+contractColumns+` FROM contracts WHERE id = $1`, id)
	c, err := scanContract(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get contract %s: %w", id, notFound(err))
	}
	return c, nil
}

func (q *Queries) ListTeamContracts(ctx context.Context, teamID uuid.UUID) ([]models.Contract, error) {
	return q.listContracts(ctx, `SELECT `+contractColumns+` FROM contracts WHERE team_id = $1 ORDER BY current_salary DESC, id`, teamID)
}

func (q *Queries) ListLeagueContracts(ctx context.Context, leagueID uuid.UUID) ([]models.Contract, error) {
	return q.listContracts(ctx, `SELECT `+contractColumns+` FROM contracts WHERE league_id = $1 ORDER BY team_id, id`, leagueID)
}

func (q *Queries) ListPositionContracts(ctx context.Context, leagueID uuid.UUID, position models.Position) ([]models.Contract, error) {
	return q.listContracts(ctx, `
		SELECT `+contractColumns+` FROM contracts
		WHERE league_id = $1 AND position = $2 AND status = 'ACTIVE'
		ORDER BY current_salary DESC`, leagueID, string(position))
}

func (q *Queries) listContracts(ctx context.Context, query string, args ...any) ([]models.Contract, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	defer rows.Close()

	var contracts []models.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		contracts = append(contracts, *c)
	}
	return contracts, rows.Err()
}

func scanContract(row rowScanner) (*models.Contract, error) {
	var (
		c                                  models.Contract
		position, acquisitionType, status string
		released                           sql.NullInt32
	)
	if err := row.Scan(
		&c.ID, &c.PlayerID, &c.TeamID, &c.LeagueID, &position, &c.OriginalSalary, &c.CurrentSalary,
		&c.OriginalYears, &c.YearsRemaining, &c.TotalValue, &c.GuaranteedMoney, &acquisitionType, &status,
		&c.HasFourthYearOption, &c.FourthYearOptionActivated, &c.HasBeenTagged, &c.HasBeenExtended,
		&c.SignedSeason, &released, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.Position = models.Position(position)
	c.AcquisitionType = models.AcquisitionType(acquisitionType)
	c.Status = models.ContractStatus(status)
	c.ReleasedSeason = sqlutil.FromSqlInt32(released)
	return &c, nil
}
