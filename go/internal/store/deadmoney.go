package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/dynastycap/go/internal/models"
	"github.com/mcdev12/dynastycap/go/internal/sqlutil"
)

const deadMoneyColumns = `id, team_id, player_id, contract_id, amount, year, reason, created_at`

// InsertDeadMoney appends a ledger entry. Entries are never updated.
func (q *Queries) InsertDeadMoney(ctx context.Context, r models.DeadMoney) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO dead_money (`+deadMoneyColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		r.ID, r.TeamID, r.PlayerID, sqlutil.ToNullUUID(r.ContractID), r.Amount, r.Year, r.Reason, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert dead money: %w", err)
	}
	return nil
}

func (q *Queries) ListTeamDeadMoney(ctx context.Context, teamID uuid.UUID) ([]models.DeadMoney, error) {
	return q.listDeadMoney(ctx, `SELECT `+deadMoneyColumns+` FROM dead_money WHERE team_id = $1 ORDER BY year, created_at`, teamID)
}

func (q *Queries) ListLeagueDeadMoney(ctx context.Context, leagueID uuid.UUID) ([]models.DeadMoney, error) {
	return q.listDeadMoney(ctx, `
		SELECT d.id, d.team_id, d.player_id, d.contract_id, d.amount, d.year, d.reason, d.created_at
		FROM dead_money d
		JOIN fantasy_teams t ON t.id = d.team_id
		WHERE t.league_id = $1
		ORDER BY d.team_id, d.year, d.created_at`, leagueID)
}

func (q *Queries) listDeadMoney(ctx context.Context, query string, args ...any) ([]models.DeadMoney, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list dead money: %w", err)
	}
	defer rows.Close()

	var records []models.DeadMoney
	for rows.Next() {
		var (
			r          models.DeadMoney
			contractID uuid.NullUUID
		)
		if err := rows.Scan(&r.ID, &r.TeamID, &r.PlayerID, &contractID, &r.Amount, &r.Year, &r.Reason, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan dead money: %w", err)
		}
		r.ContractID = sqlutil.FromNullUUID(contractID)
		records = append(records, r)
	}
	return records, rows.Err()
}
