package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/dynastycap/go/internal/models"
)

const teamColumns = `id, league_id, name, available_cap, current_dead_money,
	next_season_dead_money, franchise_tags_used, updated_at`

func (q *Queries) CreateTeam(ctx context.Context, t models.FantasyTeam) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO fantasy_teams (`+teamColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		t.ID, t.LeagueID, t.Name, t.AvailableCap, t.CurrentDeadMoney,
		t.NextSeasonDeadMoney, t.FranchiseTagsUsed, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert fantasy team: %w", err)
	}
	return nil
}

func (q *Queries) GetTeam(ctx context.Context, id uuid.UUID) (*models.FantasyTeam, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM fantasy_teams WHERE id = $1`, id)
	t, err := scanTeam(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get fantasy team %s: %w", id, notFound(err))
	}
	return t, nil
}

func (q *Queries) ListLeagueTeams(ctx context.Context, leagueID uuid.UUID) ([]models.FantasyTeam, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+teamColumns+` FROM fantasy_teams WHERE league_id = $1 ORDER BY id`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fantasy teams: %w", err)
	}
	defer rows.Close()

	var teams []models.FantasyTeam
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fantasy team: %w", err)
		}
		teams = append(teams, *t)
	}
	return teams, rows.Err()
}

func (q *Queries) UpdateTeam(ctx context.Context, t models.FantasyTeam) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE fantasy_teams SET
			name = $2, available_cap = $3, current_dead_money = $4,
			next_season_dead_money = $5, franchise_tags_used = $6, updated_at = $7
		WHERE id = $1`,
		t.ID, t.Name, t.AvailableCap, t.CurrentDeadMoney,
		t.NextSeasonDeadMoney, t.FranchiseTagsUsed, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update fantasy team: %w", err)
	}
	return expectOne(res, "fantasy team", t.ID)
}

// LockTeam takes a row lock on the team for the rest of the transaction.
func (q *Queries) LockTeam(ctx context.Context, id uuid.UUID) error {
	var locked uuid.UUID
	if err := q.db.QueryRowContext(ctx, `SELECT id FROM fantasy_teams WHERE id = $1 FOR UPDATE`, id).Scan(&locked); err != nil {
		return fmt.Errorf("failed to lock fantasy team %s: %w", id, notFound(err))
	}
	return nil
}

func scanTeam(row rowScanner) (*models.FantasyTeam, error) {
	var t models.FantasyTeam
	if err := row.Scan(
		&t.ID, &t.LeagueID, &t.Name, &t.AvailableCap, &t.CurrentDeadMoney,
		&t.NextSeasonDeadMoney, &t.FranchiseTagsUsed, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}
