package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/dynastycap/go/internal/models"
	"github.com/mcdev12/dynastycap/go/internal/sqlutil"
	"github.com/sqlc-dev/pqtype"
)

const leagueColumns = `id, name, season, salary_cap, annual_increase_percentage, minimum_salary,
	max_franchise_tags, dead_money_config, last_turnover_season, created_at, updated_at`

func (q *Queries) CreateLeague(ctx context.Context, l models.League) error {
	cfg, err := deadMoneyConfigToJSON(l.DeadMoneyConfig)
	if err != nil {
		return err
	}
	_, err = q.db.ExecContext(ctx, `
		INSERT INTO leagues (`+leagueColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		l.ID, l.Name, l.Season, l.SalaryCap, l.AnnualIncreasePercentage, l.MinimumSalary,
		l.MaxFranchiseTags, cfg, sqlutil.ToSqlInt32(l.LastTurnoverSeason), l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert league: %w", err)
	}
	return nil
}

func (q *Queries) GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+leagueColumns+` FROM leagues WHERE id = $1`, id)
	l, err := scanLeague(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get league %s: %w", id, notFound(err))
	}
	return l, nil
}

func (q *Queries) UpdateLeague(ctx context.Context, l models.League) error {
	cfg, err := deadMoneyConfigToJSON(l.DeadMoneyConfig)
	if err != nil {
		return err
	}
	res, err := q.db.ExecContext(ctx, `
		UPDATE leagues SET
			name = $2, season = $3, salary_cap = $4, annual_increase_percentage = $5,
			minimum_salary = $6, max_franchise_tags = $7, dead_money_config = $8,
			last_turnover_season = $9, updated_at = $10
		WHERE id = $1`,
		l.ID, l.Name, l.Season, l.SalaryCap, l.AnnualIncreasePercentage,
		l.MinimumSalary, l.MaxFranchiseTags, cfg,
		sqlutil.ToSqlInt32(l.LastTurnoverSeason), l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update league: %w", err)
	}
	return expectOne(res, "league", l.ID)
}

// LockLeague takes a row lock on the league and all of its teams.
func (q *Queries) LockLeague(ctx context.Context, id uuid.UUID) error {
	var locked uuid.UUID
	if err := q.db.QueryRowContext(ctx, `SELECT id FROM leagues WHERE id = $1 FOR UPDATE`, id).Scan(&locked); err != nil {
		return fmt.Errorf("failed to lock league %s: %w", id, notFound(err))
	}
	rows, err := q.db.QueryContext(ctx, `SELECT id FROM fantasy_teams WHERE league_id = $1 ORDER BY id FOR UPDATE`, id)
	if err != nil {
		return fmt.Errorf("failed to lock league teams: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		if err := rows.Scan(&locked); err != nil {
			return fmt.Errorf("failed to lock league teams: %w", err)
		}
	}
	return rows.Err()
}

func scanLeague(row rowScanner) (*models.League, error) {
	var (
		l        models.League
		cfg      pqtype.NullRawMessage
		turnover sql.NullInt32
	)
	if err := row.Scan(
		&l.ID, &l.Name, &l.Season, &l.SalaryCap, &l.AnnualIncreasePercentage, &l.MinimumSalary,
		&l.MaxFranchiseTags, &cfg, &turnover, &l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if cfg.Valid {
		if err := json.Unmarshal(cfg.RawMessage, &l.DeadMoneyConfig); err != nil {
			return nil, fmt.Errorf("failed to decode dead money config: %w", err)
		}
	}
	l.LastTurnoverSeason = sqlutil.FromSqlInt32(turnover)
	return &l, nil
}

func deadMoneyConfigToJSON(cfg models.DeadMoneyConfig) (pqtype.NullRawMessage, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return pqtype.NullRawMessage{}, fmt.Errorf("failed to encode dead money config: %w", err)
	}
	return pqtype.NullRawMessage{RawMessage: data, Valid: true}, nil
}

func expectOne(res sql.Result, what string, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return nil
}
