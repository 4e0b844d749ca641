package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcdev12/dynastycap/go/internal/capengine"
	"github.com/mcdev12/dynastycap/go/internal/dbconfig"
	"github.com/mcdev12/dynastycap/go/internal/models"
)

// Snapshot mirrors go/internal/assets/seed_league.json
type Snapshot struct {
	League struct {
		ID     uuid.UUID `json:"id"`
		Name   string    `json:"name"`
		Season int       `json:"season"`
		Preset string    `json:"preset"`
	} `json:"league"`
	Teams []struct {
		ID        uuid.UUID      `json:"id"`
		Name      string         `json:"name"`
		Contracts []SeedContract `json:"contracts"`
	} `json:"teams"`
}

type SeedContract struct {
	PlayerID        uuid.UUID              `json:"player_id"`
	Position        models.Position        `json:"position"`
	Years           int                    `json:"years"`
	AnnualSalary    int64                  `json:"annual_salary"`
	AcquisitionType models.AcquisitionType `json:"acquisition_type"`
	DraftRound      int                    `json:"draft_round"`
}

func main() {
	ctx := context.Background()

	// 1) Load the JSON snapshot and presets
	data, err := os.ReadFile(getEnv("SEED_FILE", "go/internal/assets/seed_league.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "read JSON: %v\n", err)
		os.Exit(1)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal JSON: %v\n", err)
		os.Exit(1)
	}
	presets, err := capengine.LoadPresets(getEnv("PRESETS_FILE", "presets.yaml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load presets: %v\n", err)
		os.Exit(1)
	}
	preset, ok := presets[snap.League.Preset]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown preset %q\n", snap.League.Preset)
		os.Exit(1)
	}

	// 2) Connect using shared dbconfig
	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 3) Build everything through the engine, then write it in one transaction
	now := time.Now().UTC()
	league := models.League{
		ID:        snap.League.ID,
		Name:      snap.League.Name,
		Season:    snap.League.Season,
		CreatedAt: now,
		UpdatedAt: now,
	}
	preset.ApplyTo(&league)
	policy, err := capengine.NewLeaguePolicy(league)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid league: %v\n", err)
		os.Exit(1)
	}

	var teams []models.FantasyTeam
	var contracts []models.Contract
	for _, t := range snap.Teams {
		var teamContracts []models.Contract
		for _, sc := range t.Contracts {
			c, err := capengine.CreateContract(policy, capengine.CreateContractInput{
				PlayerID:        sc.PlayerID,
				TeamID:          t.ID,
				Position:        sc.Position,
				Years:           sc.Years,
				AnnualSalary:    sc.AnnualSalary,
				AcquisitionType: sc.AcquisitionType,
				DraftRound:      sc.DraftRound,
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "team %s: %v\n", t.Name, err)
				os.Exit(1)
			}
			// stable ids keep re-runs idempotent
			c.ID = uuid.NewSHA1(t.ID, sc.PlayerID[:])
			c.CreatedAt, c.UpdatedAt = now, now
			teamContracts = append(teamContracts, c)
		}
		team := capengine.RecomputeTeam(policy, models.FantasyTeam{ID: t.ID, LeagueID: league.ID, Name: t.Name}, teamContracts, nil)
		team.UpdatedAt = now
		teams = append(teams, team)
		contracts = append(contracts, teamContracts...)
	}

	inserted, err := seed(ctx, pool, league, teams, contracts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}

	// 4) Print summary
	fmt.Printf(
		"League seed complete: league %s, %d teams, %d contracts (%d inserted)\n",
		league.ID, len(teams), len(contracts), inserted,
	)
}

func seed(ctx context.Context, pool *pgxpool.Pool, league models.League, teams []models.FantasyTeam, contracts []models.Contract) (int, error) {
	deadMoneyConfig, err := json.Marshal(league.DeadMoneyConfig)
	if err != nil {
		return 0, err
	}

	inserted := 0
	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
            INSERT INTO leagues (
              id, name, season, salary_cap, annual_increase_percentage, minimum_salary,
              max_franchise_tags, dead_money_config, created_at, updated_at
            ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
            ON CONFLICT (id) DO NOTHING
        `,
			league.ID, league.Name, league.Season, league.SalaryCap, league.AnnualIncreasePercentage.String(),
			league.MinimumSalary, league.MaxFranchiseTags, string(deadMoneyConfig), league.CreatedAt, league.UpdatedAt,
		); err != nil {
			return fmt.Errorf("insert league: %w", err)
		}

		for _, t := range teams {
			if _, err := tx.Exec(ctx, `
                INSERT INTO fantasy_teams (
                  id, league_id, name, available_cap, current_dead_money,
                  next_season_dead_money, franchise_tags_used, updated_at
                ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
                ON CONFLICT (id) DO NOTHING
            `,
				t.ID, t.LeagueID, t.Name, t.AvailableCap, t.CurrentDeadMoney,
				t.NextSeasonDeadMoney, t.FranchiseTagsUsed, t.UpdatedAt,
			); err != nil {
				return fmt.Errorf("insert team %s: %w", t.Name, err)
			}
		}

		for _, c := range contracts {
			cmdTag, err := tx.Exec(ctx, `
                INSERT INTO contracts (
                  id, player_id, team_id, league_id, position, original_salary, current_salary,
                  original_years, years_remaining, total_value, guaranteed_money, acquisition_type,
                  status, has_fourth_year_option, signed_season, created_at, updated_at
                ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
                ON CONFLICT (id) DO NOTHING
            `,
				c.ID, c.PlayerID, c.TeamID, c.LeagueID, string(c.Position), c.OriginalSalary, c.CurrentSalary,
				c.OriginalYears, c.YearsRemaining, c.TotalValue, c.GuaranteedMoney, string(c.AcquisitionType),
				string(c.Status), c.HasFourthYearOption, c.SignedSeason, c.CreatedAt, c.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("insert contract for player %s: %w", c.PlayerID, err)
			}
			if cmdTag.RowsAffected() == 1 {
				inserted++
			}
		}
		return nil
	})
	return inserted, err
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
