package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pitchdata/matchform/internal/domain/features"
	qb "github.com/pitchdata/matchform/internal/platform/querybuilder"
)

// matchFeatureUpsertSuffix resurrects soft-deleted fixtures on re-ingest and
// refreshes every derived column. The conflict target matches the partial
// unique index on live rows.
const matchFeatureUpsertSuffix = `ON CONFLICT (season, match_date, home_team, away_team) WHERE deleted_at IS NULL
DO UPDATE SET
    kickoff = EXCLUDED.kickoff,
    round = EXCLUDED.round,
    venue = EXCLUDED.venue,
    result = EXCLUDED.result,
    home_goals = EXCLUDED.home_goals,
    away_goals = EXCLUDED.away_goals,
    home_xg = EXCLUDED.home_xg,
    away_xg = EXCLUDED.away_xg,
    home_sh = EXCLUDED.home_sh,
    away_sh = EXCLUDED.away_sh,
    home_sot = EXCLUDED.home_sot,
    away_sot = EXCLUDED.away_sot,
    home_poss = EXCLUDED.home_poss,
    away_poss = EXCLUDED.away_poss,
    home_form = EXCLUDED.home_form,
    home_avg_goals = EXCLUDED.home_avg_goals,
    home_avg_goals_conceded = EXCLUDED.home_avg_goals_conceded,
    home_avg_xg = EXCLUDED.home_avg_xg,
    home_avg_xg_conceded = EXCLUDED.home_avg_xg_conceded,
    home_avg_poss = EXCLUDED.home_avg_poss,
    home_avg_shots = EXCLUDED.home_avg_shots,
    home_avg_shots_on_target = EXCLUDED.home_avg_shots_on_target,
    away_form = EXCLUDED.away_form,
    away_avg_goals = EXCLUDED.away_avg_goals,
    away_avg_goals_conceded = EXCLUDED.away_avg_goals_conceded,
    away_avg_xg = EXCLUDED.away_avg_xg,
    away_avg_xg_conceded = EXCLUDED.away_avg_xg_conceded,
    away_avg_poss = EXCLUDED.away_avg_poss,
    away_avg_shots = EXCLUDED.away_avg_shots,
    away_avg_shots_on_target = EXCLUDED.away_avg_shots_on_target,
    form_difference = EXCLUDED.form_difference,
    goals_difference = EXCLUDED.goals_difference,
    xg_difference = EXCLUDED.xg_difference,
    poss_difference = EXCLUDED.poss_difference,
    defensive_difference = EXCLUDED.defensive_difference,
    updated_at = NOW(),
    deleted_at = NULL`

type FeatureRepository struct {
	db *sqlx.DB
}

func NewFeatureRepository(db *sqlx.DB) *FeatureRepository {
	return &FeatureRepository{db: db}
}

func (r *FeatureRepository) UpsertBatch(ctx context.Context, rows []features.FeatureRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert match features: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, row := range rows {
		query, args, err := qb.InsertModel("match_features", matchFeatureInsertModelFromRow(row), matchFeatureUpsertSuffix)
		if err != nil {
			return fmt.Errorf("build upsert match feature query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert match feature season=%s fixture=%s: %w", row.Fixture.Season, row.Fixture.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert match features tx: %w", err)
	}
	return nil
}

func (r *FeatureRepository) ListBySeason(ctx context.Context, season string) ([]features.FeatureRow, error) {
	query, args, err := qb.Select("*").From("match_features").
		Where(
			qb.Eq("season", season),
			qb.IsNull("deleted_at"),
		).
		OrderBy("match_date", "home_team", "away_team", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list match features query: %w", err)
	}

	var models []matchFeatureTableModel
	if err := r.db.SelectContext(ctx, &models, query, args...); err != nil {
		return nil, fmt.Errorf("list match features season=%s: %w", season, err)
	}

	out := make([]features.FeatureRow, 0, len(models))
	for _, model := range models {
		out = append(out, featureRowFromModel(model))
	}
	return out, nil
}

func (r *FeatureRepository) DeleteBySeason(ctx context.Context, season string) (int, error) {
	query, args, err := qb.Update("match_features").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("season", season),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build delete match features query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete match features season=%s: %w", season, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted match features: %w", err)
	}
	return int(affected), nil
}
