package memory

import (
	"context"
	"testing"
	"time"

	"github.com/pitchdata/matchform/internal/domain/features"
	"github.com/pitchdata/matchform/internal/domain/fixture"
)

func featureRow(season, home, away string, day int) features.FeatureRow {
	return features.FeatureRow{
		Fixture: fixture.Fixture{
			MatchDate: time.Date(2021, 1, day, 0, 0, 0, 0, time.UTC),
			Season:    season,
			HomeTeam:  home,
			AwayTeam:  away,
			Outcome:   fixture.OutcomeDraw,
		},
	}
}

func TestFeatureRepository_UpsertAndList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewFeatureRepository()

	rows := []features.FeatureRow{
		featureRow("2020-2021", "Chelsea", "Arsenal", 16),
		featureRow("2020-2021", "Arsenal", "Chelsea", 9),
		featureRow("2021-2022", "Leeds United", "Everton", 9),
	}
	if err := repo.UpsertBatch(ctx, rows); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	listed, err := repo.ListBySeason(ctx, "2020-2021")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(listed))
	}
	if listed[0].Fixture.HomeTeam != "Arsenal" || listed[1].Fixture.HomeTeam != "Chelsea" {
		t.Fatalf("rows must be ordered by match date: %+v", listed)
	}

	// Upserting the same fixture replaces it rather than duplicating.
	updated := featureRow("2020-2021", "Arsenal", "Chelsea", 9)
	updated.Fixture.Outcome = fixture.OutcomeWin
	if err := repo.UpsertBatch(ctx, []features.FeatureRow{updated}); err != nil {
		t.Fatalf("upsert update: %v", err)
	}

	listed, err = repo.ListBySeason(ctx, "2020-2021")
	if err != nil {
		t.Fatalf("list after update: %v", err)
	}
	if len(listed) != 2 || listed[0].Fixture.Outcome != fixture.OutcomeWin {
		t.Fatalf("expected updated row, got %+v", listed)
	}
}

func TestFeatureRepository_DeleteBySeason(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewFeatureRepository()

	rows := []features.FeatureRow{
		featureRow("2020-2021", "Arsenal", "Chelsea", 9),
		featureRow("2020-2021", "Chelsea", "Arsenal", 16),
		featureRow("2021-2022", "Leeds United", "Everton", 9),
	}
	if err := repo.UpsertBatch(ctx, rows); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	deleted, err := repo.DeleteBySeason(ctx, "2020-2021")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted rows, got %d", deleted)
	}

	remaining, err := repo.ListBySeason(ctx, "2020-2021")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("season must be empty after delete, got %d rows", len(remaining))
	}

	other, err := repo.ListBySeason(ctx, "2021-2022")
	if err != nil {
		t.Fatalf("list other: %v", err)
	}
	if len(other) != 1 {
		t.Fatalf("other seasons must be untouched, got %d rows", len(other))
	}
}
