package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/pitchdata/matchform/internal/domain/features"
)

// FeatureRepository keeps engineered rows in memory. It backs tests and
// store-disabled pipeline runs.
type FeatureRepository struct {
	mu           sync.RWMutex
	rowsBySeason map[string]map[string]features.FeatureRow
}

func NewFeatureRepository() *FeatureRepository {
	return &FeatureRepository{
		rowsBySeason: make(map[string]map[string]features.FeatureRow),
	}
}

func (r *FeatureRepository) UpsertBatch(_ context.Context, rows []features.FeatureRow) error {
	if len(rows) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range rows {
		season := row.Fixture.Season
		byKey, ok := r.rowsBySeason[season]
		if !ok {
			byKey = make(map[string]features.FeatureRow)
			r.rowsBySeason[season] = byKey
		}
		byKey[row.Fixture.Key()] = row
	}
	return nil
}

func (r *FeatureRepository) ListBySeason(_ context.Context, season string) ([]features.FeatureRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byKey := r.rowsBySeason[season]
	out := make([]features.FeatureRow, 0, len(byKey))
	for _, row := range byKey {
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		left, right := out[i].Fixture, out[j].Fixture
		if !left.MatchDate.Equal(right.MatchDate) {
			return left.MatchDate.Before(right.MatchDate)
		}
		if left.HomeTeam != right.HomeTeam {
			return left.HomeTeam < right.HomeTeam
		}
		return left.AwayTeam < right.AwayTeam
	})
	return out, nil
}

func (r *FeatureRepository) DeleteBySeason(_ context.Context, season string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := len(r.rowsBySeason[season])
	delete(r.rowsBySeason, season)
	return deleted, nil
}
