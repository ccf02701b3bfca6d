package cache

import (
	"context"

	"github.com/pitchdata/matchform/internal/domain/features"
	basecache "github.com/pitchdata/matchform/internal/platform/cache"
)

// FeatureRepository is a read-through cache in front of a feature store.
// Season listings are cached under one key per season; every write
// invalidates exactly the seasons it touched.
type FeatureRepository struct {
	next  features.Repository
	cache *basecache.Store
}

func NewFeatureRepository(next features.Repository, cache *basecache.Store) *FeatureRepository {
	return &FeatureRepository{next: next, cache: cache}
}

func (r *FeatureRepository) UpsertBatch(ctx context.Context, rows []features.FeatureRow) error {
	if err := r.next.UpsertBatch(ctx, rows); err != nil {
		return err
	}

	seen := make(map[string]struct{}, 1)
	for _, row := range rows {
		season := row.Fixture.Season
		if _, ok := seen[season]; ok {
			continue
		}
		seen[season] = struct{}{}
		r.cache.Delete(ctx, featureSeasonKey(season))
	}
	return nil
}

func (r *FeatureRepository) ListBySeason(ctx context.Context, season string) ([]features.FeatureRow, error) {
	v, err := r.cache.GetOrLoad(ctx, featureSeasonKey(season), func(ctx context.Context) (any, error) {
		rows, err := r.next.ListBySeason(ctx, season)
		if err != nil {
			return nil, err
		}
		out := make([]features.FeatureRow, 0, len(rows))
		for _, row := range rows {
			out = append(out, cloneFeatureRow(row))
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	rows, _ := v.([]features.FeatureRow)
	out := make([]features.FeatureRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, cloneFeatureRow(row))
	}
	return out, nil
}

func (r *FeatureRepository) DeleteBySeason(ctx context.Context, season string) (int, error) {
	deleted, err := r.next.DeleteBySeason(ctx, season)
	if err != nil {
		return 0, err
	}
	r.cache.Delete(ctx, featureSeasonKey(season))
	return deleted, nil
}

func cloneFeatureRow(row features.FeatureRow) features.FeatureRow {
	out := row
	out.Indicators = append([]float64(nil), row.Indicators...)
	return out
}

func featureSeasonKey(season string) string {
	return "features:season:" + season
}
