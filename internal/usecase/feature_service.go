package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/pitchdata/matchform/internal/domain/features"
	"github.com/pitchdata/matchform/internal/domain/fixture"
	"github.com/pitchdata/matchform/internal/domain/teamform"
	"github.com/pitchdata/matchform/internal/platform/logging"
)

type FeatureConfig struct {
	FormWindow  int
	TeamWorkers int
}

type FeatureService struct {
	cfg    FeatureConfig
	logger *logging.Logger
}

func NewFeatureService(cfg FeatureConfig, logger *logging.Logger) *FeatureService {
	if cfg.FormWindow <= 0 {
		cfg.FormWindow = teamform.DefaultWindow
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &FeatureService{
		cfg:    cfg,
		logger: logger,
	}
}

// Window reports the configured rolling window size.
func (s *FeatureService) Window() int {
	return s.cfg.FormWindow
}

// Engineer enriches one season of fixtures with rolling form, comparison
// features and team indicator vectors. Rolling windows only ever look at a
// team's earlier matches, so a fixture never contributes to its own features.
func (s *FeatureService) Engineer(ctx context.Context, fixtures []fixture.Fixture) (features.Dataset, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeatureService.Engineer")
	defer span.End()

	if len(fixtures) == 0 {
		return features.Dataset{Window: s.cfg.FormWindow}, nil
	}

	season := fixtures[0].Season
	seen := make(map[string]struct{}, len(fixtures))
	for _, f := range fixtures {
		if f.Season != season {
			return features.Dataset{}, fmt.Errorf("%w: fixtures span multiple seasons (%s and %s)", ErrInvalidInput, season, f.Season)
		}
		key := f.Key()
		if _, exists := seen[key]; exists {
			return features.Dataset{}, fmt.Errorf("%w: duplicate fixture %s", ErrInvalidInput, key)
		}
		seen[key] = struct{}{}
	}

	histories := teamform.BuildHistories(fixtures)
	rolled, err := s.computeRollingHistories(histories)
	if err != nil {
		return features.Dataset{}, err
	}
	index, err := teamform.BuildStatsIndex(rolled)
	if err != nil {
		return features.Dataset{}, err
	}

	encoder := features.NewTeamEncoder(fixtures)
	rows := make([]features.FeatureRow, 0, len(fixtures))
	for _, f := range fixtures {
		home, _ := index.Lookup(f.HomeTeam, f.MatchDate)
		away, _ := index.Lookup(f.AwayTeam, f.MatchDate)
		rows = append(rows, features.FeatureRow{
			Fixture:    f,
			Home:       home,
			Away:       away,
			Comparison: features.Compare(home, away),
			Indicators: encoder.Encode(f.HomeTeam, f.AwayTeam),
		})
	}

	s.logger.DebugContext(ctx, "engineered season features", "season", season, "fixtures", len(fixtures), "teams", len(rolled))

	return features.Dataset{
		Season:  season,
		Window:  s.cfg.FormWindow,
		Rows:    rows,
		Encoder: encoder,
	}, nil
}

// computeRollingHistories fans rolling-average computation out per team and
// reassembles the results in team order.
func (s *FeatureService) computeRollingHistories(histories map[string][]teamform.TeamMatchRecord) ([]teamform.History, error) {
	teams := make([]string, 0, len(histories))
	for team := range histories {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	if len(teams) == 0 {
		return nil, nil
	}

	workerCount := normalizeWorkerCount(s.cfg.TeamWorkers, len(teams))
	results := make(chan teamform.History, len(teams))

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, team := range teams {
		team := team
		records := histories[team]
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			results <- teamform.History{
				Team:    team,
				Records: records,
				Rolling: teamform.ComputeRolling(records, s.cfg.FormWindow),
			}
		}); err != nil {
			workers.Done()
			return nil, fmt.Errorf("submit team to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	out := make([]teamform.History, 0, len(teams))
	for h := range results {
		out = append(out, h)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Team < out[j].Team
	})
	return out, nil
}

func normalizeWorkerCount(value int, taskCount int) int {
	if taskCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = 1
	}
	if value > taskCount {
		value = taskCount
	}
	return value
}
