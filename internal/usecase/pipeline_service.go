package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/pitchdata/matchform/internal/domain/features"
	"github.com/pitchdata/matchform/internal/platform/id"
	"github.com/pitchdata/matchform/internal/platform/logging"
)

// ResultFileReader lists and parses raw result files from a drop directory.
type ResultFileReader interface {
	ListSeasonFiles(ctx context.Context, dir string) ([]string, error)
	ReadSeasonFile(ctx context.Context, path string) ([]RawResultRow, error)
}

// DatasetWriter persists one engineered season dataset and returns the path
// it wrote.
type DatasetWriter interface {
	WriteDataset(ctx context.Context, dir string, dataset features.Dataset) (string, error)
}

// RunManifestWriter records the outcome of a pipeline run next to its outputs.
type RunManifestWriter interface {
	WriteManifest(ctx context.Context, dir string, report PipelineReport) (string, error)
}

type PipelineConfig struct {
	InputDir    string
	OutputDir   string
	FileWorkers int
}

type PipelineReport struct {
	RunID        string               `json:"run_id"`
	StartedAt    time.Time            `json:"started_at"`
	DurationMs   int64                `json:"duration_ms"`
	Window       int                  `json:"window"`
	FileCount    int                  `json:"file_count"`
	SeasonCount  int                  `json:"season_count"`
	TeamCount    int                  `json:"team_count"`
	FeatureRows  int                  `json:"feature_rows"`
	SuccessCount int                  `json:"success_count"`
	FailedCount  int                  `json:"failed_count"`
	SkippedCount int                  `json:"skipped_count"`
	WorkerCount  int                  `json:"worker_count"`
	Files        []PipelineFileResult `json:"files"`
}

type PipelineFileResult struct {
	Path        string   `json:"path"`
	Status      string   `json:"status"`
	Seasons     []string `json:"seasons,omitempty"`
	RawRows     int      `json:"raw_rows"`
	TeamCount   int      `json:"team_count"`
	FeatureRows int      `json:"feature_rows"`
	Outputs     []string `json:"outputs,omitempty"`
	DurationMs  int64    `json:"duration_ms"`
	Message     string   `json:"message,omitempty"`
}

const (
	pipelineStatusSuccess = "success"
	pipelineStatusFailed  = "failed"
	pipelineStatusSkipped = "skipped"
)

type PipelineService struct {
	reader     ResultFileReader
	writers    []DatasetWriter
	manifest   RunManifestWriter
	store      features.Repository
	preprocess *PreprocessService
	engineer   *FeatureService
	ids        id.Generator
	cfg        PipelineConfig
	logger     *logging.Logger
}

// NewPipelineService wires the batch pipeline. The store may be nil when no
// feature store is configured; the manifest writer may be nil to skip run
// manifests.
func NewPipelineService(
	reader ResultFileReader,
	writers []DatasetWriter,
	manifest RunManifestWriter,
	store features.Repository,
	preprocess *PreprocessService,
	engineer *FeatureService,
	ids id.Generator,
	cfg PipelineConfig,
	logger *logging.Logger,
) *PipelineService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PipelineService{
		reader:     reader,
		writers:    writers,
		manifest:   manifest,
		store:      store,
		preprocess: preprocess,
		engineer:   engineer,
		ids:        ids,
		cfg:        cfg,
		logger:     logger,
	}
}

// Run processes every raw result file in the input directory: preprocess,
// engineer per season, write outputs, and record a run manifest. Files are
// processed concurrently; per-file failures are reported without aborting
// the other files.
func (s *PipelineService) Run(ctx context.Context) (PipelineReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService.Run")
	defer span.End()

	if s.reader == nil || s.preprocess == nil || s.engineer == nil {
		return PipelineReport{}, fmt.Errorf("%w: pipeline is not fully configured", ErrDependencyUnavailable)
	}

	runID := ""
	if s.ids != nil {
		generated, err := s.ids.NewID()
		if err != nil {
			return PipelineReport{}, fmt.Errorf("generate run id: %w", err)
		}
		runID = generated
	}

	start := time.Now()
	report := PipelineReport{
		RunID:     runID,
		StartedAt: start.UTC(),
		Window:    s.engineer.Window(),
	}

	files, err := s.reader.ListSeasonFiles(ctx, s.cfg.InputDir)
	if err != nil {
		return PipelineReport{}, fmt.Errorf("list input files in %s: %w", s.cfg.InputDir, err)
	}
	report.FileCount = len(files)

	workerCount := normalizeWorkerCount(s.cfg.FileWorkers, len(files))
	report.WorkerCount = workerCount

	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("pipeline.run_id", runID),
			attribute.Int("pipeline.file_count", len(files)),
			attribute.Int("pipeline.worker_count", workerCount),
		)
	}

	if len(files) == 0 {
		s.logger.WarnContext(ctx, "no raw result files found", "input_dir", s.cfg.InputDir)
		return s.finalize(ctx, report, start)
	}

	results := make(chan PipelineFileResult, len(files))

	var successCount atomic.Int32
	var failedCount atomic.Int32
	var skippedCount atomic.Int32
	var seasonCount atomic.Int32
	var teamCount atomic.Int32
	var rowCount atomic.Int32

	workers := pool.New().WithMaxGoroutines(workerCount)
	for _, path := range files {
		path := path
		workers.Go(func() {
			taskStart := time.Now()
			row := s.processFile(ctx, path)
			row.DurationMs = time.Since(taskStart).Milliseconds()

			switch row.Status {
			case pipelineStatusSuccess:
				successCount.Add(1)
			case pipelineStatusSkipped:
				skippedCount.Add(1)
			default:
				failedCount.Add(1)
			}
			seasonCount.Add(int32(len(row.Seasons)))
			teamCount.Add(int32(row.TeamCount))
			rowCount.Add(int32(row.FeatureRows))

			results <- row
		})
	}

	workers.Wait()
	close(results)

	report.Files = make([]PipelineFileResult, 0, len(files))
	for row := range results {
		report.Files = append(report.Files, row)
	}
	sort.SliceStable(report.Files, func(i, j int) bool {
		return report.Files[i].Path < report.Files[j].Path
	})

	report.SuccessCount = int(successCount.Load())
	report.FailedCount = int(failedCount.Load())
	report.SkippedCount = int(skippedCount.Load())
	report.SeasonCount = int(seasonCount.Load())
	report.TeamCount = int(teamCount.Load())
	report.FeatureRows = int(rowCount.Load())

	if err := ctx.Err(); err != nil {
		report.DurationMs = time.Since(start).Milliseconds()
		return report, err
	}

	return s.finalize(ctx, report, start)
}

func (s *PipelineService) finalize(ctx context.Context, report PipelineReport, start time.Time) (PipelineReport, error) {
	report.DurationMs = time.Since(start).Milliseconds()

	if s.manifest != nil {
		path, err := s.manifest.WriteManifest(ctx, s.cfg.OutputDir, report)
		if err != nil {
			return report, fmt.Errorf("write run manifest: %w", err)
		}
		s.logger.InfoContext(ctx, "run manifest written", "path", path)
	}

	s.logger.InfoContext(ctx, "pipeline run finished",
		"run_id", report.RunID,
		"files", report.FileCount,
		"seasons", report.SeasonCount,
		"teams", report.TeamCount,
		"feature_rows", report.FeatureRows,
		"success", report.SuccessCount,
		"failed", report.FailedCount,
		"skipped", report.SkippedCount,
		"duration_ms", report.DurationMs,
	)
	return report, nil
}

func (s *PipelineService) processFile(ctx context.Context, path string) PipelineFileResult {
	row := PipelineFileResult{Path: path}

	if err := ctx.Err(); err != nil {
		row.Status = pipelineStatusFailed
		row.Message = err.Error()
		return row
	}

	rawRows, err := s.reader.ReadSeasonFile(ctx, path)
	if err != nil {
		row.Status = pipelineStatusFailed
		row.Message = fmt.Sprintf("read file: %v", err)
		return row
	}
	row.RawRows = len(rawRows)

	batches, err := s.preprocess.Preprocess(ctx, rawRows)
	if err != nil {
		row.Status = pipelineStatusFailed
		row.Message = fmt.Sprintf("preprocess: %v", err)
		return row
	}
	if len(batches) == 0 {
		row.Status = pipelineStatusSkipped
		row.Message = "no paired fixtures in file"
		return row
	}

	for _, batch := range batches {
		dataset, err := s.engineer.Engineer(ctx, batch.Fixtures)
		if err != nil {
			row.Status = pipelineStatusFailed
			row.Message = fmt.Sprintf("engineer season %s: %v", batch.Season, err)
			return row
		}

		for _, writer := range s.writers {
			output, err := writer.WriteDataset(ctx, s.cfg.OutputDir, dataset)
			if err != nil {
				row.Status = pipelineStatusFailed
				row.Message = fmt.Sprintf("write season %s: %v", batch.Season, err)
				return row
			}
			row.Outputs = append(row.Outputs, output)
		}

		if s.store != nil {
			if err := s.store.UpsertBatch(ctx, dataset.Rows); err != nil {
				row.Status = pipelineStatusFailed
				row.Message = fmt.Sprintf("store season %s: %v", batch.Season, err)
				return row
			}
		}

		row.Seasons = append(row.Seasons, batch.Season)
		row.TeamCount += len(dataset.Encoder.Teams())
		row.FeatureRows += len(dataset.Rows)
	}

	row.Status = pipelineStatusSuccess
	return row
}
