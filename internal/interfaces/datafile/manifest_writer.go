package datafile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"

	"github.com/pitchdata/matchform/internal/platform/logging"
	"github.com/pitchdata/matchform/internal/usecase"
)

// ManifestWriter records a pipeline run report as JSON next to the datasets
// it produced.
type ManifestWriter struct {
	logger *logging.Logger
}

func NewManifestWriter(logger *logging.Logger) *ManifestWriter {
	if logger == nil {
		logger = logging.Default()
	}

	return &ManifestWriter{logger: logger}
}

func (w *ManifestWriter) WriteManifest(ctx context.Context, dir string, report usecase.PipelineReport) (string, error) {
	ctx, span := startSpan(ctx, "datafile.ManifestWriter.WriteManifest")
	defer span.End()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	payload, err := sonic.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}

	path := filepath.Join(dir, manifestFileName(report))
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	w.logger.DebugContext(ctx, "manifest file written", "path", path, "run_id", report.RunID)
	return path, nil
}

func manifestFileName(report usecase.PipelineReport) string {
	if report.RunID == "" {
		return "run_manifest.json"
	}
	return fmt.Sprintf("run_%s_manifest.json", report.RunID)
}
