package resultsfeed

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/pitchdata/matchform/internal/platform/cache"
	"github.com/pitchdata/matchform/internal/platform/logging"
	"github.com/pitchdata/matchform/internal/platform/resilience"
	"github.com/pitchdata/matchform/internal/usecase"
)

// maxSeasonFileBytes caps a downloaded season file. A full season of
// per-team rows is well under a megabyte; anything larger is a feed fault.
const maxSeasonFileBytes = 32 << 20

var errFeedTransient = crerr.New("results feed transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	Cache          *cache.Store
}

// Client downloads raw season result files from an HTTP feed so a fresh
// checkout can run the pipeline end to end without pre-staged files.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	cache          *cache.Store
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		cache:          cfg.Cache,
	}
}

// DownloadSeason fetches one season's raw results and writes them into
// destDir as <season>.csv, returning the written path.
func (c *Client) DownloadSeason(ctx context.Context, season, destDir string) (string, error) {
	season = strings.TrimSpace(season)
	if season == "" {
		return "", fmt.Errorf("%w: season is required", usecase.ErrInvalidInput)
	}
	if c.baseURL == "" {
		return "", fmt.Errorf("%w: results feed base url is not configured", usecase.ErrDependencyUnavailable)
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(attribute.String("feed.season", season))
	}

	payload, err := c.fetchSeason(ctx, season)
	if err != nil {
		return "", err
	}
	if len(payload) == 0 {
		return "", crerr.Newf("feed returned an empty file for season %s", season)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create input dir: %w", err)
	}
	path := filepath.Join(destDir, season+".csv")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	c.logger.InfoContext(ctx, "season file downloaded",
		"season", season, "path", path, "bytes", len(payload))
	return path, nil
}

func (c *Client) fetchSeason(ctx context.Context, season string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "results feed circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: results feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + "/seasons/" + url.PathEscape(season) + ".csv"

	load := func(ctx context.Context) (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isFeedCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	}

	var out any
	var err error
	if c.cache != nil {
		out, err = c.cache.GetOrLoad(ctx, "resultsfeed:season:"+season, load)
	} else {
		out, err, _ = c.flight.Do(fullURL, func() (any, error) { return load(ctx) })
	}
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, crerr.Newf("unexpected feed payload type %T", out)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "text/csv")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errFeedTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxSeasonFileBytes))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errFeedTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: feed status=%d body=%s", errFeedTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, crerr.Newf("feed status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.New("feed request failed")
	}
	c.logger.WarnContext(ctx, "results feed request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isFeedCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errFeedTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
