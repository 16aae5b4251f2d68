package bodies

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/ADITYAK333/satellite-tracker/internal/metrics"
)

const (
	// DefaultURL is the le-systeme-solaire bodies endpoint.
	DefaultURL = "https://api.le-systeme-solaire.net/rest/bodies/"

	// DefaultTimeout bounds the request.
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 20 << 20
)

// Config controls where bodies are fetched from.
type Config struct {
	URL        string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Fetcher retrieves the bodies catalog.
type Fetcher struct {
	url        string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// NewFetcher creates a Fetcher, filling unset Config fields with defaults.
func NewFetcher(cfg Config, logger *slog.Logger) *Fetcher {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	return &Fetcher{
		url:        cfg.URL,
		timeout:    cfg.Timeout,
		httpClient: cfg.HTTPClient,
		logger:     logger,
	}
}

type envelope struct {
	Bodies []Body `json:"bodies"`
}

// Fetch downloads and decodes the catalog. On any failure it logs the error
// and returns it together with an empty, non-nil list so callers can render an
// empty table.
func (f *Fetcher) Fetch(ctx context.Context) ([]Body, error) {
	start := time.Now()
	bodies, err := f.fetch(ctx)
	metrics.ObserveBodiesFetch(err)

	if err != nil {
		f.logger.Warn("bodies fetch failed",
			"url", f.url,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return []Body{}, err
	}

	f.logger.Debug("bodies fetched",
		"count", len(bodies),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return bodies, nil
}

func (f *Fetcher) fetch(ctx context.Context) ([]Body, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching bodies: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, f.url)
	}

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&env); err != nil {
		return nil, fmt.Errorf("decoding bodies: %w", err)
	}
	if env.Bodies == nil {
		env.Bodies = []Body{}
	}
	return env.Bodies, nil
}
