package tle

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ADITYAK333/satellite-tracker/internal/metrics"
)

const (
	// DefaultURLTemplate is the CelesTrak GP endpoint; {category} is replaced
	// by the group name.
	DefaultURLTemplate = "https://celestrak.com/NORAD/elements/gp.php?GROUP={category}&FORMAT=tle"

	// DefaultTimeout bounds each category request.
	DefaultTimeout = 5 * time.Second

	// maxBodyBytes caps a single catalog response.
	maxBodyBytes = 50 << 20
)

// DefaultCategories are the CelesTrak groups fetched on every refresh, in order.
var DefaultCategories = []string{
	"active", "stations", "science", "communications",
	"gps-ops", "resource", "weather",
}

// Config controls which catalogs are fetched and how.
type Config struct {
	Categories  []string
	URLTemplate string
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// Fetcher retrieves raw TLE catalogs, one category at a time.
type Fetcher struct {
	categories  []string
	urlTemplate string
	timeout     time.Duration
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewFetcher creates a Fetcher, filling unset Config fields with defaults.
func NewFetcher(cfg Config, logger *slog.Logger) *Fetcher {
	if len(cfg.Categories) == 0 {
		cfg.Categories = DefaultCategories
	}
	if cfg.URLTemplate == "" {
		cfg.URLTemplate = DefaultURLTemplate
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	return &Fetcher{
		categories:  append([]string(nil), cfg.Categories...),
		urlTemplate: cfg.URLTemplate,
		timeout:     cfg.Timeout,
		httpClient:  cfg.HTTPClient,
		logger:      logger,
	}
}

// Categories returns the configured category list.
func (f *Fetcher) Categories() []string {
	return append([]string(nil), f.categories...)
}

// CategoryURL expands the URL template for one category.
func (f *Fetcher) CategoryURL(category string) string {
	return strings.ReplaceAll(f.urlTemplate, "{category}", url.QueryEscape(category))
}

// Fetch requests every category sequentially and returns the union of the
// records parsed from those that responded. A failing category is recorded in
// its outcome and skipped; Fetch itself never fails. Once ctx is done no
// further requests are issued and the remaining categories are marked failed.
func (f *Fetcher) Fetch(ctx context.Context) FetchResult {
	res := FetchResult{Categories: make([]CategoryOutcome, 0, len(f.categories))}

	for _, category := range f.categories {
		outcome := CategoryOutcome{Category: category, URL: f.CategoryURL(category)}

		if err := ctx.Err(); err != nil {
			outcome.Err = networkError(category, err)
			res.Categories = append(res.Categories, outcome)
			continue
		}

		start := time.Now()
		body, err := f.fetchCategory(ctx, outcome.URL)
		outcome.Duration = time.Since(start)
		metrics.ObserveFetch(category, err, outcome.Duration)

		if err != nil {
			outcome.Err = networkError(category, err)
			f.logger.Warn("skipping TLE category",
				"category", category,
				"duration_ms", outcome.Duration.Milliseconds(),
				"error", err,
			)
			res.Categories = append(res.Categories, outcome)
			continue
		}

		parsed := ParseString(string(body), f.logger)
		outcome.Records = len(parsed.Records)
		outcome.Malformed = parsed.Malformed
		outcome.Truncated = parsed.Truncated
		metrics.AddTLERecords(category, outcome.Records, outcome.Malformed)

		f.logger.Debug("TLE category fetched",
			"category", category,
			"records", outcome.Records,
			"malformed", outcome.Malformed,
			"duration_ms", outcome.Duration.Milliseconds(),
		)

		res.Records = append(res.Records, parsed.Records...)
		res.Categories = append(res.Categories, outcome)
	}

	return res
}

// fetchCategory performs one bounded HTTP GET.
func (f *Fetcher) fetchCategory(ctx context.Context, sourceURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching TLE data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, sourceURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("response from %s exceeds %d byte limit", sourceURL, maxBodyBytes)
	}

	return body, nil
}

func networkError(category string, err error) error {
	return fmt.Errorf("category %s: %w: %w", category, ErrNetwork, err)
}
