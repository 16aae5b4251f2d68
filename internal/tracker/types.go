package tracker

import (
	"time"

	"github.com/ADITYAK333/satellite-tracker/internal/tle"
)

// PositionRecord is one satellite placed at the frame's evaluation instant.
type PositionRecord struct {
	Name       string  `json:"name" yaml:"name"`
	NORADID    int     `json:"norad_id,omitempty" yaml:"norad_id,omitempty"`
	Latitude   float64 `json:"latitude" yaml:"latitude"`
	Longitude  float64 `json:"longitude" yaml:"longitude"`
	AltitudeKm float64 `json:"altitude_km" yaml:"altitude_km"`
	Line1      string  `json:"tle1" yaml:"tle1"`
	Line2      string  `json:"tle2" yaml:"tle2"`
	Country    string  `json:"country" yaml:"country"`
	Type       string  `json:"type" yaml:"type"`
}

// Skip names a record that was dropped during propagation and why.
type Skip struct {
	Name   string `json:"name" yaml:"name"`
	Reason string `json:"reason" yaml:"reason"`
}

// Report accounts for everything that was fetched, dropped or reused while
// building a frame.
type Report struct {
	Categories         []tle.CategoryOutcome
	FetchedAt          time.Time
	Fetched            int
	Malformed          int
	Propagated         int
	PropagationSkipped int
	Skips              []Skip
	CacheHit           bool
}

// FailedCategories returns the names of categories that did not respond.
func (r Report) FailedCategories() []string {
	var out []string
	for _, c := range r.Categories {
		if !c.OK() {
			out = append(out, c.Category)
		}
	}
	return out
}

// Frame is the result of one refresh. Records keep the fetch order: category
// order first, then the order within each feed.
type Frame struct {
	EvaluatedAt time.Time
	Records     []PositionRecord
	Report      Report
}

// CategorySummary is the serializable form of a category outcome.
type CategorySummary struct {
	Category   string `json:"category" yaml:"category"`
	Records    int    `json:"records" yaml:"records"`
	Malformed  int    `json:"malformed" yaml:"malformed"`
	Truncated  int    `json:"truncated,omitempty" yaml:"truncated,omitempty"`
	DurationMs int64  `json:"duration_ms" yaml:"duration_ms"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

// ReportSummary is the serializable form of a Report.
type ReportSummary struct {
	FetchedAt          *time.Time        `json:"fetched_at,omitempty" yaml:"fetched_at,omitempty"`
	Fetched            int               `json:"fetched" yaml:"fetched"`
	Malformed          int               `json:"malformed" yaml:"malformed"`
	Propagated         int               `json:"propagated" yaml:"propagated"`
	PropagationSkipped int               `json:"propagation_skipped" yaml:"propagation_skipped"`
	CacheHit           bool              `json:"cache_hit" yaml:"cache_hit"`
	FailedCategories   []string          `json:"failed_categories,omitempty" yaml:"failed_categories,omitempty"`
	Categories         []CategorySummary `json:"categories" yaml:"categories"`
	Skips              []Skip            `json:"skips,omitempty" yaml:"skips,omitempty"`
}

// Summary flattens r for JSON and YAML output; errors become strings.
func (r Report) Summary() ReportSummary {
	s := ReportSummary{
		Fetched:            r.Fetched,
		Malformed:          r.Malformed,
		Propagated:         r.Propagated,
		PropagationSkipped: r.PropagationSkipped,
		CacheHit:           r.CacheHit,
		FailedCategories:   r.FailedCategories(),
		Categories:         make([]CategorySummary, 0, len(r.Categories)),
		Skips:              r.Skips,
	}
	if !r.FetchedAt.IsZero() {
		at := r.FetchedAt.UTC()
		s.FetchedAt = &at
	}
	for _, c := range r.Categories {
		cs := CategorySummary{
			Category:   c.Category,
			Records:    c.Records,
			Malformed:  c.Malformed,
			Truncated:  c.Truncated,
			DurationMs: c.Duration.Milliseconds(),
		}
		if c.Err != nil {
			cs.Error = c.Err.Error()
		}
		s.Categories = append(s.Categories, cs)
	}
	return s
}
