package tle

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNetwork marks a category whose request timed out, failed to connect,
	// returned a non-2xx status or exceeded the body limit.
	ErrNetwork = errors.New("tle source unavailable")

	// ErrMalformedRecord marks a three-line group whose orbital lines do not
	// carry the "1 " / "2 " prefixes.
	ErrMalformedRecord = errors.New("malformed TLE record")
)

// RawRecord is one satellite's name line plus its two orbital element lines.
// Line1 always starts with "1 " and Line2 with "2 ".
type RawRecord struct {
	Name  string
	Line1 string
	Line2 string
}

// NORADID decodes the catalog number from line 1 columns 3-7.
func (r RawRecord) NORADID() (int, error) {
	if len(r.Line1) < 7 {
		return 0, fmt.Errorf("line1 too short for catalog number: %d chars", len(r.Line1))
	}
	noradStr := strings.TrimSpace(r.Line1[2:7])
	id, err := strconv.Atoi(noradStr)
	if err != nil {
		return 0, fmt.Errorf("invalid catalog number %q: %w", noradStr, err)
	}
	return id, nil
}

// Epoch decodes the element set epoch from line 1 columns 19-32.
func (r RawRecord) Epoch() (time.Time, error) {
	if len(r.Line1) < 32 {
		return time.Time{}, fmt.Errorf("line1 too short for epoch: %d chars", len(r.Line1))
	}
	return parseEpoch(strings.TrimSpace(r.Line1[18:32]))
}

// CategoryOutcome records how one category's request went.
type CategoryOutcome struct {
	Category  string
	URL       string
	Records   int
	Malformed int
	Truncated int
	Duration  time.Duration
	Err       error
}

// OK reports whether the category contributed to the result.
func (o CategoryOutcome) OK() bool {
	return o.Err == nil
}

// FetchResult is the union of records from every category that responded,
// plus one outcome per category in request order.
type FetchResult struct {
	Records    []RawRecord
	Categories []CategoryOutcome
}

// Failed returns the outcomes of categories that were skipped.
func (r FetchResult) Failed() []CategoryOutcome {
	var failed []CategoryOutcome
	for _, c := range r.Categories {
		if !c.OK() {
			failed = append(failed, c)
		}
	}
	return failed
}

// Malformed returns the total number of rejected groups across categories.
func (r FetchResult) Malformed() int {
	var n int
	for _, c := range r.Categories {
		n += c.Malformed
	}
	return n
}
