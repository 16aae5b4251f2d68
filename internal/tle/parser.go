package tle

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// ParseResult holds the accepted records of one catalog response and the
// number of groups that were dropped.
type ParseResult struct {
	Records []RawRecord
	// Malformed counts complete groups rejected for bad line prefixes.
	Malformed int
	// Truncated counts leftover lines (1 or 2) after the last complete group.
	Truncated int
}

// Parse reads 3-line NORAD TLE text from r.
//
// The text is walked in non-overlapping groups of three lines starting at the
// first line. A group is kept only when its second line starts with "1 " and
// its third with "2 "; anything else is dropped without resynchronising. A
// trailing group shorter than three lines is never formed. Empty input yields
// zero records and no error.
func Parse(r io.Reader, logger *slog.Logger) (ParseResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ParseResult{}, fmt.Errorf("reading TLE data: %w", err)
	}
	return ParseString(string(data), logger), nil
}

// ParseString is Parse for text already in memory.
func ParseString(text string, logger *slog.Logger) ParseResult {
	lines := splitLines(text)

	var res ParseResult
	i := 0
	for ; i+2 < len(lines); i += 3 {
		name, line1, line2 := lines[i], lines[i+1], lines[i+2]

		if !strings.HasPrefix(line1, "1 ") || !strings.HasPrefix(line2, "2 ") {
			logger.Warn("skipping malformed TLE entry",
				"line_index", i,
				"name", strings.TrimSpace(name),
				"error", ErrMalformedRecord,
			)
			res.Malformed++
			continue
		}

		res.Records = append(res.Records, RawRecord{
			Name:  strings.TrimSpace(name),
			Line1: strings.TrimSpace(line1),
			Line2: strings.TrimSpace(line2),
		})
	}

	if rest := len(lines) - i; rest > 0 {
		logger.Debug("dropping trailing partial TLE group", "lines", rest)
		res.Truncated = rest
	}

	return res
}

// splitLines trims the whole text and splits it on every line boundary a
// feed may use: LF, CRLF, bare CR and the Unicode separators. Interior blank
// lines are kept so that group boundaries match the raw feed.
func splitLines(text string) []string {
	text = strings.TrimFunc(text, isSpace)
	if text == "" {
		return nil
	}
	var lines []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isLineBreak(r) {
			i += size
			continue
		}
		lines = append(lines, text[start:i])
		i += size
		if r == '\r' && i < len(text) && text[i] == '\n' {
			i++
		}
		start = i
	}
	return append(lines, text[start:])
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', 0x1c, 0x1d, 0x1e, 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}

// isSpace adds the ASCII separator controls to unicode.IsSpace.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// parseEpoch converts a TLE epoch string in YYDDD.DDDDDDDD format to time.Time.
// Year 00-56 → 2000s, 57-99 → 1900s.
func parseEpoch(s string) (time.Time, error) {
	if len(s) < 5 {
		return time.Time{}, fmt.Errorf("epoch string too short: %q", s)
	}

	yearStr := s[:2]
	dayStr := s[2:]

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch year %q: %w", yearStr, err)
	}

	if year >= 57 {
		year += 1900
	} else {
		year += 2000
	}

	dayOfYear, err := strconv.ParseFloat(dayStr, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch day %q: %w", dayStr, err)
	}

	// dayOfYear is 1-based: day 1 = Jan 1.
	t := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	return t.Add(time.Duration((dayOfYear - 1) * float64(24*time.Hour))), nil
}
