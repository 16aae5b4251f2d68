package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ADITYAK333/satellite-tracker/internal/tracker"
)

type satellitesResponse struct {
	EvaluatedAt time.Time                `json:"evaluated_at"`
	Count       int                      `json:"count"`
	Total       int                      `json:"total"`
	Report      tracker.ReportSummary    `json:"report"`
	Satellites  []tracker.PositionRecord `json:"satellites"`
}

type satelliteResponse struct {
	EvaluatedAt time.Time `json:"evaluated_at"`
	tracker.PositionRecord
}

// refresh runs one frame refresh and writes the failure response itself when
// it returns false.
func refresh(w http.ResponseWriter, r *http.Request, logger *slog.Logger, t Tracker) (tracker.Frame, bool) {
	frame, err := t.Refresh(r.Context())
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			logger.Debug("refresh abandoned", "path", r.URL.Path, "error", err)
		} else {
			logger.Error("refresh failed", "path", r.URL.Path, "error", err)
		}
		writeError(w, http.StatusServiceUnavailable, "refresh failed")
		return tracker.Frame{}, false
	}
	return frame, true
}

func satellitesHandler(logger *slog.Logger, t Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		frame, ok := refresh(w, r, logger, t)
		if !ok {
			return
		}
		q := r.URL.Query()
		matched := tracker.Filter(frame, tracker.Query{Search: q.Get("search"), Type: q.Get("type")})
		if matched == nil {
			matched = []tracker.PositionRecord{}
		}
		writeJSON(w, http.StatusOK, satellitesResponse{
			EvaluatedAt: frame.EvaluatedAt,
			Count:       len(matched),
			Total:       len(frame.Records),
			Report:      frame.Report.Summary(),
			Satellites:  matched,
		})
	}
}

func satelliteTypesHandler(logger *slog.Logger, t Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		frame, ok := refresh(w, r, logger, t)
		if !ok {
			return
		}
		types := tracker.Types(frame)
		if types == nil {
			types = []string{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"types": types})
	}
}

func satelliteHandler(logger *slog.Logger, t Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		frame, ok := refresh(w, r, logger, t)
		if !ok {
			return
		}
		rec, found := tracker.Lookup(frame, name)
		if !found {
			writeError(w, http.StatusNotFound, "satellite not found: "+name)
			return
		}
		writeJSON(w, http.StatusOK, satelliteResponse{EvaluatedAt: frame.EvaluatedAt, PositionRecord: rec})
	}
}

func cacheStatsHandler(t Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, t.CacheStats())
	}
}
