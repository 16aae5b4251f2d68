package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ADITYAK333/satellite-tracker/internal/bodies"
	"github.com/ADITYAK333/satellite-tracker/internal/propagation"
	"github.com/ADITYAK333/satellite-tracker/internal/tle"
)

const (
	issLine1 = "1 25544U 98067A   24100.50000000  .00016717  00000-0  10270-3 0  9005"
	issLine2 = "2 25544  51.6400 100.0000 0001000   0.0000   0.0000 15.50000000    09"
	gpsLine1 = "1 44713U 19074A   24100.50000000  .00001000  00000-0  10000-4 0  9995"
	gpsLine2 = "2 44713  53.0000 200.0000 0001500  90.0000 270.0000 15.06000000    05"
)

var testLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// feeds maps a category to the TLE text it serves; missing categories return 500.
type feeds map[string]string

func newCelestrak(t *testing.T, f feeds, hits *atomic.Int64) *tle.Fetcher {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		body, ok := f[r.URL.Query().Get("GROUP")]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return tle.NewFetcher(tle.Config{
		URLTemplate: server.URL + "/gp.php?GROUP={category}&FORMAT=tle",
		Timeout:     time.Second,
	}, testLogger)
}

type staticBodies struct {
	list  []bodies.Body
	err   error
	calls atomic.Int64
}

func (s *staticBodies) Fetch(ctx context.Context) ([]bodies.Body, error) {
	s.calls.Add(1)
	if s.err != nil {
		return []bodies.Body{}, s.err
	}
	return s.list, nil
}

func newTracker(t *testing.T, f feeds, hits *atomic.Int64, bs BodySource, clock *fakeClock) *Tracker {
	t.Helper()
	prop := propagation.NewPropagator(propagation.Config{Workers: 2}, testLogger)
	return New(Config{}, newCelestrak(t, f, hits), bs, prop, clock.Now, testLogger)
}

func record(name, l1, l2 string) string {
	return fmt.Sprintf("%s\n%s\n%s\n", name, l1, l2)
}

func TestRefreshBuildsOrderedFrame(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)}
	var hits atomic.Int64
	tr := newTracker(t, feeds{
		"stations": record("ISS (ZARYA)", issLine1, issLine2),
		"gps-ops":  record("GPS BIIF-1", gpsLine1, gpsLine2) + record("BROKEN", "1 short", "2 short"),
		"weather":  "NOAA 19\nnot a tle line\n" + issLine2 + "\n",
	}, &hits, &staticBodies{}, clock)

	frame, err := tr.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if !frame.EvaluatedAt.Equal(clock.Now()) {
		t.Errorf("EvaluatedAt = %v, want %v", frame.EvaluatedAt, clock.Now())
	}
	if len(frame.Records) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(frame.Records), frame.Records)
	}

	iss := frame.Records[0]
	if iss.Name != "ISS (ZARYA)" || iss.NORADID != 25544 || iss.Type != "Unknown" || iss.Country != "Unknown" {
		t.Errorf("iss record = %+v", iss)
	}
	if iss.Line1 != issLine1 || iss.Line2 != issLine2 {
		t.Error("TLE lines not carried through")
	}
	if gps := frame.Records[1]; gps.Type != "GPS" || gps.Country != "USA" {
		t.Errorf("gps record = %+v", gps)
	}

	r := frame.Report
	if r.Fetched != 3 || r.Malformed != 1 || r.Propagated != 2 || r.PropagationSkipped != 1 {
		t.Errorf("report counts = %+v", r)
	}
	if len(r.Skips) != 1 || r.Skips[0].Name != "BROKEN" {
		t.Errorf("skips = %+v", r.Skips)
	}
	if r.CacheHit {
		t.Error("first refresh should not be a cache hit")
	}
	if got := len(r.FailedCategories()); got != len(tle.DefaultCategories)-3 {
		t.Errorf("failed categories = %d, want %d", got, len(tle.DefaultCategories)-3)
	}
	if !tr.Ready() {
		t.Error("tracker should be ready after a refresh with records")
	}
}

// TestRefreshTruncatesToWholeSecond checks that the reported instant is the
// one SGP4 propagated to, so positions match a whole-second evaluation.
func TestRefreshTruncatesToWholeSecond(t *testing.T) {
	whole := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: whole.Add(900 * time.Millisecond)}
	var hits atomic.Int64
	tr := newTracker(t, feeds{"stations": record("ISS (ZARYA)", issLine1, issLine2)}, &hits, &staticBodies{}, clock)

	frame, err := tr.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if !frame.EvaluatedAt.Equal(whole) {
		t.Errorf("EvaluatedAt = %v, want %v", frame.EvaluatedAt, whole)
	}
	if len(frame.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(frame.Records))
	}

	want, err := propagation.SubPoint(tle.RawRecord{Name: "ISS (ZARYA)", Line1: issLine1, Line2: issLine2}, whole)
	if err != nil {
		t.Fatalf("SubPoint: %v", err)
	}
	got := frame.Records[0]
	if got.Latitude != want.Latitude || got.Longitude != want.Longitude || got.AltitudeKm != want.AltitudeKm {
		t.Errorf("position = (%v, %v, %v), want (%v, %v, %v)",
			got.Latitude, got.Longitude, got.AltitudeKm, want.Latitude, want.Longitude, want.AltitudeKm)
	}
}

// TestRefreshCategoryOutage verifies that one unreachable category does not
// prevent the others from contributing.
func TestRefreshCategoryOutage(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)}
	f := feeds{}
	for _, c := range tle.DefaultCategories {
		if c != "science" {
			f[c] = record("SAT "+strings.ToUpper(c), issLine1, issLine2)
		}
	}
	var hits atomic.Int64
	tr := newTracker(t, f, &hits, &staticBodies{}, clock)

	frame, err := tr.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(frame.Records) != len(tle.DefaultCategories)-1 {
		t.Errorf("got %d records, want %d", len(frame.Records), len(tle.DefaultCategories)-1)
	}
	if failed := frame.Report.FailedCategories(); len(failed) != 1 || failed[0] != "science" {
		t.Errorf("failed categories = %v", failed)
	}
}

func TestRefreshUsesCacheWithinTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)}
	var hits atomic.Int64
	tr := newTracker(t, feeds{"stations": record("ISS", issLine1, issLine2)}, &hits, &staticBodies{}, clock)
	ctx := context.Background()

	first, err := tr.Refresh(ctx)
	if err != nil {
		t.Fatal(err)
	}
	requests := hits.Load()

	clock.Advance(30 * time.Minute)
	second, err := tr.Refresh(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if hits.Load() != requests {
		t.Errorf("cached refresh issued %d extra requests", hits.Load()-requests)
	}
	if !second.Report.CacheHit {
		t.Error("expected cache hit within TTL")
	}
	if first.Records[0].Latitude == second.Records[0].Latitude && first.Records[0].Longitude == second.Records[0].Longitude {
		t.Error("positions should move between evaluation instants")
	}

	clock.Advance(31 * time.Minute)
	third, err := tr.Refresh(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if third.Report.CacheHit || hits.Load() == requests {
		t.Error("expected a refetch after the TTL elapsed")
	}
}

func TestRefreshTotalOutageIsNotCached(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)}
	var hits atomic.Int64
	tr := newTracker(t, feeds{}, &hits, &staticBodies{}, clock)
	ctx := context.Background()

	frame, err := tr.Refresh(ctx)
	if err != nil {
		t.Fatalf("outage must not fail the refresh: %v", err)
	}
	if len(frame.Records) != 0 || frame.Report.Fetched != 0 {
		t.Errorf("expected empty frame, got %+v", frame.Report)
	}
	if tr.Ready() {
		t.Error("tracker should not be ready after a total outage")
	}

	before := hits.Load()
	tr.Refresh(ctx)
	if hits.Load() == before {
		t.Error("expected the next refresh to retry the network")
	}
}

func TestRefreshCancelled(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)}
	var hits atomic.Int64
	tr := newTracker(t, feeds{"stations": record("ISS", issLine1, issLine2)}, &hits, &staticBodies{}, clock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := tr.Refresh(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBodiesCached(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)}
	var hits atomic.Int64
	src := &staticBodies{list: []bodies.Body{{EnglishName: "Earth", BodyType: "Planet"}}}
	tr := newTracker(t, feeds{}, &hits, src, clock)
	ctx := context.Background()

	list, hit := tr.Bodies(ctx)
	if len(list) != 1 || hit {
		t.Fatalf("first Bodies = %v, hit=%v", list, hit)
	}
	clock.Advance(23 * time.Hour)
	if _, hit := tr.Bodies(ctx); !hit {
		t.Error("expected cache hit within 24h")
	}
	clock.Advance(2 * time.Hour)
	tr.Bodies(ctx)
	if src.calls.Load() != 2 {
		t.Errorf("source called %d times, want 2", src.calls.Load())
	}
}

func TestBodiesFailureYieldsEmptyList(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)}
	var hits atomic.Int64
	src := &staticBodies{err: errors.New("api down")}
	tr := newTracker(t, feeds{}, &hits, src, clock)

	list, hit := tr.Bodies(context.Background())
	if list == nil || len(list) != 0 || hit {
		t.Errorf("Bodies on failure = %v, hit=%v", list, hit)
	}
	tr.Bodies(context.Background())
	if src.calls.Load() != 2 {
		t.Error("failed bodies fetch should not be cached")
	}
}
