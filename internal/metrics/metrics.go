package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sattrack_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sattrack_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	tleFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sattrack_tle_fetch_total",
			Help: "TLE category fetches by outcome.",
		},
		[]string{"category", "result"},
	)

	tleFetchDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sattrack_tle_fetch_duration_seconds",
			Help:    "Duration of a single TLE category request.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"category"},
	)

	tleRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sattrack_tle_records_total",
			Help: "TLE records parsed per category, by status.",
		},
		[]string{"category", "status"},
	)

	propagationDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sattrack_propagation_duration_seconds",
			Help:    "Wall time to propagate one batch of records.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	propagationRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sattrack_propagation_records_total",
			Help: "Propagated records by outcome.",
		},
		[]string{"result"},
	)

	cacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sattrack_cache_lookups_total",
			Help: "TTL cache lookups by key and result.",
		},
		[]string{"key", "result"},
	)

	cacheEntries = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sattrack_cache_entries",
			Help: "Whether a TTL cache key currently holds a value (1) or not (0).",
		},
		[]string{"key"},
	)

	bodiesFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sattrack_bodies_fetch_total",
			Help: "Planetary bodies feed fetches by outcome.",
		},
		[]string{"result"},
	)

	propertyOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sattrack_property_operations_total",
			Help: "Property repository operations by kind and outcome.",
		},
		[]string{"op", "result"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpDurationSeconds,
		tleFetchTotal,
		tleFetchDurationSeconds,
		tleRecordsTotal,
		propagationDurationSeconds,
		propagationRecordsTotal,
		cacheLookupsTotal,
		cacheEntries,
		bodiesFetchTotal,
		propertyOpsTotal,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// ObserveFetch records the outcome and latency of one TLE category request.
func ObserveFetch(category string, err error, d time.Duration) {
	tleFetchTotal.WithLabelValues(category, result(err)).Inc()
	tleFetchDurationSeconds.WithLabelValues(category).Observe(d.Seconds())
}

// AddTLERecords counts accepted and malformed groups parsed for a category.
func AddTLERecords(category string, accepted, malformed int) {
	tleRecordsTotal.WithLabelValues(category, "accepted").Add(float64(accepted))
	tleRecordsTotal.WithLabelValues(category, "malformed").Add(float64(malformed))
}

// RecordPropagation records one batch run.
func RecordPropagation(d time.Duration, success, errs int) {
	propagationDurationSeconds.Observe(d.Seconds())
	propagationRecordsTotal.WithLabelValues("success").Add(float64(success))
	propagationRecordsTotal.WithLabelValues("error").Add(float64(errs))
}

// CacheHit counts a fresh cache read.
func CacheHit(key string) {
	cacheLookupsTotal.WithLabelValues(key, "hit").Inc()
}

// CacheMiss counts a lookup that had to invoke the fetch function.
func CacheMiss(key string) {
	cacheLookupsTotal.WithLabelValues(key, "miss").Inc()
}

// SetCacheEntry publishes whether key is currently cached.
func SetCacheEntry(key string, present bool) {
	v := 0.0
	if present {
		v = 1
	}
	cacheEntries.WithLabelValues(key).Set(v)
}

// ObserveBodiesFetch records the outcome of one planetary bodies request.
func ObserveBodiesFetch(err error) {
	bodiesFetchTotal.WithLabelValues(result(err)).Inc()
}

// ObservePropertyOp records one repository call.
func ObservePropertyOp(op string, err error) {
	propertyOpsTotal.WithLabelValues(op, result(err)).Inc()
}

// routes lists the exact paths served by the API. Anything else that is not a
// known parameterized prefix collapses to "other" to bound label cardinality.
var routes = map[string]bool{
	"/":                        true,
	"/healthz":                 true,
	"/readyz":                  true,
	"/metrics":                 true,
	"/api/v1/satellites":       true,
	"/api/v1/satellites/types": true,
	"/api/v1/bodies":           true,
	"/api/v1/properties":       true,
	"/api/v1/cache/stats":      true,
}

var paramRoutes = []struct {
	prefix string
	label  string
}{
	{"/api/v1/satellites/", "/api/v1/satellites/{name}"},
	{"/api/v1/bodies/", "/api/v1/bodies/{name}"},
	{"/api/v1/properties/", "/api/v1/properties/{id}"},
}

func normalizeRoute(path string) string {
	if routes[path] {
		return path
	}
	for _, r := range paramRoutes {
		if rest, ok := strings.CutPrefix(path, r.prefix); ok && rest != "" && !strings.Contains(rest, "/") {
			return r.label
		}
	}
	return "other"
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)
		route := normalizeRoute(r.URL.Path)

		httpRequestsTotal.WithLabelValues(route, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(route, r.Method).Observe(duration)
	})
}
