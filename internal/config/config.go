// Package config loads service settings from defaults, an optional config
// file and SATTRACK_* environment variables. Invalid values are logged and
// replaced by their defaults rather than failing startup.
package config

import (
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ADITYAK333/satellite-tracker/internal/bodies"
	"github.com/ADITYAK333/satellite-tracker/internal/propagation"
	"github.com/ADITYAK333/satellite-tracker/internal/tle"
	"github.com/ADITYAK333/satellite-tracker/internal/tracker"
)

// EnvPrefix is prepended to every environment key, e.g. SATTRACK_HTTP_ADDR.
const EnvPrefix = "SATTRACK"

const (
	keyConfigFile     = "config"
	keyHTTPAddr       = "http_addr"
	keyTrustProxy     = "trust_proxy"
	keyLogLevel       = "log_level"
	keyTLEURL         = "tle.url_template"
	keyTLECategories  = "tle.categories"
	keyTLETimeout     = "tle.timeout"
	keyTLETTL         = "tle.ttl"
	keyBodiesURL      = "bodies.url"
	keyBodiesTimeout  = "bodies.timeout"
	keyBodiesTTL      = "bodies.ttl"
	keyPropWorkers    = "prop.workers"
	keyEvictInterval  = "cache.evict_interval"
	keyPropertyDriver = "property.driver"
	keyPropertyDSN    = "property.dsn"
)

// Config is the resolved service configuration.
type Config struct {
	HTTPAddr   string
	TrustProxy bool
	LogLevel   slog.Level

	TLEURLTemplate string
	TLECategories  []string
	TLETimeout     time.Duration
	TLETTL         time.Duration

	BodiesURL     string
	BodiesTimeout time.Duration
	BodiesTTL     time.Duration

	PropWorkers   int
	EvictInterval time.Duration

	PropertyDriver string
	PropertyDSN    string
}

// Defaults returns the configuration used when nothing is overridden.
func Defaults() Config {
	return Config{
		HTTPAddr:       ":8080",
		LogLevel:       slog.LevelInfo,
		TLEURLTemplate: tle.DefaultURLTemplate,
		TLECategories:  append([]string(nil), tle.DefaultCategories...),
		TLETimeout:     tle.DefaultTimeout,
		TLETTL:         tracker.DefaultRecordsTTL,
		BodiesURL:      bodies.DefaultURL,
		BodiesTimeout:  bodies.DefaultTimeout,
		BodiesTTL:      tracker.DefaultBodiesTTL,
		PropWorkers:    runtime.NumCPU(),
		EvictInterval:  10 * time.Minute,
		PropertyDriver: "sqlite",
	}
}

// New returns a viper instance bound to the SATTRACK_ environment, with
// nested keys mapped to underscores (tle.ttl reads SATTRACK_TLE_TTL).
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load resolves the configuration from v. The only error is an unreadable
// config file named by the "config" key (SATTRACK_CONFIG).
func Load(v *viper.Viper, logger *slog.Logger) (Config, error) {
	if v == nil {
		v = New()
	}
	cfg := Defaults()

	if path := v.GetString(keyConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		logger.Info("config file loaded", "path", v.ConfigFileUsed())
	}

	l := loader{v: v, logger: logger}

	cfg.HTTPAddr = l.str(keyHTTPAddr, cfg.HTTPAddr)
	cfg.TrustProxy = l.boolean(keyTrustProxy, cfg.TrustProxy)
	cfg.LogLevel = l.level(keyLogLevel, cfg.LogLevel)

	cfg.TLEURLTemplate = l.template(keyTLEURL, cfg.TLEURLTemplate)
	cfg.TLECategories = l.list(keyTLECategories, cfg.TLECategories)
	cfg.TLETimeout = l.duration(keyTLETimeout, cfg.TLETimeout)
	cfg.TLETTL = l.duration(keyTLETTL, cfg.TLETTL)

	cfg.BodiesURL = l.str(keyBodiesURL, cfg.BodiesURL)
	cfg.BodiesTimeout = l.duration(keyBodiesTimeout, cfg.BodiesTimeout)
	cfg.BodiesTTL = l.duration(keyBodiesTTL, cfg.BodiesTTL)

	cfg.PropWorkers = l.positiveInt(keyPropWorkers, cfg.PropWorkers)
	cfg.EvictInterval = l.duration(keyEvictInterval, cfg.EvictInterval)

	cfg.PropertyDriver = strings.ToLower(l.str(keyPropertyDriver, cfg.PropertyDriver))
	cfg.PropertyDSN = l.str(keyPropertyDSN, cfg.PropertyDSN)

	logger.Info("config loaded",
		"http_addr", cfg.HTTPAddr,
		"log_level", cfg.LogLevel.String(),
		"tle_categories", len(cfg.TLECategories),
		"tle_timeout_seconds", cfg.TLETimeout.Seconds(),
		"tle_ttl_seconds", cfg.TLETTL.Seconds(),
		"bodies_ttl_seconds", cfg.BodiesTTL.Seconds(),
		"prop_workers", cfg.PropWorkers,
		"property_driver", cfg.PropertyDriver,
	)
	return cfg, nil
}

// TLE returns the feed fetcher settings.
func (c Config) TLE() tle.Config {
	return tle.Config{
		Categories:  c.TLECategories,
		URLTemplate: c.TLEURLTemplate,
		Timeout:     c.TLETimeout,
	}
}

// Bodies returns the planetary bodies fetcher settings.
func (c Config) Bodies() bodies.Config {
	return bodies.Config{URL: c.BodiesURL, Timeout: c.BodiesTimeout}
}

// Propagation returns the worker pool settings.
func (c Config) Propagation() propagation.Config {
	return propagation.Config{Workers: c.PropWorkers}
}

// Tracker returns the cache lifetimes.
func (c Config) Tracker() tracker.Config {
	return tracker.Config{RecordsTTL: c.TLETTL, BodiesTTL: c.BodiesTTL}
}

// loader reads single keys, warning and keeping the default on bad input.
type loader struct {
	v      *viper.Viper
	logger *slog.Logger
}

func (l loader) raw(key string) (string, bool) {
	if !l.v.IsSet(key) {
		return "", false
	}
	s := strings.TrimSpace(l.v.GetString(key))
	return s, s != ""
}

func (l loader) invalid(key, value string, def any) {
	l.logger.Warn("invalid config value, using default",
		"key", key,
		"env", envName(key),
		"value", value,
		"default", def,
	)
}

func (l loader) str(key, def string) string {
	if s, ok := l.raw(key); ok {
		return s
	}
	return def
}

func (l loader) template(key, def string) string {
	s, ok := l.raw(key)
	if !ok {
		return def
	}
	if !strings.Contains(s, "{category}") {
		l.invalid(key, s, def)
		return def
	}
	return s
}

func (l loader) boolean(key string, def bool) bool {
	s, ok := l.raw(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		l.invalid(key, s, def)
		return def
	}
	return b
}

func (l loader) positiveInt(key string, def int) int {
	s, ok := l.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		l.invalid(key, s, def)
		return def
	}
	return n
}

// duration accepts Go duration syntax ("90s", "1h") or whole seconds.
func (l loader) duration(key string, def time.Duration) time.Duration {
	s, ok := l.raw(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		n, nerr := strconv.Atoi(s)
		if nerr != nil {
			l.invalid(key, s, def.String())
			return def
		}
		d = time.Duration(n) * time.Second
	}
	if d <= 0 {
		l.invalid(key, s, def.String())
		return def
	}
	return d
}

func (l loader) level(key string, def slog.Level) slog.Level {
	s, ok := l.raw(key)
	if !ok {
		return def
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		l.invalid(key, s, def.String())
		return def
	}
	return lvl
}

// list accepts a config-file list or a comma-separated string.
func (l loader) list(key string, def []string) []string {
	if !l.v.IsSet(key) {
		return def
	}
	var out []string
	for _, item := range l.v.GetStringSlice(key) {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	if len(out) == 0 {
		l.invalid(key, l.v.GetString(key), strings.Join(def, ","))
		return def
	}
	return out
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
