// Package config loads pkgvcs settings from a TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-hclog"

	"github.com/pulsar-edit/package-vcs/cache"
	"github.com/pulsar-edit/package-vcs/client"
	"github.com/pulsar-edit/package-vcs/internal/core"
)

// EnvPrefix prefixes every environment override, e.g. PKGVCS_HOSTING_API_URL.
const EnvPrefix = "PKGVCS_"

// ErrConfigLoadFailed wraps every failure from Load.
var ErrConfigLoadFailed = errors.New("failed to load configuration")

// Duration is a time.Duration that reads and writes as text ("30s", "1h").
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// Config is the full set of settings.
type Config struct {
	Hosting Hosting `toml:"hosting"`
	Cache   Cache   `toml:"cache"`
	Storage Storage `toml:"storage"`
	Dev     Dev     `toml:"dev"`
	Log     Log     `toml:"log"`
}

// Hosting configures the hosting API client and ownership lookups.
type Hosting struct {
	APIURL               string   `toml:"api_url"`
	UserAgent            string   `toml:"user_agent"`
	Timeout              Duration `toml:"timeout"`
	MaxRetries           int      `toml:"max_retries"`
	BaseDelay            Duration `toml:"base_delay"`
	BreakerThreshold     int64    `toml:"breaker_threshold"`
	MaxCollaboratorPages int      `toml:"max_collaborator_pages"`
}

// Cache configures the ban list and featured list caches.
type Cache struct {
	TTL            Duration `toml:"ttl"`
	RefreshTimeout Duration `toml:"refresh_timeout"`
}

// Storage selects where the lists are read from. Dir takes precedence over
// the cloud bucket when set.
type Storage struct {
	Bucket          string `toml:"bucket"`
	CredentialsFile string `toml:"credentials_file"`
	Dir             string `toml:"dir"`
}

// Dev enables the development ownership bypass.
type Dev struct {
	Enabled  bool   `toml:"enabled"`
	Username string `toml:"username"`
}

type Log struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Hosting: Hosting{
			APIURL:               client.DefaultBaseURL,
			UserAgent:            client.DefaultUserAgent,
			Timeout:              Duration(10 * time.Second),
			MaxRetries:           2,
			BaseDelay:            Duration(250 * time.Millisecond),
			BreakerThreshold:     5,
			MaxCollaboratorPages: core.DefaultMaxCollaboratorPages,
		},
		Cache: Cache{
			TTL:            Duration(cache.DefaultTTL),
			RefreshTimeout: Duration(cache.DefaultRefreshTimeout),
		},
		Log: Log{Level: "info"},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	path = strings.TrimSpace(path)
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: failed to stat config file (%s): %w", ErrConfigLoadFailed, path, err)
		}
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to decode config from file (%s): %w", ErrConfigLoadFailed, path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%w: unknown keys in %s: %v", ErrConfigLoadFailed, path, undecoded)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigLoadFailed, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigLoadFailed, err)
	}

	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	var errs []error

	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(EnvPrefix + key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	duration := func(key string, dst *Duration) {
		if v, ok := lookup(EnvPrefix + key); ok {
			if err := dst.UnmarshalText([]byte(v)); err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
			}
		}
	}

	str("HOSTING_API_URL", &c.Hosting.APIURL)
	str("HOSTING_USER_AGENT", &c.Hosting.UserAgent)
	duration("HOSTING_TIMEOUT", &c.Hosting.Timeout)
	integer("HOSTING_MAX_RETRIES", &c.Hosting.MaxRetries)
	duration("HOSTING_BASE_DELAY", &c.Hosting.BaseDelay)
	integer("HOSTING_MAX_COLLABORATOR_PAGES", &c.Hosting.MaxCollaboratorPages)
	if v, ok := lookup(EnvPrefix + "HOSTING_BREAKER_THRESHOLD"); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sHOSTING_BREAKER_THRESHOLD: %w", EnvPrefix, err))
		} else {
			c.Hosting.BreakerThreshold = n
		}
	}

	duration("CACHE_TTL", &c.Cache.TTL)
	duration("CACHE_REFRESH_TIMEOUT", &c.Cache.RefreshTimeout)

	str("STORAGE_BUCKET", &c.Storage.Bucket)
	str("STORAGE_CREDENTIALS_FILE", &c.Storage.CredentialsFile)
	str("STORAGE_DIR", &c.Storage.Dir)

	if v, ok := lookup(EnvPrefix + "DEV_ENABLED"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%sDEV_ENABLED: %w", EnvPrefix, err))
		} else {
			c.Dev.Enabled = b
		}
	}
	str("DEV_USERNAME", &c.Dev.Username)

	str("LOG_LEVEL", &c.Log.Level)

	return errors.Join(errs...)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if u, err := url.Parse(c.Hosting.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("hosting.api_url must be an absolute URL, got %q", c.Hosting.APIURL))
	}
	if c.Hosting.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("hosting.timeout must be positive"))
	}
	if c.Hosting.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("hosting.max_retries cannot be negative"))
	}
	if c.Hosting.BaseDelay < 0 {
		errs = append(errs, fmt.Errorf("hosting.base_delay cannot be negative"))
	}
	if c.Hosting.BreakerThreshold <= 0 {
		errs = append(errs, fmt.Errorf("hosting.breaker_threshold must be positive"))
	}
	if c.Hosting.MaxCollaboratorPages < 0 {
		errs = append(errs, fmt.Errorf("hosting.max_collaborator_pages cannot be negative"))
	}
	if c.Cache.TTL <= 0 {
		errs = append(errs, fmt.Errorf("cache.ttl must be positive"))
	}
	if c.Cache.RefreshTimeout <= 0 {
		errs = append(errs, fmt.Errorf("cache.refresh_timeout must be positive"))
	}
	if c.Dev.Enabled && strings.TrimSpace(c.Dev.Username) == "" {
		errs = append(errs, fmt.Errorf("dev.username is required when dev.enabled is set"))
	}
	if hclog.LevelFromString(c.Log.Level) == hclog.NoLevel {
		errs = append(errs, fmt.Errorf("log.level %q is not a known level", c.Log.Level))
	}

	return errors.Join(errs...)
}

// ClientOptions converts the hosting section into client options.
func (c *Config) ClientOptions(logger hclog.Logger) []client.Option {
	return []client.Option{
		client.WithBaseURL(c.Hosting.APIURL),
		client.WithUserAgent(c.Hosting.UserAgent),
		client.WithTimeout(time.Duration(c.Hosting.Timeout)),
		client.WithMaxRetries(c.Hosting.MaxRetries),
		client.WithBaseDelay(time.Duration(c.Hosting.BaseDelay)),
		client.WithBreakerThreshold(c.Hosting.BreakerThreshold),
		client.WithLogger(logger),
	}
}

// ServiceOptions converts the hosting and dev sections into service options.
func (c *Config) ServiceOptions(logger hclog.Logger) []core.ServiceOption {
	opts := []core.ServiceOption{
		core.WithServiceLogger(logger),
		core.WithProviderURL(core.DefaultService, c.Hosting.APIURL),
		core.WithMaxCollaboratorPages(c.Hosting.MaxCollaboratorPages),
	}
	if c.Dev.Enabled {
		opts = append(opts, core.WithDevUsername(c.Dev.Username))
	}
	return opts
}

// CacheOptions converts the cache section into cache options.
func (c *Config) CacheOptions() []cache.Option {
	return []cache.Option{
		cache.WithTTL(time.Duration(c.Cache.TTL)),
		cache.WithRefreshTimeout(time.Duration(c.Cache.RefreshTimeout)),
	}
}
