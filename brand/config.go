package brand

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all brandfetch-mcp configuration. Values come from the
// environment (env tags), optionally overlaid on a YAML file; environment
// always wins.
type Config struct {
	// API keys. LogoKey serves the high-quota logo-by-domain tier,
	// BrandKey the metered brand/search tier. LegacyKey is the
	// deprecated single-key variable, accepted as a brand key.
	LogoKey   string `env:"BRANDFETCH_LOGO_KEY" yaml:"logo_key"`
	BrandKey  string `env:"BRANDFETCH_BRAND_KEY" yaml:"brand_key"`
	LegacyKey string `env:"BRANDFETCH_API_KEY" yaml:"-"`

	// ClientID is appended as ?c= to CDN-hosted logo URLs for
	// hotlinking attribution.
	ClientID string `env:"BRANDFETCH_CLIENT_ID" yaml:"client_id"`

	APIBase         string `env:"BRANDFETCH_API_BASE" yaml:"api_base"`
	LogoAPITemplate string `env:"BRANDFETCH_LOGO_API_URL" yaml:"logo_api_url"`
	CDNTemplate     string `env:"BRANDFETCH_LOGO_CDN_TEMPLATE" yaml:"cdn_template"`

	CacheTTLSeconds int    `env:"BRANDFETCH_CACHE_TTL" yaml:"cache_ttl_seconds"`
	RedisURL        string `env:"REDIS_URL" yaml:"redis_url"`

	DBPath        string `env:"BRANDFETCH_DB_PATH" yaml:"db_path"`
	MonthLimit    int    `env:"BRAND_API_MONTH_LIMIT" yaml:"month_limit"`
	WarnThreshold int    `env:"BRAND_API_WARN_THRESHOLD" yaml:"warn_threshold"`

	RequestTimeoutSec int `env:"BRANDFETCH_REQUEST_TIMEOUT_SEC" yaml:"request_timeout_sec"`
}

func (c *Config) defaults() {
	if c.APIBase == "" {
		c.APIBase = "https://api.brandfetch.io/v2"
	}
	if c.LogoAPITemplate == "" {
		c.LogoAPITemplate = "https://api.brandfetch.io/v2/logo/{domain}"
	}
	if c.CDNTemplate == "" {
		c.CDNTemplate = "https://cdn.brandfetch.io/{domain}"
	}
	if c.CacheTTLSeconds <= 0 {
		c.CacheTTLSeconds = 86_400 // 24h
	}
	if c.DBPath == "" {
		c.DBPath = "brand_api_usage.db"
	}
	if c.MonthLimit <= 0 {
		c.MonthLimit = 100
	}
	if c.WarnThreshold <= 0 {
		c.WarnThreshold = 90
	}
	if c.RequestTimeoutSec <= 0 {
		c.RequestTimeoutSec = 8
	}
}

// CacheTTL returns the lookup cache TTL.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// RequestTimeout returns the timeout for logo-API and search calls made
// by the checked orchestrator.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// brandKey resolves the effective brand-tier key, honoring the
// deprecated single-key fallback. The second return reports whether the
// legacy variable was used.
func (c *Config) brandKey() (string, bool) {
	if c.BrandKey != "" {
		return c.BrandKey, false
	}
	if c.LegacyKey != "" {
		return c.LegacyKey, true
	}
	return "", false
}

// LoadConfig builds a Config from the environment and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.defaults()
	return cfg, nil
}

// LoadConfigFile reads a YAML config file, overlays environment
// variables on top, and applies defaults.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.defaults()
	return cfg, nil
}
