package config

import "time"

// LogLevel selects the verbosity of the zap logger.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// Config is the top-level astroquery configuration, corresponding to astroquery.yaml.
type Config struct {
	BackendURL              string   `yaml:"backend_url" koanf:"backend_url"`
	Port                    int      `yaml:"port" koanf:"port"`
	DataDir                 string   `yaml:"data_dir" koanf:"data_dir"`
	LogLevel                LogLevel `yaml:"log_level" koanf:"log_level"`
	RequestTimeoutSeconds   int      `yaml:"request_timeout_seconds" koanf:"request_timeout_seconds"`
	ResearchTimeoutSeconds  int      `yaml:"research_timeout_seconds" koanf:"research_timeout_seconds"`
	InsightsCacheSize       int      `yaml:"insights_cache_size" koanf:"insights_cache_size"`
	InsightsCacheTTLMinutes int      `yaml:"insights_cache_ttl_minutes" koanf:"insights_cache_ttl_minutes"`
	SessionTTLMinutes       int      `yaml:"session_ttl_minutes" koanf:"session_ttl_minutes"`
	AllowAllOrigins         bool     `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// RequestTimeout is the per-request deadline applied by the HTTP server.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// ResearchTimeout is the client-side deadline for a research analysis.
func (c *Config) ResearchTimeout() time.Duration {
	return time.Duration(c.ResearchTimeoutSeconds) * time.Second
}

// InsightsCacheTTL is how long cached insights text stays valid.
func (c *Config) InsightsCacheTTL() time.Duration {
	return time.Duration(c.InsightsCacheTTLMinutes) * time.Minute
}

// SessionTTL is how long an idle browser session keeps its navigator state.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}
