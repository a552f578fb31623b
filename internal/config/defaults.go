package config

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "astroquery.yaml"

// DefaultBackendURL is the local development address of the science backend.
const DefaultBackendURL = "http://localhost:5000"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BackendURL:              DefaultBackendURL,
		Port:                    8080,
		DataDir:                 ".astroquery",
		LogLevel:                LogInfo,
		RequestTimeoutSeconds:   60,
		ResearchTimeoutSeconds:  30,
		InsightsCacheSize:       256,
		InsightsCacheTTLMinutes: 30,
		SessionTTLMinutes:       720,
	}
}
