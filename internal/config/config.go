package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"
)

const (
	defaultHealthEndpoint  = "/_health"
	defaultAPIKeyHeader    = "X-API-Key"
	defaultPrivateEndpoint = `^PUT/patterns(?:/.*)?$`
	defaultUpstreamPrefix  = "indexer"
)

// Config holds all process settings. Everything comes from the environment
// once at startup; missing required settings are fatal before any traffic
// is served.
type Config struct {
	Network        string
	ProxyAddr      string
	ProxyNamespace string
	MetricsAddr    string

	UpstreamPrefix     string
	UpstreamDNS        string
	UpstreamPort       int
	UpstreamHealthPath string

	HealthEndpoint     string
	HealthPollInterval time.Duration

	TiersPath         string
	TiersPollInterval time.Duration

	APIKeyHeader    string
	PrivateEndpoint string

	PostgresDSN           string
	DirectoryPollInterval time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret      string
	JWTExpiryHours int

	AdminEmail    string
	AdminPassword string

	Environment string
}

func Load() (*Config, error) {
	cfg := &Config{
		ProxyNamespace:     os.Getenv("PROXY_NAMESPACE"),
		MetricsAddr:        getEnv("METRICS_ADDR", ":9187"),
		UpstreamPrefix:     getEnv("UPSTREAM_PREFIX", defaultUpstreamPrefix),
		UpstreamHealthPath: getEnv("UPSTREAM_HEALTH_PATH", "/health"),
		HealthEndpoint:     getEnv("HEALTH_ENDPOINT", defaultHealthEndpoint),
		APIKeyHeader:       getEnv("API_KEY_HEADER", defaultAPIKeyHeader),
		PrivateEndpoint:    getEnv("PRIVATE_ENDPOINT_REGEX", defaultPrivateEndpoint),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		AdminEmail:         os.Getenv("ADMIN_EMAIL"),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
		Environment:        getEnv("ENVIRONMENT", "development"),
	}

	var err error
	if cfg.Network, err = requireEnv("NETWORK"); err != nil {
		return nil, err
	}
	if cfg.ProxyAddr, err = requireEnv("PROXY_ADDR"); err != nil {
		return nil, err
	}
	if cfg.UpstreamDNS, err = requireEnv("UPSTREAM_DNS"); err != nil {
		return nil, err
	}
	if cfg.TiersPath, err = requireEnv("TIERS_PATH"); err != nil {
		return nil, err
	}
	if cfg.PostgresDSN, err = requireEnv("POSTGRES_DSN"); err != nil {
		return nil, err
	}
	if cfg.JWTSecret, err = requireEnv("JWT_SECRET"); err != nil {
		return nil, err
	}

	if cfg.UpstreamPort, err = requireIntEnv("UPSTREAM_PORT"); err != nil {
		return nil, err
	}

	if cfg.RedisDB, err = intEnv("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.JWTExpiryHours, err = intEnv("JWT_EXPIRY_HOURS", 24); err != nil {
		return nil, err
	}

	if cfg.HealthPollInterval, err = secondsEnv("HEALTH_POLL_INTERVAL", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.TiersPollInterval, err = secondsEnv("TIERS_POLL_INTERVAL", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.DirectoryPollInterval, err = secondsEnv("DIRECTORY_POLL_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}

	if _, err := regexp.Compile(cfg.PrivateEndpoint); err != nil {
		return nil, fmt.Errorf("PRIVATE_ENDPOINT_REGEX is not a valid pattern: %w", err)
	}

	return cfg, nil
}

// Instance returns the backend address for a consumer's variant:
// {prefix}-{network}[-pruned].{dns}:{port}
func (c *Config) Instance(pruned bool) string {
	if pruned {
		return fmt.Sprintf("%s-%s-pruned.%s:%d", c.UpstreamPrefix, c.Network, c.UpstreamDNS, c.UpstreamPort)
	}
	return fmt.Sprintf("%s-%s.%s:%d", c.UpstreamPrefix, c.Network, c.UpstreamDNS, c.UpstreamPort)
}

// HealthProbeURL is the liveness probe target for the background monitor.
// The full-variant instance answers for the network.
func (c *Config) HealthProbeURL() string {
	return "http://" + c.Instance(false) + c.UpstreamHealthPath
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func requireEnv(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("%s must be set", key)
	}
	return v, nil
}

func requireIntEnv(key string) (int, error) {
	v, err := requireEnv(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return n, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return n, nil
}

func secondsEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number in seconds. eg: 2: %w", key, err)
	}
	return time.Duration(n) * time.Second, nil
}
