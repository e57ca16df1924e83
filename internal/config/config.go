package config

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP     HTTPConfig
	Identity IdentityConfig
	Graph    GraphConfig
	Logging  LoggingConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string
	Port              int
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	AllowedOriginsCSV string
	RedirectStatus    int
}

// IdentityConfig describes the served domain and where identities live.
type IdentityConfig struct {
	Domain   string
	BaseURL  string
	Backend  string // file|graph
	SeedFile string
}

// GraphConfig describes connectivity to the Neo4j identity graph.
type GraphConfig struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	IncludeCaller bool
}

// Identity backends.
const (
	BackendFile  = "file"
	BackendGraph = "graph"
)

const (
	defaultHost             = "0.0.0.0"
	defaultPort             = 8080
	defaultReadTimeout      = 10 * time.Second
	defaultWriteTimeout     = 15 * time.Second
	defaultIdleTimeout      = 60 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultLoggingLevel     = "info"
	defaultLoggingFormat    = "text"
	defaultGraphMaxSessions = 10
	defaultSeedFile         = "identities.yaml"
)

// envFiles are loaded in order before reading the environment. Variables
// already set in the process environment are never overridden.
var envFiles = []string{".env", ".env.local"}

// Load reads configuration from .env files and environment variables,
// applying defaults. The result is not validated; call Validate.
func Load() (Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	cfg := Config{
		HTTP: HTTPConfig{
			Host:              valueOrDefault("SERVER_HOST", defaultHost),
			ReadTimeout:       defaultReadTimeout,
			WriteTimeout:      defaultWriteTimeout,
			IdleTimeout:       defaultIdleTimeout,
			ShutdownTimeout:   defaultShutdownTimeout,
			AllowedOriginsCSV: os.Getenv("SERVER_ALLOWED_ORIGINS"),
			RedirectStatus:    parseIntWithDefault("REDIRECT_STATUS", http.StatusFound),
		},
		Identity: IdentityConfig{
			Domain:   strings.ToLower(os.Getenv("FEDFINGER_DOMAIN")),
			BaseURL:  os.Getenv("FEDFINGER_BASE_URL"),
			Backend:  strings.ToLower(valueOrDefault("IDENTITY_BACKEND", BackendFile)),
			SeedFile: valueOrDefault("IDENTITY_SEED_FILE", defaultSeedFile),
		},
		Logging: LoggingConfig{
			Level:         valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format:        valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
			IncludeCaller: parseBoolWithDefault("LOG_INCLUDE_CALLER", false),
		},
		Graph: GraphConfig{
			URI:            os.Getenv("GRAPH_URI"),
			Database:       valueOrDefault("GRAPH_DATABASE", ""),
			Username:       os.Getenv("GRAPH_USERNAME"),
			Password:       os.Getenv("GRAPH_PASSWORD"),
			MaxConnections: parseIntWithDefault("GRAPH_MAX_CONNECTIONS", defaultGraphMaxSessions),
		},
	}
	if cfg.Identity.BaseURL == "" && cfg.Identity.Domain != "" {
		cfg.Identity.BaseURL = "https://" + cfg.Identity.Domain
	}

	port, err := parsePort("SERVER_PORT", defaultPort)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.Port = port

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", &cfg.HTTP.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout},
	}
	for _, d := range durations {
		if v := os.Getenv(d.key); v != "" {
			parsed, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, fmt.Errorf("invalid %s: %w", d.key, err)
			}
			*d.dst = parsed
		}
	}

	return cfg, nil
}

// Validate reports configuration that cannot serve discovery requests.
func (c Config) Validate() error {
	if c.Identity.Domain == "" {
		return errors.New("FEDFINGER_DOMAIN is required")
	}
	u, err := url.Parse(c.Identity.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid FEDFINGER_BASE_URL %q", c.Identity.BaseURL)
	}
	switch c.Identity.Backend {
	case BackendFile:
		if c.Identity.SeedFile == "" {
			return errors.New("IDENTITY_SEED_FILE is required for the file backend")
		}
	case BackendGraph:
		if c.Graph.URI == "" {
			return errors.New("GRAPH_URI is required for the graph backend")
		}
	default:
		return fmt.Errorf("unknown IDENTITY_BACKEND %q", c.Identity.Backend)
	}
	if c.HTTP.RedirectStatus != http.StatusFound && c.HTTP.RedirectStatus != http.StatusSeeOther {
		return fmt.Errorf("REDIRECT_STATUS must be 302 or 303, got %d", c.HTTP.RedirectStatus)
	}
	return nil
}

// AllowedOrigins splits the configured CORS origin list.
func (c HTTPConfig) AllowedOrigins() []string {
	if c.AllowedOriginsCSV == "" {
		return nil
	}
	var origins []string
	for _, part := range strings.Split(c.AllowedOriginsCSV, ",") {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}
