package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultHTTPPort     = 8080
	DefaultReadTimeout  = 15 * time.Second
	DefaultWriteTimeout = 15 * time.Second
	DefaultIdleTimeout  = 60 * time.Second
	DefaultRateCapacity = 5
	DefaultRateWindow   = time.Minute
	DefaultSessionTTL   = 24 * time.Hour
	DefaultAIKeyEnv     = "OPENAI_API_KEY"
	DefaultAITimeout    = 30 * time.Second
)

// The calculate route is hit on every form edit and gets its own, larger
// bucket by default.
const (
	CalculateRoute           = "/credits/calculate"
	DefaultCalculateCapacity = 300
)

// Environment overrides.
const (
	EnvHTTPPort  = "GREENGAIN_HTTP_PORT"
	EnvRedisAddr = "GREENGAIN_REDIS_ADDR"
	EnvRulesPath = "GREENGAIN_RULES_PATH"
)

// Config is the top-level configuration. Fields map 1:1 to
// config.example.yaml.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Session   SessionConfig   `yaml:"session"`
	Redis     RedisConfig     `yaml:"redis"`
	Rules     RulesConfig     `yaml:"rules"`
	AI        AIConfig        `yaml:"ai"`
}

type ServerConfig struct {
	HTTPPort     int           `yaml:"http_port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// Addr is the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return ":" + strconv.Itoa(s.HTTPPort)
}

// RateLimitConfig sizes the per-client token buckets: Capacity requests,
// refilled in full every Window. Routes overrides the size for individual
// routes; each route keeps its own bucket per client.
type RateLimitConfig struct {
	Capacity int                   `yaml:"capacity"`
	Window   time.Duration         `yaml:"window"`
	Routes   map[string]RouteLimit `yaml:"routes"`
}

// RouteLimit is the bucket size for one route. A zero Window inherits the
// top-level window.
type RouteLimit struct {
	Capacity int           `yaml:"capacity"`
	Window   time.Duration `yaml:"window"`
}

type SessionConfig struct {
	// TTL is how long the latest estimate of a session is kept.
	TTL time.Duration `yaml:"ttl"`
}

// RedisConfig selects the session store. An empty Addr keeps estimates in
// process memory.
type RedisConfig struct {
	Addr        string `yaml:"addr"`
	DB          int    `yaml:"db"`
	PasswordEnv string `yaml:"password_env"`
}

// Password returns the Redis password resolved from the environment.
func (r RedisConfig) Password() string {
	if r.PasswordEnv == "" {
		return ""
	}
	return os.Getenv(r.PasswordEnv)
}

type RulesConfig struct {
	// Path is an optional YAML rule table. Empty uses the built-in table.
	Path  string `yaml:"path"`
	// Watch reloads the table when the file changes.
	Watch bool   `yaml:"watch"`
}

// AIConfig configures the optional roadmap summary model.
type AIConfig struct {
	APIKeyEnv string        `yaml:"api_key_env"`
	Model     string        `yaml:"model"`
	URL       string        `yaml:"url"`
	Timeout   time.Duration `yaml:"timeout"`
}

// Key returns the API key resolved from the environment.
func (a AIConfig) Key() string {
	if a.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(a.APIKeyEnv)
}

// Load reads and parses the YAML config file at path. An empty path
// returns the defaults. Environment overrides are applied after parsing.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Default returns a Config pre-populated with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:     DefaultHTTPPort,
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
			IdleTimeout:  DefaultIdleTimeout,
		},
		RateLimit: RateLimitConfig{
			Capacity: DefaultRateCapacity,
			Window:   DefaultRateWindow,
			Routes: map[string]RouteLimit{
				CalculateRoute: {Capacity: DefaultCalculateCapacity, Window: DefaultRateWindow},
			},
		},
		Session: SessionConfig{TTL: DefaultSessionTTL},
		Rules:   RulesConfig{Watch: true},
		AI: AIConfig{
			APIKeyEnv: DefaultAIKeyEnv,
			Timeout:   DefaultAITimeout,
		},
	}
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(EnvHTTPPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvHTTPPort, err)
		}
		cfg.Server.HTTPPort = port
	}
	if v, ok := os.LookupEnv(EnvRedisAddr); ok {
		cfg.Redis.Addr = v
	}
	if v, ok := os.LookupEnv(EnvRulesPath); ok {
		cfg.Rules.Path = v
	}
	return nil
}

// validate checks structural constraints.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d out of range", cfg.Server.HTTPPort)
	}
	if cfg.Server.ReadTimeout <= 0 || cfg.Server.WriteTimeout <= 0 || cfg.Server.IdleTimeout <= 0 {
		return errors.New("server timeouts must be positive")
	}
	if cfg.RateLimit.Capacity <= 0 {
		return errors.New("rate_limit.capacity must be positive")
	}
	if cfg.RateLimit.Window <= 0 {
		return errors.New("rate_limit.window must be positive")
	}
	for route, l := range cfg.RateLimit.Routes {
		if l.Capacity <= 0 {
			return fmt.Errorf("rate_limit.routes[%s].capacity must be positive", route)
		}
		if l.Window < 0 {
			return fmt.Errorf("rate_limit.routes[%s].window must not be negative", route)
		}
	}
	if cfg.Session.TTL <= 0 {
		return errors.New("session.ttl must be positive")
	}
	if cfg.Redis.DB < 0 {
		return errors.New("redis.db must not be negative")
	}
	if cfg.AI.Timeout < 0 {
		return errors.New("ai.timeout must not be negative")
	}
	return nil
}
