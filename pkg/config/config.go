package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all server configuration
type Config struct {
	Server ServerConfig
	Build  BuildConfig
	Search SearchConfig
	Auth   AuthConfig
}

// ServerConfig holds REST server configuration
type ServerConfig struct {
	Host            string        // Server host (default: "0.0.0.0")
	Port            int           // Server port (default: 8080)
	MaxConnections  int           // Max concurrent connections
	RequestTimeout  time.Duration // Request timeout
	ShutdownTimeout time.Duration // Graceful shutdown timeout
	EnableTLS       bool          // Enable TLS
	CertFile        string        // TLS certificate file
	KeyFile         string        // TLS key file
}

// BuildConfig holds default graph construction parameters
type BuildConfig struct {
	K                int     // Neighbor list capacity (default: 10)
	Rho              float64 // NN-Descent sample rate (default: 0.5)
	Delta            float64 // NN-Descent early-termination threshold (default: 0.001)
	MaxIterations    int     // NN-Descent iteration cap (default: 100)
	Parallel         bool    // Run the NN-Descent local join on a worker pool
	NumWorkers       int     // Worker pool size for parallel builds
	LSHStages        int     // Number of LSH hash stages
	LSHPartitions    int     // Buckets per LSH stage (at least 2)
}

// SearchConfig holds default GNNS search parameters
type SearchConfig struct {
	K             int // Result count
	RandomJumps   int // Random long jumps per search descent step; random starting points for FastAdd
	UpdateDepth   int // Hop depth of the FastAdd/FastRemove neighborhood walk
}

// AuthConfig holds JWT auth and rate limiting configuration
type AuthConfig struct {
	Enabled        bool          // Require a bearer token on every endpoint except the public paths
	SigningKey     string        // HMAC signing key
	TokenTTL       time.Duration // Issued token lifetime
	RateLimitRPS   float64       // Requests per second, per client
	RateLimitBurst int           // Burst allowance
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			MaxConnections:  1000,
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			EnableTLS:       false,
		},
		Build: BuildConfig{
			K:             10,
			Rho:           0.5,
			Delta:         0.001,
			MaxIterations: 100,
			Parallel:      true,
			NumWorkers:    4,
			LSHStages:     4,
			LSHPartitions: 16,
		},
		Search: SearchConfig{
			K:           10,
			RandomJumps: 3,
			UpdateDepth: 2,
		},
		Auth: AuthConfig{
			Enabled:        false,
			TokenTTL:       time.Hour,
			RateLimitRPS:   50,
			RateLimitBurst: 100,
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	cfg := Default()

	// Server configuration
	if host := os.Getenv("KGRAPH_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if port := os.Getenv("KGRAPH_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if maxConn := os.Getenv("KGRAPH_MAX_CONNECTIONS"); maxConn != "" {
		if mc, err := strconv.Atoi(maxConn); err == nil {
			cfg.Server.MaxConnections = mc
		}
	}
	if timeout := os.Getenv("KGRAPH_REQUEST_TIMEOUT"); timeout != "" {
		if t, err := time.ParseDuration(timeout); err == nil {
			cfg.Server.RequestTimeout = t
		}
	}
	if enableTLS := os.Getenv("KGRAPH_ENABLE_TLS"); enableTLS == "true" {
		cfg.Server.EnableTLS = true
		cfg.Server.CertFile = os.Getenv("KGRAPH_TLS_CERT")
		cfg.Server.KeyFile = os.Getenv("KGRAPH_TLS_KEY")
	}

	// Build configuration
	if k := os.Getenv("KGRAPH_BUILD_K"); k != "" {
		if kVal, err := strconv.Atoi(k); err == nil {
			cfg.Build.K = kVal
		}
	}
	if rho := os.Getenv("KGRAPH_BUILD_RHO"); rho != "" {
		if r, err := strconv.ParseFloat(rho, 64); err == nil {
			cfg.Build.Rho = r
		}
	}
	if delta := os.Getenv("KGRAPH_BUILD_DELTA"); delta != "" {
		if d, err := strconv.ParseFloat(delta, 64); err == nil {
			cfg.Build.Delta = d
		}
	}
	if iters := os.Getenv("KGRAPH_BUILD_MAX_ITERATIONS"); iters != "" {
		if i, err := strconv.Atoi(iters); err == nil {
			cfg.Build.MaxIterations = i
		}
	}
	if parallel := os.Getenv("KGRAPH_BUILD_PARALLEL"); parallel == "false" {
		cfg.Build.Parallel = false
	}
	if workers := os.Getenv("KGRAPH_BUILD_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil {
			cfg.Build.NumWorkers = w
		}
	}

	// Search configuration
	if k := os.Getenv("KGRAPH_SEARCH_K"); k != "" {
		if kVal, err := strconv.Atoi(k); err == nil {
			cfg.Search.K = kVal
		}
	}
	if jumps := os.Getenv("KGRAPH_SEARCH_RANDOM_JUMPS"); jumps != "" {
		if j, err := strconv.Atoi(jumps); err == nil {
			cfg.Search.RandomJumps = j
		}
	}

	// Auth configuration
	if enabled := os.Getenv("KGRAPH_AUTH_ENABLED"); enabled == "true" {
		cfg.Auth.Enabled = true
		cfg.Auth.SigningKey = os.Getenv("KGRAPH_AUTH_SIGNING_KEY")
	}
	if rps := os.Getenv("KGRAPH_RATE_LIMIT_RPS"); rps != "" {
		if r, err := strconv.ParseFloat(rps, 64); err == nil {
			cfg.Auth.RateLimitRPS = r
		}
	}

	return cfg
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.MaxConnections < 1 {
		return fmt.Errorf("invalid max connections: %d (must be > 0)", c.Server.MaxConnections)
	}
	if c.Server.EnableTLS {
		if c.Server.CertFile == "" || c.Server.KeyFile == "" {
			return fmt.Errorf("TLS enabled but cert or key file not specified")
		}
	}

	// Build validation
	if c.Build.K < 1 {
		return fmt.Errorf("invalid build K: %d (must be > 0)", c.Build.K)
	}
	if c.Build.Rho <= 0 || c.Build.Rho > 1 {
		return fmt.Errorf("invalid rho: %f (must be in (0, 1])", c.Build.Rho)
	}
	if c.Build.Delta < 0 || c.Build.Delta > 1 {
		return fmt.Errorf("invalid delta: %f (must be in [0, 1])", c.Build.Delta)
	}
	if c.Build.MaxIterations < 1 {
		return fmt.Errorf("invalid max iterations: %d (must be > 0)", c.Build.MaxIterations)
	}

	// Search validation
	if c.Search.K < 1 {
		return fmt.Errorf("invalid search K: %d (must be > 0)", c.Search.K)
	}

	// Auth validation
	if c.Auth.Enabled && c.Auth.SigningKey == "" {
		return fmt.Errorf("auth enabled but signing key not specified")
	}

	return nil
}

// Address returns the server address (host:port)
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
