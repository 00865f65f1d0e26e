package config

import (
	"os"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	// Test Server defaults
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Expected host 0.0.0.0, got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.MaxConnections != 1000 {
		t.Errorf("Expected max connections 1000, got %d", cfg.Server.MaxConnections)
	}
	if cfg.Server.RequestTimeout != 30*time.Second {
		t.Errorf("Expected request timeout 30s, got %v", cfg.Server.RequestTimeout)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("Expected shutdown timeout 10s, got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Server.EnableTLS {
		t.Error("Expected TLS disabled by default")
	}

	// Test Build defaults
	if cfg.Build.K != 10 {
		t.Errorf("Expected build K=10, got %d", cfg.Build.K)
	}
	if cfg.Build.Rho != 0.5 {
		t.Errorf("Expected rho=0.5, got %f", cfg.Build.Rho)
	}
	if cfg.Build.MaxIterations != 100 {
		t.Errorf("Expected max iterations=100, got %d", cfg.Build.MaxIterations)
	}
	if !cfg.Build.Parallel {
		t.Error("Expected parallel build enabled by default")
	}

	// Test Search defaults
	if cfg.Search.K != 10 {
		t.Errorf("Expected search K=10, got %d", cfg.Search.K)
	}
	if cfg.Search.RandomJumps != 3 {
		t.Errorf("Expected random jumps=3, got %d", cfg.Search.RandomJumps)
	}

	// Test Auth defaults
	if cfg.Auth.Enabled {
		t.Error("Expected auth disabled by default")
	}
	if cfg.Auth.RateLimitRPS != 50 {
		t.Errorf("Expected rate limit 50rps, got %f", cfg.Auth.RateLimitRPS)
	}
}

func TestLoadFromEnv(t *testing.T) {
	envVars := []string{
		"KGRAPH_HOST", "KGRAPH_PORT", "KGRAPH_MAX_CONNECTIONS",
		"KGRAPH_REQUEST_TIMEOUT", "KGRAPH_ENABLE_TLS",
		"KGRAPH_BUILD_K", "KGRAPH_BUILD_RHO", "KGRAPH_BUILD_MAX_ITERATIONS",
		"KGRAPH_BUILD_PARALLEL", "KGRAPH_SEARCH_K", "KGRAPH_AUTH_ENABLED",
		"KGRAPH_AUTH_SIGNING_KEY",
	}

	originalEnv := make(map[string]string)
	for _, key := range envVars {
		originalEnv[key] = os.Getenv(key)
	}
	defer func() {
		for key, value := range originalEnv {
			if value == "" {
				os.Unsetenv(key)
			} else {
				os.Setenv(key, value)
			}
		}
	}()

	os.Setenv("KGRAPH_HOST", "127.0.0.1")
	os.Setenv("KGRAPH_PORT", "9090")
	os.Setenv("KGRAPH_MAX_CONNECTIONS", "5000")
	os.Setenv("KGRAPH_REQUEST_TIMEOUT", "60s")
	os.Setenv("KGRAPH_ENABLE_TLS", "true")

	os.Setenv("KGRAPH_BUILD_K", "20")
	os.Setenv("KGRAPH_BUILD_RHO", "0.8")
	os.Setenv("KGRAPH_BUILD_MAX_ITERATIONS", "200")
	os.Setenv("KGRAPH_BUILD_PARALLEL", "false")

	os.Setenv("KGRAPH_SEARCH_K", "5")

	os.Setenv("KGRAPH_AUTH_ENABLED", "true")
	os.Setenv("KGRAPH_AUTH_SIGNING_KEY", "secret")

	cfg := LoadFromEnv()

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Expected host 127.0.0.1, got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.MaxConnections != 5000 {
		t.Errorf("Expected max connections 5000, got %d", cfg.Server.MaxConnections)
	}
	if cfg.Server.RequestTimeout != 60*time.Second {
		t.Errorf("Expected request timeout 60s, got %v", cfg.Server.RequestTimeout)
	}
	if !cfg.Server.EnableTLS {
		t.Error("Expected TLS enabled")
	}

	if cfg.Build.K != 20 {
		t.Errorf("Expected build K=20, got %d", cfg.Build.K)
	}
	if cfg.Build.Rho != 0.8 {
		t.Errorf("Expected rho=0.8, got %f", cfg.Build.Rho)
	}
	if cfg.Build.MaxIterations != 200 {
		t.Errorf("Expected max iterations=200, got %d", cfg.Build.MaxIterations)
	}
	if cfg.Build.Parallel {
		t.Error("Expected parallel build disabled")
	}

	if cfg.Search.K != 5 {
		t.Errorf("Expected search K=5, got %d", cfg.Search.K)
	}

	if !cfg.Auth.Enabled {
		t.Error("Expected auth enabled")
	}
	if cfg.Auth.SigningKey != "secret" {
		t.Errorf("Expected signing key 'secret', got %s", cfg.Auth.SigningKey)
	}
}

func TestLoadFromEnv_InvalidValues(t *testing.T) {
	originalPort := os.Getenv("KGRAPH_PORT")
	defer func() {
		if originalPort == "" {
			os.Unsetenv("KGRAPH_PORT")
		} else {
			os.Setenv("KGRAPH_PORT", originalPort)
		}
	}()

	os.Setenv("KGRAPH_PORT", "invalid")
	cfg := LoadFromEnv()

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080 for invalid value, got %d", cfg.Server.Port)
	}
}

func TestLoadFromEnv_DefaultsWhenNotSet(t *testing.T) {
	envVars := []string{
		"KGRAPH_HOST", "KGRAPH_PORT", "KGRAPH_MAX_CONNECTIONS",
		"KGRAPH_REQUEST_TIMEOUT", "KGRAPH_ENABLE_TLS",
		"KGRAPH_BUILD_K", "KGRAPH_BUILD_RHO", "KGRAPH_BUILD_MAX_ITERATIONS",
		"KGRAPH_BUILD_PARALLEL", "KGRAPH_SEARCH_K", "KGRAPH_AUTH_ENABLED",
	}

	originalEnv := make(map[string]string)
	for _, key := range envVars {
		originalEnv[key] = os.Getenv(key)
		os.Unsetenv(key)
	}
	defer func() {
		for key, value := range originalEnv {
			if value != "" {
				os.Setenv(key, value)
			}
		}
	}()

	cfg := LoadFromEnv()
	defaults := Default()

	if cfg.Server.Host != defaults.Server.Host {
		t.Errorf("Expected default host, got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != defaults.Server.Port {
		t.Errorf("Expected default port, got %d", cfg.Server.Port)
	}
	if cfg.Build.K != defaults.Build.K {
		t.Errorf("Expected default build K, got %d", cfg.Build.K)
	}
	if cfg.Search.RandomJumps != defaults.Search.RandomJumps {
		t.Errorf("Expected default random jumps, got %d", cfg.Search.RandomJumps)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "Valid default config",
			config:  Default(),
			wantErr: false,
		},
		{
			name: "Invalid port (too low)",
			config: &Config{
				Server: ServerConfig{Port: 0},
				Build:  Default().Build,
				Search: Default().Search,
			},
			wantErr: true,
		},
		{
			name: "Invalid port (too high)",
			config: &Config{
				Server: ServerConfig{Port: 70000},
				Build:  Default().Build,
				Search: Default().Search,
			},
			wantErr: true,
		},
		{
			name: "Invalid build K",
			config: &Config{
				Server: ServerConfig{Port: 8080, MaxConnections: 1000},
				Build:  BuildConfig{K: 0, Rho: 0.5, Delta: 0.001, MaxIterations: 10},
				Search: Default().Search,
			},
			wantErr: true,
		},
		{
			name: "Invalid rho",
			config: &Config{
				Server: ServerConfig{Port: 8080, MaxConnections: 1000},
				Build:  BuildConfig{K: 10, Rho: 1.5, Delta: 0.001, MaxIterations: 10},
				Search: Default().Search,
			},
			wantErr: true,
		},
		{
			name: "Auth enabled without signing key",
			config: &Config{
				Server: ServerConfig{Port: 8080, MaxConnections: 1000},
				Build:  Default().Build,
				Search: Default().Search,
				Auth:   AuthConfig{Enabled: true},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestServerConfig_Address(t *testing.T) {
	cfg := ServerConfig{
		Host: "localhost",
		Port: 8080,
	}

	addr := cfg.Address()
	expected := "localhost:8080"

	if addr != expected {
		t.Errorf("Expected address %s, got %s", expected, addr)
	}

	defaultCfg := Default()
	addr = defaultCfg.Server.Address()
	expected = "0.0.0.0:8080"

	if addr != expected {
		t.Errorf("Expected default address %s, got %s", expected, addr)
	}
}
