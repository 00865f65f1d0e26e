package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/kgraph/kgraph/pkg/api/rest"
	"github.com/kgraph/kgraph/pkg/api/rest/middleware"
	"github.com/kgraph/kgraph/pkg/config"
	"github.com/kgraph/kgraph/pkg/observability"
)

var (
	version = "1.0.0"
	commit  = "dev"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version and exit")
		showHelp    = flag.Bool("help", false, "show help and exit")
		configFile  = flag.String("config", "", "path to configuration file (optional)")
		host        = flag.String("host", "", "server host (overrides config/env)")
		port        = flag.Int("port", 0, "server port (overrides config/env)")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("kgraph server v%s (commit: %s)\n", version, commit)
		os.Exit(0)
	}

	if *showHelp {
		showUsage()
		os.Exit(0)
	}

	printBanner()

	cfg := loadConfig(*configFile)

	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := observability.NewDefaultLogger()
	observability.SetGlobalLogger(logger)
	metrics := observability.NewMetrics()

	serverCfg := rest.ServerConfig{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		CORSEnabled: true,
		CORSOrigins: []string{"*"},
		Auth: middleware.AuthConfig{
			Enabled:     cfg.Auth.Enabled,
			JWTSecret:   cfg.Auth.SigningKey,
			PublicPaths: []string{"/v1/health", "/metrics"},
		},
		RateLimit: middleware.RateLimitConfig{
			Enabled:        true,
			RequestsPerSec: cfg.Auth.RateLimitRPS,
			Burst:          cfg.Auth.RateLimitBurst,
			PerIP:          true,
		},
	}

	log.Println("Initializing kgraph server...")
	server := rest.NewServer(serverCfg, cfg, metrics, logger)

	go func() {
		log.Println("Starting REST server...")
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	printStartupInfo(cfg)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	log.Println("Server is ready. Press Ctrl+C to stop.")
	sig := <-sigChan
	log.Printf("Received signal: %v", sig)

	log.Println("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped. Goodbye!")
}

func loadConfig(configFile string) *config.Config {
	// TODO: support loading from YAML/JSON config file
	if configFile != "" {
		log.Printf("Warning: config file support not yet implemented, using environment variables")
	}
	return config.LoadFromEnv()
}

func printBanner() {
	banner := `
╔═══════════════════════════════════════════════════════════╗
║                                                           ║
║   _               _                _                     ║
║  | | ____ _ _ __ _| |__   __ _ _ __ | |__                  ║
║  | |/ / _' | '__/ _' | '_ \ / _' | '_ \| '_ \                 ║
║  |   < (_| | | | (_| | |_) | (_| | |_) | | | |                ║
║  |_|\_\__, |_|  \__,_|_.__/ \__,_| .__/|_| |_|                ║
║       |___/                      |_|                     ║
║                                                           ║
║   Approximate k-NN graph construction, maintenance        ║
║   and search over arbitrary item types                    ║
║                                                           ║
╚═══════════════════════════════════════════════════════════╝
`
	fmt.Println(banner)
	fmt.Printf("Version: %s (commit: %s)\n\n", version, commit)
}

func printStartupInfo(cfg *config.Config) {
	fmt.Println("\n╔════════════════════════════════════════════════════════╗")
	fmt.Println("║               Server Configuration                     ║")
	fmt.Println("╠════════════════════════════════════════════════════════╣")
	fmt.Printf("║ Address:          %-35s ║\n", cfg.Server.Address())
	fmt.Printf("║ TLS Enabled:      %-35v ║\n", cfg.Server.EnableTLS)
	fmt.Printf("║ Max Connections:  %-35d ║\n", cfg.Server.MaxConnections)
	fmt.Println("╠════════════════════════════════════════════════════════╣")
	fmt.Println("║               Build Configuration                      ║")
	fmt.Println("╠════════════════════════════════════════════════════════╣")
	fmt.Printf("║ Default K:        %-35d ║\n", cfg.Build.K)
	fmt.Printf("║ Rho:              %-35.2f ║\n", cfg.Build.Rho)
	fmt.Printf("║ Delta:            %-35.4f ║\n", cfg.Build.Delta)
	fmt.Printf("║ Max Iterations:   %-35d ║\n", cfg.Build.MaxIterations)
	fmt.Println("╠════════════════════════════════════════════════════════╣")
	fmt.Println("║               Search Configuration                     ║")
	fmt.Println("╠════════════════════════════════════════════════════════╣")
	fmt.Printf("║ Default K:        %-35d ║\n", cfg.Search.K)
	fmt.Printf("║ Random Jumps:     %-35d ║\n", cfg.Search.RandomJumps)
	fmt.Println("╚════════════════════════════════════════════════════════╝")
	fmt.Println()
}

func showUsage() {
	fmt.Println("kgraph server - approximate k-NN graph construction and search over HTTP")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  kgraph-server [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -help             Show this help message")
	fmt.Println("  -version          Show version information")
	fmt.Println("  -config PATH      Configuration file (not loaded; environment variables are used)")
	fmt.Println("  -host HOST        Server host (default: 0.0.0.0)")
	fmt.Println("  -port PORT        Server port (default: 8080)")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  KGRAPH_HOST                Server host")
	fmt.Println("  KGRAPH_PORT                Server port")
	fmt.Println("  KGRAPH_MAX_CONNECTIONS     Max concurrent connections")
	fmt.Println("  KGRAPH_REQUEST_TIMEOUT     Request timeout (e.g., 30s)")
	fmt.Println("  KGRAPH_ENABLE_TLS          Enable TLS (true/false)")
	fmt.Println("  KGRAPH_TLS_CERT            TLS certificate file")
	fmt.Println("  KGRAPH_TLS_KEY             TLS key file")
	fmt.Println("  KGRAPH_BUILD_K             Default neighbor list capacity")
	fmt.Println("  KGRAPH_BUILD_RHO           NN-Descent sample rate")
	fmt.Println("  KGRAPH_BUILD_DELTA         NN-Descent early-termination threshold")
	fmt.Println("  KGRAPH_BUILD_MAX_ITERATIONS NN-Descent iteration cap")
	fmt.Println("  KGRAPH_SEARCH_K            Default search result count")
	fmt.Println("  KGRAPH_AUTH_ENABLED        Require bearer tokens (true/false)")
	fmt.Println("  KGRAPH_AUTH_SIGNING_KEY    JWT signing key")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  # Start with default configuration")
	fmt.Println("  kgraph-server")
	fmt.Println()
	fmt.Println("  # Start on custom port")
	fmt.Println("  kgraph-server -port 9090")
	fmt.Println()
	fmt.Println("  # Start with environment variables")
	fmt.Println("  KGRAPH_PORT=9090 KGRAPH_BUILD_K=20 kgraph-server")
	fmt.Println()
}
