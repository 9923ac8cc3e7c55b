// Command devserver runs the local stub of the analysis service, backed
// by the deterministic mock. It speaks the same wire contract as the
// real service so frontends and the analyze CLI can develop against it
// offline.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/gustavoln/financeiro-client/internal/analysis"
	"github.com/gustavoln/financeiro-client/internal/devstub"
	"github.com/gustavoln/financeiro-client/internal/infrastructure/config"
	"github.com/gustavoln/financeiro-client/internal/infrastructure/logging"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "Path to config file")
		port       = flag.Int("port", 0, "Listen port (overrides config)")
	)
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.LoadOrEnvWithPath(*configPath)
	if *port > 0 {
		cfg.DevServer.Port = *port
	}
	logger := logging.NewLoggerWithComponent(cfg.Observability.Logging, "devserver")

	svc := analysis.NewMock(analysis.WithMockLatency(cfg.Mock.Latency()))
	server := devstub.NewServer(svc, devstub.Config{
		AllowedOrigins: cfg.DevServer.AllowedOrigins,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.DevServer.Port)
	logger.Info("starting dev server", "addr", addr)
	if err := server.Run(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
