// Command analyze imports transactions from a CSV/JSON file, a
// spreadsheet share link or manual entry, submits them to the analysis
// service (or the offline mock) and prints the categorized result.
// With -chat it drops
// into a conversational loop using the analyzed data as context.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/gustavoln/financeiro-client/internal/analysis"
	"github.com/gustavoln/financeiro-client/internal/cli"
	"github.com/gustavoln/financeiro-client/internal/domain/ingest"
	"github.com/gustavoln/financeiro-client/internal/domain/model"
	"github.com/gustavoln/financeiro-client/internal/domain/projection"
	"github.com/gustavoln/financeiro-client/internal/infrastructure/config"
	"github.com/gustavoln/financeiro-client/internal/infrastructure/logging"
	"github.com/gustavoln/financeiro-client/internal/session"
)

func main() {
	flags := cli.ParseAnalyzeFlags()

	_ = godotenv.Load()
	cfg := config.LoadOrEnvWithPath(flags.ConfigPath)
	if flags.BaseURL != "" {
		cfg.Service.BaseURL = flags.BaseURL
	}
	logger := logging.NewLoggerWithComponent(cfg.Observability.Logging, "analyze")

	var svc analysis.Service
	if flags.UseMock || cfg.Mock.Enabled {
		svc = analysis.NewMock(analysis.WithMockLatency(cfg.Mock.Latency()))
	} else {
		svc = analysis.NewClient(analysis.ClientConfig{
			BaseURL:       cfg.Service.BaseURL,
			Timeout:       cfg.Service.Timeout(),
			HealthTimeout: cfg.Service.HealthTimeout(),
			Logger:        logger,
		})
	}

	if !flags.HasSource() {
		fmt.Fprintln(os.Stderr, "usage: analyze -file transactions.csv | -sheet <share-url> | -manual [-mock] [-chat]")
		os.Exit(2)
	}

	ctx := context.Background()
	sess := session.New()
	result, err := runAnalysis(ctx, svc, cfg, flags, sess)
	if err != nil {
		cli.PrintError("analysis failed: %v", err)
		os.Exit(1)
	}

	sess.SetResult(result)

	cli.PrintResult(result, flags.FilterCategory, projection.SortKey(flags.SortKey))

	if flags.Chat {
		cli.RunChat(ctx, svc, sess.Current, os.Stdin)
	}
}

// runAnalysis normalizes the selected source and submits it.
func runAnalysis(ctx context.Context, svc analysis.Service, cfg *config.Config, flags cli.AnalyzeFlags, sess *session.Session) (*model.AnalysisResult, error) {
	if flags.Manual {
		if err := cli.CollectManualEntries(sess, os.Stdin); err != nil {
			return nil, err
		}
		batch, err := sess.SubmitManual()
		if err != nil {
			return nil, err
		}
		result, err := svc.Analyze(ctx, batch)
		if err != nil {
			return nil, err
		}
		sess.ClearManual()
		return result, nil
	}

	if flags.SheetURL != "" {
		httpClient := &http.Client{Timeout: cfg.Service.Timeout()}
		content, err := ingest.FetchSheet(ctx, httpClient, flags.SheetURL)
		if err != nil {
			return nil, err
		}
		return svc.AnalyzeCSV(ctx, content)
	}

	data, err := os.ReadFile(flags.FilePath)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(flags.FilePath)) {
	case ".csv":
		content, err := ingest.FromCSV(data)
		if err != nil {
			return nil, err
		}
		return svc.AnalyzeCSV(ctx, content)
	case ".json":
		batch, err := ingest.FromJSON(data)
		if err != nil {
			return nil, err
		}
		return svc.Analyze(ctx, batch)
	default:
		return nil, fmt.Errorf("unsupported file type %q: only .csv and .json are accepted", filepath.Ext(flags.FilePath))
	}
}
