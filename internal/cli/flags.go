package cli

import (
	"flag"

	"github.com/gustavoln/financeiro-client/internal/domain/model"
	"github.com/gustavoln/financeiro-client/internal/domain/projection"
)

// AnalyzeFlags are the command-line options of the analyze command.
type AnalyzeFlags struct {
	ConfigPath     string
	FilePath       string
	SheetURL       string
	BaseURL        string
	UseMock        bool
	FilterCategory string
	SortKey        string
	Chat           bool
	Manual         bool
}

// ParseAnalyzeFlags parses the analyze command line.
func ParseAnalyzeFlags() AnalyzeFlags {
	var flags AnalyzeFlags
	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "Path to config file")
	flag.StringVar(&flags.FilePath, "file", "", "CSV or JSON file to analyze")
	flag.StringVar(&flags.SheetURL, "sheet", "", "Spreadsheet share link to import")
	flag.StringVar(&flags.BaseURL, "base", "", "Service base URL (overrides config)")
	flag.BoolVar(&flags.UseMock, "mock", false, "Use the offline mock service")
	flag.StringVar(&flags.FilterCategory, "filter", model.FilterAll, "Category filter for the transaction list")
	flag.StringVar(&flags.SortKey, "sort", string(projection.SortDateDesc), "Sort key: date, amount or category")
	flag.BoolVar(&flags.Chat, "chat", false, "Open a chat session after analysis")
	flag.BoolVar(&flags.Manual, "manual", false, "Type transactions in by hand")
	flag.Parse()
	return flags
}

// HasSource reports whether a file, sheet or manual source was selected.
func (f AnalyzeFlags) HasSource() bool {
	return f.FilePath != "" || f.SheetURL != "" || f.Manual
}
