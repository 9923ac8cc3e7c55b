package ingest

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/gustavoln/financeiro-client/internal/fault"
)

// sheetIDPattern matches the document identifier in a Google Sheets share
// link, e.g. https://docs.google.com/spreadsheets/d/<id>/edit#gid=0.
var sheetIDPattern = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)

// RewriteShareURL turns a spreadsheet share link into its public
// CSV-export form. URLs without a recognizable /d/<id> segment pass
// through unchanged as a best-effort fallback.
func RewriteShareURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fault.NewFieldValidation("url", "is required")
	}
	m := sheetIDPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return trimmed, nil
	}
	return "https://docs.google.com/spreadsheets/d/" + m[1] + "/export?format=csv", nil
}

// FetchSheet rewrites a share link and downloads its CSV export. The body
// goes through the same UTF-8 gate as a locally selected CSV file. The
// whole body is read into memory; spreadsheet size is a client-side cost.
func FetchSheet(ctx context.Context, client *http.Client, shareURL string) (string, error) {
	exportURL, err := RewriteShareURL(shareURL)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, exportURL, nil)
	if err != nil {
		return "", fault.NewFieldValidation("url", err.Error())
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", &fault.NetworkError{Op: "fetch spreadsheet", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &fault.TransportError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &fault.NetworkError{Op: "read spreadsheet body", Err: err}
	}
	return FromCSV(body)
}
