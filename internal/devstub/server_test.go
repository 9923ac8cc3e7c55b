package devstub_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gustavoln/financeiro-client/internal/analysis"
	"github.com/gustavoln/financeiro-client/internal/devstub"
	"github.com/gustavoln/financeiro-client/internal/domain/model"
	"github.com/gustavoln/financeiro-client/internal/fault"
)

func newTestStub(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	mock := analysis.NewMock(analysis.WithMockLatency(0))
	srv := httptest.NewServer(devstub.NewServer(mock, devstub.Config{}, logger).Router())
	t.Cleanup(srv.Close)
	return srv
}

func newStubClient(srv *httptest.Server) *analysis.Client {
	return analysis.NewClient(analysis.ClientConfig{BaseURL: srv.URL + "/api"})
}

func TestServer_Health(t *testing.T) {
	srv := newTestStub(t)

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	client := newStubClient(srv)
	assert.True(t, client.HealthCheck(context.Background()))
}

func TestServer_AnalyzeJSON_EndToEnd(t *testing.T) {
	srv := newTestStub(t)
	client := newStubClient(srv)

	batch := model.Batch{Transactions: []model.TransactionInput{
		{ID: "txn_1", Date: model.NewDate(2025, time.March, 1), Description: "Supermercado Extra", Amount: -245.80, Currency: "BRL"},
		{ID: "txn_2", Date: model.NewDate(2025, time.March, 5), Description: "Salário", Amount: 5000, Currency: "BRL"},
	}}

	result, err := client.Analyze(context.Background(), batch)
	require.NoError(t, err)

	require.Len(t, result.Transactions, 2)
	assert.Equal(t, model.CategoryFood, result.Transactions[0].Category)
	assert.Equal(t, model.CategoryIncome, result.Transactions[1].Category)
	assert.Equal(t, analysis.MockModelVersion, result.ModelVersion)
	assert.InDelta(t, 4754.20, result.Summary.Balance(), 1e-9)
}

func TestServer_AnalyzeCSV_EndToEnd(t *testing.T) {
	srv := newTestStub(t)
	client := newStubClient(srv)

	content := "id,date,description,amount\ntxn_1,2025-03-01,Posto Ipiranga,-180.00\n"

	result, err := client.AnalyzeCSV(context.Background(), content)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, model.CategoryTransport, result.Transactions[0].Category)
}

func TestServer_Analyze_InvalidInput(t *testing.T) {
	srv := newTestStub(t)
	client := newStubClient(srv)

	t.Run("empty JSON batch surfaces as an application error", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/api/analyze", "application/json",
			strings.NewReader(`{"transactions": []}`))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var envelope struct {
			Error struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
		assert.Equal(t, http.StatusBadRequest, envelope.Error.Code)
		assert.NotEmpty(t, envelope.Error.Message)
	})

	t.Run("the client maps the stub envelope", func(t *testing.T) {
		_, err := client.Analyze(context.Background(), model.Batch{Transactions: []model.TransactionInput{}})
		var appErr *fault.ApplicationError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
	})

	t.Run("malformed CSV is rejected", func(t *testing.T) {
		_, err := client.AnalyzeCSV(context.Background(), "not,a,real\nheader")
		var appErr *fault.ApplicationError
		require.ErrorAs(t, err, &appErr)
	})
}

func TestServer_Chat_EndToEnd(t *testing.T) {
	srv := newTestStub(t)
	client := newStubClient(srv)

	t.Run("message without context gets an onboarding reply", func(t *testing.T) {
		reply, err := client.SendChatMessage(context.Background(), "como estou indo?", nil)
		require.NoError(t, err)
		assert.NotEmpty(t, reply.Message)
		assert.NotEmpty(t, reply.Suggestions)
	})

	t.Run("empty message is a 400 with success false", func(t *testing.T) {
		_, err := client.SendChatMessage(context.Background(), "  ", nil)
		var appErr *fault.ApplicationError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
	})

	t.Run("non-JSON body is a 400", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/api/chat", "application/json", strings.NewReader("oi"))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestServer_ChatHistory(t *testing.T) {
	srv := newTestStub(t)
	client := newStubClient(srv)
	ctx := context.Background()

	type historyResponse struct {
		Success bool `json:"success"`
		History []struct {
			Role      string `json:"role"`
			Content   string `json:"content"`
			Timestamp string `json:"timestamp"`
		} `json:"history"`
	}

	fetchHistory := func(t *testing.T) historyResponse {
		t.Helper()
		resp, err := http.Get(srv.URL + "/api/chat/history")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body historyResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return body
	}

	t.Run("starts empty", func(t *testing.T) {
		body := fetchHistory(t)
		assert.True(t, body.Success)
		assert.Empty(t, body.History)
	})

	t.Run("records each exchange as two turns", func(t *testing.T) {
		reply, err := client.SendChatMessage(ctx, "como estou indo?", nil)
		require.NoError(t, err)

		body := fetchHistory(t)
		require.Len(t, body.History, 2)
		assert.Equal(t, "user", body.History[0].Role)
		assert.Equal(t, "como estou indo?", body.History[0].Content)
		assert.Equal(t, "assistant", body.History[1].Role)
		assert.Equal(t, reply.Message, body.History[1].Content)
		for _, entry := range body.History {
			_, err := time.Parse(time.RFC3339, entry.Timestamp)
			assert.NoError(t, err)
		}
	})

	t.Run("rejected messages are not recorded", func(t *testing.T) {
		_, err := client.SendChatMessage(ctx, "  ", nil)
		require.Error(t, err)

		body := fetchHistory(t)
		assert.Len(t, body.History, 2)
	})

	t.Run("clear empties the history", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/api/chat/clear", "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var cleared struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&cleared))
		assert.True(t, cleared.Success)
		assert.NotEmpty(t, cleared.Message)

		body := fetchHistory(t)
		assert.True(t, body.Success)
		assert.Empty(t, body.History)
	})
}

func TestServer_InsightEndpoints_EndToEnd(t *testing.T) {
	srv := newTestStub(t)
	client := newStubClient(srv)
	ctx := context.Background()

	// Analyze first so the mock has a summary to report on.
	batch := model.Batch{Transactions: []model.TransactionInput{
		{ID: "in", Date: model.NewDate(2025, time.March, 1), Description: "Salário", Amount: 3000, Currency: "BRL"},
		{ID: "food", Date: model.NewDate(2025, time.March, 2), Description: "Mercado Dia", Amount: -900, Currency: "BRL"},
	}}
	_, err := client.Analyze(ctx, batch)
	require.NoError(t, err)

	raw, err := client.QuickInsights(ctx)
	require.NoError(t, err)
	var insights struct {
		Success bool    `json:"success"`
		Balance float64 `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(raw, &insights))
	assert.True(t, insights.Success)
	assert.InDelta(t, 2100.0, insights.Balance, 1e-9)

	raw, err = client.BudgetOptimization(ctx)
	require.NoError(t, err)
	var optimization struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.Unmarshal(raw, &optimization))
	assert.True(t, optimization.Success)
}

func TestServer_UnknownRoute(t *testing.T) {
	srv := newTestStub(t)

	resp, err := http.Get(srv.URL + "/api/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var envelope struct {
		Error struct {
			Code int `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, http.StatusNotFound, envelope.Error.Code)
}
