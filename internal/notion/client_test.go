package notion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultClientConfig()
	cfg.BaseURL = server.URL
	cfg.BreakerEnabled = false
	return NewClient(cfg, nil), server
}

func TestQueryDatabase(t *testing.T) {
	var gotAuth, gotVersion, gotPath string
	var gotBody map[string]any

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotVersion = r.Header.Get("Notion-Version")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","results":[{"id":"page-1"}],"has_more":false}`))
	}))

	raw, err := client.QueryDatabase(context.Background(), "1429989fe8ac4effbc8f57f56486db54", "secret-token")
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "2022-06-28", gotVersion)
	assert.Equal(t, "/v1/databases/1429989fe8ac4effbc8f57f56486db54/query", gotPath)
	assert.Equal(t, float64(100), gotBody["page_size"])

	// Body is relayed verbatim.
	var parsed QueryResponse
	require.NoError(t, json.Unmarshal(raw, &parsed))
	require.Len(t, parsed.Results, 1)
	assert.Equal(t, "page-1", parsed.Results[0].ID)
}

func TestQueryDatabase_UpstreamError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"object":"error","code":"object_not_found","message":"Could not find database"}`))
	}))

	_, err := client.QueryDatabase(context.Background(), "missing", "secret-token")
	require.Error(t, err)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusNotFound, upstream.StatusCode)
	assert.Equal(t, "object_not_found", upstream.Code)
	assert.Equal(t, "Could not find database", upstream.Message)
}

func TestQueryDatabase_MalformedErrorBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>gateway timeout</html>`))
	}))

	_, err := client.QueryDatabase(context.Background(), "db", "tok")
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusBadGateway, upstream.StatusCode)
	assert.Equal(t, "Failed to fetch from Notion API", upstream.Message)
}

func TestSearchDatabases(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/search", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		filter, ok := body["filter"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "database", filter["value"])

		w.Write([]byte(`{"results":[
			{"id":"db-1","object":"database","url":"https://notion.so/db-1",
			 "created_time":"2024-01-01T00:00:00.000Z","last_edited_time":"2024-06-01T00:00:00.000Z",
			 "title":[{"text":{"content":"Assignments"}}]},
			{"id":"db-2","object":"database","url":"https://notion.so/db-2",
			 "created_time":"2024-02-01T00:00:00.000Z","last_edited_time":"2024-06-02T00:00:00.000Z",
			 "title":[]}
		]}`))
	}))

	databases, err := client.SearchDatabases(context.Background(), "secret-token")
	require.NoError(t, err)
	require.Len(t, databases, 2)

	assert.Equal(t, "db-1", databases[0].ID)
	assert.Equal(t, "Assignments", databases[0].Title)
	assert.Equal(t, "https://notion.so/db-1", databases[0].URL)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", databases[0].CreatedTime)

	// Missing title falls back to a placeholder.
	assert.Equal(t, "Untitled Database", databases[1].Title)
}

func TestUpdateTaskCompletion(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]any

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"object":"page","id":"page-1"}`))
	}))

	_, err := client.UpdateTaskCompletion(context.Background(), "page-1", "secret-token", true)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/v1/pages/page-1", gotPath)

	properties := gotBody["properties"].(map[string]any)
	completed := properties["Completed"].(map[string]any)
	assert.Equal(t, true, completed["checkbox"])
}

func TestClient_BreakerTripsAfterConsecutiveFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"boom"}`))
	}))
	t.Cleanup(server.Close)

	cfg := DefaultClientConfig()
	cfg.BaseURL = server.URL
	cfg.FailureThreshold = 3
	client := NewClient(cfg, nil)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := client.QueryDatabase(ctx, "db", "tok")
		var upstream *UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, http.StatusInternalServerError, upstream.StatusCode)
	}

	// Breaker is now open; the failure surfaces without an upstream call.
	_, err := client.QueryDatabase(ctx, "db", "tok")
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusServiceUnavailable, upstream.StatusCode)
}
