package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGatewayClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		BaseURL:    server.URL,
		Timeout:    200 * time.Millisecond,
		MaxRetries: 3,
		RetryDelay: 10 * time.Millisecond,
	}, nil)
}

func TestQueryTasks(t *testing.T) {
	client := newTestGatewayClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/notion", r.URL.Path)
		w.Write([]byte(`{"object":"list","results":[
			{"id":"page-1","properties":{"Name":{"title":[{"text":{"content":"Essay"}}]}}}
		],"has_more":false}`))
	}))

	resp, err := client.QueryTasks(context.Background(), "db-id", "tok")
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "page-1", resp.Results[0].ID)
}

func TestQueryTasks_MissingResultsIsValidationError(t *testing.T) {
	client := newTestGatewayClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"object":"list"}`))
	}))

	_, err := client.QueryTasks(context.Background(), "db-id", "tok")
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestDo_RetryExhaustion(t *testing.T) {
	var attempts atomic.Int32
	client := newTestGatewayClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		time.Sleep(time.Second) // always exceeds the per-attempt timeout
	}))

	_, err := client.QueryTasks(context.Background(), "db-id", "tok")
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))

	// MAX_RETRIES retries after the first attempt.
	assert.Equal(t, int32(4), attempts.Load())
}

func TestDo_NoRetryOnErrorResponse(t *testing.T) {
	var attempts atomic.Int32
	client := newTestGatewayClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Failed to fetch data from Notion"}`))
	}))

	_, err := client.QueryTasks(context.Background(), "db-id", "tok")
	require.Error(t, err)
	assert.Equal(t, KindAPI, KindOf(err))
	assert.Equal(t, int32(1), attempts.Load())
}

func TestDo_ErrorClassification(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   Kind
	}{
		{"unauthorized", http.StatusUnauthorized, KindAuthentication},
		{"forbidden", http.StatusForbidden, KindAuthentication},
		{"bad request", http.StatusBadRequest, KindValidation},
		{"not found", http.StatusNotFound, KindValidation},
		{"server error", http.StatusInternalServerError, KindAPI},
		{"bad gateway", http.StatusBadGateway, KindAPI},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestGatewayClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(`{"error":"nope"}`))
			}))

			_, err := client.QueryTasks(context.Background(), "db-id", "tok")
			require.Error(t, err)
			assert.Equal(t, tc.want, KindOf(err))

			var gatewayErr *Error
			require.ErrorAs(t, err, &gatewayErr)
			assert.Equal(t, tc.status, gatewayErr.StatusCode)
			assert.Equal(t, "nope", gatewayErr.Message)
		})
	}
}

func TestDo_RecoversAfterTransientFailure(t *testing.T) {
	var attempts atomic.Int32
	client := newTestGatewayClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			time.Sleep(time.Second) // first attempt times out
			return
		}
		w.Write([]byte(`{"object":"list","results":[],"has_more":false}`))
	}))

	resp, err := client.QueryTasks(context.Background(), "db-id", "tok")
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestGetDatabases(t *testing.T) {
	client := newTestGatewayClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/databases", r.URL.Path)
		assert.Equal(t, "secret-token", r.URL.Query().Get("token"))
		w.Write([]byte(`{"databases":[{"id":"db-1","title":"Assignments","url":"https://notion.so/db-1"}]}`))
	}))

	databases, err := client.GetDatabases(context.Background(), "secret-token")
	require.NoError(t, err)
	require.Len(t, databases, 1)
	assert.Equal(t, "Assignments", databases[0].Title)
}

func TestExchangeCode(t *testing.T) {
	client := newTestGatewayClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/oauth", r.URL.Path)
		assert.Equal(t, "code-1", r.URL.Query().Get("code"))
		w.Write([]byte(`{"access_token":"tok","workspace_id":"ws","workspace_name":"Workspace"}`))
	}))

	result, err := client.ExchangeCode(context.Background(), "code-1")
	require.NoError(t, err)
	assert.Equal(t, "tok", result.AccessToken)
	assert.Equal(t, "ws", result.WorkspaceID)
}

func TestUpdateTaskCompletion(t *testing.T) {
	client := newTestGatewayClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/tasks/page-1", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"object":"page","id":"page-1"}`))
	}))

	err := client.UpdateTaskCompletion(context.Background(), "page-1", "secret-token", true)
	assert.NoError(t, err)
}
