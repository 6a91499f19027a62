package httpjson

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askontube/internal/core/domain"
)

func TestClient_Do(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/echo", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["say"]})
	}))
	defer srv.Close()

	c := New("test", srv.URL+"/v1/", time.Second, http.Header{"Authorization": {"Bearer k"}})
	var out struct {
		Echo string `json:"echo"`
	}
	err := c.Do(context.Background(), http.MethodPost, "/echo", map[string]string{"say": "hi"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "hi", out.Echo)
}

func TestClient_Do_NoBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := New("test", srv.URL, time.Second, nil).Do(context.Background(), http.MethodGet, "/ping", nil, nil)

	assert.NoError(t, err)
}

func TestClient_Do_StatusErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  error
		wantCode string
		wantMsg  string
	}{
		{"nested error", 400, `{"error":{"message":"bad input","code":"content_filter"}}`, domain.ErrUpstream, "content_filter", "bad input"},
		{"type as code", 400, `{"error":{"message":"nope","type":"invalid_request_error"}}`, domain.ErrUpstream, "invalid_request_error", "nope"},
		{"flat error", 404, `{"error":"model not found"}`, domain.ErrUpstream, "", "model not found"},
		{"plain body", 502, `upstream broke`, domain.ErrUpstream, "", "upstream broke"},
		{"rate limited", 429, `{"error":{"message":"slow down"}}`, domain.ErrRateLimited, "", "slow down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := New("test", srv.URL, time.Second, nil).Do(context.Background(), http.MethodGet, "/", nil, nil)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.status, se.Status)
			assert.Equal(t, tt.wantCode, se.Code)
			assert.Equal(t, tt.wantMsg, se.Message)
		})
	}
}

func TestClient_Do_Transport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	err := New("test", srv.URL, time.Second, nil).Do(context.Background(), http.MethodGet, "/", nil, nil)

	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestClient_Do_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New("test", "http://127.0.0.1:1", time.Second, nil).Do(ctx, http.MethodGet, "/", nil, nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrUpstream)
}

func TestClient_Do_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	var out map[string]any
	err := New("test", srv.URL, time.Second, nil).Do(context.Background(), http.MethodGet, "/", nil, &out)

	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestIsCode(t *testing.T) {
	err := &StatusError{Provider: "p", Status: 400, Code: "content_filter"}

	assert.True(t, IsCode(err, "content_filter"))
	assert.False(t, IsCode(err, "other"))
	assert.False(t, IsCode(errors.New("x"), "content_filter"))
}
