package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	sghttp "github.com/fivetwenty-io/sgdata/internal/http"
	"github.com/fivetwenty-io/sgdata/pkg/sgdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLogger for testing.
type MockLogger struct {
	logs []map[string]interface{}
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "debug", "msg": msg, "fields": fields})
}

func (l *MockLogger) Info(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "info", "msg": msg, "fields": fields})
}

func (l *MockLogger) Warn(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "warn", "msg": msg, "fields": fields})
}

func (l *MockLogger) Error(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "error", "msg": msg, "fields": fields})
}

func newClient(t *testing.T, baseURL string, opts ...sghttp.Option) *sghttp.Client {
	t.Helper()

	client, err := sghttp.NewClient(baseURL, opts...)
	require.NoError(t, err)

	return client
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()
	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/api/records/1.0/search/", request.URL.Path)
			assert.Equal(t, "GET", request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Accept"))
			assert.NotEmpty(t, request.Header.Get("User-Agent"))

			_ = json.NewEncoder(writer).Encode(map[string]int{"nhits": 3})
		}))
		defer server.Close()

		client := newClient(t, server.URL+"/api/records/1.0/")

		resp, err := client.Get(context.Background(), "search/", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var result map[string]int

		err = json.Unmarshal(resp.Body, &result)
		require.NoError(t, err)
		assert.Equal(t, 3, result["nhits"])
	})

	t.Run("request with query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "dataset=road-works&rows=0", request.URL.RawQuery)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := newClient(t, server.URL)

		resp, err := client.Get(context.Background(), "search/", url.Values{
			"dataset": []string{"road-works"},
			"rows":    []string{"0"},
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("error response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(writer).Encode(map[string]interface{}{
				"errorcode": 10002,
				"error":     "Unknown dataset: nope",
			})
		}))
		defer server.Close()

		client := newClient(t, server.URL)

		resp, err := client.Get(context.Background(), "search/", nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, 404, resp.StatusCode)

		reqErr := &sgdata.RequestError{}
		ok := errors.As(err, &reqErr)
		require.True(t, ok)
		assert.Equal(t, sgdata.FailureStatus, reqErr.Kind)
		assert.Equal(t, "Unknown dataset: nope", reqErr.Message)
		assert.ErrorIs(t, err, sgdata.ErrRequestFailed)
		assert.True(t, sgdata.IsNotFound(err))
	})

	t.Run("error response without JSON body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusBadGateway)
			_, _ = writer.Write([]byte("upstream down\n"))
		}))
		defer server.Close()

		client := newClient(t, server.URL)

		_, err := client.Get(context.Background(), "search/", nil)
		require.Error(t, err)
		assert.Equal(t, 502, sgdata.StatusCode(err))

		reqErr := &sgdata.RequestError{}
		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, "upstream down", reqErr.Message)
	})

	t.Run("server errors are not retried", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++

			writer.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := newClient(t, server.URL)

		resp, err := client.Get(context.Background(), "search/", nil)
		require.Error(t, err)
		assert.Equal(t, 503, resp.StatusCode)
		assert.Equal(t, 1, attempts)
	})

	t.Run("connection failure", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {}))
		serverURL := server.URL
		server.Close()

		client := newClient(t, serverURL)

		resp, err := client.Get(context.Background(), "search/", nil)
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.True(t, sgdata.IsTransportFailure(err))
		assert.ErrorIs(t, err, sgdata.ErrRequestFailed)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := newClient(t, server.URL)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.Get(ctx, "search/", nil)
		require.Error(t, err)
		assert.True(t, sgdata.IsTransportFailure(err))
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			time.Sleep(200 * time.Millisecond)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := newClient(t, server.URL, sghttp.WithTimeout(20*time.Millisecond))

		_, err := client.Get(context.Background(), "search/", nil)
		require.Error(t, err)
		assert.True(t, sgdata.IsTransportFailure(err))
	})

	t.Run("custom headers and user agent", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "custom-value", request.Header.Get("X-Custom-Header"))
			assert.Equal(t, "sgdata-test", request.Header.Get("User-Agent"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := newClient(t, server.URL, sghttp.WithUserAgent("sgdata-test"))

		resp, err := client.Do(context.Background(), &sghttp.Request{
			Path: "search/",
			Headers: map[string]string{
				"X-Custom-Header": "custom-value",
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("with debug logging", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(writer).Encode(map[string]string{"result": "ok"})
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := newClient(t, server.URL, sghttp.WithLogger(logger), sghttp.WithDebug(true))

		_, err := client.Get(context.Background(), "search/", nil)
		require.NoError(t, err)

		// Should have logged request and response
		assert.Len(t, logger.logs, 2)
		assert.Equal(t, "HTTP Request", logger.logs[0]["msg"])
		assert.Equal(t, "HTTP Response", logger.logs[1]["msg"])
	})

	t.Run("logger without debug stays quiet", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := newClient(t, server.URL, sghttp.WithLogger(logger))

		_, err := client.Get(context.Background(), "search/", nil)
		require.NoError(t, err)
		assert.Empty(t, logger.logs)
	})
}

func TestClient_ResolveURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		baseURL  string
		path     string
		query    url.Values
		expected string
	}{
		{
			name:     "base with trailing slash",
			baseURL:  "https://daten.sg.ch/api/records/1.0/",
			path:     "search/",
			expected: "https://daten.sg.ch/api/records/1.0/search/",
		},
		{
			name:     "base without trailing slash",
			baseURL:  "https://daten.sg.ch/api/records/1.0",
			path:     "search/",
			expected: "https://daten.sg.ch/api/records/1.0/search/",
		},
		{
			name:     "leading slash on path stays relative",
			baseURL:  "https://daten.sg.ch/api/records/1.0/",
			path:     "/search/",
			expected: "https://daten.sg.ch/api/records/1.0/search/",
		},
		{
			name:     "with query",
			baseURL:  "https://daten.sg.ch/api/records/1.0/",
			path:     "search/",
			query:    url.Values{"dataset": []string{"road-works"}, "rows": []string{"5"}},
			expected: "https://daten.sg.ch/api/records/1.0/search/?dataset=road-works&rows=5",
		},
	}

	for _, testCase := range tests {
		testCase := testCase

		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			client := newClient(t, testCase.baseURL)

			resolved, err := client.ResolveURL(testCase.path, testCase.query)
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, resolved)
		})
	}
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	t.Parallel()

	for _, baseURL := range []string{"", "daten.sg.ch/api", "://broken"} {
		_, err := sghttp.NewClient(baseURL)
		require.Error(t, err, baseURL)
		assert.ErrorIs(t, err, sgdata.ErrInvalidBaseURL)
	}
}
