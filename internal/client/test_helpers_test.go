package client

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/fivetwenty-io/sgdata/pkg/sgdata"
	"github.com/stretchr/testify/require"
)

// fakePortal serves /search/ from a fixed list of records and remembers every
// query it receives.
type fakePortal struct {
	t       *testing.T
	server  *httptest.Server
	records []map[string]interface{}
	wrap    bool

	mu      sync.Mutex
	queries []url.Values
	// failOn makes the n-th request (1-based) fail with failStatus.
	failOn     int
	failStatus int
}

func newFakePortal(t *testing.T, total int, wrap bool) *fakePortal {
	t.Helper()

	portal := &fakePortal{t: t, wrap: wrap}

	for i := 0; i < total; i++ {
		portal.records = append(portal.records, map[string]interface{}{
			"id":     i + 1,
			"street": fmt.Sprintf("Strasse %d", i+1),
			"city":   "St. Gallen",
		})
	}

	portal.server = httptest.NewServer(http.HandlerFunc(portal.handle))
	t.Cleanup(portal.server.Close)

	return portal
}

func (p *fakePortal) handle(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	p.queries = append(p.queries, r.URL.Query())
	count := len(p.queries)
	failOn, failStatus := p.failOn, p.failStatus
	p.mu.Unlock()

	if r.URL.Path != "/search/" {
		w.WriteHeader(http.StatusNotFound)

		return
	}

	if failOn == count {
		w.WriteHeader(failStatus)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": "induced failure"})

		return
	}

	query := r.URL.Query()
	start, _ := strconv.Atoi(query.Get("start"))

	rows := 10
	if raw := query.Get("rows"); raw != "" {
		rows, _ = strconv.Atoi(raw)
	}

	var page []interface{}

	for i := start; i < len(p.records) && i < start+rows; i++ {
		if p.wrap {
			page = append(page, map[string]interface{}{
				"datasetid": query.Get("dataset"),
				"recordid":  fmt.Sprintf("rec-%d", i),
				"fields":    p.records[i],
			})
		} else {
			page = append(page, p.records[i])
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"nhits":      len(p.records),
		"parameters": map[string]interface{}{"dataset": query.Get("dataset")},
		"records":    page,
	})
}

func (p *fakePortal) failRequest(n, status int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.failOn = n
	p.failStatus = status
}

func (p *fakePortal) requests() []url.Values {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]url.Values(nil), p.queries...)
}

// MockLogger collects log entries.
type MockLogger struct {
	mu   sync.Mutex
	logs []map[string]interface{}
}

func (l *MockLogger) add(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logs = append(l.logs, map[string]interface{}{"level": level, "msg": msg, "fields": fields})
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) { l.add("debug", msg, fields) }
func (l *MockLogger) Info(msg string, fields map[string]interface{})  { l.add("info", msg, fields) }
func (l *MockLogger) Warn(msg string, fields map[string]interface{})  { l.add("warn", msg, fields) }
func (l *MockLogger) Error(msg string, fields map[string]interface{}) { l.add("error", msg, fields) }

func (l *MockLogger) entries(level string) []map[string]interface{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []map[string]interface{}

	for _, entry := range l.logs {
		if entry["level"] == level {
			out = append(out, entry)
		}
	}

	return out
}

// NewTestClient creates a new test client with the given base URL.
func NewTestClient(t *testing.T, baseURL string, logger sgdata.Logger) *DatasetClient {
	t.Helper()

	client, err := New(&sgdata.Config{BaseURL: baseURL, Logger: logger})
	require.NoError(t, err)

	return client
}

// jsonServer answers every request with body and status.
func jsonServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server
}
