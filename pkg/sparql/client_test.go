package sparql

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method      string
	Path        string
	Query       string
	ContentType string
	Accept      string
	Body        string
}

type fakeFuseki struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	body     string
}

func (f *fakeFuseki) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method:      r.Method,
		Path:        r.URL.Path,
		Query:       r.URL.Query().Get("query"),
		ContentType: r.Header.Get("Content-Type"),
		Accept:      r.Header.Get("Accept"),
		Body:        string(body),
	})
	status, resp := f.status, f.body
	f.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(resp))
}

type observation struct {
	kind, outcome string
}

type recordingObserver struct {
	mu  sync.Mutex
	obs []observation
}

func (o *recordingObserver) ObserveStoreCall(kind, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.obs = append(o.obs, observation{kind, outcome})
}

func newTestClient(t *testing.T, f *fakeFuseki, opts ...Option) *FusekiClient {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	c, err := NewFusekiClient(srv.URL+"/eco-ontology", opts...)
	require.NoError(t, err)
	return c
}

func TestNewFusekiClientValidatesEndpoint(t *testing.T) {
	for _, bad := range []string{"", "localhost:3030", "/eco-ontology", "::"} {
		_, err := NewFusekiClient(bad)
		assert.Error(t, err, bad)
	}

	c, err := NewFusekiClient("http://localhost:3030/eco-ontology/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3030/eco-ontology", c.Endpoint())
}

func TestQueryUsesGet(t *testing.T) {
	f := &fakeFuseki{body: selectJSON}
	obs := &recordingObserver{}
	c := newTestClient(t, f, WithObserver(obs))

	res, err := c.Query(context.Background(), "SELECT ?s WHERE { ?s ?p ?o }")
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)

	require.Len(t, f.requests, 1)
	req := f.requests[0]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/eco-ontology/query", req.Path)
	assert.Equal(t, "SELECT ?s WHERE { ?s ?p ?o }", req.Query)
	assert.Equal(t, "application/sparql-results+json", req.Accept)
	assert.Equal(t, []observation{{"query", "ok"}}, obs.obs)
}

func TestLongQueryUsesPost(t *testing.T) {
	f := &fakeFuseki{body: selectJSON}
	c := newTestClient(t, f)

	long := "SELECT ?s WHERE { ?s ?p \"" + strings.Repeat("x", 3000) + "\" }"
	_, err := c.Query(context.Background(), long)
	require.NoError(t, err)

	require.Len(t, f.requests, 1)
	req := f.requests[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "application/x-www-form-urlencoded", req.ContentType)
	assert.Contains(t, req.Body, "query=SELECT")
}

func TestQueryStoreError(t *testing.T) {
	f := &fakeFuseki{status: http.StatusBadRequest, body: "Parse error: line 1"}
	obs := &recordingObserver{}
	c := newTestClient(t, f, WithObserver(obs))

	_, err := c.Query(context.Background(), "SELECT nonsense")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStore)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "Parse error")
	assert.Equal(t, []observation{{"query", "error"}}, obs.obs)
}

func TestQueryUnreachableStore(t *testing.T) {
	c, err := NewFusekiClient("http://127.0.0.1:1/eco-ontology", WithTimeout(time.Second))
	require.NoError(t, err)

	_, err = c.Query(context.Background(), "ASK { ?s ?p ?o }")
	assert.ErrorIs(t, err, ErrStore)
}

func TestUpdate(t *testing.T) {
	f := &fakeFuseki{}
	c := newTestClient(t, f)

	update := "INSERT DATA { <http://a> <http://b> \"c\" . }"
	require.NoError(t, c.Update(context.Background(), update))

	require.Len(t, f.requests, 1)
	req := f.requests[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/eco-ontology/update", req.Path)
	assert.Equal(t, "application/sparql-update", req.ContentType)
	assert.Equal(t, update, req.Body)
}

func TestUpdateFailure(t *testing.T) {
	f := &fakeFuseki{status: http.StatusInternalServerError, body: "boom"}
	c := newTestClient(t, f)

	err := c.Update(context.Background(), "CLEAR ALL")
	assert.ErrorIs(t, err, ErrStore)
}

func TestPing(t *testing.T) {
	f := &fakeFuseki{body: "2024-05-01T10:00:00Z"}
	c := newTestClient(t, f)

	require.NoError(t, c.Ping(context.Background()))
	require.Len(t, f.requests, 1)
	assert.Equal(t, "/$/ping", f.requests[0].Path)
}
