package sparql

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrStore wraps every failure to reach the triple store or to read its answer.
var ErrStore = errors.New("triple store error")

// maxGetQueryLength is the largest encoded query sent as a GET parameter;
// longer queries go out as a form POST.
const maxGetQueryLength = 2000

// Client is the triple-store contract the rest of the service depends on.
type Client interface {
	// Query runs a SELECT or ASK query and returns its flattened results.
	Query(ctx context.Context, query string) (*Results, error)
	// Update runs a SPARQL UPDATE request.
	Update(ctx context.Context, update string) error
	// Ping checks that the store answers.
	Ping(ctx context.Context) error
}

// Observer receives one observation per store round trip.
type Observer interface {
	ObserveStoreCall(kind, outcome string, d time.Duration)
}

// FusekiClient talks to an Apache Jena Fuseki dataset over the SPARQL 1.1
// protocol.
type FusekiClient struct {
	endpoint   string
	httpClient *http.Client
	observer   Observer
	logger     *slog.Logger
}

// Option configures a FusekiClient.
type Option func(*FusekiClient)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *FusekiClient) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *FusekiClient) { c.httpClient.Timeout = d }
}

// WithObserver registers a metrics observer.
func WithObserver(o Observer) Option {
	return func(c *FusekiClient) { c.observer = o }
}

// WithLogger sets the logger used for store failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *FusekiClient) { c.logger = l }
}

// NewFusekiClient creates a client for the dataset at endpoint, for example
// http://localhost:3030/eco-ontology.
func NewFusekiClient(endpoint string, opts ...Option) (*FusekiClient, error) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid fuseki endpoint %q", endpoint)
	}

	c := &FusekiClient{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the dataset URL.
func (c *FusekiClient) Endpoint() string {
	return c.endpoint
}

// Query executes a read query against {endpoint}/query.
func (c *FusekiClient) Query(ctx context.Context, query string) (*Results, error) {
	start := time.Now()
	res, err := c.query(ctx, query)
	c.observe("query", err, start)
	if err != nil {
		c.logger.Error("sparql query failed", "error", err)
		c.logger.Debug("failed sparql query", "query", query)
		return nil, err
	}
	return res, nil
}

func (c *FusekiClient) query(ctx context.Context, query string) (*Results, error) {
	form := url.Values{}
	form.Set("query", query)
	encoded := form.Encode()

	var req *http.Request
	var err error
	if len(encoded) <= maxGetQueryLength {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/query?"+encoded, nil)
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/query", strings.NewReader(encoded))
		if req != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create query request: %v", ErrStore, err)
	}
	req.Header.Set("Accept", "application/sparql-results+json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	res, err := DecodeResults(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return res, nil
}

// Update executes an update request against {endpoint}/update.
func (c *FusekiClient) Update(ctx context.Context, update string) error {
	start := time.Now()
	err := c.update(ctx, update)
	c.observe("update", err, start)
	if err != nil {
		c.logger.Error("sparql update failed", "error", err)
		c.logger.Debug("failed sparql update", "update", update)
	}
	return err
}

func (c *FusekiClient) update(ctx context.Context, update string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/update", strings.NewReader(update))
	if err != nil {
		return fmt.Errorf("%w: failed to create update request: %v", ErrStore, err)
	}
	req.Header.Set("Content-Type", "application/sparql-update")

	_, err = c.do(req)
	return err
}

// Ping calls the Fuseki server ping endpoint.
func (c *FusekiClient) Ping(ctx context.Context) error {
	start := time.Now()
	err := c.ping(ctx)
	c.observe("ping", err, start)
	return err
}

func (c *FusekiClient) ping(ctx context.Context) error {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	u.Path = "/$/ping"
	u.RawQuery = ""

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create ping request: %v", ErrStore, err)
	}
	_, err = c.do(req)
	return err
}

func (c *FusekiClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrStore, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrStore, resp.StatusCode, excerpt(body))
	}
	return body, nil
}

func (c *FusekiClient) observe(kind string, err error, start time.Time) {
	if c.observer == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.observer.ObserveStoreCall(kind, outcome, time.Since(start))
}

func excerpt(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) > 300 {
		return string(body[:300]) + "..."
	}
	return string(body)
}
