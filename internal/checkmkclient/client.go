package checkmkclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"checkmkmcp/internal/requestid"
	"checkmkmcp/pkg/logging"
)

// Config configures a Client. It mirrors the checkmk.* and
// advanced.recovery.* configuration keys.
type Config struct {
	ServerURL  string // e.g. "https://monitoring.example.com/check_mk/api/1.0"
	Username   string
	Password   string
	Site       string
	VerifySSL  bool
	CACertPath string

	Retry          RetryPolicy
	BreakerConfig  BreakerConfig
	RequestTimeout time.Duration

	// ObserveRequest, when set, is invoked once per call that the circuit
	// breaker lets through, with the endpoint family, "success" or "error",
	// and the total duration including retries. Calls short-circuited by an
	// open breaker are not observed. Used to feed the metrics collector
	// without this package depending on it.
	ObserveRequest func(family, outcome string, duration time.Duration)
}

// BreakerConfig tunes every family breaker created by a Client.
type BreakerConfig struct {
	FailureThreshold int
	RecoveryTimeout  time.Duration
}

// Client is a typed façade over the Checkmk REST API. Safe
// for concurrent use: the underlying http.Client pools connections and the
// breaker store is internally synchronized.
type Client struct {
	cfg      Config
	http     *http.Client
	breakers *BreakerStore
}

// New constructs a Client, configuring TLS verification per cfg.VerifySSL
// and cfg.CACertPath.
func New(cfg Config) (*Client, error) {
	transport := &http.Transport{}
	if !cfg.VerifySSL {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // explicit operator opt-out
	} else if cfg.CACertPath != "" {
		pool := x509.NewCertPool()
		pem, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("checkmk: reading ca_cert_path: %w", err)
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("checkmk: ca_cert_path %s contains no usable certificates", cfg.CACertPath)
		}
		transport.TLSClientConfig = &tls.Config{RootCAs: pool}
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		cfg:      cfg,
		http:     &http.Client{Transport: transport, Timeout: timeout},
		breakers: NewBreakerStore(cfg.BreakerConfig.FailureThreshold, cfg.BreakerConfig.RecoveryTimeout),
	}, nil
}

// requestOpts carries the per-call extras do needs beyond
// method/path/body: an If-Match etag and a caller-supplied fallback for
// idempotent reads when the breaker is open.
type requestOpts struct {
	etag     string
	fallback func() (json.RawMessage, string, error)
}

// RequestOption customizes a single call.
type RequestOption func(*requestOpts)

// WithEtag attaches an If-Match header, required for rule updates.
func WithEtag(etag string) RequestOption {
	return func(o *requestOpts) { o.etag = etag }
}

// WithFallback registers a degraded-value fallback invoked instead of
// failing outright when the breaker for this call's family is OPEN. Only
// meaningful for idempotent reads.
func WithFallback(fn func() (json.RawMessage, string, error)) RequestOption {
	return func(o *requestOpts) { o.fallback = fn }
}

// do issues one Checkmk REST call under the retry+breaker pair for family,
// returning the raw JSON body and the response Etag header (if any).
//
// All listing endpoints that accept query objects use POST with a JSON
// body. Callers choose the HTTP method explicitly; do never rewrites GET
// to POST itself.
func (c *Client) do(ctx context.Context, family, method, path string, body interface{}, opts ...RequestOption) (json.RawMessage, string, error) {
	var o requestOpts
	for _, opt := range opts {
		opt(&o)
	}

	breaker := c.breakers.Get(family)
	if !breaker.Allow() {
		if o.fallback != nil {
			logging.WarnCtx(ctx, "CheckmkClient", "circuit open for %s, using fallback", family)
			return o.fallback()
		}
		return nil, "", &CircuitOpenError{Family: family}
	}

	var respBody json.RawMessage
	var respEtag string

	started := time.Now()
	err := c.cfg.Retry.Do(ctx, func() error {
		b, etag, callErr := c.call(ctx, method, path, body, o.etag)
		if callErr != nil {
			return callErr
		}
		respBody, respEtag = b, etag
		return nil
	})

	if err != nil {
		breaker.RecordFailure()
		c.observe(family, "error", started)
		return nil, "", err
	}
	breaker.RecordSuccess()
	c.observe(family, "success", started)
	return respBody, respEtag, nil
}

func (c *Client) observe(family, outcome string, started time.Time) {
	if c.cfg.ObserveRequest != nil {
		c.cfg.ObserveRequest(family, outcome, time.Since(started))
	}
}

func (c *Client) call(ctx context.Context, method, path string, body interface{}, etag string) (json.RawMessage, string, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, "", &ValidationError{Message: fmt.Sprintf("encoding request body: %v", err)}
		}
		reader = bytes.NewReader(buf)
	}

	url := strings.TrimRight(c.cfg.ServerURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, "", &NetworkError{Op: method + " " + path, Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	id := requestid.FromContext(ctx)
	if id == "" {
		id = requestid.New()
	}
	req.Header.Set(requestid.Header, id)
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	if etag != "" {
		req.Header.Set("If-Match", etag)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, "", &TimeoutError{Op: method + " " + path}
		}
		return nil, "", &NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &NetworkError{Op: "reading response", Err: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, resp.Header.Get("ETag"), nil
	}

	return nil, "", classifyStatus(resp.StatusCode, data)
}

func classifyStatus(status int, body []byte) error {
	msg := string(body)
	if len(msg) > 500 {
		msg = msg[:500] + "...(truncated)"
	}

	switch {
	case status == 401 || status == 403:
		return &AuthError{StatusCode: status, Message: msg}
	case status == 404:
		return &NotFoundError{ResourceType: "resource", ResourceID: msg}
	case status == 412:
		return &ConflictError{ResourceID: msg}
	case status == 429:
		return &RateLimitError{Message: msg}
	case status >= 400 && status < 500:
		return &ValidationError{StatusCode: status, Message: msg}
	case status >= 500:
		return &ServerError{StatusCode: status, Message: msg}
	default:
		return &ServerError{StatusCode: status, Message: msg}
	}
}

// BreakerSnapshot exposes the current state of every endpoint-family
// breaker, used by the get_server_metrics tool.
func (c *Client) BreakerSnapshot() map[string]BreakerState {
	return c.breakers.Snapshot()
}
