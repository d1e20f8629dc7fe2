package ablecloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	log "log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mrlauy/alexa-ablecloud/config"
	"golang.org/x/time/rate"
)

const (
	ContentTypeStream = "application/octet-stream"
	ContentTypeObject = "application/x-zc-object"

	HeaderMajorDomainID = "X-Zc-Major-Domain-Id"
	HeaderSubDomainID   = "X-Zc-Sub-Domain-Id"
	HeaderDeveloperID   = "X-Zc-Developer-Id"
	HeaderAccessToken   = "X-Zc-OAuth-Access-Token"

	DefaultTimeout = 10 * time.Second

	maxErrorBody = 4096
)

// Request is a single relay call. A []byte Body is sent as is, any other
// Body is sent as its JSON encoding.
type Request struct {
	Service     string
	Method      string
	Body        any
	AccessToken string
	Binary      bool
}

type Completion func(raw []byte)

type Failure func(err error)

type Bridge struct {
	endpoint  Endpoint
	client    *http.Client
	limiter   *rate.Limiter
	onFailure Failure
}

type Option func(*Bridge)

func WithHTTPClient(client *http.Client) Option {
	return func(b *Bridge) {
		b.client = client
	}
}

// WithRateLimit throttles outbound calls to rps with the given burst. rps <= 0 disables it.
func WithRateLimit(rps float64, burst int) Option {
	return func(b *Bridge) {
		if rps <= 0 {
			b.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		b.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithFailureHandler registers a handler that sees every failed call, next to the error log.
func WithFailureHandler(f Failure) Option {
	return func(b *Bridge) {
		b.onFailure = f
	}
}

func NewBridge(endpoint Endpoint, opts ...Option) *Bridge {
	b := &Bridge{
		endpoint: endpoint,
		client:   newHTTPClient(DefaultTimeout),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// New builds a bridge for the configured endpoint, timeout and rate limit.
func New(cfg config.CloudConfig, opts ...Option) *Bridge {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	defaults := []Option{
		WithHTTPClient(newHTTPClient(timeout)),
		WithRateLimit(cfg.RateLimit, cfg.RateBurst),
	}
	return NewBridge(EndpointFromConfig(cfg), append(defaults, opts...)...)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 5 * time.Second,
		},
	}
}

func (b *Bridge) Endpoint() Endpoint {
	return b.endpoint
}

// Send performs the call in the background. onComplete runs once with the full
// body when the service answers 200; otherwise onFailure, if set, gets the error
// and onComplete never runs.
func (b *Bridge) Send(ctx context.Context, req Request, onComplete Completion, onFailure Failure) {
	go func() {
		raw, err := b.Do(ctx, req)
		if err != nil {
			if onFailure != nil {
				onFailure(err)
			}
			return
		}
		if onComplete != nil {
			onComplete(raw)
		}
	}()
}

// Do performs the call and returns the body of a 200 response.
func (b *Bridge) Do(ctx context.Context, req Request) ([]byte, error) {
	logger := log.With("call", uuid.NewString(), "service", req.Service, "method", req.Method)

	start := time.Now()
	raw, err := b.do(ctx, req, logger)
	observe(req.Service, err, time.Since(start))

	if err != nil {
		logger.Error("ablecloud request failed", "error", err)
		if b.onFailure != nil {
			b.onFailure(err)
		}
		return nil, err
	}

	logger.Debug("ablecloud request done", "bytes", len(raw), "elapsed", time.Since(start))
	return raw, nil
}

func (b *Bridge) do(ctx context.Context, req Request, logger *log.Logger) ([]byte, error) {
	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode body for %s: %w", req.Service, err)
	}

	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Service: req.Service, Err: fmt.Errorf("rate limit: %w", err)}
		}
	}

	httpRequest, err := b.newRequest(ctx, req, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", req.Service, err)
	}

	logger.Debug("send ablecloud request", "url", httpRequest.URL.String(), "contentType", contentType(req.Binary), "bytes", len(body))

	resp, err := b.client.Do(httpRequest)
	if err != nil {
		return nil, &TransportError{Service: req.Service, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Service: req.Service, Status: resp.StatusCode, Body: string(errorBody)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Service: req.Service, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	return raw, nil
}

func (b *Bridge) newRequest(ctx context.Context, req Request, body []byte) (*http.Request, error) {
	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint.url(req.Service, req.Method), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	httpRequest.Header.Set("Content-Type", contentType(req.Binary))
	// vendor header names are sent with their exact casing
	httpRequest.Header[HeaderMajorDomainID] = []string{fmt.Sprint(b.endpoint.MajorDomainID)}
	httpRequest.Header[HeaderSubDomainID] = []string{fmt.Sprint(b.endpoint.SubDomainID)}
	httpRequest.Header[HeaderDeveloperID] = []string{fmt.Sprint(b.endpoint.DeveloperID)}
	httpRequest.Header[HeaderAccessToken] = []string{req.AccessToken}
	return httpRequest, nil
}

func contentType(binary bool) string {
	if binary {
		return ContentTypeStream
	}
	return ContentTypeObject
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	default:
		return json.Marshal(body)
	}
}
