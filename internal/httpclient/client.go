package httpclient

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/torosent/volley/internal/auth"
	"github.com/torosent/volley/internal/tracing"
)

// RequestBuilder builds the POST issued for one work item.
type RequestBuilder struct {
	target       Target
	authProvider auth.Provider
	propagate    bool
}

func NewRequestBuilder(target Target, provider auth.Provider) *RequestBuilder {
	return &RequestBuilder{target: target, authProvider: provider}
}

// Build returns a bodiless POST for id carrying the bearer credential and,
// when propagation is enabled, the W3C trace headers of ctx.
func (b *RequestBuilder) Build(ctx context.Context, id string) (*http.Request, error) {
	if b == nil {
		return nil, errors.New("builder cannot be nil")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.target.URLFor(id), http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	if b.authProvider != nil {
		if err := b.authProvider.InjectHeader(ctx, req); err != nil {
			return nil, err
		}
	}
	if b.propagate {
		tracing.InjectHTTPHeaders(ctx, req.Header)
	}
	return req, nil
}

// NewClient returns a client tuned for many concurrent requests to one host.
// Per-request timeouts are enforced through the request context instead of
// http.Client.Timeout, so the client itself has none.
func NewClient(maxConns int) *http.Client {
	if maxConns < 1 {
		maxConns = 1
	}

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          256,
		MaxIdleConnsPerHost:   max(32, maxConns),
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Transport: transport,
	}
}
