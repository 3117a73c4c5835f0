package httpclient

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Target describes the service under test. It is built once per run and
// shared read-only by every invocation.
type Target struct {
	BaseURL    string
	Credential string
	Timeout    time.Duration // per request; 0 disables it
	Collection string
	Action     string
}

// NewTarget validates the base URL and path segments and returns an
// immutable Target. Trailing slashes on the base URL are dropped.
func NewTarget(baseURL, credential string, timeout time.Duration, collection, action string) (Target, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return Target{}, errors.New("base URL is required")
	}
	u, err := url.Parse(base)
	if err != nil {
		return Target{}, fmt.Errorf("base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Target{}, fmt.Errorf("base URL must use http or https, got %q", baseURL)
	}
	if u.Host == "" {
		return Target{}, fmt.Errorf("base URL %q has no host", baseURL)
	}
	if timeout < 0 {
		return Target{}, fmt.Errorf("timeout must be >= 0, got %s", timeout)
	}
	if strings.TrimSpace(collection) == "" || strings.TrimSpace(action) == "" {
		return Target{}, errors.New("collection and action are required")
	}
	return Target{
		BaseURL:    base,
		Credential: credential,
		Timeout:    timeout,
		Collection: strings.TrimSpace(collection),
		Action:     strings.TrimSpace(action),
	}, nil
}

// URLFor returns {base}/v1/{collection}/{id}/{action} with the identifier
// path-escaped.
func (t Target) URLFor(id string) string {
	return t.BaseURL + "/v1/" + url.PathEscape(t.Collection) + "/" + url.PathEscape(id) + "/" + url.PathEscape(t.Action)
}

// Route is the templated path used to name spans and log lines.
func (t Target) Route() string {
	return t.Collection + "/{id}/" + t.Action
}
