// Package auth attaches credentials to outgoing requests.
package auth

import (
	"context"
	"net/http"
)

// Provider supplies a credential and injects it into HTTP requests.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Token returns the credential sent with each request.
	Token(ctx context.Context) (string, error)

	// InjectHeader sets the Authorization header of req.
	InjectHeader(ctx context.Context, req *http.Request) error

	// Close releases any resources held by the provider.
	Close() error
}
