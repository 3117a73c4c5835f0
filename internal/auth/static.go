package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// ErrEmptyCredential is returned when no bearer credential is supplied.
var ErrEmptyCredential = errors.New("bearer credential is empty")

// StaticTokenProvider sends the same pre-issued bearer credential with every
// request. The credential is fixed for the lifetime of a run.
type StaticTokenProvider struct {
	token string
}

// NewStaticTokenProvider accepts a raw token or a full "Bearer <token>" value.
func NewStaticTokenProvider(credential string) (*StaticTokenProvider, error) {
	token := strings.TrimSpace(credential)
	if fields := strings.Fields(token); len(fields) > 0 && strings.EqualFold(fields[0], "bearer") {
		token = strings.Join(fields[1:], " ")
	}
	if token == "" {
		return nil, ErrEmptyCredential
	}
	return &StaticTokenProvider{token: token}, nil
}

// Token returns the credential without any network calls.
func (p *StaticTokenProvider) Token(ctx context.Context) (string, error) {
	return p.token, nil
}

// InjectHeader sets "Authorization: Bearer <token>".
func (p *StaticTokenProvider) InjectHeader(ctx context.Context, req *http.Request) error {
	req.Header.Set("Authorization", "Bearer "+p.token)
	return nil
}

// Close is a no-op.
func (p *StaticTokenProvider) Close() error {
	return nil
}

// Redacted returns a form of the credential that is safe to log.
func (p *StaticTokenProvider) Redacted() string {
	return Redact(p.token)
}

// Redact keeps only the last four characters of a secret.
func Redact(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}
