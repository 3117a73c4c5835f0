package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/torosent/volley/internal/auth"
	"github.com/torosent/volley/internal/outcome"
	"github.com/torosent/volley/internal/runner"
	"github.com/torosent/volley/internal/tracing"
)

// Invoker issues exactly one POST per work item and classifies the result.
// It never retries. It is safe for concurrent use.
type Invoker struct {
	client  *http.Client
	target  Target
	builder *RequestBuilder
	tracer  trace.Tracer
}

// Option customizes an Invoker.
type Option func(*Invoker)

// WithAuth sets the provider that injects the Authorization header. Without
// it a static bearer provider is built from Target.Credential.
func WithAuth(p auth.Provider) Option {
	return func(inv *Invoker) {
		inv.builder.authProvider = p
	}
}

// WithTracing wraps each request in a client span. When propagate is true
// the span context is also sent to the target.
func WithTracing(tracer trace.Tracer, propagate bool) Option {
	return func(inv *Invoker) {
		inv.tracer = tracer
		inv.builder.propagate = propagate
	}
}

func NewInvoker(client *http.Client, target Target, opts ...Option) (*Invoker, error) {
	if client == nil {
		client = NewClient(1)
	}
	inv := &Invoker{
		client:  client,
		target:  target,
		builder: NewRequestBuilder(target, nil),
	}
	for _, opt := range opts {
		opt(inv)
	}
	if inv.builder.authProvider == nil {
		provider, err := auth.NewStaticTokenProvider(target.Credential)
		if err != nil {
			return nil, fmt.Errorf("credential: %w", err)
		}
		inv.builder.authProvider = provider
	}
	return inv, nil
}

// Invoke implements runner.Invoker. The clock starts before the request is
// built and stops as soon as the outcome is known, so a forced timeout
// reports a latency of at least Target.Timeout.
func (inv *Invoker) Invoke(ctx context.Context, item runner.WorkItem) outcome.Outcome {
	start := time.Now()

	if inv.target.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.target.Timeout)
		defer cancel()
	}

	if inv.tracer != nil {
		var span trace.Span
		ctx, span = tracing.StartRequestSpan(ctx, inv.tracer, http.MethodPost, inv.target.Route(), item.ID)
		o := inv.do(ctx, item.ID, start)
		tracing.EndRequestSpan(span, o)
		return o
	}
	return inv.do(ctx, item.ID, start)
}

func (inv *Invoker) do(ctx context.Context, id string, start time.Time) outcome.Outcome {
	req, err := inv.builder.Build(ctx, id)
	if err != nil {
		return outcome.NewTransportError(id, time.Since(start), fmt.Errorf("build request: %w", err))
	}

	resp, err := inv.client.Do(req)
	if err != nil {
		return outcome.NewTransportError(id, time.Since(start), err)
	}
	latency := time.Since(start)

	// The payload is never interpreted; draining lets the connection be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	return outcome.Classify(id, latency, resp.StatusCode)
}

var _ runner.Invoker = (*Invoker)(nil)
