package httpclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/torosent/volley/internal/httpclient"
	"github.com/torosent/volley/internal/outcome"
	"github.com/torosent/volley/internal/runner"
)

func newInvoker(t *testing.T, base string, timeout time.Duration, opts ...httpclient.Option) *httpclient.Invoker {
	t.Helper()
	target, err := httpclient.NewTarget(base, "test-jwt", timeout, "meetings", "transcode")
	if err != nil {
		t.Fatalf("NewTarget() error = %v", err)
	}
	inv, err := httpclient.NewInvoker(httpclient.NewClient(4), target, opts...)
	if err != nil {
		t.Fatalf("NewInvoker() error = %v", err)
	}
	return inv
}

func TestInvokeSendsAuthorizedPost(t *testing.T) {
	var (
		mu      sync.Mutex
		method  string
		path    string
		authHdr string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		method, path, authHdr = r.Method, r.URL.EscapedPath(), r.Header.Get("Authorization")
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"queued"}`))
	}))
	defer server.Close()

	o := newInvoker(t, server.URL, time.Second).Invoke(context.Background(), runner.WorkItem{ID: "meeting-42"})

	if o.Kind != outcome.Success || o.StatusCode != http.StatusOK {
		t.Fatalf("outcome = %+v, want success", o)
	}
	if o.ItemID != "meeting-42" {
		t.Errorf("ItemID = %q", o.ItemID)
	}
	if o.Latency <= 0 {
		t.Errorf("latency not recorded")
	}

	mu.Lock()
	defer mu.Unlock()
	if method != http.MethodPost {
		t.Errorf("method = %s, want POST", method)
	}
	if path != "/v1/meetings/meeting-42/transcode" {
		t.Errorf("path = %s", path)
	}
	if authHdr != "Bearer test-jwt" {
		t.Errorf("Authorization = %q", authHdr)
	}
}

func TestInvokeClassifiesStatus(t *testing.T) {
	tests := []struct {
		status int
		want   outcome.Kind
	}{
		{http.StatusOK, outcome.Success},
		{http.StatusCreated, outcome.Failure},
		{http.StatusAccepted, outcome.Failure},
		{http.StatusUnauthorized, outcome.Failure},
		{http.StatusNotFound, outcome.Failure},
		{http.StatusInternalServerError, outcome.Failure},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			o := newInvoker(t, server.URL, time.Second).Invoke(context.Background(), runner.WorkItem{ID: "a"})
			if o.Kind != tt.want {
				t.Fatalf("kind = %s, want %s", o.Kind, tt.want)
			}
			if o.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", o.StatusCode, tt.status)
			}
		})
	}
}

func TestInvokeTimeoutIsTransportError(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	timeout := 50 * time.Millisecond
	o := newInvoker(t, server.URL, timeout).Invoke(context.Background(), runner.WorkItem{ID: "slow"})

	if o.Kind != outcome.TransportError {
		t.Fatalf("kind = %s, want transport_error", o.Kind)
	}
	if o.StatusCode != outcome.TransportStatus {
		t.Errorf("status = %d, want sentinel %d", o.StatusCode, outcome.TransportStatus)
	}
	if o.Latency < timeout {
		t.Errorf("latency = %s, want >= %s", o.Latency, timeout)
	}
	if o.Reason != "Timeout" {
		t.Errorf("reason = %q, want Timeout", o.Reason)
	}
}

func TestInvokeConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	base := server.URL
	server.Close()

	o := newInvoker(t, base, time.Second).Invoke(context.Background(), runner.WorkItem{ID: "a"})
	if o.Kind != outcome.TransportError {
		t.Fatalf("kind = %s, want transport_error", o.Kind)
	}
	if o.StatusCode != 0 {
		t.Errorf("status = %d, want 0", o.StatusCode)
	}
	if o.Cause == "" {
		t.Error("expected cause text")
	}
}

func TestInvokeRecordsSpan(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	inv := newInvoker(t, server.URL, time.Second, httpclient.WithTracing(tp.Tracer("test"), false))
	o := inv.Invoke(context.Background(), runner.WorkItem{ID: "a"})
	if o.Kind != outcome.Failure {
		t.Fatalf("kind = %s, want failure", o.Kind)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Name != "POST meetings/{id}/transcode" {
		t.Errorf("span name = %q", spans[0].Name)
	}
}

func TestNewInvokerRequiresCredential(t *testing.T) {
	target, err := httpclient.NewTarget("http://localhost:1", "", time.Second, "meetings", "transcode")
	if err != nil {
		t.Fatalf("NewTarget() error = %v", err)
	}
	if _, err := httpclient.NewInvoker(nil, target); err == nil {
		t.Fatal("expected error for empty credential")
	}
}

// End-to-end scenarios through the coordinator.

func runScenario(t *testing.T, handler http.HandlerFunc, timeout time.Duration, ids []string, repeat, concurrency int) runner.Result {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := runner.New(runner.Options{
		Concurrency: concurrency,
		Invoker:     newInvoker(t, server.URL, timeout),
	})
	res, err := c.Run(context.Background(), ids, repeat)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return res
}

func TestScenarioSlowServerAllSucceed(t *testing.T) {
	var inflight, peak atomic.Int64
	handler := func(w http.ResponseWriter, r *http.Request) {
		n := inflight.Add(1)
		defer inflight.Add(-1)
		for {
			cur := peak.Load()
			if n <= cur || peak.CompareAndSwap(cur, n) {
				break
			}
		}
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}

	res := runScenario(t, handler, time.Second, []string{"a", "b", "c"}, 2, 2)
	stats := res.Stats

	if stats.Total != 6 || stats.Successes != 6 {
		t.Fatalf("total/successes = %d/%d, want 6/6", stats.Total, stats.Successes)
	}
	if stats.SuccessRate != 100 {
		t.Errorf("success rate = %v, want 100", stats.SuccessRate)
	}
	// Six 100ms requests two at a time need at least three rounds.
	if stats.Duration < 300*time.Millisecond {
		t.Errorf("duration = %s, want >= 300ms", stats.Duration)
	}
	if peak.Load() > 2 {
		t.Errorf("server saw %d concurrent requests, ceiling is 2", peak.Load())
	}
	if stats.Latency.Min < 100*time.Millisecond {
		t.Errorf("min latency = %s, want >= 100ms", stats.Latency.Min)
	}
}

func TestScenarioAlwaysFailing(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}

	stats := runScenario(t, handler, time.Second, []string{"a", "b"}, 2, 3).Stats

	if stats.Failures != 4 || stats.Successes != 0 || stats.TransportErrors != 0 {
		t.Fatalf("buckets = %d/%d/%d, want 0/4/0", stats.Successes, stats.Failures, stats.TransportErrors)
	}
	if stats.SuccessRate != 0 {
		t.Errorf("success rate = %v, want 0", stats.SuccessRate)
	}
	if stats.Latency.Mean != 0 || stats.Latency.P95 != 0 {
		t.Errorf("latency should be zero without successes: %+v", stats.Latency)
	}
	if stats.StatusCodes[http.StatusInternalServerError] != 4 {
		t.Errorf("status codes = %v", stats.StatusCodes)
	}
}

func TestScenarioNeverResponding(t *testing.T) {
	release := make(chan struct{})
	handler := func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}
	t.Cleanup(func() { close(release) })

	stats := runScenario(t, handler, 30*time.Millisecond, []string{"a", "b", "c"}, 1, 3).Stats

	if stats.TransportErrors != 3 {
		t.Fatalf("transport errors = %d, want 3", stats.TransportErrors)
	}
	if stats.TransportCauses["Timeout"] != 3 {
		t.Errorf("transport causes = %v", stats.TransportCauses)
	}
	if len(stats.StatusCodes) != 0 {
		t.Errorf("no status codes expected, got %v", stats.StatusCodes)
	}
}

func TestScenarioMixedOutcomes(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/bad/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}

	stats := runScenario(t, handler, time.Second, []string{"good", "bad", "good2", "bad"}, 1, 2).Stats
	if stats.Successes != 2 || stats.Failures != 2 {
		t.Fatalf("successes/failures = %d/%d, want 2/2", stats.Successes, stats.Failures)
	}
	if stats.SuccessRate != 50 {
		t.Errorf("success rate = %v, want 50", stats.SuccessRate)
	}
	if stats.UniqueIDs != 3 {
		t.Errorf("unique ids = %d, want 3", stats.UniqueIDs)
	}
}
