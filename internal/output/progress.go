package output

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/torosent/volley/internal/metrics"
)

// ProgressReporter displays real-time progress updates.
type ProgressReporter struct {
	collector *metrics.Collector
	ticker    *time.Ticker
	done      chan struct{}
	finished  chan struct{}
	writer    io.Writer
	active    int32
}

// NewProgressReporter creates a progress reporter that updates at the given interval.
func NewProgressReporter(collector *metrics.Collector, interval time.Duration, writer io.Writer) *ProgressReporter {
	if writer == nil {
		writer = io.Discard
	}
	return &ProgressReporter{
		collector: collector,
		ticker:    time.NewTicker(interval),
		done:      make(chan struct{}),
		finished:  make(chan struct{}),
		writer:    writer,
	}
}

// Start begins displaying progress updates in a background goroutine.
func (p *ProgressReporter) Start() {
	if !atomic.CompareAndSwapInt32(&p.active, 0, 1) {
		return // already running
	}
	go p.run()
}

// Stop halts progress updates and prints the final line.
func (p *ProgressReporter) Stop() {
	if atomic.CompareAndSwapInt32(&p.active, 1, 0) {
		close(p.done)
		p.ticker.Stop()
		<-p.finished
		fmt.Fprintln(p.writer, FormatProgress(p.collector.Snapshot()))
		return
	}
	p.ticker.Stop()
}

func (p *ProgressReporter) run() {
	defer close(p.finished)
	for {
		select {
		case <-p.ticker.C:
			fmt.Fprint(p.writer, "\r"+FormatProgress(p.collector.Snapshot()))
		case <-p.done:
			fmt.Fprint(p.writer, "\r")
			return
		}
	}
}

// FormatProgress renders one progress line.
func FormatProgress(s metrics.Progress) string {
	line := fmt.Sprintf("Completed: %d", s.Completed)
	if s.Expected > 0 {
		line = fmt.Sprintf("Completed: %d/%d (%.0f%%)", s.Completed, s.Expected, float64(s.Completed)/float64(s.Expected)*100)
	}
	line += fmt.Sprintf(" | OK: %d | Failed: %d | Transport: %d | RPS: %.1f",
		s.Successes, s.Failures, s.TransportErrors, s.RequestsPerSec)
	if s.Successes > 0 {
		line += fmt.Sprintf(" | P50 %.1fms | P99 %.1fms", ms(s.P50Latency), ms(s.P99Latency))
	}
	return line
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
