// Package history keeps a local record of completed runs, one JSON line per
// run, so results can be compared over time.
package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/torosent/volley/internal/metrics"
)

// Entry is one recorded run.
type Entry struct {
	RunID     string        `json:"run_id"`
	Timestamp time.Time     `json:"timestamp"`
	Target    string        `json:"target"`
	Stats     metrics.Stats `json:"stats"`
}

// Store appends to and reads from a history file. Writers in different
// processes are serialised through a lock file next to it; mu covers
// goroutines sharing one Store, since a held flock is re-entrant.
type Store struct {
	mu   sync.Mutex
	path string
	lock *flock.Flock
}

func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("history file path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}, nil
}

// Path returns the history file location.
func (s *Store) Path() string {
	return s.path
}

// Append writes e as a single line at the end of the file.
func (s *Store) Append(e Entry) error {
	if e.RunID == "" {
		return errors.New("history entry needs a run ID")
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode history entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock history: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		_ = f.Close()
		return fmt.Errorf("write history: %w", err)
	}
	return f.Close()
}

// List returns every entry, newest first. A missing file is an empty history.
// Lines that cannot be decoded are skipped.
func (s *Store) List() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.lock.RLock(); err != nil {
		return nil, fmt.Errorf("lock history: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	return entries, nil
}
