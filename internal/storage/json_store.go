package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"mindguard/pkg"

	"github.com/bytedance/sonic"
	"github.com/gofrs/flock"
	"github.com/rs/zerolog"
)

// JSONMoodStore keeps the mood log in a single pretty-printed JSON document.
// Writes go through a temp file and rename so readers never see a partial document.
// Read-modify-write cycles hold an advisory lock on <path>.lock, so several
// processes (or several stores) may share one document.
type JSONMoodStore struct {
	path  string
	clock Clock
	log   zerolog.Logger

	mu   sync.Mutex
	lock *flock.Flock
}

// JSONOption customizes a JSONMoodStore
type JSONOption func(*JSONMoodStore)

// WithClock replaces time.Now as the source of "today"
func WithClock(clock Clock) JSONOption {
	return func(s *JSONMoodStore) { s.clock = clock }
}

// WithLogger attaches a logger
func WithLogger(l zerolog.Logger) JSONOption {
	return func(s *JSONMoodStore) { s.log = l }
}

// NewJSONMoodStore creates a store backed by the file at path. The file and its
// directory are created on first write.
func NewJSONMoodStore(path string, opts ...JSONOption) *JSONMoodStore {
	s := &JSONMoodStore{
		path:  path,
		clock: time.Now,
		log:   zerolog.Nop(),
		lock:  flock.New(path + ".lock"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the document location
func (s *JSONMoodStore) Path() string {
	return s.path
}

// RecordMood implements MoodStore. A canceled ctx does not skip the increment.
func (s *JSONMoodStore) RecordMood(_ context.Context, bucket pkg.MoodBucket) error {
	if err := validateBucket(bucket); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.acquire()
	if err != nil {
		return err
	}
	defer unlock()

	moods, err := s.read()
	if err != nil {
		return err
	}

	today := Today(s.clock())
	record := moods[today]
	record.Increment(bucket)
	moods[today] = record

	if err := s.write(moods); err != nil {
		return err
	}

	s.log.Debug().
		Str("date", today).
		Str("bucket", string(bucket)).
		Int("day_total", record.Total()).
		Msg("mood recorded")
	return nil
}

// LoadAll implements MoodStore
func (s *JSONMoodStore) LoadAll(ctx context.Context) (pkg.MoodLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read()
}

// Close implements MoodStore; the file store holds no open handles
func (s *JSONMoodStore) Close() error {
	return nil
}

// acquire takes the cross-process lock guarding read-modify-write
func (s *JSONMoodStore) acquire() (func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := s.lock.Lock(); err != nil {
		return nil, fmt.Errorf("failed to lock mood file: %w", err)
	}
	return func() {
		if err := s.lock.Unlock(); err != nil {
			s.log.Warn().Err(err).Str("path", s.lock.Path()).Msg("failed to unlock mood file")
		}
	}, nil
}

func (s *JSONMoodStore) read() (pkg.MoodLog, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return pkg.MoodLog{}, nil
		}
		return nil, fmt.Errorf("failed to read mood file: %w", err)
	}

	// records decode as maps so unknown or missing counters surface as corruption
	var raw map[string]map[string]int
	if err := sonic.ConfigStd.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptStore, s.path, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: %s: document is not an object", ErrCorruptStore, s.path)
	}

	moods := make(pkg.MoodLog, len(raw))
	for date, counts := range raw {
		if err := validateDate(date); err != nil {
			return nil, err
		}
		record, err := decodeRecord(date, counts)
		if err != nil {
			return nil, err
		}
		if err := validateRecord(date, record); err != nil {
			return nil, err
		}
		moods[date] = record
	}
	return moods, nil
}

// decodeRecord requires exactly the three bucket counters
func decodeRecord(date string, counts map[string]int) (pkg.DailyMoodRecord, error) {
	var record pkg.DailyMoodRecord
	if counts == nil {
		return record, fmt.Errorf("%w: record for %s is not an object", ErrCorruptStore, date)
	}
	if len(counts) != len(pkg.MoodBuckets) {
		return record, fmt.Errorf("%w: record for %s has %d keys, want %d", ErrCorruptStore, date, len(counts), len(pkg.MoodBuckets))
	}
	for _, b := range pkg.MoodBuckets {
		n, ok := counts[string(b)]
		if !ok {
			return record, fmt.Errorf("%w: record for %s is missing %q", ErrCorruptStore, date, b)
		}
		switch b {
		case pkg.MoodPositive:
			record.Positive = n
		case pkg.MoodNeutral:
			record.Neutral = n
		case pkg.MoodNegative:
			record.Negative = n
		}
	}
	return record, nil
}

// write replaces the document atomically. Keys are emitted in sorted
// order, which for ISO dates is chronological.
func (s *JSONMoodStore) write(moods pkg.MoodLog) error {
	data, err := sonic.ConfigStd.MarshalIndent(moods, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal mood log: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".moods_*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write mood file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync mood file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close mood file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to chmod mood file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace mood file: %w", err)
	}
	return nil
}
