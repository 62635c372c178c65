package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mindguard/pkg"
)

var (
	// ErrCorruptStore means the persisted mood log exists but cannot be trusted.
	// It is never silently replaced with an empty log.
	ErrCorruptStore = errors.New("mood store is corrupt")

	// ErrInvalidBucket is returned for a bucket outside positive, neutral, negative
	ErrInvalidBucket = errors.New("invalid mood bucket")
)

// MoodStore persists daily aggregate mood counts. No message content is stored.
type MoodStore interface {
	// RecordMood increments today's counter for bucket by one and persists the log before returning
	RecordMood(ctx context.Context, bucket pkg.MoodBucket) error
	// LoadAll returns the whole log; an absent store is an empty log
	LoadAll(ctx context.Context) (pkg.MoodLog, error)
	Close() error
}

// Clock supplies the current time; stores derive "today" from it
type Clock func() time.Time

// DateLayout is the key format of the mood log
const DateLayout = time.DateOnly

// Today formats the local calendar date of t
func Today(t time.Time) string {
	return t.Local().Format(DateLayout)
}

func validateBucket(bucket pkg.MoodBucket) error {
	if !bucket.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidBucket, bucket)
	}
	return nil
}

func validateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("%w: bad date key %q", ErrCorruptStore, date)
	}
	return nil
}

func validateRecord(date string, r pkg.DailyMoodRecord) error {
	if r.Positive < 0 || r.Neutral < 0 || r.Negative < 0 {
		return fmt.Errorf("%w: negative counter on %s", ErrCorruptStore, date)
	}
	return nil
}
