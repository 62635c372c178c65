package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"mindguard/pkg"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultRedisPrefix namespaces every key the Redis store touches
const DefaultRedisPrefix = "mindguard:mood"

// RedisMoodStore keeps the mood log in Redis so several processes can share it.
//
//	<prefix>:dates       sorted set of recorded dates, scored by day
//	<prefix>:day:<date>  hash with positive, neutral, negative counters
//
// Each increment runs in a MULTI/EXEC transaction.
type RedisMoodStore struct {
	client *redis.Client
	prefix string
	clock  Clock
	log    zerolog.Logger
}

// RedisOption customizes a RedisMoodStore
type RedisOption func(*RedisMoodStore)

// WithRedisPrefix overrides DefaultRedisPrefix
func WithRedisPrefix(prefix string) RedisOption {
	return func(s *RedisMoodStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithRedisClock replaces time.Now as the source of "today"
func WithRedisClock(clock Clock) RedisOption {
	return func(s *RedisMoodStore) { s.clock = clock }
}

// WithRedisLogger attaches a logger
func WithRedisLogger(l zerolog.Logger) RedisOption {
	return func(s *RedisMoodStore) { s.log = l }
}

// NewRedisMoodStore connects to redisURL and verifies the connection
func NewRedisMoodStore(ctx context.Context, redisURL string, opts ...RedisOption) (*RedisMoodStore, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis URL is required")
	}

	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(options)
	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisMoodStoreFromClient(client, opts...), nil
}

// NewRedisMoodStoreFromClient wraps an existing client
func NewRedisMoodStoreFromClient(client *redis.Client, opts ...RedisOption) *RedisMoodStore {
	s := &RedisMoodStore{
		client: client,
		prefix: DefaultRedisPrefix,
		clock:  time.Now,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisMoodStore) datesKey() string {
	return s.prefix + ":dates"
}

func (s *RedisMoodStore) dayKey(date string) string {
	return fmt.Sprintf("%s:day:%s", s.prefix, date)
}

// RecordMood implements MoodStore
func (s *RedisMoodStore) RecordMood(ctx context.Context, bucket pkg.MoodBucket) error {
	if err := validateBucket(bucket); err != nil {
		return err
	}

	now := s.clock()
	today := Today(now)
	dayKey := s.dayKey(today)

	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAddNX(ctx, s.datesKey(), redis.Z{Score: dayScore(today), Member: today})
		for _, b := range pkg.MoodBuckets {
			pipe.HSetNX(ctx, dayKey, string(b), 0)
		}
		incr = pipe.HIncrBy(ctx, dayKey, string(bucket), 1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record mood: %w", err)
	}

	s.log.Debug().
		Str("date", today).
		Str("bucket", string(bucket)).
		Int64("count", incr.Val()).
		Msg("mood recorded")
	return nil
}

// LoadAll implements MoodStore
func (s *RedisMoodStore) LoadAll(ctx context.Context) (pkg.MoodLog, error) {
	dates, err := s.client.ZRange(ctx, s.datesKey(), 0, -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return pkg.MoodLog{}, nil
		}
		return nil, fmt.Errorf("failed to list mood dates: %w", err)
	}

	moods := make(pkg.MoodLog, len(dates))
	if len(dates) == 0 {
		return moods, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(dates))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, date := range dates {
			cmds[i] = pipe.HGetAll(ctx, s.dayKey(date))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load mood counters: %w", err)
	}

	for i, date := range dates {
		if err := validateDate(date); err != nil {
			return nil, err
		}
		record, err := parseRecord(date, cmds[i].Val())
		if err != nil {
			return nil, err
		}
		moods[date] = record
	}
	return moods, nil
}

// Close releases the Redis connection
func (s *RedisMoodStore) Close() error {
	return s.client.Close()
}

func parseRecord(date string, fields map[string]string) (pkg.DailyMoodRecord, error) {
	var record pkg.DailyMoodRecord
	for _, b := range pkg.MoodBuckets {
		raw, ok := fields[string(b)]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return record, fmt.Errorf("%w: %s counter %q on %s", ErrCorruptStore, b, raw, date)
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

// dayScore orders dates in the sorted set by days since the epoch
func dayScore(date string) float64 {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return 0
	}
	return float64(t.Unix() / 86400)
}
