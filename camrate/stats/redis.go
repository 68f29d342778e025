package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps counters in Redis hashes:
//
//	<prefix>:total                 outcome -> count
//	<prefix>:camera:<name>         outcome -> count
//	<prefix>:minute:<yyyymmddhhmm> <name>:<outcome> -> count (expires after ttl)
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	bucket string // "minute" (default) or "none"
}

type RedisOption func(*RedisStore)

func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = strings.Trim(prefix, ":") }
}

func WithTTL(d time.Duration) RedisOption {
	return func(s *RedisStore) { s.ttl = d }
}

func WithBucket(bucket string) RedisOption {
	return func(s *RedisStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

const DefaultPrefix = "camrate:stats"

func NewRedisStore(rdb *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		rdb:    rdb,
		prefix: DefaultPrefix,
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DialRedis connects to addr and checks the connection with PING.
func DialRedis(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// Keys returns the keys an event is written to.
func (s *RedisStore) Keys(ev Event) []string {
	keys := []string{s.prefix + ":total"}
	if name := strings.TrimSpace(ev.Camera); name != "" {
		keys = append(keys, s.prefix+":camera:"+name)
	}
	if s.bucket == "minute" {
		keys = append(keys, s.minuteKey(ev))
	}
	return keys
}

func (s *RedisStore) minuteKey(ev Event) string {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	return fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
}

func (s *RedisStore) Record(ctx context.Context, ev Event) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	field := ev.Outcome.String()
	name := strings.TrimSpace(ev.Camera)

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.prefix+":total", field, 1)

	if name != "" {
		pipe.HIncrBy(ctx, s.prefix+":camera:"+name, field, 1)
	}

	if s.bucket == "minute" {
		bucketKey := s.minuteKey(ev)
		bucketField := field
		if name != "" {
			bucketField = name + ":" + field
		}
		pipe.HIncrBy(ctx, bucketKey, bucketField, 1)
		if s.ttl > 0 {
			pipe.Expire(ctx, bucketKey, s.ttl)
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}
