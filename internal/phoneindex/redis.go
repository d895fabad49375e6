// internal/phoneindex/redis.go
//
// Optional Redis-backed front, same client library and pattern as
// internal/registry/redis.go (grounded on wisbric-nightowl's
// redis/go-redis/v9 usage), keyed by normalized phone instead of
// tenant name/id.
package phoneindex

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "homeapi:phone:"

type redisFront struct {
	cli *redis.Client
	ttl time.Duration
}

func newRedisFront(url string, ttl time.Duration) (*redisFront, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &redisFront{cli: redis.NewClient(opt), ttl: ttl}, nil
}

func (r *redisFront) get(phone string) (Entry, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	raw, err := r.cli.Get(ctx, redisKeyPrefix+phone).Bytes()
	if err != nil {
		return Entry{}, false
	}
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return Entry{}, false
	}
	return e, true
}

func (r *redisFront) store(e Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	raw, err := json.Marshal(e)
	if err != nil {
		return
	}
	_ = r.cli.Set(ctx, redisKeyPrefix+e.PhoneNumber, raw, r.ttl).Err()
}

func (r *redisFront) invalidate(phone string) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_ = r.cli.Del(ctx, redisKeyPrefix+phone).Err()
}
