// internal/registry/redis.go
//
// Optional Redis-backed front for the tenant cache, shared with
// internal/phoneindex's own redisFront (same client, different key
// prefix). Grounded on wisbric-nightowl's use of redis/go-redis/v9 for a
// shared-cache layer in front of Postgres lookups; here it plays the same
// role in front of the admin schema.
package registry

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "homeapi:home:"

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

func (r *redisFront) getByName(name string) (Record, bool) {
	return r.get(redisKeyPrefix + "name:" + name)
}

func (r *redisFront) getByID(id uint64) (Record, bool) {
	return r.get(redisKeyPrefix + "id:" + itoa(id))
}

func (r *redisFront) get(key string) (Record, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	raw, err := r.cli.Get(ctx, key).Bytes()
	if err != nil {
		return Record{}, false
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, false
	}
	return rec, true
}

func (r *redisFront) store(rec Record) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	raw, err := json.Marshal(rec)
	if err != nil {
		return
	}
	_ = r.cli.Set(ctx, redisKeyPrefix+"name:"+rec.Name, raw, r.ttl).Err()
	_ = r.cli.Set(ctx, redisKeyPrefix+"id:"+itoa(rec.ID), raw, r.ttl).Err()
}

func (r *redisFront) invalidate(name string, id uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_ = r.cli.Del(ctx, redisKeyPrefix+"name:"+name, redisKeyPrefix+"id:"+itoa(id)).Err()
}

func itoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
