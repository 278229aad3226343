package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const presenceKeyPrefix = "presence:"

// PresenceTracker records which users currently hold at least one live
// connection. Keys carry a TTL so a crashed server never leaves users
// permanently "online".
type PresenceTracker struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPresenceTracker(addr string, ttl time.Duration) *PresenceTracker {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	return &PresenceTracker{
		rdb: rdb,
		ttl: ttl,
	}
}

func (p *PresenceTracker) SetOnline(ctx context.Context, userId string) error {
	return p.rdb.Set(ctx, presenceKeyPrefix+userId, "1", p.ttl).Err()
}

func (p *PresenceTracker) SetOffline(ctx context.Context, userId string) error {
	return p.rdb.Del(ctx, presenceKeyPrefix+userId).Err()
}

// GetOnline reports online status for each of the given user ids.
func (p *PresenceTracker) GetOnline(ctx context.Context, userIds []string) (map[string]bool, error) {
	online := make(map[string]bool, len(userIds))
	if len(userIds) == 0 {
		return online, nil
	}

	keys := make([]string, 0, len(userIds))
	for _, id := range userIds {
		keys = append(keys, presenceKeyPrefix+id)
	}

	values, err := p.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	for i, v := range values {
		online[userIds[i]] = v != nil
	}
	return online, nil
}

func (p *PresenceTracker) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}

func (p *PresenceTracker) Close() error {
	return p.rdb.Close()
}
