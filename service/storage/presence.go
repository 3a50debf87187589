package storage

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// presence key: online:<participantType>:<id>
// Value is an arbitrary truthy marker; the TTL controls the online validity
// period. The marker is set on registration, deleted on clean disconnect and
// never refreshed in between — a reconnect sets it again.

// PresenceKey derives the cache key from a routing key. Routing keys prefixed
// "seller_" belong to sellers, everything else to users; both the writer here
// and any external reader must agree on these two shapes.
func PresenceKey(routingKey string) string {
	if id, ok := strings.CutPrefix(routingKey, "seller_"); ok {
		return "online:seller:" + id
	}
	return "online:user:" + strings.TrimPrefix(routingKey, "user_")
}

type PresenceManager struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPresenceManager(rdb *redis.Client, ttl time.Duration) *PresenceManager {
	if ttl <= 0 {
		ttl = 300 * time.Second
	}
	return &PresenceManager{rdb: rdb, ttl: ttl}
}

// Online marks the participant reachable for the TTL window.
func (m *PresenceManager) Online(ctx context.Context, routingKey string) error {
	if m.rdb == nil {
		return errors.New("redis not initialized")
	}
	return m.rdb.Set(ctx, PresenceKey(routingKey), "1", m.ttl).Err()
}

// Offline actively removes the marker (clean disconnect).
func (m *PresenceManager) Offline(ctx context.Context, routingKey string) error {
	if m.rdb == nil {
		return errors.New("redis not initialized")
	}
	return m.rdb.Del(ctx, PresenceKey(routingKey)).Err()
}

// Lookup checks whether the participant is currently marked online.
func (m *PresenceManager) Lookup(ctx context.Context, routingKey string) (bool, error) {
	if m.rdb == nil {
		return false, errors.New("redis not initialized")
	}
	_, err := m.rdb.Get(ctx, PresenceKey(routingKey)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
