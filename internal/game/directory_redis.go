package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"
)

const roomIndexKey = "rooms:index"

// RedisDirectory keeps one expiring key per room plus an index set. Entries
// whose key expired are pruned from the index on List.
type RedisDirectory struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisDirectory(rdb *redis.Client, ttl time.Duration) *RedisDirectory {
	return &RedisDirectory{rdb: rdb, ttl: ttl}
}

func (d *RedisDirectory) key(roomID string) string {
	return fmt.Sprintf("room:%s:summary", roomID)
}

func (d *RedisDirectory) Publish(ctx context.Context, s RoomSummary) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = d.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, d.key(s.ID), b, d.ttl)
		p.SAdd(ctx, roomIndexKey, s.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("directory: publish %s: %w", s.ID, err)
	}
	return nil
}

func (d *RedisDirectory) Remove(ctx context.Context, roomID string) error {
	_, err := d.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, d.key(roomID))
		p.SRem(ctx, roomIndexKey, roomID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("directory: remove %s: %w", roomID, err)
	}
	return nil
}

func (d *RedisDirectory) List(ctx context.Context) ([]RoomSummary, error) {
	ids, err := d.rdb.SMembers(ctx, roomIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("directory: index: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = d.key(id)
	}
	vals, err := d.rdb.MGet(ctx, keys...).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("directory: load: %w", err)
	}

	out := make([]RoomSummary, 0, len(vals))
	var stale []any
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		var s RoomSummary
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			stale = append(stale, ids[i])
			continue
		}
		out = append(out, s)
	}
	if len(stale) > 0 {
		_ = d.rdb.SRem(ctx, roomIndexKey, stale...).Err()
	}

	slices.SortFunc(out, func(a, b RoomSummary) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}
