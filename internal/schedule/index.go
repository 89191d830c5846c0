// Package schedule provides Redis client initialization and the pending
// schedule index: a sorted set mapping client IDs to their earliest due
// next-idea date. The daily scheduler reads due members from the index
// instead of scanning every client profile.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// indexKey is the sorted set holding clientID members scored by the
// unix time of the client's earliest scheduled idea.
const indexKey = "schedule:next"

// Connect creates a Redis client and verifies the connection with a ping.
func Connect(addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	slog.Info("redis connected", "addr", addr)
	return client, nil
}

// Index is the pending-schedule index. It is updated whenever a
// client's first next-idea date changes.
type Index struct {
	rdb *redis.Client
}

// NewIndex creates an Index backed by the given Redis client.
func NewIndex(rdb *redis.Client) *Index {
	return &Index{rdb: rdb}
}

// Set records the client's next due date, replacing any previous entry.
func (i *Index) Set(ctx context.Context, clientID string, due time.Time) error {
	err := i.rdb.ZAdd(ctx, indexKey, redis.Z{
		Score:  float64(due.Unix()),
		Member: clientID,
	}).Err()
	if err != nil {
		return fmt.Errorf("schedule index set: %w", err)
	}
	return nil
}

// SetIfAbsent records the client's due date only when the client has no
// entry yet. Used by finish-setup so re-running setup never moves an
// already scheduled client.
func (i *Index) SetIfAbsent(ctx context.Context, clientID string, due time.Time) (bool, error) {
	added, err := i.rdb.ZAddNX(ctx, indexKey, redis.Z{
		Score:  float64(due.Unix()),
		Member: clientID,
	}).Result()
	if err != nil {
		return false, fmt.Errorf("schedule index set-if-absent: %w", err)
	}
	return added > 0, nil
}

// Due returns the IDs of every client whose due date is at or before now.
func (i *Index) Due(ctx context.Context, now time.Time) ([]string, error) {
	ids, err := i.rdb.ZRangeByScore(ctx, indexKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.Unix(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("schedule index due: %w", err)
	}
	return ids, nil
}

// Remove drops a client from the index.
func (i *Index) Remove(ctx context.Context, clientID string) error {
	if err := i.rdb.ZRem(ctx, indexKey, clientID).Err(); err != nil {
		return fmt.Errorf("schedule index remove: %w", err)
	}
	return nil
}
