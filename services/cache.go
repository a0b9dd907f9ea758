package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"atlas/config"
	"atlas/models"
)

const (
	unreadCountTTL = time.Hour
	presenceTTL    = 30 * time.Second
)

// Cache is the redis layer in front of the hot per-poll reads: unread counts
// and partner presence snapshots. It is strictly advisory: a nil *Cache (no
// redis configured) and any redis error both degrade to store reads.
type Cache struct {
	client *redis.Client
}

func NewCache(cfg config.RedisConfig) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &Cache{client: client}, nil
}

// NewCacheWithClient wraps an existing client. Tests use this with miniredis.
func NewCacheWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

func unreadKey(userID string) string {
	return "unread:" + userID
}

func presenceKey(userID string) string {
	return "presence:" + userID
}

// GetUnread returns the cached unread count and whether it was a hit.
func (c *Cache) GetUnread(ctx context.Context, userID string) (int64, bool) {
	if c == nil {
		return 0, false
	}
	val, err := c.client.Get(ctx, unreadKey(userID)).Result()
	if err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c *Cache) SetUnread(ctx context.Context, userID string, count int64) {
	if c == nil {
		return
	}
	c.client.Set(ctx, unreadKey(userID), strconv.FormatInt(count, 10), unreadCountTTL)
}

// InvalidateUnread drops the cached count after any write that could change
// it (new message, mark-read).
func (c *Cache) InvalidateUnread(ctx context.Context, userID string) {
	if c == nil {
		return
	}
	c.client.Del(ctx, unreadKey(userID))
}

// GetPresence returns a cached presence row, if fresh enough.
func (c *Cache) GetPresence(ctx context.Context, userID string) (*models.Presence, bool) {
	if c == nil {
		return nil, false
	}
	val, err := c.client.Get(ctx, presenceKey(userID)).Result()
	if err != nil {
		return nil, false
	}
	var p models.Presence
	if err := json.Unmarshal([]byte(val), &p); err != nil {
		return nil, false
	}
	return &p, true
}

func (c *Cache) SetPresence(ctx context.Context, p *models.Presence) {
	if c == nil {
		return
	}
	buf, err := json.Marshal(p)
	if err != nil {
		return
	}
	c.client.Set(ctx, presenceKey(p.UserID), buf, presenceTTL)
}
