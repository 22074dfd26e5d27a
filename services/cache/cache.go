package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Entries mirror Postgres, they are never the source of truth. A generous
// TTL only bounds the damage of a missed invalidation.
const entryTTL = 24 * time.Hour

// Client handles the coherent read-cache on top of Redis. Every value is a
// JSON-encoded projection of backing-store data. Writers always mutate
// Postgres first and then patch or remove the cached collection, so a read
// through the cache is never older than the last write made by this process.
type Client struct {
	client *redis.Client
	ctx    context.Context
}

// NewClient creates a new cache client instance
func NewClient(Addr string, DB int) *Client {
	var client *redis.Client
	if Addr != "localhost:6379" {
		log.Println("Connecting to remote Redis...")
		opt, err := redis.ParseURL(Addr)
		if err != nil {
			panic("Error parsing Redis URL")
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: Addr,
			DB:   DB,
		})
	}
	return &Client{
		client: client,
		ctx:    context.Background(),
	}
}

// Get loads the entry under key into dest. It returns false on a miss and
// also on any Redis or decode failure: cache unavailability degrades to
// always-miss, callers fall through to Postgres.
func (c *Client) Get(key string, dest interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}
	data, err := c.client.Get(c.ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[CACHE-MISS] error reading key %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		log.Printf("[CACHE-MISS] error unmarshaling key %s: %v", key, err)
		return false
	}
	return true
}

// Set stores value under key. Failures are logged and swallowed, the next
// read simply misses.
func (c *Client) Set(key string, value interface{}) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("[CACHE-ERROR] error marshaling key %s: %v", key, err)
		return
	}
	if err := c.client.Set(c.ctx, key, data, entryTTL).Err(); err != nil {
		log.Printf("[CACHE-ERROR] error setting key %s: %v", key, err)
	}
}

// Remove invalidates the entry under key.
func (c *Client) Remove(key string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(c.ctx, key).Err(); err != nil {
		log.Printf("[CACHE-ERROR] error deleting key %s: %v", key, err)
	}
}

// RemoveByPrefix invalidates every entry whose key starts with prefix. Used
// for per-player collections where one write invalidates all players' views
// (e.g. a new rating changes every cached workshop listing).
func (c *Client) RemoveByPrefix(prefix string) {
	if c == nil || c.client == nil {
		return
	}
	iter := c.client.Scan(c.ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(c.ctx) {
		if err := c.client.Del(c.ctx, iter.Val()).Err(); err != nil {
			log.Printf("[CACHE-ERROR] error deleting key %s: %v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("[CACHE-ERROR] error scanning prefix %s: %v", prefix, err)
	}
}

// CleanupKeys removes the specified keys
func (c *Client) CleanupKeys(keys []string) error {
	for _, key := range keys {
		if err := c.client.Del(c.ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to cleanup cache key %s: %v", key, err)
		}
	}
	return nil
}

// Ping verifies the underlying connection.
func (c *Client) Ping() error {
	return c.client.Ping(c.ctx).Err()
}

// Close gracefully closes the underlying connection.
func (c *Client) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("error closing Redis connection: %v", err)
	}
	return nil
}
