package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/blogapi/internal/db"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to redis and verifies the connection with a PING.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}

	log.Printf("[cache] redis connected at %s", addr)
	return client, nil
}

// PostCache stores single posts, with their category, as JSON.
type PostCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPostCache wraps a redis client; entries expire after ttl.
func NewPostCache(client *redis.Client, ttl time.Duration) *PostCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &PostCache{client: client, ttl: ttl}
}

func postKey(id uint) string {
	return fmt.Sprintf("post:%d", id)
}

// versionKey 记录文章的失效次数，每次 Invalidate 自增。
func versionKey(id uint) string {
	return fmt.Sprintf("post:%d:v", id)
}

// Get returns the cached post. A miss is reported as (nil, false, nil).
func (c *PostCache) Get(ctx context.Context, id uint) (*db.Post, bool, error) {
	raw, err := c.client.Get(ctx, postKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var post db.Post
	if err := json.Unmarshal(raw, &post); err != nil {
		return nil, false, err
	}
	return &post, true, nil
}

// Version returns the invalidation counter for id. Read it before loading the
// post from the database and hand it to Set.
func (c *PostCache) Version(ctx context.Context, id uint) (int64, error) {
	return readVersion(ctx, c.client, id)
}

// Set caches post under its id unless the post was invalidated after version
// was read. A skipped write is not an error.
func (c *PostCache) Set(ctx context.Context, post *db.Post, version int64) error {
	raw, err := json.Marshal(post)
	if err != nil {
		return err
	}

	vkey := versionKey(post.ID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readVersion(ctx, tx, post.ID)
		if err != nil {
			return err
		}
		if current != version {
			return errStaleVersion
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, postKey(post.ID), raw, c.ttl)
			return nil
		})
		return err
	}, vkey)

	if errors.Is(err, errStaleVersion) || errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

// Invalidate bumps the version of id and removes its cached entry.
func (c *PostCache) Invalidate(ctx context.Context, id uint) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(id))
		pipe.Del(ctx, postKey(id))
		return nil
	})
	return err
}

var errStaleVersion = errors.New("cache: post invalidated during read")

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readVersion(ctx context.Context, cmd getter, id uint) (int64, error) {
	version, err := cmd.Get(ctx, versionKey(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return version, err
}
