package helpers

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes a redis client and verifies the connection.
// An empty addr disables redis and returns a nil client.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(c).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
