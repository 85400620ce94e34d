//go:build integration

package mock

import (
	"context"
	"sync"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var (
	redisOnce   sync.Once
	redisServer *miniredis.Miniredis
	redisConn   *redis.Client
)

// NewRedis returns the client of the suite's embedded Redis, starting it once.
func NewRedis() *redis.Client {
	redisOnce.Do(func() {
		server, err := miniredis.Run()
		if err != nil {
			panic(err)
		}
		redisServer = server
		redisConn = redis.NewClient(&redis.Options{Addr: server.Addr()})
	})
	return redisConn
}

// ClearRedis drops every staged batch and lock.
func ClearRedis(client *redis.Client) error {
	return client.FlushAll(context.Background()).Err()
}

// FastForwardRedis advances the embedded server's clock so keys with a TTL
// shorter than d expire.
func FastForwardRedis(d time.Duration) {
	NewRedis()
	redisServer.FastForward(d)
}
