package redis_test

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/orderflow/pkg/redis"
)

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	t.Run("unreachable server fails the check", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		client := goredis.NewClient(&goredis.Options{
			Addr:        "127.0.0.1:1",
			DialTimeout: 200 * time.Millisecond,
		})
		defer client.Close()

		err := redis.Healthcheck(client)(ctx)
		assert.ErrorIs(t, err, redis.ErrHealthcheckFailed)
	})
}
