package lock

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var ErrNotAcquired = errors.New("lock: not acquired")

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLock é um lock exclusivo com TTL; só o dono consegue liberar.
type RedisLock struct {
	client *redis.Client
}

func NewRedisLock(client *redis.Client) *RedisLock {
	return &RedisLock{client: client}
}

type Handle struct {
	client *redis.Client
	key    string
	token  string
}

// Acquire devolve ErrNotAcquired quando outro processo detém a chave.
func (l *RedisLock) Acquire(ctx context.Context, key string, ttl time.Duration) (*Handle, error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAcquired
	}

	return &Handle{client: l.client, key: key, token: token}, nil
}

func (h *Handle) Release(ctx context.Context) error {
	return releaseScript.Run(ctx, h.client, []string{h.key}, h.token).Err()
}
