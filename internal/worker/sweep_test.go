package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/doctor-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/doctor-scheduler/internal/usecase/appointment"
)

type fakeSweeper struct {
	calls int
	at    time.Time
	err   error
}

func (f *fakeSweeper) Execute(_ context.Context, now time.Time) (appointment.SweepResult, error) {
	f.calls++
	f.at = now
	return appointment.SweepResult{Completed: 1}, f.err
}

func newHandler(t *testing.T, s sweeper) (*SweepHandler, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	h := NewSweepHandler(s, lock.NewRedisLock(client))
	h.now = func() time.Time { return time.Date(2099, 1, 1, 9, 31, 0, 0, time.UTC) }
	return h, mr
}

func TestSweepHandlerRunsAndReleasesLock(t *testing.T) {
	s := &fakeSweeper{}
	h, mr := newHandler(t, s)

	require.NoError(t, h.ProcessTask(context.Background(), NewSweepTask()))
	assert.Equal(t, 1, s.calls)
	assert.Equal(t, 2099, s.at.Year())
	assert.False(t, mr.Exists(sweepLockKey))

	require.NoError(t, h.ProcessTask(context.Background(), NewSweepTask()))
	assert.Equal(t, 2, s.calls)
}

func TestSweepHandlerSkipsWhenLocked(t *testing.T) {
	s := &fakeSweeper{}
	h, mr := newHandler(t, s)

	require.NoError(t, mr.Set(sweepLockKey, "other-replica"))

	require.NoError(t, h.ProcessTask(context.Background(), NewSweepTask()))
	assert.Equal(t, 0, s.calls)

	v, err := mr.Get(sweepLockKey)
	require.NoError(t, err)
	assert.Equal(t, "other-replica", v, "lock owned by another replica is left alone")
}

func TestSweepHandlerPropagatesError(t *testing.T) {
	s := &fakeSweeper{err: errors.New("db down")}
	h, mr := newHandler(t, s)

	err := h.ProcessTask(context.Background(), asynq.NewTask(TypeSweepExpired, nil))
	assert.EqualError(t, err, "db down")
	assert.False(t, mr.Exists(sweepLockKey))
}

func TestNewSweepTask(t *testing.T) {
	task := NewSweepTask()
	assert.Equal(t, TypeSweepExpired, task.Type())
	assert.Empty(t, task.Payload())
}
