package lock

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestContentKey(t *testing.T) {
	assert.Equal(t, "royalty:accrual:7:9", ContentKey(snowflake.ID(7), snowflake.ID(9)))
}

func TestNilLockerIsDisabled(t *testing.T) {
	assert.Nil(t, NewLocker(nil))
	assert.Nil(t, NewContentLock(nil, zaptest.NewLogger(t)))

	var l *ContentLock
	release, err := l.Acquire(context.Background(), 1, 2)
	require.NoError(t, err)
	release()
}

func TestTryLockValidatesArguments(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond})
	defer client.Close()
	locker := NewLocker(client)

	_, _, err := locker.TryLock(context.Background(), "", time.Second)
	assert.Error(t, err)
	_, _, err = locker.TryLock(context.Background(), "k", 0)
	assert.Error(t, err)
	assert.NoError(t, locker.Release(context.Background(), "", ""))
}

func TestAcquireSurfacesRedisErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	lock := NewContentLock(NewLocker(client), zaptest.NewLogger(t))
	release, err := lock.Acquire(context.Background(), 1, 2)
	assert.Error(t, err)
	require.NotNil(t, release)
	release()
}
