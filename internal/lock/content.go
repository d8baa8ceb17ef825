package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

var ErrNotAcquired = errors.New("lock_not_acquired")

const (
	defaultContentLockTTL     = 5 * time.Second
	defaultContentLockRetries = 3
	defaultContentLockWait    = 50 * time.Millisecond
)

// ContentLock serializes threshold evaluation for one owner's track.
type ContentLock struct {
	locker  *Locker
	log     *zap.Logger
	ttl     time.Duration
	retries int
	wait    time.Duration
}

func NewContentLock(locker *Locker, log *zap.Logger) *ContentLock {
	if locker == nil {
		return nil
	}
	return &ContentLock{
		locker:  locker,
		log:     log.Named("lock"),
		ttl:     defaultContentLockTTL,
		retries: defaultContentLockRetries,
		wait:    defaultContentLockWait,
	}
}

func ContentKey(ownerID, trackID snowflake.ID) string {
	return fmt.Sprintf("royalty:accrual:%s:%s", ownerID, trackID)
}

// Acquire takes the lock with a few short retries. A nil ContentLock is a no-op.
func (c *ContentLock) Acquire(ctx context.Context, ownerID, trackID snowflake.ID) (func(), error) {
	if c == nil || c.locker == nil {
		return func() {}, nil
	}

	key := ContentKey(ownerID, trackID)
	for attempt := 0; attempt <= c.retries; attempt++ {
		token, ok, err := c.locker.TryLock(ctx, key, c.ttl)
		if err != nil {
			return func() {}, err
		}
		if ok {
			return func() {
				// Release with a fresh context; the caller's may already be done.
				releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				if err := c.locker.Release(releaseCtx, key, token); err != nil {
					c.log.Warn("failed to release content lock", zap.String("key", key), zap.Error(err))
				}
			}, nil
		}
		if attempt == c.retries {
			break
		}
		select {
		case <-ctx.Done():
			return func() {}, ctx.Err()
		case <-time.After(c.wait):
		}
	}
	return func() {}, ErrNotAcquired
}
