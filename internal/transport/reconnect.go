package transport

import (
	"context"
	"errors"
	"log"

	"github.com/cenkalti/backoff/v5"

	"github.com/palemoky/bingo-client/internal/logger"
)

// tryReconnect 指数退避重连，达到最大次数后放弃并上报 Error。
// ctx 被 Open/Close 取消或 gen 过期时静默退出。
func (c *Client) tryReconnect(ctx context.Context, cancel context.CancelFunc, roomID string, gen uint64) {
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
			log.Printf("[PANIC] tryReconnect panic recovered: %v", r)
		}
	}()

	policy := c.opts.Reconnect
	b := backoff.NewExponentialBackOff()
	if policy.InitialInterval > 0 {
		b.InitialInterval = policy.InitialInterval
	}
	if policy.MaxInterval > 0 {
		b.MaxInterval = policy.MaxInterval
	}

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		c.emit(Event{
			Kind:        EventReconnecting,
			RoomID:      roomID,
			Attempt:     attempt,
			MaxAttempts: policy.MaxAttempts,
		})
		if err := c.connect(ctx, roomID, gen); err != nil {
			if errors.Is(err, errSuperseded) {
				return struct{}{}, backoff.Permanent(err)
			}
			logger.LogError("reconnect %d/%d failed: %v", attempt, policy.MaxAttempts, err)
			return struct{}{}, err
		}
		return struct{}{}, nil
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(max(policy.MaxAttempts, 1))),
	)
	if err == nil {
		return
	}
	if ctx.Err() != nil || errors.Is(err, errSuperseded) {
		logger.LogDebug("reconnect to %s cancelled", roomID)
		return
	}

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return
	}
	c.state = StateClosed
	c.mu.Unlock()
	logger.LogError("reconnect gave up after %d attempts: %v", attempt, err)
	c.emit(Event{Kind: EventError, RoomID: roomID, Attempt: attempt, MaxAttempts: policy.MaxAttempts, Err: err})
}
