package conn

import "context"

// Close drains queued writes, fails every pending completion handle
// with ErrConnectionClosing, tears down the transport, and waits for
// both loops to exit. It is idempotent and safe to call more than once
// or concurrently with in-flight submissions.
func (c *Connection) Close(ctx context.Context) error {
	c.stopOnce.Do(func() {
		c.mu.Lock()
		c.closing = true
		pendingWrites := c.writes
		c.writes = nil
		pendingSingles := c.singles
		c.singles = nil
		pendingBulks := c.bulks
		c.bulks = nil
		c.mu.Unlock()

		for _, item := range pendingWrites {
			item.failImmediately(ErrConnectionClosing)
		}
		for _, h := range pendingSingles {
			h.deliver(nil, ErrConnectionClosing)
		}
		for _, h := range pendingBulks {
			h.deliver(nil, ErrConnectionClosing)
		}

		// Wake both loops so they observe closing and exit instead of
		// blocking forever on their condition flags.
		c.queuedWrites.Set()
		c.queuedReads.Set()
		c.failTransport()
	})

	done := make(chan struct{})
	go func() {
		c.loopsDone.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
