package conn

import (
	"context"
	"fmt"

	"github.com/cenkalti/backoff/v4"

	"github.com/bigWhiteXie/pipeconn/redis/resp"
	"github.com/bigWhiteXie/pipeconn/redis/transport"
)

const componentConnector = "connector"

// connect dials the transport and primes the session, with a single
// bounded reconnect attempt: the initial dial plus one backed-off
// retry, driven by cenkalti/backoff/v4.
//
// Idempotency is enforced by connecting.CompareAndSwap(false, true)
// succeeding only on the first call; the scoped release at the end
// restores connecting to track connected on every exit path.
func (c *Connection) connect(ctx context.Context) {
	if !c.connecting.CompareAndSwap(false, true) {
		return
	}
	defer func() {
		c.connecting.Store(c.connected.Load())
	}()

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 1)
	policy = backoff.WithContext(policy, ctx)

	var tr transport.Transport
	err := backoff.Retry(func() error {
		t, dialErr := transport.Dial(c.opts.transportOptions())
		if dialErr != nil {
			c.logger.Criticalf(componentConnector, "connect attempt failed: %v", dialErr)
			return dialErr
		}
		tr = t
		return nil
	}, policy)

	if err != nil {
		// connected stays false; the Writer Loop will fail every send
		// attempt with ErrTransportClosed until a later explicit
		// reconnect succeeds. The wrapped error is retained for callers
		// that want the reason via ConnectError.
		wrapped := fmt.Errorf("%w: %v", ErrConnectFailed, err)
		c.mu.Lock()
		c.connectErr = wrapped
		c.mu.Unlock()
		c.logger.Criticalf(componentConnector, "connect failed: %v", wrapped)
		return
	}

	c.mu.Lock()
	c.transport = tr
	c.parser = resp.NewParser(tr)
	c.connectErr = nil
	c.mu.Unlock()

	c.connected.Store(true)
	c.logger.Infof(componentConnector, "connected to %s", tr.RemoteAddr())

	c.primeSession()
}

// primeSession enqueues AUTH/SELECT as ordinary FireSingle items ahead
// of any user submission: the first query(ies) issued on a freshly
// connected transport are AUTH <password> and/or SELECT <db>, in that
// order, dispatched through the normal Writer path. They are placed at
// the front of writes, before anything submitted while connecting.
func (c *Connection) primeSession() {
	var prime []writeItem
	if c.opts.Password != "" {
		prime = append(prime, writeItem{kind: writeFireSingle, single: authQuery(c.opts.Password)})
	}
	if c.opts.DB != 0 {
		prime = append(prime, writeItem{kind: writeFireSingle, single: selectQuery(c.opts.DB)})
	}
	if len(prime) == 0 {
		return
	}
	c.mu.Lock()
	if c.closing {
		c.mu.Unlock()
		return
	}
	c.writes = append(prime, c.writes...)
	c.mu.Unlock()
	c.queuedWrites.Set()
}

// Reconnect forces a fresh Connector attempt, for callers implementing
// their own reconnection policy on top of the single bounded retry
// baked into Start. It clears connecting before calling connect, so it
// always dials; it does not detect a connect attempt already in flight.
func (c *Connection) Reconnect(ctx context.Context) {
	c.connecting.Store(false)
	c.connect(ctx)
}
