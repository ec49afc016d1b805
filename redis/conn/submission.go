package conn

import (
	"context"
	"strconv"

	"github.com/bigWhiteXie/pipeconn/redis/resp"
)

func authQuery(password string) resp.Query {
	return resp.NewQuery("AUTH", password)
}

func selectQuery(db int) resp.Query {
	return resp.NewQuery("SELECT", strconv.Itoa(db))
}

// enqueue appends item to writes and wakes the Writer Loop. It is the
// single choke point every Submission API entry point funnels through
// to "hop onto the executor": the mutex makes the append atomic with
// respect to the Writer Loop's own drain, and the level-triggered
// queuedWrites flag, set after the mutex is released, cannot be lost.
func (c *Connection) enqueue(item writeItem) {
	c.mu.Lock()
	closing := c.closing
	if !closing {
		c.writes = append(c.writes, item)
	}
	c.mu.Unlock()

	if closing {
		item.failImmediately(ErrConnectionClosing)
		return
	}
	c.queuedWrites.Set()
}

func (item writeItem) failImmediately(err error) {
	switch item.kind {
	case writeAwaitSingle:
		item.singleHandle.deliver(nil, err)
	case writeAwaitBulk:
		item.bulkHandle.deliver(nil, err)
	}
}

// FireAndForget enqueues a single query whose reply is discarded. It
// returns immediately; send/read failures are logged, never surfaced
// to the caller.
func (c *Connection) FireAndForget(q resp.Query) {
	c.enqueue(writeItem{kind: writeFireSingle, single: q})
}

// FireAndForgetBulk enqueues N queries as one atomic unit — the Writer
// Loop writes all of them to the wire contiguously before moving to
// the next queue item — whose replies are all discarded.
func (c *Connection) FireAndForgetBulk(qs []resp.Query) {
	c.enqueue(writeItem{kind: writeFireBulk, bulk: qs})
}

// AwaitResult enqueues q and blocks until its reply arrives, ctx is
// canceled, or the connection fails. A server error reply (RESP "-")
// is returned as a *resp.ErrorReply value, not as the error return —
// only transport/protocol failures and ctx cancellation populate err.
func (c *Connection) AwaitResult(ctx context.Context, q resp.Query) (resp.Reply, error) {
	handle := newCompletionHandle[resp.Reply]()
	c.enqueue(writeItem{kind: writeAwaitSingle, single: q, singleHandle: handle})
	return handle.Wait(ctx)
}

// AwaitResultBulk enqueues qs as one atomic unit and blocks until all
// N replies arrive, in input order. If any sub-query fails to send,
// the whole call fails and no replies are delivered.
func (c *Connection) AwaitResultBulk(ctx context.Context, qs []resp.Query) ([]resp.Reply, error) {
	handle := newCompletionHandle[[]resp.Reply]()
	c.enqueue(writeItem{kind: writeAwaitBulk, bulk: qs, bulkHandle: handle})
	return handle.Wait(ctx)
}
