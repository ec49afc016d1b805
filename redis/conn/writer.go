package conn

import (
	"context"

	"github.com/bigWhiteXie/pipeconn/logging"
	"github.com/bigWhiteXie/pipeconn/redis/resp"
	"github.com/bigWhiteXie/pipeconn/redis/transport"
)

const componentWriter = "writer"

// runWriter drains the outbound queue, serializing each query onto
// the socket in order and appending a matching bookkeeping entry to
// the action queue.
func (c *Connection) runWriter() {
	ctx := context.Background()
	for {
		if err := c.queuedWrites.Wait(ctx); err != nil {
			return
		}
		c.queuedWrites.Clear()

		for {
			item, ok := c.popWrite()
			if !ok {
				break
			}
			c.dispatchWrite(item)
		}

		if c.isClosing() {
			return
		}
	}
}

func (c *Connection) popWrite() (writeItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.writes) == 0 {
		return writeItem{}, false
	}
	item := c.writes[0]
	c.writes = c.writes[1:]
	return item, true
}

func (c *Connection) isClosing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closing
}

func (c *Connection) dispatchWrite(item writeItem) {
	switch item.kind {
	case writeFireSingle:
		c.writeFireSingle(item.single)
	case writeFireBulk:
		c.writeFireBulk(item.bulk)
	case writeAwaitSingle:
		c.writeAwaitSingle(item.single, item.singleHandle)
	case writeAwaitBulk:
		c.writeAwaitBulk(item.bulk, item.bulkHandle)
	}
}

// currentTransport returns the installed transport, or nil if the
// connection has never connected. After failTransport it still returns
// the closed transport; sendQuery checks connected separately.
func (c *Connection) currentTransport() transport.Transport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transport
}

func (c *Connection) sendQuery(q resp.Query) error {
	tr := c.currentTransport()
	if tr == nil || !c.connected.Load() {
		return ErrTransportClosed
	}
	if _, err := tr.Write(resp.EncodeQuery(q)); err != nil {
		c.failTransport()
		return ErrTransportClosed
	}
	return nil
}

func (c *Connection) writeFireSingle(q resp.Query) {
	if err := c.sendQuery(q); err != nil {
		c.logger.Errorf(componentWriter, "fire-and-forget send failed for %s: %v",
			logging.TruncatedArgs(q, 7), err)
		return
	}
	c.mu.Lock()
	c.actions.appendOrExtend(actionIgnore, 1)
	c.mu.Unlock()
	c.queuedReads.Set()
}

func (c *Connection) writeFireBulk(qs []resp.Query) {
	sent := 0
	for _, q := range qs {
		if err := c.sendQuery(q); err != nil {
			c.logger.Errorf(componentWriter, "fire-and-forget bulk send failed after %d/%d queries: %v",
				sent, len(qs), err)
			break
		}
		sent++
	}
	if sent == 0 {
		return
	}
	c.mu.Lock()
	c.actions.appendOrExtend(actionIgnore, sent)
	c.mu.Unlock()
	c.queuedReads.Set()
}

func (c *Connection) writeAwaitSingle(q resp.Query, handle *CompletionHandle[resp.Reply]) {
	if err := c.sendQuery(q); err != nil {
		handle.deliver(nil, err)
		return
	}
	c.mu.Lock()
	c.singles = append(c.singles, handle)
	c.actions.appendOrExtend(actionDeliver, 1)
	c.mu.Unlock()
	c.queuedReads.Set()
}

func (c *Connection) writeAwaitBulk(qs []resp.Query, handle *CompletionHandle[[]resp.Reply]) {
	if len(qs) == 0 {
		// No replies will come, so no DeliverBulk entry is recorded and
		// the handle is completed here with an empty list.
		handle.deliver([]resp.Reply{}, nil)
		return
	}
	sent := 0
	var sendErr error
	for _, q := range qs {
		if err := c.sendQuery(q); err != nil {
			sendErr = err
			break
		}
		sent++
	}

	if sendErr != nil {
		handle.deliver(nil, sendErr)
		if sent > 0 {
			// The sent prefix is already on the wire: its replies are
			// still coming. Bookkeep the prefix as Ignore so the Reader
			// Loop drains and discards those replies instead of silently
			// misattributing them to the next queue entry, then tear the
			// connection down: this item's completion handle has already
			// been poisoned, so nobody is left who can safely receive the
			// remainder of this bulk's replies as a coherent result.
			c.mu.Lock()
			c.actions.appendOrExtend(actionIgnore, sent)
			c.mu.Unlock()
			c.queuedReads.Set()
			c.failTransport()
		}
		return
	}

	c.mu.Lock()
	c.bulks = append(c.bulks, handle)
	c.actions.appendFresh(actionDeliverBulk, len(qs))
	c.mu.Unlock()
	c.queuedReads.Set()
}
