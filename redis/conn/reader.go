package conn

import (
	"context"

	"github.com/bigWhiteXie/pipeconn/redis/resp"
)

const componentReader = "reader"

// runReader drains the action queue, reading one RESP reply per
// bookkeeping unit off the wire and dispatching it accordingly:
// Ignore discards it, Deliver hands it to the next queued single
// completion handle, DeliverBulk accumulates it into the current bulk
// result and only completes the handle once all N replies for that
// bulk have arrived.
func (c *Connection) runReader() {
	ctx := context.Background()
	for {
		if err := c.queuedReads.Wait(ctx); err != nil {
			return
		}
		c.queuedReads.Clear()

		for {
			action, ok := c.popAction()
			if !ok {
				break
			}
			c.dispatchRead(action)
		}

		if c.isClosing() {
			return
		}
	}
}

func (c *Connection) popAction() (futureAction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.actions.empty() {
		return futureAction{}, false
	}
	return c.actions.popFront(), true
}

// dispatchRead processes one bookkeeping entry, reading exactly
// `amount` replies off the wire for it. A failed read is logged and
// does not abort the batch: the remaining reads for this entry are
// still attempted, matching "if any individual read fails, log it and
// continue with the next of the N" — no error here short-circuits the
// Reader Loop itself; only Close does.
func (c *Connection) dispatchRead(action futureAction) {
	switch action.kind {
	case actionIgnore:
		for i := 0; i < action.amount; i++ {
			if _, err := c.readReply(); err != nil {
				c.logger.Criticalf(componentReader, "read failed while discarding reply %d/%d: %v", i+1, action.amount, err)
			}
		}

	case actionDeliver:
		for i := 0; i < action.amount; i++ {
			reply, err := c.readReply()
			handle := c.popSingle()
			if handle == nil {
				// No caller is waiting; nothing to deliver to.
				continue
			}
			if err != nil {
				c.logger.Criticalf(componentReader, "read failed delivering single reply %d/%d: %v", i+1, action.amount, err)
				handle.deliver(nil, err)
				continue
			}
			handle.deliver(reply, nil)
		}

	case actionDeliverBulk:
		handle := c.popBulk()
		replies := make([]resp.Reply, 0, action.amount)
		var firstErr error
		for i := 0; i < action.amount; i++ {
			reply, err := c.readReply()
			if err != nil {
				c.logger.Criticalf(componentReader, "read failed mid-bulk (%d/%d): %v", i+1, action.amount, err)
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			replies = append(replies, reply)
		}
		if handle == nil {
			return
		}
		if firstErr != nil {
			handle.deliver(nil, firstErr)
			return
		}
		handle.deliver(replies, nil)
	}
}

func (c *Connection) popSingle() *CompletionHandle[resp.Reply] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.singles) == 0 {
		return nil
	}
	h := c.singles[0]
	c.singles = c.singles[1:]
	return h
}

func (c *Connection) popBulk() *CompletionHandle[[]resp.Reply] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.bulks) == 0 {
		return nil
	}
	h := c.bulks[0]
	c.bulks = c.bulks[1:]
	return h
}

// readReply reads and parses exactly one RESP value off the current
// transport. A framing/protocol failure or a closed transport tears
// the connection down via failTransport; the Reader Loop itself keeps
// running, draining whatever remains of the current batch (each
// further read now fails immediately since no parser is installed).
func (c *Connection) readReply() (resp.Reply, error) {
	c.mu.Lock()
	parser := c.parser
	c.mu.Unlock()
	if parser == nil || !c.connected.Load() {
		return nil, ErrTransportClosed
	}

	reply, err := parser.Parse()
	if err != nil {
		wasProtocolErr := err == resp.ErrProtocol
		c.failTransport()
		if wasProtocolErr {
			return nil, ErrProtocolError
		}
		return nil, ErrTransportClosed
	}
	return reply, nil
}
