package conn

import "github.com/bigWhiteXie/pipeconn/redis/resp"

// writeItemKind tags the four write queue item shapes: fire-and-forget
// single/bulk and await single/bulk.
type writeItemKind int

const (
	writeFireSingle writeItemKind = iota
	writeFireBulk
	writeAwaitSingle
	writeAwaitBulk
)

// writeItem is the tagged WriteQueueItem variant. Exactly one of the
// payload fields is populated, selected by kind.
type writeItem struct {
	kind writeItemKind

	single resp.Query
	bulk   []resp.Query

	singleHandle *CompletionHandle[resp.Reply]
	bulkHandle   *CompletionHandle[[]resp.Reply]
}

// actionKind tags a FutureResponseAction's disposition for its
// upcoming replies.
type actionKind int

const (
	actionIgnore actionKind = iota
	actionDeliver
	actionDeliverBulk
)

// futureAction is a bookkeeping record: "amount" replies are coming,
// to be handled according to "kind". Ignore and Deliver runs coalesce;
// DeliverBulk entries never do, since each is bound to exactly one
// bulk completion handle.
type futureAction struct {
	amount int
	kind   actionKind
}

// actionQueue is the FIFO of futureAction entries with tail-coalescing
// append.
type actionQueue struct {
	entries []futureAction
}

// appendOrExtend adds amount replies of kind to the queue, extending
// the tail entry in place if it already has the same kind (Ignore or
// Deliver only — callers must never pass actionDeliverBulk here).
func (q *actionQueue) appendOrExtend(kind actionKind, amount int) {
	if amount <= 0 {
		return
	}
	if n := len(q.entries); n > 0 && q.entries[n-1].kind == kind {
		q.entries[n-1].amount += amount
		return
	}
	q.entries = append(q.entries, futureAction{amount: amount, kind: kind})
}

// appendFresh always adds a new entry, never coalescing. Used for
// DeliverBulk, which is a 1:1 binding to a single bulk completion
// handle and must keep its boundary.
func (q *actionQueue) appendFresh(kind actionKind, amount int) {
	if amount <= 0 {
		return
	}
	q.entries = append(q.entries, futureAction{amount: amount, kind: kind})
}

func (q *actionQueue) empty() bool {
	return len(q.entries) == 0
}

// popFront removes and returns the front entry. Callers must check
// empty() first.
func (q *actionQueue) popFront() futureAction {
	front := q.entries[0]
	q.entries = q.entries[1:]
	return front
}
