package conn

import "context"

// result carries either a value or an error to a completion handle,
// modeled on dKV's responseResult{data, err} (rpc/transport/base/client.go).
type result[T any] struct {
	value T
	err   error
}

// CompletionHandle is a one-shot producer/consumer channel: the Writer
// or Reader Loop delivers exactly one value or error, and the
// originating caller (on a goroutine outside the connection's loops)
// receives it via Wait.
//
// deliver is non-blocking: the channel is buffered to capacity 1, so a
// caller that has stopped waiting (its context was canceled) never
// stalls the loop that's delivering the reply. This is what lets
// external cancellation of one caller leave the in-flight request
// unaffected.
type CompletionHandle[T any] struct {
	ch chan result[T]
}

func newCompletionHandle[T any]() *CompletionHandle[T] {
	return &CompletionHandle[T]{ch: make(chan result[T], 1)}
}

func (h *CompletionHandle[T]) deliver(v T, err error) {
	h.ch <- result[T]{value: v, err: err}
}

// Wait blocks until the handle is delivered or ctx is done. Canceling
// ctx only abandons the caller's wait — the reply, once it arrives, is
// still read off the wire by the Reader Loop and simply discarded.
func (h *CompletionHandle[T]) Wait(ctx context.Context) (T, error) {
	select {
	case r := <-h.ch:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
