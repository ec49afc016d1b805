// Package registry holds a set of independently-pipelined named
// connections side by side, grounded on ValentinKolb-dKV's xsync.MapOf
// usage for concurrent shard/connection maps (rpc/server/server.go's
// shardMap, rpc/transport/base/client.go's requestChans).
package registry

import (
	"context"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/bigWhiteXie/pipeconn/redis/conn"
)

// Registry maps a logical name to its own conn.Connection, each with
// its own socket, its own writer/reader loop pair, and its own
// bookkeeping queue. This is not multiplexing over one socket — every
// entry is a complete, separate Connection.
type Registry struct {
	conns *xsync.MapOf[string, *conn.Connection]
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{conns: xsync.NewMapOf[string, *conn.Connection]()}
}

// GetOrCreate returns the named connection, creating and starting one
// via newFn if it does not already exist.
func (r *Registry) GetOrCreate(name string, newFn func() *conn.Connection) *conn.Connection {
	c, _ := r.conns.LoadOrCompute(name, func() *conn.Connection {
		c := newFn()
		c.Start()
		return c
	})
	return c
}

// Get returns the named connection, if any.
func (r *Registry) Get(name string) (*conn.Connection, bool) {
	return r.conns.Load(name)
}

// Remove closes and forgets the named connection.
func (r *Registry) Remove(name string) {
	c, ok := r.conns.LoadAndDelete(name)
	if !ok {
		return
	}
	_ = c.Close(context.Background())
}

// Range calls fn for every registered connection, in no particular
// order. It stops early if fn returns false.
func (r *Registry) Range(fn func(name string, c *conn.Connection) bool) {
	r.conns.Range(fn)
}
