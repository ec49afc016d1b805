// Package conn implements an asynchronous, pipelined Redis connection
// core: a Connector, a Writer Loop, a Reader Loop, and a Submission API
// correlated through a shared bookkeeping queue.
package conn

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/bigWhiteXie/pipeconn/logging"
	"github.com/bigWhiteXie/pipeconn/redis/resp"
	"github.com/bigWhiteXie/pipeconn/redis/transport"
)

// Options configures a Connection. Exactly one of Path or Host/Port
// selects the transport: a non-empty Path dials UNIX-domain, ignoring
// Host/Port.
type Options struct {
	Host string
	Port int
	Path string

	// Password and DB drive the AUTH/SELECT priming sequence issued
	// once the transport connects.
	Password string
	DB       int

	Logger *logging.Logger
}

func (o Options) transportOptions() transport.Options {
	return transport.Options{Host: o.Host, Port: o.Port, Path: o.Path}
}

func (o Options) logger() *logging.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logging.Default
}

// Connection is a single logical, pipelined connection to a Redis
// server. All of its bookkeeping state — writes, futureActions, and
// the two completion-handle FIFOs — is owned by the goroutine-safe
// methods below; submitters never touch it directly. Everything is
// serialized behind a single mutex rather than a dedicated executor
// goroutine (see DESIGN.md).
type Connection struct {
	opts   Options
	logger *logging.Logger

	mu         sync.Mutex
	writes     []writeItem
	actions    actionQueue
	singles    []*CompletionHandle[resp.Reply]
	bulks      []*CompletionHandle[[]resp.Reply]
	transport  transport.Transport
	parser     *resp.Parser
	connectErr error
	closing    bool

	queuedWrites *condFlag
	queuedReads  *condFlag

	started    atomic.Bool
	connecting atomic.Bool
	connected  atomic.Bool

	loopsDone sync.WaitGroup
	stopOnce  sync.Once
}

// New creates an inert Connection. Call Start to begin connecting and
// running the Writer/Reader loops.
func New(opts Options) *Connection {
	return &Connection{
		opts:         opts,
		logger:       opts.logger(),
		queuedWrites: newCondFlag(),
		queuedReads:  newCondFlag(),
	}
}

// Start is idempotent: only the first call spawns the Connector and
// both loops. Submissions posted before the transport is ready are
// buffered in writes and drained once Connect succeeds.
func (c *Connection) Start() {
	if !c.started.CompareAndSwap(false, true) {
		return
	}

	c.loopsDone.Add(2)
	go func() {
		defer c.loopsDone.Done()
		c.connect(context.Background())
		c.runWriter()
	}()
	go func() {
		defer c.loopsDone.Done()
		c.runReader()
	}()
}

// IsConnected reports whether the transport is currently installed.
func (c *Connection) IsConnected() bool {
	return c.connected.Load()
}

// ConnectError returns the error from the most recent failed connect
// attempt, or nil if the Connection is currently connected or has
// never attempted to connect.
func (c *Connection) ConnectError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectErr
}

// failTransport closes the transport (if any) and flips connected to
// false. It is idempotent and safe to call from either loop: Go's
// net.Conn.Close is itself safe for concurrent/repeated use, and
// subsequent reads/writes on the closed transport simply fail, which
// is how both loops notice a torn-down connection without any extra
// short-circuiting logic.
func (c *Connection) failTransport() {
	c.mu.Lock()
	tr := c.transport
	c.parser = nil
	c.mu.Unlock()

	c.connected.Store(false)
	if tr != nil {
		_ = tr.Close()
	}
}
