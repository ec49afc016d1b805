// Package transport provides the socket primitive the connection core
// writes queries to and reads replies from: a TCP stream or a
// UNIX-domain stream, dialed polymorphically behind one small
// interface rather than through inheritance (per the tagged-union
// design note for transport capability {async_read, async_write,
// async_connect}).
package transport

import "io"

// Transport is the capability set a Connection needs from its socket:
// read, write, close, and its peer's address for logging.
type Transport interface {
	io.Reader
	io.Writer
	io.Closer
	RemoteAddr() string
}

// Options selects which concrete Transport Dial produces. If Path is
// non-empty, it is dialed as a UNIX-domain socket and Host/Port are
// ignored; otherwise Host:Port is dialed over TCP.
type Options struct {
	Host string
	Port int
	Path string
}

// Dial establishes the transport described by opts. It performs a
// single connect attempt; retry policy lives one layer up, in the
// connection core's Connector.
func Dial(opts Options) (Transport, error) {
	if opts.Path != "" {
		return dialUnix(opts.Path)
	}
	return dialTCP(opts.Host, opts.Port)
}
