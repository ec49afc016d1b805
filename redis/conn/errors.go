package conn

import "errors"

// Error taxonomy: ConnectFailed, TransportClosed, and ProtocolError
// are failures; an ApplicationError (a server -reply) is never one of
// these — it is delivered as a resp.Reply value.
var (
	// ErrConnectFailed means the transport could not be established.
	// Subsequent sends fail with ErrTransportClosed until a reconnect
	// succeeds.
	ErrConnectFailed = errors.New("pipeconn: connect failed")

	// ErrTransportClosed means a send or read failed mid-stream, or
	// was attempted on a connection that never connected.
	ErrTransportClosed = errors.New("pipeconn: transport closed")

	// ErrProtocolError means the RESP decoder could not make sense of
	// the byte stream. Framing is considered corrupted from this point
	// on; it is handled identically to ErrTransportClosed.
	ErrProtocolError = errors.New("pipeconn: protocol error")

	// ErrConnectionClosing is delivered to every completion handle
	// still pending when Close is called.
	ErrConnectionClosing = errors.New("pipeconn: connection closing")
)
