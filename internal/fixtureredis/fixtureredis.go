// Package fixtureredis is a minimal redcon-backed RESP server used only
// by tests: enough command coverage to exercise pipeconn's connection
// core against a real listening socket.
package fixtureredis

import (
	"net"
	"strconv"
	"sync"

	"github.com/tidwall/redcon"
)

// Server is a tiny single-database key/value store speaking enough
// RESP to drive integration tests: PING, SET, GET, INCR, DEL, SELECT,
// AUTH (always OK), and an error reply for anything else.
type Server struct {
	Addr string

	srv *redcon.Server

	mu   sync.Mutex
	data map[string]string
}

// New reserves an ephemeral TCP port, starts a redcon server on it,
// and returns once the listener is accepting connections.
func New() (*Server, error) {
	// Reserve a free port up front so Addr is known before
	// ListenAndServe (redcon does not expose its bound listener).
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	addr := l.Addr().String()
	_ = l.Close()

	s := &Server{Addr: addr, data: make(map[string]string)}
	s.srv = redcon.NewServer(addr, s.handle,
		func(conn redcon.Conn) bool { return true },
		func(conn redcon.Conn, err error) {},
	)

	signal := make(chan error, 1)
	go func() {
		_ = s.srv.ListenServeAndSignal(signal)
	}()
	if err := <-signal; err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Server) handle(conn redcon.Conn, cmd redcon.Command) {
	if len(cmd.Args) == 0 {
		conn.WriteError("ERR empty command")
		return
	}
	name := string(cmd.Args[0])

	switch name {
	case "ping", "PING":
		conn.WriteString("PONG")

	case "set", "SET":
		if len(cmd.Args) != 3 {
			conn.WriteError("ERR wrong number of arguments for 'set' command")
			return
		}
		s.mu.Lock()
		s.data[string(cmd.Args[1])] = string(cmd.Args[2])
		s.mu.Unlock()
		conn.WriteString("OK")

	case "get", "GET":
		if len(cmd.Args) != 2 {
			conn.WriteError("ERR wrong number of arguments for 'get' command")
			return
		}
		s.mu.Lock()
		v, ok := s.data[string(cmd.Args[1])]
		s.mu.Unlock()
		if !ok {
			conn.WriteNull()
			return
		}
		conn.WriteBulkString(v)

	case "incr", "INCR":
		if len(cmd.Args) != 2 {
			conn.WriteError("ERR wrong number of arguments for 'incr' command")
			return
		}
		key := string(cmd.Args[1])
		s.mu.Lock()
		n, _ := strconv.ParseInt(s.data[key], 10, 64)
		n++
		s.data[key] = strconv.FormatInt(n, 10)
		s.mu.Unlock()
		conn.WriteInt64(n)

	case "del", "DEL":
		if len(cmd.Args) != 2 {
			conn.WriteError("ERR wrong number of arguments for 'del' command")
			return
		}
		key := string(cmd.Args[1])
		s.mu.Lock()
		_, existed := s.data[key]
		delete(s.data, key)
		s.mu.Unlock()
		if existed {
			conn.WriteInt(1)
		} else {
			conn.WriteInt(0)
		}

	case "select", "SELECT":
		conn.WriteString("OK")

	case "auth", "AUTH":
		conn.WriteString("OK")

	default:
		conn.WriteError("ERR unknown command '" + name + "'")
	}
}

// Close shuts the fixture server down.
func (s *Server) Close() error {
	return s.srv.Close()
}
