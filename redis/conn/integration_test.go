package conn_test

import (
	"context"
	"errors"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/bigWhiteXie/pipeconn/internal/fixtureredis"
	"github.com/bigWhiteXie/pipeconn/redis/conn"
	"github.com/bigWhiteXie/pipeconn/redis/resp"
)

func newConnectedConn(t *testing.T, addr string) *conn.Connection {
	t.Helper()
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatal(err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatal(err)
	}

	c := conn.New(conn.Options{Host: host, Port: port})
	c.Start()

	deadline := time.Now().Add(2 * time.Second)
	for !c.IsConnected() {
		if time.Now().After(deadline) {
			t.Fatal("connection never became ready")
		}
		time.Sleep(time.Millisecond)
	}
	return c
}

func TestConnection_PingPong(t *testing.T) {
	srv, err := fixtureredis.New()
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()

	c := newConnectedConn(t, srv.Addr)
	defer c.Close(context.Background())

	reply, err := c.AwaitResult(context.Background(), resp.NewQuery("PING"))
	if err != nil {
		t.Fatalf("AwaitResult(PING) error = %v", err)
	}
	status, ok := reply.(*resp.SimpleStringReply)
	if !ok || status.Status != "PONG" {
		t.Errorf("reply = %+v, want +PONG", reply)
	}
}

func TestConnection_SetGet(t *testing.T) {
	srv, err := fixtureredis.New()
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()

	c := newConnectedConn(t, srv.Addr)
	defer c.Close(context.Background())

	ctx := context.Background()
	if _, err := c.AwaitResult(ctx, resp.NewQuery("SET", "greeting", "hello")); err != nil {
		t.Fatalf("SET error = %v", err)
	}
	reply, err := c.AwaitResult(ctx, resp.NewQuery("GET", "greeting"))
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	bulk, ok := reply.(*resp.BulkReply)
	if !ok || string(bulk.Value) != "hello" {
		t.Errorf("reply = %+v, want $hello", reply)
	}
}

func TestConnection_AwaitResultBulk(t *testing.T) {
	srv, err := fixtureredis.New()
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()

	c := newConnectedConn(t, srv.Addr)
	defer c.Close(context.Background())

	qs := []resp.Query{
		resp.NewQuery("SET", "a", "1"),
		resp.NewQuery("SET", "b", "2"),
		resp.NewQuery("GET", "a"),
		resp.NewQuery("GET", "b"),
	}
	replies, err := c.AwaitResultBulk(context.Background(), qs)
	if err != nil {
		t.Fatalf("AwaitResultBulk error = %v", err)
	}
	if len(replies) != 4 {
		t.Fatalf("len(replies) = %d, want 4", len(replies))
	}
	if bulk, ok := replies[2].(*resp.BulkReply); !ok || string(bulk.Value) != "1" {
		t.Errorf("replies[2] = %+v, want $1", replies[2])
	}
	if bulk, ok := replies[3].(*resp.BulkReply); !ok || string(bulk.Value) != "2" {
		t.Errorf("replies[3] = %+v, want $2", replies[3])
	}
}

func TestConnection_UnknownCommandIsApplicationError(t *testing.T) {
	srv, err := fixtureredis.New()
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()

	c := newConnectedConn(t, srv.Addr)
	defer c.Close(context.Background())

	reply, err := c.AwaitResult(context.Background(), resp.NewQuery("NOTACOMMAND"))
	if err != nil {
		t.Fatalf("AwaitResult() error = %v, want nil (application errors are values)", err)
	}
	if !resp.IsErrorReply(reply) {
		t.Errorf("reply = %+v, want an ErrorReply", reply)
	}
}

func TestConnection_ConnectFailedOnRefusedPort(t *testing.T) {
	// An address nothing listens on: pick an ephemeral port then close
	// it immediately so the connect attempt is refused, not merely slow.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	_ = l.Close()

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatal(err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatal(err)
	}

	c := conn.New(conn.Options{Host: host, Port: port})
	c.Start()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && c.ConnectError() == nil {
		time.Sleep(time.Millisecond)
	}
	if c.IsConnected() {
		t.Fatal("connection reports connected against a refused port")
	}
	if !errors.Is(c.ConnectError(), conn.ErrConnectFailed) {
		t.Errorf("ConnectError() = %v, want wrapping ErrConnectFailed", c.ConnectError())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if _, err := c.AwaitResult(ctx, resp.NewQuery("PING")); err == nil {
		t.Error("AwaitResult() error = nil, want a failure against an unconnected transport")
	}
	_ = c.Close(context.Background())
}

func TestConnection_ThousandFireAndForgetThenAwaitResult(t *testing.T) {
	srv, err := fixtureredis.New()
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()

	c := newConnectedConn(t, srv.Addr)
	defer c.Close(context.Background())

	for i := 0; i < 1000; i++ {
		c.FireAndForget(resp.NewQuery("INCR", "counter"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	reply, err := c.AwaitResult(ctx, resp.NewQuery("GET", "counter"))
	if err != nil {
		t.Fatalf("AwaitResult(GET) error = %v", err)
	}
	bulk, ok := reply.(*resp.BulkReply)
	if !ok || string(bulk.Value) != "1000" {
		t.Errorf("reply = %+v, want $1000", reply)
	}
}

func TestConnection_AwaitResultAfterCloseFailsWithConnectionClosing(t *testing.T) {
	srv, err := fixtureredis.New()
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()

	c := newConnectedConn(t, srv.Addr)
	if err := c.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, err := c.AwaitResult(context.Background(), resp.NewQuery("PING")); err != conn.ErrConnectionClosing {
		t.Errorf("AwaitResult() after Close error = %v, want ErrConnectionClosing", err)
	}
}
