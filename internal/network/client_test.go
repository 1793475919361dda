package network

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/mudshell/mudshell/internal/eventbus"
	"github.com/mudshell/mudshell/internal/telnet"
)

func startEchoListener(t *testing.T) (addr string, accepted chan net.Conn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	accepted = make(chan net.Conn, 4)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			accepted <- conn
		}
	}()
	t.Cleanup(func() { ln.Close() })
	return ln.Addr().String(), accepted
}

func splitHostPort(t *testing.T, addr string) (string, int) {
	t.Helper()
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("SplitHostPort: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}
	return host, port
}

func drainEvent(t *testing.T, c *Client, want eventbus.Type) eventbus.Event {
	t.Helper()
	select {
	case ev := <-c.Output():
		if ev.Type != want {
			t.Fatalf("expected event type %v, got %+v", want, ev)
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event %v", want)
	}
	return eventbus.Event{}
}

func TestConnectEmitsConnected(t *testing.T) {
	addr, accepted := startEchoListener(t)
	host, port := splitHostPort(t, addr)

	c := NewClient()
	if err := c.Connect(context.Background(), host, port); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer c.Disconnect()

	drainEvent(t, c, eventbus.Connected)

	select {
	case <-accepted:
	case <-time.After(time.Second):
		t.Fatal("server never accepted the connection")
	}

	if !c.IsConnected() {
		t.Error("expected IsConnected to be true")
	}
}

func TestConnectIdempotentForSameEndpoint(t *testing.T) {
	addr, accepted := startEchoListener(t)
	host, port := splitHostPort(t, addr)

	c := NewClient()
	if err := c.Connect(context.Background(), host, port); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer c.Disconnect()
	drainEvent(t, c, eventbus.Connected)
	<-accepted

	// Re-connecting to the same host:port must be a no-op: no second
	// Connected event, no second accepted connection.
	if err := c.Connect(context.Background(), host, port); err != nil {
		t.Fatalf("second Connect: %v", err)
	}

	select {
	case ev := <-c.Output():
		t.Fatalf("expected no event from the idempotent reconnect, got %+v", ev)
	case <-accepted:
		t.Fatal("expected no second accept from the idempotent reconnect")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestReadLoopEmitsServerInputLines(t *testing.T) {
	addr, accepted := startEchoListener(t)
	host, port := splitHostPort(t, addr)

	c := NewClient()
	if err := c.Connect(context.Background(), host, port); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer c.Disconnect()
	drainEvent(t, c, eventbus.Connected)

	conn := <-accepted
	conn.Write([]byte("Welcome to the realm.\r\n"))

	ev := drainEvent(t, c, eventbus.ServerInput)
	if ev.Text != "Welcome to the realm." {
		t.Errorf("unexpected line text: %q", ev.Text)
	}
	if ev.IsPrompt {
		t.Error("expected a terminated line, not a prompt")
	}
}

func TestDisconnectClosesConnection(t *testing.T) {
	addr, accepted := startEchoListener(t)
	host, port := splitHostPort(t, addr)

	c := NewClient()
	if err := c.Connect(context.Background(), host, port); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	drainEvent(t, c, eventbus.Connected)
	<-accepted

	c.Disconnect()
	if c.IsConnected() {
		t.Error("expected IsConnected to be false after Disconnect")
	}
}

func TestGMCPWillEmitsGMCPReadyOnce(t *testing.T) {
	addr, accepted := startEchoListener(t)
	host, port := splitHostPort(t, addr)

	c := NewClient()
	if err := c.Connect(context.Background(), host, port); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer c.Disconnect()
	drainEvent(t, c, eventbus.Connected)

	conn := <-accepted
	conn.Write([]byte{telnet.CmdIAC, telnet.CmdWILL, telnet.OptGMCP})
	conn.Write([]byte{telnet.CmdIAC, telnet.CmdWILL, telnet.OptGMCP})

	drainEvent(t, c, eventbus.GMCPReady)

	select {
	case ev := <-c.Output():
		t.Fatalf("expected GMCPReady to fire only once, got a second event %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSendWithoutConnectionErrors(t *testing.T) {
	c := NewClient()
	if err := c.Send("look"); err == nil {
		t.Fatal("expected an error sending without a connection")
	}
}

func TestStatsReportsConnectionState(t *testing.T) {
	addr, accepted := startEchoListener(t)
	host, port := splitHostPort(t, addr)

	c := NewClient()
	if s := c.Stats(); s.Connected {
		t.Fatal("expected Connected=false before connecting")
	}

	if err := c.Connect(context.Background(), host, port); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer c.Disconnect()
	drainEvent(t, c, eventbus.Connected)
	<-accepted

	if s := c.Stats(); !s.Connected {
		t.Error("expected Connected=true after connecting")
	}
}
