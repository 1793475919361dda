// Package network owns the TCP connection lifecycle: dialing, the
// blocking reader/writer goroutines, and translating telnet events into
// session-level events.
package network

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mudshell/mudshell/internal/buffer"
	"github.com/mudshell/mudshell/internal/eventbus"
	"github.com/mudshell/mudshell/internal/telnet"
)

const (
	outputInitialCap = 256
	outputHardLimit  = 50000
)

// Stats holds network statistics for the debug monitor.
type Stats struct {
	Connected      bool
	BytesRead      uint64
	BytesWritten   uint64
	LinesEmitted   uint64
	LastReadTime   time.Time
	SendQueueLen   int
	SendQueueCap   int
	OutputQueueLen int
	OutputQueueCap int
}

// Client manages the lifecycle of TCP connections. It exposes a stable
// output channel to the session regardless of how many times Connect is
// called.
type Client struct {
	outputIn  chan<- eventbus.Event
	outputOut <-chan eventbus.Event

	mu      sync.Mutex
	current *connection

	bytesRead    atomic.Uint64
	bytesWritten atomic.Uint64
	linesEmitted atomic.Uint64
	lastReadTime atomic.Int64
}

// connection is a single, ephemeral TCP session. Created on Connect,
// discarded on Disconnect.
type connection struct {
	conn   net.Conn
	host   string
	port   int
	parser *telnet.Parser
	output *telnet.OutputBuffer

	willEOR atomic.Bool
	willSGA atomic.Bool

	localEcho atomic.Bool
	gmcpReady atomic.Bool

	sendQueue chan string
	done      chan struct{}
	closeOnce sync.Once
}

// NewClient creates a new, disconnected client.
func NewClient() *Client {
	in, out := buffer.Unbounded[eventbus.Event](outputInitialCap, outputHardLimit)
	return &Client{outputIn: in, outputOut: out}
}

// Stats returns current network statistics.
func (c *Client) Stats() Stats {
	c.mu.Lock()
	cx := c.current
	var sendQLen, sendQCap int
	if cx != nil {
		sendQLen = len(cx.sendQueue)
		sendQCap = cap(cx.sendQueue)
	}
	c.mu.Unlock()

	lastRead := time.Unix(0, c.lastReadTime.Load())
	if lastRead.Unix() == 0 {
		lastRead = time.Time{}
	}

	return Stats{
		Connected:      cx != nil,
		BytesRead:      c.bytesRead.Load(),
		BytesWritten:   c.bytesWritten.Load(),
		LinesEmitted:   c.linesEmitted.Load(),
		LastReadTime:   lastRead,
		SendQueueLen:   sendQLen,
		SendQueueCap:   sendQCap,
		// The real queue lives inside the buffer.Unbounded goroutine and
		// isn't directly inspectable; len(outputOut) only reflects its small
		// outlet channel, and the cap reported is the safety-valve hard
		// limit rather than a hard channel capacity.
		OutputQueueLen: len(c.outputOut),
		OutputQueueCap: outputHardLimit,
	}
}

// Endpoint reports the host/port of the active connection, if any.
func (c *Client) Endpoint() (host string, port int, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return "", 0, false
	}
	return c.current.host, c.current.port, true
}

// Connect establishes a new connection. Idempotent: a call naming the
// same host:port as the active connection is a no-op (spec.md §4.2,
// §8 "Connect idempotence").
func (c *Client) Connect(ctx context.Context, host string, port int) error {
	c.mu.Lock()
	if c.current != nil && c.current.host == host && c.current.port == port {
		c.mu.Unlock()
		return nil
	}
	if c.current != nil {
		c.current.close()
	}
	c.mu.Unlock()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return err
	}

	if tcpConn, ok := conn.(*net.TCPConn); ok {
		tcpConn.SetKeepAlive(true)
		tcpConn.SetKeepAlivePeriod(30 * time.Second)
	}

	cx := &connection{
		conn:      conn,
		host:      host,
		port:      port,
		parser:    telnet.NewParser(telnet.DefaultCompatibility()),
		output:    telnet.NewOutputBuffer(),
		sendQueue: make(chan string, 4096),
		done:      make(chan struct{}),
	}
	cx.localEcho.Store(true)

	c.mu.Lock()
	c.bytesRead.Store(0)
	c.bytesWritten.Store(0)
	c.linesEmitted.Store(0)
	c.lastReadTime.Store(0)
	c.current = cx
	c.mu.Unlock()

	go c.readLoop(cx)
	go c.writeLoop(cx)

	select {
	case c.outputIn <- eventbus.Event{Type: eventbus.Connected}:
	case <-cx.done:
	}

	return nil
}

// Disconnect closes the active connection, if any. Safe to call while
// not connected.
func (c *Client) Disconnect() {
	c.mu.Lock()
	cx := c.current
	c.current = nil
	c.mu.Unlock()

	if cx != nil {
		cx.close()
	}
}

// Send queues outbound data, CRLF-terminated and IAC-escaped.
func (c *Client) Send(data string) error {
	c.mu.Lock()
	cx := c.current
	c.mu.Unlock()

	if cx == nil {
		return fmt.Errorf("network: not connected")
	}

	select {
	case cx.sendQueue <- data:
		return nil
	default:
		return fmt.Errorf("network: send buffer full")
	}
}

// SendGMCP sends a GMCP subnegotiation, if the option is enabled.
func (c *Client) SendGMCP(msgType, body string) error {
	c.mu.Lock()
	cx := c.current
	c.mu.Unlock()
	if cx == nil {
		return fmt.Errorf("network: not connected")
	}

	entry := cx.parser.Options.Get(telnet.OptGMCP)
	if !entry.Local || !entry.LocalState {
		return fmt.Errorf("network: GMCP not negotiated")
	}

	payload := telnet.EscapeIAC(telnet.EncodeGMCP(msgType, body))
	buf := make([]byte, 0, 3+len(payload)+2)
	buf = append(buf, telnet.CmdIAC, telnet.CmdSB, telnet.OptGMCP)
	buf = append(buf, payload...)
	buf = append(buf, telnet.CmdIAC, telnet.CmdSE)

	select {
	case cx.sendQueue <- string(buf):
		return nil
	default:
		return fmt.Errorf("network: send buffer full")
	}
}

// Output returns the stable event channel the session drains.
func (c *Client) Output() <-chan eventbus.Event {
	return c.outputOut
}

// IsConnected reports whether there is an active connection.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}

// LocalEchoEnabled reports whether the client should echo typed input
// locally. Defaults to true when disconnected.
func (c *Client) LocalEchoEnabled() bool {
	c.mu.Lock()
	cx := c.current
	c.mu.Unlock()
	if cx == nil {
		return true
	}
	return cx.localEcho.Load()
}

// --- worker routines ---

func (c *Client) readLoop(cx *connection) {
	buf := make([]byte, 4096)

	// sendQueue carries both plain outbound data (CRLF-terminated below)
	// and pre-framed telnet subnegotiations (GMCP); we distinguish by
	// whether the string already begins with IAC.
	for {
		n, err := cx.conn.Read(buf)
		if err != nil {
			c.mu.Lock()
			isCurrent := c.current == cx
			if isCurrent {
				c.current = nil
			}
			c.mu.Unlock()

			if isCurrent {
				select {
				case c.outputIn <- eventbus.Event{Type: eventbus.Disconnected}:
				case <-cx.done:
				}
				cx.shutdown()
			}
			return
		}
		if n == 0 {
			continue
		}

		c.bytesRead.Add(uint64(n))
		c.lastReadTime.Store(time.Now().UnixNano())

		for _, ev := range cx.parser.Receive(buf[:n]) {
			switch ev.Kind {
			case telnet.EventDataSend:
				cx.conn.SetWriteDeadline(time.Now().Add(time.Second))
				written, werr := cx.conn.Write(ev.Data)
				cx.conn.SetWriteDeadline(time.Time{})
				if werr != nil {
					return
				}
				c.bytesWritten.Add(uint64(written))

			case telnet.EventDataReceive:
				lines := cx.output.Receive(ev.Data)
				for _, l := range lines {
					c.linesEmitted.Add(1)
					select {
					case c.outputIn <- eventbus.Event{Type: eventbus.ServerInput, Text: l}:
					case <-cx.done:
						return
					}
				}
				if !cx.telnetModeTerminated() {
					if prompt := cx.output.Prompt(false); prompt != "" {
						select {
						case c.outputIn <- eventbus.Event{Type: eventbus.ServerInput, Text: prompt, IsPrompt: true}:
						case <-cx.done:
							return
						}
					}
				}

			case telnet.EventIAC:
				if ev.Command == telnet.CmdGA || ev.Command == telnet.CmdEOR {
					if cx.output.HasNewData() {
						if prompt := cx.output.Prompt(true); prompt != "" {
							select {
							case c.outputIn <- eventbus.Event{Type: eventbus.ServerInput, Text: prompt, IsPrompt: true}:
							case <-cx.done:
								return
							}
						}
					} else {
						cx.output.Prompt(true)
					}
				}

			case telnet.EventNegotiation:
				cx.applyNegotiation(ev.Command, ev.Option)
				if ev.Option == telnet.OptGMCP && ev.Command == telnet.CmdWILL && cx.gmcpReady.CompareAndSwap(false, true) {
					select {
					case c.outputIn <- eventbus.Event{Type: eventbus.GMCPReady}:
					case <-cx.done:
						return
					}
				}

			case telnet.EventSubnegotiation:
				if ev.Option == telnet.OptGMCP {
					msg, perr := telnet.ParseGMCP(ev.Data)
					if perr != nil {
						select {
						case c.outputIn <- eventbus.Event{Type: eventbus.Error, Text: "gmcp: " + perr.Error()}:
						case <-cx.done:
							return
						}
						continue
					}
					select {
					case c.outputIn <- eventbus.Event{Type: eventbus.GMCPReceive, GMCPType: msg.Type, GMCPBody: msg.Body}:
					case <-cx.done:
						return
					}
				}
			}
		}
	}
}

func (c *Client) writeLoop(cx *connection) {
	for {
		select {
		case <-cx.done:
			return
		case data := <-cx.sendQueue:
			cx.output.Clear() // InputSent: unterminated prompts are reprinted by the server's echo
			var payload []byte
			if len(data) > 0 && data[0] == telnet.CmdIAC {
				payload = []byte(data)
			} else {
				payload = append(telnet.EscapeIAC([]byte(data)), '\r', '\n')
			}

			cx.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			n, err := cx.conn.Write(payload)
			cx.conn.SetWriteDeadline(time.Time{})
			if err != nil {
				cx.conn.Close()
				return
			}
			c.bytesWritten.Add(uint64(n))
		}
	}
}

func (cx *connection) close() {
	cx.conn.Close()
	cx.shutdown()
}

func (cx *connection) shutdown() {
	cx.closeOnce.Do(func() { close(cx.done) })
}

func (cx *connection) applyNegotiation(cmd, opt byte) {
	switch opt {
	case telnet.OptEcho:
		switch cmd {
		case telnet.CmdWILL:
			cx.localEcho.Store(false)
		case telnet.CmdWONT, telnet.CmdDONT, telnet.CmdDO:
			cx.localEcho.Store(true)
		}
	case telnet.OptEOR:
		switch cmd {
		case telnet.CmdWILL, telnet.CmdDO:
			cx.willEOR.Store(true)
		case telnet.CmdWONT, telnet.CmdDONT:
			cx.willEOR.Store(false)
		}
	case telnet.OptSGA:
		switch cmd {
		case telnet.CmdWILL, telnet.CmdDO:
			cx.willSGA.Store(true)
		case telnet.CmdWONT, telnet.CmdDONT:
			cx.willSGA.Store(false)
		}
	}
}

func (cx *connection) telnetModeTerminated() bool {
	return cx.willEOR.Load() || cx.willSGA.Load()
}
