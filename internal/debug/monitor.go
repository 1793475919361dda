// Package debug provides runtime monitoring and diagnostics.
package debug

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/mudshell/mudshell/internal/session"
)

// Enabled returns true if debug mode is active (MUDSHELL_DEBUG=1).
func Enabled() bool {
	return os.Getenv("MUDSHELL_DEBUG") == "1"
}

// Monitor periodically logs session statistics when debug mode is enabled.
type Monitor struct {
	session  *session.Session
	interval time.Duration
	ctx      context.Context
	logger   *log.Logger
}

// NewMonitor creates a monitor for s, or nil if debug mode is not enabled.
func NewMonitor(ctx context.Context, s *session.Session) *Monitor {
	if !Enabled() {
		return nil
	}
	return &Monitor{
		session:  s,
		interval: 5 * time.Second,
		ctx:      ctx,
		logger:   log.New(os.Stderr, "", log.LstdFlags),
	}
}

// Start begins the monitoring loop in a goroutine.
func (m *Monitor) Start() {
	if m == nil {
		return
	}
	go m.run()
}

func (m *Monitor) run() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.logger.Println("[debug] monitor started")
	for {
		select {
		case <-m.ctx.Done():
			m.logger.Println("[debug] monitor stopped")
			return
		case <-ticker.C:
			m.logStats()
		}
	}
}

func (m *Monitor) logStats() {
	s := m.session.Stats()

	lastRead := "never"
	if !s.Network.LastReadTime.IsZero() {
		lastRead = time.Since(s.Network.LastReadTime).Round(time.Second).String() + " ago"
	}

	m.logger.Printf(
		"[debug] events=%d evtQ=%d/%d goroutines=%d | net: conn=%v read=%d written=%d lines=%d lastRead=%s outQ=%d/%d sendQ=%d/%d | timers=%d",
		s.EventsProcessed,
		s.EventQueueLen, s.EventQueueCap,
		s.Goroutines,
		s.Network.Connected,
		s.Network.BytesRead,
		s.Network.BytesWritten,
		s.Network.LinesEmitted,
		lastRead,
		s.Network.OutputQueueLen, s.Network.OutputQueueCap,
		s.Network.SendQueueLen, s.Network.SendQueueCap,
		s.Timers,
	)
}
