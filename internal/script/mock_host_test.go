package script

import (
	"sync"
	"time"
)

var _ Host = (*MockHost)(nil)

// MockHost implements Host for tests, capturing every call instead of
// acting on it.
type MockHost struct {
	mu sync.Mutex

	OutputCalls     []string
	SendCalls       []string
	SendGMCPCalls   []string
	QuitCalled      bool
	ConnectCalls    []string
	DisconnectCalls int

	nextTimerID     int
	ScheduledTimers []struct {
		ID     int
		D      time.Duration
		Repeat bool
	}
	CancelledTimers []int
	CancelAllCalled int

	Cols, Rows int
}

func NewMockHost() *MockHost {
	return &MockHost{Cols: 80, Rows: 24}
}

func (m *MockHost) Output(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OutputCalls = append(m.OutputCalls, text)
}

func (m *MockHost) Send(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendCalls = append(m.SendCalls, text)
}

func (m *MockHost) SendGMCP(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendGMCPCalls = append(m.SendGMCPCalls, msg)
}

func (m *MockHost) RequestConnect(host string, port int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConnectCalls = append(m.ConnectCalls, host)
	_ = port
}

func (m *MockHost) RequestDisconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DisconnectCalls++
}

func (m *MockHost) RequestQuit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QuitCalled = true
}

func (m *MockHost) TerminalDimensions() (int, int) {
	return m.Cols, m.Rows
}

func (m *MockHost) ScheduleTimer(d time.Duration, repeat bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextTimerID++
	id := m.nextTimerID
	m.ScheduledTimers = append(m.ScheduledTimers, struct {
		ID     int
		D      time.Duration
		Repeat bool
	}{id, d, repeat})
	return id
}

func (m *MockHost) CancelTimer(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CancelledTimers = append(m.CancelledTimers, id)
}

func (m *MockHost) CancelAllTimers() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CancelAllCalled++
}

func (m *MockHost) DrainOutput() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.OutputCalls
	m.OutputCalls = nil
	return out
}

func (m *MockHost) DrainSend() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.SendCalls
	m.SendCalls = nil
	return out
}
