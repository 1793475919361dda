package session

import (
	"runtime"
	"testing"

	"github.com/mudshell/mudshell/internal/eventbus"
	"github.com/mudshell/mudshell/internal/ui"
)

// noopUI satisfies ui.UI for tests that exercise session code paths
// calling s.ui.Print without driving a real terminal.
type noopUI struct{}

func (*noopUI) Run() error                                    { return nil }
func (*noopUI) Quit()                                         {}
func (*noopUI) Done() <-chan struct{}                         { return nil }
func (*noopUI) Input() <-chan string                          { return nil }
func (*noopUI) Outbound() <-chan ui.Event                     { return nil }
func (*noopUI) Print(string)                                  {}
func (*noopUI) Echo(string)                                   {}
func (*noopUI) SetPrompt(string)                               {}
func (*noopUI) SetInput(string, int)                          {}
func (*noopUI) SetConnectionState(ui.ConnectionState, string) {}

func useTempDataDir(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("config dir redirection relies on XDG_DATA_HOME")
	}
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestSaveAndLoadHistory(t *testing.T) {
	useTempDataDir(t)

	s := &Session{}
	s.addHistory("look")
	s.addHistory("north")
	if err := s.SaveHistory(); err != nil {
		t.Fatalf("SaveHistory: %v", err)
	}

	reloaded := &Session{}
	reloaded.loadHistory()
	if len(reloaded.cliHistory) != 2 || reloaded.cliHistory[0] != "look" || reloaded.cliHistory[1] != "north" {
		t.Errorf("unexpected reloaded history: %v", reloaded.cliHistory)
	}
}

func TestHistoryCapped(t *testing.T) {
	useTempDataDir(t)

	s := &Session{}
	for i := 0; i < maxPersistedHistory+10; i++ {
		s.addHistory("cmd")
	}
	if len(s.cliHistory) != maxPersistedHistory {
		t.Errorf("expected history capped at %d, got %d", maxPersistedHistory, len(s.cliHistory))
	}
}

func TestLoadHistoryMissingFileIsEmpty(t *testing.T) {
	useTempDataDir(t)

	s := &Session{}
	s.loadHistory()
	if len(s.cliHistory) != 0 {
		t.Errorf("expected no history, got %v", s.cliHistory)
	}
}

func TestAddFindRemoveServer(t *testing.T) {
	useTempDataDir(t)

	ref := eventbus.ServerRef{Name: "myserver", Conn: eventbus.Connection{Host: "mud.example.org", Port: 4000}}
	s := &Session{ui: &noopUI{}}
	s.addServer(ref)

	servers, err := loadServers()
	if err != nil {
		t.Fatalf("loadServers: %v", err)
	}
	entry, ok := findServer(servers, "myserver")
	if !ok {
		t.Fatal("expected to find saved server")
	}
	if entry.Host != "mud.example.org" || entry.Port != 4000 {
		t.Errorf("unexpected entry: %+v", entry)
	}

	s.removeServerByName("myserver")
	servers, err = loadServers()
	if err != nil {
		t.Fatalf("loadServers: %v", err)
	}
	if _, ok := findServer(servers, "myserver"); ok {
		t.Error("expected server to be removed")
	}
}

func TestAddServerOverwritesSameName(t *testing.T) {
	useTempDataDir(t)

	s := &Session{ui: &noopUI{}}
	s.addServer(eventbus.ServerRef{Name: "myserver", Conn: eventbus.Connection{Host: "old.example.org", Port: 1}})
	s.addServer(eventbus.ServerRef{Name: "myserver", Conn: eventbus.Connection{Host: "new.example.org", Port: 2}})

	servers, err := loadServers()
	if err != nil {
		t.Fatalf("loadServers: %v", err)
	}
	if len(servers) != 1 {
		t.Fatalf("expected exactly 1 server entry, got %d", len(servers))
	}
	if servers[0].Host != "new.example.org" {
		t.Errorf("expected the newer entry to win, got %+v", servers[0])
	}
}
