package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mudshell/mudshell/internal/config"
	"github.com/mudshell/mudshell/internal/eventbus"
)

const maxPersistedHistory = 1000

// historyFile is the on-disk shape of history.json. The original client
// persisted history as Rust Object Notation (.ron); no RON encoder exists
// anywhere in this module's dependency set, so persistence here uses
// encoding/json instead — the same substitution SPEC_FULL.md documents for
// servers.json.
type historyFile struct {
	Lines []string `json:"lines"`
}

// serverEntry is one bookmarked connection.
type serverEntry struct {
	Name string `json:"name"`
	Host string `json:"host"`
	Port int    `json:"port"`
	TLS  bool   `json:"tls"`
}

type serversFile struct {
	Servers []serverEntry `json:"servers"`
}

func (s *Session) addHistory(text string) {
	s.cliHistory = append(s.cliHistory, text)
	if len(s.cliHistory) > maxPersistedHistory {
		s.cliHistory = s.cliHistory[len(s.cliHistory)-maxPersistedHistory:]
	}
}

func (s *Session) loadHistory() {
	data, err := os.ReadFile(config.HistoryFile())
	if err != nil {
		return
	}
	var hf historyFile
	if json.Unmarshal(data, &hf) != nil {
		return
	}
	s.cliHistory = hf.Lines
}

// SaveHistory persists CLI history to history.json, called on clean exit.
func (s *Session) SaveHistory() error {
	path := config.HistoryFile()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(historyFile{Lines: s.cliHistory}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func loadServers() ([]serverEntry, error) {
	data, err := os.ReadFile(config.ServersFile())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var sf serversFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, err
	}
	return sf.Servers, nil
}

func saveServers(servers []serverEntry) error {
	path := config.ServersFile()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(serversFile{Servers: servers}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func findServer(servers []serverEntry, name string) (serverEntry, bool) {
	for _, e := range servers {
		if e.Name == name {
			return e, true
		}
	}
	return serverEntry{}, false
}

func removeServer(servers []serverEntry, name string) []serverEntry {
	out := servers[:0]
	for _, e := range servers {
		if e.Name != name {
			out = append(out, e)
		}
	}
	return out
}

func (s *Session) loadServerByName(name string) {
	servers, err := loadServers()
	if err != nil {
		s.ui.Print(fmt.Sprintf("\033[31m[error] %s\033[0m", err))
		return
	}
	entry, ok := findServer(servers, name)
	if !ok {
		s.ui.Print(fmt.Sprintf("\033[31m[error] no saved server named %q\033[0m", name))
		return
	}
	s.connect(entry.Host, entry.Port)
}

func (s *Session) addServer(ref eventbus.ServerRef) {
	servers, err := loadServers()
	if err != nil {
		s.ui.Print(fmt.Sprintf("\033[31m[error] %s\033[0m", err))
		return
	}
	servers = removeServer(servers, ref.Name)
	servers = append(servers, serverEntry{Name: ref.Name, Host: ref.Conn.Host, Port: ref.Conn.Port, TLS: ref.Conn.TLS})
	if err := saveServers(servers); err != nil {
		s.ui.Print(fmt.Sprintf("\033[31m[error] %s\033[0m", err))
		return
	}
	s.ui.Print(fmt.Sprintf("\033[36m[info] saved %s\033[0m", ref.Name))
}

func (s *Session) removeServerByName(name string) {
	servers, err := loadServers()
	if err != nil {
		s.ui.Print(fmt.Sprintf("\033[31m[error] %s\033[0m", err))
		return
	}
	if err := saveServers(removeServer(servers, name)); err != nil {
		s.ui.Print(fmt.Sprintf("\033[31m[error] %s\033[0m", err))
	}
}

func (s *Session) listServers() {
	servers, err := loadServers()
	if err != nil {
		s.ui.Print(fmt.Sprintf("\033[31m[error] %s\033[0m", err))
		return
	}
	if len(servers) == 0 {
		s.ui.Print("\033[36m[info] no saved servers\033[0m")
		return
	}
	for _, e := range servers {
		s.ui.Print(fmt.Sprintf("\033[36m  %s -> %s:%d\033[0m", e.Name, e.Host, e.Port))
	}
}
