package session

import (
	"testing"

	"github.com/mudshell/mudshell/internal/eventbus"
)

func TestParseCommandPlainTextIsServerInput(t *testing.T) {
	ev := ParseCommand("look")
	if ev.Type != eventbus.ServerInput || ev.Text != "look" {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestParseCommandEmptyIsServerInput(t *testing.T) {
	ev := ParseCommand("")
	if ev.Type != eventbus.ServerInput || ev.Text != "" {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestParseConnectHostPort(t *testing.T) {
	ev := ParseCommand("/connect mud.example.org 4000")
	if ev.Type != eventbus.Connect {
		t.Fatalf("expected Connect event, got %+v", ev)
	}
	if ev.Conn.Host != "mud.example.org" || ev.Conn.Port != 4000 || ev.Conn.TLS {
		t.Errorf("unexpected connection: %+v", ev.Conn)
	}
}

func TestParseConnectWithTLS(t *testing.T) {
	ev := ParseCommand("/connect mud.example.org 4000 tls")
	if !ev.Conn.TLS {
		t.Error("expected TLS to be set")
	}
}

func TestParseConnectSavedName(t *testing.T) {
	ev := ParseCommand("/connect myserver")
	if ev.Type != eventbus.LoadServer || ev.Server.Name != "myserver" {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestParseConnectNoArgsIsUsage(t *testing.T) {
	ev := ParseCommand("/connect")
	if ev.Type != eventbus.Info {
		t.Fatalf("expected a usage Info event, got %+v", ev)
	}
}

func TestParseConnectBadPort(t *testing.T) {
	ev := ParseCommand("/connect mud.example.org notaport")
	if ev.Type != eventbus.Error {
		t.Fatalf("expected an Error event for a bad port, got %+v", ev)
	}
}

func TestParseDisconnectAliases(t *testing.T) {
	for _, cmd := range []string{"/disconnect", "/dc"} {
		if ev := ParseCommand(cmd); ev.Type != eventbus.Disconnect {
			t.Errorf("%s: expected Disconnect, got %+v", cmd, ev)
		}
	}
}

func TestParseReconnectAliases(t *testing.T) {
	for _, cmd := range []string{"/reconnect", "/rc"} {
		if ev := ParseCommand(cmd); ev.Type != eventbus.Reconnect {
			t.Errorf("%s: expected Reconnect, got %+v", cmd, ev)
		}
	}
}

func TestParseAddServer(t *testing.T) {
	ev := ParseCommand("/add_server myserver mud.example.org 4000")
	if ev.Type != eventbus.AddServer {
		t.Fatalf("expected AddServer, got %+v", ev)
	}
	if ev.Server.Name != "myserver" || ev.Server.Conn.Host != "mud.example.org" || ev.Server.Conn.Port != 4000 {
		t.Errorf("unexpected server ref: %+v", ev.Server)
	}
}

func TestParseAddServerMissingArgs(t *testing.T) {
	ev := ParseCommand("/add_server myserver")
	if ev.Type != eventbus.Info {
		t.Fatalf("expected usage Info event, got %+v", ev)
	}
}

func TestParseRemoveServer(t *testing.T) {
	ev := ParseCommand("/remove_server myserver")
	if ev.Type != eventbus.RemoveServer || ev.Server.Name != "myserver" {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestParseListServersAliases(t *testing.T) {
	for _, cmd := range []string{"/list_servers", "/ls"} {
		if ev := ParseCommand(cmd); ev.Type != eventbus.ListServers {
			t.Errorf("%s: expected ListServers, got %+v", cmd, ev)
		}
	}
}

func TestParseLoad(t *testing.T) {
	ev := ParseCommand("/load myscript.lua")
	if ev.Type != eventbus.LoadScript || ev.Text != "myscript.lua" {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestParseLoadMissingArg(t *testing.T) {
	ev := ParseCommand("/load")
	if ev.Type != eventbus.Info {
		t.Fatalf("expected usage Info event, got %+v", ev)
	}
}

func TestParseHelpDefaultsTopic(t *testing.T) {
	ev := ParseCommand("/help")
	if ev.Type != eventbus.ShowHelp || ev.Text != "help" {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestParseHelpWithTopic(t *testing.T) {
	ev := ParseCommand("/help aliases")
	if ev.Type != eventbus.ShowHelp || ev.Text != "aliases" {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestParseStartStopLogging(t *testing.T) {
	ev := ParseCommand("/start_log session1")
	if ev.Type != eventbus.StartLogging || ev.Text != "session1" {
		t.Errorf("unexpected event: %+v", ev)
	}
	ev = ParseCommand("/stop_log")
	if ev.Type != eventbus.StopLogging {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestParseSettings(t *testing.T) {
	ev := ParseCommand("/settings")
	if ev.Type != eventbus.ShowSettings {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestParseSetShowsOrToggles(t *testing.T) {
	ev := ParseCommand("/set echo")
	if ev.Type != eventbus.ShowSetting || ev.Text != "echo" {
		t.Errorf("unexpected event: %+v", ev)
	}

	ev = ParseCommand("/set echo off")
	if ev.Type != eventbus.ToggleSetting || ev.Setting.Key != "echo" || ev.Setting.Value != "off" {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestParseSetNoArgsIsUsage(t *testing.T) {
	ev := ParseCommand("/set")
	if ev.Type != eventbus.Info {
		t.Fatalf("expected usage Info event, got %+v", ev)
	}
}

func TestParseQuitAliases(t *testing.T) {
	for _, cmd := range []string{"/quit", "/q"} {
		if ev := ParseCommand(cmd); ev.Type != eventbus.Quit {
			t.Errorf("%s: expected Quit, got %+v", cmd, ev)
		}
	}
}

func TestParseUnknownCommandIsServerInput(t *testing.T) {
	ev := ParseCommand("/nosuchcommand arg")
	if ev.Type != eventbus.ServerInput || ev.Text != "/nosuchcommand arg" {
		t.Errorf("unexpected event: %+v", ev)
	}
}
