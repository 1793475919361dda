package session

import (
	"strconv"
	"strings"

	"github.com/mudshell/mudshell/internal/eventbus"
)

// ParseCommand routes a submitted input line: a leading "/" names a CLI
// command, otherwise the text is plain server input. Usage errors come back
// as eventbus.Info/Error events rather than being sent to the server;
// unrecognized slash commands are returned as plain server input.
func ParseCommand(text string) eventbus.Event {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return eventbus.Event{Type: eventbus.ServerInput, Text: text}
	}

	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "/connect":
		return parseConnect(args)

	case "/disconnect", "/dc":
		return eventbus.Event{Type: eventbus.Disconnect}

	case "/reconnect", "/rc":
		return eventbus.Event{Type: eventbus.Reconnect}

	case "/add_server":
		return parseAddServer(args)

	case "/remove_server":
		if len(args) < 1 {
			return usage("/remove_server <name>")
		}
		return eventbus.Event{Type: eventbus.RemoveServer, Server: eventbus.ServerRef{Name: args[0]}}

	case "/list_servers", "/ls":
		return eventbus.Event{Type: eventbus.ListServers}

	case "/load":
		if len(args) < 1 {
			return usage("/load <path>")
		}
		return eventbus.Event{Type: eventbus.LoadScript, Text: args[0]}

	case "/help":
		topic := "help"
		if len(args) > 0 {
			topic = args[0]
		}
		return eventbus.Event{Type: eventbus.ShowHelp, Text: topic}

	case "/start_log":
		if len(args) < 1 {
			return usage("/start_log <name>")
		}
		return eventbus.Event{Type: eventbus.StartLogging, Text: args[0]}

	case "/stop_log":
		return eventbus.Event{Type: eventbus.StopLogging}

	case "/settings":
		return eventbus.Event{Type: eventbus.ShowSettings}

	case "/set":
		if len(args) == 0 {
			return usage("/set <setting> or /set <setting> <value>")
		}
		if len(args) == 1 {
			return eventbus.Event{Type: eventbus.ShowSetting, Text: args[0]}
		}
		return eventbus.Event{Type: eventbus.ToggleSetting, Setting: eventbus.Setting{Key: args[0], Value: args[1]}}

	case "/quit", "/q":
		return eventbus.Event{Type: eventbus.Quit}

	default:
		return eventbus.Event{Type: eventbus.ServerInput, Text: text}
	}
}

func parseConnect(args []string) eventbus.Event {
	switch len(args) {
	case 0:
		return usage("/connect <host> <port> | /connect <saved-name>")
	case 1:
		return eventbus.Event{Type: eventbus.LoadServer, Server: eventbus.ServerRef{Name: args[0]}}
	default:
		port, err := strconv.Atoi(args[1])
		if err != nil {
			return errorEvent("USAGE: /connect <host> <port: number>")
		}
		tls := len(args) > 2 && args[2] == "tls"
		return eventbus.Event{Type: eventbus.Connect, Conn: eventbus.Connection{Host: args[0], Port: port, TLS: tls}}
	}
}

func parseAddServer(args []string) eventbus.Event {
	if len(args) < 3 {
		return usage("/add_server <name> <host> <port>")
	}
	port, err := strconv.Atoi(args[2])
	if err != nil {
		return errorEvent("USAGE: /add_server <name> <host> <port: number>")
	}
	tls := len(args) > 3 && args[3] == "tls"
	return eventbus.Event{
		Type:   eventbus.AddServer,
		Server: eventbus.ServerRef{Name: args[0], Conn: eventbus.Connection{Host: args[1], Port: port, TLS: tls}},
	}
}

func usage(msg string) eventbus.Event {
	return eventbus.Event{Type: eventbus.Info, Text: "USAGE: " + msg}
}

func errorEvent(msg string) eventbus.Event {
	return eventbus.Event{Type: eventbus.Error, Text: msg}
}
