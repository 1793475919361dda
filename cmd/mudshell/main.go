// Command mudshell is a scriptable terminal MUD client: telnet/GMCP
// framing, an embedded Lua sandbox for aliases/triggers/timers/bindings,
// and a Bubble Tea terminal UI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mudshell/mudshell/internal/config"
	"github.com/mudshell/mudshell/internal/debug"
	"github.com/mudshell/mudshell/internal/network"
	"github.com/mudshell/mudshell/internal/session"
	"github.com/mudshell/mudshell/internal/ui/tui"
)

func main() {
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := network.NewClient()
	display := tui.New()

	sess := session.New(client, display, session.Config{
		ConfigDir:   config.Dir(),
		UserScripts: flag.Args(),
	})

	monitor := debug.NewMonitor(ctx, sess)
	monitor.Start()

	if err := sess.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
