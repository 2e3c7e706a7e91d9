package tui

import (
	"fmt"
	"io"
)

// fallbackCommands are the non-interactive equivalents of each screen.
var fallbackCommands = []struct {
	cmd, desc string
}{
	{"safewatch accounts", "list accounts"},
	{"safewatch select <id>", "choose an account"},
	{"safewatch status", "dashboard summary"},
	{"safewatch alerts --all", "alert history"},
	{"safewatch contacts list", "emergency contacts"},
	{"safewatch send --type T --severity S --location L", "send an emergency alert"},
}

// runFallback handles non-TTY execution by pointing at the CLI commands.
func runFallback(w io.Writer) error {
	fmt.Fprintln(w, "Non-TTY environment detected.")
	fmt.Fprintln(w, "Use the non-interactive commands instead:")
	for _, c := range fallbackCommands {
		fmt.Fprintf(w, "  %-52s %s\n", c.cmd, c.desc)
	}
	return nil
}
