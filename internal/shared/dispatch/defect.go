// Package dispatch routes commands and view queries to handlers registered once at startup.
package dispatch

import "fmt"

// ResolutionDefect reports a dispatch for which no handler was registered. It is a programming
// error and is raised with panic, never returned to request handlers.
type ResolutionDefect struct {
	Command CommandKind
	Input   InputKind
	View    ViewKind
}

// Error implements the error interface.
func (d *ResolutionDefect) Error() string {
	if d.Command != "" {
		return fmt.Sprintf("dispatch: no handler registered for command %q", d.Command)
	}
	return fmt.Sprintf("dispatch: no handler registered for input %q producing view %q", d.Input, d.View)
}
