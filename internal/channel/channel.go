// Package channel detects which release track of VS Code a terminal
// belongs to. The track decides both the URL scheme of the launch URL and
// the launcher command used to dispatch it.
package channel

import (
	"strings"

	"github.com/bradphelan/code-dbg/internal/errors"
)

// Channel is the VS Code release track hosting the current terminal.
type Channel string

const (
	Stable   Channel = "stable"
	Insiders Channel = "insiders"
)

// Scheme returns the URL scheme the host application registers for this channel.
func (c Channel) Scheme() string {
	if c == Insiders {
		return "vscode-insiders"
	}
	return "vscode"
}

// LauncherCommand returns the command-line entry point used to open URLs.
func (c Channel) LauncherCommand() string {
	if c == Insiders {
		return "code-insiders"
	}
	return "code"
}

// LookupFunc looks up an environment variable, os.LookupEnv-shaped.
type LookupFunc func(key string) (string, bool)

// Detect inspects the process environment to determine whether we are
// running inside a terminal hosted by VS Code, and which channel. VS Code
// sets TERM_PROGRAM=vscode in its integrated terminal; the Insiders build
// additionally carries an "-insider" suffix in TERM_PROGRAM_VERSION.
// Running outside a VS Code terminal is a user error, reported as
// ChannelNotDetected.
func Detect(lookup LookupFunc) (Channel, error) {
	termProgram, ok := lookup("TERM_PROGRAM")
	if !ok || termProgram != "vscode" {
		return "", errors.ChannelNotDetected()
	}

	if version, ok := lookup("TERM_PROGRAM_VERSION"); ok && strings.Contains(version, "insider") {
		return Insiders, nil
	}
	return Stable, nil
}
