// Package encoder implements the request side of code-dbg: building a
// launch request from CLI input, encoding it into a launch URL, and
// handing the URL to the editor's command-line entry point.
package encoder

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/bradphelan/code-dbg/internal/channel"
	"github.com/bradphelan/code-dbg/internal/launch"
	"github.com/bradphelan/code-dbg/pkg/types"
)

// RunFunc executes an external command. Injectable so tests can assert
// the dispatch arguments without spawning anything.
type RunFunc func(name string, args ...string) error

// defaultRun executes the command for real, inheriting stdio.
func defaultRun(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// BuildRequest constructs a launch request from caller-supplied values.
// An empty cwd defaults to the current directory; cwd is always made
// absolute. Args may be empty but never nil. An absolute exe that does
// not exist is rejected here, before anything is encoded; a relative exe
// is left for the handler to resolve against cwd.
func BuildRequest(exe string, args []string, cwd string) (*types.LaunchRequest, error) {
	if exe == "" {
		return nil, fmt.Errorf("executable path must not be empty")
	}

	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("could not determine working directory: %w", err)
		}
		cwd = wd
	}
	absCwd, err := filepath.Abs(cwd)
	if err != nil {
		return nil, fmt.Errorf("could not resolve working directory: %w", err)
	}

	if filepath.IsAbs(exe) {
		if _, err := os.Stat(exe); err != nil {
			return nil, fmt.Errorf("executable not found: %s", exe)
		}
	}

	if args == nil {
		args = []string{}
	}

	return &types.LaunchRequest{
		Exe:  exe,
		Args: args,
		Cwd:  absCwd,
	}, nil
}

// EncodeURL builds the launch URL for a request on the given channel.
func EncodeURL(ch channel.Channel, req *types.LaunchRequest) (string, error) {
	return launch.BuildURL(ch.Scheme(), req)
}

// Dispatch asks the editor to open the launch URL. Fire and forget: the
// handler inside the editor takes over from here.
func Dispatch(ch channel.Channel, url string, run RunFunc) error {
	if run == nil {
		run = defaultRun
	}
	if err := run(ch.LauncherCommand(), "--open-url", url); err != nil {
		return fmt.Errorf("failed to launch %s: %w", ch.LauncherCommand(), err)
	}
	return nil
}
