// Command code-dbg launches a native debugger session in VS Code from a
// terminal, without a per-project launch.json.
//
// Usage:
//
//	code-dbg [flags] -- <exe> [arg...]
//
// The -- separator is mandatory so that flags belonging to the target
// executable are never parsed as code-dbg's own.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/bradphelan/code-dbg/internal/channel"
	"github.com/bradphelan/code-dbg/internal/encoder"
	"github.com/bradphelan/code-dbg/internal/version"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		cwd      string
		insiders bool
		urlOnly  bool
	)

	rootCmd := &cobra.Command{
		Use:   "code-dbg [flags] -- <exe> [arg...]",
		Short: "Launch the VS Code debugger from a terminal",
		Long: `code-dbg starts a native debugger session in VS Code against an arbitrary
executable, without a launch.json. It encodes the target, its arguments,
and the working directory into a vscode:// URL and asks the editor to
open it; the code-dbg extension inside the editor does the rest.

Examples:
  code-dbg -- ./myapp --verbose --config=file.conf
  code-dbg --cwd=/path/to/wd -- /usr/local/bin/myapp arg1 arg2
  code-dbg --insiders -- ./app
  code-dbg --url-only -- ./app`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The update check runs concurrently with the launch and is
			// collected at the end, so it never delays the URL dispatch.
			updateCh := checkForUpdates(cmd.Context())

			// Everything before -- is ours; everything after belongs to
			// the target. Without the separator the boundary is ambiguous.
			if cmd.ArgsLenAtDash() < 0 {
				return fmt.Errorf("missing '--' separator\nUsage: code-dbg [flags] -- <exe> [arg...]")
			}
			target := args[cmd.ArgsLenAtDash():]
			if len(target) == 0 {
				return fmt.Errorf("no executable given after '--'")
			}

			ch := channel.Stable
			if insiders {
				ch = channel.Insiders
			} else {
				detected, err := channel.Detect(os.LookupEnv)
				if err != nil {
					return err
				}
				ch = detected
			}

			req, err := encoder.BuildRequest(target[0], target[1:], cwd)
			if err != nil {
				return err
			}

			url, err := encoder.EncodeURL(ch, req)
			if err != nil {
				return err
			}

			// Always print the URL: useful for logging and lets the user
			// open it by hand if dispatch fails.
			fmt.Fprintln(cmd.OutOrStdout(), url)

			if urlOnly {
				return nil
			}

			if err := encoder.Dispatch(ch, url, nil); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Launching debugger for: %s\n", filepath.Base(req.Exe))

			notifyUpdate(updateCh, cmd.ErrOrStderr())
			return nil
		},
	}

	rootCmd.Flags().StringVar(&cwd, "cwd", "", "working directory for the process (defaults to the current directory)")
	rootCmd.Flags().BoolVar(&insiders, "insiders", false, "target VS Code Insiders instead of auto-detecting the channel")
	rootCmd.Flags().BoolVar(&urlOnly, "url-only", false, "print the launch URL without opening VS Code")

	return rootCmd
}

// checkForUpdates starts a background release check and returns the
// channel the result arrives on.
func checkForUpdates(ctx context.Context) <-chan *version.UpdateInfo {
	ch := make(chan *version.UpdateInfo, 1)
	go func() {
		checkCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		ch <- version.NewChecker().CheckForUpdates(checkCtx)
	}()
	return ch
}

// notifyUpdate prints the once-per-release update message if the check
// finished in time. A slow or failed check is dropped silently rather
// than holding up the shell.
func notifyUpdate(updateCh <-chan *version.UpdateInfo, w io.Writer) {
	select {
	case info := <-updateCh:
		cache, err := version.NewCache("")
		if err != nil {
			return
		}
		version.NotifyOnce(info, cache, w)
	case <-time.After(250 * time.Millisecond):
	}
}
