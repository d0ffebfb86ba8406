// Command code-dbg-host is the handler the operating system invokes for
// vscode://bradphelan.code-dbg/launch URLs when code-dbg runs without an
// editor. It decodes the launch request, starts the matching debugger
// backend, and auto-resumes the session once the backend reports it
// active.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bradphelan/code-dbg/internal/config"
	"github.com/bradphelan/code-dbg/internal/coordinator"
	"github.com/bradphelan/code-dbg/internal/host"
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
		configPath string
		verbose    bool
	)

	rootCmd := &cobra.Command{
		Use:           "code-dbg-host <launch-url>",
		Short:         "Handle a code-dbg launch URL",
		Args:          cobra.ExactArgs(1),
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logrus.New()
			log.SetOutput(os.Stderr)
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			runtime := host.NewRuntime(cfg, log)
			defer runtime.Close()

			coord := coordinator.New(runtime, coordinator.Options{
				Notifier:    &stderrNotifier{},
				Logger:      log,
				AttachDelay: time.Duration(cfg.AttachDelay),
			})

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			if err := coord.HandleURL(ctx, args[0]); err != nil {
				return err
			}

			// Stay alive until the session ends or we are interrupted;
			// the auto-continue listener needs the process around.
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case <-runtime.Done():
				log.Info("all sessions terminated, shutting down")
			case sig := <-sigCh:
				log.WithField("signal", sig).Info("shutting down")
			}

			return nil
		},
	}

	rootCmd.Flags().StringVar(&configPath, "config", "", "path to configuration file (JSON)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	return rootCmd
}

// stderrNotifier surfaces notifications on standard error; a real editor
// host would show toast popups instead.
type stderrNotifier struct{}

func (stderrNotifier) Info(msg string)  { fmt.Fprintln(os.Stderr, msg) }
func (stderrNotifier) Error(msg string) { fmt.Fprintln(os.Stderr, "Error:", msg) }
