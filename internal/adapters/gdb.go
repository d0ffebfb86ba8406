package adapters

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/bradphelan/code-dbg/internal/config"
	"github.com/bradphelan/code-dbg/internal/dap"
	"github.com/bradphelan/code-dbg/internal/launchconfig"
	"github.com/bradphelan/code-dbg/pkg/types"
)

// GDBAdapter drives GDB's native DAP support via --interpreter=dap.
// Requires GDB 14.1 or later. Selected on Linux and any platform without
// a more specific backend.
type GDBAdapter struct {
	gdbPath string
}

// NewGDBAdapter creates a new GDB adapter
func NewGDBAdapter(cfg config.GDBConfig) *GDBAdapter {
	path := cfg.Path
	if path == "" {
		path = "gdb"
	}

	return &GDBAdapter{
		gdbPath: path,
	}
}

// Backend returns the backend this adapter drives
func (g *GDBAdapter) Backend() types.Backend {
	return types.BackendGDB
}

// Spawn starts GDB in DAP mode and returns a DAP client connected via stdin/stdout
func (g *GDBAdapter) Spawn(ctx context.Context, cfg *launchconfig.DebugConfiguration) (*dap.Client, *exec.Cmd, error) {
	gdbArgs := []string{
		"--interpreter=dap",
		// Quiet mode suppresses startup messages that would corrupt the DAP stream
		"--quiet",
	}

	//nolint:gosec // G204: spawning the debug adapter is the point
	cmd := exec.CommandContext(ctx, g.gdbPath, gdbArgs...)
	cmd.Env = os.Environ()

	// Set platform-specific process attributes (procattr_unix.go / procattr_windows.go)
	setProcAttr(cmd)

	if cfg.Cwd != "" {
		cmd.Dir = cfg.Cwd
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		_ = stdin.Close()
		return nil, nil, fmt.Errorf("failed to get stdout pipe: %w", err)
	}

	// Capture stderr for diagnostics
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		_ = stdout.Close()
		return nil, nil, fmt.Errorf("failed to start gdb: %w", err)
	}

	transport := dap.NewStdioTransport(stdin, stdout)
	client := dap.NewClient(transport, nil)

	return client, cmd, nil
}

// BuildLaunchArgs builds the launch arguments for GDB DAP
func (g *GDBAdapter) BuildLaunchArgs(cfg *launchconfig.DebugConfiguration) map[string]interface{} {
	launchArgs := map[string]interface{}{
		"program":     cfg.Program,
		"args":        cfg.Args,
		"stopOnEntry": cfg.StopAtEntry,
	}

	if cfg.Cwd != "" {
		launchArgs["cwd"] = cfg.Cwd
	}

	// GDB DAP expects the environment in object form
	if len(cfg.Environment) > 0 {
		launchArgs["env"] = envMap(cfg)
	}

	return launchArgs
}
