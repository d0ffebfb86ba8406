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

// VSDbgAdapter drives the native Microsoft-toolchain debugger (vsdbg)
// over its DAP interpreter. Selected on Windows.
type VSDbgAdapter struct {
	vsdbgPath string
}

// NewVSDbgAdapter creates a new vsdbg adapter
func NewVSDbgAdapter(cfg config.VSDbgConfig) *VSDbgAdapter {
	path := cfg.Path
	if path == "" {
		path = "vsdbg"
	}

	return &VSDbgAdapter{
		vsdbgPath: path,
	}
}

// Backend returns the backend this adapter drives
func (v *VSDbgAdapter) Backend() types.Backend {
	return types.BackendVSDbg
}

// Spawn starts vsdbg and returns a DAP client connected via stdin/stdout
func (v *VSDbgAdapter) Spawn(ctx context.Context, cfg *launchconfig.DebugConfiguration) (*dap.Client, *exec.Cmd, error) {
	//nolint:gosec // G204: spawning the debug adapter is the point
	cmd := exec.CommandContext(ctx, v.vsdbgPath, "--interpreter=vscode")
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
		return nil, nil, fmt.Errorf("failed to start vsdbg: %w", err)
	}

	transport := dap.NewStdioTransport(stdin, stdout)
	client := dap.NewClient(transport, nil)

	return client, cmd, nil
}

// BuildLaunchArgs builds the launch arguments for vsdbg
func (v *VSDbgAdapter) BuildLaunchArgs(cfg *launchconfig.DebugConfiguration) map[string]interface{} {
	launchArgs := map[string]interface{}{
		"program":     cfg.Program,
		"args":        cfg.Args,
		"stopAtEntry": cfg.StopAtEntry,
	}

	if cfg.Cwd != "" {
		launchArgs["cwd"] = cfg.Cwd
	}

	// vsdbg expects the environment as name/value objects
	if len(cfg.Environment) > 0 {
		launchArgs["environment"] = cfg.Environment
	}

	return launchArgs
}
