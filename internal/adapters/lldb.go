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

// LLDBAdapter drives LLDB via lldb-dap (formerly lldb-vscode). Selected
// on macOS.
type LLDBAdapter struct {
	lldbDapPath string
}

// NewLLDBAdapter creates a new LLDB adapter
func NewLLDBAdapter(cfg config.LLDBConfig) *LLDBAdapter {
	path := cfg.Path
	if path == "" {
		path = "lldb-dap"
	}

	return &LLDBAdapter{
		lldbDapPath: path,
	}
}

// Backend returns the backend this adapter drives
func (l *LLDBAdapter) Backend() types.Backend {
	return types.BackendLLDB
}

// Spawn starts lldb-dap and returns a DAP client connected via stdin/stdout
func (l *LLDBAdapter) Spawn(ctx context.Context, cfg *launchconfig.DebugConfiguration) (*dap.Client, *exec.Cmd, error) {
	//nolint:gosec // G204: spawning the debug adapter is the point
	cmd := exec.CommandContext(ctx, l.lldbDapPath)
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
		return nil, nil, fmt.Errorf("failed to start lldb-dap: %w", err)
	}

	transport := dap.NewStdioTransport(stdin, stdout)
	client := dap.NewClient(transport, nil)

	return client, cmd, nil
}

// BuildLaunchArgs builds the launch arguments for lldb-dap
func (l *LLDBAdapter) BuildLaunchArgs(cfg *launchconfig.DebugConfiguration) map[string]interface{} {
	launchArgs := map[string]interface{}{
		"program":     cfg.Program,
		"args":        cfg.Args,
		"stopOnEntry": cfg.StopAtEntry,
	}

	if cfg.Cwd != "" {
		launchArgs["cwd"] = cfg.Cwd
	}

	// lldb-dap expects the environment as a "NAME=value" list
	if len(cfg.Environment) > 0 {
		launchArgs["env"] = envList(cfg)
	}

	// Setup commands run before the target is created
	if cfg.SetupCommands != nil {
		launchArgs["initCommands"] = cfg.SetupCommands
	}

	return launchArgs
}
