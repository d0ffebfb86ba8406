// Package adapters spawns and speaks to the debugger backends.
//
// Each backend (lldb-dap, gdb in DAP mode, vsdbg) is wrapped by an
// Adapter that knows how to start the backend process over stdio and how
// to translate a launch configuration into the backend's launch-request
// arguments. The Registry maps a backend identifier to its adapter.
package adapters

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/bradphelan/code-dbg/internal/config"
	"github.com/bradphelan/code-dbg/internal/dap"
	"github.com/bradphelan/code-dbg/internal/launchconfig"
	"github.com/bradphelan/code-dbg/pkg/types"
)

// Adapter defines the interface a debugger backend must implement
type Adapter interface {
	// Backend returns the backend this adapter drives
	Backend() types.Backend

	// Spawn starts the backend process and returns a DAP client connected
	// via the process's stdin/stdout pipes
	Spawn(ctx context.Context, cfg *launchconfig.DebugConfiguration) (client *dap.Client, cmd *exec.Cmd, err error)

	// BuildLaunchArgs translates a debug configuration into the
	// backend-specific DAP launch arguments
	BuildLaunchArgs(cfg *launchconfig.DebugConfiguration) map[string]interface{}
}

// Registry holds all registered adapters
type Registry struct {
	adapters map[types.Backend]Adapter
}

// NewRegistry creates a registry with all supported backends
func NewRegistry(cfg *config.Config) *Registry {
	r := &Registry{
		adapters: make(map[types.Backend]Adapter),
	}

	r.adapters[types.BackendLLDB] = NewLLDBAdapter(cfg.Backends.LLDB)
	r.adapters[types.BackendGDB] = NewGDBAdapter(cfg.Backends.GDB)
	r.adapters[types.BackendVSDbg] = NewVSDbgAdapter(cfg.Backends.VSDbg)

	return r
}

// Get returns the adapter for a backend
func (r *Registry) Get(b types.Backend) (Adapter, error) {
	adapter, ok := r.adapters[b]
	if !ok {
		return nil, fmt.Errorf("no adapter registered for backend: %s", b)
	}
	return adapter, nil
}

// Register registers an adapter for a backend, overriding any existing one
func (r *Registry) Register(b types.Backend, adapter Adapter) {
	r.adapters[b] = adapter
}

// envList flattens the configuration's environment entries into the
// "NAME=value" list form lldb-dap expects
func envList(cfg *launchconfig.DebugConfiguration) []string {
	list := make([]string, 0, len(cfg.Environment))
	for _, e := range cfg.Environment {
		list = append(list, fmt.Sprintf("%s=%s", e.Name, e.Value))
	}
	return list
}

// envMap flattens the configuration's environment entries into the object
// form GDB's DAP mode expects
func envMap(cfg *launchconfig.DebugConfiguration) map[string]string {
	m := make(map[string]string, len(cfg.Environment))
	for _, e := range cfg.Environment {
		m[e.Name] = e.Value
	}
	return m
}
