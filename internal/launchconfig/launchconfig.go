// Package launchconfig builds the backend-specific debug configuration
// submitted to the debugging subsystem for one session start.
package launchconfig

import (
	"path/filepath"

	"github.com/bradphelan/code-dbg/pkg/types"
)

// CwdEnvVar is injected into the debuggee's environment so the spawned
// process can see the working directory it was launched from.
const CwdEnvVar = "CODE_DBG_CWD"

// EnvEntry is one environment variable passed to the debuggee, in the
// name/value shape the native debugger backends expect.
type EnvEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// DebugConfiguration is a launch.json-style debug configuration. It is
// derived from a validated launch request plus the resolved executable
// path and selected backend, lives for the duration of one session-start
// call, and is never persisted.
type DebugConfiguration struct {
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Request     string     `json:"request"`
	Program     string     `json:"program"`
	Args        []string   `json:"args"`
	Cwd         string     `json:"cwd"`
	StopAtEntry bool       `json:"stopAtEntry"`
	Environment []EnvEntry `json:"environment"`

	// MIMode and SetupCommands are only meaningful for the MI-driven
	// backends (lldb, gdb); they are left zero for the native backend.
	MIMode        string   `json:"MIMode,omitempty"`
	SetupCommands []string `json:"setupCommands,omitempty"`
}

// Build assembles the configuration for one launch: display name from the
// executable's base name, request "launch", arguments verbatim in order,
// and stopAtEntry false so the session runs to the first unhandled event
// instead of halting immediately. The MI-driven backends additionally get
// their MIMode set to the backend's name and an empty setup-command list.
func Build(req *types.LaunchRequest, resolvedPath string, backend types.Backend) *DebugConfiguration {
	cfg := &DebugConfiguration{
		Name:        filepath.Base(resolvedPath),
		Type:        string(backend),
		Request:     "launch",
		Program:     resolvedPath,
		Args:        req.Args,
		Cwd:         req.Cwd,
		StopAtEntry: false,
		Environment: []EnvEntry{
			{Name: CwdEnvVar, Value: req.Cwd},
		},
	}

	switch backend {
	case types.BackendLLDB, types.BackendGDB:
		cfg.MIMode = string(backend)
		cfg.SetupCommands = []string{}
	}

	return cfg
}

// IsLaunchRequest returns true if this is a launch configuration (not attach).
func (c *DebugConfiguration) IsLaunchRequest() bool {
	return c.Request == "launch"
}
