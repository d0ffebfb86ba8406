// Package types defines the shared data types of code-dbg.
//
// The central type is LaunchRequest, the one entity that crosses the
// process boundary between the code-dbg CLI and the URL handler. Its
// JSON field names are a wire contract and must not change.
package types

// LaunchRequest describes what to debug: the target binary, its argument
// list, and the working directory used both to resolve a relative Exe and
// as the spawned process's working directory.
//
// The JSON shape {"exe": ..., "args": [...], "cwd": ...} is the payload
// carried (base64-encoded) in the launch URL.
type LaunchRequest struct {
	Exe  string   `json:"exe"`
	Args []string `json:"args"`
	Cwd  string   `json:"cwd"`
}

// Backend identifies the concrete debugger implementation driving a session.
type Backend string

const (
	// BackendVSDbg is the native Microsoft-toolchain debugger (Windows).
	BackendVSDbg Backend = "cppvsdbg"
	// BackendLLDB is LLDB via lldb-dap (macOS).
	BackendLLDB Backend = "lldb"
	// BackendGDB is GDB's native DAP mode (Linux and everything else).
	BackendGDB Backend = "gdb"
)

// Platform is the host operating system, reduced to the values that
// matter for backend selection.
type Platform string

const (
	PlatformWindows Platform = "windows"
	PlatformDarwin  Platform = "darwin"
	PlatformLinux   Platform = "linux"
	PlatformOther   Platform = "other"
)

// SessionStatus represents the status of a debug session in the host runtime.
type SessionStatus string

const (
	SessionStatusInitializing SessionStatus = "initializing"
	SessionStatusRunning      SessionStatus = "running"
	SessionStatusStopped      SessionStatus = "stopped"
	SessionStatusTerminated   SessionStatus = "terminated"
)
