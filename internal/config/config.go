// Package config provides configuration for the code-dbg URL handler.
//
// Configuration controls:
//   - Workspace roots the handler starts sessions against
//   - Paths to the debugger backends (lldb-dap, gdb, vsdbg)
//   - The attach grace period before auto-continue
//
// Configuration can be loaded from a JSON file or use sensible defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// Duration is a time.Duration that unmarshals from either a duration
// string ("500ms", "2s") or a bare number of milliseconds, so a config
// file never deals in raw nanoseconds.
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler
func (d *Duration) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value) * time.Millisecond)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		*d = Duration(parsed)
		return nil
	default:
		return fmt.Errorf("invalid duration: %v", v)
	}
}

// MarshalJSON implements json.Marshaler
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Config holds the URL-handler configuration
type Config struct {
	// WorkspaceRoots are the open workspace folders, first one first.
	// When empty, the handler falls back to the process working directory.
	WorkspaceRoots []string `json:"workspaceRoots"`

	// Backend-specific settings
	Backends BackendConfigs `json:"backends"`

	// AttachDelay is the grace period before auto-continue
	AttachDelay Duration `json:"attachDelay"`
}

// BackendConfigs holds configuration for each debugger backend
type BackendConfigs struct {
	LLDB  LLDBConfig  `json:"lldb"`
	GDB   GDBConfig   `json:"gdb"`
	VSDbg VSDbgConfig `json:"vsdbg"`
}

// LLDBConfig holds LLDB-specific configuration
type LLDBConfig struct {
	Path string `json:"path"` // Path to lldb-dap binary (formerly lldb-vscode)
}

// GDBConfig holds GDB-specific configuration
type GDBConfig struct {
	Path string `json:"path"` // Path to gdb binary (requires GDB 14.1+ for DAP support)
}

// VSDbgConfig holds configuration for the native Microsoft-toolchain debugger
type VSDbgConfig struct {
	Path string `json:"path"` // Path to vsdbg.exe
}

// findLLDBDap searches for lldb-dap in common locations across platforms
func findLLDBDap() string {
	// Check PATH first
	if path, err := exec.LookPath("lldb-dap"); err == nil {
		return path
	}

	// Platform-specific search locations
	locations := []string{
		// macOS - Xcode Command Line Tools and Xcode.app
		"/Library/Developer/CommandLineTools/usr/bin/lldb-dap",
		"/Applications/Xcode.app/Contents/Developer/usr/bin/lldb-dap",
		"/opt/homebrew/bin/lldb-dap", // Homebrew on Apple Silicon
		"/usr/local/bin/lldb-dap",    // Homebrew on Intel Mac or manual install

		// Linux - LLVM/Clang package installations
		"/usr/bin/lldb-dap",
		"/usr/bin/lldb-dap-18", // Versioned binaries (Debian/Ubuntu)
		"/usr/bin/lldb-dap-17",
		"/usr/bin/lldb-dap-16",
		"/usr/lib/llvm-18/bin/lldb-dap",
		"/usr/lib/llvm-17/bin/lldb-dap",
		"/usr/lib/llvm-16/bin/lldb-dap",
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	// Check for lldb-vscode (older name, pre-LLVM 16)
	if path, err := exec.LookPath("lldb-vscode"); err == nil {
		return path
	}

	// Fall back to default name (will fail if not in PATH, but provides clear error)
	return "lldb-dap"
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		AttachDelay: Duration(500 * time.Millisecond),
		Backends: BackendConfigs{
			LLDB: LLDBConfig{
				Path: findLLDBDap(),
			},
			GDB: GDBConfig{
				Path: "gdb",
			},
			VSDbg: VSDbgConfig{
				Path: "vsdbg",
			},
		},
	}
}

// LoadConfig loads configuration from a JSON file
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
