// Package backend maps the host operating system to a debugger backend.
//
// The mapping is total and deterministic: every platform value maps to
// exactly one backend, and nothing in a launch request can override it.
package backend

import (
	"github.com/bradphelan/code-dbg/pkg/types"
)

// PlatformFromGOOS reduces a GOOS value to the platforms that matter for
// backend selection. Anything that is not windows, darwin, or linux is
// PlatformOther.
func PlatformFromGOOS(goos string) types.Platform {
	switch goos {
	case "windows":
		return types.PlatformWindows
	case "darwin":
		return types.PlatformDarwin
	case "linux":
		return types.PlatformLinux
	default:
		return types.PlatformOther
	}
}

// Select chooses the debugger backend for a platform: Windows gets the
// native Microsoft-toolchain debugger, macOS gets LLDB, and Linux along
// with every other platform falls through to GDB.
func Select(platform types.Platform) types.Backend {
	switch platform {
	case types.PlatformWindows:
		return types.BackendVSDbg
	case types.PlatformDarwin:
		return types.BackendLLDB
	default:
		return types.BackendGDB
	}
}
