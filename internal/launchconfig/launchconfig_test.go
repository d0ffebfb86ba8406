package launchconfig_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bradphelan/code-dbg/internal/launchconfig"
	"github.com/bradphelan/code-dbg/pkg/types"
)

// TestBuild_Common verifies the fields shared by every backend: name from
// the executable's base name, request "launch", verbatim arguments,
// stopAtEntry false, and the working-directory environment injection.
func TestBuild_Common(t *testing.T) {
	req := &types.LaunchRequest{
		Exe:  "hello.exe",
		Args: []string{"arg1", "arg2"},
		Cwd:  "/work",
	}

	for _, backend := range []types.Backend{types.BackendVSDbg, types.BackendLLDB, types.BackendGDB} {
		t.Run(string(backend), func(t *testing.T) {
			cfg := launchconfig.Build(req, "/work/hello.exe", backend)

			assert.Equal(t, "hello.exe", cfg.Name)
			assert.Equal(t, string(backend), cfg.Type)
			assert.Equal(t, "launch", cfg.Request)
			assert.True(t, cfg.IsLaunchRequest())
			assert.Equal(t, "/work/hello.exe", cfg.Program)
			assert.Equal(t, []string{"arg1", "arg2"}, cfg.Args)
			assert.Equal(t, "/work", cfg.Cwd)
			assert.False(t, cfg.StopAtEntry, "sessions must run to the first unhandled event")

			require.Len(t, cfg.Environment, 1)
			assert.Equal(t, launchconfig.CwdEnvVar, cfg.Environment[0].Name)
			assert.Equal(t, "/work", cfg.Environment[0].Value)
		})
	}
}

// TestBuild_MIBackends verifies the MI-driven backends carry their MIMode
// and an empty (but present) setup-command list.
func TestBuild_MIBackends(t *testing.T) {
	req := &types.LaunchRequest{Exe: "app", Args: []string{}, Cwd: "/w"}

	lldb := launchconfig.Build(req, "/w/app", types.BackendLLDB)
	assert.Equal(t, "lldb", lldb.MIMode)
	require.NotNil(t, lldb.SetupCommands)
	assert.Empty(t, lldb.SetupCommands)

	gdb := launchconfig.Build(req, "/w/app", types.BackendGDB)
	assert.Equal(t, "gdb", gdb.MIMode)
	require.NotNil(t, gdb.SetupCommands)
	assert.Empty(t, gdb.SetupCommands)
}

// TestBuild_NativeBackend verifies the native backend carries no MI fields.
func TestBuild_NativeBackend(t *testing.T) {
	req := &types.LaunchRequest{Exe: "app.exe", Args: []string{}, Cwd: `C:\w`}

	cfg := launchconfig.Build(req, `C:\w\app.exe`, types.BackendVSDbg)
	assert.Empty(t, cfg.MIMode)
	assert.Nil(t, cfg.SetupCommands)
}

// TestBuild_ArgOrderPreserved verifies argument order survives untouched.
func TestBuild_ArgOrderPreserved(t *testing.T) {
	args := []string{"--z", "--a", "-1", "positional", "--z"}
	req := &types.LaunchRequest{Exe: "app", Args: args, Cwd: "/w"}

	cfg := launchconfig.Build(req, "/w/app", types.BackendGDB)
	assert.Equal(t, args, cfg.Args)
}
