package adapters_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bradphelan/code-dbg/internal/adapters"
	"github.com/bradphelan/code-dbg/internal/config"
	"github.com/bradphelan/code-dbg/internal/launchconfig"
	"github.com/bradphelan/code-dbg/pkg/types"
)

func testConfig() *launchconfig.DebugConfiguration {
	return launchconfig.Build(
		&types.LaunchRequest{Exe: "app", Args: []string{"a", "b"}, Cwd: "/w"},
		"/w/app",
		types.BackendGDB,
	)
}

// TestRegistry verifies every backend has a registered adapter and the
// registry rejects unknown backends.
func TestRegistry(t *testing.T) {
	reg := adapters.NewRegistry(config.DefaultConfig())

	for _, b := range []types.Backend{types.BackendLLDB, types.BackendGDB, types.BackendVSDbg} {
		adapter, err := reg.Get(b)
		require.NoError(t, err)
		assert.Equal(t, b, adapter.Backend())
	}

	_, err := reg.Get(types.Backend("windbg"))
	assert.Error(t, err)
}

// TestLLDBLaunchArgs verifies the lldb-dap argument shape: env as a
// NAME=value list, stopOnEntry naming, and setup commands as initCommands.
func TestLLDBLaunchArgs(t *testing.T) {
	adapter := adapters.NewLLDBAdapter(config.LLDBConfig{})
	cfg := launchconfig.Build(
		&types.LaunchRequest{Exe: "app", Args: []string{"a"}, Cwd: "/w"},
		"/w/app",
		types.BackendLLDB,
	)

	args := adapter.BuildLaunchArgs(cfg)

	assert.Equal(t, "/w/app", args["program"])
	assert.Equal(t, []string{"a"}, args["args"])
	assert.Equal(t, "/w", args["cwd"])
	assert.Equal(t, false, args["stopOnEntry"])
	assert.Equal(t, []string{"CODE_DBG_CWD=/w"}, args["env"])
	assert.Equal(t, []string{}, args["initCommands"])
}

// TestGDBLaunchArgs verifies the GDB DAP argument shape: env in object form.
func TestGDBLaunchArgs(t *testing.T) {
	adapter := adapters.NewGDBAdapter(config.GDBConfig{})
	args := adapter.BuildLaunchArgs(testConfig())

	assert.Equal(t, "/w/app", args["program"])
	assert.Equal(t, []string{"a", "b"}, args["args"])
	assert.Equal(t, false, args["stopOnEntry"])
	assert.Equal(t, map[string]string{"CODE_DBG_CWD": "/w"}, args["env"])
}

// TestVSDbgLaunchArgs verifies the vsdbg argument shape: stopAtEntry
// naming and environment as name/value objects.
func TestVSDbgLaunchArgs(t *testing.T) {
	adapter := adapters.NewVSDbgAdapter(config.VSDbgConfig{})
	cfg := launchconfig.Build(
		&types.LaunchRequest{Exe: "app.exe", Args: []string{}, Cwd: "/w"},
		"/w/app.exe",
		types.BackendVSDbg,
	)

	args := adapter.BuildLaunchArgs(cfg)

	assert.Equal(t, "/w/app.exe", args["program"])
	assert.Equal(t, false, args["stopAtEntry"])
	assert.Equal(t, cfg.Environment, args["environment"])
}

// TestAdapterPathDefaults verifies empty configured paths fall back to
// the conventional binary names.
func TestAdapterPathDefaults(t *testing.T) {
	assert.NotNil(t, adapters.NewLLDBAdapter(config.LLDBConfig{}))
	assert.NotNil(t, adapters.NewGDBAdapter(config.GDBConfig{}))
	assert.NotNil(t, adapters.NewVSDbgAdapter(config.VSDbgConfig{}))
}
