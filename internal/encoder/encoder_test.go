package encoder_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bradphelan/code-dbg/internal/channel"
	"github.com/bradphelan/code-dbg/internal/encoder"
	"github.com/bradphelan/code-dbg/internal/launch"
)

func TestBuildRequest_EmptyExe(t *testing.T) {
	_, err := encoder.BuildRequest("", nil, "/w")
	require.Error(t, err)
}

func TestBuildRequest_DefaultsAndNormalization(t *testing.T) {
	req, err := encoder.BuildRequest("./app", nil, "")
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)

	assert.Equal(t, wd, req.Cwd, "empty cwd defaults to the current directory")
	assert.NotNil(t, req.Args, "args must be present even when empty")
	assert.Empty(t, req.Args)
	assert.Equal(t, "./app", req.Exe, "relative exe is left for the handler to resolve")
}

func TestBuildRequest_AbsoluteExeMustExist(t *testing.T) {
	_, err := encoder.BuildRequest("/definitely/not/here/app", nil, "/w")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "executable not found")

	// An absolute exe that does exist is accepted.
	tmp := t.TempDir()
	exe := filepath.Join(tmp, "app")
	require.NoError(t, os.WriteFile(exe, []byte{}, 0o755))

	req, err := encoder.BuildRequest(exe, []string{"x"}, tmp)
	require.NoError(t, err)
	assert.Equal(t, exe, req.Exe)
	assert.Equal(t, []string{"x"}, req.Args)
}

func TestEncodeURL_ChannelScheme(t *testing.T) {
	req, err := encoder.BuildRequest("./app", []string{"a"}, "/w")
	require.NoError(t, err)

	stableURL, err := encoder.EncodeURL(channel.Stable, req)
	require.NoError(t, err)
	assert.Contains(t, stableURL, "vscode://")

	insidersURL, err := encoder.EncodeURL(channel.Insiders, req)
	require.NoError(t, err)
	assert.Contains(t, insidersURL, "vscode-insiders://")

	// Both URLs decode back to the same request.
	decoded, err := launch.ParseURL(stableURL)
	require.NoError(t, err)
	assert.Equal(t, req, decoded)
}

// TestDispatch asserts the exact command handed to the editor; the call
// itself is fire and forget.
func TestDispatch(t *testing.T) {
	var gotName string
	var gotArgs []string
	run := func(name string, args ...string) error {
		gotName = name
		gotArgs = args
		return nil
	}

	url := "vscode://bradphelan.code-dbg/launch?payload=abc"
	require.NoError(t, encoder.Dispatch(channel.Stable, url, run))
	assert.Equal(t, "code", gotName)
	assert.Equal(t, []string{"--open-url", url}, gotArgs)

	require.NoError(t, encoder.Dispatch(channel.Insiders, url, run))
	assert.Equal(t, "code-insiders", gotName)
}
