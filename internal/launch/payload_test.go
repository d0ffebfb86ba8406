package launch_test

import (
	"encoding/base64"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/bradphelan/code-dbg/internal/errors"
	"github.com/bradphelan/code-dbg/internal/launch"
	"github.com/bradphelan/code-dbg/pkg/types"
)

// TestPayloadRoundTrip verifies decode(encode(r)) == r for arbitrary
// valid requests, including empty argument lists and unicode content.
func TestPayloadRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		req := &types.LaunchRequest{
			Exe:  rapid.StringN(1, 64, -1).Draw(t, "exe"),
			Args: rapid.SliceOfN(rapid.String(), 0, 8).Draw(t, "args"),
			Cwd:  rapid.StringN(1, 64, -1).Draw(t, "cwd"),
		}
		if req.Args == nil {
			req.Args = []string{}
		}

		payload, err := launch.EncodePayload(req)
		if err != nil {
			t.Fatalf("EncodePayload failed: %v", err)
		}

		decoded, err := launch.DecodePayload(payload)
		if err != nil {
			t.Fatalf("DecodePayload failed: %v", err)
		}

		if !reflect.DeepEqual(req, decoded) {
			t.Fatalf("round trip mismatch: sent %+v, got %+v", req, decoded)
		}
	})
}

// TestEncodePayload_RejectsInvalid verifies the request invariants are
// enforced before anything is encoded.
func TestEncodePayload_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		req  *types.LaunchRequest
	}{
		{"empty exe", &types.LaunchRequest{Exe: "", Args: []string{}, Cwd: "/w"}},
		{"empty cwd", &types.LaunchRequest{Exe: "app", Args: []string{}, Cwd: ""}},
		{"nil args", &types.LaunchRequest{Exe: "app", Args: nil, Cwd: "/w"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := launch.EncodePayload(tt.req)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if code := errors.CodeOf(err); code != errors.CodeInvalidRequest {
				t.Errorf("expected INVALID_REQUEST, got %s", code)
			}
		})
	}
}

// TestDecodePayload_Malformed verifies that transport-level garbage is
// reported as MalformedPayload, not InvalidRequest.
func TestDecodePayload_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not base64", "!!!not-base64!!!"},
		{"base64 but not JSON", base64.StdEncoding.EncodeToString([]byte("not json"))},
		{"JSON but wrong types", base64.StdEncoding.EncodeToString([]byte(`{"exe": 42}`))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := launch.DecodePayload(tt.payload)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if code := errors.CodeOf(err); code != errors.CodeMalformedPayload {
				t.Errorf("expected MALFORMED_PAYLOAD, got %s", code)
			}
		})
	}
}

// TestDecodePayload_MissingFields verifies that a well-formed payload
// with missing fields yields InvalidRequest listing every missing field.
func TestDecodePayload_MissingFields(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte(`{"exe": "", "args": [], "cwd": "/w"}`))

	_, err := launch.DecodePayload(payload)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if code := errors.CodeOf(err); code != errors.CodeInvalidRequest {
		t.Errorf("expected INVALID_REQUEST, got %s", code)
	}
	if !strings.Contains(err.Error(), "exe") {
		t.Errorf("expected the missing field to be named, got: %v", err)
	}
}

// TestBuildURL verifies the URL shape: scheme, authority, path, and a
// payload parameter that decodes back to the request.
func TestBuildURL(t *testing.T) {
	req := &types.LaunchRequest{
		Exe:  "hello.exe",
		Args: []string{"arg1", "arg2"},
		Cwd:  "/work",
	}

	rawURL, err := launch.BuildURL("vscode", req)
	if err != nil {
		t.Fatalf("BuildURL failed: %v", err)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("generated URL does not parse: %v", err)
	}

	if u.Scheme != "vscode" {
		t.Errorf("expected scheme vscode, got %s", u.Scheme)
	}
	if u.Host != launch.HostAppID {
		t.Errorf("expected host %s, got %s", launch.HostAppID, u.Host)
	}
	if u.Path != launch.URLPath {
		t.Errorf("expected path %s, got %s", launch.URLPath, u.Path)
	}

	decoded, err := launch.ParseURL(rawURL)
	if err != nil {
		t.Fatalf("ParseURL failed: %v", err)
	}
	if !reflect.DeepEqual(req, decoded) {
		t.Errorf("URL round trip mismatch: sent %+v, got %+v", req, decoded)
	}
}

// TestPayloadParam_Missing verifies a URL without the payload parameter
// yields MissingPayload.
func TestPayloadParam_Missing(t *testing.T) {
	_, err := launch.PayloadParam("vscode://bradphelan.code-dbg/launch")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if code := errors.CodeOf(err); code != errors.CodeMissingPayload {
		t.Errorf("expected MISSING_PAYLOAD, got %s", code)
	}
}

// TestPayloadParam_PresentButEmpty verifies a payload parameter with no
// value is treated as a malformed payload, not a missing one.
func TestPayloadParam_PresentButEmpty(t *testing.T) {
	_, err := launch.PayloadParam("vscode://bradphelan.code-dbg/launch?payload=")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if code := errors.CodeOf(err); code != errors.CodeMalformedPayload {
		t.Errorf("expected MALFORMED_PAYLOAD, got %s", code)
	}
}

/// TestResolveExe verifies path resolution: relative joined to cwd,
// absolute untouched.
func TestResolveExe(t *testing.T) {
	tests := []struct {
		name string
		exe  string
		cwd  string
		want string
	}{
		{"relative", "app.exe", "/w", "/w/app.exe"},
		{"relative nested", "bin/app", "/w", "/w/bin/app"},
		{"absolute", "/abs/app.exe", "/w", "/abs/app.exe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := launch.ResolveExe(tt.exe, tt.cwd); got != tt.want {
				t.Errorf("ResolveExe(%q, %q) = %q, want %q", tt.exe, tt.cwd, got, tt.want)
			}
		})
	}
}
