// Package launch implements the launch-request wire format.
//
// A launch request travels from the code-dbg CLI to the URL handler as a
// single query parameter on a custom-scheme URL:
//
//	<scheme>://bradphelan.code-dbg/launch?payload=<base64>
//
// where the payload is standard base64 over a UTF-8 JSON document of the
// shape {"exe": <string>, "args": [<string>...], "cwd": <string>}. The
// encoding round-trips exactly: DecodePayload(EncodePayload(r)) == r for
// every valid request r.
package launch

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/bradphelan/code-dbg/internal/errors"
	"github.com/bradphelan/code-dbg/pkg/types"
)

// HostAppID is the publisher/extension identifier in the URL authority.
const HostAppID = "bradphelan.code-dbg"

// URLPath is the fixed path component of a launch URL.
const URLPath = "/launch"

// payloadParam is the query parameter carrying the encoded request.
const payloadParam = "payload"

// Validate checks the launch-request invariants: exe non-empty, args
// present (possibly empty), cwd non-empty. It returns an InvalidRequest
// error listing every missing field, or nil.
func Validate(req *types.LaunchRequest) error {
	var missing []string
	if req.Exe == "" {
		missing = append(missing, "exe")
	}
	if req.Args == nil {
		missing = append(missing, "args")
	}
	if req.Cwd == "" {
		missing = append(missing, "cwd")
	}
	if len(missing) > 0 {
		return errors.InvalidRequest(missing)
	}
	return nil
}

// EncodePayload serializes a validated request to its transport encoding.
func EncodePayload(req *types.LaunchRequest) (string, error) {
	if err := Validate(req); err != nil {
		return "", err
	}

	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal launch request: %w", err)
	}

	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodePayload reverses the transport encoding. A payload that is not
// base64 or not JSON yields MalformedPayload; a well-formed payload whose
// fields violate the request invariants yields InvalidRequest.
func DecodePayload(payload string) (*types.LaunchRequest, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errors.MalformedPayload(err)
	}

	var req types.LaunchRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.MalformedPayload(err)
	}

	if err := Validate(&req); err != nil {
		return nil, err
	}

	return &req, nil
}

// BuildURL embeds the encoded request in a launch URL for the given scheme.
func BuildURL(scheme string, req *types.LaunchRequest) (string, error) {
	payload, err := EncodePayload(req)
	if err != nil {
		return "", err
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     HostAppID,
		Path:     URLPath,
		RawQuery: url.Values{payloadParam: {payload}}.Encode(),
	}
	return u.String(), nil
}

// PayloadParam extracts the encoded payload from a launch URL. A URL
// without the payload parameter yields MissingPayload; a URL that does
// not parse at all, or one whose payload parameter is present but empty,
// yields MalformedPayload.
func PayloadParam(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.MalformedPayload(err)
	}

	q := u.Query()
	if !q.Has(payloadParam) {
		return "", errors.MissingPayload()
	}

	payload := q.Get(payloadParam)
	if payload == "" {
		return "", errors.MalformedPayload(fmt.Errorf("empty %s parameter", payloadParam))
	}
	return payload, nil
}

// ParseURL decodes the launch request carried by a launch URL.
func ParseURL(rawURL string) (*types.LaunchRequest, error) {
	payload, err := PayloadParam(rawURL)
	if err != nil {
		return nil, err
	}
	return DecodePayload(payload)
}

// ResolveExe resolves the target executable to an absolute path: a
// relative exe is joined to cwd, an absolute exe is used as-is.
func ResolveExe(exe, cwd string) string {
	if filepath.IsAbs(exe) {
		return exe
	}
	return filepath.Join(cwd, exe)
}
