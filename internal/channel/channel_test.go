package channel_test

import (
	"testing"

	"github.com/bradphelan/code-dbg/internal/channel"
	"github.com/bradphelan/code-dbg/internal/errors"
)

func envLookup(env map[string]string) channel.LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

// TestDetect verifies channel auto-detection from the terminal environment.
func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    channel.Channel
		wantErr bool
	}{
		{
			name: "stable",
			env:  map[string]string{"TERM_PROGRAM": "vscode", "TERM_PROGRAM_VERSION": "1.92.1"},
			want: channel.Stable,
		},
		{
			name: "insiders",
			env:  map[string]string{"TERM_PROGRAM": "vscode", "TERM_PROGRAM_VERSION": "1.93.0-insider"},
			want: channel.Insiders,
		},
		{
			name: "no version variable still counts as stable",
			env:  map[string]string{"TERM_PROGRAM": "vscode"},
			want: channel.Stable,
		},
		{
			name:    "different terminal",
			env:     map[string]string{"TERM_PROGRAM": "iTerm.app"},
			wantErr: true,
		},
		{
			name:    "bare shell",
			env:     map[string]string{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := channel.Detect(envLookup(tt.env))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if code := errors.CodeOf(err); code != errors.CodeChannelNotDetected {
					t.Errorf("expected CHANNEL_NOT_DETECTED, got %s", code)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Detect() = %s, want %s", got, tt.want)
			}
		})
	}
}

// TestSchemeAndLauncher verifies the per-channel URL scheme and launcher command.
func TestSchemeAndLauncher(t *testing.T) {
	if got := channel.Stable.Scheme(); got != "vscode" {
		t.Errorf("Stable.Scheme() = %s, want vscode", got)
	}
	if got := channel.Insiders.Scheme(); got != "vscode-insiders" {
		t.Errorf("Insiders.Scheme() = %s, want vscode-insiders", got)
	}
	if got := channel.Stable.LauncherCommand(); got != "code" {
		t.Errorf("Stable.LauncherCommand() = %s, want code", got)
	}
	if got := channel.Insiders.LauncherCommand(); got != "code-insiders" {
		t.Errorf("Insiders.LauncherCommand() = %s, want code-insiders", got)
	}
}
