package version

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Cache persists the last version the user was notified about, so the
// update message is shown once per release rather than on every launch.
type Cache struct {
	path string
}

type cacheFile struct {
	NotifiedVersion string `json:"notifiedVersion"`
}

// NewCache creates a cache stored under the user config directory. An
// explicit dir overrides the default (used by tests).
func NewCache(dir string) (*Cache, error) {
	if dir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(configDir, "code-dbg")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{path: filepath.Join(dir, "version.json")}, nil
}

// NotifiedVersion returns the last version recorded, or empty string.
func (c *Cache) NotifiedVersion() string {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return ""
	}
	var f cacheFile
	if err := json.Unmarshal(data, &f); err != nil {
		return ""
	}
	return f.NotifiedVersion
}

// SetNotifiedVersion records that the user has been told about a version.
func (c *Cache) SetNotifiedVersion(v string) error {
	data, err := json.Marshal(cacheFile{NotifiedVersion: v})
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0o644)
}

// NotifyOnce writes the update message to w unless the user has already
// been told about that release, and records the notification so the next
// run stays quiet. Check errors and up-to-date results write nothing.
func NotifyOnce(info *UpdateInfo, cache *Cache, w io.Writer) {
	if info == nil || cache == nil {
		return
	}
	msg := info.UpdateMessage()
	if msg == "" {
		return
	}
	if cache.NotifiedVersion() == info.LatestVersion {
		return
	}
	fmt.Fprintln(w, msg)
	// A failed write here just means the user sees the message again next run.
	_ = cache.SetNotifiedVersion(info.LatestVersion)
}
