// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file is one secret: the filename is the key name and the trimmed file
// contents are the value.
//
// The only key gdoc-down reads is google-access-token, an OAuth 2.0 access
// token with the drive.readonly scope.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/gdoc-down/internal/logger"
)

// AccessTokenKey names the file holding the Drive access token.
const AccessTokenKey = "google-access-token"

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory is not an error; Load returns an empty map.
// Unreadable files are logged and skipped.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", "name", name, "error", err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Lookup returns the first non-empty value among an explicit value, the
// loaded secrets, and the environment variable env.
func Lookup(explicit string, loaded map[string]string, key, env string) string {
	if explicit != "" {
		return explicit
	}
	if v := loaded[key]; v != "" {
		return v
	}
	if env == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(env))
}
