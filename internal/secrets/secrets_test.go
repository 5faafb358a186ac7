// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerdnaandrej777/mapab-app/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T) string
		want   map[string]string
		errMsg string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, KeyOpenAIAPIKey, "  sk-abc123  \n")
				writeFile(t, dir, KeyRedisURL, "redis://localhost:6379/0\n")
				return dir
			},
			want: map[string]string{
				KeyOpenAIAPIKey: "sk-abc123",
				KeyRedisURL:     "redis://localhost:6379/0",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, KeyOpenAIAPIKey, "sk-valid")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{
				KeyOpenAIAPIKey: "sk-valid",
			},
		},
		{
			name: "skips dotfiles",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, KeyOpenAIAPIKey, "sk-real")
				return dir
			},
			want: map[string]string{
				KeyOpenAIAPIKey: "sk-real",
			},
		},
		{
			name: "skips subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, KeyRedisURL, "redis://cache:6379")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				KeyRedisURL: "redis://cache:6379",
			},
		},
		{
			name: "returns empty map for empty directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			got, err := Load(dir)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}
	dir := t.TempDir()
	writeFile(t, dir, "good-key", "value123")

	// Create a file then remove read permission.
	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir)
	require.NoError(t, err)
	// The good file should still be returned; the bad file is skipped with a warning.
	assert.Equal(t, "value123", got["good-key"])
	_, hasBad := got["bad-key"]
	assert.False(t, hasBad, "unreadable file should not appear in result")
}

func TestOverlay(t *testing.T) {
	loaded := map[string]string{
		KeyOpenAIAPIKey:       "sk-from-dir",
		KeyRedisURL:           "redis://from-dir:6379",
		KeyGooglePlacesAPIKey: "places-from-dir",
	}

	t.Run("fills unset fields", func(t *testing.T) {
		var cfg types.Config
		Overlay(&cfg, loaded)
		assert.Equal(t, "sk-from-dir", cfg.AI.APIKey)
		assert.Equal(t, "redis://from-dir:6379", cfg.Quota.RedisURL)
		assert.Equal(t, "places-from-dir", cfg.Hotels.APIKey)
	})

	t.Run("config values win", func(t *testing.T) {
		var cfg types.Config
		cfg.AI.APIKey = "sk-from-env"
		Overlay(&cfg, loaded)
		assert.Equal(t, "sk-from-env", cfg.AI.APIKey)
		assert.Equal(t, "redis://from-dir:6379", cfg.Quota.RedisURL)
	})
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
