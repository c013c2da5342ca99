package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name         string
		storeRoot    string
		envRoot      string
		wantFallback bool
		wantSuffix   string
	}{
		{
			name:         "explicit_root",
			storeRoot:    "/var/lib/containers",
			wantFallback: false,
			wantSuffix:   "/var/lib/containers",
		},
		{
			name:         "env_root",
			envRoot:      "/srv/dirstore",
			wantFallback: false,
			wantSuffix:   "/srv/dirstore",
		},
		{
			name:         "xdg_fallback",
			wantFallback: true,
			wantSuffix:   filepath.Join("dirstore"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envRoot != "" {
				t.Setenv(EnvStoreRoot, tt.envRoot)
			} else {
				t.Setenv(EnvStoreRoot, "")
				os.Unsetenv(EnvStoreRoot)
			}

			p, err := New(tt.storeRoot)
			require.NoError(t, err)

			assert.Equal(t, tt.wantFallback, p.UsedFallback())
			assert.True(t, filepath.IsAbs(p.StoreRoot()),
				"store root should be absolute, got %q", p.StoreRoot())
			assert.Contains(t, p.StoreRoot(), tt.wantSuffix)
		})
	}
}

func TestContainerPath(t *testing.T) {
	p, err := New("/srv/store")
	require.NoError(t, err)

	assert.Equal(t, "/srv/store/sessions", p.ContainerPath("sessions"))
}

func TestConfigDir(t *testing.T) {
	t.Run("env_override", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "/custom/config")

		p, err := New("/srv/store")
		require.NoError(t, err)

		assert.Equal(t, "/custom/config", p.ConfigDir())
		assert.Equal(t, "/custom/config/dirstore.toml", p.ConfigFilePath())
	})

	t.Run("xdg_default", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "")
		os.Unsetenv(EnvConfigDir)

		p, err := New("/srv/store")
		require.NoError(t, err)

		assert.Contains(t, p.ConfigDir(), "dirstore")
	})
}

func TestLogFilePath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")

	p, err := New("/srv/store")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/state/dirstore/dirstore.log", p.LogFilePath())
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "already_clean",
			input: "/a/b/c",
			want:  "/a/b/c",
		},
		{
			name:  "trailing_slash",
			input: "/a/b/c/",
			want:  "/a/b/c",
		},
		{
			name:  "dot_segments",
			input: "/a/b/../b/./c",
			want:  "/a/b/c",
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonicalize(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("home_expansion", func(t *testing.T) {
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		got, err := Canonicalize("~/stores/x")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "stores", "x"), got)
	})

	t.Run("same_tree_same_key", func(t *testing.T) {
		a, err := Canonicalize("/srv/store/x")
		require.NoError(t, err)
		b, err := Canonicalize("/srv/store/./x/")
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})
}
