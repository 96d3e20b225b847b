package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kk-code-lab/tdir/internal/sortmode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[sort]
mode = "mtime"
reverse = true

[display]
show_hidden = true
ignore = ["*.o", "node_modules"]

[tabs]
max = 3

[commands]
editor = "code --wait"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mtime", cfg.Sort.Mode)
	assert.True(t, cfg.Sort.Reverse)
	assert.True(t, cfg.Sort.DirsFirst, "unset keys keep their defaults")
	assert.Equal(t, 3, cfg.MaxTabs())
	assert.Equal(t, "code --wait", cfg.Commands.Editor)
	assert.Empty(t, cfg.Commands.Pager)

	opts, err := cfg.SortOptions()
	require.NoError(t, err)
	assert.Equal(t, sortmode.Mtime, opts.Mode)
	assert.True(t, opts.ShowHidden)
	assert.Equal(t, []string{"*.o", "node_modules"}, opts.IgnorePatterns())
}

func TestLoadReportsSyntaxErrorsWithPosition(t *testing.T) {
	path := writeConfig(t, "[sort\nmode = 1\n")
	cfg, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path+":1:")
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"mode":   "[sort]\nmode = \"random\"\n",
		"tabs":   "[tabs]\nmax = -1\n",
		"ignore": "[display]\nignore = [\"[oops\"]\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestDefaultPath(t *testing.T) {
	orig := userConfigDirFn
	t.Cleanup(func() { userConfigDirFn = orig })
	userConfigDirFn = func() (string, error) { return "/cfg", nil }

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/cfg", "tdir", "config.toml"), path)
}
