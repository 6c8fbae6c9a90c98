package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "failed to write test config")
}

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test converter defaults
	assert.Equal(t, 120*time.Second, cfg.Converter.SubprocessTimeout)
	assert.Equal(t, 15*time.Second, cfg.Converter.ProbeTimeout)
	assert.Empty(t, cfg.Converter.TempDir)

	// Test FreeCAD defaults
	assert.Equal(t, "python3", cfg.FreeCAD.Python)
	require.Len(t, cfg.FreeCAD.Commands, 4)
	assert.Equal(t, "freecadcmd", cfg.FreeCAD.Commands[0], "freecadcmd is probed first")
	assert.NotEmpty(t, cfg.FreeCAD.LibPaths)

	// Test logging defaults
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Logging.LogFile)

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	writeFile(t, configPath, `
converter:
  subprocess_timeout: 5m
  probe_timeout: 3s
  temp_dir: /var/tmp/cadconv

freecad:
  python: /opt/freecad/bin/python
  lib_paths:
    - /opt/freecad/lib
  commands:
    - /opt/freecad/bin/FreeCADCmd

cadquery:
  python: /opt/conda/bin/python

logging:
  level: "debug"
  log_file: "cadconv.log"
`)

	cfg := Default()
	require.NoError(t, loadFromFile(cfg, configPath))

	assert.Equal(t, 5*time.Minute, cfg.Converter.SubprocessTimeout)
	assert.Equal(t, 3*time.Second, cfg.Converter.ProbeTimeout)
	assert.Equal(t, "/var/tmp/cadconv", cfg.Converter.TempDir)

	assert.Equal(t, "/opt/freecad/bin/python", cfg.FreeCAD.Python)
	assert.Equal(t, []string{"/opt/freecad/lib"}, cfg.FreeCAD.LibPaths, "lib paths are replaced")
	assert.Equal(t, []string{"/opt/freecad/bin/FreeCADCmd"}, cfg.FreeCAD.Commands, "commands are replaced")

	assert.Equal(t, "/opt/conda/bin/python", cfg.CadQuery.Python)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "cadconv.log", cfg.Logging.LogFile)
}

func TestLoadFromFilePartial(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	writeFile(t, configPath, "converter:\n  subprocess_timeout: 30s\n")

	cfg := Default()
	require.NoError(t, loadFromFile(cfg, configPath))

	assert.Equal(t, 30*time.Second, cfg.Converter.SubprocessTimeout)
	// Untouched sections keep their defaults
	assert.Equal(t, 15*time.Second, cfg.Converter.ProbeTimeout)
	assert.Len(t, cfg.FreeCAD.Commands, 4)
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")
	writeFile(t, configPath, `
converter:
  subprocess_timeout: not a duration
  invalid syntax here
`)

	assert.Error(t, loadFromFile(Default(), configPath))
}

func TestLoadFromFileMissing(t *testing.T) {
	assert.Error(t, loadFromFile(Default(), "/nonexistent/path/cadconv.yaml"))
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Actual path depends on OS
	assert.NotEmpty(t, dir)
	assert.True(t, filepath.IsAbs(dir), "ConfigDir should return absolute path, got %s", dir)
}

func TestFindConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	// No config file exists - should return empty
	assert.Empty(t, findConfigFile())

	// Create cadconv.yaml in current directory
	writeFile(t, FileName, "logging:\n  level: warn\n")
	assert.NotEmpty(t, findConfigFile(), "expected to find cadconv.yaml in current directory")
}

func TestApplyOverrides(t *testing.T) {
	tests := []struct {
		name      string
		overrides Overrides
		verify    func(*testing.T, *Config)
	}{
		{
			name:      "debug flag",
			overrides: Overrides{Debug: true},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Logging.Level)
			},
		},
		{
			name:      "timeout flag",
			overrides: Overrides{Timeout: 10 * time.Second},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 10*time.Second, cfg.Converter.SubprocessTimeout)
			},
		},
		{
			name:      "log file flag",
			overrides: Overrides{LogFile: "/tmp/cadconv.log"},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/tmp/cadconv.log", cfg.Logging.LogFile)
			},
		},
		{
			name:      "temp dir flag",
			overrides: Overrides{TempDir: "/scratch"},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/scratch", cfg.Converter.TempDir)
			},
		},
		{
			name:      "zero overrides keep defaults",
			overrides: Overrides{},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 120*time.Second, cfg.Converter.SubprocessTimeout)
				assert.Equal(t, "info", cfg.Logging.Level)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			applyOverrides(cfg, tt.overrides)
			tt.verify(t, cfg)
		})
	}
}

func TestBindFlags(t *testing.T) {
	var o Overrides
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	o.BindFlags(fs)

	require.NoError(t, fs.Parse([]string{"--debug", "--timeout=45s", "--config", "x.yaml", "--temp-dir", "/scratch"}))

	assert.True(t, o.Debug)
	assert.Equal(t, 45*time.Second, o.Timeout)
	assert.Equal(t, "x.yaml", o.ConfigPath)
	assert.Equal(t, "/scratch", o.TempDir)
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	writeFile(t, configPath, `
converter:
  subprocess_timeout: 60s
  probe_timeout: 5s
`)

	cfg, err := Load(Overrides{ConfigPath: configPath, Timeout: 90 * time.Second})
	require.NoError(t, err)

	// Timeout comes from the flag, probe timeout from the file
	assert.Equal(t, 90*time.Second, cfg.Converter.SubprocessTimeout)
	assert.Equal(t, 5*time.Second, cfg.Converter.ProbeTimeout)
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	writeFile(t, configPath, "converter:\n  subprocess_timeout: 0s\n")

	_, err := Load(Overrides{ConfigPath: configPath})
	assert.ErrorIs(t, err, ErrInvalidTimeout)
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	orig := Default()
	orig.Converter.SubprocessTimeout = 3 * time.Minute
	orig.FreeCAD.Commands = []string{"FreeCADCmd"}
	require.NoError(t, orig.SaveTo(path))

	cfg, err := Load(Overrides{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, 3*time.Minute, cfg.Converter.SubprocessTimeout)
	assert.Equal(t, []string{"FreeCADCmd"}, cfg.FreeCAD.Commands)
}
