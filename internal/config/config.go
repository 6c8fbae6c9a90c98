// Package config handles converter configuration loading and management.
package config

import "time"

// Config holds all converter settings.
type Config struct {
	Converter ConverterConfig `yaml:"converter"`
	FreeCAD   FreeCADConfig   `yaml:"freecad"`
	CadQuery  CadQueryConfig  `yaml:"cadquery"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ConverterConfig holds orchestration settings shared by every pipeline.
type ConverterConfig struct {
	SubprocessTimeout time.Duration `yaml:"subprocess_timeout"` // Budget for one backend invocation
	ProbeTimeout      time.Duration `yaml:"probe_timeout"`      // Budget for an availability probe
	TempDir           string        `yaml:"temp_dir"`           // Empty means the OS temp dir
}

// FreeCADConfig holds FreeCAD backend settings.
type FreeCADConfig struct {
	Python   string   `yaml:"python"`    // Interpreter used to load the FreeCAD modules
	LibPaths []string `yaml:"lib_paths"` // Appended to sys.path when present on disk
	Commands []string `yaml:"commands"`  // Command-line executables, probed in order
}

// CadQueryConfig holds CadQuery backend settings.
type CadQueryConfig struct {
	Python string `yaml:"python"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Converter: ConverterConfig{
			SubprocessTimeout: 120 * time.Second,
			ProbeTimeout:      15 * time.Second,
			TempDir:           "",
		},
		FreeCAD: FreeCADConfig{
			Python: "python3",
			LibPaths: []string{
				"/Applications/FreeCAD.app/Contents/Resources/lib", // macOS
				"/usr/lib/freecad/lib",                             // Linux
				"/usr/lib/freecad-python3/lib",                     // Linux alternative
				`C:\Program Files\FreeCAD\bin`,                     // Windows
			},
			Commands: []string{
				"freecadcmd",
				"FreeCADCmd",
				"/Applications/FreeCAD.app/Contents/MacOS/FreeCAD",
				"freecad",
			},
		},
		CadQuery: CadQueryConfig{
			Python: "python3",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
