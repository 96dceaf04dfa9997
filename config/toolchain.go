package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the tool paths of a toolchain file.
const (
	EnvTranslator = "CIBYL_TRANSLATOR"
	EnvJasmin     = "CIBYL_JASMIN"
	EnvJavac      = "CIBYL_JAVAC"
	EnvOutDir     = "CIBYL_OUTDIR"
	EnvPeephole   = "CIBYL_PEEPHOLE"
)

// Peephole configures the in-place optimizer run before assembling.
type Peephole struct {
	Enabled    bool   `yaml:"enabled" toml:"enabled"`
	Command    string `yaml:"command" toml:"command"`
	Iterations int    `yaml:"iterations" toml:"iterations"`
}

// Toolchain describes the external programs the driver runs and the options
// it hands to the translator.
type Toolchain struct {
	Translator   string `yaml:"translator" toml:"translator"`
	Jasmin       string `yaml:"jasmin" toml:"jasmin"`
	Javac        string `yaml:"javac" toml:"javac"`
	OutDirectory string `yaml:"out_directory" toml:"out_directory"`

	Defines            []string `yaml:"defines" toml:"defines"`
	SyscallDirectories []string `yaml:"syscall_directories" toml:"syscall_directories"`

	Peephole    Peephole `yaml:"peephole" toml:"peephole"`
	Translation Config   `yaml:"translation" toml:"translation"`
}

// DefaultToolchain returns a toolchain that expects every tool on PATH.
func DefaultToolchain() Toolchain {
	return Toolchain{
		Translator:   "xlate",
		Jasmin:       "jasmin",
		Javac:        "javac",
		OutDirectory: ".",
		Peephole: Peephole{
			Enabled:    true,
			Command:    "cibyl-peephole",
			Iterations: 2,
		},
		Translation: Default(),
	}
}

// LoadToolchain reads a toolchain file. The format is chosen by extension:
// .toml files are TOML, everything else is YAML. Environment overrides are
// applied after the file.
func LoadToolchain(path string) (Toolchain, error) {
	tc := DefaultToolchain()

	data, err := os.ReadFile(path)
	if err != nil {
		return Toolchain{}, fmt.Errorf("cannot read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &tc)
	default:
		err = yaml.Unmarshal(data, &tc)
	}
	if err != nil {
		return Toolchain{}, fmt.Errorf("parse error in %s: %w", path, err)
	}

	tc = tc.WithEnvironment()

	if err := tc.Translation.Validate(); err != nil {
		return Toolchain{}, fmt.Errorf("%s: %w", path, err)
	}

	return tc, nil
}

// WithEnvironment returns a copy of tc with the CIBYL_* variables applied.
func (tc Toolchain) WithEnvironment() Toolchain {
	tc.Translator = env.Str(EnvTranslator, tc.Translator)
	tc.Jasmin = env.Str(EnvJasmin, tc.Jasmin)
	tc.Javac = env.Str(EnvJavac, tc.Javac)
	tc.OutDirectory = env.Str(EnvOutDir, tc.OutDirectory)
	tc.Peephole.Command = env.Str(EnvPeephole, tc.Peephole.Command)

	return tc
}
