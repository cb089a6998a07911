package module

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Runtime selects the CodeLoader backend a module is opened with.
type Runtime string

const (
	RuntimeNative Runtime = "native"
	RuntimeLua    Runtime = "lua"
)

// Dependency names another module and the version of it this module was
// built against.
type Dependency struct {
	Module  string `yaml:"module"`
	Version string `yaml:"version"`
}

// Info is the parsed form of a Module.modconfig file.
type Info struct {
	Name                       string       `yaml:"name"`
	GUID                       string       `yaml:"guid"`
	Description                string       `yaml:"description"`
	Authors                    string       `yaml:"authors"`
	Version                    string       `yaml:"version"`
	InitializeFunctionOverride string       `yaml:"initializeFunctionOverride"`
	ShutdownFunctionOverride   string       `yaml:"shutdownFunctionOverride"`
	Dependencies               []Dependency `yaml:"dependencies"`
	Runtime                    Runtime      `yaml:"runtime"`

	// Dir is the module's directory, filled in by discovery rather than
	// by the YAML file itself.
	Dir string `yaml:"-"`
}

func defaultInfo() Info {
	return Info{
		Description: "",
		Authors:     "",
		Version:     "0.1.0",
		Runtime:     RuntimeNative,
	}
}

// ParseInfo parses a Module.modconfig document. A missing name is the
// one field the schema cannot default, so it is reported as an error;
// everything else falls back to the default.
func ParseInfo(data []byte) (Info, error) {
	info := defaultInfo()
	if err := yaml.Unmarshal(data, &info); err != nil {
		return Info{}, fmt.Errorf("module: malformed Module.modconfig: %w", err)
	}
	if info.Name == "" {
		return Info{}, fmt.Errorf("module: Module.modconfig missing required field %q", "name")
	}
	if info.GUID != "" {
		if _, err := uuid.Parse(info.GUID); err != nil {
			return Info{}, fmt.Errorf("module: Module.modconfig field %q is not a UUID: %w", "guid", err)
		}
	}
	if info.Runtime == "" {
		info.Runtime = RuntimeNative
	}
	return info, nil
}

// ParseInfoFile reads and parses dir/Module.modconfig.
func ParseInfoFile(dir string) (Info, error) {
	data, err := os.ReadFile(filepath.Join(dir, "Module.modconfig"))
	if err != nil {
		return Info{}, fmt.Errorf("module: reading Module.modconfig: %w", err)
	}
	info, err := ParseInfo(data)
	if err != nil {
		return Info{}, err
	}
	info.Dir = dir
	return info, nil
}

// ParseModList parses a Default.modlist: a YAML sequence of module
// names to load at startup.
func ParseModList(data []byte) ([]string, error) {
	var names []string
	if err := yaml.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("module: malformed Default.modlist: %w", err)
	}
	return names, nil
}

// Preferences is Modulith.config, a flat string-to-string map consulted
// by name rather than a typed struct, since the recognized-keys set is
// open-ended (only a couple of keys are well-known).
type Preferences struct {
	values map[string]string
}

// ParsePreferences parses a Modulith.config document.
func ParsePreferences(data []byte) (*Preferences, error) {
	values := make(map[string]string)
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("module: malformed Modulith.config: %w", err)
		}
	}
	return &Preferences{values: values}, nil
}

// TryGet looks up key, the sole accessor this type needs.
func (p *Preferences) TryGet(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

const (
	DefaultInitializeFunctionName = "DefaultInitializeFunctionName"
	DefaultShutdownFunctionName   = "DefaultShutdownFunctionName"
)

const (
	fallbackInitializeSymbol = "InitializeModule"
	fallbackShutdownSymbol   = "ShutdownModule"
)

// ResolveInitSymbol applies the override chain: per-module override,
// then the process preference, then the hard-coded fallback.
func ResolveInitSymbol(info Info, prefs *Preferences) string {
	if info.InitializeFunctionOverride != "" {
		return info.InitializeFunctionOverride
	}
	if prefs != nil {
		if v, ok := prefs.TryGet(DefaultInitializeFunctionName); ok && v != "" {
			return v
		}
	}
	return fallbackInitializeSymbol
}

// ResolveShutdownSymbol applies the same chain for the shutdown symbol.
func ResolveShutdownSymbol(info Info, prefs *Preferences) string {
	if info.ShutdownFunctionOverride != "" {
		return info.ShutdownFunctionOverride
	}
	if prefs != nil {
		if v, ok := prefs.TryGet(DefaultShutdownFunctionName); ok && v != "" {
			return v
		}
	}
	return fallbackShutdownSymbol
}
