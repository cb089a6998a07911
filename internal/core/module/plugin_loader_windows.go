//go:build windows

package module

import "fmt"

// PluginCodeLoader is unavailable on windows: the standard library's
// plugin package only supports linux, freebsd, and darwin. Windows
// hosts are expected to mount only Lua-runtime modules, or to supply
// their own CodeLoader.
type PluginCodeLoader struct{}

// NewPluginCodeLoader returns a loader whose Open always fails.
func NewPluginCodeLoader() *PluginCodeLoader { return &PluginCodeLoader{} }

func (l *PluginCodeLoader) Open(info Info, prefs *Preferences) (Handle, error) {
	return nil, fmt.Errorf("module %s: native plugin loading is not supported on this platform", info.Name)
}
