//go:build !windows

package module

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"plugin"
)

// PluginCodeLoader opens a module's compiled shared library with the
// standard library's plugin package. This is the one part of the module
// manager built on the standard library rather than a third-party
// dependency: `plugin` is the only "dlopen a compiled artifact and
// resolve an exported symbol" primitive the Go ecosystem offers, and it
// only exists on POSIX, which is why this file carries a build
// constraint rather than running everywhere LuaCodeLoader does.
type PluginCodeLoader struct{}

// NewPluginCodeLoader returns a loader for natively compiled modules.
func NewPluginCodeLoader() *PluginCodeLoader { return &PluginCodeLoader{} }

func libraryPath(info Info) string {
	return filepath.Join(info.Dir, info.Name+".dll")
}

func hotloadablePath(info Info) string {
	return filepath.Join(info.Dir, info.Name+"_hotloadable.dll")
}

// Open copies the hotloadable variant over the load target if present,
// opens the plugin, and resolves the init/shutdown symbols via the
// override chain. Open failures from plugin.Open already carry the
// bitness/missing-dependency/missing-symbol diagnostics;
// this just wraps them with which module and path failed.
func (l *PluginCodeLoader) Open(info Info, prefs *Preferences) (Handle, error) {
	target := libraryPath(info)
	copied := false
	if hot := hotloadablePath(info); fileExists(hot) {
		if err := copyFile(hot, target); err != nil {
			return nil, fmt.Errorf("module %s: staging hotloadable library: %w", info.Name, err)
		}
		copied = true
	}

	p, err := plugin.Open(target)
	if err != nil {
		return nil, fmt.Errorf("module %s: opening %s: %w", info.Name, target, err)
	}

	initName := ResolveInitSymbol(info, prefs)
	shutdownName := ResolveShutdownSymbol(info, prefs)

	initSym, err := p.Lookup(initName)
	if err != nil {
		return nil, fmt.Errorf("module %s: resolving init symbol %q: %w", info.Name, initName, err)
	}
	initFn, ok := initSym.(func(*ModuleResources))
	if !ok {
		return nil, fmt.Errorf("module %s: init symbol %q has the wrong signature", info.Name, initName)
	}

	shutdownSym, err := p.Lookup(shutdownName)
	if err != nil {
		return nil, fmt.Errorf("module %s: resolving shutdown symbol %q: %w", info.Name, shutdownName, err)
	}
	shutdownFn, ok := shutdownSym.(func(*ModuleResources))
	if !ok {
		return nil, fmt.Errorf("module %s: shutdown symbol %q has the wrong signature", info.Name, shutdownName)
	}

	return &pluginHandle{
		init:          initFn,
		shutdown:      shutdownFn,
		stagedPath:    target,
		removeOnClose: copied,
	}, nil
}

type pluginHandle struct {
	init          func(*ModuleResources)
	shutdown      func(*ModuleResources)
	stagedPath    string
	removeOnClose bool
}

func (h *pluginHandle) Init(res *ModuleResources) error {
	h.init(res)
	return nil
}

func (h *pluginHandle) Shutdown(res *ModuleResources) error {
	h.shutdown(res)
	return nil
}

func (h *pluginHandle) Close() error {
	if !h.removeOnClose {
		return nil
	}
	return os.Remove(h.stagedPath)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o755)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
