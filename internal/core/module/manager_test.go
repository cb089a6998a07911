package module

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corelith/internal/core/ecs"
	"corelith/internal/core/serialization"
	"corelith/internal/core/subcontext"
	"corelith/internal/core/systems"
)

type fakeHandle struct {
	initCalls, shutdownCalls *[]string
	name                     string
}

func (h *fakeHandle) Init(res *ModuleResources) error {
	*h.initCalls = append(*h.initCalls, h.name)
	return nil
}

func (h *fakeHandle) Shutdown(res *ModuleResources) error {
	*h.shutdownCalls = append(*h.shutdownCalls, h.name)
	return nil
}

func (h *fakeHandle) Close() error { return nil }

type fakeLoader struct {
	initCalls, shutdownCalls *[]string
}

func (l *fakeLoader) Open(info Info, prefs *Preferences) (Handle, error) {
	return &fakeHandle{initCalls: l.initCalls, shutdownCalls: l.shutdownCalls, name: info.Name}, nil
}

func newTestManager(t *testing.T) (*Manager, *[]string, *[]string) {
	t.Helper()
	subcontext.ResetForTest()
	ctx := subcontext.Get()
	mgr := NewManager(ctx, systems.NewRegistry(), serialization.NewRegistry(), ecs.NewEntityManager(), nil)
	var inits, shutdowns []string
	mgr.loaders[RuntimeNative] = &fakeLoader{initCalls: &inits, shutdownCalls: &shutdowns}
	return mgr, &inits, &shutdowns
}

func writeModConfig(t *testing.T, root, name string, deps ...string) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	depYAML := ""
	for _, d := range deps {
		depYAML += "  - module: " + d + "\n    version: 0.1.0\n"
	}
	content := "name: " + name + "\nguid: 00000000-0000-0000-0000-000000000000\n"
	if depYAML != "" {
		content += "dependencies:\n" + depYAML
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Module.modconfig"), []byte(content), 0o644))
}

func TestDiscoverBuildsDependencyGraph(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	root := t.TempDir()
	writeModConfig(t, root, "physics")
	writeModConfig(t, root, "gameplay", "physics")

	mgr.Discover(root)

	assert.Len(t, mgr.Available(), 2)
	assert.True(t, mgr.graph.IsAnyPrevOf("gameplay", "physics"))
}

func TestDiscoverSkipsInvalidConfig(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	root := t.TempDir()
	dir := filepath.Join(root, "broken")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Module.modconfig"), []byte("guid: x\n"), 0o644))

	mgr.Discover(root)
	assert.Empty(t, mgr.Available())
}

func TestLoadAtBeginOfFrameRejectsMissingDependency(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	root := t.TempDir()
	writeModConfig(t, root, "physics")
	writeModConfig(t, root, "gameplay", "physics")
	mgr.Discover(root)

	assert.Panics(t, func() { mgr.LoadAtBeginOfFrame("gameplay") })
}

func TestLoadWithDependenciesOrdersAncestorsFirst(t *testing.T) {
	mgr, inits, _ := newTestManager(t)
	root := t.TempDir()
	writeModConfig(t, root, "a")
	writeModConfig(t, root, "b", "a")
	writeModConfig(t, root, "c", "b")
	mgr.Discover(root)

	mgr.LoadWithDependencies("c")
	assert.Equal(t, []string{"a", "b", "c"}, mgr.pendingLoads)

	mgr.RunPendingLoads()
	assert.Equal(t, []string{"a", "b", "c"}, *inits)
	assert.True(t, mgr.IsLoaded("a"))
	assert.True(t, mgr.IsLoaded("c"))
}

func TestUnloadWithDependantsOrdersDependantsFirst(t *testing.T) {
	mgr, _, shutdowns := newTestManager(t)
	root := t.TempDir()
	writeModConfig(t, root, "a")
	writeModConfig(t, root, "b", "a")
	mgr.Discover(root)
	mgr.LoadWithDependencies("b")
	mgr.RunPendingLoads()

	mgr.UnloadWithDependants("a")
	assert.Equal(t, []string{"b", "a"}, mgr.pendingUnloads)

	mgr.RunPendingUnloads()
	assert.Equal(t, []string{"b", "a"}, *shutdowns)
	assert.False(t, mgr.IsLoaded("a"))
	assert.False(t, mgr.IsLoaded("b"))
}

func TestUnloadAtEndOfFrameRejectsWhenDependantStillLoaded(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	root := t.TempDir()
	writeModConfig(t, root, "a")
	writeModConfig(t, root, "b", "a")
	mgr.Discover(root)
	mgr.LoadWithDependencies("b")
	mgr.RunPendingLoads()

	assert.Panics(t, func() { mgr.UnloadAtEndOfFrame("a") })
}
