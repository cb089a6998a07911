package subcontext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInput struct {
	NoopSubcontext
	updates int
}

func (f *fakeInput) Update(dt float64) { f.updates++ }

type fakeAudio struct {
	NoopSubcontext
}

func TestRegisterAndLookup(t *testing.T) {
	ResetForTest()
	ctx := Get()
	in := &fakeInput{}
	ctx.Register(in)

	got, ok := Lookup[*fakeInput](ctx)
	require.True(t, ok)
	assert.Same(t, in, got)

	_, ok = Lookup[*fakeAudio](ctx)
	assert.False(t, ok)
}

func TestRegisterRejectsDuplicateType(t *testing.T) {
	ResetForTest()
	ctx := Get()
	ctx.Register(&fakeInput{})
	assert.Panics(t, func() { ctx.Register(&fakeInput{}) })
}

func TestUpdateFansOutToRegisteredSubcontexts(t *testing.T) {
	ResetForTest()
	ctx := Get()
	in := &fakeInput{}
	ctx.Register(in)
	ctx.Register(&fakeAudio{})

	ctx.Update(0.016)
	assert.Equal(t, 1, in.updates)
}

func TestRunningFlagRequestShutdown(t *testing.T) {
	ResetForTest()
	ctx := Get()
	assert.True(t, ctx.IsRunning())
	ctx.RequestShutdown()
	assert.False(t, ctx.IsRunning())
}

func TestImGuiSkippedWhenDisabled(t *testing.T) {
	ResetForTest()
	ctx := Get()
	calls := 0
	sc := &imguiSpy{calls: &calls}
	ctx.Register(sc)

	ctx.ImGui(0.016, false)
	assert.Equal(t, 0, calls)

	ctx.SetImGuiEnabled(true)
	ctx.ImGui(0.016, false)
	assert.Equal(t, 1, calls)
}

type imguiSpy struct {
	NoopSubcontext
	calls *int
}

func (s *imguiSpy) ImGui(dt float64, toSubwindow bool) { *s.calls++ }

func TestProfilerScopedMeasurement(t *testing.T) {
	p := NewProfiler()
	p.Begin("load")
	p.End()

	m := p.Measurements()
	require.Len(t, m, 1)
	assert.Equal(t, "load", m[0].Name)

	p.EndFrame()
	assert.Empty(t, p.Measurements())
}

func TestProfilerEndWithoutBeginPanics(t *testing.T) {
	p := NewProfiler()
	assert.Panics(t, func() { p.End() })
}
