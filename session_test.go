package main

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"orbitalviz/config"
	"orbitalviz/synth"
)

// fakeBackend records the build/destroy sequence so rebuild ordering is
// observable without a GL context.
type fakeBackend struct {
	events   *[]string
	builds   int
	failNext bool
	sources  []synth.Source
}

type fakeProgram struct {
	events *[]string
	id     int
}

type fakeTarget struct {
	events    *[]string
	width     int
	height    int
	filtering bool
}

func (b *fakeBackend) Build(src synth.Source) (Program, error) {
	if b.failNext {
		b.failNext = false
		return nil, errors.New("compile failed")
	}
	b.builds++
	b.sources = append(b.sources, src)
	*b.events = append(*b.events, "build")
	return &fakeProgram{events: b.events, id: b.builds}, nil
}

func (b *fakeBackend) CreateTarget(width, height int, filtering bool) Target {
	*b.events = append(*b.events, "target")
	return &fakeTarget{events: b.events, width: width, height: height, filtering: filtering}
}

func (p *fakeProgram) Use()                      {}
func (p *fakeProgram) SetTime(float32)           {}
func (p *fakeProgram) SetPhase(float32)          {}
func (p *fakeProgram) SetColor(_, _, _ float32)  {}
func (p *fakeProgram) SetRayLength(float32)      {}
func (p *fakeProgram) SetTransform(mgl32.Mat4)   {}
func (p *fakeProgram) SetAmplitude(int, float32) {}

func (p *fakeProgram) Destroy() {
	*p.events = append(*p.events, "destroy")
}

func (t *fakeTarget) Matches(width, height int, filtering bool) bool {
	return t.width == width && t.height == height && t.filtering == filtering
}

func (t *fakeTarget) Destroy() {
	*t.events = append(*t.events, "target-destroy")
}

func newTestSession(t *testing.T) (*Session, *fakeBackend) {
	t.Helper()
	events := []string{}
	backend := &fakeBackend{events: &events}
	s, err := NewSession(config.Default(), backend, zap.NewNop())
	require.NoError(t, err)
	return s, backend
}

func TestContinuousEditNoRebuild(t *testing.T) {
	s, backend := newTestSession(t)
	before := backend.builds

	for _, e := range []Edit{
		{Param: "r", Value: 1.5},
		{Param: "g", Value: 0.2},
		{Param: "phase", Value: 2.0},
		{Param: "distance", Value: 10},
		{Param: "resolution", Value: 0.25},
		{Param: "filtering", Value: 1},
	} {
		require.NoError(t, s.Apply(e))
	}
	assert.Equal(t, before, backend.builds, "continuous edits must not rebuild")
}

func TestStructuralEditRebuilds(t *testing.T) {
	tests := []Edit{
		{Param: "samples", Value: 80},
		{Param: "complexColor", Value: 1},
		{Param: "absorption", Value: 0.5},
		{Param: "cutoff", Value: 0.05},
		{Param: "wave0.n", Value: 3},
		{Param: "wave0.phase", Value: 1},
		{Param: "wave0.translation", Value: 2},
	}
	for _, e := range tests {
		t.Run(e.Param, func(t *testing.T) {
			s, backend := newTestSession(t)
			before := backend.builds
			require.NoError(t, s.Apply(e))
			assert.Equal(t, before+1, backend.builds, "edit must rebuild exactly once")
		})
	}
}

func TestBuildNewBeforeDestroyOld(t *testing.T) {
	s, backend := newTestSession(t)
	*backend.events = nil

	require.NoError(t, s.Apply(Edit{Param: "wave0.n", Value: 2}))
	require.Equal(t, []string{"build", "destroy"}, *backend.events,
		"the old program is destroyed only after the new one is built")
}

func TestFailedBuildKeepsOldProgram(t *testing.T) {
	s, backend := newTestSession(t)
	old := s.Program()

	backend.failNext = true
	err := s.Apply(Edit{Param: "wave0.n", Value: 5})
	require.Error(t, err)
	assert.Same(t, old, s.Program(), "failed build must leave the previous program live")
}

func TestAmplitudeThresholdClassification(t *testing.T) {
	s, backend := newTestSession(t)
	before := backend.builds

	// Within the live band: continuous.
	require.NoError(t, s.Apply(Edit{Param: "wave0.amplitude", Value: 0.5}))
	require.NoError(t, s.Apply(Edit{Param: "wave0.amplitude", Value: 1.7}))
	assert.Equal(t, before, backend.builds)

	// Crossing into the dead band drops the wave from the text: rebuild.
	require.NoError(t, s.Apply(Edit{Param: "wave0.amplitude", Value: 0}))
	assert.Equal(t, before+1, backend.builds)

	// And back out again.
	require.NoError(t, s.Apply(Edit{Param: "wave0.amplitude", Value: 1}))
	assert.Equal(t, before+2, backend.builds)
}

func TestUnchangedValueIsNoop(t *testing.T) {
	s, backend := newTestSession(t)
	before := backend.builds
	require.NoError(t, s.Apply(Edit{Param: "wave0.n", Value: 1})) // already 1
	assert.Equal(t, before, backend.builds)
}

func TestEditClampedToRange(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.Apply(Edit{Param: "wave0.n", Value: 99}))
	assert.Equal(t, float64(12), s.byName["wave0.n"].get())

	require.NoError(t, s.Apply(Edit{Param: "r", Value: -3}))
	assert.Equal(t, float64(0), s.byName["r"].get())
}

// Lowering n must drag l and m back into their dependent ranges before
// coefficients are recomputed.
func TestDependentQuantumNumberClamp(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.Apply(Edit{Param: "wave0.n", Value: 4}))
	require.NoError(t, s.Apply(Edit{Param: "wave0.l", Value: 3}))
	require.NoError(t, s.Apply(Edit{Param: "wave0.m", Value: -3}))

	require.NoError(t, s.Apply(Edit{Param: "wave0.n", Value: 2}))
	assert.Equal(t, 1, s.waves[0].L)
	assert.Equal(t, -1, s.waves[0].M)
}

func TestTargetResizeIndependentOfProgram(t *testing.T) {
	s, backend := newTestSession(t)
	s.EnsureTarget(800, 600)
	builds := backend.builds

	// Same shape: no new target.
	*backend.events = nil
	s.EnsureTarget(800, 600)
	assert.Empty(t, *backend.events)

	// Resolution edit reshapes the target but never touches the program.
	require.NoError(t, s.Apply(Edit{Param: "resolution", Value: 1.0}))
	s.EnsureTarget(800, 600)
	assert.Equal(t, []string{"target-destroy", "target"}, *backend.events)
	assert.Equal(t, builds, backend.builds)
}

func TestUnknownParameterIgnored(t *testing.T) {
	s, backend := newTestSession(t)
	before := backend.builds
	require.NoError(t, s.Apply(Edit{Param: "no-such-param", Value: 1}))
	assert.Equal(t, before, backend.builds)
}

func TestCloseDestroysOwnedResources(t *testing.T) {
	s, backend := newTestSession(t)
	s.EnsureTarget(640, 480)
	*backend.events = nil

	s.Close()
	assert.ElementsMatch(t, []string{"destroy", "target-destroy"}, *backend.events)
	assert.Nil(t, s.Program())
	assert.Nil(t, s.Target())
}

func TestSnapshotRoundTrip(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.Apply(Edit{Param: "cutoff", Value: 0.05}))

	var found bool
	for _, p := range s.Snapshot() {
		if p.Name == "cutoff" {
			found = true
			assert.Equal(t, 0.05, p.Value)
			assert.True(t, p.Structural)
		}
	}
	assert.True(t, found)
}
