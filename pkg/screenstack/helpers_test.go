package screenstack

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/BrandonKowalski/screenstack/pkg/screenstack/constants"
	"github.com/stretchr/testify/require"
)

// testScreen records every hook the navigator calls on it. With a non-nil
// anim channel its animations are handed to the test instead of resolving.
type testScreen struct {
	anim chan *Signal

	mu        sync.Mutex
	calls     []string
	params    []any
	destroyed bool
}

func newScreen(anim chan *Signal) func() (Visual, error) {
	return func() (Visual, error) { return &testScreen{anim: anim}, nil }
}

func (s *testScreen) record(call string) {
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()
}

func (s *testScreen) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *testScreen) PlayShow(done *Signal) {
	s.record("PlayShow")
	if s.anim != nil {
		s.anim <- done
		return
	}
	done.Resolve()
}

func (s *testScreen) PlayHide(done *Signal) {
	s.record("PlayHide")
	if s.anim != nil {
		s.anim <- done
		return
	}
	done.Resolve()
}

func (s *testScreen) SetParameters(params []any) {
	s.mu.Lock()
	s.params = params
	s.mu.Unlock()
	s.record("SetParameters")
}

func (s *testScreen) BeforeSetup() { s.record("BeforeSetup") }
func (s *testScreen) AfterSetup()  { s.record("AfterSetup") }
func (s *testScreen) OnShown()     { s.record("OnShown") }
func (s *testScreen) OnHidden()    { s.record("OnHidden") }

func (s *testScreen) Destroy() {
	s.mu.Lock()
	s.destroyed = true
	s.mu.Unlock()
}

func (s *testScreen) Destroyed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destroyed
}

func bodyOf(t *testing.T, inst *Instance) *testScreen {
	t.Helper()
	s, ok := inst.Screen().(*testScreen)
	require.True(t, ok, "screen body is %T", inst.Screen())
	return s
}

const (
	layerBase  = 0
	layerPopup = 1
	layerModal = 2
)

// newTestNavigator registers manager 0 with three layers:
//
//	menu, settings  base layer, tracked, Menu tag
//	popup           popup layer, Popup tag
//	toast           modal layer, Popup tag
//	dialog          modal layer, Dialog tag, animated through anim
func newTestNavigator(t *testing.T, opts Options, anim chan *Signal) *Navigator {
	t.Helper()

	nav := New(opts)
	require.NoError(t, nav.RegisterManager(0, []Layer{"base", "popup", "modal"},
		Direct("menu", newScreen(nil)).Tracked().WithTag(constants.TagMenu),
		Direct("settings", newScreen(nil)).Tracked().WithTag(constants.TagMenu),
		Direct("popup", newScreen(nil)).OnLayer(layerPopup).WithTag(constants.TagPopup),
		Direct("toast", newScreen(nil)).OnLayer(layerModal).WithTag(constants.TagPopup),
		Direct("dialog", newScreen(anim)).OnLayer(layerModal).WithTag(constants.TagDialog).Animated(true, true),
	))
	t.Cleanup(func() { _ = nav.Close(context.Background()) })
	return nav
}

func show(t *testing.T, nav *Navigator, typ ScreenType, layer int) *Instance {
	t.Helper()
	inst, err := nav.Show(context.Background(), ShowRequest{Type: typ, Manager: 0, Layer: layer})
	require.NoError(t, err)
	require.NotNil(t, inst)
	return inst
}

type showResult struct {
	inst *Instance
	err  error
}

// showAsync runs a Show that is expected to block on its animation.
func showAsync(nav *Navigator, req ShowRequest) <-chan showResult {
	out := make(chan showResult, 1)
	go func() {
		inst, err := nav.Show(context.Background(), req)
		out <- showResult{inst, err}
	}()
	return out
}

func errAsync(fn func() error) <-chan error {
	out := make(chan error, 1)
	go func() { out <- fn() }()
	return out
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting")
		var zero T
		return zero
	}
}

func pending[T any](t *testing.T, ch <-chan T) {
	t.Helper()
	select {
	case <-ch:
		t.Fatal("operation completed before its animation resolved")
	case <-time.After(20 * time.Millisecond):
	}
}

// countingLoader wraps DirectLoader and counts loads and releases.
type countingLoader struct {
	DirectLoader

	mu       sync.Mutex
	loads    map[ScreenType]int
	released map[ScreenType]int
	fail     error
}

func newCountingLoader() *countingLoader {
	return &countingLoader{loads: make(map[ScreenType]int), released: make(map[ScreenType]int)}
}

func (l *countingLoader) Load(ctx context.Context, d *Descriptor) (Visual, error) {
	l.mu.Lock()
	l.loads[d.Type]++
	fail := l.fail
	l.mu.Unlock()
	if fail != nil {
		return nil, fail
	}
	if d.Source.Kind != constants.LoadDirect {
		return &testScreen{}, nil
	}
	return l.DirectLoader.Load(ctx, d)
}

func (l *countingLoader) Release(d *Descriptor) {
	l.mu.Lock()
	l.released[d.Type]++
	l.mu.Unlock()
}

func (l *countingLoader) Loads(t ScreenType) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads[t]
}

func (l *countingLoader) Released(t ScreenType) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.released[t]
}

// recordingLayout tracks which visuals are attached and where.
type recordingLayout struct {
	mu       sync.Mutex
	attached map[Visual]Layer
}

func newRecordingLayout() *recordingLayout {
	return &recordingLayout{attached: make(map[Visual]Layer)}
}

func (l *recordingLayout) Attach(v Visual, layer Layer) {
	l.mu.Lock()
	l.attached[v] = layer
	l.mu.Unlock()
}

func (l *recordingLayout) Detach(v Visual) {
	l.mu.Lock()
	delete(l.attached, v)
	l.mu.Unlock()
}

func (l *recordingLayout) LayerOf(v Visual) (Layer, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	layer, ok := l.attached[v]
	return layer, ok
}
