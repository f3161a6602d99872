package screenstack

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowRegistersAndRunsHooks(t *testing.T) {
	layout := newRecordingLayout()
	nav := newTestNavigator(t, Options{Layout: layout}, nil)

	inst, err := nav.Show(context.Background(), ShowRequest{
		Type:    "popup",
		Manager: 0,
		Layer:   layerPopup,
		Params:  []any{"hello", 42},
	})
	require.NoError(t, err)

	assert.Equal(t, StateInUse, inst.State())
	assert.Equal(t, []any{"hello", 42}, inst.Params())

	occupant, ok := nav.IsLayerOccupied(layerPopup, 0)
	require.True(t, ok)
	assert.Same(t, inst, occupant)

	layer, ok := layout.LayerOf(inst.Visual())
	require.True(t, ok)
	assert.Equal(t, "popup", layer)

	body := bodyOf(t, inst)
	assert.Equal(t, []string{"BeforeSetup", "AfterSetup", "SetParameters", "OnShown"}, body.Calls())
	assert.Equal(t, []any{"hello", 42}, body.params)
}

func TestShowWithoutParamsSkipsReceiver(t *testing.T) {
	nav := newTestNavigator(t, Options{}, nil)
	inst := show(t, nav, "popup", layerPopup)
	assert.NotContains(t, bodyOf(t, inst).Calls(), "SetParameters")
}

func TestShowFailures(t *testing.T) {
	nav := newTestNavigator(t, Options{}, nil)
	ctx := context.Background()

	_, err := nav.Show(ctx, ShowRequest{Type: "menu", Manager: 7})
	assert.ErrorIs(t, err, ErrManagerNotFound)

	_, err = nav.Show(ctx, ShowRequest{Type: "missing", Manager: 0})
	assert.ErrorIs(t, err, ErrConfigNotFound)

	_, err = nav.Show(ctx, ShowRequest{Type: "menu", Manager: 0, Layer: 3})
	assert.ErrorIs(t, err, ErrInvalidLayer)

	_, err = nav.Show(ctx, ShowRequest{Type: "menu", Manager: 0, Layer: -1})
	assert.ErrorIs(t, err, ErrInvalidLayer)
}

func TestShowLoadFailure(t *testing.T) {
	loader := newCountingLoader()
	loader.fail = errors.New("asset missing")
	nav := newTestNavigator(t, Options{Loader: loader}, nil)

	_, err := nav.Show(context.Background(), ShowRequest{Type: "menu", Manager: 0})
	require.ErrorIs(t, err, ErrLoadFailure)
	assert.ErrorContains(t, err, "asset missing")

	_, occupied := nav.IsLayerOccupied(layerBase, 0)
	assert.False(t, occupied)
}

func TestShowFactoryFailureDestroysVisual(t *testing.T) {
	var visual *testScreen
	catalog := NewCatalog().Register("menu", func(v Visual) (Screen, error) {
		visual = v.(*testScreen)
		return nil, errors.New("bad layout")
	})
	nav := newTestNavigator(t, Options{Catalog: catalog}, nil)

	_, err := nav.Show(context.Background(), ShowRequest{Type: "menu", Manager: 0})
	require.ErrorIs(t, err, ErrLoadFailure)
	require.NotNil(t, visual)
	assert.True(t, visual.Destroyed())
}

// Showing an active type again returns the existing instance without a load.
func TestShowDuplicateShortCircuits(t *testing.T) {
	loader := newCountingLoader()
	nav := newTestNavigator(t, Options{Loader: loader}, nil)

	first := show(t, nav, "menu", layerBase)
	occupant, ok := nav.IsLayerOccupied(layerBase, 0)
	require.True(t, ok)
	assert.Same(t, first, occupant)

	second, err := nav.Open("menu", 0).Show(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, loader.Loads("menu"))

	// Even on another layer the type stays unique per manager.
	third := show(t, nav, "menu", layerPopup)
	assert.Same(t, first, third)
	assert.Equal(t, layerBase, third.Layer())
}

// A forced show hides the occupant immediately and pools it.
func TestShowEvictsOccupant(t *testing.T) {
	nav := newTestNavigator(t, Options{}, nil)
	settings := show(t, nav, "settings", layerBase)

	menu, err := nav.Open("menu", 0).ForceOpen(true).Show(context.Background())
	require.NoError(t, err)

	occupant, ok := nav.IsLayerOccupied(layerBase, 0)
	require.True(t, ok)
	assert.Same(t, menu, occupant)

	assert.Equal(t, StateInPool, settings.State())
	assert.Equal(t, 1, nav.PoolCount("settings"))
	assert.Contains(t, bodyOf(t, settings).Calls(), "OnHidden")
}

// An animating occupant is evicted without waiting for its hide animation.
func TestShowEvictsAnimatingOccupant(t *testing.T) {
	anim := make(chan *Signal, 4)
	nav := newTestNavigator(t, Options{}, anim)
	ctx := context.Background()

	shown := showAsync(nav, ShowRequest{Type: "dialog", Manager: 0, Layer: layerModal})
	receive(t, anim).Resolve()
	dialog := receive(t, shown).inst
	require.NotNil(t, dialog)

	hidden := errAsync(func() error { return nav.Hide(ctx, dialog, false) })
	hideSig := receive(t, anim)
	assert.True(t, dialog.HasState(StateInHideAnimation))

	toast := show(t, nav, "toast", layerModal)
	require.NoError(t, receive(t, hidden))

	assert.True(t, hideSig.Resolved(), "eviction resolves the pending hide")
	assert.False(t, hideSig.Resolve())
	assert.Equal(t, StateInPool, dialog.State())

	occupant, _ := nav.IsLayerOccupied(layerModal, 0)
	assert.Same(t, toast, occupant)
}

func TestShowAnimationBlocksUntilResolved(t *testing.T) {
	anim := make(chan *Signal, 4)
	nav := newTestNavigator(t, Options{}, anim)

	shown := showAsync(nav, ShowRequest{Type: "dialog", Manager: 0, Layer: layerModal})
	sig := receive(t, anim)
	pending(t, shown)

	inst, ok := nav.IsScreenActive("dialog", 0)
	require.True(t, ok)
	assert.Equal(t, StateInUse|StateInShowAnimation, inst.State())
	assert.NotContains(t, bodyOf(t, inst).Calls(), "OnShown")

	sig.Resolve()
	res := receive(t, shown)
	require.NoError(t, res.err)
	assert.Same(t, inst, res.inst)
	assert.Equal(t, StateInUse, inst.State())
	assert.Contains(t, bodyOf(t, inst).Calls(), "OnShown")
}

func TestShowCancelledWaitStillCompletes(t *testing.T) {
	anim := make(chan *Signal, 4)
	nav := newTestNavigator(t, Options{}, anim)
	ctx, cancel := context.WithCancel(context.Background())

	result := make(chan showResult, 1)
	go func() {
		inst, err := nav.Show(ctx, ShowRequest{Type: "dialog", Manager: 0, Layer: layerModal})
		result <- showResult{inst, err}
	}()
	sig := receive(t, anim)
	cancel()

	res := receive(t, result)
	assert.ErrorIs(t, res.err, context.Canceled)
	require.NotNil(t, res.inst)

	sig.Resolve()
	assert.Equal(t, StateInUse, res.inst.State())
	assert.Contains(t, bodyOf(t, res.inst).Calls(), "OnShown")
}

// Concurrent shows to one layer never leave two screens claiming it.
func TestConcurrentShowsToOneLayer(t *testing.T) {
	nav := newTestNavigator(t, Options{}, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 10 {
		for _, typ := range []ScreenType{"menu", "settings"} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = nav.Show(ctx, ShowRequest{Type: typ, Manager: 0, Layer: layerBase})
			}()
		}
	}
	wg.Wait()

	active := nav.ActiveScreens(0)
	require.Len(t, active, 1)
	for _, inst := range nav.PooledScreens() {
		assert.False(t, inst.IsActive())
		assert.True(t, inst.IsPooled())
	}
	assert.LessOrEqual(t, len(nav.PooledScreens()), 2)
}

// Concurrent first shows of one type load it once.
func TestConcurrentShowsLoadOnce(t *testing.T) {
	loader := newCountingLoader()
	nav := newTestNavigator(t, Options{Loader: loader}, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]*Instance, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = nav.Show(ctx, ShowRequest{Type: "popup", Manager: 0, Layer: layerPopup})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, loader.Loads("popup"))
	for _, inst := range results {
		assert.Same(t, results[0], inst)
	}
}

func TestActiveTypedLookup(t *testing.T) {
	nav := newTestNavigator(t, Options{}, nil)
	inst := show(t, nav, "menu", layerBase)

	body, ok := Active[*testScreen](nav, "menu", 0)
	require.True(t, ok)
	assert.Same(t, inst.Screen(), body)

	_, ok = Active[*testScreen](nav, "settings", 0)
	assert.False(t, ok)

	_, ok = Active[string](nav, "menu", 0)
	assert.False(t, ok)
}

// setupScreen runs before during BeforeSetup.
type setupScreen struct {
	testScreen
	before func()
}

func (s *setupScreen) BeforeSetup() {
	s.testScreen.BeforeSetup()
	if s.before != nil {
		s.before()
	}
}

func TestShowUnloadedWhilePlacedIsDetached(t *testing.T) {
	layout := newRecordingLayout()
	nav := New(Options{Layout: layout})
	t.Cleanup(func() { _ = nav.Close(context.Background()) })
	ctx := context.Background()

	body := &setupScreen{}
	require.NoError(t, nav.RegisterManager(0, []Layer{"base"},
		Direct("menu", func() (Visual, error) { return body, nil }),
	))

	menu := show(t, nav, "menu", layerBase)
	require.NoError(t, nav.Hide(ctx, menu, true))
	_, attached := layout.LayerOf(menu.Visual())
	require.False(t, attached)

	body.before = func() { assert.NoError(t, nav.Unload(ctx, menu, true)) }
	inst, err := nav.Show(ctx, ShowRequest{Type: "menu", Manager: 0, Layer: layerBase})
	require.ErrorIs(t, err, ErrLoadFailure)
	assert.Nil(t, inst)

	_, attached = layout.LayerOf(menu.Visual())
	assert.False(t, attached)
	assert.True(t, body.Destroyed())
	_, active := nav.IsScreenActive("menu", 0)
	assert.False(t, active)
	assert.Zero(t, nav.PoolCount("menu"))
}
