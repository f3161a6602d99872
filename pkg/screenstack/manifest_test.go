package screenstack

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BrandonKowalski/screenstack/pkg/screenstack/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `
[[managers]]
id = 0
layers = ["base", "popup"]

  [[managers.screens]]
  type = "library"
  kind = "resource"
  path = "screens/library.svg"
  history = true

  [[managers.screens]]
  type = "confirm"
  layer = 1
  tag = "Dialog"
  show_animation = true

[[managers]]
id = 1
layers = ["hud"]

  [[managers.screens]]
  type = "ticker"
  kind = "remote"
  key = "ticker.png"
  tag = "hud"
`

func TestDecodeManifest(t *testing.T) {
	m, err := DecodeManifest(strings.NewReader(sampleManifest))
	require.NoError(t, err)
	require.Len(t, m.Managers, 2)

	mgr := m.Managers[0]
	assert.Equal(t, []string{"base", "popup"}, mgr.Layers)
	require.Len(t, mgr.Screens, 2)

	library := mgr.Screens[0]
	assert.Equal(t, constants.LoadResource, library.Kind)
	assert.Equal(t, "screens/library.svg", library.Path)
	assert.True(t, library.History)

	confirm := mgr.Screens[1]
	assert.Equal(t, constants.LoadDirect, confirm.Kind)
	assert.Equal(t, constants.TagDialog, confirm.Tag)
	assert.Equal(t, 1, confirm.Layer)
	assert.True(t, confirm.ShowAnimation)
	assert.False(t, confirm.HideAnimation)

	assert.Equal(t, constants.TagHUD, m.Managers[1].Screens[0].Tag)
	assert.NoError(t, m.Validate())
}

func TestDecodeManifestRejectsUnknownKeys(t *testing.T) {
	_, err := DecodeManifest(strings.NewReader("[[managers]]\nid = 0\nlayer = [\"base\"]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "managers.layer")

	_, err = DecodeManifest(strings.NewReader("[[managers]]\nid = 0\n[[managers.screens]]\ntype = \"a\"\ntag = \"Sidebar\"\n"))
	assert.Error(t, err)
}

func TestManifestValidateReportsEveryProblem(t *testing.T) {
	m := &Manifest{Managers: []ManifestManager{
		{ID: 0, Layers: []string{"base"}, Screens: []ManifestScreen{
			{Type: "a"},
			{Type: "a"},
			{Type: "b", Layer: 2},
			{Type: "c", Kind: constants.LoadRemote},
		}},
		{ID: 0},
		{ID: 1},
	}}

	err := m.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidLayer)
	assert.ErrorIs(t, err, ErrInvalidSource)

	msg := err.Error()
	assert.Contains(t, msg, "screen a declared twice")
	assert.Contains(t, msg, "manager 0: declared twice")
	assert.Contains(t, msg, "manager 1: no layers")
}

func TestManifestApply(t *testing.T) {
	m, err := DecodeManifest(strings.NewReader(sampleManifest))
	require.NoError(t, err)

	loader := newCountingLoader()
	nav := New(Options{Loader: loader})
	t.Cleanup(func() { _ = nav.Close(context.Background()) })

	err = m.Apply(nav, ManifestBindings{
		Layer: func(manager int, name string) Layer { return fmt.Sprintf("%d:%s", manager, name) },
		Instantiate: func(ScreenType) func() (Visual, error) {
			return newScreen(nil)
		},
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []int{0, 1}, nav.Managers())
	assert.Equal(t, 2, nav.LayerCount(0))
	assert.True(t, nav.HasConfig("confirm", 0))
	assert.False(t, nav.HasConfig("confirm", 1))

	d, ok := nav.Descriptor(0, "library")
	require.True(t, ok)
	assert.True(t, d.AddToHistory)
	assert.Len(t, nav.DescriptorsByTag(constants.TagDialog), 1)

	confirm, err := nav.Open("confirm", 0).Show(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, confirm.Layer())
	assert.Equal(t, constants.TagDialog, confirm.Tag())
}

func TestManifestApplyWithoutInstantiateFails(t *testing.T) {
	m, err := DecodeManifest(strings.NewReader(sampleManifest))
	require.NoError(t, err)

	nav := New(Options{})
	t.Cleanup(func() { _ = nav.Close(context.Background()) })
	assert.ErrorIs(t, m.Apply(nav, ManifestBindings{}), ErrInvalidSource)
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screens.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleManifest), 0o644))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Len(t, m.Managers, 2)

	_, err = LoadManifest(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "open manifest")
}
