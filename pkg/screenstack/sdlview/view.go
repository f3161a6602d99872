// Package sdlview is a screenstack.LayoutAdapter that draws loader.Art
// visuals into the regions of an SDL2 window.
//
// # Basic Usage
//
//	view, err := sdlview.Open("My App", 1024, 768, sdlview.WindowOptions{})
//	defer view.Close()
//
//	nav := screenstack.New(screenstack.Options{
//	    Loader: view.Loader(loader.NewMux(loader.NewResource(assets, image.Point{}), nil)),
//	    Layout: view,
//	})
//	_ = nav.RegisterManager(0, sdlview.Stack(1024, 768, "base", "popup"), descriptors...)
//
//	for running {
//	    _ = view.Render()
//	}
//
// Render and Close must be called from the goroutine that called Open.
// Attach and Detach may be called from any goroutine.
package sdlview

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	"github.com/BrandonKowalski/screenstack/pkg/screenstack"
	"github.com/BrandonKowalski/screenstack/pkg/screenstack/internal"
	"github.com/BrandonKowalski/screenstack/pkg/screenstack/loader"
	"github.com/veandco/go-sdl2/img"
	"github.com/veandco/go-sdl2/sdl"
)

type View struct {
	Window   *sdl.Window
	Renderer *sdl.Renderer

	mu      sync.Mutex
	scene   *scene
	cache   *textureCache[*sdl.Texture]
	retired []string // textures to drop on the render goroutine
	log     *slog.Logger

	clear      sdl.Color
	background *sdl.Texture
}

// Open initializes SDL video and creates a window and renderer.
func Open(title string, width, height int32, opts WindowOptions) (*View, error) {
	log := internal.GetInternalLogger()

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("init sdl: %w", err)
	}

	log.Debug("Initializing SDL Window", "width", width, "height", height)

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, width, height, opts.sdlFlags())
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		log.Error("Failed to create renderer", "error", err)
		_ = window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("create renderer: %w", err)
	}
	_ = renderer.SetLogicalSize(width, height)

	v := &View{
		Window:   window,
		Renderer: renderer,
		scene:    newScene(),
		cache:    newTextureCache(opts.CacheSize),
		log:      log,
		clear:    opts.clearColor(),
	}
	v.loadBackground(opts.BackgroundImage)
	return v, nil
}

func (v *View) loadBackground(path string) {
	if path == "" {
		return
	}
	img.Init(img.INIT_PNG | img.INIT_JPG)

	texture, err := img.LoadTexture(v.Renderer, path)
	if err != nil {
		v.log.Warn("Failed to load background image", "path", path, "error", err)
		return
	}
	v.background = texture
}

// Attach places an *loader.Art visual in a Region layer, filling its bounds.
// Other visuals and layer handles are ignored.
func (v *View) Attach(visual screenstack.Visual, layer screenstack.Layer) {
	art, ok := visual.(*loader.Art)
	if !ok {
		return
	}
	region, ok := regionOf(layer)
	if !ok {
		v.log.Warn("Layer is not an sdlview region", "art", art.Name, "layer", fmt.Sprintf("%T", layer))
		return
	}

	v.mu.Lock()
	v.scene.attach(art, region)
	v.mu.Unlock()
}

func (v *View) Detach(visual screenstack.Visual) {
	art, ok := visual.(*loader.Art)
	if !ok {
		return
	}
	v.mu.Lock()
	v.scene.detach(art)
	v.mu.Unlock()
}

// Forget drops the uploaded texture of a visual. It is called for every
// visual destroyed through the loader returned by Loader.
func (v *View) Forget(visual screenstack.Visual) {
	art, ok := visual.(*loader.Art)
	if !ok {
		return
	}
	v.mu.Lock()
	v.scene.detach(art)
	v.retired = append(v.retired, textureKey(art))
	v.mu.Unlock()
}

// Loader wraps l so that destroying a visual also releases its texture.
func (v *View) Loader(l screenstack.ContentLoader) screenstack.ContentLoader {
	return &forgettingLoader{ContentLoader: l, view: v}
}

type forgettingLoader struct {
	screenstack.ContentLoader
	view *View
}

func (f *forgettingLoader) Destroy(visual screenstack.Visual) {
	f.view.Forget(visual)
	f.ContentLoader.Destroy(visual)
}

func textureKey(art *loader.Art) string {
	return fmt.Sprintf("%p", art)
}

// Render clears the window, draws every placed visual in stacking order and
// presents the frame.
func (v *View) Render() error {
	v.mu.Lock()
	for _, key := range v.retired {
		v.cache.drop(key)
	}
	v.retired = v.retired[:0]
	items := v.scene.ordered()
	v.mu.Unlock()

	_ = v.Renderer.SetDrawColor(v.clear.R, v.clear.G, v.clear.B, v.clear.A)
	if err := v.Renderer.Clear(); err != nil {
		return err
	}
	if v.background != nil {
		_ = v.Renderer.Copy(v.background, nil, nil)
	}

	for _, p := range items {
		texture, err := v.texture(p.art)
		if err != nil {
			v.log.Error("Failed to upload texture", "art", p.art.Name, "error", err)
			continue
		}
		if texture == nil {
			continue
		}
		bounds := p.region.Bounds
		if err := v.Renderer.Copy(texture, nil, &bounds); err != nil {
			return err
		}
	}

	v.Renderer.Present()
	return nil
}

func (v *View) texture(art *loader.Art) (*sdl.Texture, error) {
	key := textureKey(art)
	if t, ok := v.cache.get(key); ok {
		return t, nil
	}

	img := art.Image
	if img == nil || len(img.Pix) == 0 || art.Destroyed() {
		return nil, nil
	}

	b := img.Bounds()
	surface, err := sdl.CreateRGBSurfaceWithFormatFrom(unsafe.Pointer(&img.Pix[0]),
		int32(b.Dx()), int32(b.Dy()), 32, int32(img.Stride), sdl.PIXELFORMAT_ABGR8888)
	if err != nil {
		return nil, err
	}
	defer surface.Free()

	texture, err := v.Renderer.CreateTextureFromSurface(surface)
	if err != nil {
		return nil, err
	}
	v.cache.set(key, texture)
	return texture, nil
}

// Placed reports how many visuals are currently attached.
func (v *View) Placed() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scene.len()
}

// Close destroys every texture, the renderer and the window, and shuts SDL down.
func (v *View) Close() {
	v.mu.Lock()
	v.cache.clear()
	v.mu.Unlock()

	if v.background != nil {
		_ = v.background.Destroy()
		img.Quit()
	}
	_ = v.Renderer.Destroy()
	_ = v.Window.Destroy()
	sdl.Quit()
}
