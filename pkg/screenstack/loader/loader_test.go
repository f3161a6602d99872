package loader

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"runtime"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/BrandonKowalski/screenstack/pkg/screenstack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 40 20">
  <rect x="0" y="0" width="40" height="20" fill="#ff0000"/>
</svg>`

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{G: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeSVGUsesViewBox(t *testing.T) {
	art, err := Decode("menu.svg", []byte(testSVG), image.Point{})
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 40, 20), art.Image.Bounds())
	r, _, _, a := art.Image.At(20, 10).RGBA()
	assert.NotZero(t, r)
	assert.NotZero(t, a)
}

func TestDecodeScalesBitmap(t *testing.T) {
	art, err := Decode("bg.png", testPNG(t, 8, 8), image.Pt(16, 4))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 4), art.Image.Bounds())
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode("bg.png", []byte("not an image"), image.Point{})
	assert.Error(t, err)
}

func TestArtDestroyIsIdempotent(t *testing.T) {
	art, err := Decode("bg.png", testPNG(t, 2, 2), image.Point{})
	require.NoError(t, err)

	art.Destroy()
	art.Destroy()
	assert.True(t, art.Destroyed())
	assert.Nil(t, art.Image)
}

func TestResourceLoadsDistinctArt(t *testing.T) {
	fsys := fstest.MapFS{
		"screens/menu.svg": {Data: []byte(testSVG)},
	}
	r := NewResource(fsys, image.Pt(80, 40))
	d := screenstack.Resource("menu", "screens/menu.svg")

	first, err := r.Load(context.Background(), d)
	require.NoError(t, err)
	second, err := r.Load(context.Background(), d)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, image.Rect(0, 0, 80, 40), first.(*Art).Image.Bounds())
}

func TestResourceMissingFile(t *testing.T) {
	r := NewResource(fstest.MapFS{}, image.Point{})
	_, err := r.Load(context.Background(), screenstack.Resource("menu", "nope.svg"))
	assert.Error(t, err)
}

func TestResourceRejectsOtherKinds(t *testing.T) {
	r := NewResource(fstest.MapFS{}, image.Point{})
	_, err := r.Load(context.Background(), screenstack.Remote("menu", "menu.svg"))
	assert.Error(t, err)
}

func TestRemoteSharesOneFetch(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Inc()
		<-release
		assert.Equal(t, "/screens/shop.svg", r.URL.Path)
		_, _ = w.Write([]byte(testSVG))
	}))
	defer srv.Close()

	remote := NewRemote(srv.URL+"/screens/", image.Point{})
	d := screenstack.Remote("shop", "shop.svg")

	var wg sync.WaitGroup
	results := make([]screenstack.Visual, 4)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := remote.Load(context.Background(), d)
			assert.NoError(t, err)
			results[i] = v
		}()
	}

	// Hold the first request open so later callers find it in flight.
	for hits.Load() == 0 {
		runtime.Gosched()
	}
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, hits.Load(), int32(len(results)))
	assert.True(t, remote.Cached(d))

	// Cached content serves later loads without a request.
	before := hits.Load()
	_, err := remote.Load(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, before, hits.Load())

	remote.Release(d)
	remote.Release(d)
	assert.False(t, remote.Cached(d))
}

func TestRemoteFetchOutlivesCancelledCaller(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Inc()
		<-release
		_, _ = w.Write([]byte(testSVG))
	}))
	defer srv.Close()

	remote := NewRemote(srv.URL, image.Point{})
	d := screenstack.Remote("shop", "shop.svg")

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := remote.Load(ctx, d)
		first <- err
	}()
	for hits.Load() == 0 {
		runtime.Gosched()
	}

	second := make(chan error, 1)
	go func() {
		_, err := remote.Load(context.Background(), d)
		second <- err
	}()

	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)

	close(release)
	assert.NoError(t, <-second)
	assert.Equal(t, int32(1), hits.Load())
	assert.True(t, remote.Cached(d))
}

func TestRemoteReleaseDuringFetchDropsContent(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Inc()
		<-release
		_, _ = w.Write([]byte(testSVG))
	}))
	defer srv.Close()

	remote := NewRemote(srv.URL, image.Point{})
	d := screenstack.Remote("shop", "shop.svg")

	loaded := make(chan error, 1)
	go func() {
		_, err := remote.Load(context.Background(), d)
		loaded <- err
	}()
	for hits.Load() == 0 {
		runtime.Gosched()
	}

	remote.Release(d)
	close(release)
	require.NoError(t, <-loaded)
	assert.False(t, remote.Cached(d))
}

func TestRemoteStatusError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	remote := NewRemote(srv.URL, image.Point{})
	_, err := remote.Load(context.Background(), screenstack.Remote("shop", "shop.svg"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestMuxRoutesByKind(t *testing.T) {
	fsys := fstest.MapFS{"bg.png": {Data: testPNG(t, 4, 4)}}
	mux := NewMux(NewResource(fsys, image.Point{}), nil)

	v, err := mux.Load(context.Background(), screenstack.Resource("bg", "bg.png"))
	require.NoError(t, err)
	art := v.(*Art)

	direct, err := mux.Load(context.Background(), screenstack.Direct("title", func() (screenstack.Visual, error) {
		return "title", nil
	}))
	require.NoError(t, err)
	assert.Equal(t, "title", direct)

	_, err = mux.Load(context.Background(), screenstack.Remote("shop", "shop.svg"))
	assert.Error(t, err)

	mux.Destroy(art)
	assert.True(t, art.Destroyed())
}

func TestNavigatorWithResourceLoader(t *testing.T) {
	fsys := fstest.MapFS{"screens/menu.svg": {Data: []byte(testSVG)}}
	nav := screenstack.New(screenstack.Options{
		Loader: NewMux(NewResource(fsys, image.Point{}), nil),
	})
	require.NoError(t, nav.RegisterManager(0, []screenstack.Layer{"base"},
		screenstack.Resource("menu", "screens/menu.svg"),
	))

	inst, err := nav.Open("menu", 0).Show(context.Background())
	require.NoError(t, err)
	art := inst.Visual().(*Art)
	assert.Equal(t, "screens/menu.svg", art.Name)

	require.NoError(t, nav.Unload(context.Background(), inst, true))
	assert.True(t, art.Destroyed())
}
