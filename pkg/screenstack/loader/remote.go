package loader

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	_ "github.com/BrandonKowalski/certifiable" // Add CA certificates to the default trust store

	"github.com/BrandonKowalski/screenstack/pkg/screenstack"
	"github.com/BrandonKowalski/screenstack/pkg/screenstack/constants"
	"golang.org/x/sync/singleflight"
)

const (
	defaultRemoteTimeout = 30 * time.Second
	maxRemoteBytes       = 16 << 20
)

// Remote loads LoadRemote descriptors from a content server. The fetched bytes
// of each descriptor are cached and shared by every instance loaded from it
// until Release; concurrent first fetches of one descriptor share a single
// request. A shared request runs under the client timeout, not the context of
// whichever caller started it.
type Remote struct {
	BaseURL string
	Client  *http.Client
	Size    image.Point

	group singleflight.Group

	mu       sync.Mutex
	cache    map[*screenstack.Descriptor][]byte
	releases map[*screenstack.Descriptor]uint64
}

func NewRemote(baseURL string, size image.Point) *Remote {
	return &Remote{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: defaultRemoteTimeout},
		Size:    size,
		cache:   make(map[*screenstack.Descriptor][]byte),

		releases: make(map[*screenstack.Descriptor]uint64),
	}
}

func (r *Remote) Load(ctx context.Context, d *screenstack.Descriptor) (screenstack.Visual, error) {
	if d.Source.Kind != constants.LoadRemote {
		return nil, fmt.Errorf("remote loader cannot load %s sources", d.Source.Kind)
	}

	data, err := r.content(ctx, d)
	if err != nil {
		return nil, err
	}
	return Decode(d.Source.Key, data, r.Size)
}

func (r *Remote) content(ctx context.Context, d *screenstack.Descriptor) ([]byte, error) {
	r.mu.Lock()
	data, ok := r.cache[d]
	r.mu.Unlock()
	if ok {
		return data, nil
	}

	ch := r.group.DoChan(fmt.Sprintf("%p", d), func() (any, error) {
		r.mu.Lock()
		gen := r.releases[d]
		r.mu.Unlock()

		body, err := r.fetch(context.WithoutCancel(ctx), d.Source.Key)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		// A Release during the fetch drops this content.
		if r.releases[d] == gen {
			if r.cache == nil {
				r.cache = make(map[*screenstack.Descriptor][]byte)
			}
			r.cache[d] = body
		}
		r.mu.Unlock()
		return body, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *Remote) fetch(ctx context.Context, key string) ([]byte, error) {
	target, err := url.JoinPath(r.BaseURL, key)
	if err != nil {
		return nil, fmt.Errorf("remote key %q: %w", key, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", key, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return body, nil
}

// Release forgets the cached content of d. Releasing twice is a no-op.
func (r *Remote) Release(d *screenstack.Descriptor) {
	r.mu.Lock()
	delete(r.cache, d)
	if r.releases == nil {
		r.releases = make(map[*screenstack.Descriptor]uint64)
	}
	r.releases[d]++
	r.mu.Unlock()
}

// Cached reports whether content for d is held.
func (r *Remote) Cached(d *screenstack.Descriptor) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.cache[d]
	return ok
}

func (r *Remote) Destroy(v screenstack.Visual) {
	destroy(v)
}
