package sdlview

import "github.com/veandco/go-sdl2/sdl"

const defaultMaxCacheSize = 16

// textureCache keeps uploaded textures for placed artwork, evicting the least
// recently used texture once full. Not safe for concurrent use.
type textureCache[T comparable] struct {
	textures map[string]T
	order    []string // insertion order for LRU eviction
	maxSize  int
	destroy  func(T)
}

func newTextureCache(maxSize int) *textureCache[*sdl.Texture] {
	return newCache(maxSize, func(t *sdl.Texture) {
		if t != nil {
			_ = t.Destroy()
		}
	})
}

func newCache[T comparable](maxSize int, destroy func(T)) *textureCache[T] {
	if maxSize <= 0 {
		maxSize = defaultMaxCacheSize
	}
	return &textureCache[T]{
		textures: make(map[string]T),
		order:    make([]string, 0, maxSize),
		maxSize:  maxSize,
		destroy:  destroy,
	}
}

func (c *textureCache[T]) get(key string) (T, bool) {
	texture, exists := c.textures[key]
	if exists {
		c.moveToEnd(key)
	}
	return texture, exists
}

func (c *textureCache[T]) set(key string, texture T) {
	if old, exists := c.textures[key]; exists {
		if old != texture {
			c.destroy(old)
		}
		c.textures[key] = texture
		c.moveToEnd(key)
		return
	}

	if len(c.order) >= c.maxSize {
		c.evictOldest()
	}

	c.textures[key] = texture
	c.order = append(c.order, key)
}

// drop destroys the texture for key, if any.
func (c *textureCache[T]) drop(key string) {
	texture, exists := c.textures[key]
	if !exists {
		return
	}
	c.destroy(texture)
	delete(c.textures, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *textureCache[T]) moveToEnd(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, key)
			return
		}
	}
}

func (c *textureCache[T]) evictOldest() {
	if len(c.order) == 0 {
		return
	}

	oldest := c.order[0]
	c.order = c.order[1:]

	if texture, exists := c.textures[oldest]; exists {
		c.destroy(texture)
		delete(c.textures, oldest)
	}
}

func (c *textureCache[T]) len() int {
	return len(c.textures)
}

func (c *textureCache[T]) clear() {
	for _, texture := range c.textures {
		c.destroy(texture)
	}
	c.textures = make(map[string]T)
	c.order = c.order[:0]
}
