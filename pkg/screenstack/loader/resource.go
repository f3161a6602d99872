package loader

import (
	"context"
	"fmt"
	"image"
	"io/fs"

	"github.com/BrandonKowalski/screenstack/pkg/screenstack"
	"github.com/BrandonKowalski/screenstack/pkg/screenstack/constants"
)

// Resource loads LoadResource descriptors from a file system, typically an
// embed.FS bundled with the application or os.DirFS of an asset directory.
type Resource struct {
	FS   fs.FS
	Size image.Point // Target size; zero keeps the artwork's own size
}

func NewResource(fsys fs.FS, size image.Point) *Resource {
	return &Resource{FS: fsys, Size: size}
}

func (r *Resource) Load(ctx context.Context, d *screenstack.Descriptor) (screenstack.Visual, error) {
	if d.Source.Kind != constants.LoadResource {
		return nil, fmt.Errorf("resource loader cannot load %s sources", d.Source.Kind)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(r.FS, d.Source.Path)
	if err != nil {
		return nil, err
	}
	return Decode(d.Source.Path, data, r.Size)
}

// Release is a no-op: resources are read fresh for every load.
func (r *Resource) Release(*screenstack.Descriptor) {}

func (r *Resource) Destroy(v screenstack.Visual) {
	destroy(v)
}

func destroy(v screenstack.Visual) {
	if d, ok := v.(screenstack.Destroyer); ok {
		d.Destroy()
	}
}
