package screenstack

import (
	"fmt"

	"github.com/BrandonKowalski/screenstack/pkg/screenstack/constants"
)

// managerRecord is one navigation domain: its ordered layers and the
// descriptors of the screens it can show.
type managerRecord struct {
	id          int
	layers      []Layer
	descriptors map[ScreenType]*Descriptor
}

func (m *managerRecord) validLayer(layer int) bool {
	return layer >= 0 && layer < len(m.layers)
}

// managerTable holds manager records, a per-tag descriptor index and the
// number of live instances per descriptor. Not safe for concurrent use.
type managerTable struct {
	managers map[int]*managerRecord
	tagIndex map[constants.Tag][]*Descriptor
	loaded   map[*Descriptor]int
}

func newManagerTable() *managerTable {
	return &managerTable{
		managers: make(map[int]*managerRecord),
		tagIndex: make(map[constants.Tag][]*Descriptor),
		loaded:   make(map[*Descriptor]int),
	}
}

func (t *managerTable) register(id int, layers []Layer, descs []*Descriptor) error {
	rec := &managerRecord{
		id:          id,
		layers:      append([]Layer(nil), layers...),
		descriptors: make(map[ScreenType]*Descriptor, len(descs)),
	}
	for _, d := range descs {
		if err := d.Validate(); err != nil {
			return err
		}
		if _, dup := rec.descriptors[d.Type]; dup {
			return fmt.Errorf("manager %d: screen %s registered twice", id, d.Type)
		}
		rec.descriptors[d.Type] = d
	}

	if old, ok := t.managers[id]; ok {
		t.purge(old)
	}
	t.managers[id] = rec
	for _, d := range rec.descriptors {
		t.tagIndex[d.Tag] = append(t.tagIndex[d.Tag], d)
	}
	return nil
}

func (t *managerTable) unregister(id int) bool {
	rec, ok := t.managers[id]
	if !ok {
		return false
	}
	t.purge(rec)
	delete(t.managers, id)
	return true
}

func (t *managerTable) purge(rec *managerRecord) {
	for _, d := range rec.descriptors {
		t.untag(d)
		delete(t.loaded, d)
	}
}

func (t *managerTable) untag(d *Descriptor) {
	list := t.tagIndex[d.Tag]
	for i, other := range list {
		if other == d {
			t.tagIndex[d.Tag] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(t.tagIndex[d.Tag]) == 0 {
		delete(t.tagIndex, d.Tag)
	}
}

// addDescriptor registers or replaces one descriptor on an existing manager.
func (t *managerTable) addDescriptor(id int, d *Descriptor) error {
	rec, ok := t.managers[id]
	if !ok {
		return newError("register", ErrManagerNotFound, id, -1, d.Type, nil)
	}
	if err := d.Validate(); err != nil {
		return err
	}
	if old, ok := rec.descriptors[d.Type]; ok {
		t.untag(old)
		delete(t.loaded, old)
	}
	rec.descriptors[d.Type] = d
	t.tagIndex[d.Tag] = append(t.tagIndex[d.Tag], d)
	return nil
}

func (t *managerTable) removeDescriptor(id int, st ScreenType) bool {
	rec, ok := t.managers[id]
	if !ok {
		return false
	}
	d, ok := rec.descriptors[st]
	if !ok {
		return false
	}
	t.untag(d)
	delete(t.loaded, d)
	delete(rec.descriptors, st)
	return true
}

func (t *managerTable) get(id int) (*managerRecord, bool) {
	rec, ok := t.managers[id]
	return rec, ok
}

func (t *managerTable) descriptor(id int, st ScreenType) (*Descriptor, bool) {
	rec, ok := t.managers[id]
	if !ok {
		return nil, false
	}
	d, ok := rec.descriptors[st]
	return d, ok
}

func (t *managerTable) byTag(tag constants.Tag) []*Descriptor {
	return append([]*Descriptor(nil), t.tagIndex[tag]...)
}

func (t *managerTable) markLoaded(d *Descriptor) {
	t.loaded[d]++
}

// markUnloaded returns the number of live instances left for d.
func (t *managerTable) markUnloaded(d *Descriptor) int {
	n, ok := t.loaded[d]
	if !ok {
		return 0
	}
	n--
	if n <= 0 {
		delete(t.loaded, d)
		return 0
	}
	t.loaded[d] = n
	return n
}

func (t *managerTable) ids() []int {
	out := make([]int, 0, len(t.managers))
	for id := range t.managers {
		out = append(out, id)
	}
	return out
}
