package store

import (
	"github.com/arthur-debert/dirstore/pkg/errors"
	"github.com/arthur-debert/dirstore/pkg/paths"
	"github.com/arthur-debert/dirstore/pkg/types"
)

// saveValue persists a logical value at path: scalars become leaf
// files, containers become child trees with their own root paths,
// locks, and caches.
func (t *tree) saveValue(path string, v any) error {
	s, err := classify(v)
	if err != nil {
		return err
	}
	if s == shapeScalar {
		data, err := encodeScalar(v)
		if err != nil {
			return err
		}
		return t.writeFile(path, data)
	}
	_, err = createValue(t.fs, path, v, t.opts)
	return err
}

// loadValue reconstructs the logical value stored at path. A directory
// entry is a nested container and comes back as a live handle; a file
// entry decodes to its scalar.
func (t *tree) loadValue(path string) (any, error) {
	info, err := t.fs.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStorage, "cannot stat entry %s", path)
	}
	if info.IsDir() {
		return openValue(t.fs, path, t.opts)
	}
	data, err := t.readFile(path)
	if err != nil {
		return nil, err
	}
	return decodeScalar(data)
}

// createValue persists a logical container value as a fresh tree rooted
// at path, recursing for nested members. The child container takes its
// own lock for each write, nesting inside whichever lock the caller
// already holds; root paths form a tree, so the outer-then-inner order
// never cycles.
func createValue(fsys types.FS, path string, v any, opts Options) (any, error) {
	s, err := classify(v)
	if err != nil {
		return nil, err
	}
	switch s {
	case shapeMap:
		m, err := OpenMap(fsys, path, opts)
		if err != nil {
			return nil, err
		}
		if err := m.c.materializeRoot(); err != nil {
			return nil, err
		}
		if err := m.fill(v); err != nil {
			return nil, err
		}
		return m, nil
	case shapeSet:
		set, err := OpenSet(fsys, path, opts)
		if err != nil {
			return nil, err
		}
		if err := set.c.materializeRoot(); err != nil {
			return nil, err
		}
		if err := set.fill(v); err != nil {
			return nil, err
		}
		return set, nil
	case shapeSeq:
		q, err := OpenSeq(fsys, path, opts)
		if err != nil {
			return nil, err
		}
		if err := q.c.materializeRoot(); err != nil {
			return nil, err
		}
		if err := q.fill(v); err != nil {
			return nil, err
		}
		return q, nil
	default:
		return nil, errors.Newf(errors.ErrValueKind,
			"scalar value cannot form a container tree at %s", path)
	}
}

// requireFresh fails unless path can hold a brand-new container: no
// kind marker and no entries.
func requireFresh(fsys types.FS, path string) error {
	canon, err := paths.Canonicalize(path)
	if err != nil {
		return err
	}
	_, found, err := readTreeKind(fsys, canon)
	if err != nil {
		return err
	}
	if found {
		return errors.Newf(errors.ErrValueKind, "%s already holds a container", canon)
	}
	return requireAdoptable(fsys, canon)
}

// CreateFrom materializes a plain container value as a new tree rooted
// at path, returning the matching handle (*Map for maps, *Set for
// types.Set, *Seq for slices and arrays). The path must not already
// hold a container.
func CreateFrom(fsys types.FS, path string, value any, opts Options) (any, error) {
	if err := requireFresh(fsys, path); err != nil {
		return nil, err
	}
	return createValue(fsys, path, value, opts.withDefaults())
}

// CreateMapFrom materializes a plain map value as a new map tree rooted
// at path.
func CreateMapFrom(fsys types.FS, path string, value any, opts Options) (*Map, error) {
	s, err := classify(value)
	if err != nil {
		return nil, err
	}
	if s != shapeMap {
		return nil, errors.Newf(errors.ErrValueKind, "value of type %T is not a map", value)
	}
	h, err := CreateFrom(fsys, path, value, opts)
	if err != nil {
		return nil, err
	}
	return h.(*Map), nil
}

// CreateSetFrom materializes a types.Set value as a new set tree rooted
// at path.
func CreateSetFrom(fsys types.FS, path string, value any, opts Options) (*Set, error) {
	s, err := classify(value)
	if err != nil {
		return nil, err
	}
	if s != shapeSet {
		return nil, errors.Newf(errors.ErrValueKind, "value of type %T is not a set", value)
	}
	h, err := CreateFrom(fsys, path, value, opts)
	if err != nil {
		return nil, err
	}
	return h.(*Set), nil
}

// CreateSeqFrom materializes a plain slice or array value as a new
// sequence tree rooted at path.
func CreateSeqFrom(fsys types.FS, path string, value any, opts Options) (*Seq, error) {
	s, err := classify(value)
	if err != nil {
		return nil, err
	}
	if s != shapeSeq {
		return nil, errors.Newf(errors.ErrValueKind, "value of type %T is not a sequence", value)
	}
	h, err := CreateFrom(fsys, path, value, opts)
	if err != nil {
		return nil, err
	}
	return h.(*Seq), nil
}

// materializeRoot writes the root directory and kind marker for a
// container that must exist on disk even while empty.
func (c *coll) materializeRoot() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if err := c.requireValid(); err != nil {
		return err
	}
	return c.ensureRoot()
}

// Materialize resolves a value read from a container into plain data:
// nested handles become map[any]any, types.Set, or []any, recursively.
// Scalars pass through unchanged. The result shares nothing with the
// store.
func Materialize(v any) (any, error) {
	switch h := v.(type) {
	case *Map:
		keys, err := h.Keys()
		if err != nil {
			return nil, err
		}
		out := make(map[any]any, len(keys))
		for _, k := range keys {
			child, err := h.Get(k)
			if err != nil {
				return nil, err
			}
			plain, err := Materialize(child)
			if err != nil {
				return nil, err
			}
			out[k] = plain
		}
		return out, nil
	case *Set:
		members, err := h.Members()
		if err != nil {
			return nil, err
		}
		out := types.NewSet()
		for _, member := range members {
			out.Add(member)
		}
		return out, nil
	case *Seq:
		items, err := h.Values()
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, len(items))
		for _, item := range items {
			plain, err := Materialize(item)
			if err != nil {
				return nil, err
			}
			out = append(out, plain)
		}
		return out, nil
	default:
		return v, nil
	}
}
