package store

import (
	"path/filepath"
	"reflect"
	"strconv"

	"github.com/arthur-debert/dirstore/pkg/errors"
)

// Seq is a persistent ordered sequence, stored as a directory tree with
// one entry per element named by its decimal position. Indices may be
// negative to count from the end. The sequence keeps no presence
// caches: positions shift on insert and delete, and the cached length
// already answers every range question.
type Seq struct {
	handle
}

func (q *Seq) be() *seqBackend { return q.c.be.(*seqBackend) }

// normalizeIndex resolves a possibly negative index against the current
// length. The container lock must be held.
func (q *Seq) normalizeIndex(i int) (int, error) {
	n, err := q.c.lenLocked()
	if err != nil {
		return 0, err
	}
	idx := i
	if idx < 0 {
		idx += n
	}
	if idx < 0 || idx >= n {
		return 0, errors.Newf(errors.ErrNotFound,
			"index %d out of range for length %d", i, n)
	}
	return idx, nil
}

// Append adds value at the end of the sequence.
func (q *Seq) Append(value any) error {
	if _, err := classify(value); err != nil {
		return err
	}

	q.c.lock.Lock()
	defer q.c.lock.Unlock()
	if err := q.c.requireValid(); err != nil {
		return err
	}
	if err := q.c.ensureRoot(); err != nil {
		return err
	}

	n, err := q.c.lenLocked()
	if err != nil {
		return err
	}
	if err := q.c.saveValue(q.be().entryPath(n), value); err != nil {
		return err
	}
	q.c.length = n + 1
	return nil
}

// Insert places value at index i, shifting that element and every later
// one up by one position. Indices past either end clamp, so Insert
// never fails on range.
func (q *Seq) Insert(i int, value any) error {
	if _, err := classify(value); err != nil {
		return err
	}

	q.c.lock.Lock()
	defer q.c.lock.Unlock()
	if err := q.c.requireValid(); err != nil {
		return err
	}
	if err := q.c.ensureRoot(); err != nil {
		return err
	}

	n, err := q.c.lenLocked()
	if err != nil {
		return err
	}
	idx := i
	if idx < 0 {
		idx += n
	}
	if idx < 0 {
		idx = 0
	}
	if idx > n {
		idx = n
	}
	// shift from the end so every rename lands on a vacant name
	for j := n - 1; j >= idx; j-- {
		if err := q.be().move(j, j+1); err != nil {
			return err
		}
	}
	if err := q.c.saveValue(q.be().entryPath(idx), value); err != nil {
		return err
	}
	q.c.length = n + 1
	return nil
}

// At returns the element at index i. Nested containers come back as
// live handles; out-of-range indices fail with ErrNotFound.
func (q *Seq) At(i int) (any, error) {
	q.c.lock.Lock()
	defer q.c.lock.Unlock()
	if err := q.c.requireValid(); err != nil {
		return nil, err
	}

	idx, err := q.normalizeIndex(i)
	if err != nil {
		return nil, err
	}
	return q.c.loadValue(q.be().entryPath(idx))
}

// SetAt replaces the element at index i.
func (q *Seq) SetAt(i int, value any) error {
	if _, err := classify(value); err != nil {
		return err
	}

	q.c.lock.Lock()
	defer q.c.lock.Unlock()
	if err := q.c.requireValid(); err != nil {
		return err
	}

	idx, err := q.normalizeIndex(i)
	if err != nil {
		return err
	}
	p := q.be().entryPath(idx)
	info, err := q.c.fs.Stat(p)
	if err == nil {
		if err := q.c.removeSubtree(p, info.IsDir()); err != nil {
			return err
		}
	} else if !isNotExist(err) {
		return errors.Wrapf(err, errors.ErrStorage, "cannot stat entry %s", p)
	}
	return q.c.saveValue(p, value)
}

// Delete removes the element at index i, shifting every later element
// down by one position.
func (q *Seq) Delete(i int) error {
	q.c.lock.Lock()
	defer q.c.lock.Unlock()
	if err := q.c.requireValid(); err != nil {
		return err
	}

	idx, err := q.normalizeIndex(i)
	if err != nil {
		return err
	}
	n := q.c.length
	p := q.be().entryPath(idx)
	info, err := q.c.fs.Stat(p)
	if err != nil {
		return errors.Wrapf(err, errors.ErrStorage, "cannot stat entry %s", p)
	}
	if err := q.c.removeSubtree(p, info.IsDir()); err != nil {
		return err
	}
	for j := idx + 1; j < n; j++ {
		if err := q.be().move(j, j-1); err != nil {
			return err
		}
	}
	q.c.length = n - 1
	return nil
}

// Values returns every element in order. Nested containers come back as
// live handles.
func (q *Seq) Values() ([]any, error) {
	q.c.lock.Lock()
	defer q.c.lock.Unlock()
	if err := q.c.requireValid(); err != nil {
		return nil, err
	}

	n, err := q.c.lenLocked()
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, n)
	for i := 0; i < n; i++ {
		v, err := q.c.loadValue(q.be().entryPath(i))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// fill copies the elements of a plain slice or array value into the
// container.
func (q *Seq) fill(v any) error {
	rv := reflect.ValueOf(v)
	for i := 0; i < rv.Len(); i++ {
		if err := q.Append(rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	return nil
}

// seqBackend stores one entry per element at the tree root, named by
// its decimal position.
type seqBackend struct {
	t *tree
}

func (b *seqBackend) entryPath(i int) string {
	return filepath.Join(b.t.root, strconv.Itoa(i))
}

// move renames the entry at position from to position to. A nested
// container changes identity when its root path changes, so live
// handles over it are invalidated; the element is reachable again
// through the parent at its new position.
func (b *seqBackend) move(from, to int) error {
	src, dst := b.entryPath(from), b.entryPath(to)
	info, err := b.t.fs.Stat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrStorage, "cannot stat entry %s", src)
	}
	if info.IsDir() {
		invalidateTree(src)
	}
	if err := b.t.fs.Rename(src, dst); err != nil {
		return errors.Wrapf(err, errors.ErrStorage, "cannot move entry %s to %s", src, dst)
	}
	return nil
}

func (b *seqBackend) count() (int, error) {
	entries, err := b.t.listDir(b.t.root)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}
