package store

import (
	"path/filepath"
	"reflect"
	"strings"

	"github.com/arthur-debert/dirstore/pkg/errors"
	"github.com/arthur-debert/dirstore/pkg/paths"
)

// Map is a persistent map of scalar keys to arbitrary values, stored as
// a directory tree. Handles are safe for concurrent use within the
// process; all operations on the same root path serialize on one lock.
type Map struct {
	handle
}

func (m *Map) be() *mapBackend { return m.c.be.(*mapBackend) }

func errKeyNotFound(canonical string) error {
	return errors.Newf(errors.ErrNotFound, "key %s not found", canonical)
}

// Set stores value under key, replacing any previous value.
func (m *Map) Set(key, value any) error {
	canonical, err := canonicalKey(key)
	if err != nil {
		return err
	}
	if _, err := classify(value); err != nil {
		return err
	}

	m.c.lock.Lock()
	defer m.c.lock.Unlock()
	if err := m.c.requireValid(); err != nil {
		return err
	}
	if err := m.c.ensureRoot(); err != nil {
		return err
	}

	var created bool
	if m.c.cache.isAbsent(canonical) {
		// confirmed absent, no existence probe needed
		if err := m.be().insert(canonical, value); err != nil {
			return err
		}
		created = true
	} else {
		created, err = m.be().put(canonical, value)
		if err != nil {
			return err
		}
	}
	if created {
		m.c.lengthInc()
	}
	m.c.cache.markPresent(canonical)
	return nil
}

// Get returns the value stored under key. Nested containers come back
// as live handles (*Map, *Set, *Seq); use Materialize for plain data.
// A missing key fails with ErrNotFound.
func (m *Map) Get(key any) (any, error) {
	canonical, err := canonicalKey(key)
	if err != nil {
		return nil, err
	}

	m.c.lock.Lock()
	defer m.c.lock.Unlock()
	if err := m.c.requireValid(); err != nil {
		return nil, err
	}

	if m.c.cache.isAbsent(canonical) {
		return nil, errKeyNotFound(canonical)
	}
	dir, err := m.be().find(canonical)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		m.c.cache.markAbsent(canonical)
		return nil, errKeyNotFound(canonical)
	}
	v, err := m.c.loadValue(filepath.Join(dir, paths.ValueFileName))
	if err != nil {
		return nil, err
	}
	m.c.cache.markPresent(canonical)
	return v, nil
}

// Has reports whether key is present, answering from the presence
// caches when they already know.
func (m *Map) Has(key any) (bool, error) {
	canonical, err := canonicalKey(key)
	if err != nil {
		return false, err
	}

	m.c.lock.Lock()
	defer m.c.lock.Unlock()
	if err := m.c.requireValid(); err != nil {
		return false, err
	}

	if m.c.cache.isPresent(canonical) {
		return true, nil
	}
	if m.c.cache.isAbsent(canonical) {
		return false, nil
	}
	dir, err := m.be().find(canonical)
	if err != nil {
		return false, err
	}
	if dir == "" {
		m.c.cache.markAbsent(canonical)
		return false, nil
	}
	m.c.cache.markPresent(canonical)
	return true, nil
}

// Delete removes the entry for key. A confirmed-absent key fails fast
// with ErrNotFound before touching the filesystem.
func (m *Map) Delete(key any) error {
	canonical, err := canonicalKey(key)
	if err != nil {
		return err
	}

	m.c.lock.Lock()
	defer m.c.lock.Unlock()
	if err := m.c.requireValid(); err != nil {
		return err
	}

	if m.c.cache.isAbsent(canonical) {
		return errKeyNotFound(canonical)
	}
	found, err := m.be().remove(canonical)
	if err != nil {
		return err
	}
	m.c.cache.markAbsent(canonical)
	if !found {
		return errKeyNotFound(canonical)
	}
	m.c.lengthDec()
	return nil
}

// Keys returns every key, in no particular order.
func (m *Map) Keys() ([]any, error) {
	m.c.lock.Lock()
	defer m.c.lock.Unlock()
	if err := m.c.requireValid(); err != nil {
		return nil, err
	}

	canons, err := m.be().canonKeys()
	if err != nil {
		return nil, err
	}
	keys := make([]any, 0, len(canons))
	for _, canonical := range canons {
		k, err := decodeScalar([]byte(canonical + "\n"))
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// fill copies the entries of a plain map value into the container.
func (m *Map) fill(v any) error {
	iter := reflect.ValueOf(v).MapRange()
	for iter.Next() {
		if err := m.Set(iter.Key().Interface(), iter.Value().Interface()); err != nil {
			return err
		}
	}
	return nil
}

// mapBackend stores one entry per key as a numbered directory inside
// the key's bucket, holding the canonical key under "k" and the value
// under "v".
type mapBackend struct {
	t *tree
}

// find returns the entry directory for the canonical key, or "" when no
// entry exists.
func (b *mapBackend) find(canonical string) (string, error) {
	bucket := b.t.bucketPath(canonical)
	entries, err := b.t.listDir(bucket)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(bucket, e.Name())
		stored, err := b.t.readFile(filepath.Join(dir, paths.KeyFileName))
		if err != nil {
			return "", err
		}
		if strings.TrimSuffix(string(stored), "\n") == canonical {
			return dir, nil
		}
	}
	return "", nil
}

// insert writes a brand-new entry without probing for an existing one.
func (b *mapBackend) insert(canonical string, value any) error {
	bucket := b.t.bucketPath(canonical)
	name, err := b.t.allocEntryName(bucket)
	if err != nil {
		return err
	}
	dir := filepath.Join(bucket, name)
	if err := b.t.mkdir(dir); err != nil {
		return err
	}
	if err := b.t.writeFile(filepath.Join(dir, paths.KeyFileName), []byte(canonical+"\n")); err != nil {
		return err
	}
	return b.t.saveValue(filepath.Join(dir, paths.ValueFileName), value)
}

// put writes value under the canonical key, reporting whether a new
// entry was created rather than an existing one replaced.
func (b *mapBackend) put(canonical string, value any) (bool, error) {
	dir, err := b.find(canonical)
	if err != nil {
		return false, err
	}
	if dir == "" {
		return true, b.insert(canonical, value)
	}
	// clear the old value first so a leaf can become a subtree and the
	// other way around
	vPath := filepath.Join(dir, paths.ValueFileName)
	info, err := b.t.fs.Stat(vPath)
	if err == nil {
		if err := b.t.removeSubtree(vPath, info.IsDir()); err != nil {
			return false, err
		}
	} else if !isNotExist(err) {
		return false, errors.Wrapf(err, errors.ErrStorage, "cannot stat entry %s", vPath)
	}
	return false, b.t.saveValue(vPath, value)
}

// remove deletes the entry for the canonical key, reporting whether one
// existed.
func (b *mapBackend) remove(canonical string) (bool, error) {
	dir, err := b.find(canonical)
	if err != nil {
		return false, err
	}
	if dir == "" {
		return false, nil
	}
	vPath := filepath.Join(dir, paths.ValueFileName)
	info, err := b.t.fs.Stat(vPath)
	if err == nil && info.IsDir() {
		invalidateTree(vPath)
	}
	if err := b.t.fs.RemoveAll(dir); err != nil {
		return false, errors.Wrapf(err, errors.ErrStorage, "cannot remove entry %s", dir)
	}
	return true, b.t.pruneBucket(filepath.Dir(dir))
}

// canonKeys returns the canonical form of every key.
func (b *mapBackend) canonKeys() ([]string, error) {
	buckets, err := b.t.bucketDirs()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, bucket := range buckets {
		entries, err := b.t.listDir(bucket)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			stored, err := b.t.readFile(filepath.Join(bucket, e.Name(), paths.KeyFileName))
			if err != nil {
				return nil, err
			}
			out = append(out, strings.TrimSuffix(string(stored), "\n"))
		}
	}
	return out, nil
}

func (b *mapBackend) count() (int, error) {
	return b.t.countBucketed()
}
