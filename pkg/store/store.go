// Package store persists maps, sets, and ordered sequences as filesystem
// directory trees. A container is identified by its root path; clients
// hold a handle (Map, Set, or Seq) whose operations read and mutate the
// tree directly, with per-container presence caches avoiding redundant
// filesystem probes and a process-wide lock per root path serializing
// concurrent access.
package store

import (
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/dirstore/pkg/config"
	"github.com/arthur-debert/dirstore/pkg/errors"
	"github.com/arthur-debert/dirstore/pkg/locking"
	"github.com/arthur-debert/dirstore/pkg/logging"
	"github.com/arthur-debert/dirstore/pkg/paths"
	"github.com/arthur-debert/dirstore/pkg/types"
)

// lengthUnknown is the sentinel for a length that must be recomputed by
// enumeration.
const lengthUnknown = -1

// Options carries the tunables every container core needs. The zero
// value gets 0755/0644 modes and disabled caches; DefaultOptions returns
// the standard bounded-cache configuration.
type Options struct {
	// DirMode is the permission for created directories
	DirMode fs.FileMode

	// FileMode is the permission for created leaf files
	FileMode fs.FileMode

	// PresentCacheCapacity bounds the confirmed-present cache per
	// container. 0 disables it.
	PresentCacheCapacity int

	// AbsentCacheCapacity bounds the confirmed-absent cache per
	// container. 0 disables it.
	AbsentCacheCapacity int
}

// DefaultOptions returns the standard options: 0755/0644 modes and both
// presence caches bounded at 1024 keys.
func DefaultOptions() Options {
	return Options{
		DirMode:              0755,
		FileMode:             0644,
		PresentCacheCapacity: 1024,
		AbsentCacheCapacity:  1024,
	}
}

// OptionsFromConfig converts the loaded configuration into store options.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	dirMode, err := config.ParseMode(cfg.FS.DirMode)
	if err != nil {
		return Options{}, err
	}
	fileMode, err := config.ParseMode(cfg.FS.FileMode)
	if err != nil {
		return Options{}, err
	}
	return Options{
		DirMode:              dirMode,
		FileMode:             fileMode,
		PresentCacheCapacity: cfg.Cache.PresentCapacity,
		AbsentCacheCapacity:  cfg.Cache.AbsentCapacity,
	}, nil
}

func (o Options) withDefaults() Options {
	if o.DirMode == 0 {
		o.DirMode = 0755
	}
	if o.FileMode == 0 {
		o.FileMode = 0644
	}
	return o
}

// tree is the filesystem context shared by a container core and its
// backend: which filesystem, where the root is, and how entries are
// created.
type tree struct {
	fs   types.FS
	root string
	opts Options
}

// backend is the piece of the storage layer the shared core needs from
// each container variant; the variants expose their full contracts on
// their concrete types.
type backend interface {
	count() (int, error)
}

// coll is the cached-collection core shared by Map, Set, and Seq: one
// directory tree plus the presence caches and the lazily computed
// length. Container methods acquire the root-path lock first and then
// call coll methods, which assume the lock is held.
type coll struct {
	tree
	kind  types.Kind
	lock  *sync.Mutex
	cache *presenceCache
	be    backend
	log   zerolog.Logger

	// length is the cached element count, or lengthUnknown. While known
	// it moves in lockstep with mutations that go through the cache path.
	length int

	// valid flips to false when the tree is destroyed or moved away;
	// every subsequent operation on the handle fails with ErrInvalidated.
	valid atomic.Bool
}

func newColl(fsys types.FS, canon string, kind types.Kind, opts Options) *coll {
	c := &coll{
		tree:   tree{fs: fsys, root: canon, opts: opts},
		kind:   kind,
		lock:   locking.ForPath(canon),
		cache:  newPresenceCache(opts.PresentCacheCapacity, opts.AbsentCacheCapacity),
		log:    logging.GetLogger("store." + kind.String()),
		length: lengthUnknown,
	}
	switch kind {
	case types.KindMap:
		c.be = &mapBackend{t: &c.tree}
	case types.KindSet:
		c.be = &setBackend{t: &c.tree}
	default:
		c.be = &seqBackend{t: &c.tree}
	}
	c.valid.Store(true)
	return c
}

func (c *coll) requireValid() error {
	if !c.valid.Load() {
		return errors.New(errors.ErrInvalidated,
			"container tree was destroyed or moved").WithDetail("path", c.root)
	}
	return nil
}

// ensureRoot materializes the root directory and its kind marker.
// Containers are created lazily: nothing exists on disk until the first
// write.
func (c *coll) ensureRoot() error {
	kindPath := filepath.Join(c.root, paths.KindFileName)
	if _, err := c.fs.Stat(kindPath); err == nil {
		return nil
	}
	if err := c.fs.MkdirAll(c.root, c.opts.DirMode); err != nil {
		return errors.Wrapf(err, errors.ErrStorage,
			"cannot create container root %s", c.root)
	}
	if err := c.fs.WriteFile(kindPath, []byte(c.kind.String()+"\n"), c.opts.FileMode); err != nil {
		return errors.Wrapf(err, errors.ErrStorage,
			"cannot write kind marker in %s", c.root)
	}
	return nil
}

// lenLocked returns the cached length, recomputing it by enumeration
// when unknown.
func (c *coll) lenLocked() (int, error) {
	if c.length != lengthUnknown {
		return c.length, nil
	}
	n, err := c.be.count()
	if err != nil {
		return 0, err
	}
	c.length = n
	return n, nil
}

func (c *coll) lengthInc() {
	if c.length != lengthUnknown {
		c.length++
	}
}

func (c *coll) lengthDec() {
	if c.length > 0 {
		c.length--
	}
}

// checkLocked compares the cached length against a fresh enumeration.
// On mismatch it reports ErrConsistency and repairs the cache state, so
// operations after the report see the on-disk truth.
func (c *coll) checkLocked() error {
	n, err := c.be.count()
	if err != nil {
		return err
	}
	if c.length != lengthUnknown && c.length != n {
		cached := c.length
		c.length = n
		c.cache.clear()
		return errors.Newf(errors.ErrConsistency,
			"cached length %d but enumeration found %d", cached, n).
			WithDetail("path", c.root)
	}
	c.length = n
	return nil
}

// clearLocked removes every entry while keeping the container itself.
func (c *coll) clearLocked() error {
	entries, err := c.listDir(c.root)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := c.removeSubtree(filepath.Join(c.root, e.Name()), e.IsDir()); err != nil {
			return err
		}
	}
	c.cache.clear()
	c.length = 0
	return nil
}

// handle is the surface shared by every container wrapper. Its methods
// promote onto Map, Set, and Seq.
type handle struct {
	c *coll
}

// Path returns the canonical root path of the container tree.
func (h handle) Path() string { return h.c.root }

// Kind returns the container's kind.
func (h handle) Kind() types.Kind { return h.c.kind }

// Len returns the number of entries, using the cached count when one is
// known and enumerating otherwise.
func (h handle) Len() (int, error) {
	h.c.lock.Lock()
	defer h.c.lock.Unlock()
	if err := h.c.requireValid(); err != nil {
		return 0, err
	}
	return h.c.lenLocked()
}

// Check verifies the cached length against the tree. On mismatch it
// reports ErrConsistency and resets the cached state to the on-disk
// truth.
func (h handle) Check() error {
	h.c.lock.Lock()
	defer h.c.lock.Unlock()
	if err := h.c.requireValid(); err != nil {
		return err
	}
	return h.c.checkLocked()
}

// Clear removes every entry while keeping the container itself.
func (h handle) Clear() error {
	h.c.lock.Lock()
	defer h.c.lock.Unlock()
	if err := h.c.requireValid(); err != nil {
		return err
	}
	return h.c.clearLocked()
}

// open returns the shared core for the container of the given kind at
// path, building one if the path is not yet open in this process.
func open(fsys types.FS, path string, kind types.Kind, opts Options) (*coll, error) {
	canon, err := paths.Canonicalize(path)
	if err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	c, err := lookupOrBuild(canon, func() (*coll, error) {
		onDisk, found, err := readTreeKind(fsys, canon)
		if err != nil {
			return nil, err
		}
		if found && onDisk != kind {
			return nil, errors.Newf(errors.ErrValueKind,
				"%s holds a %s, not a %s", canon, onDisk, kind)
		}
		if !found {
			if err := requireAdoptable(fsys, canon); err != nil {
				return nil, err
			}
		}
		return newColl(fsys, canon, kind, opts), nil
	})
	if err != nil {
		return nil, err
	}
	if c.kind != kind {
		return nil, errors.Newf(errors.ErrValueKind,
			"%s is already open as a %s", canon, c.kind)
	}
	return c, nil
}

// OpenMap opens the map rooted at path. Nothing is written until the
// first mutation; opening a missing path yields an empty map.
func OpenMap(fsys types.FS, path string, opts Options) (*Map, error) {
	c, err := open(fsys, path, types.KindMap, opts)
	if err != nil {
		return nil, err
	}
	return &Map{handle{c}}, nil
}

// OpenSet opens the set rooted at path.
func OpenSet(fsys types.FS, path string, opts Options) (*Set, error) {
	c, err := open(fsys, path, types.KindSet, opts)
	if err != nil {
		return nil, err
	}
	return &Set{handle{c}}, nil
}

// OpenSeq opens the sequence rooted at path.
func OpenSeq(fsys types.FS, path string, opts Options) (*Seq, error) {
	c, err := open(fsys, path, types.KindSeq, opts)
	if err != nil {
		return nil, err
	}
	return &Seq{handle{c}}, nil
}

// Container is the kind-independent surface shared by Map, Set and Seq.
type Container interface {
	Path() string
	Kind() types.Kind
	Len() (int, error)
	Check() error
	Clear() error
}

// Open opens the container rooted at path as whatever kind its marker
// names. Unlike the typed constructors it never adopts a bare path; a
// missing tree is an error.
func Open(fsys types.FS, path string, opts Options) (Container, error) {
	v, err := openValue(fsys, path, opts)
	if err != nil {
		return nil, err
	}
	return v.(Container), nil
}

// openValue opens the nested container at an entry path, deciding the
// wrapper type from the tree's own kind marker.
func openValue(fsys types.FS, path string, opts Options) (any, error) {
	canon, err := paths.Canonicalize(path)
	if err != nil {
		return nil, err
	}
	kind, found, err := readTreeKind(fsys, canon)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Newf(errors.ErrValueKind,
			"%s has no kind marker", canon)
	}
	switch kind {
	case types.KindMap:
		return OpenMap(fsys, canon, opts)
	case types.KindSet:
		return OpenSet(fsys, canon, opts)
	default:
		return OpenSeq(fsys, canon, opts)
	}
}

// readTreeKind returns the kind recorded at the tree's root, with
// found=false when the tree does not exist or carries no marker.
func readTreeKind(fsys types.FS, canon string) (types.Kind, bool, error) {
	data, err := fsys.ReadFile(filepath.Join(canon, paths.KindFileName))
	if err != nil {
		if isNotExist(err) {
			return "", false, nil
		}
		return "", false, errors.Wrapf(err, errors.ErrStorage,
			"cannot read kind marker in %s", canon)
	}
	marker := strings.TrimSpace(string(data))
	k, ok := types.ParseKind(marker)
	if !ok {
		return "", false, errors.Newf(errors.ErrValueKind,
			"unrecognized kind marker %q in %s", marker, canon)
	}
	return k, true, nil
}

// requireAdoptable reports whether a root without a kind marker can be
// claimed: the path must be missing or an empty directory.
func requireAdoptable(fsys types.FS, canon string) error {
	info, err := fsys.Stat(canon)
	if err != nil {
		if isNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrStorage, "cannot stat %s", canon)
	}
	if !info.IsDir() {
		return errors.Newf(errors.ErrValueKind,
			"%s is a file, not a container tree", canon)
	}
	entries, err := fsys.ReadDir(canon)
	if err != nil {
		return errors.Wrapf(err, errors.ErrStorage, "cannot list %s", canon)
	}
	if len(entries) > 0 {
		return errors.Newf(errors.ErrValueKind,
			"%s is not empty and has no kind marker", canon)
	}
	return nil
}

// Destroy removes the container tree rooted at path and invalidates
// every live handle over it or any tree beneath it. Reopening the path
// afterwards yields an empty container.
func Destroy(fsys types.FS, path string) error {
	canon, err := paths.Canonicalize(path)
	if err != nil {
		return err
	}

	lock := locking.ForPath(canon)
	lock.Lock()
	defer lock.Unlock()

	if err := fsys.RemoveAll(canon); err != nil {
		return errors.Wrapf(err, errors.ErrStorage,
			"cannot remove container tree %s", canon)
	}
	invalidateTree(canon)

	logger := logging.GetLogger("store")
	logger.Debug().Str("path", canon).Msg("Container tree destroyed")
	return nil
}
