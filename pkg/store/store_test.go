package store_test

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dirstore/pkg/errors"
	"github.com/arthur-debert/dirstore/pkg/store"
	"github.com/arthur-debert/dirstore/pkg/testutil"
)

func TestOpenIsLazy(t *testing.T) {
	fsys := testutil.NewFS()
	root := testutil.ContainerPath(t, "m")

	m, err := store.OpenMap(fsys, root, store.DefaultOptions())
	require.NoError(t, err)

	// nothing on disk yet
	_, err = fsys.Stat(root)
	require.Error(t, err)

	n, err := m.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// first write materializes the tree and kind marker
	require.NoError(t, m.Set("a", 1))
	data, err := fsys.ReadFile(filepath.Join(root, ".kind"))
	require.NoError(t, err)
	assert.Equal(t, "map\n", string(data))
}

func TestOpenSharesOneCore(t *testing.T) {
	fsys := testutil.NewFS()
	root := testutil.ContainerPath(t, "m")

	m1, err := store.OpenMap(fsys, root, store.DefaultOptions())
	require.NoError(t, err)
	m2, err := store.OpenMap(fsys, root, store.DefaultOptions())
	require.NoError(t, err)

	require.NoError(t, m1.Set("a", 1))
	v, err := m2.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	// destroying through any reference kills every handle on the path
	require.NoError(t, store.Destroy(fsys, root))
	_, err = m1.Get("a")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidated))
	_, err = m2.Has("a")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidated))
}

func TestConcurrentAddDiscardSharedPath(t *testing.T) {
	fsys := testutil.NewFS()
	root := testutil.ContainerPath(t, "shared")

	s1, err := store.OpenSet(fsys, root, store.DefaultOptions())
	require.NoError(t, err)
	s2, err := store.OpenSet(fsys, root, store.DefaultOptions())
	require.NoError(t, err)

	// each goroutine works a disjoint member set: add 20, discard the
	// even half, so the net effect per goroutine is 10 members
	work := func(s *store.Set, prefix string) error {
		for i := 0; i < 20; i++ {
			if err := s.Add(fmt.Sprintf("%s-%d", prefix, i)); err != nil {
				return err
			}
		}
		for i := 0; i < 20; i += 2 {
			if err := s.Discard(fmt.Sprintf("%s-%d", prefix, i)); err != nil {
				return err
			}
		}
		return nil
	}

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	wg.Add(2)
	go func() { defer wg.Done(); errs <- work(s1, "a") }()
	go func() { defer wg.Done(); errs <- work(s2, "b") }()
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	n, err := s1.Len()
	require.NoError(t, err)
	assert.Equal(t, 20, n)

	// enumeration agrees with the cached length
	members, err := s2.Members()
	require.NoError(t, err)
	assert.Len(t, members, 20)

	for _, prefix := range []string{"a", "b"} {
		for i := 0; i < 20; i++ {
			has, err := s1.Has(fmt.Sprintf("%s-%d", prefix, i))
			require.NoError(t, err)
			assert.Equal(t, i%2 == 1, has, "member %s-%d", prefix, i)
		}
	}
}

func TestReopenAfterDestroyIsEmpty(t *testing.T) {
	fsys := testutil.NewFS()
	root := testutil.ContainerPath(t, "m")

	m, err := store.OpenMap(fsys, root, store.DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, m.Set("a", 1))
	require.NoError(t, store.Destroy(fsys, root))

	m2, err := store.OpenMap(fsys, root, store.DefaultOptions())
	require.NoError(t, err)
	n, err := m2.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	has, err := m2.Has("a")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestOpenKindMismatch(t *testing.T) {
	fsys := testutil.NewFS()

	t.Run("live handle", func(t *testing.T) {
		root := testutil.ContainerPath(t, "live")
		m, err := store.OpenMap(fsys, root, store.DefaultOptions())
		require.NoError(t, err)
		require.NoError(t, m.Set("a", 1))

		_, err = store.OpenSeq(fsys, root, store.DefaultOptions())
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrValueKind))
	})

	t.Run("on disk", func(t *testing.T) {
		root := testutil.ContainerPath(t, "disk")
		require.NoError(t, fsys.MkdirAll(root, 0755))
		require.NoError(t, fsys.WriteFile(filepath.Join(root, ".kind"), []byte("set\n"), 0644))

		_, err := store.OpenMap(fsys, root, store.DefaultOptions())
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrValueKind))
	})

	t.Run("unrecognized marker", func(t *testing.T) {
		root := testutil.ContainerPath(t, "bad")
		require.NoError(t, fsys.MkdirAll(root, 0755))
		require.NoError(t, fsys.WriteFile(filepath.Join(root, ".kind"), []byte("tree\n"), 0644))

		_, err := store.OpenMap(fsys, root, store.DefaultOptions())
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrValueKind))
	})
}

func TestOpenRefusesForeignDirectories(t *testing.T) {
	fsys := testutil.NewFS()

	t.Run("non-empty without marker", func(t *testing.T) {
		root := testutil.ContainerPath(t, "foreign")
		require.NoError(t, fsys.MkdirAll(root, 0755))
		require.NoError(t, fsys.WriteFile(filepath.Join(root, "stray.txt"), []byte("x"), 0644))

		_, err := store.OpenMap(fsys, root, store.DefaultOptions())
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrValueKind))
	})

	t.Run("plain file", func(t *testing.T) {
		root := testutil.ContainerPath(t, "file")
		require.NoError(t, fsys.MkdirAll(filepath.Dir(root), 0755))
		require.NoError(t, fsys.WriteFile(root, []byte("x"), 0644))

		_, err := store.OpenMap(fsys, root, store.DefaultOptions())
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrValueKind))
	})

	t.Run("empty directory adopts", func(t *testing.T) {
		root := testutil.ContainerPath(t, "empty")
		require.NoError(t, fsys.MkdirAll(root, 0755))

		m, err := store.OpenMap(fsys, root, store.DefaultOptions())
		require.NoError(t, err)
		require.NoError(t, m.Set("a", 1))
	})
}

func TestClearKeepsContainer(t *testing.T) {
	fsys := testutil.NewFS()
	root := testutil.ContainerPath(t, "m")

	m, err := store.OpenMap(fsys, root, store.DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, m.Set("a", 1))
	require.NoError(t, m.Set("b", map[any]any{"x": 2}))

	require.NoError(t, m.Clear())

	n, err := m.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// kind marker survives
	data, err := fsys.ReadFile(filepath.Join(root, ".kind"))
	require.NoError(t, err)
	assert.Equal(t, "map\n", string(data))

	// handle still usable
	require.NoError(t, m.Set("c", 3))
	v, err := m.Get("c")
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestClearInvalidatesNestedHandles(t *testing.T) {
	fsys := testutil.NewFS()
	root := testutil.ContainerPath(t, "m")

	m, err := store.OpenMap(fsys, root, store.DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, m.Set("cfg", map[any]any{"x": 1}))

	v, err := m.Get("cfg")
	require.NoError(t, err)
	child := v.(*store.Map)

	require.NoError(t, m.Clear())

	_, err = child.Get("x")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidated))
}

func TestCheckDetectsAndRepairsDrift(t *testing.T) {
	fsys := testutil.NewFS()
	root := testutil.ContainerPath(t, "q")

	q, err := store.OpenSeq(fsys, root, store.DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, q.Append("a"))
	require.NoError(t, q.Append("b"))

	// cached length is now 2; remove an entry behind the cache's back
	require.NoError(t, fsys.RemoveAll(filepath.Join(root, "1")))

	err = q.Check()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConsistency))

	// the check repaired the cached state
	n, err := q.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, q.Check())
}

func TestDestroyMissingTree(t *testing.T) {
	fsys := testutil.NewFS()
	root := testutil.ContainerPath(t, "gone")

	// destroying a tree that never existed is not an error
	require.NoError(t, store.Destroy(fsys, root))
}

func TestHandleMetadata(t *testing.T) {
	fsys := testutil.NewFS()
	root := testutil.ContainerPath(t, "m")

	m, err := store.OpenMap(fsys, root, store.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, root, m.Path())
	assert.Equal(t, "map", m.Kind().String())
}
