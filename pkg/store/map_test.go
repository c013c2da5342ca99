package store_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dirstore/pkg/errors"
	"github.com/arthur-debert/dirstore/pkg/store"
	"github.com/arthur-debert/dirstore/pkg/testutil"
	"github.com/arthur-debert/dirstore/pkg/types"
)

func newTestMap(t *testing.T) *store.Map {
	t.Helper()
	m, err := store.OpenMap(testutil.NewFS(), testutil.ContainerPath(t, "m"), store.DefaultOptions())
	require.NoError(t, err)
	return m
}

func TestMapSetGet(t *testing.T) {
	m := newTestMap(t)

	require.NoError(t, m.Set("name", "alpha"))
	require.NoError(t, m.Set("count", 7))
	require.NoError(t, m.Set("ratio", 2.5))
	require.NoError(t, m.Set("on", true))
	require.NoError(t, m.Set("none", nil))

	tests := []struct {
		key  any
		want any
	}{
		{"name", "alpha"},
		{"count", 7},
		{"ratio", 2.5},
		{"on", true},
		{"none", nil},
	}
	for _, tt := range tests {
		v, err := m.Get(tt.key)
		require.NoError(t, err)
		assert.Equal(t, tt.want, v)
	}

	n, err := m.Len()
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestMapScalarKeyKinds(t *testing.T) {
	m := newTestMap(t)

	// 42, "42", and 42.0 are three different keys
	require.NoError(t, m.Set(42, "int"))
	require.NoError(t, m.Set("42", "string"))
	require.NoError(t, m.Set(42.0, "float"))

	v, err := m.Get(42)
	require.NoError(t, err)
	assert.Equal(t, "int", v)
	v, err = m.Get("42")
	require.NoError(t, err)
	assert.Equal(t, "string", v)
	v, err = m.Get(42.0)
	require.NoError(t, err)
	assert.Equal(t, "float", v)

	n, err := m.Len()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestMapReplaceValue(t *testing.T) {
	m := newTestMap(t)

	require.NoError(t, m.Set("k", 1))
	require.NoError(t, m.Set("k", "two"))

	v, err := m.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "two", v)

	n, err := m.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMapReplaceLeafWithContainer(t *testing.T) {
	m := newTestMap(t)

	require.NoError(t, m.Set("k", "scalar"))
	require.NoError(t, m.Set("k", map[any]any{"x": 1}))

	v, err := m.Get("k")
	require.NoError(t, err)
	child, ok := v.(*store.Map)
	require.True(t, ok, "expected a nested map handle, got %T", v)

	x, err := child.Get("x")
	require.NoError(t, err)
	assert.Equal(t, 1, x)

	// and back to a leaf; the child handle dies with its tree
	require.NoError(t, m.Set("k", 9))
	_, err = child.Get("x")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidated))

	v, err = m.Get("k")
	require.NoError(t, err)
	assert.Equal(t, 9, v)
}

func TestMapMissingKey(t *testing.T) {
	m := newTestMap(t)
	require.NoError(t, m.Set("present", 1))

	_, err := m.Get("missing")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))

	has, err := m.Has("missing")
	require.NoError(t, err)
	assert.False(t, has)

	err = m.Delete("missing")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestMapDelete(t *testing.T) {
	m := newTestMap(t)

	require.NoError(t, m.Set("a", 1))
	require.NoError(t, m.Set("b", 2))
	require.NoError(t, m.Delete("a"))

	has, err := m.Has("a")
	require.NoError(t, err)
	assert.False(t, has)

	n, err := m.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// deleting again reports not found
	err = m.Delete("a")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))

	// re-adding works after delete
	require.NoError(t, m.Set("a", 10))
	v, err := m.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 10, v)
}

func TestMapKeys(t *testing.T) {
	m := newTestMap(t)

	require.NoError(t, m.Set(1, "a"))
	require.NoError(t, m.Set("1", "b"))
	require.NoError(t, m.Set(true, "c"))
	require.NoError(t, m.Set("x", "d"))

	keys, err := m.Keys()
	require.NoError(t, err)
	require.Len(t, keys, 4)

	got := make(map[string]bool)
	for _, k := range keys {
		got[fmt.Sprintf("%T=%v", k, k)] = true
	}
	assert.True(t, got["int=1"])
	assert.True(t, got["string=1"])
	assert.True(t, got["bool=true"])
	assert.True(t, got["string=x"])
}

func TestMapValueKindErrors(t *testing.T) {
	m := newTestMap(t)

	// container keys are not hashable
	err := m.Set([]any{1}, "v")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrValueKind))

	// unsupported value types are rejected before any write
	err = m.Set("k", struct{ X int }{1})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrValueKind))

	has, err := m.Has("k")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestMapNestedContainers(t *testing.T) {
	m := newTestMap(t)

	require.NoError(t, m.Set("cfg", map[any]any{
		"name": "alpha",
		"tags": []any{"x", "y"},
		"ids":  types.NewSet(1, 2),
	}))

	v, err := m.Get("cfg")
	require.NoError(t, err)
	cfg := v.(*store.Map)

	name, err := cfg.Get("name")
	require.NoError(t, err)
	assert.Equal(t, "alpha", name)

	v, err = cfg.Get("tags")
	require.NoError(t, err)
	tags := v.(*store.Seq)
	items, err := tags.Values()
	require.NoError(t, err)
	assert.Equal(t, []any{"x", "y"}, items)

	v, err = cfg.Get("ids")
	require.NoError(t, err)
	ids := v.(*store.Set)
	has, err := ids.Has(2)
	require.NoError(t, err)
	assert.True(t, has)

	// nested containers are ordinary containers: writes through the
	// child handle are visible on re-read
	require.NoError(t, cfg.Set("extra", true))
	v, err = m.Get("cfg")
	require.NoError(t, err)
	extra, err := v.(*store.Map).Get("extra")
	require.NoError(t, err)
	assert.Equal(t, true, extra)
}

func TestMaterialize(t *testing.T) {
	m := newTestMap(t)

	require.NoError(t, m.Set("cfg", map[any]any{
		"name": "alpha",
		"tags": []any{"x", 2},
		"deep": map[any]any{"k": nil},
	}))

	v, err := m.Get("cfg")
	require.NoError(t, err)
	plain, err := store.Materialize(v)
	require.NoError(t, err)

	assert.Equal(t, map[any]any{
		"name": "alpha",
		"tags": []any{"x", 2},
		"deep": map[any]any{"k": nil},
	}, plain)

	// scalars pass through untouched
	plain, err = store.Materialize(42)
	require.NoError(t, err)
	assert.Equal(t, 42, plain)
}

// A mutation that fails at the filesystem level must surface a storage
// error and leave the presence caches and cached length alone.
func TestMapFailedWriteLeavesCachesAlone(t *testing.T) {
	inner := testutil.NewFS()
	fsys := testutil.NewFaultFS(inner)
	root := testutil.ContainerPath(t, "m")

	m, err := store.OpenMap(fsys, root, store.DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, m.Set("a", 1))

	// confirm "b" absent so the cache has something to corrupt
	has, err := m.Has("b")
	require.NoError(t, err)
	require.False(t, has)

	fsys.FailWhen("WriteFile", root)
	err = m.Set("b", 2)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStorage))

	fsys.Reset()

	// a falsely updated present cache would answer true here without
	// touching the filesystem
	has, err = m.Has("b")
	require.NoError(t, err)
	assert.False(t, has)

	n, err := m.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// the store recovers once writes succeed again
	require.NoError(t, m.Set("b", 2))
	v, err := m.Get("b")
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}
