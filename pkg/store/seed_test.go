package store_test

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dirstore/pkg/errors"
	"github.com/arthur-debert/dirstore/pkg/store"
	"github.com/arthur-debert/dirstore/pkg/testutil"
	"github.com/arthur-debert/dirstore/pkg/types"
)

func applyOps(t *testing.T, fsys types.FS, ops []types.Operation) {
	t.Helper()
	for _, op := range ops {
		require.NotNil(t, op.Mode, "operation %s %s has no mode", op.Type, op.Target)
		switch op.Type {
		case types.OperationCreateDir:
			require.NoError(t, fsys.MkdirAll(op.Target, fs.FileMode(*op.Mode)))
		case types.OperationWriteFile:
			require.NoError(t, fsys.WriteFile(op.Target, []byte(op.Content), fs.FileMode(*op.Mode)))
		default:
			t.Fatalf("unexpected operation type %s", op.Type)
		}
	}
}

// Executing a plan must produce a tree the live handles read back
// exactly, nested containers included.
func TestPlanProducesReadableTree(t *testing.T) {
	fsys := testutil.NewFS()
	root := testutil.ContainerPath(t, "seeded")

	value := map[any]any{
		"name": "alpha",
		"tags": []any{"x", "y"},
		"meta": map[any]any{"version": 2},
		"ids":  types.NewSet(1, 2, 3),
	}

	ops, err := store.Plan(root, value, store.DefaultOptions())
	require.NoError(t, err)
	require.NotEmpty(t, ops)
	applyOps(t, fsys, ops)

	m, err := store.OpenMap(fsys, root, store.DefaultOptions())
	require.NoError(t, err)

	n, err := m.Len()
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	v, err := m.Get("name")
	require.NoError(t, err)
	assert.Equal(t, "alpha", v)

	v, err = m.Get("tags")
	require.NoError(t, err)
	items, err := v.(*store.Seq).Values()
	require.NoError(t, err)
	assert.Equal(t, []any{"x", "y"}, items)

	v, err = m.Get("meta")
	require.NoError(t, err)
	version, err := v.(*store.Map).Get("version")
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	v, err = m.Get("ids")
	require.NoError(t, err)
	has, err := v.(*store.Set).Has(2)
	require.NoError(t, err)
	assert.True(t, has)

	// the planned layout supports further live writes
	require.NoError(t, m.Set("name", "beta"))
	v, err = m.Get("name")
	require.NoError(t, err)
	assert.Equal(t, "beta", v)
}

func TestPlanSeededSetAndSeq(t *testing.T) {
	fsys := testutil.NewFS()

	setRoot := testutil.ContainerPath(t, "set")
	ops, err := store.Plan(setRoot, types.NewSet("a", "b"), store.DefaultOptions())
	require.NoError(t, err)
	applyOps(t, fsys, ops)

	s, err := store.OpenSet(fsys, setRoot, store.DefaultOptions())
	require.NoError(t, err)
	has, err := s.Has("a")
	require.NoError(t, err)
	assert.True(t, has)
	require.NoError(t, s.Add("c"))
	n, err := s.Len()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	seqRoot := testutil.ContainerPath(t, "seq")
	ops, err = store.Plan(seqRoot, []any{10, 20, 30}, store.DefaultOptions())
	require.NoError(t, err)
	applyOps(t, fsys, ops)

	q, err := store.OpenSeq(fsys, seqRoot, store.DefaultOptions())
	require.NoError(t, err)
	values, err := q.Values()
	require.NoError(t, err)
	assert.Equal(t, []any{10, 20, 30}, values)
	require.NoError(t, q.Append(40))
	v, err := q.At(-1)
	require.NoError(t, err)
	assert.Equal(t, 40, v)
}

func TestPlanIsDeterministic(t *testing.T) {
	value := map[any]any{
		"b":    2,
		"a":    1,
		"c":    []any{"x", "y"},
		"deep": map[any]any{"k1": "v1", "k2": "v2"},
	}

	first, err := store.Plan("/seeds/deterministic", value, store.DefaultOptions())
	require.NoError(t, err)
	second, err := store.Plan("/seeds/deterministic", value, store.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPlanStartsWithRootAndMarker(t *testing.T) {
	ops, err := store.Plan("/seeds/marker", []any{1}, store.DefaultOptions())
	require.NoError(t, err)
	require.True(t, len(ops) >= 2)

	assert.Equal(t, types.OperationCreateDir, ops[0].Type)
	assert.Equal(t, "/seeds/marker", ops[0].Target)

	assert.Equal(t, types.OperationWriteFile, ops[1].Type)
	assert.True(t, strings.HasSuffix(ops[1].Target, "/.kind"))
	assert.Equal(t, "seq\n", ops[1].Content)
}

func TestPlanRejectsScalars(t *testing.T) {
	_, err := store.Plan("/seeds/scalar", 42, store.DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrValueKind))
}
