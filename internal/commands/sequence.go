package commands

import (
	"github.com/arthur-debert/dirstore/pkg/logging"
	"github.com/arthur-debert/dirstore/pkg/store"
)

// AppendValueOptions holds options for the append command
type AppendValueOptions struct {
	Root      string
	Container string
	Value     string
}

// AppendValue appends one element to a sequence container, creating
// the container on first write.
func AppendValue(opts AppendValueOptions) error {
	logger := logging.GetLogger("commands.append")

	env, err := NewEnv(opts.Root)
	if err != nil {
		return err
	}

	value, err := ParseArg(opts.Value)
	if err != nil {
		return err
	}

	path := env.ContainerPath(opts.Container)
	q, err := store.OpenSeq(env.FS, path, env.Store)
	if err != nil {
		return err
	}

	logger.Debug().Str("path", path).Msg("Appending value")
	return q.Append(value)
}

// InsertValueOptions holds options for the insert command
type InsertValueOptions struct {
	Root      string
	Container string
	Index     string
	Value     string
}

// InsertValue inserts an element before the given index, shifting the
// rest up. Out of range indexes clamp to the ends.
func InsertValue(opts InsertValueOptions) error {
	logger := logging.GetLogger("commands.insert")

	env, err := NewEnv(opts.Root)
	if err != nil {
		return err
	}

	i, err := ParseIndex(opts.Index)
	if err != nil {
		return err
	}
	value, err := ParseArg(opts.Value)
	if err != nil {
		return err
	}

	path := env.ContainerPath(opts.Container)
	q, err := store.OpenSeq(env.FS, path, env.Store)
	if err != nil {
		return err
	}

	logger.Debug().Str("path", path).Int("index", i).Msg("Inserting value")
	return q.Insert(i, value)
}

// ValueAtOptions holds options for the at command
type ValueAtOptions struct {
	Root      string
	Container string
	Index     string
}

// ValueAt reads the element at an index. Negative indexes count from
// the end.
func ValueAt(opts ValueAtOptions) (any, error) {
	env, err := NewEnv(opts.Root)
	if err != nil {
		return nil, err
	}

	i, err := ParseIndex(opts.Index)
	if err != nil {
		return nil, err
	}

	q, err := store.OpenSeq(env.FS, env.ContainerPath(opts.Container), env.Store)
	if err != nil {
		return nil, err
	}

	v, err := q.At(i)
	if err != nil {
		return nil, err
	}
	return store.Materialize(v)
}

// SetValueAtOptions holds options for the setat command
type SetValueAtOptions struct {
	Root      string
	Container string
	Index     string
	Value     string
}

// SetValueAt replaces the element at an existing index
func SetValueAt(opts SetValueAtOptions) error {
	logger := logging.GetLogger("commands.setat")

	env, err := NewEnv(opts.Root)
	if err != nil {
		return err
	}

	i, err := ParseIndex(opts.Index)
	if err != nil {
		return err
	}
	value, err := ParseArg(opts.Value)
	if err != nil {
		return err
	}

	path := env.ContainerPath(opts.Container)
	q, err := store.OpenSeq(env.FS, path, env.Store)
	if err != nil {
		return err
	}

	logger.Debug().Str("path", path).Int("index", i).Msg("Replacing value")
	return q.SetAt(i, value)
}

// SliceValuesOptions holds options for the slice command
type SliceValuesOptions struct {
	Root      string
	Container string
	Range     string
}

// SliceValues reads the elements selected by start:stop:step range
// syntax, in selection order.
func SliceValues(opts SliceValuesOptions) ([]any, error) {
	env, err := NewEnv(opts.Root)
	if err != nil {
		return nil, err
	}

	r, err := ParseRange(opts.Range)
	if err != nil {
		return nil, err
	}

	q, err := store.OpenSeq(env.FS, env.ContainerPath(opts.Container), env.Store)
	if err != nil {
		return nil, err
	}

	elems, err := q.Slice(r)
	if err != nil {
		return nil, err
	}

	out := make([]any, len(elems))
	for i, e := range elems {
		m, err := store.Materialize(e)
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}
