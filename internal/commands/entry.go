package commands

import (
	"fmt"
	"sort"

	"github.com/arthur-debert/dirstore/pkg/errors"
	"github.com/arthur-debert/dirstore/pkg/logging"
	"github.com/arthur-debert/dirstore/pkg/store"
)

// SetEntryOptions holds options for the set command
type SetEntryOptions struct {
	Root      string
	Container string
	Key       string
	Value     string
}

// SetEntry writes one key/value pair into a map container, creating
// the container on first write.
func SetEntry(opts SetEntryOptions) error {
	logger := logging.GetLogger("commands.set")

	env, err := NewEnv(opts.Root)
	if err != nil {
		return err
	}

	key, err := ParseArg(opts.Key)
	if err != nil {
		return err
	}
	value, err := ParseArg(opts.Value)
	if err != nil {
		return err
	}

	path := env.ContainerPath(opts.Container)
	m, err := store.OpenMap(env.FS, path, env.Store)
	if err != nil {
		return err
	}

	logger.Debug().Str("path", path).Str("key", opts.Key).Msg("Setting entry")
	return m.Set(key, value)
}

// GetEntryOptions holds options for the get command
type GetEntryOptions struct {
	Root      string
	Container string
	Key       string
}

// GetEntry reads the value under a map key or a sequence index. Nested
// containers come back as plain Go values.
func GetEntry(opts GetEntryOptions) (any, error) {
	env, err := NewEnv(opts.Root)
	if err != nil {
		return nil, err
	}

	path := env.ContainerPath(opts.Container)
	c, err := store.Open(env.FS, path, env.Store)
	if err != nil {
		return nil, err
	}

	var v any
	switch h := c.(type) {
	case *store.Map:
		key, err := ParseArg(opts.Key)
		if err != nil {
			return nil, err
		}
		v, err = h.Get(key)
		if err != nil {
			return nil, err
		}
	case *store.Seq:
		i, err := ParseIndex(opts.Key)
		if err != nil {
			return nil, err
		}
		v, err = h.At(i)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.Newf(errors.ErrValueKind,
			"%s is a set; use has to test membership", path)
	}

	return store.Materialize(v)
}

// DeleteEntryOptions holds options for the del command
type DeleteEntryOptions struct {
	Root      string
	Container string
	Key       string
}

// DeleteEntry removes a map key, a set member, or a sequence index.
// Missing entries are reported, not ignored.
func DeleteEntry(opts DeleteEntryOptions) error {
	logger := logging.GetLogger("commands.del")

	env, err := NewEnv(opts.Root)
	if err != nil {
		return err
	}

	path := env.ContainerPath(opts.Container)
	c, err := store.Open(env.FS, path, env.Store)
	if err != nil {
		return err
	}

	logger.Debug().Str("path", path).Str("key", opts.Key).Msg("Deleting entry")

	switch h := c.(type) {
	case *store.Map:
		key, err := ParseArg(opts.Key)
		if err != nil {
			return err
		}
		return h.Delete(key)
	case *store.Set:
		member, err := ParseArg(opts.Key)
		if err != nil {
			return err
		}
		return h.Remove(member)
	default:
		i, err := ParseIndex(opts.Key)
		if err != nil {
			return err
		}
		return c.(*store.Seq).Delete(i)
	}
}

// HasEntryOptions holds options for the has command
type HasEntryOptions struct {
	Root      string
	Container string
	Key       string
}

// HasEntry reports whether a map key or set member exists
func HasEntry(opts HasEntryOptions) (bool, error) {
	env, err := NewEnv(opts.Root)
	if err != nil {
		return false, err
	}

	path := env.ContainerPath(opts.Container)
	c, err := store.Open(env.FS, path, env.Store)
	if err != nil {
		return false, err
	}

	key, err := ParseArg(opts.Key)
	if err != nil {
		return false, err
	}

	switch h := c.(type) {
	case *store.Map:
		return h.Has(key)
	case *store.Set:
		return h.Has(key)
	default:
		return false, errors.Newf(errors.ErrValueKind,
			"%s is a sequence; compare indexes against len instead", path)
	}
}

// ListKeysOptions holds options for the keys command
type ListKeysOptions struct {
	Root      string
	Container string
}

// ListKeys returns a map's keys or a set's members, sorted for stable
// output. The store itself promises no enumeration order.
func ListKeys(opts ListKeysOptions) ([]any, error) {
	env, err := NewEnv(opts.Root)
	if err != nil {
		return nil, err
	}

	path := env.ContainerPath(opts.Container)
	c, err := store.Open(env.FS, path, env.Store)
	if err != nil {
		return nil, err
	}

	var keys []any
	switch h := c.(type) {
	case *store.Map:
		keys, err = h.Keys()
	case *store.Set:
		keys, err = h.Members()
	default:
		return nil, errors.Newf(errors.ErrValueKind,
			"%s is a sequence; its keys are the indexes 0..len-1", path)
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
	})
	return keys, nil
}
