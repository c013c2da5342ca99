package commands

import (
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/dirstore/pkg/errors"
	"github.com/arthur-debert/dirstore/pkg/logging"
	"github.com/arthur-debert/dirstore/pkg/store"
	"github.com/arthur-debert/dirstore/pkg/synthfs"
	"github.com/arthur-debert/dirstore/pkg/types"
)

// ImportOptions holds options for the import command
type ImportOptions struct {
	Root      string
	Container string

	// File is the YAML document to import; empty or "-" reads stdin
	File string

	// Kind optionally forces the container kind: "map", "seq", or
	// "set". A set is imported from a YAML sequence of scalars.
	Kind string

	// DryRun logs the planned operations without writing anything
	DryRun bool

	// Force replaces an existing tree at the target path
	Force bool
}

// ImportResult reports what an import did or would do
type ImportResult struct {
	Path       string
	Operations []types.Operation
	DryRun     bool
}

// Import materializes a YAML document as a container tree in one
// planned batch.
func Import(opts ImportOptions) (*ImportResult, error) {
	logger := logging.GetLogger("commands.import")

	env, err := NewEnv(opts.Root)
	if err != nil {
		return nil, err
	}

	data, err := readInput(opts.File)
	if err != nil {
		return nil, err
	}

	var value any
	if err := yaml.Unmarshal(data, &value); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "cannot parse YAML input")
	}

	value, err = coerceKind(value, opts.Kind)
	if err != nil {
		return nil, err
	}

	path := env.ContainerPath(opts.Container)

	if _, err := env.FS.Stat(path); err == nil {
		if !opts.Force {
			return nil, errors.Newf(errors.ErrInvalidInput,
				"%s already exists; use --force to replace it", path)
		}
		if !opts.DryRun {
			logger.Info().Str("path", path).Msg("Replacing existing tree")
			if err := store.Destroy(env.FS, path); err != nil {
				return nil, err
			}
		}
	}

	ops, err := store.Plan(path, value, env.Store)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("path", path).
		Int("operations", len(ops)).
		Bool("dryRun", opts.DryRun).
		Msg("Importing value")

	// The plan covers the container tree itself; its parent, usually
	// the store root, must already exist.
	if !opts.DryRun {
		if err := env.FS.MkdirAll(filepath.Dir(path), env.Store.DirMode); err != nil {
			return nil, errors.Wrapf(err, errors.ErrStorage,
				"failed to create parent of %s", path)
		}
	}

	executor := synthfs.NewSynthfsExecutor(opts.DryRun)
	if err := executor.ExecuteOperations(ops); err != nil {
		return nil, err
	}

	return &ImportResult{Path: path, Operations: ops, DryRun: opts.DryRun}, nil
}

func readInput(file string) ([]byte, error) {
	if file == "" || file == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrStorage, "cannot read stdin")
		}
		return data, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStorage, "cannot read %s", file)
	}
	return data, nil
}

// coerceKind validates the decoded document against the requested
// container kind. Sets have no literal YAML form, so "set" converts a
// sequence of scalars.
func coerceKind(value any, kind string) (any, error) {
	switch kind {
	case "":
		return value, nil
	case "map":
		switch value.(type) {
		case map[string]any, map[any]any:
			return value, nil
		}
		return nil, errors.Newf(errors.ErrInvalidInput,
			"kind map requires a YAML mapping, got %T", value)
	case "seq":
		if _, ok := value.([]any); ok {
			return value, nil
		}
		return nil, errors.Newf(errors.ErrInvalidInput,
			"kind seq requires a YAML sequence, got %T", value)
	case "set":
		elems, ok := value.([]any)
		if !ok {
			return nil, errors.Newf(errors.ErrInvalidInput,
				"kind set requires a YAML sequence of members, got %T", value)
		}
		s := make(types.Set, len(elems))
		for _, e := range elems {
			switch e.(type) {
			case map[string]any, map[any]any, []any:
				return nil, errors.Newf(errors.ErrValueKind,
					"set members must be scalars, got %T", e)
			}
			s.Add(e)
		}
		return s, nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput,
			"unknown kind %q; expected map, seq, or set", kind)
	}
}

// ExportOptions holds options for the export command
type ExportOptions struct {
	Root      string
	Container string
}

// Export reads a whole container tree back as a YAML document
func Export(opts ExportOptions) (string, error) {
	env, err := NewEnv(opts.Root)
	if err != nil {
		return "", err
	}

	c, err := store.Open(env.FS, env.ContainerPath(opts.Container), env.Store)
	if err != nil {
		return "", err
	}

	v, err := store.Materialize(c)
	if err != nil {
		return "", err
	}

	return RenderValue(v)
}
