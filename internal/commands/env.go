// Package commands implements the operations behind the dirstore CLI.
// Each command is a plain function taking an options struct, so the
// cobra layer stays thin and the logic stays testable.
package commands

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dirstore/pkg/config"
	"github.com/arthur-debert/dirstore/pkg/filesystem"
	"github.com/arthur-debert/dirstore/pkg/paths"
	"github.com/arthur-debert/dirstore/pkg/store"
	"github.com/arthur-debert/dirstore/pkg/types"
)

// Env is the resolved execution environment shared by every command:
// the filesystem, the path layout, and the store options derived from
// configuration.
type Env struct {
	FS     types.FS
	Paths  paths.Paths
	Config *config.Config
	Store  store.Options
}

// NewEnv resolves the environment. rootOverride, when non-empty, wins
// over the configured root and the DIRSTORE_ROOT environment variable.
func NewEnv(rootOverride string) (*Env, error) {
	// The config file location does not depend on the store root, so a
	// default path layout is enough to find it.
	boot, err := paths.New("")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(boot.ConfigFilePath())
	if err != nil {
		return nil, err
	}

	root := rootOverride
	if root == "" {
		root = cfg.Root
	}

	p := boot
	if root != "" {
		p, err = paths.New(root)
		if err != nil {
			return nil, err
		}
	}

	opts, err := store.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	fsys := filesystem.NewOS()
	if cfg.FS.Sync {
		fsys = filesystem.NewSyncedOS()
	}

	return &Env{
		FS:     fsys,
		Paths:  p,
		Config: cfg,
		Store:  opts,
	}, nil
}

// ContainerPath resolves a container reference to an absolute root
// path. A bare name addresses a tree under the store root; anything
// with a path separator or a leading dot or tilde is used as a
// filesystem path.
func (e *Env) ContainerPath(ref string) string {
	if strings.ContainsRune(ref, filepath.Separator) ||
		strings.HasPrefix(ref, ".") || strings.HasPrefix(ref, "~") {
		return ref
	}
	return e.Paths.ContainerPath(ref)
}
