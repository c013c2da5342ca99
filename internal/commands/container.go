package commands

import (
	"github.com/arthur-debert/dirstore/pkg/logging"
	"github.com/arthur-debert/dirstore/pkg/store"
)

// ContainerOptions addresses one existing container
type ContainerOptions struct {
	Root      string
	Container string
}

// Length returns the element count of any container kind
func Length(opts ContainerOptions) (int, error) {
	env, err := NewEnv(opts.Root)
	if err != nil {
		return 0, err
	}

	c, err := store.Open(env.FS, env.ContainerPath(opts.Container), env.Store)
	if err != nil {
		return 0, err
	}
	return c.Len()
}

// Check verifies the container's cached state against the tree
func Check(opts ContainerOptions) error {
	env, err := NewEnv(opts.Root)
	if err != nil {
		return err
	}

	c, err := store.Open(env.FS, env.ContainerPath(opts.Container), env.Store)
	if err != nil {
		return err
	}
	return c.Check()
}

// Clear removes every entry while keeping the container
func Clear(opts ContainerOptions) error {
	logger := logging.GetLogger("commands.clear")

	env, err := NewEnv(opts.Root)
	if err != nil {
		return err
	}

	path := env.ContainerPath(opts.Container)
	c, err := store.Open(env.FS, path, env.Store)
	if err != nil {
		return err
	}

	logger.Info().Str("path", path).Msg("Clearing container")
	return c.Clear()
}

// DestroyContainer removes the container tree entirely. Destroying a
// missing tree is not an error.
func DestroyContainer(opts ContainerOptions) error {
	logger := logging.GetLogger("commands.destroy")

	env, err := NewEnv(opts.Root)
	if err != nil {
		return err
	}

	path := env.ContainerPath(opts.Container)
	logger.Info().Str("path", path).Msg("Destroying container")
	return store.Destroy(env.FS, path)
}
