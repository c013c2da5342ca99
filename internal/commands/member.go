package commands

import (
	"github.com/arthur-debert/dirstore/pkg/logging"
	"github.com/arthur-debert/dirstore/pkg/store"
)

// AddMemberOptions holds options for the add command
type AddMemberOptions struct {
	Root      string
	Container string
	Member    string
}

// AddMember inserts a member into a set container, creating the
// container on first write. Adding an existing member is a no-op.
func AddMember(opts AddMemberOptions) error {
	logger := logging.GetLogger("commands.add")

	env, err := NewEnv(opts.Root)
	if err != nil {
		return err
	}

	member, err := ParseArg(opts.Member)
	if err != nil {
		return err
	}

	path := env.ContainerPath(opts.Container)
	s, err := store.OpenSet(env.FS, path, env.Store)
	if err != nil {
		return err
	}

	logger.Debug().Str("path", path).Str("member", opts.Member).Msg("Adding member")
	return s.Add(member)
}

// DiscardMemberOptions holds options for the discard command
type DiscardMemberOptions struct {
	Root      string
	Container string
	Member    string
}

// DiscardMember removes a member from a set container if present
func DiscardMember(opts DiscardMemberOptions) error {
	logger := logging.GetLogger("commands.discard")

	env, err := NewEnv(opts.Root)
	if err != nil {
		return err
	}

	member, err := ParseArg(opts.Member)
	if err != nil {
		return err
	}

	path := env.ContainerPath(opts.Container)
	s, err := store.OpenSet(env.FS, path, env.Store)
	if err != nil {
		return err
	}

	logger.Debug().Str("path", path).Str("member", opts.Member).Msg("Discarding member")
	return s.Discard(member)
}
