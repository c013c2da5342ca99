package commands

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/dirstore/pkg/config"
	"github.com/arthur-debert/dirstore/pkg/errors"
	"github.com/arthur-debert/dirstore/pkg/logging"
	"github.com/arthur-debert/dirstore/pkg/paths"
)

// GenConfigOptions holds options for the gen-config command
type GenConfigOptions struct {
	// Write stores the generated file at the config path instead of
	// returning it for stdout.
	Write bool

	// Effective renders the resolved configuration with every layer
	// applied instead of the commented template.
	Effective bool
}

// GenConfigResult reports the generated configuration
type GenConfigResult struct {
	ConfigContent string
	FileWritten   string
}

// GenConfig produces the user configuration template: the built-in
// defaults with every value commented out. With Effective it renders
// the configuration the process actually runs with.
func GenConfig(opts GenConfigOptions) (*GenConfigResult, error) {
	logger := logging.GetLogger("commands.genconfig")

	if opts.Effective {
		env, err := NewEnv("")
		if err != nil {
			return nil, err
		}
		content, err := config.RenderConfig(env.Config)
		if err != nil {
			return nil, err
		}
		return &GenConfigResult{ConfigContent: content}, nil
	}

	content := config.GenerateConfigContent()
	result := &GenConfigResult{ConfigContent: content}

	if !opts.Write {
		logger.Debug().Msg("Outputting config to stdout")
		return result, nil
	}

	p, err := paths.New("")
	if err != nil {
		return nil, err
	}
	target := p.ConfigFilePath()

	if _, err := os.Stat(target); err == nil {
		logger.Warn().Str("path", target).Msg("Config file already exists, skipping")
		return result, nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrStorage,
			"failed to create directory %s", filepath.Dir(target))
	}
	if err := os.WriteFile(target, []byte(content), 0644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrStorage,
			"failed to write config to %s", target)
	}

	logger.Info().Str("path", target).Msg("Written config file")
	result.FileWritten = target
	return result, nil
}
