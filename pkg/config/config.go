package config

import (
	"io/fs"
	"os"
	"strconv"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/dirstore/pkg/errors"
)

// CacheConfig bounds the presence caches
type CacheConfig struct {
	// PresentCapacity is the maximum number of confirmed-present keys
	// remembered per container. 0 disables the cache.
	PresentCapacity int `koanf:"present_capacity" toml:"present_capacity"`

	// AbsentCapacity is the maximum number of confirmed-absent keys
	// remembered per container. 0 disables the cache.
	AbsentCapacity int `koanf:"absent_capacity" toml:"absent_capacity"`
}

// FSConfig controls how entries are written to disk
type FSConfig struct {
	// DirMode is the permission for created directories, octal string
	DirMode string `koanf:"dir_mode" toml:"dir_mode"`

	// FileMode is the permission for created leaf files, octal string
	FileMode string `koanf:"file_mode" toml:"file_mode"`

	// Sync fsyncs leaf files after write
	Sync bool `koanf:"sync" toml:"sync"`
}

// Config is the fully resolved runtime configuration
type Config struct {
	// Root is the base directory for named container trees. Empty means
	// resolve via DIRSTORE_ROOT or the XDG data directory.
	Root string `koanf:"root" toml:"root"`

	Cache CacheConfig `koanf:"cache" toml:"cache"`
	FS    FSConfig    `koanf:"fs" toml:"fs"`
}

// envKeys maps environment variables to config keys. Only listed
// variables are honored; everything else under the prefix is ignored.
var envKeys = map[string]string{
	"DIRSTORE_ROOT":                   "root",
	"DIRSTORE_CACHE_PRESENT_CAPACITY": "cache.present_capacity",
	"DIRSTORE_CACHE_ABSENT_CAPACITY":  "cache.absent_capacity",
	"DIRSTORE_FS_DIR_MODE":            "fs.dir_mode",
	"DIRSTORE_FS_FILE_MODE":           "fs.file_mode",
	"DIRSTORE_FS_SYNC":                "fs.sync",
}

// Load builds the configuration from three layers, later wins:
// embedded defaults, the config file at configFilePath (skipped when the
// path is empty or the file does not exist), and DIRSTORE_* environment
// variables.
func Load(configFilePath string) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load embedded defaults")
	}

	// 2. User config file, if present
	if configFilePath != "" {
		if _, err := os.Stat(configFilePath); err == nil {
			if err := k.Load(file.Provider(configFilePath), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse,
					"failed to load config from %s", configFilePath)
			}
		}
	}

	// 3. Environment variables
	err := k.Load(env.Provider("DIRSTORE_", ".", func(s string) string {
		return envKeys[s]
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment variables")
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal config")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration built from the embedded defaults only
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		// The embedded defaults are compiled in; failing to parse them is
		// a build defect, not a runtime condition.
		panic(err)
	}
	return cfg
}

func (c *Config) validate() error {
	if c.Cache.PresentCapacity < 0 {
		return errors.Newf(errors.ErrConfigParse,
			"cache.present_capacity must be >= 0, got %d", c.Cache.PresentCapacity)
	}
	if c.Cache.AbsentCapacity < 0 {
		return errors.Newf(errors.ErrConfigParse,
			"cache.absent_capacity must be >= 0, got %d", c.Cache.AbsentCapacity)
	}
	if _, err := ParseMode(c.FS.DirMode); err != nil {
		return err
	}
	if _, err := ParseMode(c.FS.FileMode); err != nil {
		return err
	}
	return nil
}

// ParseMode converts an octal permission string such as "0755" into a
// file mode.
func ParseMode(s string) (fs.FileMode, error) {
	if s == "" {
		return 0, errors.New(errors.ErrConfigParse, "empty permission string")
	}
	n, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrConfigParse, "invalid octal permission %q", s)
	}
	return fs.FileMode(n), nil
}
