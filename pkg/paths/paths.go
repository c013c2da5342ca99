// Package paths provides centralized path handling for dirstore.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/dirstore/pkg/errors"
)

// Environment variable names
const (
	// EnvStoreRoot is the primary environment variable for the store location
	EnvStoreRoot = "DIRSTORE_ROOT"

	// EnvConfigDir overrides the XDG config directory for dirstore
	EnvConfigDir = "DIRSTORE_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// On-disk layout names
// IMPORTANT: These constants define the persisted container layout and are
// NOT user-configurable. They must remain consistent across installations
// so that trees written by one process are readable by another. User-
// configurable paths belong in pkg/config instead.
const (
	// StoreDirName is the directory name for dirstore-specific files
	StoreDirName = "dirstore"

	// KindFileName marks a directory as a container and names its kind
	KindFileName = ".kind"

	// CountFileName holds the next entry id within a hash bucket
	CountFileName = ".count"

	// KeyFileName holds the encoded key inside a map entry directory
	KeyFileName = "k"

	// ValueFileName holds the value inside a map entry directory
	ValueFileName = "v"

	// ConfigFileName is the name of the user configuration file
	ConfigFileName = "dirstore.toml"

	// LogFileName is the name of the log file
	LogFileName = "dirstore.log"
)

// Paths provides centralized path management for dirstore
type Paths interface {
	StoreRoot() string
	UsedFallback() bool
	ContainerPath(name string) string
	ConfigDir() string
	ConfigFilePath() string
	StateDir() string
	LogFilePath() string
	NormalizePath(path string) (string, error)
}

type paths struct {
	// storeRoot is the base directory for named container trees
	storeRoot string

	// xdgConfig is the XDG config directory
	xdgConfig string

	// xdgState is the XDG state directory
	xdgState string

	// usedFallback indicates the XDG default was used (for an informational note)
	usedFallback bool
}

// New creates a new Paths instance with the given store root.
// If storeRoot is empty, it will be determined from DIRSTORE_ROOT or
// fall back to the XDG data directory.
func New(storeRoot string) (Paths, error) {
	p := &paths{}

	if storeRoot == "" {
		root, usedFallback := findStoreRoot()
		p.storeRoot = root
		p.usedFallback = usedFallback
	} else {
		p.storeRoot = expandHome(storeRoot)
		p.usedFallback = false
	}

	// Ensure the store root is absolute
	absRoot, err := filepath.Abs(p.storeRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStorage, "failed to get absolute path for store root")
	}
	p.storeRoot = filepath.Clean(absRoot)

	p.setupXDGDirs()

	return p, nil
}

// setupXDGDirs initializes XDG directories, respecting environment overrides
func (p *paths) setupXDGDirs() {
	// Config directory
	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.xdgConfig = expandHome(configDir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, StoreDirName)
	}

	// State directory - XDG doesn't provide StateHome, so we check manually
	if stateDir := os.Getenv("XDG_STATE_HOME"); stateDir != "" {
		p.xdgState = filepath.Join(stateDir, StoreDirName)
	} else {
		homeDir, _ := os.UserHomeDir()
		p.xdgState = filepath.Join(homeDir, ".local", "state", StoreDirName)
	}
}

// findStoreRoot determines the store root using the following priority:
// 1. DIRSTORE_ROOT environment variable (if set)
// 2. XDG data directory (fallback)
//
// The bool result reports whether the XDG fallback was used, so callers
// can surface the effective location to the user.
func findStoreRoot() (string, bool) {
	if root := os.Getenv(EnvStoreRoot); root != "" {
		return expandHome(root), false
	}

	return filepath.Join(xdg.DataHome, StoreDirName), true
}

// StoreRoot returns the base directory for named container trees
func (p *paths) StoreRoot() string {
	return p.storeRoot
}

// UsedFallback reports whether the store root came from the XDG default
func (p *paths) UsedFallback() bool {
	return p.usedFallback
}

// ContainerPath returns the root path for a named top-level container
func (p *paths) ContainerPath(name string) string {
	return filepath.Join(p.storeRoot, name)
}

// ConfigDir returns the XDG config directory for dirstore
func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

// ConfigFilePath returns the path of the user configuration file
func (p *paths) ConfigFilePath() string {
	return filepath.Join(p.xdgConfig, ConfigFileName)
}

// StateDir returns the XDG state directory for dirstore
func (p *paths) StateDir() string {
	return p.xdgState
}

// LogFilePath returns the path to the dirstore log file
// Respects XDG_STATE_HOME if set
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// NormalizePath expands, absolutizes, and cleans a path
func (p *paths) NormalizePath(path string) (string, error) {
	return Canonicalize(path)
}

// Canonicalize converts a path into the canonical form used as a lock and
// registry key: home-expanded, absolute, and cleaned. Two references to
// the same container must canonicalize to the same string.
func Canonicalize(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	expanded := expandHome(path)

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrStorage, "failed to get absolute path")
	}

	return filepath.Clean(abs), nil
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to HOME env var
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				// Can't expand, return as-is
				return path
			}
		}

		if path == "~" {
			return homeDir
		}

		if strings.HasPrefix(path, "~/") {
			return filepath.Join(homeDir, path[2:])
		}
	}

	return path
}
