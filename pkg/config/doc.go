// Package config loads dirstore's layered runtime configuration.
//
// Three layers, later wins: embedded defaults, the user config file
// (dirstore.toml in the XDG config directory), and DIRSTORE_* environment
// variables. The result is a validated Config value consumed by the store
// layer and the CLI.
package config
