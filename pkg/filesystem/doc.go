// Package filesystem provides types.FS implementations: the real OS
// filesystem with atomic leaf writes, and an afero adapter used mainly
// for in-memory testing.
package filesystem
