package testutil

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/dirstore/pkg/filesystem"
	"github.com/arthur-debert/dirstore/pkg/types"
)

// NewFS returns a fresh in-memory filesystem.
func NewFS() types.FS {
	return filesystem.NewMemoryFS()
}

// ContainerPath returns an absolute container root unique to the running
// test. Handles and locks are registered process-wide by path, so two
// tests reusing one path would share state.
func ContainerPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join("/containers", strings.ReplaceAll(t.Name(), "/", "_"), name)
}
