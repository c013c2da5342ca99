package testutil

import (
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/arthur-debert/dirstore/pkg/types"
)

// FaultFS wraps a types.FS and fails operations whose path contains a
// registered fragment. It exists to test that failed filesystem
// operations surface as storage errors and leave caller state alone.
type FaultFS struct {
	Inner types.FS

	mu     sync.Mutex
	faults []fault
}

type fault struct {
	op       string
	fragment string
}

// NewFaultFS wraps inner with no faults registered.
func NewFaultFS(inner types.FS) *FaultFS {
	return &FaultFS{Inner: inner}
}

// FailWhen makes every operation named op fail when its path contains
// fragment. An empty op matches every operation.
func (f *FaultFS) FailWhen(op, fragment string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults = append(f.faults, fault{op: op, fragment: fragment})
}

// Reset drops all registered faults.
func (f *FaultFS) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults = nil
}

func (f *FaultFS) check(op string, paths ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, flt := range f.faults {
		if flt.op != "" && flt.op != op {
			continue
		}
		for _, p := range paths {
			if strings.Contains(p, flt.fragment) {
				return fmt.Errorf("injected %s failure at %s", op, p)
			}
		}
	}
	return nil
}

func (f *FaultFS) Stat(name string) (fs.FileInfo, error) {
	if err := f.check("Stat", name); err != nil {
		return nil, err
	}
	return f.Inner.Stat(name)
}

func (f *FaultFS) ReadFile(name string) ([]byte, error) {
	if err := f.check("ReadFile", name); err != nil {
		return nil, err
	}
	return f.Inner.ReadFile(name)
}

func (f *FaultFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if err := f.check("WriteFile", name); err != nil {
		return err
	}
	return f.Inner.WriteFile(name, data, perm)
}

func (f *FaultFS) MkdirAll(path string, perm fs.FileMode) error {
	if err := f.check("MkdirAll", path); err != nil {
		return err
	}
	return f.Inner.MkdirAll(path, perm)
}

func (f *FaultFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if err := f.check("ReadDir", name); err != nil {
		return nil, err
	}
	return f.Inner.ReadDir(name)
}

func (f *FaultFS) Rename(oldpath, newpath string) error {
	if err := f.check("Rename", oldpath, newpath); err != nil {
		return err
	}
	return f.Inner.Rename(oldpath, newpath)
}

func (f *FaultFS) Remove(name string) error {
	if err := f.check("Remove", name); err != nil {
		return err
	}
	return f.Inner.Remove(name)
}

func (f *FaultFS) RemoveAll(path string) error {
	if err := f.check("RemoveAll", path); err != nil {
		return err
	}
	return f.Inner.RemoveAll(path)
}
