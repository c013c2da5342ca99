package store

import (
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/arthur-debert/dirstore/pkg/errors"
	"github.com/arthur-debert/dirstore/pkg/paths"
)

// isNotExist reports whether err is the filesystem's not-exist error,
// before any wrapping.
func isNotExist(err error) bool {
	return os.IsNotExist(err)
}

func (t *tree) mkdir(path string) error {
	if err := t.fs.MkdirAll(path, t.opts.DirMode); err != nil {
		return errors.Wrapf(err, errors.ErrStorage, "cannot create %s", path)
	}
	return nil
}

func (t *tree) writeFile(path string, data []byte) error {
	if err := t.fs.WriteFile(path, data, t.opts.FileMode); err != nil {
		return errors.Wrapf(err, errors.ErrStorage, "cannot write entry %s", path)
	}
	return nil
}

func (t *tree) readFile(path string) ([]byte, error) {
	data, err := t.fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStorage, "cannot read entry %s", path)
	}
	return data, nil
}

// listDir returns the visible entries of dir, treating a missing
// directory as empty. Dot-prefixed names are layout metadata, never
// logical entries.
func (t *tree) listDir(dir string) ([]fs.DirEntry, error) {
	entries, err := t.fs.ReadDir(dir)
	if err != nil {
		if isNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrStorage, "cannot list %s", dir)
	}
	var visible []fs.DirEntry
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), ".") {
			visible = append(visible, e)
		}
	}
	return visible, nil
}

// removeSubtree deletes the entry at path. When the entry is a nested
// container tree, live handles over it or beneath it are invalidated
// first.
func (t *tree) removeSubtree(path string, isDir bool) error {
	if isDir {
		invalidateTree(path)
	}
	if err := t.fs.RemoveAll(path); err != nil {
		return errors.Wrapf(err, errors.ErrStorage, "cannot remove %s", path)
	}
	return nil
}

// Map and set entries are spread across bucket directories named by a
// hash prefix of the canonical key, so a large container never collects
// every entry in a single directory. Each bucket allocates entry names
// from its own counter file.

func (t *tree) bucketPath(canonical string) string {
	return filepath.Join(t.root, bucketName(canonical))
}

// allocEntryName reserves the next entry name in bucket, creating the
// bucket on first use.
func (t *tree) allocEntryName(bucket string) (string, error) {
	if err := t.mkdir(bucket); err != nil {
		return "", err
	}
	countPath := filepath.Join(bucket, paths.CountFileName)
	next := 0
	data, err := t.fs.ReadFile(countPath)
	if err == nil {
		raw := strings.TrimSpace(string(data))
		n, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return "", errors.Newf(errors.ErrStorage,
				"corrupt counter file %s: %q", countPath, raw)
		}
		next = n
	} else if !isNotExist(err) {
		return "", errors.Wrapf(err, errors.ErrStorage,
			"cannot read counter file %s", countPath)
	}
	if err := t.writeFile(countPath, []byte(strconv.Itoa(next+1)+"\n")); err != nil {
		return "", err
	}
	return strconv.Itoa(next), nil
}

// bucketDirs returns the bucket directories under the root.
func (t *tree) bucketDirs() ([]string, error) {
	entries, err := t.listDir(t.root)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, filepath.Join(t.root, e.Name()))
		}
	}
	return out, nil
}

// pruneBucket removes a bucket that no longer holds entries, counter
// file included.
func (t *tree) pruneBucket(bucket string) error {
	entries, err := t.listDir(bucket)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return nil
	}
	if err := t.fs.RemoveAll(bucket); err != nil {
		return errors.Wrapf(err, errors.ErrStorage, "cannot prune bucket %s", bucket)
	}
	return nil
}

// countBucketed sums the visible entries across every bucket.
func (t *tree) countBucketed() (int, error) {
	buckets, err := t.bucketDirs()
	if err != nil {
		return 0, err
	}
	total := 0
	for _, b := range buckets {
		entries, err := t.listDir(b)
		if err != nil {
			return 0, err
		}
		total += len(entries)
	}
	return total, nil
}
