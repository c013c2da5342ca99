package store

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dirstore/pkg/errors"
	"github.com/arthur-debert/dirstore/pkg/types"
)

// Set is a persistent set of scalar members, stored as a directory
// tree. Container values cannot be members; only scalars have a
// canonical form to hash and compare.
type Set struct {
	handle
}

func (s *Set) be() *setBackend { return s.c.be.(*setBackend) }

func errMemberNotFound(canonical string) error {
	return errors.Newf(errors.ErrNotFound, "member %s not found", canonical)
}

// Add inserts member. Adding a member that is already present does
// nothing.
func (s *Set) Add(member any) error {
	canonical, err := canonicalKey(member)
	if err != nil {
		return err
	}

	s.c.lock.Lock()
	defer s.c.lock.Unlock()
	if err := s.c.requireValid(); err != nil {
		return err
	}

	if s.c.cache.isPresent(canonical) {
		return nil
	}
	if err := s.c.ensureRoot(); err != nil {
		return err
	}
	if !s.c.cache.isAbsent(canonical) {
		p, err := s.be().find(canonical)
		if err != nil {
			return err
		}
		if p != "" {
			s.c.cache.markPresent(canonical)
			return nil
		}
	}
	if err := s.be().insert(canonical); err != nil {
		return err
	}
	s.c.lengthInc()
	s.c.cache.markPresent(canonical)
	return nil
}

// Has reports whether member is present, answering from the presence
// caches when they already know.
func (s *Set) Has(member any) (bool, error) {
	canonical, err := canonicalKey(member)
	if err != nil {
		return false, err
	}

	s.c.lock.Lock()
	defer s.c.lock.Unlock()
	if err := s.c.requireValid(); err != nil {
		return false, err
	}

	if s.c.cache.isPresent(canonical) {
		return true, nil
	}
	if s.c.cache.isAbsent(canonical) {
		return false, nil
	}
	p, err := s.be().find(canonical)
	if err != nil {
		return false, err
	}
	if p == "" {
		s.c.cache.markAbsent(canonical)
		return false, nil
	}
	s.c.cache.markPresent(canonical)
	return true, nil
}

// Discard removes member if present. Discarding an absent member is not
// an error.
func (s *Set) Discard(member any) error {
	canonical, err := canonicalKey(member)
	if err != nil {
		return err
	}

	s.c.lock.Lock()
	defer s.c.lock.Unlock()
	if err := s.c.requireValid(); err != nil {
		return err
	}

	if s.c.cache.isAbsent(canonical) {
		return nil
	}
	found, err := s.be().remove(canonical)
	if err != nil {
		return err
	}
	s.c.cache.markAbsent(canonical)
	if found {
		s.c.lengthDec()
	}
	return nil
}

// Remove removes member, failing with ErrNotFound when it is absent.
func (s *Set) Remove(member any) error {
	canonical, err := canonicalKey(member)
	if err != nil {
		return err
	}

	s.c.lock.Lock()
	defer s.c.lock.Unlock()
	if err := s.c.requireValid(); err != nil {
		return err
	}

	if s.c.cache.isAbsent(canonical) {
		return errMemberNotFound(canonical)
	}
	found, err := s.be().remove(canonical)
	if err != nil {
		return err
	}
	s.c.cache.markAbsent(canonical)
	if !found {
		return errMemberNotFound(canonical)
	}
	s.c.lengthDec()
	return nil
}

// Members returns every member, in no particular order.
func (s *Set) Members() ([]any, error) {
	s.c.lock.Lock()
	defer s.c.lock.Unlock()
	if err := s.c.requireValid(); err != nil {
		return nil, err
	}

	canons, err := s.be().members()
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(canons))
	for _, canonical := range canons {
		member, err := decodeScalar([]byte(canonical + "\n"))
		if err != nil {
			return nil, err
		}
		out = append(out, member)
	}
	return out, nil
}

// fill copies the members of a plain types.Set value into the
// container.
func (s *Set) fill(v any) error {
	for member := range v.(types.Set) {
		if err := s.Add(member); err != nil {
			return err
		}
	}
	return nil
}

// setBackend stores one numbered file per member inside the member's
// bucket, holding the member's canonical form.
type setBackend struct {
	t *tree
}

// find returns the entry file for the canonical member, or "" when no
// entry exists.
func (b *setBackend) find(canonical string) (string, error) {
	bucket := b.t.bucketPath(canonical)
	entries, err := b.t.listDir(bucket)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		p := filepath.Join(bucket, e.Name())
		stored, err := b.t.readFile(p)
		if err != nil {
			return "", err
		}
		if strings.TrimSuffix(string(stored), "\n") == canonical {
			return p, nil
		}
	}
	return "", nil
}

func (b *setBackend) insert(canonical string) error {
	bucket := b.t.bucketPath(canonical)
	name, err := b.t.allocEntryName(bucket)
	if err != nil {
		return err
	}
	return b.t.writeFile(filepath.Join(bucket, name), []byte(canonical+"\n"))
}

func (b *setBackend) remove(canonical string) (bool, error) {
	p, err := b.find(canonical)
	if err != nil {
		return false, err
	}
	if p == "" {
		return false, nil
	}
	if err := b.t.fs.Remove(p); err != nil {
		return false, errors.Wrapf(err, errors.ErrStorage, "cannot remove entry %s", p)
	}
	return true, b.t.pruneBucket(filepath.Dir(p))
}

// members returns the canonical form of every member.
func (b *setBackend) members() ([]string, error) {
	buckets, err := b.t.bucketDirs()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, bucket := range buckets {
		entries, err := b.t.listDir(bucket)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			stored, err := b.t.readFile(filepath.Join(bucket, e.Name()))
			if err != nil {
				return nil, err
			}
			out = append(out, strings.TrimSuffix(string(stored), "\n"))
		}
	}
	return out, nil
}

func (b *setBackend) count() (int, error) {
	return b.t.countBucketed()
}
