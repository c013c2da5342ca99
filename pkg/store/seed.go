package store

import (
	"path/filepath"
	"reflect"
	"sort"
	"strconv"

	"github.com/arthur-debert/dirstore/pkg/errors"
	"github.com/arthur-debert/dirstore/pkg/paths"
	"github.com/arthur-debert/dirstore/pkg/types"
)

// Plan computes the filesystem operations that would materialize value
// as a container tree rooted at path, without touching the filesystem.
// The layout matches what the live write path produces, so executing
// the operations yields a tree any Open call reads back directly.
//
// Operations come out parents-first, with map keys and set members in
// canonical order, so the list is stable for a given value. Plan does
// not check the target path; callers decide whether it is free.
func Plan(path string, value any, opts Options) ([]types.Operation, error) {
	canon, err := paths.Canonicalize(path)
	if err != nil {
		return nil, err
	}
	s, err := classify(value)
	if err != nil {
		return nil, err
	}
	if s == shapeScalar {
		return nil, errors.Newf(errors.ErrValueKind,
			"scalar value cannot form a container tree at %s", canon)
	}
	p := &planner{opts: opts.withDefaults()}
	if err := p.container(canon, s, value); err != nil {
		return nil, err
	}
	return p.ops, nil
}

type planner struct {
	opts Options
	ops  []types.Operation
}

func (p *planner) dir(target, desc string) {
	mode := uint32(p.opts.DirMode)
	p.ops = append(p.ops, types.Operation{
		Type:        types.OperationCreateDir,
		Target:      target,
		Mode:        &mode,
		Description: desc,
	})
}

func (p *planner) file(target, content, desc string) {
	mode := uint32(p.opts.FileMode)
	p.ops = append(p.ops, types.Operation{
		Type:        types.OperationWriteFile,
		Target:      target,
		Content:     content,
		Mode:        &mode,
		Description: desc,
	})
}

func (p *planner) container(root string, s shape, v any) error {
	p.dir(root, kindOf(s).String()+" root")
	p.file(filepath.Join(root, paths.KindFileName), kindOf(s).String()+"\n", "kind marker")
	switch s {
	case shapeMap:
		return p.mapEntries(root, v)
	case shapeSet:
		return p.setMembers(root, v.(types.Set))
	default:
		return p.seqElements(root, v)
	}
}

func (p *planner) value(target string, v any) error {
	s, err := classify(v)
	if err != nil {
		return err
	}
	if s == shapeScalar {
		data, err := encodeScalar(v)
		if err != nil {
			return err
		}
		p.file(target, string(data), "scalar leaf")
		return nil
	}
	return p.container(target, s, v)
}

func (p *planner) mapEntries(root string, v any) error {
	type entry struct {
		canonical string
		value     any
	}
	byBucket := make(map[string][]entry)
	iter := reflect.ValueOf(v).MapRange()
	for iter.Next() {
		canonical, err := canonicalKey(iter.Key().Interface())
		if err != nil {
			return err
		}
		b := bucketName(canonical)
		byBucket[b] = append(byBucket[b], entry{canonical, iter.Value().Interface()})
	}
	for _, b := range sortedKeys(byBucket) {
		entries := byBucket[b]
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].canonical < entries[j].canonical
		})
		bucket := filepath.Join(root, b)
		p.dir(bucket, "key bucket")
		p.file(filepath.Join(bucket, paths.CountFileName),
			strconv.Itoa(len(entries))+"\n", "bucket counter")
		for i, e := range entries {
			dir := filepath.Join(bucket, strconv.Itoa(i))
			p.dir(dir, "map entry")
			p.file(filepath.Join(dir, paths.KeyFileName), e.canonical+"\n", "entry key")
			if err := p.value(filepath.Join(dir, paths.ValueFileName), e.value); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *planner) setMembers(root string, members types.Set) error {
	byBucket := make(map[string][]string)
	for member := range members {
		canonical, err := canonicalKey(member)
		if err != nil {
			return err
		}
		b := bucketName(canonical)
		byBucket[b] = append(byBucket[b], canonical)
	}
	for _, b := range sortedKeys(byBucket) {
		canons := byBucket[b]
		sort.Strings(canons)
		bucket := filepath.Join(root, b)
		p.dir(bucket, "member bucket")
		p.file(filepath.Join(bucket, paths.CountFileName),
			strconv.Itoa(len(canons))+"\n", "bucket counter")
		for i, canonical := range canons {
			p.file(filepath.Join(bucket, strconv.Itoa(i)), canonical+"\n", "set member")
		}
	}
	return nil
}

func (p *planner) seqElements(root string, v any) error {
	rv := reflect.ValueOf(v)
	for i := 0; i < rv.Len(); i++ {
		if err := p.value(filepath.Join(root, strconv.Itoa(i)), rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
