package commands

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/dirstore/pkg/errors"
	"github.com/arthur-debert/dirstore/pkg/store"
	"github.com/arthur-debert/dirstore/pkg/types"
)

// ParseArg interprets a command line argument as a YAML value, so
// `8080` becomes an int, `true` a bool, and `port` a string. Quoting
// forces the string reading: `'"8080"'`.
func ParseArg(arg string) (any, error) {
	var v any
	if err := yaml.Unmarshal([]byte(arg), &v); err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput,
			"cannot parse argument %q", arg)
	}
	return v, nil
}

// ParseIndex interprets a command line argument as a sequence index
func ParseIndex(arg string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, errors.Newf(errors.ErrInvalidInput,
			"index must be an integer, got %q", arg)
	}
	return i, nil
}

// ParseRange interprets start:stop:step range syntax. Every field may
// be empty: `1:8:2`, `:5`, `::-1`, `:` are all valid.
func ParseRange(arg string) (store.Range, error) {
	parts := strings.Split(arg, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return store.Range{}, errors.Newf(errors.ErrInvalidInput,
			"range must be start:stop or start:stop:step, got %q", arg)
	}

	var r store.Range
	fields := []**int{&r.Start, &r.Stop, &r.Step}
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return store.Range{}, errors.Newf(errors.ErrInvalidInput,
				"range field %q must be an integer", part)
		}
		*fields[i] = store.Idx(n)
	}
	return r, nil
}

// RenderValue renders a value as YAML for terminal output. Sets come
// out as sorted sequences so the output is stable.
func RenderValue(v any) (string, error) {
	data, err := yaml.Marshal(renderable(v))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrValueKind, "cannot render value")
	}
	return string(data), nil
}

// renderable rewrites shapes YAML cannot express directly: set members
// become a sorted sequence, and non-string-keyed maps keep their keys
// as-is (yaml.v3 handles those).
func renderable(v any) any {
	switch x := v.(type) {
	case types.Set:
		members := x.Members()
		sort.Slice(members, func(i, j int) bool {
			return fmt.Sprint(members[i]) < fmt.Sprint(members[j])
		})
		return members
	case map[any]any:
		out := make(map[any]any, len(x))
		for k, val := range x {
			out[k] = renderable(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = renderable(val)
		}
		return out
	default:
		return v
	}
}
