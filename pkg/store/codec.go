package store

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/dirstore/pkg/errors"
	"github.com/arthur-debert/dirstore/pkg/types"
)

// shape is the codec's classification of a logical value: a scalar leaf,
// or one of the three nested container kinds.
type shape int

const (
	shapeScalar shape = iota
	shapeMap
	shapeSet
	shapeSeq
)

// classify decides how a logical value persists. The dispatch is a
// tagged-variant match over the capability the value exposes: mappings
// become map subtrees, types.Set becomes a set subtree, and any other
// slice or array defaults to a sequence subtree. Everything else must be
// a supported scalar.
func classify(v any) (shape, error) {
	switch v.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return shapeScalar, nil
	case types.Set:
		return shapeSet, nil
	}

	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Map:
		return shapeMap, nil
	case reflect.Slice, reflect.Array:
		return shapeSeq, nil
	default:
		return 0, errors.Newf(errors.ErrValueKind,
			"cannot persist value of type %T", v)
	}
}

// kindOf maps a container shape to its on-disk kind marker.
func kindOf(s shape) types.Kind {
	switch s {
	case shapeMap:
		return types.KindMap
	case shapeSet:
		return types.KindSet
	default:
		return types.KindSeq
	}
}

// encodeScalar serializes a scalar as leaf file content. The encoding is
// YAML, which keeps the scalar kinds apart without a schema: strings that
// look like numbers or booleans come out quoted, so "42" and 42 never
// collide.
func encodeScalar(v any) ([]byte, error) {
	if s, err := classify(v); err != nil {
		return nil, err
	} else if s != shapeScalar {
		return nil, errors.Newf(errors.ErrValueKind,
			"value of type %T is a container, not a scalar", v)
	}

	// yaml renders whole floats without a decimal point, which would read
	// back as integers. Keep the float kind by forcing a fractional form.
	switch f := v.(type) {
	case float64:
		if b, ok := formatWholeFloat(f); ok {
			return b, nil
		}
	case float32:
		if b, ok := formatWholeFloat(float64(f)); ok {
			return b, nil
		}
	}

	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrValueKind,
			"cannot encode scalar of type %T", v)
	}
	return data, nil
}

func formatWholeFloat(f float64) ([]byte, bool) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, false
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(s, ".eE") {
		return nil, false
	}
	return []byte(s + ".0\n"), true
}

// decodeScalar reverses encodeScalar.
func decodeScalar(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrap(err, errors.ErrValueKind, "cannot decode scalar")
	}
	return v, nil
}

// canonicalKey returns the canonical byte form of a key: the scalar
// encoding without the trailing newline. The encoding is injective over
// the supported scalar kinds, so no two distinct keys share a canonical
// form. Keys must be scalars; containers are not hashable.
func canonicalKey(key any) (string, error) {
	data, err := encodeScalar(key)
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrValueKind) {
			return "", errors.Newf(errors.ErrValueKind,
				"key of type %T is not a scalar", key)
		}
		return "", err
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}

// bucketName returns the entry bucket for a canonical key: a hex prefix
// of its SHA-256. 64 bits keeps names short while making cross-key
// bucket sharing rare; the stored canonical key disambiguates when it
// happens.
func bucketName(canonical string) string {
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:8])
}
