package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dirstore/pkg/errors"
	"github.com/arthur-debert/dirstore/pkg/store"
	"github.com/arthur-debert/dirstore/pkg/types"
)

func TestParseArg(t *testing.T) {
	tests := []struct {
		arg  string
		want any
	}{
		{"8080", 8080},
		{"true", true},
		{"2.5", 2.5},
		{"port", "port"},
		{`"8080"`, "8080"},
		{"null", nil},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := ParseArg(tt.arg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseArgMapping(t *testing.T) {
	got, err := ParseArg("{cpu: 2, mem: 512}")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"cpu": 2, "mem": 512}, got)
}

func TestParseIndex(t *testing.T) {
	i, err := ParseIndex("-2")
	require.NoError(t, err)
	assert.Equal(t, -2, i)

	_, err = ParseIndex("two")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		arg  string
		want store.Range
	}{
		{"1:8:2", store.Range{Start: store.Idx(1), Stop: store.Idx(8), Step: store.Idx(2)}},
		{":5", store.Range{Stop: store.Idx(5)}},
		{"::-1", store.Range{Step: store.Idx(-1)}},
		{":", store.Range{}},
		{"3:", store.Range{Start: store.Idx(3)}},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := ParseRange(tt.arg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRangeRejectsMalformed(t *testing.T) {
	for _, arg := range []string{"5", "1:2:3:4", "a:b"} {
		t.Run(arg, func(t *testing.T) {
			_, err := ParseRange(arg)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
		})
	}
}

func TestRenderValue(t *testing.T) {
	out, err := RenderValue(map[any]any{"port": 8080})
	require.NoError(t, err)
	assert.Equal(t, "port: 8080\n", out)

	out, err = RenderValue("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain\n", out)
}

func TestRenderValueSortsSets(t *testing.T) {
	out, err := RenderValue(types.NewSet("c", "a", "b"))
	require.NoError(t, err)
	assert.Equal(t, "- a\n- b\n- c\n", out)
}
