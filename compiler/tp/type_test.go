package tp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseString(t *testing.T) {
	for _, s := range []string{
		"i32", "i64", "f64", "bool", "string", "bigint", "null", "undefined",
		"any", "object", "Point",
		"array<i32>", "array<array<f64>>",
		"fn()", "fn(i32, f64) bool", "fn(array<i32>) fn(i32) any",
	} {
		x, err := Parse(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, x.String())
	}
}

func TestParseErrors(t *testing.T) {
	for _, s := range []string{"", "fn(i32", "array<>", "a b"} {
		_, err := Parse(s)
		assert.Error(t, err, s)
	}
}

func TestSize(t *testing.T) {
	assert.Equal(t, 4, I32.Size())
	assert.Equal(t, 8, F64.Size())
	assert.Equal(t, 1, Bool.Size())

	o := Object{Fields: []Field{
		{Name: "x", Offset: 0, Type: F64},
		{Name: "y", Offset: 8, Type: I32},
	}}

	assert.Equal(t, 12, o.Size())
	assert.Equal(t, "{x: f64, y: i32}", o.String())
}

func TestIsPrim(t *testing.T) {
	assert.True(t, IsPrim(I32, I32))
	assert.False(t, IsPrim(I64, I32))
	assert.False(t, IsPrim(Any{}, I32))
	assert.False(t, IsPrim(nil, I32))
}
