package set

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type id int

func TestBits(t *testing.T) {
	var s Bits[id]

	assert.True(t, s.Empty())
	assert.False(t, s.IsSet(3))
	assert.False(t, s.IsSet(-1))

	s.SetAll(3, 64, 200, 3)

	assert.True(t, s.IsSet(3))
	assert.True(t, s.IsSet(64))
	assert.True(t, s.IsSet(200))
	assert.False(t, s.IsSet(65))
	assert.Equal(t, 3, s.Size())
	assert.Equal(t, []id{3, 64, 200}, s.Slice())

	s.Clear(64)
	s.Clear(1000)

	assert.Equal(t, []id{3, 200}, s.Slice())

	c := s.Copy()
	c.Set(5)

	assert.False(t, s.IsSet(5))
	assert.Equal(t, []id{3, 5, 200}, c.Slice())

	x := Of[id](3, 7)
	c.Substract(&x)

	assert.Equal(t, []id{5, 200}, c.Slice())

	c.Merge(&x)

	assert.Equal(t, []id{3, 5, 7, 200}, c.Slice())

	c.Reset()

	assert.True(t, c.Empty())
	assert.Equal(t, 0, c.Size())
}

func TestBitsRangeStop(t *testing.T) {
	s := Of(1, 2, 3, 4)

	var got []int

	s.Range(func(k int) bool {
		got = append(got, k)
		return k < 2
	})

	assert.Equal(t, []int{1, 2}, got)
}

func TestBitsNegativePanics(t *testing.T) {
	var s Bits[int]

	assert.Panics(t, func() { s.Set(-1) })
}
