package set

import (
	"math/bits"

	"tlog.app/go/tlog/tlwire"
)

type (
	Key interface {
		~int | ~int64
	}

	// Bits is a set of non-negative keys. The zero value is an empty set.
	Bits[K Key] struct {
		b []uint64
	}
)

func Of[K Key](k ...K) (s Bits[K]) {
	s.SetAll(k...)

	return s
}

func (s *Bits[K]) Set(k K) {
	i, j := ij(k)

	s.grow(i)

	s.b[i] |= 1 << j
}

func (s *Bits[K]) SetAll(k ...K) {
	for _, k := range k {
		s.Set(k)
	}
}

func (s *Bits[K]) IsSet(k K) bool {
	if k < 0 {
		return false
	}

	i, j := ij(k)

	if i >= len(s.b) {
		return false
	}

	return s.b[i]&(1<<j) != 0
}

func (s *Bits[K]) Clear(k K) {
	if k < 0 {
		return
	}

	i, j := ij(k)

	if i >= len(s.b) {
		return
	}

	s.b[i] &^= 1 << j
}

func (s *Bits[K]) Merge(x *Bits[K]) {
	s.grow(len(x.b) - 1)

	for i, w := range x.b {
		s.b[i] |= w
	}
}

func (s *Bits[K]) Substract(x *Bits[K]) {
	n := min(len(s.b), len(x.b))

	for i := 0; i < n; i++ {
		s.b[i] &^= x.b[i]
	}
}

func (s *Bits[K]) Copy() (c Bits[K]) {
	c.Merge(s)

	return c
}

func (s *Bits[K]) Size() (r int) {
	for _, w := range s.b {
		r += bits.OnesCount64(w)
	}

	return r
}

func (s *Bits[K]) Empty() bool {
	for _, w := range s.b {
		if w != 0 {
			return false
		}
	}

	return true
}

// Range calls f for every key in ascending order until f returns false.
func (s *Bits[K]) Range(f func(k K) bool) {
	for i, w := range s.b {
		for w != 0 {
			j := bits.TrailingZeros64(w)
			w &^= 1 << j

			if !f(K(i*64 + j)) {
				return
			}
		}
	}
}

func (s *Bits[K]) Slice() (r []K) {
	s.Range(func(k K) bool {
		r = append(r, k)
		return true
	})

	return r
}

func (s *Bits[K]) Reset() {
	clear(s.b)
}

func (s Bits[K]) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	b = e.AppendTag(b, tlwire.Array, -1)

	s.Range(func(k K) bool {
		b = e.AppendInt(b, int(k))

		return true
	})

	return e.AppendBreak(b)
}

func ij[K Key](k K) (i, j int) {
	if k < 0 {
		panic("set: negative key")
	}

	return int(k) / 64, int(k) % 64
}

func (s *Bits[K]) grow(i int) {
	for i >= len(s.b) {
		s.b = append(s.b, 0)
	}
}
