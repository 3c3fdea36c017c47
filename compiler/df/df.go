package df

import (
	"slices"

	"tlog.app/go/errors"
	"tlog.app/go/tlog/tlwire"

	"github.com/slowlang/miropt/compiler/mir"
	"github.com/slowlang/miropt/compiler/set"
)

type (
	Locals = set.Bits[mir.LocalID]

	// Positions maps block ids to their index in the function block list.
	Positions map[mir.BlockID]int

	// Loop is a loop approximated by block order:
	// the header and every following block up to
	// and including the first one jumping back to it.
	Loop struct {
		Header mir.BlockID
		Body   []int // block positions, ascending
	}
)

// BlockPositions fails on duplicate block ids.
func BlockPositions(f *mir.TypedFunction) (Positions, error) {
	pos := make(Positions, len(f.Blocks))

	for i, b := range f.Blocks {
		if _, ok := pos[b.ID]; ok {
			return nil, errors.New("duplicate block id %v at %d", b.ID, i)
		}

		pos[b.ID] = i
	}

	return pos, nil
}

// Used collects every local read by an instruction or a terminator.
func Used(f *mir.TypedFunction) (used Locals) {
	var buf []mir.LocalID

	for _, b := range f.Blocks {
		for _, x := range b.Instrs {
			buf = x.AppendUses(buf[:0])
			used.SetAll(buf...)
		}

		if b.Term != nil {
			buf = b.Term.AppendUses(buf[:0])
			used.SetAll(buf...)
		}
	}

	return used
}

// Defined collects destinations of instructions in the blocks at the given positions.
func Defined(f *mir.TypedFunction, blocks []int) (def Locals) {
	for _, i := range blocks {
		for _, x := range f.Blocks[i].Instrs {
			if d := x.Dest(); d != mir.NoLocal {
				def.Set(d)
			}
		}
	}

	return def
}

// Headers returns targets of edges going to the same or an earlier block,
// sorted and deduplicated.
// Edges to unknown blocks are ignored.
func Headers(f *mir.TypedFunction, pos Positions) (hs []mir.BlockID) {
	var ts []mir.BlockID

	for i, b := range f.Blocks {
		if b.Term == nil {
			continue
		}

		ts = b.Term.AppendTargets(ts[:0])

		for _, t := range ts {
			if p, ok := pos[t]; ok && p <= i {
				hs = append(hs, t)
			}
		}
	}

	slices.Sort(hs)

	return slices.Compact(hs)
}

// Body returns positions of blocks belonging to the loop with the given header.
func Body(f *mir.TypedFunction, pos Positions, h mir.BlockID) (body []int) {
	st, ok := pos[h]
	if !ok {
		return nil
	}

	var ts []mir.BlockID

	for i := st; i < len(f.Blocks); i++ {
		body = append(body, i)

		if t := f.Blocks[i].Term; t != nil {
			ts = t.AppendTargets(ts[:0])

			if slices.Contains(ts, h) {
				break
			}
		}
	}

	return body
}

func Loops(f *mir.TypedFunction) ([]Loop, error) {
	pos, err := BlockPositions(f)
	if err != nil {
		return nil, err
	}

	hs := Headers(f, pos)
	ls := make([]Loop, len(hs))

	for i, h := range hs {
		ls[i] = Loop{Header: h, Body: Body(f, pos, h)}
	}

	return ls, nil
}

func (l Loop) Contains(pos int) bool {
	_, ok := slices.BinarySearch(l.Body, pos)

	return ok
}

func (l Loop) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	b = e.AppendMap(b, 2)

	b = e.AppendKeyInt(b, "header", int(l.Header))

	b = e.AppendKey(b, "body")
	b = e.AppendTag(b, tlwire.Array, len(l.Body))

	for _, p := range l.Body {
		b = e.AppendInt(b, p)
	}

	return b
}
