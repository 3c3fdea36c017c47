package opt

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/miropt/compiler/df"
	"github.com/slowlang/miropt/compiler/mir"
)

type (
	// LoopOptimizer finds loops by block order and hoists
	// loop invariant instructions into the entry block.
	LoopOptimizer struct {
		MaxUnroll int
	}

	hoisted struct {
		pos, i int
		x      mir.Instr
	}
)

func NewLoopOptimizer(maxUnroll int) *LoopOptimizer {
	if maxUnroll <= 0 {
		maxUnroll = DefaultMaxUnroll
	}

	return &LoopOptimizer{MaxUnroll: maxUnroll}
}

func (l *LoopOptimizer) HoistInvariants(ctx context.Context, m *mir.TypedMIR) (_ *mir.TypedMIR, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "loops", "source", m.Source)
	defer tr.Finish("err", &err)

	for _, f := range m.Functions {
		_, err = l.HoistFunc(ctx, f)
		if err != nil {
			return nil, err
		}
	}

	return m, nil
}

// HoistFunc processes loops in header order.
// Each loop sees the function as left by the previous one.
func (l *LoopOptimizer) HoistFunc(ctx context.Context, f *mir.TypedFunction) (moved int, err error) {
	if err = checkFunc(f); err != nil {
		return 0, ice("loops", f, err)
	}

	pos, err := df.BlockPositions(f)
	if err != nil {
		return 0, ice("loops", f, err)
	}

	tr := tlog.SpanFromContext(ctx)

	for _, h := range df.Headers(f, pos) {
		// Hoisted code goes to the top of the first block,
		// which is only outside the loop if it is not a header itself.
		if pos[h] == 0 {
			return moved, ice("loops", f, errors.New("entry block %v is a loop header", h))
		}

		lp := df.Loop{Header: h, Body: df.Body(f, pos, h)}

		inv := l.invariants(f, lp)

		tr.V("loops").Printw("loop", "func", f.Name, "loop", lp, "invariants", len(inv))

		if len(inv) == 0 {
			continue
		}

		l.hoist(f, inv)

		moved += len(inv)
	}

	return moved, nil
}

// Loops returns loops detected in f. It does not modify f.
func (l *LoopOptimizer) Loops(f *mir.TypedFunction) ([]df.Loop, error) {
	return df.Loops(f)
}

// IsInvariant reports whether x can be moved out of a loop defining def.
func IsInvariant(x mir.Instr, def *df.Locals) bool {
	switch x := x.(type) {
	case *mir.Const:
		return true
	case *mir.BinOp:
		return !def.IsSet(x.Left) && !def.IsSet(x.Right)
	case *mir.GetProperty:
		return !def.IsSet(x.Object)
	case *mir.GetPropertyDynamic:
		return !def.IsSet(x.Object)
	default:
		return false
	}
}

// ShouldUnroll is advisory; nothing is unrolled.
func (l *LoopOptimizer) ShouldUnroll(count int) bool {
	return count > 0 && count <= l.MaxUnroll
}

func (l *LoopOptimizer) invariants(f *mir.TypedFunction, lp df.Loop) (inv []hoisted) {
	def := df.Defined(f, lp.Body)

	for _, p := range lp.Body {
		for i, x := range f.Blocks[p].Instrs {
			if IsInvariant(x, &def) {
				inv = append(inv, hoisted{pos: p, i: i, x: x})
			}
		}
	}

	return inv
}

func (l *LoopOptimizer) hoist(f *mir.TypedFunction, inv []hoisted) {
	xs := make([]mir.Instr, len(inv))
	ss := make([]mir.SourceSpan, len(inv))

	// Remove back to front so collected indexes stay valid.
	for k := len(inv) - 1; k >= 0; k-- {
		h := inv[k]

		xs[k], ss[k] = f.Blocks[h.pos].Remove(h.i)
	}

	f.Blocks[0].Prepend(xs, ss)
}
