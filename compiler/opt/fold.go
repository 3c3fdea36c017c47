package opt

import (
	"context"
	"math"

	"tlog.app/go/tlog"

	"github.com/slowlang/miropt/compiler/mir"
)

type (
	// ConstantFolder propagates constants within a block
	// and replaces binary operations over known constants.
	ConstantFolder struct {
		known map[mir.LocalID]mir.Constant
	}
)

func NewConstantFolder() *ConstantFolder {
	return &ConstantFolder{
		known: map[mir.LocalID]mir.Constant{},
	}
}

func (c *ConstantFolder) Fold(ctx context.Context, m *mir.TypedMIR) (_ *mir.TypedMIR, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "constfold", "source", m.Source)
	defer tr.Finish("err", &err)

	total := 0

	for _, f := range m.Functions {
		n, err := c.FoldFunc(ctx, f)
		if err != nil {
			return nil, err
		}

		total += n
	}

	tr.V("constfold").Printw("folded", "instrs", total)

	return m, nil
}

// FoldFunc makes a single forward pass over f and returns the number of folded instructions.
// Known constants do not cross block boundaries.
func (c *ConstantFolder) FoldFunc(ctx context.Context, f *mir.TypedFunction) (folded int, err error) {
	if err = checkFunc(f); err != nil {
		return 0, ice("constfold", f, err)
	}

	tr := tlog.SpanFromContext(ctx)

	for _, b := range f.Blocks {
		clear(c.known)

		for i, x := range b.Instrs {
			switch x := x.(type) {
			case *mir.Const:
				c.known[x.Dest_] = x.Value

				continue
			case *mir.Copy:
				if v, ok := c.known[x.Src]; ok {
					c.known[x.Dest_] = v
				} else {
					delete(c.known, x.Dest_)
				}

				continue
			case *mir.BinOp:
				l, lok := c.known[x.Left]
				r, rok := c.known[x.Right]

				if !lok || !rok {
					break
				}

				v, ok := FoldBinOp(x.Kind, l, r)
				if !ok {
					break
				}

				tr.V("constfold").Printw("fold binop", "func", f.Name, "block", b.ID, "i", i, "dest", x.Dest_, "op", x.Kind, "l", l, "r", r, "val", v)

				b.Instrs[i] = &mir.Const{Dest_: x.Dest_, Value: v}
				c.known[x.Dest_] = v
				folded++

				continue
			}

			if d := x.Dest(); d != mir.NoLocal {
				delete(c.known, d)
			}
		}
	}

	return folded, nil
}

// IsConstantExpression reports whether x is a Const or a BinOp
// over operands currently known to be constant.
func (c *ConstantFolder) IsConstantExpression(x mir.Instr) bool {
	switch x := x.(type) {
	case *mir.Const:
		return true
	case *mir.BinOp:
		_, l := c.known[x.Left]
		_, r := c.known[x.Right]

		return l && r
	default:
		return false
	}
}

// FoldBinOp evaluates op over two constants of the same kind.
// Integer division by zero is not folded.
func FoldBinOp(op mir.BinOpKind, l, r mir.Constant) (mir.Constant, bool) {
	if l.Kind != r.Kind {
		return mir.Constant{}, false
	}

	switch l.Kind {
	case mir.KindI32:
		return foldI32(op, l.Int32(), r.Int32())
	case mir.KindF64:
		return foldF64(op, l.F, r.F)
	case mir.KindBool:
		return foldBool(op, l.B, r.B)
	}

	return mir.Constant{}, false
}

func foldI32(op mir.BinOpKind, l, r int32) (mir.Constant, bool) {
	switch op {
	case mir.Add:
		return mir.I32(l + r), true
	case mir.Sub:
		return mir.I32(l - r), true
	case mir.Mul:
		return mir.I32(l * r), true
	case mir.Div:
		if r == 0 {
			return mir.Constant{}, false
		}

		return mir.I32(l / r), true
	case mir.Mod:
		if r == 0 {
			return mir.Constant{}, false
		}

		return mir.I32(l % r), true
	case mir.Eq:
		return mir.Bool(l == r), true
	case mir.Ne:
		return mir.Bool(l != r), true
	case mir.Lt:
		return mir.Bool(l < r), true
	case mir.Le:
		return mir.Bool(l <= r), true
	case mir.Gt:
		return mir.Bool(l > r), true
	case mir.Ge:
		return mir.Bool(l >= r), true
	}

	return mir.Constant{}, false
}

func foldF64(op mir.BinOpKind, l, r float64) (mir.Constant, bool) {
	switch op {
	case mir.Add:
		return mir.F64(l + r), true
	case mir.Sub:
		return mir.F64(l - r), true
	case mir.Mul:
		return mir.F64(l * r), true
	case mir.Div:
		return mir.F64(l / r), true
	case mir.Mod:
		return mir.F64(math.Mod(l, r)), true
	case mir.Eq:
		return mir.Bool(l == r), true
	case mir.Ne:
		return mir.Bool(l != r), true
	case mir.Lt:
		return mir.Bool(l < r), true
	case mir.Le:
		return mir.Bool(l <= r), true
	case mir.Gt:
		return mir.Bool(l > r), true
	case mir.Ge:
		return mir.Bool(l >= r), true
	}

	return mir.Constant{}, false
}

func foldBool(op mir.BinOpKind, l, r bool) (mir.Constant, bool) {
	switch op {
	case mir.And:
		return mir.Bool(l && r), true
	case mir.Or:
		return mir.Bool(l || r), true
	case mir.Eq:
		return mir.Bool(l == r), true
	case mir.Ne:
		return mir.Bool(l != r), true
	}

	return mir.Constant{}, false
}
