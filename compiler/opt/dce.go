package opt

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/slowlang/miropt/compiler/df"
	"github.com/slowlang/miropt/compiler/mir"
)

type (
	// DeadCodeEliminator removes pure and allocating instructions
	// whose destination is never read.
	DeadCodeEliminator struct {
		used df.Locals
	}
)

func NewDeadCodeEliminator() *DeadCodeEliminator {
	return &DeadCodeEliminator{}
}

func (d *DeadCodeEliminator) Eliminate(ctx context.Context, m *mir.TypedMIR) (_ *mir.TypedMIR, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "dce", "source", m.Source)
	defer tr.Finish("err", &err)

	total := 0

	for _, f := range m.Functions {
		n, err := d.EliminateFunc(ctx, f)
		if err != nil {
			return nil, err
		}

		total += n
	}

	tr.V("dce").Printw("removed", "instrs", total)

	return m, nil
}

// EliminateFunc computes the used set once and then filters every block against it.
// Removing an instruction does not make its operands dead in the same run.
func (d *DeadCodeEliminator) EliminateFunc(ctx context.Context, f *mir.TypedFunction) (removed int, err error) {
	if err = checkFunc(f); err != nil {
		return 0, ice("dce", f, err)
	}

	d.used = df.Used(f)

	tr := tlog.SpanFromContext(ctx)

	if tr.If("dump_used") {
		tr.Printw("used locals", "func", f.Name, "used", d.used)
	}

	for _, b := range f.Blocks {
		removed += b.Retain(func(i int, x mir.Instr) bool {
			keep := d.live(x)

			if !keep {
				tr.V("dce").Printw("remove", "func", f.Name, "block", b.ID, "i", i, "op", x.Op(), "dest", x.Dest())
			}

			return keep
		})
	}

	return removed, nil
}

func (d *DeadCodeEliminator) live(x mir.Instr) bool {
	if x.Effect() == mir.SideEffect {
		return true
	}

	dest := x.Dest()

	return dest != mir.NoLocal && d.used.IsSet(dest)
}
