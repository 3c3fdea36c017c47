package mir

import "tlog.app/go/errors"

// Verify checks the invariants the front end promises:
// non-nil nodes, unique function and block ids, declared locals,
// existing branch targets and an existing entry point.
func Verify(m *TypedMIR) error {
	if m == nil {
		return errors.New("nil module")
	}

	fids := map[FunctionID]struct{}{}

	for i, f := range m.Functions {
		if f == nil {
			return errors.New("function %d: nil", i)
		}

		if _, ok := fids[f.ID]; ok {
			return errors.New("function %d: duplicate id %d", i, f.ID)
		}

		fids[f.ID] = struct{}{}

		err := VerifyFunc(f)
		if err != nil {
			return errors.Wrap(err, "func %v", f.Name)
		}
	}

	if m.Entry != nil {
		if _, ok := fids[*m.Entry]; !ok {
			return errors.New("entry function %d not defined", *m.Entry)
		}
	}

	return nil
}

func VerifyFunc(f *TypedFunction) error {
	bids := map[BlockID]struct{}{}

	for i, b := range f.Blocks {
		if b == nil {
			return errors.New("block %d: nil", i)
		}

		if _, ok := bids[b.ID]; ok {
			return errors.New("block %d: duplicate id %v", i, b.ID)
		}

		bids[b.ID] = struct{}{}
	}

	declared := func(l LocalID) bool {
		return l >= 0 && int(l) < len(f.Locals)
	}

	for _, p := range f.Params {
		if !declared(p) {
			return errors.New("param %v: not declared", p)
		}
	}

	var ls []LocalID
	var ts []BlockID

	for _, b := range f.Blocks {
		if len(b.Spans) != 0 && len(b.Spans) != len(b.Instrs) {
			return errors.New("block %v: %d spans for %d instrs", b.ID, len(b.Spans), len(b.Instrs))
		}

		for i, x := range b.Instrs {
			if x == nil {
				return errors.New("block %v: instr %d: nil", b.ID, i)
			}

			ls = x.AppendUses(ls[:0])

			if d := x.Dest(); d != NoLocal {
				ls = append(ls, d)
			}

			for _, l := range ls {
				if !declared(l) {
					return errors.New("block %v: instr %d (%v): local %v not declared", b.ID, i, x.Op(), l)
				}
			}
		}

		if b.Term == nil {
			return errors.New("block %v: no terminator", b.ID)
		}

		for _, l := range b.Term.AppendUses(ls[:0]) {
			if !declared(l) {
				return errors.New("block %v: %v: local %v not declared", b.ID, b.Term.Op(), l)
			}
		}

		for _, t := range b.Term.AppendTargets(ts[:0]) {
			if _, ok := bids[t]; !ok {
				return errors.New("block %v: %v: no target block %v", b.ID, b.Term.Op(), t)
			}
		}
	}

	return nil
}
