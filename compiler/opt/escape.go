package opt

import (
	"context"

	"tlog.app/go/tlog"
	"tlog.app/go/tlog/tlwire"

	"github.com/slowlang/miropt/compiler/df"
	"github.com/slowlang/miropt/compiler/mir"
	"github.com/slowlang/miropt/compiler/tp"
)

type (
	// EscapeAnalyzer classifies allocation sites as escaping or stack eligible.
	// It only produces metadata, the module is returned unchanged.
	EscapeAnalyzer struct {
		funcs map[mir.FunctionID]*EscapeInfo
		last  *EscapeInfo
	}

	EscapeInfo struct {
		Func  mir.FunctionID
		Name  string
		Sites []mir.LocalID

		escaping df.Locals
		stack    df.Locals
	}

	// flows[v] are the locals that escape when v does.
	flows map[mir.LocalID][]mir.LocalID
)

func NewEscapeAnalyzer() *EscapeAnalyzer {
	return &EscapeAnalyzer{
		funcs: map[mir.FunctionID]*EscapeInfo{},
	}
}

func (a *EscapeAnalyzer) Analyze(ctx context.Context, m *mir.TypedMIR) (_ *mir.TypedMIR, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "escape", "source", m.Source)
	defer tr.Finish("err", &err)

	clear(a.funcs)
	a.last = nil

	for _, f := range m.Functions {
		_, err = a.AnalyzeFunc(ctx, f)
		if err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (a *EscapeAnalyzer) AnalyzeFunc(ctx context.Context, f *mir.TypedFunction) (*EscapeInfo, error) {
	if err := checkFunc(f); err != nil {
		return nil, ice("escape", f, err)
	}

	e := &EscapeInfo{Func: f.ID, Name: f.Name}

	var roots []mir.LocalID
	fl := flows{}

	// Reading a primitive out of an object can't leak a reference to it.
	read := func(dst, obj mir.LocalID) {
		if l, ok := f.Local(dst); ok && isPrim(l.Type) {
			return
		}

		fl.link(dst, obj)
	}

	for _, b := range f.Blocks {
		for _, x := range b.Instrs {
			switch x := x.(type) {
			case *mir.Allocate, *mir.CreateArray, *mir.CreateObject:
				e.Sites = append(e.Sites, x.Dest())
			}

			roots = fl.add(roots, x, read)
		}

		if r, ok := b.Term.(*mir.Return); ok && r.Value != mir.NoLocal {
			roots = append(roots, r.Value)
		}
	}

	var reached df.Locals

	for len(roots) != 0 {
		l := roots[len(roots)-1]
		roots = roots[:len(roots)-1]

		if l < 0 || reached.IsSet(l) {
			continue
		}

		reached.Set(l)
		roots = append(roots, fl[l]...)
	}

	for _, s := range e.Sites {
		if reached.IsSet(s) {
			e.escaping.Set(s)
		} else {
			e.stack.Set(s)
		}
	}

	tlog.SpanFromContext(ctx).V("escape").Printw("escape info", "func", f.Name, "info", e)

	a.funcs[f.ID] = e
	a.last = e

	return e, nil
}

// add records how values flow through x and returns roots
// extended with the locals x lets escape.
func (fl flows) add(roots []mir.LocalID, x mir.Instr, read func(dst, obj mir.LocalID)) []mir.LocalID {
	switch x := x.(type) {
	case *mir.Copy:
		fl.link(x.Dest_, x.Src)
	case *mir.GetProperty:
		read(x.Dest_, x.Object)
	case *mir.GetPropertyDynamic:
		read(x.Dest_, x.Object)
	case *mir.GetPropertyComputed:
		read(x.Dest_, x.Object)
	case *mir.CreateArray:
		fl.link(x.Dest_, x.Elems...)
	case *mir.CreateObject:
		for _, p := range x.Props {
			fl.link(x.Dest_, p.Value)
		}
	case *mir.ArraySliceFrom:
		fl.link(x.Dest_, x.Source)
	case *mir.ObjectRest:
		fl.link(x.Dest_, x.Source)
	case *mir.CreateFunction, *mir.CreateAsyncFunction, *mir.CreateGenerator, *mir.CreateClass:
		roots = x.AppendUses(roots)
	case *mir.SetProperty:
		roots = append(roots, x.Value)
	case *mir.SetPropertyDynamic:
		roots = append(roots, x.Value)
	case *mir.SetPropertyComputed:
		roots = append(roots, x.Key, x.Value)
	case *mir.ArrayPush:
		roots = append(roots, x.Value)
	case *mir.ArraySpread:
		roots = append(roots, x.Source)
	case *mir.PromiseResolve:
		roots = append(roots, x.Value)
	case *mir.PromiseReject:
		roots = append(roots, x.Reason)
	case *mir.SetPrototype:
		roots = append(roots, x.Prototype)
	case *mir.DeleteComputed:
		roots = append(roots, x.Key)
	case *mir.Delete, *mir.DefineMethod:
	default:
		// Calls, throws, generators and the rest hand their operands to code we don't see.
		if x.Effect() == mir.SideEffect {
			roots = x.AppendUses(roots)
		}
	}

	return roots
}

func isPrim(t tp.Type) bool {
	_, ok := t.(tp.Primitive)

	return ok
}

func (fl flows) link(dst mir.LocalID, src ...mir.LocalID) {
	if dst == mir.NoLocal {
		return
	}

	for _, s := range src {
		if s != mir.NoLocal {
			fl[dst] = append(fl[dst], s)
		}
	}
}

// Func returns the result for the function with the given id from the last Analyze.
func (a *EscapeAnalyzer) Func(id mir.FunctionID) *EscapeInfo {
	return a.funcs[id]
}

// Escapes refers to the most recently analyzed function.
func (a *EscapeAnalyzer) Escapes(l mir.LocalID) bool {
	return a.last != nil && a.last.Escapes(l)
}

func (a *EscapeAnalyzer) CanStackAllocate(l mir.LocalID) bool {
	return a.last != nil && a.last.CanStackAllocate(l)
}

func (a *EscapeAnalyzer) MarkEscaped(l mir.LocalID) {
	if a.last != nil {
		a.last.MarkEscaped(l)
	}
}

func (e *EscapeInfo) Escapes(l mir.LocalID) bool {
	return e.escaping.IsSet(l)
}

func (e *EscapeInfo) CanStackAllocate(l mir.LocalID) bool {
	return e.stack.IsSet(l)
}

func (e *EscapeInfo) MarkEscaped(l mir.LocalID) {
	if l < 0 {
		return
	}

	e.escaping.Set(l)
	e.stack.Clear(l)
}

func (e *EscapeInfo) Escaping() []mir.LocalID { return e.escaping.Slice() }
func (e *EscapeInfo) Stack() []mir.LocalID    { return e.stack.Slice() }

func (e *EscapeInfo) TlogAppend(b []byte) []byte {
	var en tlwire.Encoder

	b = en.AppendMap(b, 3)

	b = en.AppendKeyInt(b, "sites", len(e.Sites))

	b = en.AppendKey(b, "escaping")
	b = e.escaping.TlogAppend(b)

	b = en.AppendKey(b, "stack")
	b = e.stack.TlogAppend(b)

	return b
}
