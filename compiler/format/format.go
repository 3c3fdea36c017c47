package format

import (
	"context"
	"sort"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/slowlang/miropt/compiler/mir"
)

func Format(ctx context.Context, b []byte, x any) ([]byte, error) {
	return format(ctx, b, x, 0)
}

func format(ctx context.Context, b []byte, x any, d int) ([]byte, error) {
	switch x := x.(type) {
	case *mir.TypedMIR:
		return formatModule(ctx, b, x, d)
	case *mir.TypedFunction:
		return formatFunc(ctx, b, x, d)
	case *mir.TypedBlock:
		return formatBlock(ctx, b, x, d)
	case mir.Instr:
		return formatInstr(b, x, d)
	default:
		return nil, errors.New("unsupported type: %T", x)
	}
}

func formatModule(ctx context.Context, b []byte, x *mir.TypedMIR, d int) (_ []byte, err error) {
	b = app(b, d, "source %q\n", x.Source)

	if x.Entry != nil {
		b = app(b, d, "entry f%d\n", *x.Entry)
	}

	for _, g := range x.Globals {
		b = app(b, d, "global %v %v\n", g.Name, g.Type)
	}

	names := make([]string, 0, len(x.Layouts))
	for n := range x.Layouts {
		names = append(names, n)
	}

	sort.Strings(names)

	for _, n := range names {
		l := x.Layouts[n]

		b = app(b, d, "layout %v size %d align %d {", n, l.Size, l.Align)

		for i, f := range l.Fields {
			if i != 0 {
				b = append(b, ", "...)
			}

			b = app(b, 0, "%v: %v @%d", f.Name, f.Type, f.Offset)
		}

		b = append(b, "}\n"...)
	}

	for _, f := range x.Functions {
		b = append(b, '\n')

		b, err = formatFunc(ctx, b, f, d)
		if err != nil {
			return nil, errors.Wrap(err, "func %v", f.Name)
		}
	}

	return b, nil
}

func formatFunc(ctx context.Context, b []byte, x *mir.TypedFunction, d int) (_ []byte, err error) {
	b = app(b, d, "func f%d %v(", x.ID, x.Name)

	for i, p := range x.Params {
		if i != 0 {
			b = append(b, ", "...)
		}

		b = appLocal(b, x, p)
	}

	b = app(b, 0, ") %v", x.Return)

	if x.Pure {
		b = append(b, " pure"...)
	}

	b = append(b, " {\n"...)

	for i, l := range x.Locals {
		b = app(b, d+1, "local %%%d %v %v\n", i, l.Name, l.Type)
	}

	for _, bl := range x.Blocks {
		b, err = formatBlock(ctx, b, bl, d)
		if err != nil {
			return nil, errors.Wrap(err, "block %v", bl.ID)
		}
	}

	b = app(b, d, "}\n")

	return b, nil
}

func formatBlock(ctx context.Context, b []byte, x *mir.TypedBlock, d int) (_ []byte, err error) {
	b = app(b, d, "%v:\n", x.ID)

	for i, in := range x.Instrs {
		b, err = formatInstr(b, in, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "instr %d", i)
		}

		b = append(b, '\n')
	}

	b, err = formatTerm(b, x.Term, d+1)
	if err != nil {
		return nil, errors.Wrap(err, "terminator")
	}

	b = append(b, '\n')

	return b, nil
}

func formatInstr(b []byte, x mir.Instr, d int) ([]byte, error) {
	if x == nil {
		return nil, errors.New("nil instruction")
	}

	b = app(b, d, "")

	if dst := x.Dest(); dst != mir.NoLocal {
		b = app(b, 0, "%v = ", dst)
	}

	b = append(b, x.Op()...)

	switch x := x.(type) {
	case *mir.Const:
		b = app(b, 0, " %v", x.Value)
	case *mir.BinOp:
		b = app(b, 0, " %v %v, %v %v", x.Kind, x.Left, x.Right, x.Type)
	case *mir.Bitwise:
		b = app(b, 0, " %v %v, %v", x.Kind, x.Left, x.Right)
	case *mir.Equality:
		b = app(b, 0, " %v %v, %v", x.Kind, x.Left, x.Right)
	case *mir.GetProperty:
		b = app(b, 0, " %v+%d %v", x.Object, x.Offset, x.Type)
	case *mir.GetPropertyDynamic:
		b = app(b, 0, " %v.%v", x.Object, x.Property)
	case *mir.SetProperty:
		b = app(b, 0, " %v+%d, %v", x.Object, x.Offset, x.Value)
	case *mir.SetPropertyDynamic:
		b = app(b, 0, " %v.%v, %v", x.Object, x.Property, x.Value)
	case *mir.GetCaptured:
		b = app(b, 0, " env[%d]", x.Env)
	case *mir.SetCaptured:
		b = app(b, 0, " env[%d], %v", x.Env, x.Value)
	case *mir.Allocate:
		b = app(b, 0, " %v", x.Type)
	case *mir.CreateObject:
		b = append(b, " {"...)

		for i, p := range x.Props {
			if i != 0 {
				b = append(b, ", "...)
			}

			b = app(b, 0, "%v: %v", p.Key, p.Value)
		}

		b = append(b, '}')
	case *mir.Call:
		b = app(b, 0, " f%d", x.Func)
		b = appLocals(b, x.Args)
	case *mir.CreateFunction:
		b = app(b, 0, " f%d", x.Func)
		b = appLocals(b, x.Captured)

		if x.Arrow {
			b = append(b, " arrow"...)
		}
	case *mir.CreateAsyncFunction:
		b = app(b, 0, " f%d", x.Func)
		b = appLocals(b, x.Captured)
	case *mir.CreateGenerator:
		b = app(b, 0, " f%d", x.Func)
		b = appLocals(b, x.Captured)
	case *mir.CreateClass:
		b = app(b, 0, " f%d extends %v", x.Constructor, x.Super)
	case *mir.DefineMethod:
		b = app(b, 0, " %v %v.%v = f%d", x.Kind, x.Prototype, x.Name, x.Func)

		if x.Static {
			b = append(b, " static"...)
		}
	case *mir.Delete:
		b = app(b, 0, " %v.%v", x.Object, x.Property)
	case *mir.SuperMethodCall:
		b = app(b, 0, " %v.%v", x.Super, x.Method)
		b = appLocals(b, x.Args)
	case *mir.BuildTemplateLiteral:
		b = app(b, 0, " %q", x.Quasis)
		b = appLocals(b, x.Exprs)
	case *mir.SetupExceptionHandler:
		b = app(b, 0, " catch %v finally %v", x.Catch, x.Finally)
	default:
		b = appLocals(b, x.AppendUses(nil))
	}

	return b, nil
}

func formatTerm(b []byte, x mir.Terminator, d int) ([]byte, error) {
	switch x := x.(type) {
	case *mir.Return:
		b = app(b, d, "return")

		if x.Value != mir.NoLocal {
			b = app(b, 0, " %v", x.Value)
		}
	case *mir.Goto:
		b = app(b, d, "goto %v", x.Target)
	case *mir.Branch:
		b = app(b, d, "branch %v, %v, %v", x.Cond, x.Then, x.Else)
	case *mir.Unreachable:
		b = app(b, d, "unreachable")
	case nil:
		return nil, errors.New("no terminator")
	default:
		return nil, errors.New("unsupported terminator: %T", x)
	}

	return b, nil
}

func appLocal(b []byte, f *mir.TypedFunction, l mir.LocalID) []byte {
	loc, ok := f.Local(l)
	if !ok {
		return app(b, 0, "%v", l)
	}

	return app(b, 0, "%v %v: %v", l, loc.Name, loc.Type)
}

func appLocals(b []byte, ls []mir.LocalID) []byte {
	b = append(b, '(')

	for i, l := range ls {
		if i != 0 {
			b = append(b, ", "...)
		}

		b = app(b, 0, "%v", l)
	}

	return append(b, ')')
}

func app(b []byte, d int, f string, args ...any) []byte {
	const tabs = "\t\t\t\t\t\t\t\t\t\t\t\t\t\t\t"
	b = append(b, tabs[:d]...)
	b = hfmt.Appendf(b, f, args...)
	return b
}
