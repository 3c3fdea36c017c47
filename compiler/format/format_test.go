package format

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/miropt/compiler/mir"
	"github.com/slowlang/miropt/compiler/opt"
	"github.com/slowlang/miropt/compiler/tp"
)

func testModule() *mir.TypedMIR {
	b := mir.NewBuilder(0, "inc")
	x := b.Param("x", tp.I32)
	one := b.Local("one", tp.I32)
	r := b.Local("r", tp.I32)
	o := b.Local("o", tp.Object{})

	b.F.Return = tp.I32

	b.Block(0).Add(
		&mir.Const{Dest_: one, Value: mir.I32(1)},
		&mir.BinOp{Dest_: r, Kind: mir.Add, Left: x, Right: one, Type: tp.I32},
		&mir.CreateObject{Dest_: o, Props: []mir.Prop{{Key: "v", Value: r}}},
		&mir.SetPropertyDynamic{Object: o, Property: "w", Value: r},
		&mir.Throw{Value: o},
	).Term(&mir.Return{Value: r})

	return mir.Module("inc.ts", b.Func())
}

func TestFormatModule(t *testing.T) {
	b, err := Format(context.Background(), nil, testModule())
	require.NoError(t, err)

	assert.Equal(t, `source "inc.ts"
entry f0

func f0 inc(%0 x: i32) i32 {
	local %0 x i32
	local %1 one i32
	local %2 r i32
	local %3 o object
b0:
	%1 = const 1
	%2 = binop add %0, %1 i32
	%3 = create_object {v: %2}
	set_property_dynamic %3.w, %2
	throw(%3)
	return %2
}
`, string(b))
}

func TestFormatErrors(t *testing.T) {
	m := testModule()
	m.Functions[0].Blocks[0].Instrs[1] = nil

	_, err := Format(context.Background(), nil, m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "func inc: block b0: instr 1: nil instruction")

	m = testModule()
	m.Functions[0].Blocks[0].Term = nil

	_, err = Format(context.Background(), nil, m)
	assert.ErrorContains(t, err, "no terminator")

	_, err = Format(context.Background(), nil, 3)
	assert.ErrorContains(t, err, "unsupported type: int")
}

func TestFormatInstr(t *testing.T) {
	for _, tc := range []struct {
		x   mir.Instr
		exp string
	}{
		{&mir.Const{Dest_: 0, Value: mir.F64(2)}, "%0 = const 2.0"},
		{&mir.Const{Dest_: 0, Value: mir.Str("a")}, `%0 = const "a"`},
		{&mir.GetProperty{Dest_: 1, Object: 0, Offset: 8, Type: tp.F64}, "%1 = get_property %0+8 f64"},
		{&mir.Call{Dest_: mir.NoLocal, Func: 2, Args: []mir.LocalID{0, 1}}, "call f2(%0, %1)"},
		{&mir.CreateFunction{Dest_: 3, Func: 1, Captured: []mir.LocalID{0}, Arrow: true}, "%3 = create_function f1(%0) arrow"},
		{&mir.SetupExceptionHandler{Catch: 2, Finally: 3}, "setup_exception_handler catch b2 finally b3"},
		{&mir.TypeOf{Dest_: 1, Operand: 0}, "%1 = typeof(%0)"},
	} {
		b, err := Format(context.Background(), nil, tc.x)
		require.NoError(t, err)
		assert.Equal(t, tc.exp, string(b))
	}
}

func TestReport(t *testing.T) {
	ctx := context.Background()

	m := testModule()

	p := opt.New(opt.Config{HotThreshold: 2})
	p.Cache().RecordCalls("add", tp.I32, 3)
	p.Cache().RecordCall("toString", nil)

	m, err := p.Optimize(ctx, m)
	require.NoError(t, err)

	b, err := Report(nil, m, p)
	require.NoError(t, err)

	assert.Equal(t, `report "inc.ts"
func f0 inc
	sites(%3)
	stack()
	escaping(%3)
calls
	add(i32) 3 hot
	toString(any) 1
`, string(b))
}
