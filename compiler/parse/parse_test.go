package parse

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/miropt/compiler/mir"
	"github.com/slowlang/miropt/compiler/tp"
)

const sumDoc = `
version: 1.2.0
source: sum.ts
entry: 0
globals:
  - {name: counter, type: i32}
layouts:
  Point:
    size: 16
    align: 8
    fields:
      - {name: x, offset: 0, type: f64}
      - {name: y, offset: 8, type: f64}
functions:
  - id: 0
    name: main
    params: [0]
    return: f64
    pure: true
    span: sum.ts:1:1
    locals:
      - {name: p, type: Point}
      - {name: a, type: f64}
      - {name: b, type: f64}
      - {name: c, type: f64}
      - {name: o, type: object}
      - {name: u, type: undefined}
    blocks:
      - id: 0
        code:
          - {op: const, dest: 1, f64: 10, span: "sum.ts:2:3"}
          - {op: const, dest: 2, f64: .inf}
          - {op: binop, dest: 3, kind: add, left: 1, right: 2, type: f64}
          - {op: get_property, dest: 2, object: 0, offset: 8, type: f64}
          - {op: create_object, dest: 4, props: [{key: a, value: 1}]}
          - {op: const, dest: 5, lit: undefined}
          - {op: call, func: 1, args: [4]}
        term: {op: goto, target: 1}
      - id: 1
        term: {op: return, value: 3, span: "sum.ts:9:1"}
  - id: 1
    name: sink
    locals: [{name: x, type: any}]
    params: [0]
    blocks:
      - id: 0
        term: {op: return}
`

func TestParse(t *testing.T) {
	m, err := Parse(context.Background(), []byte(sumDoc))
	require.NoError(t, err)

	assert.Equal(t, "sum.ts", m.Source)
	require.NotNil(t, m.Entry)
	assert.Equal(t, mir.FunctionID(0), *m.Entry)
	assert.Equal(t, []mir.TypedGlobal{{Name: "counter", Type: tp.I32}}, m.Globals)
	assert.Equal(t, 16, m.Layouts["Point"].Size)
	assert.Len(t, m.Layouts["Point"].Fields, 2)

	require.Len(t, m.Functions, 2)

	f := m.Functions[0]
	assert.Equal(t, "main", f.Name)
	assert.Equal(t, tp.F64, f.Return)
	assert.True(t, f.Pure)
	assert.Equal(t, mir.SourceSpan{File: "sum.ts", Line: 1, Col: 1}, f.Span)
	assert.Equal(t, tp.Named("Point"), f.Locals[0].Type)
	assert.Equal(t, 3, f.Locals[3].Index)

	b := f.Blocks[0]
	require.Len(t, b.Instrs, 7)
	require.Len(t, b.Spans, 7)
	assert.Equal(t, 2, b.Spans[0].Line)
	assert.Equal(t, mir.SourceSpan{}, b.Spans[1])

	assert.True(t, b.Instrs[1].(*mir.Const).Value.Same(mir.F64(math.Inf(1))))
	assert.Equal(t, &mir.BinOp{Dest_: 3, Kind: mir.Add, Left: 1, Right: 2, Type: tp.F64}, b.Instrs[2])
	assert.Equal(t, &mir.CreateObject{Dest_: 4, Props: []mir.Prop{{Key: "a", Value: 1}}}, b.Instrs[4])
	assert.True(t, b.Instrs[5].(*mir.Const).Value.Same(mir.Undefined()))
	assert.Equal(t, &mir.Call{Dest_: mir.NoLocal, Func: 1, Args: []mir.LocalID{4}}, b.Instrs[6])

	assert.Equal(t, &mir.Goto{Target: 1}, b.Term)
	assert.Equal(t, 9, f.Blocks[1].TermSpan.Line)
	assert.Equal(t, &mir.Return{Value: mir.NoLocal}, m.Functions[1].Blocks[0].Term)

	require.NoError(t, mir.Verify(m))
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		doc  string
		err  string
	}{
		{"no_version", "functions: []", "missing format version"},
		{"bad_version", "version: one", "format version"},
		{"new_version", "version: 2.0.0", "unsupported format version 2.0.0"},
		{"unknown_field", "version: 1.0.0\nfuncs: []", "decode yaml"},
		{"unknown_op", fn("{op: frobnicate, dest: 0}", "{op: return}"), "unknown op: frobnicate"},
		{"missing_operand", fn("{op: binop, dest: 0, kind: add, left: 0, type: i32}", "{op: return}"), "missing right"},
		{"bad_kind", fn("{op: binop, dest: 0, kind: pow, left: 0, right: 0, type: i32}", "{op: return}"), `unknown kind: "pow"`},
		{"non_prim", fn("{op: binop, dest: 0, kind: add, left: 0, right: 0, type: any}", "{op: return}"), "want primitive type"},
		{"two_values", fn("{op: const, dest: 0, i32: 1, bool: true}", "{op: return}"), "exactly one value"},
		{"no_term", fn("{op: const, dest: 0, i32: 1}", "{}"), "missing terminator"},
		{"branch", fn("{op: const, dest: 0, bool: true}", "{op: branch, cond: 0, then: 0}"), "missing else"},
		{"span", fn("{op: const, dest: 0, i32: 1, span: nowhere}", "{op: return}"), "bad span"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(context.Background(), []byte(tc.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.err)
		})
	}
}

func TestParseErrorPath(t *testing.T) {
	_, err := Parse(context.Background(), []byte(fn("{op: const, dest: 0, i32: 1}", "{op: jump}")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "func 0 (f): block 0: terminator: unknown op: jump")

	var uo UnknownOpError
	assert.ErrorAs(t, err, &uo)

	_, err = Parse(context.Background(), []byte("version: 3.1.0"))

	var ve VersionError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "3.1.0", ve.Version)
}

func TestOpsCovered(t *testing.T) {
	for name, f := range instrs {
		x := f(&dec{x: &instr{}})
		assert.Equal(t, name, x.Op())
	}

	assert.Len(t, instrs, 58)
}

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile([]byte(`
calls:
  - {method: add, receiver: i32, count: 150}
  - {method: toString, count: 3}
`))
	require.NoError(t, err)

	assert.Equal(t, []ProfileCall{
		{Method: "add", Receiver: tp.I32, Count: 150},
		{Method: "toString", Receiver: tp.Any{}, Count: 3},
	}, p.Calls)

	_, err = ParseProfile([]byte("calls: [{count: 1}]"))
	assert.Error(t, err)

	_, err = ParseProfile([]byte("calls: [{method: a, count: -1}]"))
	assert.Error(t, err)

	_, err = ParseProfile([]byte("calls: [{method: a, receiver: 'fn(', count: 1}]"))
	assert.Error(t, err)
}

func fn(code, term string) string {
	return `
version: 1.0.0
functions:
  - id: 0
    name: f
    locals: [{name: x, type: i32}]
    blocks:
      - id: 0
        code: [` + code + `]
        term: ` + term + `
`
}
