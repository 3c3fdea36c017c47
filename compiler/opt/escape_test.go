package opt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/miropt/compiler/mir"
	"github.com/slowlang/miropt/compiler/tp"
)

func TestEscapeSinks(t *testing.T) {
	for _, tc := range []struct {
		name string
		use  func(site, other mir.LocalID) mir.Instr
		term mir.Terminator
	}{
		{name: "return", term: &mir.Return{Value: 0}},
		{name: "call_arg", use: func(s, o mir.LocalID) mir.Instr {
			return &mir.Call{Dest_: mir.NoLocal, Func: 1, Args: []mir.LocalID{s}}
		}},
		{name: "call_this", use: func(s, o mir.LocalID) mir.Instr {
			return &mir.CallFunction{Dest_: mir.NoLocal, Callee: o, This: s}
		}},
		{name: "set_property", use: func(s, o mir.LocalID) mir.Instr {
			return &mir.SetProperty{Object: o, Offset: 0, Value: s}
		}},
		{name: "set_property_dynamic", use: func(s, o mir.LocalID) mir.Instr {
			return &mir.SetPropertyDynamic{Object: o, Property: "p", Value: s}
		}},
		{name: "set_property_computed", use: func(s, o mir.LocalID) mir.Instr {
			return &mir.SetPropertyComputed{Object: o, Key: o, Value: s}
		}},
		{name: "captured", use: func(s, o mir.LocalID) mir.Instr {
			return &mir.CreateFunction{Dest_: o, Func: 1, Captured: []mir.LocalID{s}}
		}},
		{name: "throw", use: func(s, o mir.LocalID) mir.Instr {
			return &mir.Throw{Value: s}
		}},
		{name: "array_push", use: func(s, o mir.LocalID) mir.Instr {
			return &mir.ArrayPush{Array: o, Value: s}
		}},
		{name: "promise_resolve", use: func(s, o mir.LocalID) mir.Instr {
			return &mir.PromiseResolve{Promise: o, Value: s}
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b := mir.NewBuilder(0, tc.name)
			site := b.Local("site", tp.Any{})
			other := b.Param("other", tp.Any{})

			b.Block(0).Add(&mir.CreateObject{Dest_: site})

			if tc.use != nil {
				b.Add(tc.use(site, other))
			}

			term := tc.term
			if term == nil {
				term = &mir.Return{Value: mir.NoLocal}
			}

			b.Term(term)

			e, err := NewEscapeAnalyzer().AnalyzeFunc(context.Background(), b.F)
			require.NoError(t, err)

			assert.Equal(t, []mir.LocalID{site}, e.Sites)
			assert.True(t, e.Escapes(site))
			assert.False(t, e.CanStackAllocate(site))
		})
	}
}

func TestEscapeLocalOnly(t *testing.T) {
	b := mir.NewBuilder(0, "local")
	arr := b.Local("arr", tp.Array{X: tp.I32})
	obj := b.Local("obj", tp.Object{})
	v := b.Local("v", tp.I32)
	w := b.Local("w", tp.I32)
	r := b.Local("r", tp.I32)

	b.Block(0).Add(
		&mir.Const{Dest_: v, Value: mir.I32(1)},
		&mir.CreateArray{Dest_: arr, Elems: []mir.LocalID{v}},
		&mir.Allocate{Dest_: obj, Type: tp.Named("Point")},
		&mir.SetProperty{Object: obj, Offset: 0, Value: v},
		&mir.GetProperty{Dest_: w, Object: obj, Offset: 0, Type: tp.I32},
		&mir.GetPropertyComputed{Dest_: r, Object: arr, Key: v},
		&mir.BinOp{Dest_: r, Kind: mir.Add, Left: r, Right: w, Type: tp.I32},
	).Term(&mir.Return{Value: r})

	a := NewEscapeAnalyzer()

	_, err := a.AnalyzeFunc(context.Background(), b.F)
	require.NoError(t, err)

	assert.False(t, a.Escapes(arr))
	assert.False(t, a.Escapes(obj))
	assert.True(t, a.CanStackAllocate(arr))
	assert.True(t, a.CanStackAllocate(obj))
}

func TestEscapeThroughCopyAndContainer(t *testing.T) {
	b := mir.NewBuilder(0, "flow")
	inner := b.Local("inner", tp.Object{})
	alias := b.Local("alias", tp.Object{})
	outer := b.Local("outer", tp.Array{X: tp.Any{}})
	kept := b.Local("kept", tp.Object{})
	box := b.Local("box", tp.Object{})

	b.Block(0).Add(
		&mir.CreateObject{Dest_: inner},
		&mir.Copy{Dest_: alias, Src: inner},
		&mir.CreateArray{Dest_: outer, Elems: []mir.LocalID{alias}},
		&mir.CreateObject{Dest_: kept},
		&mir.CreateObject{Dest_: box, Props: []mir.Prop{{Key: "k", Value: kept}}},
	).Term(&mir.Return{Value: outer})

	e, err := NewEscapeAnalyzer().AnalyzeFunc(context.Background(), b.F)
	require.NoError(t, err)

	assert.True(t, e.Escapes(outer))
	assert.True(t, e.Escapes(inner))
	assert.False(t, e.Escapes(kept))
	assert.False(t, e.Escapes(box))

	assert.Equal(t, []mir.LocalID{inner, outer}, e.Escaping())
	assert.Equal(t, []mir.LocalID{kept, box}, e.Stack())
}

func TestEscapeMarkEscaped(t *testing.T) {
	b := mir.NewBuilder(0, "mark")
	o := b.Local("o", tp.Object{})

	b.Block(0).Add(&mir.CreateObject{Dest_: o}).Term(&mir.Return{Value: mir.NoLocal})

	a := NewEscapeAnalyzer()

	_, err := a.Analyze(context.Background(), mir.Module("m.ts", b.F))
	require.NoError(t, err)

	require.True(t, a.CanStackAllocate(o))

	a.MarkEscaped(o)

	assert.True(t, a.Escapes(o))
	assert.False(t, a.CanStackAllocate(o))
	assert.True(t, a.Func(0).Escapes(o))
}

func TestEscapePerFunction(t *testing.T) {
	m := sampleModule()

	a := NewEscapeAnalyzer()

	_, err := a.Analyze(context.Background(), m)
	require.NoError(t, err)

	sum := a.Func(0)
	require.NotNil(t, sum)
	assert.Equal(t, []mir.LocalID{8}, sum.Stack())

	require.NotNil(t, a.Func(1))
	assert.Empty(t, a.Func(1).Sites)
	assert.Nil(t, a.Func(2))

	// last analyzed function is "log"
	assert.False(t, a.CanStackAllocate(8))
}
