package opt

import (
	"fmt"

	"github.com/slowlang/miropt/compiler/mir"
	"github.com/slowlang/miropt/compiler/tp"
)

// sampleModule is
//
//	function sum(n) {
//		let s = 0.0
//		let k = 2.0 * 3.0
//		for (let i = 0; i < n; i++) { s = s + k; log(s) }
//		let dead = {}
//		return s
//	}
func sampleModule() *mir.TypedMIR {
	b := mir.NewBuilder(0, "sum")
	n := b.Param("n", tp.I32)
	s := b.Local("s", tp.F64)
	two := b.Local("two", tp.F64)
	three := b.Local("three", tp.F64)
	k := b.Local("k", tp.F64)
	i := b.Local("i", tp.I32)
	c := b.Local("c", tp.Bool)
	one := b.Local("one", tp.I32)
	dead := b.Local("dead", tp.Object{})
	unused := b.Local("unused", tp.F64)

	b.Block(0).Add(
		&mir.Const{Dest_: s, Value: mir.F64(0)},
		&mir.Const{Dest_: two, Value: mir.F64(2)},
		&mir.Const{Dest_: three, Value: mir.F64(3)},
		&mir.BinOp{Dest_: k, Kind: mir.Mul, Left: two, Right: three, Type: tp.F64},
		&mir.Const{Dest_: i, Value: mir.I32(0)},
	).Term(&mir.Goto{Target: 1})

	b.Block(1).Add(
		&mir.BinOp{Dest_: c, Kind: mir.Lt, Left: i, Right: n, Type: tp.I32},
	).Term(&mir.Branch{Cond: c, Then: 2, Else: 3})

	b.Block(2).Add(
		&mir.BinOp{Dest_: s, Kind: mir.Add, Left: s, Right: k, Type: tp.F64},
		&mir.Call{Dest_: mir.NoLocal, Func: 1, Args: []mir.LocalID{s}},
		&mir.Const{Dest_: one, Value: mir.I32(1)},
		&mir.BinOp{Dest_: unused, Kind: mir.Mul, Left: k, Right: k, Type: tp.F64},
		&mir.BinOp{Dest_: i, Kind: mir.Add, Left: i, Right: one, Type: tp.I32},
	).Term(&mir.Goto{Target: 1})

	b.Block(3).Add(
		&mir.CreateObject{Dest_: dead},
	).Term(&mir.Return{Value: s})

	log := mir.NewBuilder(1, "log")
	log.Param("v", tp.F64)
	log.Block(0).Term(&mir.Return{Value: mir.NoLocal})

	return mir.Module("sum.ts", b.Func(), log.Func())
}

func dumpInstrs(m *mir.TypedMIR) (r []string) {
	for _, f := range m.Functions {
		for _, b := range f.Blocks {
			for _, x := range b.Instrs {
				r = append(r, fmt.Sprintf("%v %v %+v", f.Name, b.ID, x))
			}
		}
	}

	return r
}
