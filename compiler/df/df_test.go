package df

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/miropt/compiler/mir"
	"github.com/slowlang/miropt/compiler/tp"
)

// entry -> header <-> body, header -> exit
func loopFunc() *mir.TypedFunction {
	b := mir.NewBuilder(0, "loop")
	n := b.Param("n", tp.I32)
	i := b.Local("i", tp.I32)
	c := b.Local("c", tp.Bool)
	one := b.Local("one", tp.I32)

	b.Block(0).Add(&mir.Const{Dest_: i, Value: mir.I32(0)}).Term(&mir.Goto{Target: 1})
	b.Block(1).Add(&mir.BinOp{Dest_: c, Kind: mir.Lt, Left: i, Right: n, Type: tp.I32}).
		Term(&mir.Branch{Cond: c, Then: 2, Else: 3})
	b.Block(2).Add(
		&mir.Const{Dest_: one, Value: mir.I32(1)},
		&mir.BinOp{Dest_: i, Kind: mir.Add, Left: i, Right: one, Type: tp.I32},
	).Term(&mir.Goto{Target: 1})
	b.Block(3).Term(&mir.Return{Value: i})

	return b.Func()
}

func TestLoops(t *testing.T) {
	f := loopFunc()

	ls, err := Loops(f)
	require.NoError(t, err)
	require.Len(t, ls, 1)

	assert.Equal(t, mir.BlockID(1), ls[0].Header)
	assert.Equal(t, []int{1, 2}, ls[0].Body)
	assert.True(t, ls[0].Contains(2))
	assert.False(t, ls[0].Contains(3))

	def := Defined(f, ls[0].Body)
	assert.Equal(t, []mir.LocalID{1, 2, 3}, def.Slice())
}

func TestUsed(t *testing.T) {
	f := loopFunc()

	used := Used(f)
	assert.Equal(t, []mir.LocalID{0, 1, 2, 3}, used.Slice())
}

func TestSelfLoopAndDuplicates(t *testing.T) {
	b := mir.NewBuilder(0, "self")
	b.Block(0).Term(&mir.Goto{Target: 1})
	b.Block(1).Term(&mir.Goto{Target: 1})

	ls, err := Loops(b.Func())
	require.NoError(t, err)
	require.Len(t, ls, 1)
	assert.Equal(t, []int{1}, ls[0].Body)

	b.Block(1).Term(&mir.Return{Value: mir.NoLocal})

	_, err = Loops(b.Func())
	assert.Error(t, err)
}

func TestHeadersDedup(t *testing.T) {
	b := mir.NewBuilder(0, "two")
	c := b.Local("c", tp.Bool)

	b.Block(0).Term(&mir.Goto{Target: 2})
	b.Block(2).Term(&mir.Branch{Cond: c, Then: 2, Else: 1})
	b.Block(1).Term(&mir.Branch{Cond: c, Then: 2, Else: 0})

	pos, err := BlockPositions(b.Func())
	require.NoError(t, err)

	assert.Equal(t, []mir.BlockID{0, 2}, Headers(b.Func(), pos))
}
