package opt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/miropt/compiler/mir"
	"github.com/slowlang/miropt/compiler/tp"
)

func TestPipelinePhases(t *testing.T) {
	p := New(Config{})

	assert.Equal(t, []string{"constfold", "dce", "loops", "escape", "icache", "simd"}, p.Phases())
	assert.Equal(t, DefaultHotThreshold, p.Config().HotThreshold)
	assert.Equal(t, DefaultMaxUnroll, p.Config().MaxUnroll)
}

func TestPipelineOptimize(t *testing.T) {
	p := New(Config{Verify: true})

	m, err := p.Optimize(context.Background(), sampleModule())
	require.NoError(t, err)
	require.NotNil(t, m)

	f := m.Functions[0]
	assert.Equal(t, 8, f.NumInstrs())

	entry := f.Blocks[0].Instrs
	require.Len(t, entry, 4)

	one, ok := entry[0].(*mir.Const)
	require.True(t, ok, "%T", entry[0])
	assert.True(t, one.Value.Same(mir.I32(1)))

	k, ok := entry[2].(*mir.Const)
	require.True(t, ok, "%T", entry[2])
	assert.True(t, k.Value.Same(mir.F64(6)))

	assert.Len(t, f.Blocks[2].Instrs, 3)
	assert.Empty(t, f.Blocks[3].Instrs)

	assert.NotNil(t, p.Escape().Func(0))
	assert.Empty(t, p.Escape().Func(0).Sites)
}

func TestPipelineInternalError(t *testing.T) {
	m := sampleModule()
	m.Functions[1].Blocks[0].Instrs = append(m.Functions[1].Blocks[0].Instrs, nil)

	r, err := New(Config{}).Optimize(context.Background(), m)
	assert.Nil(t, r)

	var ie *InternalError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "constfold", ie.Phase)
	assert.Equal(t, "log", ie.Func)
	assert.NotZero(t, ie.PC)

	_, err = New(Config{}).Optimize(context.Background(), nil)
	assert.True(t, IsInternal(err))
}

func TestPipelineVerify(t *testing.T) {
	m := sampleModule()
	m.Functions[0].Blocks[3].Term = &mir.Return{Value: 42}

	_, err := New(Config{Verify: true}).Optimize(context.Background(), m)

	var ie *InternalError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "verify", ie.Phase)
	assert.Contains(t, err.Error(), "after input")
}

func TestPipelineCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Config{}).Optimize(ctx, sampleModule())
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsInternal(err))
}

func TestPipelineFreshModules(t *testing.T) {
	p := New(Config{})

	_, err := p.Optimize(context.Background(), sampleModule())
	require.NoError(t, err)

	b := mir.NewBuilder(7, "other")
	o := b.Local("o", tp.Object{})
	b.Block(0).Add(&mir.CreateObject{Dest_: o}).Term(&mir.Return{Value: o})

	_, err = p.Optimize(context.Background(), mir.Module("other.ts", b.F))
	require.NoError(t, err)

	assert.Nil(t, p.Escape().Func(0))
	assert.True(t, p.Escape().Func(7).Escapes(o))
}

func TestDefaultConfigEnv(t *testing.T) {
	t.Setenv("MIROPT_HOT_THRESHOLD", "5")
	t.Setenv("MIROPT_MAX_UNROLL", "3")
	t.Setenv("MIROPT_VERIFY", "true")

	c := DefaultConfig()

	assert.Equal(t, Config{HotThreshold: 5, MaxUnroll: 3, Verify: true}, c)
}
