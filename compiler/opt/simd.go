package opt

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/slowlang/miropt/compiler/df"
	"github.com/slowlang/miropt/compiler/mir"
	"github.com/slowlang/miropt/compiler/tp"
)

type (
	// SimdOptimizer answers vectorization queries. No vector code is emitted.
	SimdOptimizer struct{}

	LoopVectorInfo struct {
		Func   string
		Header mir.BlockID

		CanVectorize bool
		Width        int
		Candidates   int // vectorizable binary operations
		Reason       string
	}
)

func NewSimdOptimizer() *SimdOptimizer {
	return &SimdOptimizer{}
}

// Vectorize returns m as is. With the dump_simd topic it logs the loop report.
func (s *SimdOptimizer) Vectorize(ctx context.Context, m *mir.TypedMIR) (_ *mir.TypedMIR, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "simd", "source", m.Source)
	defer tr.Finish("err", &err)

	if !tr.If("dump_simd") {
		return m, nil
	}

	for _, f := range m.Functions {
		infos, err := s.AnalyzeLoops(f)
		if err != nil {
			return nil, ice("simd", f, err)
		}

		for _, info := range infos {
			tr.Printw("loop", "func", info.Func, "header", info.Header, "vectorize", info.CanVectorize, "width", info.Width, "candidates", info.Candidates, "reason", info.Reason)
		}
	}

	return m, nil
}

func (s *SimdOptimizer) IsVectorizable(x mir.Instr) bool {
	b, ok := x.(*mir.BinOp)
	if !ok {
		return false
	}

	switch b.Type {
	case tp.I32, tp.F64, tp.I64:
		return true
	}

	return false
}

// VectorWidth is the number of lanes of t in a 128 bit register, 1 for non-numeric types.
func (s *SimdOptimizer) VectorWidth(t tp.Type) int {
	p, ok := t.(tp.Primitive)
	if !ok {
		return 1
	}

	switch p {
	case tp.I32:
		return 4
	case tp.F64, tp.I64:
		return 2
	}

	return 1
}

// AnalyzeLoops reports for each loop in f whether its body is a vectorization candidate.
func (s *SimdOptimizer) AnalyzeLoops(f *mir.TypedFunction) ([]LoopVectorInfo, error) {
	loops, err := df.Loops(f)
	if err != nil {
		return nil, err
	}

	infos := make([]LoopVectorInfo, 0, len(loops))

	for _, lp := range loops {
		infos = append(infos, s.analyzeLoop(f, lp))
	}

	return infos, nil
}

func (s *SimdOptimizer) analyzeLoop(f *mir.TypedFunction, lp df.Loop) LoopVectorInfo {
	info := LoopVectorInfo{
		Func:   f.Name,
		Header: lp.Header,
		Width:  1,
	}

	effects := false

	for _, p := range lp.Body {
		for _, x := range f.Blocks[p].Instrs {
			if x.Effect() == mir.SideEffect {
				effects = true
			}

			if !s.IsVectorizable(x) {
				continue
			}

			w := s.VectorWidth(x.(*mir.BinOp).Type)

			if info.Candidates == 0 || w < info.Width {
				info.Width = w
			}

			info.Candidates++
		}
	}

	switch {
	case info.Candidates == 0:
		info.Reason = "no vectorizable operations"
	case effects:
		info.Reason = "side effects in loop body"
	default:
		info.CanVectorize = true
		info.Reason = "numeric operations without side effects"
	}

	return info
}
