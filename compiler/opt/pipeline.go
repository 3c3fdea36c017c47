package opt

import (
	"context"
	stderrors "errors"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/miropt/compiler/mir"
)

type (
	// Pipeline runs the passes in a fixed order over one module at a time.
	// It is not safe for concurrent use; use one Pipeline per goroutine.
	Pipeline struct {
		cfg Config

		fold   *ConstantFolder
		dce    *DeadCodeEliminator
		loops  *LoopOptimizer
		escape *EscapeAnalyzer
		cache  *InlineCache
		simd   *SimdOptimizer

		phases []Phase
	}

	Phase struct {
		Name string
		Run  func(ctx context.Context, m *mir.TypedMIR) (*mir.TypedMIR, error)
	}
)

func New(cfg Config) *Pipeline {
	cfg = cfg.withDefaults()

	p := &Pipeline{
		cfg:    cfg,
		fold:   NewConstantFolder(),
		dce:    NewDeadCodeEliminator(),
		loops:  NewLoopOptimizer(cfg.MaxUnroll),
		escape: NewEscapeAnalyzer(),
		cache:  NewInlineCache(cfg.HotThreshold),
		simd:   NewSimdOptimizer(),
	}

	p.phases = []Phase{
		{"constfold", p.fold.Fold},
		{"dce", p.dce.Eliminate},
		{"loops", p.loops.HoistInvariants},
		{"escape", p.escape.Analyze},
		{"icache", p.cache.Optimize},
		{"simd", p.simd.Vectorize},
	}

	return p
}

// Optimize takes ownership of m and returns the optimized module.
// On error no module is returned.
func (p *Pipeline) Optimize(ctx context.Context, m *mir.TypedMIR) (_ *mir.TypedMIR, err error) {
	if m == nil {
		return nil, ice("pipeline", nil, errors.New("nil module"))
	}

	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "optimize", "source", m.Source, "funcs", len(m.Functions))
	defer tr.Finish("err", &err)

	err = p.verify(m, "input")
	if err != nil {
		return nil, err
	}

	for _, ph := range p.phases {
		if err = ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "before %v", ph.Name)
		}

		if tr.If("dump_before") {
			tr.Printw("before phase", "phase", ph.Name, "instrs", countInstrs(m))
		}

		m, err = ph.Run(ctx, m)
		if err != nil {
			var ie *InternalError
			if !stderrors.As(err, &ie) {
				err = ice(ph.Name, nil, err)
			}

			return nil, err
		}

		err = p.verify(m, ph.Name)
		if err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (p *Pipeline) verify(m *mir.TypedMIR, after string) error {
	if !p.cfg.Verify {
		return nil
	}

	err := mir.Verify(m)
	if err != nil {
		return ice("verify", nil, errors.Wrap(err, "after %v", after))
	}

	return nil
}

// Phases returns phase names in execution order.
func (p *Pipeline) Phases() []string {
	r := make([]string, len(p.phases))

	for i, ph := range p.phases {
		r[i] = ph.Name
	}

	return r
}

func (p *Pipeline) Config() Config { return p.cfg }

func (p *Pipeline) Folder() *ConstantFolder  { return p.fold }
func (p *Pipeline) DCE() *DeadCodeEliminator { return p.dce }
func (p *Pipeline) Loops() *LoopOptimizer    { return p.loops }
func (p *Pipeline) Escape() *EscapeAnalyzer  { return p.escape }
func (p *Pipeline) Cache() *InlineCache      { return p.cache }
func (p *Pipeline) SIMD() *SimdOptimizer     { return p.simd }

func countInstrs(m *mir.TypedMIR) (n int) {
	for _, f := range m.Functions {
		if f != nil {
			n += f.NumInstrs()
		}
	}

	return n
}
