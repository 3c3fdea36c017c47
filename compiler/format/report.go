package format

import (
	"tlog.app/go/errors"

	"github.com/slowlang/miropt/compiler/mir"
	"github.com/slowlang/miropt/compiler/opt"
)

// Report appends what the advisory passes of p found about m.
// p must have been run on m.
func Report(b []byte, m *mir.TypedMIR, p *opt.Pipeline) ([]byte, error) {
	b = app(b, 0, "report %q\n", m.Source)

	for _, f := range m.Functions {
		b = app(b, 0, "func f%d %v\n", f.ID, f.Name)

		if e := p.Escape().Func(f.ID); e != nil {
			b = app(b, 1, "sites")
			b = appLocals(b, e.Sites)
			b = append(b, '\n')

			b = app(b, 1, "stack")
			b = appLocals(b, e.Stack())
			b = append(b, '\n')

			b = app(b, 1, "escaping")
			b = appLocals(b, e.Escaping())
			b = append(b, '\n')
		}

		loops, err := p.SIMD().AnalyzeLoops(f)
		if err != nil {
			return nil, errors.Wrap(err, "func %v: loops", f.Name)
		}

		for _, l := range loops {
			b = app(b, 1, "loop %v: vectorize %v width %d candidates %d: %v\n", l.Header, l.CanVectorize, l.Width, l.Candidates, l.Reason)
		}
	}

	hot := p.Cache().Hottest(-1)
	if len(hot) == 0 {
		return b, nil
	}

	b = app(b, 0, "calls\n")

	for _, s := range hot {
		b = app(b, 1, "%v(%v) %d", s.Method, s.Receiver, s.Count)

		if s.Count > p.Cache().Threshold {
			b = append(b, " hot"...)
		}

		b = append(b, '\n')
	}

	return b, nil
}
