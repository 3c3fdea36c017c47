package compiler

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/miropt/compiler/format"
	"github.com/slowlang/miropt/compiler/mir"
	"github.com/slowlang/miropt/compiler/opt"
	"github.com/slowlang/miropt/compiler/parse"
)

type (
	Options struct {
		Config  opt.Config
		Profile *parse.Profile
	}

	Result struct {
		Module   *mir.TypedMIR
		Pipeline *opt.Pipeline
	}
)

func OptimizeFile(ctx context.Context, name string, o Options) (*Result, error) {
	m, err := parse.ParseFile(ctx, name)
	if err != nil {
		return nil, errors.Wrap(err, "parse %v", name)
	}

	return Optimize(ctx, m, o)
}

func Optimize(ctx context.Context, m *mir.TypedMIR, o Options) (r *Result, err error) {
	if m == nil {
		return nil, errors.New("nil module")
	}

	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "run", "source", m.Source)
	defer tr.Finish("err", &err)

	p := opt.New(o.Config)

	if o.Profile != nil {
		ApplyProfile(p.Cache(), o.Profile)
	}

	m, err = p.Optimize(ctx, m)
	if err != nil {
		return nil, err
	}

	return &Result{Module: m, Pipeline: p}, nil
}

// ApplyProfile feeds recorded call counts into the cache.
func ApplyProfile(c *opt.InlineCache, p *parse.Profile) {
	for _, call := range p.Calls {
		c.RecordCalls(call.Method, call.Receiver, call.Count)
	}
}

// Append dumps the optimized module, followed by the advisory report if asked.
func (r *Result) Append(ctx context.Context, b []byte, report bool) (_ []byte, err error) {
	b, err = format.Format(ctx, b, r.Module)
	if err != nil {
		return nil, errors.Wrap(err, "format")
	}

	if !report {
		return b, nil
	}

	b = append(b, '\n')

	b, err = format.Report(b, r.Module, r.Pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "report")
	}

	return b, nil
}
