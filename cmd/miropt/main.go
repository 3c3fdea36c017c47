package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"
	"tlog.app/go/tlog/ext/tlflag"

	"github.com/slowlang/miropt/compiler"
	"github.com/slowlang/miropt/compiler/format"
	"github.com/slowlang/miropt/compiler/opt"
	"github.com/slowlang/miropt/compiler/parse"
)

func main() {
	def := opt.DefaultConfig()

	optFlags := []*cli.Flag{
		cli.NewFlag("hot-threshold", def.HotThreshold, "calls to a (method, receiver) pair before it is hot"),
		cli.NewFlag("max-unroll", def.MaxUnroll, "max loop trip count to unroll"),
		cli.NewFlag("verify", def.Verify, "verify MIR after every phase"),
		cli.NewFlag("report", false, "print escape, hot call and vectorization advice"),
		cli.NewFlag("profile", "", "call profile file"),
		cli.NewFlag("jobs,j", 0, "files optimized in parallel, 0 is unlimited"),
	}

	optCmd := &cli.Command{
		Name:        "opt",
		Description: "optimize MIR documents and print the result",
		Action:      optAct,
		Args:        cli.Args{},
		Flags:       optFlags,
	}

	fmtCmd := &cli.Command{
		Name:        "fmt",
		Description: "print MIR documents without optimizing",
		Action:      fmtAct,
		Args:        cli.Args{},
	}

	watchCmd := &cli.Command{
		Name:        "watch",
		Description: "optimize a MIR document every time it is written",
		Action:      watchAct,
		Args:        cli.Args{},
		Flags:       optFlags,
	}

	app := &cli.Command{
		Name:        "miropt",
		Description: "miropt optimizes typed MIR",
		Before:      before,
		Flags: []*cli.Flag{
			cli.NewFlag("log", "stderr", "log output file (or stderr)"),
			cli.NewFlag("verbosity,v", "", "logger verbosity topics"),
			cli.HelpFlag,
		},
		Commands: []*cli.Command{
			optCmd,
			fmtCmd,
			watchCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func before(c *cli.Command) error {
	w, err := tlflag.OpenWriter(c.String("log"))
	if err != nil {
		return errors.Wrap(err, "open log file")
	}

	tlog.DefaultLogger = tlog.New(w)

	tlog.SetVerbosity(c.String("verbosity"))

	return nil
}

func optAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	o, err := options(ctx, c)
	if err != nil {
		return err
	}

	out := make([][]byte, len(c.Args))

	g, ctx := errgroup.WithContext(ctx)

	if n := c.Int("jobs"); n > 0 {
		g.SetLimit(n)
	}

	for i, a := range c.Args {
		i, a := i, a

		g.Go(func() error {
			b, err := optimize(ctx, a, o, c.Bool("report"))
			if err != nil {
				return err
			}

			out[i] = b

			return nil
		})
	}

	err = g.Wait()
	if err != nil {
		return err
	}

	for _, b := range out {
		_, err = os.Stdout.Write(b)
		if err != nil {
			return errors.Wrap(err, "write")
		}
	}

	return nil
}

func fmtAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	var b []byte

	for _, a := range c.Args {
		m, err := parse.ParseFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		b, err = format.Format(ctx, b[:0], m)
		if err != nil {
			return errors.Wrap(err, "format %v", a)
		}

		_, err = os.Stdout.Write(b)
		if err != nil {
			return errors.Wrap(err, "write")
		}
	}

	return nil
}

func watchAct(c *cli.Command) (err error) {
	if len(c.Args) != 1 {
		return errors.New("watch takes exactly one file")
	}

	name := c.Args[0]

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	tr := tlog.Start("watch", "file", name)
	defer tr.Finish("err", &err)

	ctx = tlog.ContextWithSpan(ctx, tr)

	o, err := options(ctx, c)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "new watcher")
	}

	defer func() {
		e := w.Close()
		if err == nil && e != nil {
			err = errors.Wrap(e, "close watcher")
		}
	}()

	// Editors often replace the file, so the directory is watched.
	err = w.Add(filepath.Dir(name))
	if err != nil {
		return errors.Wrap(err, "watch %v", name)
	}

	run := func() {
		b, err := optimize(ctx, name, o, c.Bool("report"))
		if err != nil {
			tr.Printw("optimize", "err", err)
			return
		}

		_, err = os.Stdout.Write(b)
		if err != nil {
			tr.Printw("write", "err", err)
		}
	}

	run()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(ev.Name) != filepath.Clean(name) || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}

			tr.V("watch").Printw("file changed", "op", ev.Op.String())

			run()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}

			return errors.Wrap(err, "watcher")
		}
	}
}

func options(ctx context.Context, c *cli.Command) (o compiler.Options, err error) {
	o.Config = opt.Config{
		HotThreshold: c.Int("hot-threshold"),
		MaxUnroll:    c.Int("max-unroll"),
		Verify:       c.Bool("verify"),
	}

	if p := c.String("profile"); p != "" {
		o.Profile, err = parse.ParseProfileFile(ctx, p)
		if err != nil {
			return o, errors.Wrap(err, "profile")
		}
	}

	return o, nil
}

func optimize(ctx context.Context, name string, o compiler.Options, report bool) ([]byte, error) {
	r, err := compiler.OptimizeFile(ctx, name, o)
	if err != nil {
		return nil, errors.Wrap(err, "optimize %v", name)
	}

	return r.Append(ctx, nil, report)
}
