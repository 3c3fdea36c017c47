package parse

import (
	"bytes"
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/miropt/compiler/mir"
	"github.com/slowlang/miropt/compiler/tp"
)

type (
	document struct {
		Version   string            `yaml:"version"`
		Source    string            `yaml:"source"`
		Entry     *int              `yaml:"entry"`
		Globals   []global          `yaml:"globals"`
		Layouts   map[string]layout `yaml:"layouts"`
		Functions []function        `yaml:"functions"`
	}

	global struct {
		Name string `yaml:"name"`
		Type string `yaml:"type"`
	}

	layout struct {
		Size   int     `yaml:"size"`
		Align  int     `yaml:"align"`
		Fields []field `yaml:"fields"`
	}

	field struct {
		Name   string `yaml:"name"`
		Offset int    `yaml:"offset"`
		Type   string `yaml:"type"`
	}

	function struct {
		ID     int     `yaml:"id"`
		Name   string  `yaml:"name"`
		Params []int   `yaml:"params"`
		Return string  `yaml:"return"`
		Pure   bool    `yaml:"pure"`
		Locals []local `yaml:"locals"`
		Blocks []block `yaml:"blocks"`
		Span   string  `yaml:"span"`
	}

	local struct {
		Name string `yaml:"name"`
		Type string `yaml:"type"`
	}

	block struct {
		ID   int     `yaml:"id"`
		Code []instr `yaml:"code"`
		Term instr   `yaml:"term"`
	}

	// VersionError is returned for documents of an unsupported format version.
	VersionError struct {
		Version    string
		Constraint string
	}
)

// Versions is the range of document format versions Parse accepts.
const Versions = "^1"

var versions = func() *semver.Constraints {
	c, err := semver.NewConstraint(Versions)
	if err != nil {
		panic(err)
	}

	return c
}()

func ParseFile(ctx context.Context, name string) (*mir.TypedMIR, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(data), "name", name)

	m, err := Parse(ctx, data)
	if err != nil {
		return nil, err
	}

	if m.Source == "" {
		m.Source = name
	}

	return m, nil
}

// Parse decodes a MIR document.
// It checks the document structure, not the MIR invariants; see mir.Verify.
func Parse(ctx context.Context, text []byte) (m *mir.TypedMIR, err error) {
	var doc document

	d := yaml.NewDecoder(bytes.NewReader(text))
	d.KnownFields(true)

	err = d.Decode(&doc)
	if err != nil {
		return nil, errors.Wrap(err, "decode yaml")
	}

	err = checkVersion(doc.Version)
	if err != nil {
		return nil, err
	}

	m = &mir.TypedMIR{
		Source:  doc.Source,
		Layouts: make(map[string]mir.TypeLayout, len(doc.Layouts)),
	}

	if doc.Entry != nil {
		id := mir.FunctionID(*doc.Entry)
		m.Entry = &id
	}

	for i, g := range doc.Globals {
		t, err := tp.Parse(g.Type)
		if err != nil {
			return nil, errors.Wrap(err, "global %d (%v)", i, g.Name)
		}

		m.Globals = append(m.Globals, mir.TypedGlobal{Name: g.Name, Type: t})
	}

	for name, l := range doc.Layouts {
		tl := mir.TypeLayout{Size: l.Size, Align: l.Align}

		for _, f := range l.Fields {
			t, err := tp.Parse(f.Type)
			if err != nil {
				return nil, errors.Wrap(err, "layout %v: field %v", name, f.Name)
			}

			tl.Fields = append(tl.Fields, tp.Field{Name: f.Name, Offset: f.Offset, Type: t})
		}

		m.Layouts[name] = tl
	}

	for i, f := range doc.Functions {
		fn, err := parseFunc(&f)
		if err != nil {
			return nil, errors.Wrap(err, "func %d (%v)", i, f.Name)
		}

		m.Functions = append(m.Functions, fn)
	}

	tlog.SpanFromContext(ctx).V("parse").Printw("parsed", "source", m.Source, "funcs", len(m.Functions))

	return m, nil
}

func checkVersion(v string) error {
	if v == "" {
		return errors.New("missing format version")
	}

	ver, err := semver.NewVersion(v)
	if err != nil {
		return errors.Wrap(err, "format version")
	}

	if !versions.Check(ver) {
		return VersionError{Version: v, Constraint: Versions}
	}

	return nil
}

func parseFunc(f *function) (_ *mir.TypedFunction, err error) {
	fn := &mir.TypedFunction{
		ID:     mir.FunctionID(f.ID),
		Name:   f.Name,
		Return: tp.Undefined,
		Pure:   f.Pure,
	}

	if f.Return != "" {
		fn.Return, err = tp.Parse(f.Return)
		if err != nil {
			return nil, errors.Wrap(err, "return type")
		}
	}

	fn.Span, err = parseSpan(f.Span)
	if err != nil {
		return nil, errors.Wrap(err, "span")
	}

	for i, l := range f.Locals {
		t, err := tp.Parse(l.Type)
		if err != nil {
			return nil, errors.Wrap(err, "local %d (%v)", i, l.Name)
		}

		fn.Locals = append(fn.Locals, mir.TypedLocal{Name: l.Name, Type: t, Index: i})
	}

	for _, p := range f.Params {
		fn.Params = append(fn.Params, mir.LocalID(p))
	}

	for i := range f.Blocks {
		b, err := parseBlock(&f.Blocks[i])
		if err != nil {
			return nil, errors.Wrap(err, "block %d", f.Blocks[i].ID)
		}

		fn.Blocks = append(fn.Blocks, b)
	}

	return fn, nil
}

func parseBlock(b *block) (_ *mir.TypedBlock, err error) {
	tb := &mir.TypedBlock{ID: mir.BlockID(b.ID)}

	spans := false

	for i := range b.Code {
		x, err := parseInstr(&b.Code[i])
		if err != nil {
			return nil, errors.Wrap(err, "instr %d", i)
		}

		tb.Instrs = append(tb.Instrs, x)

		spans = spans || b.Code[i].Span != ""
	}

	if spans {
		tb.Spans = make([]mir.SourceSpan, len(b.Code))

		for i := range b.Code {
			tb.Spans[i], err = parseSpan(b.Code[i].Span)
			if err != nil {
				return nil, errors.Wrap(err, "instr %d: span", i)
			}
		}
	}

	tb.Term, err = parseTerm(&b.Term)
	if err != nil {
		return nil, errors.Wrap(err, "terminator")
	}

	tb.TermSpan, err = parseSpan(b.Term.Span)
	if err != nil {
		return nil, errors.Wrap(err, "terminator: span")
	}

	return tb, nil
}

// parseSpan reads file:line:col. Empty string is the zero span.
func parseSpan(s string) (sp mir.SourceSpan, err error) {
	if s == "" {
		return
	}

	c := strings.LastIndexByte(s, ':')
	if c < 0 {
		return sp, errors.New("bad span: %q", s)
	}

	l := strings.LastIndexByte(s[:c], ':')
	if l < 0 {
		return sp, errors.New("bad span: %q", s)
	}

	sp.File = s[:l]

	sp.Line, err = strconv.Atoi(s[l+1 : c])
	if err != nil {
		return sp, errors.Wrap(err, "span line")
	}

	sp.Col, err = strconv.Atoi(s[c+1:])
	if err != nil {
		return sp, errors.Wrap(err, "span col")
	}

	return sp, nil
}

func (e VersionError) Error() string {
	return "unsupported format version " + e.Version + " (want " + e.Constraint + ")"
}
