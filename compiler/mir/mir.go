package mir

import (
	"strconv"

	"github.com/slowlang/miropt/compiler/tp"
	"tlog.app/go/tlog/tlwire"
)

type (
	SourceSpan struct {
		File      string
		Line, Col int
	}

	TypedLocal struct {
		Name  string
		Type  tp.Type
		Index int
	}

	TypedGlobal struct {
		Name string
		Type tp.Type
	}

	TypeLayout struct {
		Size, Align int
		Fields      []tp.Field
	}

	// TypedBlock is a basic block.
	// Spans is either empty or parallel to Instrs.
	TypedBlock struct {
		ID     BlockID
		Instrs []Instr
		Term   Terminator

		Spans    []SourceSpan
		TermSpan SourceSpan
	}

	TypedFunction struct {
		ID     FunctionID
		Name   string
		Params []LocalID
		Return tp.Type

		// Blocks order is meaningful: Blocks[0] is the entry block
		// and loop detection treats the order as a proxy for dominance.
		Blocks []*TypedBlock
		Locals []TypedLocal

		Pure bool
		Span SourceSpan
	}

	TypedMIR struct {
		Functions []*TypedFunction
		Globals   []TypedGlobal
		Entry     *FunctionID
		Layouts   map[string]TypeLayout
		Source    string
	}
)

// Retain keeps instructions for which keep returns true, preserving order and spans.
func (b *TypedBlock) Retain(keep func(i int, x Instr) bool) (removed int) {
	spans := len(b.Spans) == len(b.Instrs) && len(b.Spans) != 0

	j := 0

	for i, x := range b.Instrs {
		if !keep(i, x) {
			continue
		}

		b.Instrs[j] = x

		if spans {
			b.Spans[j] = b.Spans[i]
		}

		j++
	}

	removed = len(b.Instrs) - j

	clear(b.Instrs[j:])
	b.Instrs = b.Instrs[:j]

	if spans {
		b.Spans = b.Spans[:j]
	}

	return removed
}

// Remove removes the instruction at index i and returns it with its span.
func (b *TypedBlock) Remove(i int) (Instr, SourceSpan) {
	x := b.Instrs[i]

	var s SourceSpan

	if len(b.Spans) == len(b.Instrs) && len(b.Spans) != 0 {
		s = b.Spans[i]
		b.Spans = append(b.Spans[:i], b.Spans[i+1:]...)
	}

	b.Instrs = append(b.Instrs[:i], b.Instrs[i+1:]...)

	return x, s
}

// Prepend inserts xs before the first instruction.
// spans may be nil; it is only used if the block tracks spans.
func (b *TypedBlock) Prepend(xs []Instr, spans []SourceSpan) {
	if len(xs) == 0 {
		return
	}

	if len(b.Spans) == len(b.Instrs) && len(b.Spans) != 0 {
		ss := make([]SourceSpan, len(xs), len(xs)+len(b.Spans))
		copy(ss, spans)

		b.Spans = append(ss, b.Spans...)
	}

	b.Instrs = append(append(make([]Instr, 0, len(xs)+len(b.Instrs)), xs...), b.Instrs...)
}

// Block returns the block with the given id and its position.
func (f *TypedFunction) Block(id BlockID) (*TypedBlock, int) {
	for i, b := range f.Blocks {
		if b.ID == id {
			return b, i
		}
	}

	return nil, -1
}

func (f *TypedFunction) Local(l LocalID) (TypedLocal, bool) {
	if l < 0 || int(l) >= len(f.Locals) {
		return TypedLocal{}, false
	}

	return f.Locals[l], true
}

func (f *TypedFunction) NumInstrs() (n int) {
	for _, b := range f.Blocks {
		n += len(b.Instrs)
	}

	return n
}

func (m *TypedMIR) Func(id FunctionID) *TypedFunction {
	for _, f := range m.Functions {
		if f.ID == id {
			return f
		}
	}

	return nil
}

func (s SourceSpan) String() string {
	if s.File == "" && s.Line == 0 {
		return "-"
	}

	return s.File + ":" + strconv.Itoa(s.Line) + ":" + strconv.Itoa(s.Col)
}

func (s SourceSpan) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	return e.AppendString(b, s.String())
}

func (l LocalID) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	if l == NoLocal {
		return e.AppendNil(b)
	}

	return e.AppendInt(b, int(l))
}

func (l LocalID) String() string {
	if l == NoLocal {
		return "_"
	}

	return "%" + strconv.Itoa(int(l))
}

func (id BlockID) String() string {
	return "b" + strconv.Itoa(int(id))
}
