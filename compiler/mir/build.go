package mir

import "github.com/slowlang/miropt/compiler/tp"

type (
	// Builder assembles a TypedFunction block by block.
	Builder struct {
		F *TypedFunction

		b *TypedBlock
	}
)

func NewBuilder(id FunctionID, name string) *Builder {
	return &Builder{
		F: &TypedFunction{
			ID:     id,
			Name:   name,
			Return: tp.Undefined,
		},
	}
}

// Local declares a new local.
func (b *Builder) Local(name string, t tp.Type) LocalID {
	l := LocalID(len(b.F.Locals))

	b.F.Locals = append(b.F.Locals, TypedLocal{Name: name, Type: t, Index: int(l)})

	return l
}

// Param declares a local and adds it to the parameter list.
func (b *Builder) Param(name string, t tp.Type) LocalID {
	l := b.Local(name, t)

	b.F.Params = append(b.F.Params, l)

	return l
}

// Block starts a new block. Following Add and Term calls go into it.
func (b *Builder) Block(id BlockID) *Builder {
	b.b = &TypedBlock{ID: id}
	b.F.Blocks = append(b.F.Blocks, b.b)

	return b
}

func (b *Builder) Add(xs ...Instr) *Builder {
	if b.b == nil {
		b.Block(BlockID(len(b.F.Blocks)))
	}

	b.b.Instrs = append(b.b.Instrs, xs...)

	return b
}

func (b *Builder) Term(t Terminator) *Builder {
	if b.b == nil {
		b.Block(BlockID(len(b.F.Blocks)))
	}

	b.b.Term = t

	return b
}

func (b *Builder) Func() *TypedFunction {
	return b.F
}

// Module wraps functions into a TypedMIR with the first one as the entry point.
func Module(source string, fs ...*TypedFunction) *TypedMIR {
	m := &TypedMIR{
		Functions: fs,
		Source:    source,
		Layouts:   map[string]TypeLayout{},
	}

	if len(fs) != 0 {
		id := fs[0].ID
		m.Entry = &id
	}

	return m
}
