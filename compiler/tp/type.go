package tp

import (
	"strconv"
	"strings"

	"tlog.app/go/errors"
)

type (
	Type interface {
		Size() int
		String() string
	}

	Primitive int

	Any struct{}

	Named string

	Object struct {
		Fields []Field
	}

	Field struct {
		Name   string
		Offset int
		Type   Type
	}

	Array struct {
		X Type
	}

	Func struct {
		In  []Type
		Out Type
	}
)

const (
	I32 Primitive = iota
	I64
	F64
	Bool
	String
	BigInt
	Null
	Undefined
)

var primNames = []string{
	I32:       "i32",
	I64:       "i64",
	F64:       "f64",
	Bool:      "bool",
	String:    "string",
	BigInt:    "bigint",
	Null:      "null",
	Undefined: "undefined",
}

const pointerSize = 8

func (x Primitive) Size() int {
	switch x {
	case I32:
		return 4
	case Bool:
		return 1
	case Null, Undefined:
		return 0
	default:
		return 8
	}
}

func (x Primitive) String() string {
	if x >= 0 && int(x) < len(primNames) {
		return primNames[x]
	}

	return "prim(" + strconv.Itoa(int(x)) + ")"
}

func (x Any) Size() int      { return 16 }
func (x Any) String() string { return "any" }

func (x Named) Size() int      { return pointerSize }
func (x Named) String() string { return string(x) }

func (x Object) Size() (s int) {
	for _, f := range x.Fields {
		if e := f.Offset + f.Type.Size(); e > s {
			s = e
		}
	}

	return s
}

func (x Object) String() string {
	if len(x.Fields) == 0 {
		return "object"
	}

	var b strings.Builder

	b.WriteString("{")

	for i, f := range x.Fields {
		if i != 0 {
			b.WriteString(", ")
		}

		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Type.String())
	}

	b.WriteString("}")

	return b.String()
}

func (x Array) Size() int      { return pointerSize }
func (x Array) String() string { return "array<" + x.X.String() + ">" }

func (x Func) Size() int { return pointerSize }

func (x Func) String() string {
	var b strings.Builder

	b.WriteString("fn(")

	for i, t := range x.In {
		if i != 0 {
			b.WriteString(", ")
		}

		b.WriteString(t.String())
	}

	b.WriteString(")")

	if x.Out != nil {
		b.WriteString(" ")
		b.WriteString(x.Out.String())
	}

	return b.String()
}

// IsPrim reports whether t is the primitive p.
func IsPrim(t Type, p Primitive) bool {
	q, ok := t.(Primitive)

	return ok && q == p
}

// Parse reads the textual type syntax produced by String.
// Object types with fields are not accepted; use a Named type and a layout instead.
func Parse(s string) (Type, error) {
	s = strings.TrimSpace(s)

	switch s {
	case "":
		return nil, errors.New("empty type")
	case "any":
		return Any{}, nil
	case "object":
		return Object{}, nil
	}

	for i, n := range primNames {
		if n == s {
			return Primitive(i), nil
		}
	}

	if strings.HasPrefix(s, "array<") && strings.HasSuffix(s, ">") {
		x, err := Parse(s[len("array<") : len(s)-1])
		if err != nil {
			return nil, errors.Wrap(err, "array elem")
		}

		return Array{X: x}, nil
	}

	if strings.HasPrefix(s, "fn(") {
		return parseFunc(s)
	}

	for _, c := range s {
		if !(c == '_' || c == '.' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return nil, errors.New("bad type name: %q", s)
		}
	}

	return Named(s), nil
}

func parseFunc(s string) (Type, error) {
	end := matchParen(s, len("fn"))
	if end < 0 {
		return nil, errors.New("unbalanced parens: %q", s)
	}

	var f Func

	if args := s[len("fn(") : end-1]; strings.TrimSpace(args) != "" {
		for _, a := range splitTop(args) {
			t, err := Parse(a)
			if err != nil {
				return nil, errors.Wrap(err, "param %d", len(f.In))
			}

			f.In = append(f.In, t)
		}
	}

	if rest := strings.TrimSpace(s[end:]); rest != "" {
		t, err := Parse(rest)
		if err != nil {
			return nil, errors.Wrap(err, "result")
		}

		f.Out = t
	}

	return f, nil
}

// matchParen returns the index after the paren closing the one at st.
func matchParen(s string, st int) int {
	d := 0

	for i := st; i < len(s); i++ {
		switch s[i] {
		case '(', '<':
			d++
		case ')', '>':
			d--

			if d == 0 {
				return i + 1
			}
		}
	}

	return -1
}

func splitTop(s string) (r []string) {
	d, st := 0, 0

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '<':
			d++
		case ')', '>':
			d--
		case ',':
			if d == 0 {
				r = append(r, s[st:i])
				st = i + 1
			}
		}
	}

	return append(r, s[st:])
}
