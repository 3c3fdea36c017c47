package mir

import (
	"math"
	"strconv"
	"strings"

	"tlog.app/go/tlog/tlwire"
)

type (
	LocalID    int
	BlockID    int
	FunctionID int

	ConstKind int

	Constant struct {
		Kind ConstKind

		I int64
		F float64
		B bool
		S string
	}
)

const (
	NoLocal LocalID = -1
	NoBlock BlockID = -1
)

const (
	KindUndefined ConstKind = iota
	KindNull
	KindI32
	KindI64
	KindF64
	KindBool
	KindString
)

func I32(v int32) Constant   { return Constant{Kind: KindI32, I: int64(v)} }
func I64(v int64) Constant   { return Constant{Kind: KindI64, I: v} }
func F64(v float64) Constant { return Constant{Kind: KindF64, F: v} }
func Bool(v bool) Constant   { return Constant{Kind: KindBool, B: v} }
func Str(v string) Constant  { return Constant{Kind: KindString, S: v} }
func Null() Constant         { return Constant{Kind: KindNull} }
func Undefined() Constant    { return Constant{Kind: KindUndefined} }

func (c Constant) Int32() int32 { return int32(c.I) }

// Same reports whether c and x are the same constant.
// Unlike ==, NaN is the same as NaN and 0.0 differs from -0.0.
func (c Constant) Same(x Constant) bool {
	if c.Kind != x.Kind {
		return false
	}

	switch c.Kind {
	case KindI32, KindI64:
		return c.I == x.I
	case KindF64:
		return math.Float64bits(c.F) == math.Float64bits(x.F) || math.IsNaN(c.F) && math.IsNaN(x.F)
	case KindBool:
		return c.B == x.B
	case KindString:
		return c.S == x.S
	default:
		return true
	}
}

func (c Constant) String() string {
	switch c.Kind {
	case KindI32:
		return strconv.FormatInt(c.I, 10)
	case KindI64:
		return strconv.FormatInt(c.I, 10) + "i64"
	case KindF64:
		s := strconv.FormatFloat(c.F, 'g', -1, 64)

		if !strings.ContainsAny(s, ".eIN") {
			s += ".0"
		}

		return s
	case KindBool:
		return strconv.FormatBool(c.B)
	case KindString:
		return strconv.Quote(c.S)
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	default:
		return "const(" + strconv.Itoa(int(c.Kind)) + ")"
	}
}

func (c Constant) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	return e.AppendString(b, c.String())
}

func (k ConstKind) String() string {
	switch k {
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindF64:
		return "f64"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}
