package parse

import (
	"tlog.app/go/errors"

	"github.com/slowlang/miropt/compiler/mir"
	"github.com/slowlang/miropt/compiler/tp"
)

type (
	// instr is the union of fields of every instruction and terminator.
	// Which ones are required depends on Op.
	instr struct {
		Op   string `yaml:"op"`
		Span string `yaml:"span"`

		Dest *int   `yaml:"dest"`
		Kind string `yaml:"kind"`
		Type string `yaml:"type"`

		Left        *int `yaml:"left"`
		Right       *int `yaml:"right"`
		Src         *int `yaml:"src"`
		Object      *int `yaml:"object"`
		Key         *int `yaml:"key"`
		Value       *int `yaml:"value"`
		Operand     *int `yaml:"operand"`
		Base        *int `yaml:"base"`
		Exponent    *int `yaml:"exponent"`
		Constructor *int `yaml:"constructor"`
		Property    *int `yaml:"property"`
		Callee      *int `yaml:"callee"`
		This        *int `yaml:"this"`
		Tag         *int `yaml:"tag"`
		Super       *int `yaml:"super"`
		Source      *int `yaml:"source"`
		Array       *int `yaml:"array"`
		Generator   *int `yaml:"generator"`
		Send        *int `yaml:"send"`
		Promise     *int `yaml:"promise"`
		Reason      *int `yaml:"reason"`
		Prototype   *int `yaml:"prototype"`
		Specifier   *int `yaml:"specifier"`
		Cond        *int `yaml:"cond"`
		Spread      *int `yaml:"spread"`

		Args     []int  `yaml:"args"`
		Elems    []int  `yaml:"elems"`
		Exprs    []int  `yaml:"exprs"`
		Captured []int  `yaml:"captured"`
		Props    []prop `yaml:"props"`

		Name     string   `yaml:"name"`
		Quasis   []string `yaml:"quasis"`
		Raw      []string `yaml:"raw"`
		Excluded []string `yaml:"excluded"`

		Offset int  `yaml:"offset"`
		Env    int  `yaml:"env"`
		Start  int  `yaml:"start"`
		Func   int  `yaml:"func"`
		Arrow  bool `yaml:"arrow"`
		Static bool `yaml:"static"`

		Target  *int `yaml:"target"`
		Then    *int `yaml:"then"`
		Else    *int `yaml:"else"`
		Catch   *int `yaml:"catch"`
		Finally *int `yaml:"finally"`
		Resume  *int `yaml:"resume"`
		Reject  *int `yaml:"reject"`

		I32    *int32   `yaml:"i32"`
		I64    *int64   `yaml:"i64"`
		F64    *float64 `yaml:"f64"`
		Bool   *bool    `yaml:"bool"`
		String *string  `yaml:"string"`
		Lit    string   `yaml:"lit"` // null or undefined
	}

	prop struct {
		Key   string `yaml:"key"`
		Value int    `yaml:"value"`
	}

	// dec collects the first missing field while an instruction is being built.
	dec struct {
		x   *instr
		err error
	}

	UnknownOpError struct {
		Op string
	}
)

var instrs = map[string]func(d *dec) mir.Instr{
	"const": func(d *dec) mir.Instr { return &mir.Const{Dest_: d.dest(), Value: d.constant()} },
	"binop": func(d *dec) mir.Instr {
		return &mir.BinOp{Dest_: d.dest(), Kind: mir.BinOpKind(d.kind(mir.BinOpNames)), Left: d.req("left", d.x.Left), Right: d.req("right", d.x.Right), Type: d.prim()}
	},
	"copy":                 func(d *dec) mir.Instr { return &mir.Copy{Dest_: d.dest(), Src: d.req("src", d.x.Src)} },
	"get_property":         func(d *dec) mir.Instr { return &mir.GetProperty{Dest_: d.dest(), Object: d.req("object", d.x.Object), Offset: d.x.Offset, Type: d.typ()} },
	"get_property_dynamic": func(d *dec) mir.Instr { return &mir.GetPropertyDynamic{Dest_: d.dest(), Object: d.req("object", d.x.Object), Property: d.name()} },
	"get_property_computed": func(d *dec) mir.Instr {
		return &mir.GetPropertyComputed{Dest_: d.dest(), Object: d.req("object", d.x.Object), Key: d.req("key", d.x.Key)}
	},
	"get_captured":  func(d *dec) mir.Instr { return &mir.GetCaptured{Dest_: d.dest(), Env: d.x.Env} },
	"get_exception": func(d *dec) mir.Instr { return &mir.GetException{Dest_: d.dest()} },
	"get_this":      func(d *dec) mir.Instr { return &mir.GetThis{Dest_: d.dest()} },
	"typeof":        func(d *dec) mir.Instr { return &mir.TypeOf{Dest_: d.dest(), Operand: d.req("operand", d.x.Operand)} },
	"to_bool":       func(d *dec) mir.Instr { return &mir.ToBool{Dest_: d.dest(), Src: d.req("src", d.x.Src)} },
	"is_nullish":    func(d *dec) mir.Instr { return &mir.IsNullish{Dest_: d.dest(), Src: d.req("src", d.x.Src)} },
	"is_undefined":  func(d *dec) mir.Instr { return &mir.IsUndefined{Dest_: d.dest(), Src: d.req("src", d.x.Src)} },
	"bitwise_not":   func(d *dec) mir.Instr { return &mir.BitwiseNot{Dest_: d.dest(), Operand: d.req("operand", d.x.Operand)} },
	"bitwise": func(d *dec) mir.Instr {
		return &mir.Bitwise{Dest_: d.dest(), Kind: mir.BitOp(d.kind(mir.BitOpNames)), Left: d.req("left", d.x.Left), Right: d.req("right", d.x.Right)}
	},
	"exponentiate": func(d *dec) mir.Instr {
		return &mir.Exponentiate{Dest_: d.dest(), Base: d.req("base", d.x.Base), Exponent: d.req("exponent", d.x.Exponent)}
	},
	"equality": func(d *dec) mir.Instr {
		return &mir.Equality{Dest_: d.dest(), Kind: mir.EqOp(d.kind(mir.EqOpNames)), Left: d.req("left", d.x.Left), Right: d.req("right", d.x.Right)}
	},
	"instanceof": func(d *dec) mir.Instr {
		return &mir.InstanceOf{Dest_: d.dest(), Object: d.req("object", d.x.Object), Constructor: d.req("constructor", d.x.Constructor)}
	},
	"in": func(d *dec) mir.Instr {
		return &mir.In{Dest_: d.dest(), Property: d.req("property", d.x.Property), Object: d.req("object", d.x.Object)}
	},
	"template": func(d *dec) mir.Instr {
		return &mir.BuildTemplateLiteral{Dest_: d.dest(), Quasis: d.x.Quasis, Exprs: locals(d.x.Exprs)}
	},
	"get_prototype": func(d *dec) mir.Instr {
		return &mir.GetPrototype{Dest_: d.dest(), Constructor: d.req("constructor", d.x.Constructor)}
	},

	"allocate":     func(d *dec) mir.Instr { return &mir.Allocate{Dest_: d.dest(), Type: d.typ()} },
	"create_array": func(d *dec) mir.Instr { return &mir.CreateArray{Dest_: d.dest(), Elems: locals(d.x.Elems)} },
	"create_object": func(d *dec) mir.Instr {
		ps := make([]mir.Prop, len(d.x.Props))

		for i, p := range d.x.Props {
			ps[i] = mir.Prop{Key: p.Key, Value: mir.LocalID(p.Value)}
		}

		return &mir.CreateObject{Dest_: d.dest(), Props: ps}
	},
	"create_function": func(d *dec) mir.Instr {
		return &mir.CreateFunction{Dest_: d.dest(), Func: mir.FunctionID(d.x.Func), Captured: locals(d.x.Captured), Arrow: d.x.Arrow}
	},
	"create_async_function": func(d *dec) mir.Instr {
		return &mir.CreateAsyncFunction{Dest_: d.dest(), Func: mir.FunctionID(d.x.Func), Captured: locals(d.x.Captured)}
	},
	"create_generator": func(d *dec) mir.Instr {
		return &mir.CreateGenerator{Dest_: d.dest(), Func: mir.FunctionID(d.x.Func), Captured: locals(d.x.Captured)}
	},
	"create_promise": func(d *dec) mir.Instr { return &mir.CreatePromise{Dest_: d.dest()} },
	"create_class": func(d *dec) mir.Instr {
		return &mir.CreateClass{Dest_: d.dest(), Constructor: mir.FunctionID(d.x.Func), Super: opt(d.x.Super)}
	},
	"array_slice_from": func(d *dec) mir.Instr {
		return &mir.ArraySliceFrom{Dest_: d.dest(), Source: d.req("source", d.x.Source), Start: d.x.Start}
	},
	"object_rest": func(d *dec) mir.Instr {
		return &mir.ObjectRest{Dest_: d.dest(), Source: d.req("source", d.x.Source), Excluded: d.x.Excluded}
	},

	"call": func(d *dec) mir.Instr {
		return &mir.Call{Dest_: opt(d.x.Dest), Func: mir.FunctionID(d.x.Func), Args: locals(d.x.Args)}
	},
	"call_function": func(d *dec) mir.Instr {
		return &mir.CallFunction{Dest_: opt(d.x.Dest), Callee: d.req("callee", d.x.Callee), Args: locals(d.x.Args), This: opt(d.x.This)}
	},
	"call_with_spread": func(d *dec) mir.Instr {
		return &mir.CallWithSpread{Dest_: opt(d.x.Dest), Callee: d.req("callee", d.x.Callee), Args: d.req("spread", d.x.Spread)}
	},
	"call_super": func(d *dec) mir.Instr {
		return &mir.CallSuper{Dest_: opt(d.x.Dest), Super: d.req("super", d.x.Super), Args: locals(d.x.Args), This: opt(d.x.This)}
	},
	"super_method_call": func(d *dec) mir.Instr {
		return &mir.SuperMethodCall{Dest_: opt(d.x.Dest), Super: d.req("super", d.x.Super), Method: d.name(), Args: locals(d.x.Args), This: opt(d.x.This)}
	},
	"call_tagged_template": func(d *dec) mir.Instr {
		return &mir.CallTaggedTemplate{Dest_: opt(d.x.Dest), Tag: d.req("tag", d.x.Tag), Quasis: d.x.Quasis, Raw: d.x.Raw, Exprs: locals(d.x.Exprs)}
	},
	"set_property": func(d *dec) mir.Instr {
		return &mir.SetProperty{Object: d.req("object", d.x.Object), Offset: d.x.Offset, Value: d.req("value", d.x.Value)}
	},
	"set_property_dynamic": func(d *dec) mir.Instr {
		return &mir.SetPropertyDynamic{Object: d.req("object", d.x.Object), Property: d.name(), Value: d.req("value", d.x.Value)}
	},
	"set_property_computed": func(d *dec) mir.Instr {
		return &mir.SetPropertyComputed{Object: d.req("object", d.x.Object), Key: d.req("key", d.x.Key), Value: d.req("value", d.x.Value)}
	},
	"set_captured": func(d *dec) mir.Instr { return &mir.SetCaptured{Env: d.x.Env, Value: d.req("value", d.x.Value)} },
	"array_push": func(d *dec) mir.Instr {
		return &mir.ArrayPush{Array: d.req("array", d.x.Array), Value: d.req("value", d.x.Value)}
	},
	"array_spread": func(d *dec) mir.Instr {
		return &mir.ArraySpread{Array: d.req("array", d.x.Array), Source: d.req("source", d.x.Source)}
	},
	"throw": func(d *dec) mir.Instr { return &mir.Throw{Value: d.req("value", d.x.Value)} },
	"throw_destructuring_error": func(d *dec) mir.Instr {
		return &mir.ThrowDestructuringError{Source: d.req("source", d.x.Source)}
	},
	"setup_exception_handler": func(d *dec) mir.Instr {
		return &mir.SetupExceptionHandler{Catch: optBlock(d.x.Catch), Finally: optBlock(d.x.Finally)}
	},
	"clear_exception_handler": func(d *dec) mir.Instr { return &mir.ClearExceptionHandler{} },
	"generator_yield": func(d *dec) mir.Instr {
		return &mir.GeneratorYield{Dest_: opt(d.x.Dest), Value: opt(d.x.Value), Resume: optBlock(d.x.Resume)}
	},
	"generator_next": func(d *dec) mir.Instr {
		return &mir.GeneratorNext{Dest_: opt(d.x.Dest), Generator: d.req("generator", d.x.Generator), Send: opt(d.x.Send)}
	},
	"generator_return": func(d *dec) mir.Instr { return &mir.GeneratorReturn{Value: opt(d.x.Value)} },
	"await": func(d *dec) mir.Instr {
		return &mir.Await{Dest_: opt(d.x.Dest), Promise: d.req("promise", d.x.Promise), Resume: optBlock(d.x.Resume), Reject: optBlock(d.x.Reject)}
	},
	"promise_resolve": func(d *dec) mir.Instr {
		return &mir.PromiseResolve{Promise: d.req("promise", d.x.Promise), Value: d.req("value", d.x.Value)}
	},
	"promise_reject": func(d *dec) mir.Instr {
		return &mir.PromiseReject{Promise: d.req("promise", d.x.Promise), Reason: d.req("reason", d.x.Reason)}
	},
	"set_prototype": func(d *dec) mir.Instr {
		return &mir.SetPrototype{Object: d.req("object", d.x.Object), Prototype: d.req("prototype", d.x.Prototype)}
	},
	"define_method": func(d *dec) mir.Instr {
		return &mir.DefineMethod{Kind: mir.MethodKind(d.kind(mir.MethodNames)), Prototype: d.req("prototype", d.x.Prototype), Name: d.name(), Func: mir.FunctionID(d.x.Func), Static: d.x.Static}
	},
	"delete": func(d *dec) mir.Instr {
		return &mir.Delete{Dest_: opt(d.x.Dest), Object: d.req("object", d.x.Object), Property: d.name()}
	},
	"delete_computed": func(d *dec) mir.Instr {
		return &mir.DeleteComputed{Dest_: opt(d.x.Dest), Object: d.req("object", d.x.Object), Key: d.req("key", d.x.Key)}
	},
	"dynamic_import": func(d *dec) mir.Instr {
		return &mir.DynamicImport{Dest_: opt(d.x.Dest), Specifier: d.req("specifier", d.x.Specifier)}
	},
}

func parseInstr(x *instr) (mir.Instr, error) {
	f, ok := instrs[x.Op]
	if !ok {
		return nil, UnknownOpError{Op: x.Op}
	}

	d := dec{x: x}

	r := f(&d)
	if d.err != nil {
		return nil, errors.Wrap(d.err, "%v", x.Op)
	}

	return r, nil
}

func parseTerm(x *instr) (mir.Terminator, error) {
	d := dec{x: x}

	var t mir.Terminator

	switch x.Op {
	case "return":
		t = &mir.Return{Value: opt(x.Value)}
	case "goto":
		t = &mir.Goto{Target: d.block("target", x.Target)}
	case "branch":
		t = &mir.Branch{Cond: d.req("cond", x.Cond), Then: d.block("then", x.Then), Else: d.block("else", x.Else)}
	case "unreachable":
		t = &mir.Unreachable{}
	case "":
		return nil, errors.New("missing terminator")
	default:
		return nil, UnknownOpError{Op: x.Op}
	}

	if d.err != nil {
		return nil, errors.Wrap(d.err, "%v", x.Op)
	}

	return t, nil
}

func (d *dec) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *dec) req(name string, p *int) mir.LocalID {
	if p == nil {
		d.fail(errors.New("missing %v", name))
		return mir.NoLocal
	}

	return mir.LocalID(*p)
}

func (d *dec) block(name string, p *int) mir.BlockID {
	if p == nil {
		d.fail(errors.New("missing %v", name))
		return mir.NoBlock
	}

	return mir.BlockID(*p)
}

func (d *dec) dest() mir.LocalID {
	return d.req("dest", d.x.Dest)
}

func (d *dec) name() string {
	if d.x.Name == "" {
		d.fail(errors.New("missing name"))
	}

	return d.x.Name
}

func (d *dec) kind(names []string) int {
	for i, n := range names {
		if n == d.x.Kind {
			return i
		}
	}

	d.fail(errors.New("unknown kind: %q", d.x.Kind))

	return 0
}

func (d *dec) typ() tp.Type {
	if d.x.Type == "" {
		return tp.Any{}
	}

	t, err := tp.Parse(d.x.Type)
	if err != nil {
		d.fail(errors.Wrap(err, "type"))
		return tp.Any{}
	}

	return t
}

func (d *dec) prim() tp.Primitive {
	t := d.typ()

	p, ok := t.(tp.Primitive)
	if !ok {
		d.fail(errors.New("want primitive type, got %v", t))
	}

	return p
}

func (d *dec) constant() mir.Constant {
	x := d.x

	var cs []mir.Constant

	if x.I32 != nil {
		cs = append(cs, mir.I32(*x.I32))
	}
	if x.I64 != nil {
		cs = append(cs, mir.I64(*x.I64))
	}
	if x.F64 != nil {
		cs = append(cs, mir.F64(*x.F64))
	}
	if x.Bool != nil {
		cs = append(cs, mir.Bool(*x.Bool))
	}
	if x.String != nil {
		cs = append(cs, mir.Str(*x.String))
	}
	switch x.Lit {
	case "":
	case "null":
		cs = append(cs, mir.Null())
	case "undefined":
		cs = append(cs, mir.Undefined())
	default:
		d.fail(errors.New("unknown literal: %q", x.Lit))
	}

	if len(cs) != 1 {
		d.fail(errors.New("want exactly one value, got %d", len(cs)))
		return mir.Undefined()
	}

	return cs[0]
}

func opt(p *int) mir.LocalID {
	if p == nil {
		return mir.NoLocal
	}

	return mir.LocalID(*p)
}

func optBlock(p *int) mir.BlockID {
	if p == nil {
		return mir.NoBlock
	}

	return mir.BlockID(*p)
}

func locals(ls []int) []mir.LocalID {
	if ls == nil {
		return nil
	}

	r := make([]mir.LocalID, len(ls))

	for i, l := range ls {
		r[i] = mir.LocalID(l)
	}

	return r
}

func (e UnknownOpError) Error() string {
	if e.Op == "" {
		return "missing op"
	}

	return "unknown op: " + e.Op
}
