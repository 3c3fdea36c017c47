package mir

import "github.com/slowlang/miropt/compiler/tp"

type (
	// Instr is a MIR instruction.
	// The set of implementations is closed: every pass relies on
	// Dest, AppendUses and Effect being accurate for all of them.
	Instr interface {
		// Dest is the local defined by the instruction or NoLocal.
		Dest() LocalID
		// AppendUses appends every local read by the instruction.
		AppendUses(dst []LocalID) []LocalID
		Effect() Effect
		Op() string

		mirInstr()
	}

	Effect int

	BinOpKind  int
	BitOp      int
	EqOp       int
	MethodKind int

	Prop struct {
		Key   string
		Value LocalID
	}
)

const (
	// Pure instructions only compute their destination.
	Pure Effect = iota
	// Alloc instructions allocate a fresh value; removable if unused, never hoisted.
	Alloc
	// SideEffect instructions are observable and never removed or moved.
	SideEffect
)

const (
	Add BinOpKind = iota
	Sub
	Mul
	Div
	Mod
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	And
	Or
)

const (
	BitAnd BitOp = iota
	BitOr
	BitXor
	Shl
	Shr
	UShr
)

const (
	StrictEq EqOp = iota
	StrictNe
	LooseEq
	LooseNe
)

const (
	Method MethodKind = iota
	Getter
	Setter
)

var (
	BinOpNames  = []string{Add: "add", Sub: "sub", Mul: "mul", Div: "div", Mod: "mod", Eq: "eq", Ne: "ne", Lt: "lt", Le: "le", Gt: "gt", Ge: "ge", And: "and", Or: "or"}
	BitOpNames  = []string{BitAnd: "and", BitOr: "or", BitXor: "xor", Shl: "shl", Shr: "shr", UShr: "ushr"}
	EqOpNames   = []string{StrictEq: "strict_eq", StrictNe: "strict_ne", LooseEq: "loose_eq", LooseNe: "loose_ne"}
	MethodNames = []string{Method: "method", Getter: "getter", Setter: "setter"}
)

func (k BinOpKind) String() string  { return name(BinOpNames, int(k)) }
func (k BitOp) String() string      { return name(BitOpNames, int(k)) }
func (k EqOp) String() string       { return name(EqOpNames, int(k)) }
func (k MethodKind) String() string { return name(MethodNames, int(k)) }

func (e Effect) String() string { return name([]string{"pure", "alloc", "side_effect"}, int(e)) }

func name(names []string, i int) string {
	if i >= 0 && i < len(names) {
		return names[i]
	}

	return "?"
}

// Pure value producing instructions.
type (
	Const struct {
		Dest_ LocalID
		Value Constant
	}

	BinOp struct {
		Dest_       LocalID
		Kind        BinOpKind
		Left, Right LocalID
		Type        tp.Primitive
	}

	Copy struct {
		Dest_, Src LocalID
	}

	GetProperty struct {
		Dest_, Object LocalID
		Offset        int
		Type          tp.Type
	}

	GetPropertyDynamic struct {
		Dest_, Object LocalID
		Property      string
	}

	GetPropertyComputed struct {
		Dest_, Object, Key LocalID
	}

	GetCaptured struct {
		Dest_ LocalID
		Env   int
	}

	GetException struct{ Dest_ LocalID }

	GetThis struct{ Dest_ LocalID }

	TypeOf struct{ Dest_, Operand LocalID }

	ToBool struct{ Dest_, Src LocalID }

	IsNullish struct{ Dest_, Src LocalID }

	IsUndefined struct{ Dest_, Src LocalID }

	BitwiseNot struct{ Dest_, Operand LocalID }

	Bitwise struct {
		Dest_       LocalID
		Kind        BitOp
		Left, Right LocalID
	}

	Exponentiate struct{ Dest_, Base, Exponent LocalID }

	Equality struct {
		Dest_       LocalID
		Kind        EqOp
		Left, Right LocalID
	}

	InstanceOf struct{ Dest_, Object, Constructor LocalID }

	In struct{ Dest_, Property, Object LocalID }

	BuildTemplateLiteral struct {
		Dest_  LocalID
		Quasis []string
		Exprs  []LocalID
	}

	GetPrototype struct{ Dest_, Constructor LocalID }
)

// Allocating instructions.
type (
	Allocate struct {
		Dest_ LocalID
		Type  tp.Type
	}

	CreateArray struct {
		Dest_ LocalID
		Elems []LocalID
	}

	CreateObject struct {
		Dest_ LocalID
		Props []Prop
	}

	CreateFunction struct {
		Dest_    LocalID
		Func     FunctionID
		Captured []LocalID
		Arrow    bool
	}

	CreateAsyncFunction struct {
		Dest_    LocalID
		Func     FunctionID
		Captured []LocalID
	}

	CreateGenerator struct {
		Dest_    LocalID
		Func     FunctionID
		Captured []LocalID
	}

	CreatePromise struct{ Dest_ LocalID }

	CreateClass struct {
		Dest_       LocalID
		Constructor FunctionID
		Super       LocalID
	}

	ArraySliceFrom struct {
		Dest_, Source LocalID
		Start         int
	}

	ObjectRest struct {
		Dest_, Source LocalID
		Excluded      []string
	}
)

// Side effecting instructions.
type (
	Call struct {
		Dest_ LocalID
		Func  FunctionID
		Args  []LocalID
	}

	CallFunction struct {
		Dest_, Callee LocalID
		Args          []LocalID
		This          LocalID
	}

	CallWithSpread struct {
		Dest_, Callee, Args LocalID
	}

	CallSuper struct {
		Dest_, Super LocalID
		Args         []LocalID
		This         LocalID
	}

	SuperMethodCall struct {
		Dest_, Super LocalID
		Method       string
		Args         []LocalID
		This         LocalID
	}

	CallTaggedTemplate struct {
		Dest_, Tag  LocalID
		Quasis, Raw []string
		Exprs       []LocalID
	}

	SetProperty struct {
		Object LocalID
		Offset int
		Value  LocalID
	}

	SetPropertyDynamic struct {
		Object   LocalID
		Property string
		Value    LocalID
	}

	SetPropertyComputed struct{ Object, Key, Value LocalID }

	SetCaptured struct {
		Env   int
		Value LocalID
	}

	ArrayPush struct{ Array, Value LocalID }

	ArraySpread struct{ Array, Source LocalID }

	Throw struct{ Value LocalID }

	ThrowDestructuringError struct{ Source LocalID }

	SetupExceptionHandler struct{ Catch, Finally BlockID }

	ClearExceptionHandler struct{}

	GeneratorYield struct {
		Dest_, Value LocalID
		Resume       BlockID
	}

	GeneratorNext struct{ Dest_, Generator, Send LocalID }

	GeneratorReturn struct{ Value LocalID }

	Await struct {
		Dest_, Promise LocalID
		Resume, Reject BlockID
	}

	PromiseResolve struct{ Promise, Value LocalID }

	PromiseReject struct{ Promise, Reason LocalID }

	SetPrototype struct{ Object, Prototype LocalID }

	DefineMethod struct {
		Kind      MethodKind
		Prototype LocalID
		Name      string
		Func      FunctionID
		Static    bool
	}

	Delete struct {
		Dest_, Object LocalID
		Property      string
	}

	DeleteComputed struct{ Dest_, Object, Key LocalID }

	DynamicImport struct{ Dest_, Specifier LocalID }
)

func uses(dst []LocalID, l ...LocalID) []LocalID {
	for _, l := range l {
		if l != NoLocal {
			dst = append(dst, l)
		}
	}

	return dst
}

func (x *Const) Dest() LocalID                      { return x.Dest_ }
func (x *Const) AppendUses(dst []LocalID) []LocalID { return dst }
func (x *Const) Effect() Effect                     { return Pure }
func (x *Const) Op() string                         { return "const" }

func (x *BinOp) Dest() LocalID                      { return x.Dest_ }
func (x *BinOp) AppendUses(dst []LocalID) []LocalID { return uses(dst, x.Left, x.Right) }
func (x *BinOp) Effect() Effect                     { return Pure }
func (x *BinOp) Op() string                         { return "binop" }

func (x *Copy) Dest() LocalID                      { return x.Dest_ }
func (x *Copy) AppendUses(dst []LocalID) []LocalID { return uses(dst, x.Src) }
func (x *Copy) Effect() Effect                     { return Pure }
func (x *Copy) Op() string                         { return "copy" }

func (x *GetProperty) Dest() LocalID                      { return x.Dest_ }
func (x *GetProperty) AppendUses(dst []LocalID) []LocalID { return uses(dst, x.Object) }
func (x *GetProperty) Effect() Effect                     { return Pure }
func (x *GetProperty) Op() string                         { return "get_property" }

func (x *GetPropertyDynamic) Dest() LocalID                      { return x.Dest_ }
func (x *GetPropertyDynamic) AppendUses(dst []LocalID) []LocalID { return uses(dst, x.Object) }
func (x *GetPropertyDynamic) Effect() Effect                     { return Pure }
func (x *GetPropertyDynamic) Op() string                         { return "get_property_dynamic" }

func (x *GetPropertyComputed) Dest() LocalID { return x.Dest_ }
func (x *GetPropertyComputed) AppendUses(dst []LocalID) []LocalID {
	return uses(dst, x.Object, x.Key)
}
func (x *GetPropertyComputed) Effect() Effect { return Pure }
func (x *GetPropertyComputed) Op() string     { return "get_property_computed" }

func (x *GetCaptured) Dest() LocalID                      { return x.Dest_ }
func (x *GetCaptured) AppendUses(dst []LocalID) []LocalID { return dst }
func (x *GetCaptured) Effect() Effect                     { return Pure }
func (x *GetCaptured) Op() string                         { return "get_captured" }

func (x *GetException) Dest() LocalID                      { return x.Dest_ }
func (x *GetException) AppendUses(dst []LocalID) []LocalID { return dst }
func (x *GetException) Effect() Effect                     { return Pure }
func (x *GetException) Op() string                         { return "get_exception" }

func (x *GetThis) Dest() LocalID                      { return x.Dest_ }
func (x *GetThis) AppendUses(dst []LocalID) []LocalID { return dst }
func (x *GetThis) Effect() Effect                     { return Pure }
func (x *GetThis) Op() string                         { return "get_this" }

func (x *TypeOf) Dest() LocalID                      { return x.Dest_ }
func (x *TypeOf) AppendUses(dst []LocalID) []LocalID { return uses(dst, x.Operand) }
func (x *TypeOf) Effect() Effect                     { return Pure }
func (x *TypeOf) Op() string                         { return "typeof" }

func (x *ToBool) Dest() LocalID                      { return x.Dest_ }
func (x *ToBool) AppendUses(dst []LocalID) []LocalID { return uses(dst, x.Src) }
func (x *ToBool) Effect() Effect                     { return Pure }
func (x *ToBool) Op() string                         { return "to_bool" }

func (x *IsNullish) Dest() LocalID                      { return x.Dest_ }
func (x *IsNullish) AppendUses(dst []LocalID) []LocalID { return uses(dst, x.Src) }
func (x *IsNullish) Effect() Effect                     { return Pure }
func (x *IsNullish) Op() string                         { return "is_nullish" }

func (x *IsUndefined) Dest() LocalID                      { return x.Dest_ }
func (x *IsUndefined) AppendUses(dst []LocalID) []LocalID { return uses(dst, x.Src) }
func (x *IsUndefined) Effect() Effect                     { return Pure }
func (x *IsUndefined) Op() string                         { return "is_undefined" }

func (x *BitwiseNot) Dest() LocalID                      { return x.Dest_ }
func (x *BitwiseNot) AppendUses(dst []LocalID) []LocalID { return uses(dst, x.Operand) }
func (x *BitwiseNot) Effect() Effect                     { return Pure }
func (x *BitwiseNot) Op() string                         { return "bitwise_not" }

func (x *Bitwise) Dest() LocalID                      { return x.Dest_ }
func (x *Bitwise) AppendUses(dst []LocalID) []LocalID { return uses(dst, x.Left, x.Right) }
func (x *Bitwise) Effect() Effect                     { return Pure }
func (x *Bitwise) Op() string                         { return "bitwise" }

func (x *Exponentiate) Dest() LocalID { return x.Dest_ }
func (x *Exponentiate) AppendUses(dst []LocalID) []LocalID {
	return uses(dst, x.Base, x.Exponent)
}
func (x *Exponentiate) Effect() Effect { return Pure }
func (x *Exponentiate) Op() string     { return "exponentiate" }

func (x *Equality) Dest() LocalID                      { return x.Dest_ }
func (x *Equality) AppendUses(dst []LocalID) []LocalID { return uses(dst, x.Left, x.Right) }
func (x *Equality) Effect() Effect                     { return Pure }
func (x *Equality) Op() string                         { return "equality" }

func (x *InstanceOf) Dest() LocalID { return x.Dest_ }
func (x *InstanceOf) AppendUses(dst []LocalID) []LocalID {
	return uses(dst, x.Object, x.Constructor)
}
func (x *InstanceOf) Effect() Effect { return Pure }
func (x *InstanceOf) Op() string     { return "instanceof" }

func (x *In) Dest() LocalID                      { return x.Dest_ }
func (x *In) AppendUses(dst []LocalID) []LocalID { return uses(dst, x.Property, x.Object) }
func (x *In) Effect() Effect                     { return Pure }
func (x *In) Op() string                         { return "in" }

func (x *BuildTemplateLiteral) Dest() LocalID { return x.Dest_ }
func (x *BuildTemplateLiteral) AppendUses(dst []LocalID) []LocalID {
	return uses(dst, x.Exprs...)
}
func (x *BuildTemplateLiteral) Effect() Effect { return Pure }
func (x *BuildTemplateLiteral) Op() string     { return "template" }

func (x *GetPrototype) Dest() LocalID                      { return x.Dest_ }
func (x *GetPrototype) AppendUses(dst []LocalID) []LocalID { return uses(dst, x.Constructor) }
func (x *GetPrototype) Effect() Effect                     { return Pure }
func (x *GetPrototype) Op() string                         { return "get_prototype" }

func (x *Allocate) Dest() LocalID                      { return x.Dest_ }
func (x *Allocate) AppendUses(dst []LocalID) []LocalID { return dst }
func (x *Allocate) Effect() Effect                     { return Alloc }
func (x *Allocate) Op() string                         { return "allocate" }

func (x *CreateArray) Dest() LocalID                      { return x.Dest_ }
func (x *CreateArray) AppendUses(dst []LocalID) []LocalID { return uses(dst, x.Elems...) }
func (x *CreateArray) Effect() Effect                     { return Alloc }
func (x *CreateArray) Op() string                         { return "create_array" }

func (x *CreateObject) Dest() LocalID { return x.Dest_ }
func (x *CreateObject) AppendUses(dst []LocalID) []LocalID {
	for _, p := range x.Props {
		dst = uses(dst, p.Value)
	}

	return dst
}
func (x *CreateObject) Effect() Effect { return Alloc }
func (x *CreateObject) Op() string     { return "create_object" }

func (x *CreateFunction) Dest() LocalID { return x.Dest_ }
func (x *CreateFunction) AppendUses(dst []LocalID) []LocalID {
	return uses(dst, x.Captured...)
}
func (x *CreateFunction) Effect() Effect { return Alloc }
func (x *CreateFunction) Op() string     { return "create_function" }

func (x *CreateAsyncFunction) Dest() LocalID { return x.Dest_ }
func (x *CreateAsyncFunction) AppendUses(dst []LocalID) []LocalID {
	return uses(dst, x.Captured...)
}
func (x *CreateAsyncFunction) Effect() Effect { return Alloc }
func (x *CreateAsyncFunction) Op() string     { return "create_async_function" }

func (x *CreateGenerator) Dest() LocalID { return x.Dest_ }
func (x *CreateGenerator) AppendUses(dst []LocalID) []LocalID {
	return uses(dst, x.Captured...)
}
func (x *CreateGenerator) Effect() Effect { return Alloc }
func (x *CreateGenerator) Op() string     { return "create_generator" }

func (x *CreatePromise) Dest() LocalID                      { return x.Dest_ }
func (x *CreatePromise) AppendUses(dst []LocalID) []LocalID { return dst }
func (x *CreatePromise) Effect() Effect                     { return Alloc }
func (x *CreatePromise) Op() string                         { return "create_promise" }

func (x *CreateClass) Dest() LocalID                      { return x.Dest_ }
func (x *CreateClass) AppendUses(dst []LocalID) []LocalID { return uses(dst, x.Super) }
func (x *CreateClass) Effect() Effect                     { return Alloc }
func (x *CreateClass) Op() string                         { return "create_class" }

func (x *ArraySliceFrom) Dest() LocalID                      { return x.Dest_ }
func (x *ArraySliceFrom) AppendUses(dst []LocalID) []LocalID { return uses(dst, x.Source) }
func (x *ArraySliceFrom) Effect() Effect                     { return Alloc }
func (x *ArraySliceFrom) Op() string                         { return "array_slice_from" }

func (x *ObjectRest) Dest() LocalID                      { return x.Dest_ }
func (x *ObjectRest) AppendUses(dst []LocalID) []LocalID { return uses(dst, x.Source) }
func (x *ObjectRest) Effect() Effect                     { return Alloc }
func (x *ObjectRest) Op() string                         { return "object_rest" }

func (x *Call) Dest() LocalID                      { return x.Dest_ }
func (x *Call) AppendUses(dst []LocalID) []LocalID { return uses(dst, x.Args...) }
func (x *Call) Effect() Effect                     { return SideEffect }
func (x *Call) Op() string                         { return "call" }

func (x *CallFunction) Dest() LocalID { return x.Dest_ }
func (x *CallFunction) AppendUses(dst []LocalID) []LocalID {
	dst = uses(dst, x.Callee)
	dst = uses(dst, x.Args...)

	return uses(dst, x.This)
}
func (x *CallFunction) Effect() Effect { return SideEffect }
func (x *CallFunction) Op() string     { return "call_function" }

func (x *CallWithSpread) Dest() LocalID { return x.Dest_ }
func (x *CallWithSpread) AppendUses(dst []LocalID) []LocalID {
	return uses(dst, x.Callee, x.Args)
}
func (x *CallWithSpread) Effect() Effect { return SideEffect }
func (x *CallWithSpread) Op() string     { return "call_with_spread" }

func (x *CallSuper) Dest() LocalID { return x.Dest_ }
func (x *CallSuper) AppendUses(dst []LocalID) []LocalID {
	dst = uses(dst, x.Super)
	dst = uses(dst, x.Args...)

	return uses(dst, x.This)
}
func (x *CallSuper) Effect() Effect { return SideEffect }
func (x *CallSuper) Op() string     { return "call_super" }

func (x *SuperMethodCall) Dest() LocalID { return x.Dest_ }
func (x *SuperMethodCall) AppendUses(dst []LocalID) []LocalID {
	dst = uses(dst, x.Super)
	dst = uses(dst, x.Args...)

	return uses(dst, x.This)
}
func (x *SuperMethodCall) Effect() Effect { return SideEffect }
func (x *SuperMethodCall) Op() string     { return "super_method_call" }

func (x *CallTaggedTemplate) Dest() LocalID { return x.Dest_ }
func (x *CallTaggedTemplate) AppendUses(dst []LocalID) []LocalID {
	dst = uses(dst, x.Tag)

	return uses(dst, x.Exprs...)
}
func (x *CallTaggedTemplate) Effect() Effect { return SideEffect }
func (x *CallTaggedTemplate) Op() string     { return "call_tagged_template" }

func (x *SetProperty) Dest() LocalID { return NoLocal }
func (x *SetProperty) AppendUses(dst []LocalID) []LocalID {
	return uses(dst, x.Object, x.Value)
}
func (x *SetProperty) Effect() Effect { return SideEffect }
func (x *SetProperty) Op() string     { return "set_property" }

func (x *SetPropertyDynamic) Dest() LocalID { return NoLocal }
func (x *SetPropertyDynamic) AppendUses(dst []LocalID) []LocalID {
	return uses(dst, x.Object, x.Value)
}
func (x *SetPropertyDynamic) Effect() Effect { return SideEffect }
func (x *SetPropertyDynamic) Op() string     { return "set_property_dynamic" }

func (x *SetPropertyComputed) Dest() LocalID { return NoLocal }
func (x *SetPropertyComputed) AppendUses(dst []LocalID) []LocalID {
	return uses(dst, x.Object, x.Key, x.Value)
}
func (x *SetPropertyComputed) Effect() Effect { return SideEffect }
func (x *SetPropertyComputed) Op() string     { return "set_property_computed" }

func (x *SetCaptured) Dest() LocalID                      { return NoLocal }
func (x *SetCaptured) AppendUses(dst []LocalID) []LocalID { return uses(dst, x.Value) }
func (x *SetCaptured) Effect() Effect                     { return SideEffect }
func (x *SetCaptured) Op() string                         { return "set_captured" }

func (x *ArrayPush) Dest() LocalID                      { return NoLocal }
func (x *ArrayPush) AppendUses(dst []LocalID) []LocalID { return uses(dst, x.Array, x.Value) }
func (x *ArrayPush) Effect() Effect                     { return SideEffect }
func (x *ArrayPush) Op() string                         { return "array_push" }

func (x *ArraySpread) Dest() LocalID                      { return NoLocal }
func (x *ArraySpread) AppendUses(dst []LocalID) []LocalID { return uses(dst, x.Array, x.Source) }
func (x *ArraySpread) Effect() Effect                     { return SideEffect }
func (x *ArraySpread) Op() string                         { return "array_spread" }

func (x *Throw) Dest() LocalID                      { return NoLocal }
func (x *Throw) AppendUses(dst []LocalID) []LocalID { return uses(dst, x.Value) }
func (x *Throw) Effect() Effect                     { return SideEffect }
func (x *Throw) Op() string                         { return "throw" }

func (x *ThrowDestructuringError) Dest() LocalID { return NoLocal }
func (x *ThrowDestructuringError) AppendUses(dst []LocalID) []LocalID {
	return uses(dst, x.Source)
}
func (x *ThrowDestructuringError) Effect() Effect { return SideEffect }
func (x *ThrowDestructuringError) Op() string     { return "throw_destructuring_error" }

func (x *SetupExceptionHandler) Dest() LocalID                      { return NoLocal }
func (x *SetupExceptionHandler) AppendUses(dst []LocalID) []LocalID { return dst }
func (x *SetupExceptionHandler) Effect() Effect                     { return SideEffect }
func (x *SetupExceptionHandler) Op() string                         { return "setup_exception_handler" }

func (x *ClearExceptionHandler) Dest() LocalID                      { return NoLocal }
func (x *ClearExceptionHandler) AppendUses(dst []LocalID) []LocalID { return dst }
func (x *ClearExceptionHandler) Effect() Effect                     { return SideEffect }
func (x *ClearExceptionHandler) Op() string                         { return "clear_exception_handler" }

func (x *GeneratorYield) Dest() LocalID                      { return x.Dest_ }
func (x *GeneratorYield) AppendUses(dst []LocalID) []LocalID { return uses(dst, x.Value) }
func (x *GeneratorYield) Effect() Effect                     { return SideEffect }
func (x *GeneratorYield) Op() string                         { return "generator_yield" }

func (x *GeneratorNext) Dest() LocalID { return x.Dest_ }
func (x *GeneratorNext) AppendUses(dst []LocalID) []LocalID {
	return uses(dst, x.Generator, x.Send)
}
func (x *GeneratorNext) Effect() Effect { return SideEffect }
func (x *GeneratorNext) Op() string     { return "generator_next" }

func (x *GeneratorReturn) Dest() LocalID                      { return NoLocal }
func (x *GeneratorReturn) AppendUses(dst []LocalID) []LocalID { return uses(dst, x.Value) }
func (x *GeneratorReturn) Effect() Effect                     { return SideEffect }
func (x *GeneratorReturn) Op() string                         { return "generator_return" }

func (x *Await) Dest() LocalID                      { return x.Dest_ }
func (x *Await) AppendUses(dst []LocalID) []LocalID { return uses(dst, x.Promise) }
func (x *Await) Effect() Effect                     { return SideEffect }
func (x *Await) Op() string                         { return "await" }

func (x *PromiseResolve) Dest() LocalID { return NoLocal }
func (x *PromiseResolve) AppendUses(dst []LocalID) []LocalID {
	return uses(dst, x.Promise, x.Value)
}
func (x *PromiseResolve) Effect() Effect { return SideEffect }
func (x *PromiseResolve) Op() string     { return "promise_resolve" }

func (x *PromiseReject) Dest() LocalID { return NoLocal }
func (x *PromiseReject) AppendUses(dst []LocalID) []LocalID {
	return uses(dst, x.Promise, x.Reason)
}
func (x *PromiseReject) Effect() Effect { return SideEffect }
func (x *PromiseReject) Op() string     { return "promise_reject" }

func (x *SetPrototype) Dest() LocalID { return NoLocal }
func (x *SetPrototype) AppendUses(dst []LocalID) []LocalID {
	return uses(dst, x.Object, x.Prototype)
}
func (x *SetPrototype) Effect() Effect { return SideEffect }
func (x *SetPrototype) Op() string     { return "set_prototype" }

func (x *DefineMethod) Dest() LocalID                      { return NoLocal }
func (x *DefineMethod) AppendUses(dst []LocalID) []LocalID { return uses(dst, x.Prototype) }
func (x *DefineMethod) Effect() Effect                     { return SideEffect }
func (x *DefineMethod) Op() string                         { return "define_method" }

func (x *Delete) Dest() LocalID                      { return x.Dest_ }
func (x *Delete) AppendUses(dst []LocalID) []LocalID { return uses(dst, x.Object) }
func (x *Delete) Effect() Effect                     { return SideEffect }
func (x *Delete) Op() string                         { return "delete" }

func (x *DeleteComputed) Dest() LocalID { return x.Dest_ }
func (x *DeleteComputed) AppendUses(dst []LocalID) []LocalID {
	return uses(dst, x.Object, x.Key)
}
func (x *DeleteComputed) Effect() Effect { return SideEffect }
func (x *DeleteComputed) Op() string     { return "delete_computed" }

func (x *DynamicImport) Dest() LocalID                      { return x.Dest_ }
func (x *DynamicImport) AppendUses(dst []LocalID) []LocalID { return uses(dst, x.Specifier) }
func (x *DynamicImport) Effect() Effect                     { return SideEffect }
func (x *DynamicImport) Op() string                         { return "dynamic_import" }

func (*Const) mirInstr()                   {}
func (*BinOp) mirInstr()                   {}
func (*Copy) mirInstr()                    {}
func (*GetProperty) mirInstr()             {}
func (*GetPropertyDynamic) mirInstr()      {}
func (*GetPropertyComputed) mirInstr()     {}
func (*GetCaptured) mirInstr()             {}
func (*GetException) mirInstr()            {}
func (*GetThis) mirInstr()                 {}
func (*TypeOf) mirInstr()                  {}
func (*ToBool) mirInstr()                  {}
func (*IsNullish) mirInstr()               {}
func (*IsUndefined) mirInstr()             {}
func (*BitwiseNot) mirInstr()              {}
func (*Bitwise) mirInstr()                 {}
func (*Exponentiate) mirInstr()            {}
func (*Equality) mirInstr()                {}
func (*InstanceOf) mirInstr()              {}
func (*In) mirInstr()                      {}
func (*BuildTemplateLiteral) mirInstr()    {}
func (*GetPrototype) mirInstr()            {}
func (*Allocate) mirInstr()                {}
func (*CreateArray) mirInstr()             {}
func (*CreateObject) mirInstr()            {}
func (*CreateFunction) mirInstr()          {}
func (*CreateAsyncFunction) mirInstr()     {}
func (*CreateGenerator) mirInstr()         {}
func (*CreatePromise) mirInstr()           {}
func (*CreateClass) mirInstr()             {}
func (*ArraySliceFrom) mirInstr()          {}
func (*ObjectRest) mirInstr()              {}
func (*Call) mirInstr()                    {}
func (*CallFunction) mirInstr()            {}
func (*CallWithSpread) mirInstr()          {}
func (*CallSuper) mirInstr()               {}
func (*SuperMethodCall) mirInstr()         {}
func (*CallTaggedTemplate) mirInstr()      {}
func (*SetProperty) mirInstr()             {}
func (*SetPropertyDynamic) mirInstr()      {}
func (*SetPropertyComputed) mirInstr()     {}
func (*SetCaptured) mirInstr()             {}
func (*ArrayPush) mirInstr()               {}
func (*ArraySpread) mirInstr()             {}
func (*Throw) mirInstr()                   {}
func (*ThrowDestructuringError) mirInstr() {}
func (*SetupExceptionHandler) mirInstr()   {}
func (*ClearExceptionHandler) mirInstr()   {}
func (*GeneratorYield) mirInstr()          {}
func (*GeneratorNext) mirInstr()           {}
func (*GeneratorReturn) mirInstr()         {}
func (*Await) mirInstr()                   {}
func (*PromiseResolve) mirInstr()          {}
func (*PromiseReject) mirInstr()           {}
func (*SetPrototype) mirInstr()            {}
func (*DefineMethod) mirInstr()            {}
func (*Delete) mirInstr()                  {}
func (*DeleteComputed) mirInstr()          {}
func (*DynamicImport) mirInstr()           {}
