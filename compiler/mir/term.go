package mir

type (
	Terminator interface {
		AppendUses(dst []LocalID) []LocalID
		AppendTargets(dst []BlockID) []BlockID
		Op() string

		mirTerm()
	}

	// Return returns Value, or nothing if Value is NoLocal.
	Return struct {
		Value LocalID
	}

	Goto struct {
		Target BlockID
	}

	Branch struct {
		Cond       LocalID
		Then, Else BlockID
	}

	Unreachable struct{}
)

func (x *Return) AppendUses(dst []LocalID) []LocalID    { return uses(dst, x.Value) }
func (x *Return) AppendTargets(dst []BlockID) []BlockID { return dst }
func (x *Return) Op() string                            { return "return" }

func (x *Goto) AppendUses(dst []LocalID) []LocalID    { return dst }
func (x *Goto) AppendTargets(dst []BlockID) []BlockID { return append(dst, x.Target) }
func (x *Goto) Op() string                            { return "goto" }

func (x *Branch) AppendUses(dst []LocalID) []LocalID { return uses(dst, x.Cond) }
func (x *Branch) AppendTargets(dst []BlockID) []BlockID {
	return append(dst, x.Then, x.Else)
}
func (x *Branch) Op() string { return "branch" }

func (x *Unreachable) AppendUses(dst []LocalID) []LocalID    { return dst }
func (x *Unreachable) AppendTargets(dst []BlockID) []BlockID { return dst }
func (x *Unreachable) Op() string                            { return "unreachable" }

func (*Return) mirTerm()      {}
func (*Goto) mirTerm()        {}
func (*Branch) mirTerm()      {}
func (*Unreachable) mirTerm() {}
