package opt

import (
	stderrors "errors"

	"tlog.app/go/errors"
	"tlog.app/go/loc"

	"github.com/slowlang/miropt/compiler/mir"
)

type (
	// InternalError reports malformed MIR found by a pass.
	// It is a bug in the front end or in a pass, not a user error.
	InternalError struct {
		Phase string
		Func  string
		Err   error
		PC    loc.PC
	}
)

func ice(phase string, f *mir.TypedFunction, err error) *InternalError {
	e := &InternalError{
		Phase: phase,
		Err:   err,
		PC:    loc.Caller(1),
	}

	if f != nil {
		e.Func = f.Name
	}

	return e
}

func (e *InternalError) Error() string {
	s := "internal compiler error: " + e.Phase

	if e.Func != "" {
		s += ": func " + e.Func
	}

	return s + ": " + e.Err.Error()
}

func (e *InternalError) Unwrap() error { return e.Err }

// IsInternal reports whether err is or wraps an InternalError.
func IsInternal(err error) bool {
	var e *InternalError

	return stderrors.As(err, &e)
}

// checkFunc is the cheap well-formedness check each pass runs before touching a function.
func checkFunc(f *mir.TypedFunction) error {
	if f == nil {
		return errors.New("nil function")
	}

	var ls []mir.LocalID

	for i, b := range f.Blocks {
		if b == nil {
			return errors.New("block %d: nil", i)
		}

		if b.Term == nil {
			return errors.New("block %v: no terminator", b.ID)
		}

		for j, x := range b.Instrs {
			if x == nil {
				return errors.New("block %v: instr %d: nil", b.ID, j)
			}

			ls = x.AppendUses(ls[:0])
			ls = append(ls, x.Dest())

			for _, l := range ls {
				if l < mir.NoLocal {
					return errors.New("block %v: instr %d (%v): bad local %d", b.ID, j, x.Op(), int(l))
				}
			}
		}

		for _, l := range b.Term.AppendUses(ls[:0]) {
			if l < mir.NoLocal {
				return errors.New("block %v: %v: bad local %d", b.ID, b.Term.Op(), int(l))
			}
		}
	}

	return nil
}
