package jit

import "fmt"

// Verify checks the structural invariants codegen relies on: every branch
// target names a real block, and every block but the exit block ends in a
// terminator. A failure here means Build produced an inconsistent graph —
// never something a tape-machine program's source could trigger — so
// callers treat a non-nil error as an internal compiler failure.
func Verify(f *Func) error {
	n := BlockID(len(f.Blocks))
	valid := func(id BlockID) bool { return id >= 0 && id < n }

	if !valid(f.Entry) {
		return fmt.Errorf("jit: entry block %d out of range", f.Entry)
	}
	if !valid(f.Exit) {
		return fmt.Errorf("jit: exit block %d out of range", f.Exit)
	}

	for _, b := range f.Blocks {
		if b.ID == f.Exit {
			continue
		}
		switch b.Term.Kind {
		case TermJump:
			if !valid(b.Term.Target) {
				return fmt.Errorf("jit: block %d jumps to out-of-range block %d", b.ID, b.Term.Target)
			}
		case TermBranchZero:
			if !valid(b.Term.ZeroTo) || !valid(b.Term.NonZeroTo) {
				return fmt.Errorf("jit: block %d branches to out-of-range block (zero=%d nonzero=%d)",
					b.ID, b.Term.ZeroTo, b.Term.NonZeroTo)
			}
		default:
			return fmt.Errorf("jit: block %d has no terminator", b.ID)
		}
	}
	return nil
}
