package jit

import (
	"fmt"
	"strings"
)

// Dump renders a Func as readable text, one line per op plus a trailing
// terminator line per block, in block-ID order. This is the --CLIR format:
// purely diagnostic, no back-end parses it back in.
func Dump(f *Func) string {
	var sb strings.Builder
	for _, b := range f.Blocks {
		fmt.Fprintf(&sb, "block%d:\n", b.ID)
		for _, op := range b.Ops {
			fmt.Fprintf(&sb, "  %s\n", dumpOp(op))
		}
		if b.ID == f.Exit {
			sb.WriteString("  return err\n")
			continue
		}
		switch b.Term.Kind {
		case TermJump:
			fmt.Fprintf(&sb, "  jump block%d\n", b.Term.Target)
		case TermBranchZero:
			fmt.Fprintf(&sb, "  branchz block%d else block%d\n", b.Term.ZeroTo, b.Term.NonZeroTo)
		}
	}
	return sb.String()
}

func dumpOp(op Op) string {
	switch op.Kind {
	case OpAddOp:
		return fmt.Sprintf("add %d", op.Delta)
	case OpMoveOp:
		return fmt.Sprintf("move %d", op.Disp)
	case OpClearOp:
		return "clear"
	case OpAddToOp:
		return fmt.Sprintf("addto %d", op.Disp)
	case OpOutputOp:
		return "output"
	case OpInputOp:
		return "input"
	default:
		return "?"
	}
}
