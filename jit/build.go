package jit

import "github.com/Urethramancer/tapelang/lexer"

type loopMark struct {
	inner, after BlockID
}

// Build lowers a folded instruction stream into a Func. The stream must
// come from lexer.FoldForJIT (no MoveUntil) and must already be
// bracket-balanced — Build panics on malformed input, since that can only
// mean a caller skipped the fold step, never a user-triggerable condition.
func Build(prog []lexer.Instruction) *Func {
	f := &Func{}
	entry := f.newBlock()
	f.Entry = entry.ID
	exit := f.newBlock()
	f.Exit = exit.ID

	cur := entry
	var stack []loopMark

	for _, in := range prog {
		switch in.Op {
		case lexer.OpAdd:
			cur.Ops = append(cur.Ops, Op{Kind: OpAddOp, Delta: in.Delta})
		case lexer.OpMove:
			cur.Ops = append(cur.Ops, Op{Kind: OpMoveOp, Disp: in.Disp})
		case lexer.OpClear:
			cur.Ops = append(cur.Ops, Op{Kind: OpClearOp})
		case lexer.OpAddTo:
			cur.Ops = append(cur.Ops, Op{Kind: OpAddToOp, Disp: in.Disp})
		case lexer.OpOutput:
			cur.Ops = append(cur.Ops, Op{Kind: OpOutputOp})
		case lexer.OpInput:
			cur.Ops = append(cur.Ops, Op{Kind: OpInputOp})

		case lexer.OpJumpIfZero:
			inner := f.newBlock()
			after := f.newBlock()
			cur.Term = Term{Kind: TermBranchZero, ZeroTo: after.ID, NonZeroTo: inner.ID}
			stack = append(stack, loopMark{inner: inner.ID, after: after.ID})
			cur = inner

		case lexer.OpJumpIfNonZero:
			if len(stack) == 0 {
				panic("jit: JumpIfNonZero with no open loop (compiler bug, input was not FoldForJIT output)")
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			cur.Term = Term{Kind: TermBranchZero, ZeroTo: top.after, NonZeroTo: top.inner}
			cur = f.block(top.after)

		case lexer.OpMoveUntil:
			panic("jit: MoveUntil reached Build — fold with lexer.FoldForJIT, not lexer.Fold")
		}
	}
	if len(stack) > 0 {
		panic("jit: unclosed loop reached Build (compiler bug)")
	}
	cur.Term = Term{Kind: TermJump, Target: exit.ID}
	return f
}
