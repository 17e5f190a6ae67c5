// Package render turns a folded instruction stream back into the canonical
// shorthand text used by the profiling report, and produces that report
// from an interp.Profile.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Urethramancer/tapelang/interp"
	"github.com/Urethramancer/tapelang/lexer"
)

var tagOrder = []lexer.Op{
	lexer.OpAdd, lexer.OpMove, lexer.OpInput, lexer.OpOutput,
	lexer.OpJumpIfZero, lexer.OpJumpIfNonZero,
	lexer.OpClear, lexer.OpAddTo, lexer.OpMoveUntil,
}

const maxHotLoops = 20

// Body renders a contiguous slice of the folded instruction stream
// (typically a whole loop body, brackets included) into shorthand text.
func Body(instrs []lexer.Instruction) string {
	var sb strings.Builder
	for _, in := range instrs {
		switch in.Op {
		case lexer.OpAdd:
			writeSigned(&sb, "+", "-", int(in.Delta))
		case lexer.OpMove:
			writeSigned(&sb, ">", "<", in.Disp)
		case lexer.OpOutput:
			sb.WriteByte('.')
		case lexer.OpInput:
			sb.WriteByte(',')
		case lexer.OpJumpIfZero:
			sb.WriteByte('[')
		case lexer.OpJumpIfNonZero:
			sb.WriteByte(']')
		case lexer.OpClear:
			sb.WriteByte('x')
		case lexer.OpAddTo:
			writeSigned(&sb, "+>", "+<", in.Disp)
		case lexer.OpMoveUntil:
			writeSigned(&sb, ">>", "<<", in.Disp)
		}
	}
	return sb.String()
}

func writeSigned(sb *strings.Builder, pos, neg string, v int) {
	if v < 0 {
		fmt.Fprintf(sb, "%s%d", neg, -v)
	} else {
		fmt.Fprintf(sb, "%s%d", pos, v)
	}
}

type loopHit struct {
	body  string
	count int
}

// Report renders the instruction-kind counters and the top 20 hottest loop
// bodies (identical rendered bodies merged before ranking) as text.
func Report(prog []lexer.Instruction, prof *interp.Profile) string {
	var out strings.Builder

	out.WriteString("instruction counts:\n")
	for _, op := range tagOrder {
		if n := prof.TagCounts[op]; n > 0 {
			fmt.Fprintf(&out, "  %-14s %d\n", op, n)
		}
	}

	merged := make(map[string]int)
	for r, n := range prof.LoopCounts {
		body := Body(prog[r.Open : r.Close+1])
		merged[body] += n
	}
	hits := make([]loopHit, 0, len(merged))
	for body, n := range merged {
		hits = append(hits, loopHit{body: body, count: n})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].count != hits[j].count {
			return hits[i].count > hits[j].count
		}
		return hits[i].body < hits[j].body
	})
	if len(hits) > maxHotLoops {
		hits = hits[:maxHotLoops]
	}

	out.WriteString("hottest loop bodies:\n")
	for _, h := range hits {
		fmt.Fprintf(&out, "  %8d  %s\n", h.count, h.body)
	}
	return out.String()
}
