package interp

import "github.com/Urethramancer/tapelang/lexer"

// LoopRange identifies a loop body by the index of its JumpIfZero and its
// matching JumpIfNonZero in the folded program.
type LoopRange struct {
	Open, Close int
}

// Profile accumulates the optional execution counters: one counter per
// instruction tag, and one per loop range, incremented every time its
// closing JumpIfNonZero is dispatched.
type Profile struct {
	TagCounts  map[lexer.Op]int
	LoopCounts map[LoopRange]int
}

func newProfile() *Profile {
	return &Profile{
		TagCounts:  make(map[lexer.Op]int),
		LoopCounts: make(map[LoopRange]int),
	}
}

func (p *Profile) count(op lexer.Op) {
	p.TagCounts[op]++
}

func (p *Profile) recordLoop(open, close int) {
	p.LoopCounts[LoopRange{Open: open, Close: close}]++
}
