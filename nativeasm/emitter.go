// Package nativeasm is the template-based x86-64 native code emitter:
// a single forward pass over raw source bytes, one fixed machine-code
// fragment per command, with R12 pinned to the tape base and R13 pinned to
// the data pointer. No fused instructions are recognized; every `+`/`-`
// and `>`/`<` emits its own fragment, relying on CPU caching rather than
// algebraic fusion. I/O is done with raw Linux syscalls embedded directly
// in the generated code rather than a call back into tape.Host: getting a
// call from hand-assembled machine code into a live Go function requires
// either Go's internal register ABI (which the toolchain does not treat
// as a stable contract across releases) or a hand-written ABI0 assembly
// trampoline, and this package has neither. Practically this confines the
// back-end to Linux/amd64 — Linux's syscall numbers are a stable public
// ABI, but Windows has no equivalent for raw in-process syscalls, so
// tape.StdHost's Windows filtering rules are out of reach here regardless.
package nativeasm

import (
	"github.com/Urethramancer/tapelang/internal/amd64enc"
	"github.com/Urethramancer/tapelang/lexer"
	"github.com/Urethramancer/tapelang/tape"
)

const (
	sysRead  = 0
	sysWrite = 1
	fdStdin  = 0
	fdStdout = 1
)

type openMark struct {
	fwdField  int // code offset of the '['s JZ rel32 field
	bodyStart int // code offset right after that JZ — where the loop body starts
	pos       int // source byte position of '['
}

// Emit assembles source into a flat function body with the SysV signature
// void fn(uint8_t *tape_base). Comment bytes (anything but the eight
// commands) are dropped.
func Emit(src []byte) ([]byte, error) {
	var b amd64enc.Buf
	b.PushR12R13()
	b.MovR12FromRDI()
	b.XorR13R13()

	var stack []openMark

	for pos, c := range src {
		switch c {
		case '+':
			b.AddByteAtPointer(1)
		case '-':
			b.AddByteAtPointer(-1)
		case '>':
			b.IncR13Wrapped(tape.Size)
		case '<':
			b.DecR13Wrapped(tape.Size)
		case '.':
			emitOutput(&b)
		case ',':
			emitInput(&b)
		case '[':
			b.CmpByteAtPointerZero()
			fwd := b.JzRel32()
			stack = append(stack, openMark{fwdField: fwd, bodyStart: b.Len(), pos: pos})
		case ']':
			if len(stack) == 0 {
				return nil, &lexer.UnbalancedBracketsError{Bracket: ']', Position: pos}
			}
			m := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			b.CmpByteAtPointerZero()
			b.JnzRel32(m.bodyStart)
			b.PatchRel32(m.fwdField, b.Len())
		default:
			continue
		}
	}

	if len(stack) > 0 {
		top := stack[0]
		return nil, &lexer.UnbalancedBracketsError{Bracket: '[', Position: top.pos}
	}

	b.PopR12R13()
	b.Ret()
	return b.Code, nil
}

// emitOutput writes the byte at [r12+r13] with a raw write(2) syscall.
// Errors are not surfaced from this back-end; the return value of the
// syscall is ignored.
func emitOutput(b *amd64enc.Buf) {
	b.LeaRSIFromPointer()
	b.MovEaxImm32(sysWrite)
	b.MovEdiImm32(fdStdout)
	b.MovEdxImm32(1)
	b.Syscall()
}

// emitInput reads one byte into [r12+r13] with a raw read(2) syscall. The
// cell is zeroed first, so EOF (a zero-length read leaves the buffer
// untouched) naturally yields 0 without a branch.
func emitInput(b *amd64enc.Buf) {
	b.SetByteAtPointer(0)
	b.LeaRSIFromPointer()
	b.MovEaxImm32(sysRead)
	b.MovEdiImm32(fdStdin)
	b.MovEdxImm32(1)
	b.Syscall()
}
