package jit

import (
	"github.com/Urethramancer/tapelang/internal/amd64enc"
	"github.com/Urethramancer/tapelang/tape"
)

const (
	sysRead  = 0
	sysWrite = 1
	fdStdin  = 0
	fdStdout = 1
)

// fixup records a rel32 field that still needs its target block's final
// offset once every block has been emitted.
type fixup struct {
	field  int
	target BlockID
}

// Compile lowers a verified Func into a flat x86-64/SysV function body with
// signature fn(tapeBase *byte) *byte: it returns nil on normal completion,
// or errCellAddr — baked in as a compile-time immediate — the moment any
// syscall fails.
//
// Block creation order does not track final control-flow order for nested
// loops (an inner loop's "after" block is always created before its
// enclosing loop's own "after" block is reached), so codegen never relies
// on fallthrough: every terminator, in both arms, emits an explicit branch
// that gets patched once every block's start offset is known.
func Compile(f *Func, errCellAddr uintptr) []byte {
	var b amd64enc.Buf
	b.PushR12R13()
	b.MovR12FromRDI()
	b.XorR13R13()

	offsets := make(map[BlockID]int, len(f.Blocks))
	var fixups []fixup

	for _, blk := range f.Blocks {
		offsets[blk.ID] = b.Len()

		if blk.ID == f.Exit {
			b.PopR12R13()
			b.Ret()
			continue
		}

		for _, op := range blk.Ops {
			switch op.Kind {
			case OpAddOp:
				b.AddByteAtPointer(op.Delta)
			case OpMoveOp:
				b.MoveR13Mod(int32(op.Disp), tape.Size)
			case OpClearOp:
				b.SetByteAtPointer(0)
			case OpAddToOp:
				b.AddToWrapped(int32(op.Disp), tape.Size)
			case OpOutputOp:
				fixups = append(fixups, emitIOCall(&b, sysWrite, fdStdout, errCellAddr, false, f.Exit))
			case OpInputOp:
				fixups = append(fixups, emitIOCall(&b, sysRead, fdStdin, errCellAddr, true, f.Exit))
			}
		}

		switch blk.Term.Kind {
		case TermJump:
			b.XorEaxEax()
			field := b.JmpRel32()
			fixups = append(fixups, fixup{field, blk.Term.Target})
		case TermBranchZero:
			b.CmpByteAtPointerZero()
			zf := b.JzRel32()
			fixups = append(fixups, fixup{zf, blk.Term.ZeroTo})
			jf := b.JmpRel32()
			fixups = append(fixups, fixup{jf, blk.Term.NonZeroTo})
		}
	}

	for _, fx := range fixups {
		target, ok := offsets[fx.target]
		if !ok {
			panic("jit: branch target block never emitted (compiler bug)")
		}
		b.PatchRel32(fx.field, target)
	}
	return b.Code
}

// emitIOCall emits a raw read(2)/write(2) syscall transferring exactly one
// byte at [r12+r13]. zeroFirst covers read's EOF case: a zero-length read
// leaves the buffer untouched, so zeroing the cell before the syscall makes
// EOF naturally yield 0 without an extra branch, mirroring emitInput in
// nativeasm.
//
// On a negative return (syscall failure), the errno is written into the
// pinned scratch cell whose address was baked in at errCellAddr, and the
// call returns a fixup that must be patched to jump to the exit block with
// that address already loaded into rax. On success execution falls through
// to whatever codegen emits next for this block.
func emitIOCall(b *amd64enc.Buf, sysno, fd uint32, errCellAddr uintptr, zeroFirst bool, exit BlockID) fixup {
	if zeroFirst {
		b.SetByteAtPointer(0)
	}
	b.LeaRSIFromPointer()
	b.MovEaxImm32(sysno)
	b.MovEdiImm32(fd)
	b.MovEdxImm32(1)
	b.Syscall()

	b.CmpEaxImm32(0)
	okField := b.JgeRel32()

	b.MovR10Imm64(uint64(errCellAddr))
	b.MovDwordAtR10FromEax(0)
	b.MovRaxFromR10()
	exitField := b.JmpRel32()

	b.PatchRel32(okField, b.Len())
	return fixup{exitField, exit}
}
