// Package amd64enc is a minimal x86-64/SysV byte encoder shared by the
// template emitter (nativeasm) and the IR-based JIT (jit). It only knows
// the handful of forms both back-ends need: the R12/R13 tape-pointer
// pinning convention, byte-sized memory ops at [r12+r13], 32-bit immediate
// loads into eax/edi/edx/r11, a 64-bit immediate load into r10, and rel32
// branches with a patch-after-the-fact API
// for back-/forward-references, mirroring how the teacher's assembler
// resolves labels against already- or not-yet-known addresses.
package amd64enc

import "encoding/binary"

// Buf accumulates emitted machine code. It does not track pending rel32
// fixups itself: the branch emitters return the field offset and the caller
// patches it later with PatchRel32.
type Buf struct {
	Code []byte
}

func (b *Buf) emit(bs ...byte) {
	b.Code = append(b.Code, bs...)
}

// Len returns the current code length, usable as a block/label offset.
func (b *Buf) Len() int {
	return len(b.Code)
}

// PushR12R13 saves the two callee-saved registers pinned to the tape base
// and the data pointer.
func (b *Buf) PushR12R13() {
	b.emit(0x41, 0x54) // push r12
	b.emit(0x41, 0x55) // push r13
}

// PopR12R13 restores them before returning.
func (b *Buf) PopR12R13() {
	b.emit(0x41, 0x5D) // pop r13
	b.emit(0x41, 0x5C) // pop r12
}

// MovR12FromRDI pins r12 to the first SysV argument (the tape base).
func (b *Buf) MovR12FromRDI() {
	b.emit(0x49, 0x89, 0xFC) // mov r12, rdi
}

// XorR13R13 zeroes r13, the data pointer register, on entry.
func (b *Buf) XorR13R13() {
	b.emit(0x4D, 0x31, 0xED) // xor r13, r13
}

// Ret emits a bare return.
func (b *Buf) Ret() {
	b.emit(0xC3)
}

// XorEaxEax zeroes eax (and the full rax), used to build a null return.
func (b *Buf) XorEaxEax() {
	b.emit(0x31, 0xC0) // xor eax, eax
}

// AddByteAtPointer adds a signed 8-bit delta to the byte at [r12+r13].
func (b *Buf) AddByteAtPointer(delta int8) {
	if delta >= 0 {
		b.emit(0x43, 0x80, 0x04, 0x2C, byte(delta)) // add byte [r12+r13], delta
	} else {
		b.emit(0x43, 0x80, 0x2C, 0x2C, byte(-delta)) // sub byte [r12+r13], -delta
	}
}

// SetByteAtPointer stores an immediate into the byte at [r12+r13].
func (b *Buf) SetByteAtPointer(v byte) {
	b.emit(0x43, 0xC6, 0x04, 0x2C, v) // mov byte [r12+r13], v
}

// CmpByteAtPointerZero compares the byte at [r12+r13] against zero.
func (b *Buf) CmpByteAtPointerZero() {
	b.emit(0x43, 0x80, 0x3C, 0x2C, 0x00) // cmp byte [r12+r13], 0
}

// LeaRSIFromPointer points rsi at the live cell, for use as a syscall
// buffer argument.
func (b *Buf) LeaRSIFromPointer() {
	b.emit(0x4B, 0x8D, 0x34, 0x2C) // lea rsi, [r12+r13]
}

// MovEaxImm32 loads a 32-bit immediate into eax, zero-extending into rax.
func (b *Buf) MovEaxImm32(v uint32) {
	b.emit(0xB8)
	b.emit(le32(v)...)
}

// MovEdiImm32 loads a 32-bit immediate into edi.
func (b *Buf) MovEdiImm32(v uint32) {
	b.emit(0xBF)
	b.emit(le32(v)...)
}

// MovEdxImm32 loads a 32-bit immediate into edx.
func (b *Buf) MovEdxImm32(v uint32) {
	b.emit(0xBA)
	b.emit(le32(v)...)
}

// MovR11Imm32 loads a 32-bit immediate into r11, zero-extended.
func (b *Buf) MovR11Imm32(v uint32) {
	b.emit(0x41, 0xBB)
	b.emit(le32(v)...)
}

// MovR10Imm64 loads a 64-bit absolute immediate into r10, used to bake in
// the address of a Go-heap scratch cell pinned for the lifetime of a run.
func (b *Buf) MovR10Imm64(v uint64) {
	b.emit(0x49, 0xBA) // mov r10, imm64
	var le [8]byte
	binary.LittleEndian.PutUint64(le[:], v)
	b.emit(le[:]...)
}

// MovDwordAtR10Imm32 stores a 32-bit immediate to the dword at [r10+disp8],
// used to write a fixed errno field in the pinned scratch cell.
func (b *Buf) MovDwordAtR10Imm32(disp8 int8, v uint32) {
	b.emit(0x41, 0xC7, 0x42, byte(disp8)) // mov dword [r10+disp8], v
	b.emit(le32(v)...)
}

// MovDwordAtR10FromEax stores eax to the dword at [r10+disp8].
func (b *Buf) MovDwordAtR10FromEax(disp8 int8) {
	b.emit(0x41, 0x89, 0x42, byte(disp8)) // mov [r10+disp8], eax
}

// MovRaxFromR10 copies r10 (the scratch cell's address) into rax, used as
// the non-null error return.
func (b *Buf) MovRaxFromR10() {
	b.emit(0x4C, 0x89, 0xD0) // mov rax, r10
}

// CmpEaxImm32 compares eax against a 32-bit immediate.
func (b *Buf) CmpEaxImm32(v int32) {
	b.emit(0x3D)
	b.emit(le32(uint32(v))...)
}

// Syscall emits the syscall instruction.
func (b *Buf) Syscall() {
	b.emit(0x0F, 0x05)
}

// IncR13Wrapped increments r13 and wraps it to 0 when it reaches size.
func (b *Buf) IncR13Wrapped(size uint32) {
	b.emit(0x49, 0xFF, 0xC5) // inc r13
	b.MovR11Imm32(0)
	b.emit(0x49, 0x81, 0xFD) // cmp r13, imm32
	b.emit(le32(size)...)
	b.emit(0x4D, 0x0F, 0x44, 0xEB) // cmove r13, r11
}

// DecR13Wrapped decrements r13 and wraps it to size-1 when it goes negative.
func (b *Buf) DecR13Wrapped(size uint32) {
	b.emit(0x49, 0xFF, 0xCD) // dec r13
	b.MovR11Imm32(size - 1)
	b.emit(0x49, 0x81, 0xFD, 0x00, 0x00, 0x00, 0x00) // cmp r13, 0
	b.emit(0x4D, 0x0F, 0x4C, 0xEB)                   // cmovl r13, r11
}

// JzRel32 emits a conditional jump-if-zero with a placeholder rel32,
// returning the field offset to patch once the target is known.
func (b *Buf) JzRel32() int {
	b.emit(0x0F, 0x84)
	return b.placeholder32()
}

// JnzRel32 emits a conditional jump-if-not-zero, patched immediately since
// its target (a backward branch to a loop's body start) is already known.
func (b *Buf) JnzRel32(target int) {
	b.emit(0x0F, 0x85)
	field := b.placeholder32()
	b.PatchRel32(field, target)
}

// JmpRel32 emits an unconditional jump with a placeholder rel32.
func (b *Buf) JmpRel32() int {
	b.emit(0xE9)
	return b.placeholder32()
}

// JgeRel32 emits a signed jump-if-greater-or-equal with a placeholder
// rel32, used by the JIT to skip over a syscall's error-reporting path when
// the return value is non-negative.
func (b *Buf) JgeRel32() int {
	b.emit(0x0F, 0x8D)
	return b.placeholder32()
}

func (b *Buf) placeholder32() int {
	off := len(b.Code)
	b.emit(0, 0, 0, 0)
	return off
}

// PatchRel32 fixes up a previously emitted rel32 field once target (an
// absolute code offset) is known. rel32 is relative to the first byte past
// the field, per x86 encoding.
func (b *Buf) PatchRel32(fieldOffset, target int) {
	rel := int32(target - (fieldOffset + 4))
	binary.LittleEndian.PutUint32(b.Code[fieldOffset:], uint32(rel))
}

// computeWrappedRdx leaves r13+k reduced into [0, size) in rdx, using a
// real idiv rather than the single-step conditional move the template
// emitter uses — the JIT's folded Move/AddTo displacements are not bounded
// to +/-1, so a single wrap correction is not enough.
func (b *Buf) computeWrappedRdx(k int32, size uint32) {
	b.emit(0x4C, 0x89, 0xE8) // mov rax, r13
	b.emit(0x48, 0x05)       // add rax, imm32
	b.emit(le32(uint32(k))...)
	b.emit(0x48, 0x99) // cqo
	b.emit(0xB9)       // mov ecx, imm32
	b.emit(le32(size)...)
	b.emit(0x48, 0xF7, 0xF9) // idiv rcx
	b.emit(0x41, 0xBB)       // mov r11d, imm32
	b.emit(le32(size)...)
	b.emit(0x49, 0x01, 0xD3) // add r11, rdx
	b.emit(0x48, 0x85, 0xD2) // test rdx, rdx
	b.emit(0x49, 0x0F, 0x4C, 0xD3) // cmovl rdx, r11
}

// MoveR13Mod moves the data pointer by k cells with a full modular
// reduction, used by the JIT's Move lowering.
func (b *Buf) MoveR13Mod(k int32, size uint32) {
	b.computeWrappedRdx(k, size)
	b.emit(0x49, 0x89, 0xD5) // mov r13, rdx
}

// AddToWrapped adds the cell under the data pointer into the cell k away
// (wrapping via the same idiv reduction as MoveR13Mod), then zeroes the
// cell under the data pointer — the JIT's AddTo lowering.
func (b *Buf) AddToWrapped(k int32, size uint32) {
	b.computeWrappedRdx(k, size)
	b.emit(0x49, 0x89, 0xD1)          // mov r9, rdx
	b.emit(0x43, 0x0F, 0xB6, 0x04, 0x2C) // movzx eax, byte [r12+r13]
	b.emit(0x43, 0x00, 0x04, 0x0C)       // add byte [r12+r9], al
	b.SetByteAtPointer(0)
}

func le32(v uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return buf[:]
}
