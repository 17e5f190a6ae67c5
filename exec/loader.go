// Package exec is the executable memory loader: it takes a flat
// machine-code buffer produced by nativeasm or jit, places it in
// executable memory, and gives the caller a way to invoke it as
// void/error-returning fn(tape_base *byte). Grounded directly on the
// mmap/mprotect allocator pattern used by the in-process JIT example in
// the retrieval pack.
package exec

import (
	"fmt"
	"syscall"
	"unsafe"
)

// Loaded is a block of executable memory holding one compiled function.
// Callers must call Free exactly once when done with it.
type Loaded struct {
	mem []byte
}

// Load copies code into a fresh anonymous page, makes it read-execute, and
// returns a handle. The page starts read-write so code can be copied in
// before the protection switch — mmap can't request RWX directly on a
// hardened kernel, and we don't want it to anyway.
func Load(code []byte) (*Loaded, error) {
	if len(code) == 0 {
		return nil, fmt.Errorf("exec: empty code buffer")
	}

	size := pageAlign(len(code))
	mem, err := syscall.Mmap(-1, 0, size,
		syscall.PROT_READ|syscall.PROT_WRITE,
		syscall.MAP_PRIVATE|syscall.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("exec: mmap: %w", err)
	}

	copy(mem, code)

	if err := syscall.Mprotect(mem, syscall.PROT_READ|syscall.PROT_EXEC); err != nil {
		syscall.Munmap(mem)
		return nil, fmt.Errorf("exec: mprotect: %w", err)
	}

	return &Loaded{mem: mem}, nil
}

// Addr returns the base address of the loaded code, suitable for casting
// into a function pointer via unsafe.
func (l *Loaded) Addr() uintptr {
	return uintptr(unsafe.Pointer(&l.mem[0]))
}

// Free unmaps the executable page. The Loaded must not be invoked again
// afterward.
func (l *Loaded) Free() error {
	if l.mem == nil {
		return nil
	}
	err := syscall.Munmap(l.mem)
	l.mem = nil
	return err
}

// AsVoidFunc turns the loaded code into a callable Go value matching the
// template emitter's signature, void fn(tape_base *byte). This relies on a
// Go func value being a pointer to a closure whose first word is the code
// entry address — the same unsafe cast the in-process JIT this package is
// grounded on uses to turn a raw buffer into a callable function.
func (l *Loaded) AsVoidFunc() func(tapeBase *byte) {
	closure := unsafe.Pointer(&struct{ addr uintptr }{l.Addr()})
	return *(*func(*byte))(unsafe.Pointer(&closure))
}

// AsErrFunc turns the loaded code into a callable Go value matching the
// JIT's signature, fn(tape_base *byte) *byte — nil means success, non-nil
// is the address of an error-carrying cell the caller must interpret.
func (l *Loaded) AsErrFunc() func(tapeBase *byte) *byte {
	closure := unsafe.Pointer(&struct{ addr uintptr }{l.Addr()})
	return *(*func(*byte) *byte)(unsafe.Pointer(&closure))
}

func pageAlign(n int) int {
	page := syscall.Getpagesize()
	return (n + page - 1) &^ (page - 1)
}
