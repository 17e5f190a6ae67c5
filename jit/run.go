package jit

import (
	"runtime"
	"unsafe"

	"github.com/Urethramancer/tapelang/exec"
	"github.com/Urethramancer/tapelang/lexer"
	"github.com/Urethramancer/tapelang/tape"
)

// Run builds, verifies, compiles, and executes a folded instruction stream
// against t. prog must come from lexer.FoldForJIT. Compiled code performs
// its own I/O via raw Linux syscalls (see codegen_amd64.go) rather than
// through a tape.Host: generated machine code has no stable way to call
// back into a Go function (see the nativeasm package doc for why), and
// Linux's syscall ABI is the one raw in-process I/O mechanism stable
// enough to embed directly. That confines this back-end to Linux/amd64
// and leaves tape.StdHost's Windows filtering unreachable from it.
func Run(prog []lexer.Instruction, t *tape.Tape) error {
	f := Build(prog)
	if err := Verify(f); err != nil {
		return err
	}

	cell := &ioError{}
	var pin runtime.Pinner
	pin.Pin(cell)
	defer pin.Unpin()

	code := Compile(f, uintptr(unsafe.Pointer(cell)))

	loaded, err := exec.Load(code)
	if err != nil {
		return err
	}
	defer loaded.Free()

	fn := loaded.AsErrFunc()
	errAddr := fn(&t.Mem[0])

	if errAddr == nil {
		return nil
	}
	return (*ioError)(unsafe.Pointer(errAddr)).error()
}

// CompileBytes compiles f to machine code without executing it, for the
// CLI's -d/--dump mode. The scratch cell it pins is never unpinned — the
// process exits shortly after a dump, so there is nothing to reclaim.
func CompileBytes(f *Func) []byte {
	cell := &ioError{}
	var pin runtime.Pinner
	pin.Pin(cell)
	return Compile(f, uintptr(unsafe.Pointer(cell)))
}
