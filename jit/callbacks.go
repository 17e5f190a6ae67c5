package jit

import "syscall"

// ioError is a single reusable scratch cell that compiled code reports a
// failed syscall's negative errno into. Its address is baked into the
// generated function as an immediate at compile time (see codegen_amd64.go)
// and pinned for the run's lifetime with runtime.Pinner in run.go, so the
// garbage collector never moves or frees it out from under running native
// code — exactly the kind of cross-boundary pointer stability Pinner exists
// for.
//
// This stands in for a heap-allocated error value: the generated
// function's contract is "null return means success, non-null is the
// address of an error the caller must interpret", just realized as a
// fixed cell instead of a fresh allocation per failure.
type ioError struct {
	errno int32
}

func (e *ioError) error() error {
	if e.errno == 0 {
		return nil
	}
	return syscall.Errno(-e.errno)
}
