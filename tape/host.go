package tape

import (
	"bufio"
	"io"
	"os"
	"sync"
)

// Host performs the single-byte I/O operations the interpreter calls into.
// The native back-ends (nativeasm, jit) do not use a Host; their generated
// code performs raw read/write syscalls. A nil Host is never passed; the
// CLIs construct one from NewStdHost and tests supply their own.
type Host interface {
	WriteByte(b byte) error
	ReadByte() (byte, error)
}

// StdHost serializes access to stdin/stdout the way a single locked pair of
// handles would, and applies the platform-specific filtering defined in
// filterOutput/filterInput (host_windows.go, host_other.go).
type StdHost struct {
	outMu sync.Mutex
	out   *bufio.Writer

	inMu sync.Mutex
	in   *bufio.Reader
}

// NewStdHost wraps os.Stdin/os.Stdout for use by a program run.
func NewStdHost() *StdHost {
	return &StdHost{
		out: bufio.NewWriter(os.Stdout),
		in:  bufio.NewReader(os.Stdin),
	}
}

// WriteByte writes one output byte, flushing immediately. A byte the
// platform filter drops is silently discarded rather than written.
func (h *StdHost) WriteByte(b byte) error {
	if filterOutput(b) {
		return nil
	}
	h.outMu.Lock()
	defer h.outMu.Unlock()
	if err := h.out.WriteByte(b); err != nil {
		return err
	}
	return h.out.Flush()
}

// ReadByte reads one input byte, skipping any byte the platform filter
// rejects. End of input yields byte 0 with a nil error, never io.EOF.
func (h *StdHost) ReadByte() (byte, error) {
	h.inMu.Lock()
	defer h.inMu.Unlock()
	for {
		b, err := h.in.ReadByte()
		if err != nil {
			if err == io.EOF {
				return 0, nil
			}
			return 0, err
		}
		if filterInput(b) {
			continue
		}
		return b, nil
	}
}
