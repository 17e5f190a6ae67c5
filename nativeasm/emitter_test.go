package nativeasm

import (
	"encoding/hex"
	"io"
	"os"
	"strings"
	"syscall"
	"testing"

	"github.com/Urethramancer/tapelang/lexer"
	"github.com/Urethramancer/tapelang/tape"
)

// withCapturedStdout temporarily redirects file descriptor 1 (the literal
// fd the emitted code's raw write syscall targets, not just os.Stdout's Go
// value) to a pipe, runs fn, and returns everything written during fn.
func withCapturedStdout(t *testing.T, fn func()) []byte {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	savedFD, err := syscall.Dup(1)
	if err != nil {
		t.Fatalf("dup stdout: %v", err)
	}
	if err := syscall.Dup2(int(w.Fd()), 1); err != nil {
		t.Fatalf("dup2 stdout: %v", err)
	}

	fn()

	w.Close()
	syscall.Dup2(savedFD, 1)
	syscall.Close(savedFD)

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read captured stdout: %v", err)
	}
	return out
}

// emitAndMatchHex assembles src and checks the result against an expected
// byte sequence given as hex, mirroring the teacher's hex-comparison helper.
func emitAndMatchHex(t *testing.T, name, src, expectedHex string) {
	t.Helper()

	expectedHex = strings.ToLower(strings.Join(strings.Fields(expectedHex), ""))
	expected, err := hex.DecodeString(expectedHex)
	if err != nil {
		t.Fatalf("[%s] invalid expected hex: %v", name, err)
	}

	code, err := Emit([]byte(src))
	if err != nil {
		t.Fatalf("[%s] Emit failed: %v", name, err)
	}
	if len(code) != len(expected) {
		t.Fatalf("[%s] expected %d bytes, got %d\nexpected: % X\ngot:      % X",
			name, len(expected), len(code), expected, code)
	}
	for i := range code {
		if code[i] != expected[i] {
			t.Fatalf("[%s] mismatch at byte %d\nexpected: % X\ngot:      % X",
				name, i, expected, code)
		}
	}
}

func TestEmitSingleIncrement(t *testing.T) {
	emitAndMatchHex(t, "increment",
		"+",
		"41 54 41 55 49 89 FC 4D 31 ED 43 80 04 2C 01 41 5D 41 5C C3")
}

func TestEmitSingleDecrement(t *testing.T) {
	emitAndMatchHex(t, "decrement",
		"-",
		"41 54 41 55 49 89 FC 4D 31 ED 43 80 2C 2C 01 41 5D 41 5C C3")
}

func TestEmitClearLoopUnfused(t *testing.T) {
	emitAndMatchHex(t, "clear loop",
		"[-]",
		`41 54 41 55 49 89 FC 4D 31 ED
		 43 80 3C 2C 00 0F 84 10 00 00 00
		 43 80 2C 2C 01
		 43 80 3C 2C 00 0F 85 F0 FF FF FF
		 41 5D 41 5C C3`)
}

func TestEmitDoesNotFoldRuns(t *testing.T) {
	// Two adds emit two fragments, never a single folded Add(2) — this
	// back-end deliberately performs no algebraic fusion.
	code, err := Emit([]byte("++"))
	if err != nil {
		t.Fatalf("Emit failed: %v", err)
	}
	prologueLen := 10
	fragLen := 5
	epilogueLen := 5
	want := prologueLen + fragLen*2 + epilogueLen
	if len(code) != want {
		t.Fatalf("got %d bytes, want %d (two separate fragments)", len(code), want)
	}
}

func TestRunHelloWorld(t *testing.T) {
	const src = "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."
	out := withCapturedStdout(t, func() {
		if err := Run([]byte(src), tape.New()); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
	})
	if string(out) != "Hello World!\n" {
		t.Errorf("stdout = %q, want %q", out, "Hello World!\n")
	}
}

func TestEmitUnmatchedClose(t *testing.T) {
	_, err := Emit([]byte("ab]"))
	ub, ok := err.(*lexer.UnbalancedBracketsError)
	if !ok {
		t.Fatalf("got %v (%T), want *lexer.UnbalancedBracketsError", err, err)
	}
	if ub.Bracket != ']' || ub.Position != 2 {
		t.Errorf("got %+v, want Bracket=']' Position=2", ub)
	}
}

func TestEmitUnmatchedOpen(t *testing.T) {
	_, err := Emit([]byte("[+"))
	ub, ok := err.(*lexer.UnbalancedBracketsError)
	if !ok {
		t.Fatalf("got %v (%T), want *lexer.UnbalancedBracketsError", err, err)
	}
	if ub.Bracket != '[' || ub.Position != 0 {
		t.Errorf("got %+v, want Bracket='[' Position=0", ub)
	}
}
