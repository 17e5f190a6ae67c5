package render

import (
	"strings"
	"testing"

	"github.com/Urethramancer/tapelang/interp"
	"github.com/Urethramancer/tapelang/lexer"
	"github.com/Urethramancer/tapelang/tape"
)

type discardHost struct{}

func (discardHost) WriteByte(b byte) error   { return nil }
func (discardHost) ReadByte() (byte, error)  { return 0, nil }

func TestBodyRendersCanonicalShorthand(t *testing.T) {
	prog, err := lexer.Fold([]byte("+++>><[-]"))
	if err != nil {
		t.Fatalf("Fold failed: %v", err)
	}
	got := Body(prog)
	want := "+3>1x"
	if got != want {
		t.Errorf("Body() = %q, want %q", got, want)
	}
}

func TestBodyRendersAddToAndMoveUntil(t *testing.T) {
	addTo, err := lexer.Fold([]byte("[->>+<<]"))
	if err != nil {
		t.Fatalf("Fold failed: %v", err)
	}
	if got, want := Body(addTo), "+>2"; got != want {
		t.Errorf("AddTo Body() = %q, want %q", got, want)
	}

	moveUntil, err := lexer.Fold([]byte("[<<]"))
	if err != nil {
		t.Fatalf("Fold failed: %v", err)
	}
	if got, want := Body(moveUntil), "<<2"; got != want {
		t.Errorf("MoveUntil Body() = %q, want %q", got, want)
	}
}

func TestReportListsHottestLoopFirst(t *testing.T) {
	prog, err := lexer.Fold([]byte("+++++[>+<-]"))
	if err != nil {
		t.Fatalf("Fold failed: %v", err)
	}
	ip := interp.New(prog, tape.New(), discardHost{})
	ip.EnableProfiling()
	if err := ip.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	report := Report(prog, ip.Profile)
	if !strings.Contains(report, "hottest loop bodies:") {
		t.Errorf("report missing hottest loop bodies section:\n%s", report)
	}
	if !strings.Contains(report, "5  [>1+1<1-1]") {
		t.Errorf("report missing expected hot loop line:\n%s", report)
	}
}
