package nativeasm

import (
	"github.com/Urethramancer/tapelang/exec"
	"github.com/Urethramancer/tapelang/tape"
)

// Run assembles src and executes it against t, loading the generated code
// into executable memory for the duration of the call and freeing it
// afterward. It surfaces assembly-time errors (unbalanced brackets) and
// errors from loading the code into executable memory; runtime I/O
// failures are not reported, matching Emit's void signature.
func Run(src []byte, t *tape.Tape) error {
	code, err := Emit(src)
	if err != nil {
		return err
	}

	loaded, err := exec.Load(code)
	if err != nil {
		return err
	}
	defer loaded.Free()

	fn := loaded.AsVoidFunc()
	fn(&t.Mem[0])
	return nil
}
