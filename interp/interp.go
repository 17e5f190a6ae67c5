// Package interp is the optimizing bytecode interpreter: a direct dispatch
// loop over the folded instruction stream, with an optional profiling hook.
package interp

import (
	"github.com/Urethramancer/tapelang/lexer"
	"github.com/Urethramancer/tapelang/tape"
)

// Interp runs a folded program against a tape and a host.
type Interp struct {
	Tape    *tape.Tape
	Host    tape.Host
	Program []lexer.Instruction
	Profile *Profile
}

// New builds an interpreter over an already-folded program.
func New(program []lexer.Instruction, t *tape.Tape, h tape.Host) *Interp {
	return &Interp{Tape: t, Host: h, Program: program}
}

// EnableProfiling turns on the per-tag and per-loop counters.
func (ip *Interp) EnableProfiling() {
	ip.Profile = newProfile()
}

// Run executes the program to completion, or returns the first error a host
// I/O operation reports.
func (ip *Interp) Run() error {
	prog := ip.Program
	pc := 0
	for pc < len(prog) {
		in := &prog[pc]
		if ip.Profile != nil {
			ip.Profile.count(in.Op)
		}

		switch in.Op {
		case lexer.OpAdd:
			ip.Tape.Add(in.Delta)
			pc++

		case lexer.OpMove:
			ip.Tape.Move(in.Disp)
			pc++

		case lexer.OpInput:
			b, err := ip.Host.ReadByte()
			if err != nil {
				return err
			}
			ip.Tape.Set(b)
			pc++

		case lexer.OpOutput:
			if err := ip.Host.WriteByte(ip.Tape.Cell()); err != nil {
				return err
			}
			pc++

		case lexer.OpJumpIfZero:
			if ip.Tape.Cell() == 0 {
				pc = in.Target
			} else {
				pc++
			}

		case lexer.OpJumpIfNonZero:
			if ip.Profile != nil {
				ip.Profile.recordLoop(in.Target, pc)
			}
			if ip.Tape.Cell() != 0 {
				pc = in.Target
			} else {
				pc++
			}

		case lexer.OpClear:
			ip.Tape.Set(0)
			pc++

		case lexer.OpAddTo:
			ip.Tape.AddTo(in.Disp)
			pc++

		case lexer.OpMoveUntil:
			ip.Tape.MoveUntil(in.Disp)
			pc++
		}
	}
	return nil
}
