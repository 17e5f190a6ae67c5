// bfrun executes a tape-machine source file with the optimizing bytecode
// interpreter. See cmd/run68/main.go for the flag-handling convention this
// follows.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Urethramancer/tapelang/interp"
	"github.com/Urethramancer/tapelang/lexer"
	"github.com/Urethramancer/tapelang/tape"
)

func main() {
	log.SetFlags(0)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: bfrun <sourcefile>\n")
		os.Exit(1)
	}
	filename := flag.Arg(0)

	src, err := os.ReadFile(filename)
	if err != nil {
		log.Printf("Couldn't read source file: %v", err)
		os.Exit(2)
	}

	prog, err := lexer.Fold(src)
	if err != nil {
		log.Printf("Compile error: %v", err)
		os.Exit(3)
	}

	ip := interp.New(prog, tape.New(), tape.NewStdHost())
	if err := ip.Run(); err != nil {
		log.Printf("Runtime error: %v", err)
		os.Exit(3)
	}
}
