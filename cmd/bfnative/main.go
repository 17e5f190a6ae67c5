// bfnative assembles a tape-machine source file with the template-based
// x86-64 emitter and runs the result directly from executable memory. See
// cmd/asm68/main.go for the flag-handling convention this follows.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Urethramancer/tapelang/nativeasm"
	"github.com/Urethramancer/tapelang/tape"
)

func main() {
	log.SetFlags(0)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: bfnative <sourcefile>\n")
		os.Exit(1)
	}
	filename := flag.Arg(0)

	src, err := os.ReadFile(filename)
	if err != nil {
		log.Printf("Couldn't read source file: %v", err)
		os.Exit(2)
	}

	if err := nativeasm.Run(src, tape.New()); err != nil {
		log.Printf("Compile error: %v", err)
		os.Exit(3)
	}
}
