// bfprofile runs a tape-machine source file under the interpreter with
// profiling enabled and prints the instruction/loop hot-spot report. It is
// an external collaborator over the interpreter's profiling hook,
// built on github.com/urfave/cli the way cmd/bbcdisasm in the retrieval
// pack structures its single-command tool.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Urethramancer/tapelang/interp"
	"github.com/Urethramancer/tapelang/lexer"
	"github.com/Urethramancer/tapelang/render"
	"github.com/Urethramancer/tapelang/tape"
)

func main() {
	app := cli.NewApp()
	app.Name = "bfprofile"
	app.Usage = "run a tape-machine program under the interpreter and report instruction/loop hot spots"
	app.ArgsUsage = "<sourcefile>"
	app.Action = func(c *cli.Context) error {
		if c.NArg() != 1 {
			return cli.Exit("Usage: bfprofile <sourcefile>", 1)
		}
		filename := c.Args().First()

		src, err := os.ReadFile(filename)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Couldn't read source file: %v", err), 2)
		}

		prog, err := lexer.Fold(src)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Compile error: %v", err), 3)
		}

		ip := interp.New(prog, tape.New(), tape.NewStdHost())
		ip.EnableProfiling()
		if err := ip.Run(); err != nil {
			return cli.Exit(fmt.Sprintf("Runtime error: %v", err), 3)
		}

		fmt.Println(render.Report(prog, ip.Profile))
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}
