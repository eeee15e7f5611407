// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"nikand.dev/go/cli"

	"mycfg/grammar"
	"mycfg/internal/ir"
	"mycfg/repl"
)

func main() {
	printCmd := &cli.Command{
		Name:        "print",
		Description: "decode a program and pretty print it",
		Action:      printAct,
		Args:        cli.Args{},
		Flags:       inputFlags(),
	}

	fmtCmd := &cli.Command{
		Name:        "fmt",
		Description: "decode a program and print it in the text form",
		Action:      fmtAct,
		Args:        cli.Args{},
		Flags:       inputFlags(),
	}

	cfgCmd := &cli.Command{
		Name:        "cfg",
		Description: "print the control flow graph of the first function as a digraph",
		Action:      cfgAct,
		Args:        cli.Args{},
		Flags: append(inputFlags(),
			cli.NewFlag("all", false, "print a digraph for every function"),
		),
	}

	dveCmd := &cli.Command{
		Name:        "dve",
		Description: "eliminate dead variables in every function",
		Action:      dveAct,
		Args:        cli.Args{},
		Flags: append(inputFlags(),
			cli.NewFlag("worklist", false, "use the work-list algorithm"),
		),
	}

	dseCmd := &cli.Command{
		Name:        "dse",
		Description: "eliminate dead stores in every block",
		Action:      dseAct,
		Args:        cli.Args{},
		Flags:       inputFlags(),
	}

	optCmd := &cli.Command{
		Name:        "opt",
		Description: "run the optimization pipeline to a fixpoint",
		Action:      optAct,
		Args:        cli.Args{},
		Flags:       inputFlags(),
	}

	replCmd := &cli.Command{
		Name:        "repl",
		Description: "read text-form functions interactively",
		Action:      replAct,
	}

	app := &cli.Command{
		Name:        "mycfg",
		Description: "mycfg decodes block-structured IR, builds control flow graphs and removes dead code",
		Commands: []*cli.Command{
			printCmd,
			fmtCmd,
			cfgCmd,
			dveCmd,
			dseCmd,
			optCmd,
			replCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func inputFlags() []*cli.Flag {
	return []*cli.Flag{
		cli.NewFlag("text", false, "read the text form instead of JSON"),
		cli.NewFlag("verbose,v", false, "enable debug logging"),
	}
}

func printAct(c *cli.Command) error {
	return run(c, ir.Print)
}

func fmtAct(c *cli.Command) error {
	return run(c, grammar.Format)
}

func cfgAct(c *cli.Command) error {
	all := c.Bool("all")

	return run(c, func(program ir.Program) string {
		var b strings.Builder
		for i, fn := range program.Functions {
			if i > 0 && !all {
				break
			}
			b.WriteString(ir.Graphviz(fn))
		}
		return b.String()
	})
}

func dveAct(c *cli.Command) error {
	eliminate := ir.EliminateDeadVariables
	if c.Bool("worklist") {
		eliminate = ir.EliminateDeadVariablesWorklist
	}

	return run(c, func(program ir.Program) string {
		return ir.Print(program.Map(eliminate))
	})
}

func dseAct(c *cli.Command) error {
	return run(c, func(program ir.Program) string {
		return ir.Print(program.Map(func(fn ir.Function) ir.Function {
			blocks := make([]ir.BasicBlock, len(fn.Blocks))
			for i, block := range fn.Blocks {
				blocks[i] = ir.EliminateDeadStores(block)
			}
			return fn.WithBlocks(blocks)
		}))
	})
}

func optAct(c *cli.Command) error {
	return run(c, func(program ir.Program) string {
		return ir.Print(ir.Optimize(program))
	})
}

func replAct(c *cli.Command) error {
	fmt.Println("mycfg repl: enter text-form functions, Ctrl-D to quit")
	repl.Start(os.Stdin, os.Stdout)
	return nil
}

// run loads the program named by the command arguments and writes render's
// output to stdout.
func run(c *cli.Command, render func(ir.Program) string) error {
	verbosity := 0
	if c.Bool("verbose") {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)

	program, err := load(c)
	if err != nil {
		return err
	}

	fmt.Print(render(program))
	return nil
}
