// cutstock — 2D guillotine cutting-stock optimizer
//
// A CLI front end over the optimization engine: parse a cut list, submit it
// to the task facade, wait until it finishes, and write out a placement
// report.
//
// Build:
//
//	go build -o cutstock ./cmd/cutstock
package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "optimize":
		err = runOptimize(os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:])
	case "example":
		err = runExample(os.Args[2:])
	case "-h", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "cutstock: unknown subcommand %q\n", os.Args[1])
		printUsage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "cutstock: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: cutstock <command> [flags]

commands:
  optimize   submit a cut list, wait for the result, write a report
  validate   parse a cut list and report errors/warnings without optimizing
  example    write a sample cut-list file

run "cutstock <command> -h" for command-specific flags`)
}

// newFlagSet builds a FlagSet that exits with status 2 on parse errors,
// matching the stdlib flag package's default CommandLine behavior.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	return fs
}
