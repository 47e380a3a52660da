// Command cpmatch is the CLI entry point for the copyright-status
// matcher: a flat flag.FlagSet-per-subcommand CLI in the same style as
// the teacher's own tools, rather than a cobra-based command tree.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func usage() {
	fmt.Fprintln(os.Stderr, `cpmatch - US copyright status matcher for MARC21 records

Usage:
  cpmatch <command> [flags]

Commands:
  index    build and cache registration/renewal indexes
  match    run the matching pipeline against MARC batches
  export   render result files as CSV or JSON
`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "index":
		err = runIndex(ctx, os.Args[2:])
	case "match":
		err = runMatch(ctx, os.Args[2:])
	case "export":
		err = runExport(ctx, os.Args[2:])
	case "-help", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "cpmatch: unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "cpmatch: %v\n", err)
		os.Exit(1)
	}
}
