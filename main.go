// Command q3vmdis disassembles and annotates a QVM bytecode module: it
// decodes the container, reconstructs the function-level control-flow
// model, cross-references every operand against whatever sidecar
// annotation files are present, and prints the resulting listing.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/curddd/q3vm/internal/config"
	"github.com/curddd/q3vm/internal/listing"
	"github.com/curddd/q3vm/internal/sidecar"
	"github.com/curddd/q3vm/qvm"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("q3vmdis", flag.ContinueOnError)

	configPath := fs.String("config", "q3vmdis.toml", "path to a TOML config file (missing is not an error)")
	syscallsPath := fs.String("syscalls", "", "override the configured syscall table path")
	hashMapPath := fs.String("hashmap", "", "override the configured known-function hash map path")
	symbolsPath := fs.String("symbols", "", "override the configured symbols.dat path")
	functionsPath := fs.String("functions", "", "override the configured functions.dat path")
	constantsPath := fs.String("constants", "", "override the configured constants.dat path")
	commentsPath := fs.String("comments", "", "override the configured comments.dat path")
	verbose := fs.Bool("verbose", false, "log which sidecar files were found or skipped")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: q3vmdis [flags] <qvm-file>")
		return 2
	}
	qvmPath := fs.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return reportError(err)
	}

	paths := sidecar.Paths{
		Syscalls:  override(*syscallsPath, cfg.Sidecar.Syscalls),
		HashMap:   override(*hashMapPath, cfg.Sidecar.HashMap),
		Symbols:   override(*symbolsPath, cfg.Sidecar.Symbols),
		Functions: override(*functionsPath, cfg.Sidecar.Functions),
		Constants: override(*constantsPath, cfg.Sidecar.Constants),
		Comments:  override(*commentsPath, cfg.Sidecar.Comments),
	}

	if *verbose {
		for _, p := range []string{paths.Syscalls, paths.HashMap, paths.Symbols, paths.Functions, paths.Constants, paths.Comments} {
			if _, err := os.Stat(p); os.IsNotExist(err) {
				log.Printf("sidecar %s: not found, skipped", p)
			} else {
				log.Printf("sidecar %s: found", p)
			}
		}
	}

	f, err := os.Open(qvmPath)
	if err != nil {
		return reportError(err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return reportError(err)
	}

	img, err := qvm.Load(f, info.Size())
	if err != nil {
		return reportError(err)
	}

	analysis, err := qvm.Analyze(img)
	if err != nil {
		return reportError(err)
	}

	store, err := sidecar.LoadAll(paths)
	if err != nil {
		return reportError(err)
	}

	lines, err := qvm.BuildListing(img, analysis, store)
	if err != nil {
		return reportError(err)
	}

	opts := listing.Options{
		DataBytesPerLine: cfg.Listing.DataBytesPerLine,
		CommentColumn:    cfg.Listing.CommentColumn,
	}
	fmt.Fprint(os.Stdout, listing.Render(img, lines, store, opts))
	return 0
}

func override(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

// reportError writes the diagnostic to both stdout (prefixed for a
// human scanning the listing output) and stderr (prefixed for
// scripts/log capture).
func reportError(err error) int {
	fmt.Fprintln(os.Stdout, "---- error occurred :", err)
	fmt.Fprintln(os.Stderr, "ERROR:", err)
	return 1
}
