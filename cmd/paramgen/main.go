// Command paramgen turns a YAML parameter manifest into the Go
// declaration boilerplate for a plugin's parameter collection. It is
// meant to run under go:generate:
//
//	//go:generate go run github.com/beamer-audio/beamer-go/cmd/paramgen -in params.yaml -out params_gen.go
//
// Generation fails hard on FNV-1a id collisions, naming both keys, so a
// clash is caught at build time rather than in a host.
package main

import (
	"flag"
	"fmt"
	"go/format"
	"os"
)

func main() {
	in := flag.String("in", "params.yaml", "parameter manifest")
	out := flag.String("out", "params_gen.go", "generated Go file")
	flag.Parse()

	if err := run(*in, *out); err != nil {
		fmt.Fprintf(os.Stderr, "paramgen: %v\n", err)
		os.Exit(1)
	}
}

func run(inPath, outPath string) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}
	m, err := Load(data)
	if err != nil {
		return err
	}
	src := m.Generate()
	formatted, err := format.Source(src)
	if err != nil {
		// Emit the unformatted source anyway; the compile error that
		// follows is easier to debug with the file on disk.
		formatted = src
	}
	return os.WriteFile(outPath, formatted, 0o644)
}
