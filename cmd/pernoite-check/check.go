// pernoite-check lists the placeholders of a pernoite template and reports
// those no configured field fills.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"pernoite/internal/odt"
	"pernoite/internal/pernoite"
)

func check1(fn string, cfg *pernoite.Config, w io.Writer) error {
	doc, err := odt.Open(fn)
	if err != nil {
		return err
	}
	tokens := pernoite.Tokens(doc)

	known := make(map[string]bool)
	for _, key := range cfg.FieldOrder() {
		known[key] = true
	}
	var unknown []string
	for _, key := range pernoite.SortedKeys(tokens) {
		status := "ok"
		if !known[key] {
			status = "UNKNOWN"
			unknown = append(unknown, key)
		}
		fmt.Fprintf(w, "%-20s %3d  %s\n", key, tokens[key], status)
	}
	for _, key := range cfg.FieldOrder() {
		if tokens[key] == 0 {
			fmt.Fprintf(w, "%-20s %3d  unused\n", key, 0)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%s: %d placeholder(s) without a field: %v", fn, len(unknown), unknown)
	}
	return nil
}

func pernoiteCheck() error {
	var (
		configPath = flag.String("config",
			"",
			"YAML file overriding the built-in role mapping")
	)
	flag.Parse()
	if flag.NArg() != 1 {
		return fmt.Errorf("syntax: %s [-config <file>] <template.odt>", filepath.Base(os.Args[0]))
	}
	cfg, err := pernoite.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	return check1(flag.Arg(0), cfg, os.Stdout)
}

func main() {
	if err := pernoiteCheck(); err != nil {
		log.Fatal(err)
	}
}
