package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/npillmayer/ufo"
	"github.com/npillmayer/ufo/internal/bytestore"
	"github.com/thatisuday/commando"
)

func runConvertCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	r := mustOpen(args["font"].Value, mustFlagBool(flags["lenient"], "lenient"))
	defer r.Close()
	output := strings.TrimSpace(args["output"].Value)
	if output == "" {
		fatalf("output path is required")
	}
	if filepath.Clean(output) == filepath.Clean(r.Path()) {
		fatalf("output must differ from input")
	}
	var w ufo.FormatWriter
	var err error
	if strings.EqualFold(filepath.Ext(output), ".ufoz") {
		w, err = ufo.CreateArchive(output)
	} else {
		w, err = ufo.Create(output)
	}
	if err != nil {
		fatalf("%v", err)
	}
	if err := ufo.Convert(w, r); err != nil {
		w.Close()
		fatalf("conversion failed: %v", err)
	}
	if err := w.Close(); err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("wrote %s\n", output)
}

func runPackCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	src := filepath.Clean(strings.TrimSpace(args["font"].Value))
	r := mustOpen(src, false)
	r.Close()
	output := strings.TrimSpace(args["output"].Value)
	if output == "" || output == "-" {
		output = strings.TrimSuffix(src, filepath.Ext(src)) + ".ufoz"
	}
	if err := bytestore.PackDir(src, output); err != nil {
		fatalf("cannot pack %s: %v", src, err)
	}
	fmt.Printf("wrote %s\n", output)
}
