package main

import (
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	"github.com/snappyview/snappy/ir"
	"github.com/snappyview/snappy/loader"
)

// getDocFile loads the document at path, with "-" meaning the
// command's input stream.
func getDocFile(cc *cli.Context, path string) (*ir.Node, error) {
	if path == "-" {
		d, err := io.ReadAll(cc.In)
		if err != nil {
			return nil, fmt.Errorf("error reading: %w", err)
		}
		return loader.LoadText(string(d))
	}
	return loader.LoadFile(path, nil, nil)
}

// eachDocFile runs fn over every file argument, defaulting to stdin.
func eachDocFile(cc *cli.Context, args []string, fn func(path string, root *ir.Node) error) error {
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, path := range args {
		root, err := getDocFile(cc, path)
		if err != nil {
			return fmt.Errorf("error loading %q: %w", path, err)
		}
		if err := fn(path, root); err != nil {
			return err
		}
	}
	return nil
}
