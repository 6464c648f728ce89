package main

import (
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	"github.com/snappyview/snappy/encode"
	"github.com/snappyview/snappy/ir"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		cfg.View.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	return viewArgs(cfg, cc, args)
}

func viewArgs(cfg *ViewConfig, cc *cli.Context, args []string) error {
	opts := cfg.encOpts(cc.Out)
	first := true
	return eachDocFile(cc, args, func(path string, root *ir.Node) error {
		if !first {
			if _, err := io.WriteString(cc.Out, "\n"); err != nil {
				return err
			}
		}
		first = false
		if err := encode.Encode(root, cc.Out, opts...); err != nil {
			return fmt.Errorf("error encoding %s: %w", path, err)
		}
		_, err := io.WriteString(cc.Out, "\n")
		return err
	})
}
