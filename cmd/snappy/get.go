package main

import (
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	"github.com/snappyview/snappy/encode"
	"github.com/snappyview/snappy/ir"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, a JSON Pointer", cli.ErrUsage)
	}
	pointer := args[0]
	opts := cfg.encOpts(cc.Out)
	return eachDocFile(cc, args[1:], func(path string, root *ir.Node) error {
		v, ok := ir.Resolve(root, pointer)
		if !ok {
			return fmt.Errorf("%s: no value at %q", path, pointer)
		}
		if err := encode.Encode(v, cc.Out, opts...); err != nil {
			return fmt.Errorf("error encoding %s: %w", path, err)
		}
		_, err := io.WriteString(cc.Out, "\n")
		return err
	})
}
