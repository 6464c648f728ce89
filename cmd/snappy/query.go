package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/snappyview/snappy/ir"
	"github.com/snappyview/snappy/query"
)

func runQuery(cfg *QueryConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Query.Parse(cc, args)
	if err != nil {
		cfg.Query.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: query requires a JSONPath expression", cli.ErrUsage)
	}
	expression := args[0]
	return eachDocFile(cc, args[1:], func(path string, root *ir.Node) error {
		out, err := query.JSONPath(root, expression)
		if err != nil {
			return fmt.Errorf("error querying %s: %w", path, err)
		}
		fmt.Fprintln(cc.Out, string(out))
		return nil
	})
}
