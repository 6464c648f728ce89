package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/snappyview/snappy/ir"
)

func stats(cfg *StatsConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Stats.Parse(cc, args)
	if err != nil {
		cfg.Stats.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	return eachDocFile(cc, args, func(path string, root *ir.Node) error {
		total := 0
		depth := 0
		byType := map[string]int{}
		var walk func(v *ir.Node, d int)
		walk = func(v *ir.Node, d int) {
			total++
			byType[v.Type.String()]++
			if d > depth {
				depth = d
			}
			for _, child := range v.Values {
				walk(child, d+1)
			}
		}
		walk(root, 0)

		fmt.Fprintf(cc.Out, "%s: %d nodes, max depth %d\n", path, total, depth)
		for _, t := range ir.Types() {
			if n := byType[t.String()]; n > 0 {
				fmt.Fprintf(cc.Out, "  %-8s %d\n", t.String(), n)
			}
		}
		return nil
	})
}
