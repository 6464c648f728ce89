package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"

	"github.com/snappyview/snappy/ir"
	"github.com/snappyview/snappy/search"
)

func runSearch(cfg *SearchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Search.Parse(cc, args)
	if err != nil {
		cfg.Search.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: search requires a query", cli.ErrUsage)
	}
	query := args[0]

	f := search.Flags{
		Keys:          cfg.Keys,
		Values:        cfg.Values,
		Paths:         cfg.Paths,
		CaseSensitive: cfg.CaseSensitive,
		Regex:         cfg.Regex,
		WholeWord:     cfg.WholeWord,
	}
	// nothing toggled means search everything
	if !f.Keys && !f.Values && !f.Paths {
		f.Keys, f.Values, f.Paths = true, true, true
	}
	limit := cfg.Limit
	if limit <= 0 {
		limit = 100
	}

	return eachDocFile(cc, args[1:], func(path string, root *ir.Node) error {
		resp := search.Bulk(root, query, f, 0, limit)
		for _, r := range resp.Results {
			pointer := r.Node.Pointer
			if pointer == "" {
				pointer = "/"
			}
			line := fmt.Sprintf("%s\t%s\t%s", color.CyanString(pointer), r.MatchType, r.MatchText)
			if r.Context != nil {
				line += "\t" + *r.Context
			}
			fmt.Fprintln(cc.Out, line)
		}
		if resp.HasMore {
			fmt.Fprintf(cc.Out, "... %d of %d matches shown\n", len(resp.Results), resp.TotalCount)
		}
		return nil
	})
}
