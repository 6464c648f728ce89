package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/snappyview/snappy/encode"
)

type MainConfig struct {
	Color   bool `cli:"name=color desc='encode with color'"`
	Compact bool `cli:"name=wire desc='output in compact format'"`

	Main *cli.Command
}

// encOpts picks indentation and colors for w. Colors go on when
// requested explicitly or when w is a terminal.
func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	var res []encode.EncodeOption
	if !cfg.Compact {
		res = append(res, encode.EncodeIndent("  "))
	}
	if cfg.Color {
		res = append(res, encode.EncodeColors(encode.NewColors()))
		return res
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return res
	}
	f, ok := w.(*os.File)
	if !ok {
		return res
	}
	if isatty.IsTerminal(f.Fd()) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

type ViewConfig struct {
	*MainConfig

	View *cli.Command
}

type GetConfig struct {
	*MainConfig

	Get *cli.Command
}

type SearchConfig struct {
	*MainConfig

	Keys          bool `cli:"name=k aliases=keys desc='match object keys'"`
	Values        bool `cli:"name=v aliases=values desc='match scalar values'"`
	Paths         bool `cli:"name=p aliases=paths desc='match JSON pointers'"`
	CaseSensitive bool `cli:"name=cs desc='case sensitive matching'"`
	Regex         bool `cli:"name=re aliases=regex desc='treat query as a regular expression'"`
	WholeWord     bool `cli:"name=w aliases=word desc='whole word matching'"`
	Limit         int  `cli:"name=n desc='maximum results to print (default 100)'"`

	Search *cli.Command
}

type QueryConfig struct {
	*MainConfig

	Query *cli.Command
}

type ServeConfig struct {
	*MainConfig

	Stdio bool   `cli:"name=stdio desc='serve a single session on stdin/stdout'"`
	Addr  string `cli:"name=addr desc='TCP listen address' default=localhost:9321"`

	Serve *cli.Command
}

type StatsConfig struct {
	*MainConfig

	Stats *cli.Command
}
