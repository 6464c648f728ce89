package main

import (
	"context"
	"fmt"

	"github.com/google/gops/agent"
	"github.com/scott-cotton/cli"

	"github.com/snappyview/snappy/app"
	"github.com/snappyview/snappy/config"
	"github.com/snappyview/snappy/server"
)

func serve(cfg *ServeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Serve.Parse(cc, args)
	if err != nil {
		cfg.Serve.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: serve takes no arguments", cli.ErrUsage)
	}

	log := serveLog()
	appCfg := app.Config{Log: log}
	if store, err := config.NewStore(); err == nil {
		appCfg.Store = store
	} else {
		log.Warn("state persistence disabled", "error", err)
	}
	spec := &server.Spec{App: appCfg, Log: log}

	ctx := context.Background()
	if cfg.Stdio {
		return server.ServeStdio(ctx, spec)
	}

	// Start gops agent for debugging
	if err := agent.Listen(agent.Options{}); err != nil {
		fmt.Fprintf(cc.Out, "gops agent failed: %v\n", err)
	}

	l, err := server.NewTCPListener(cfg.Addr, spec)
	if err != nil {
		return err
	}
	fmt.Fprintf(cc.Out, "snappy listening on %s\n", l.Addr())
	return l.Serve(ctx)
}
