package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/userdesk/internal/buildinfo"
	"github.com/dmitrijs2005/userdesk/internal/client/cli"
	"github.com/dmitrijs2005/userdesk/internal/client/config"
	"github.com/dmitrijs2005/userdesk/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}
	logger := logging.NewTextLogger(os.Stderr, level)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
