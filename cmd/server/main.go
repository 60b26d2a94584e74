package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/berrnk/bdz1/pkg/config"
	"github.com/berrnk/bdz1/pkg/importer"
	"github.com/berrnk/bdz1/pkg/models"
	"github.com/berrnk/bdz1/pkg/parser"
	"github.com/berrnk/bdz1/pkg/server"
	"github.com/berrnk/bdz1/pkg/service"
	"github.com/berrnk/bdz1/pkg/store"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "finacc",
	})

	flags := pflag.NewFlagSet("finacc-server", pflag.ExitOnError)
	cfgFile := flags.StringP("config", "c", "", "Config file (default is config.yaml)")
	flags.String("addr", "0.0.0.0:3000", "Listen address")
	flags.String("data-dir", ".", "Directory holding the ledger")
	flags.String("format", "yaml", "Ledger document format")
	flags.String("log-level", "info", "Log level")
	seed := flags.String("seed", "", "Ledger document loaded at startup")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Build(*cfgFile, flags)
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}
	logger.SetLevel(cfg.Level())

	s := store.New()
	ledger := service.New(s, models.NewFactory(nil), logger)
	if *seed != "" {
		report := importer.New(s, parser.New(logger), logger).ImportFile(*seed, "")
		if report.Failed() {
			logger.Fatal("failed to load seed document", "path", *seed, "reason", report.Failure)
		}
		ledger.SyncIdentifiers()
	}

	srv := server.New(cfg, logger, ledger)
	logger.Info("starting server", "addr", cfg.Server.Addr)
	if err := srv.Start(cfg.Server.Addr); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
