package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/bootstrap"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/config"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/ledger"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/logger"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/pricesource"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/profit"
)

// env is the state shared by subcommands once the root command has run.
type env struct {
	cfg    *config.Config
	store  ledger.Store
	logger logger.Logger
	close  []func()

	newPrices func(config.PriceConfig, logger.Logger) (pricesource.Source, func())
	now       profit.Clock
}

// newEnv returns an env that prices positions through Yahoo Finance.
func newEnv() *env {
	return &env{newPrices: bootstrap.NewPriceSource, now: time.Now}
}

type rootFlags struct {
	backend string
	dbPath  string
	csvPath string
	verbose bool
}

func cmdName() string {
	return filepath.Base(os.Args[0])
}

func newRootCmd(e *env) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   cmdName(),
		Short: "Investment profit ledger tool",
		Long: `A cli tool to record positions in the investment ledger and compute
per-owner profits from historical prices.

Configuration is read from the environment (and a .env file) like the
server; flags override the ledger location.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return e.setup(flags)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			e.teardown()
		},
	}

	root.PersistentFlags().StringVar(&flags.backend, "backend", "", "ledger backend: sqlite or csv (default from LEDGER_BACKEND)")
	root.PersistentFlags().StringVar(&flags.dbPath, "db", "", "SQLite ledger path (default from DB_PATH)")
	root.PersistentFlags().StringVar(&flags.csvPath, "csv", "", "CSV ledger path (default from LEDGER_CSV_PATH)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newAddCmd(e),
		newSellCmd(e),
		newListCmd(e),
		newReportCmd(e),
	)
	return root
}

func (e *env) setup(flags *rootFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flags.backend != "" {
		cfg.Ledger.Backend = flags.backend
	}
	if flags.dbPath != "" {
		cfg.Ledger.DBPath = flags.dbPath
	}
	if flags.csvPath != "" {
		cfg.Ledger.CSVPath = flags.csvPath
	}

	level := logger.Warn
	if flags.verbose {
		level = logger.Debug
	}
	zapLogger, loggerSync, err := logger.NewZapLogger(level, "stderr")
	if err != nil {
		return err
	}
	e.close = append(e.close, loggerSync)

	store, db, err := bootstrap.OpenLedger(cfg.Ledger)
	if err != nil {
		return fmt.Errorf("can't open ledger: %w", err)
	}
	if db != nil {
		e.close = append(e.close, func() { db.Close() })
	}

	e.cfg = cfg
	e.store = store
	e.logger = zapLogger
	return nil
}

func (e *env) teardown() {
	for i := len(e.close) - 1; i >= 0; i-- {
		e.close[i]()
	}
	e.close = nil
}
