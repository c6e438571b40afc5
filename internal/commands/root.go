package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lachiem1/tallyUp/internal/auth"
	"github.com/lachiem1/tallyUp/internal/buildinfo"
	"github.com/lachiem1/tallyUp/internal/config"
	"github.com/lachiem1/tallyUp/internal/logging"
	"github.com/lachiem1/tallyUp/internal/qbapi"
	"github.com/lachiem1/tallyUp/internal/source"
	"github.com/lachiem1/tallyUp/internal/tui"
)

var (
	loadToken   = auth.LoadToken
	saveToken   = auth.SaveToken
	removeToken = auth.RemoveToken
	runTUI      = tui.Run
)

// app carries the global flags and the resolved runtime for one invocation.
type app struct {
	configPath string
	csvPath    string
	sourceName string

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "tallyup",
		Short:   "Track open and paid invoices per customer",
		Long:    "tallyup loads an invoice export or a QuickBooks company and shows what each customer still owes.",
		Version: buildinfo.String(),
		Args:    cobra.NoArgs,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			defer a.close()
			return a.runInteractive()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	flags.StringVar(&a.csvPath, "csv", "", "invoice CSV export to load")
	flags.StringVar(&a.sourceName, "source", "", "data source: csv or quickbooks")

	rootCmd.AddCommand(newSummaryCommand(a))
	rootCmd.AddCommand(newExportCommand(a))
	rootCmd.AddCommand(newAuthCommand(a))

	return rootCmd
}

// setup resolves config, applies flags and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	path := a.configPath
	explicit := cmd.Flags().Changed("config")
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Resolve(path, explicit)
	if err != nil {
		return err
	}
	if a.csvPath != "" {
		cfg.CSVPath = a.csvPath
		if a.sourceName == "" {
			cfg.Source = string(source.KindCSV)
		}
	}
	if a.sourceName != "" {
		cfg.Source = a.sourceName
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogOptions())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	a.logger.Debug("config resolved",
		zap.String("path", path),
		zap.String("source", cfg.Source),
		zap.String("command", cmd.CommandPath()),
	)
	return nil
}

func (a *app) close() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) csvSource() source.Source {
	if a.cfg.CSVPath == "" {
		return nil
	}
	return source.NewCSVFile(a.cfg.CSVPath, a.logger)
}

func (a *app) quickBooksClient() (*qbapi.Client, error) {
	qb := a.cfg.QuickBooks
	if qb.RealmID == "" {
		return nil, errors.New("QuickBooks realm id is not configured")
	}
	token, err := loadToken()
	if err != nil {
		return nil, err
	}
	return qbapi.NewWithBaseURL(token, qb.RealmID, qb.BaseURL,
		qbapi.WithTimeout(qb.Timeout),
		qbapi.WithMinorVersion(qb.MinorVersion),
		qbapi.WithLogger(a.logger),
	), nil
}

func (a *app) quickBooksSource() (source.Source, error) {
	client, err := a.quickBooksClient()
	if err != nil {
		return nil, err
	}
	return source.NewQuickBooks(client, a.cfg.QuickBooks.RealmID, a.cfg.QuickBooks.Timeout, a.logger), nil
}

// activeSource returns the configured source for one-shot commands.
func (a *app) activeSource() (source.Source, error) {
	switch a.cfg.SourceKind() {
	case source.KindQuickBooks:
		return a.quickBooksSource()
	default:
		src := a.csvSource()
		if src == nil {
			return nil, errors.New("no CSV file given; pass --csv or set csv_path in the config")
		}
		return src, nil
	}
}

func (a *app) runInteractive() error {
	opts := tui.Options{
		CSV:    a.csvSource(),
		Active: a.cfg.SourceKind(),
		Logger: a.logger,
	}

	// QuickBooks stays optional until it is the starting source.
	if a.cfg.QuickBooks.RealmID != "" || opts.Active == source.KindQuickBooks {
		qb, err := a.quickBooksSource()
		if err != nil {
			if opts.Active == source.KindQuickBooks {
				return fmt.Errorf("quickbooks source: %w", err)
			}
			a.logger.Warn("quickbooks source unavailable", zap.Error(err))
		} else {
			opts.QuickBooks = qb
		}
	}

	a.logger.Info("starting session", zap.String("source", string(opts.Active)))
	return runTUI(opts)
}
