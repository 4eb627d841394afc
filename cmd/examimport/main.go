// Package main provides the CLI entry point for examimport.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/ministudy/examimport-go/internal/config"
	"github.com/ministudy/examimport-go/pkg/examimport"
	"github.com/ministudy/examimport-go/pkg/examimport/dispatch"
	"github.com/ministudy/examimport-go/pkg/examimport/models"
	"github.com/ministudy/examimport-go/pkg/examimport/sink"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// errSubmissionsFailed makes the process exit with status 2.
var errSubmissionsFailed = errors.New("some exams were not submitted")

// cliFlags holds flag values before they are layered over the config.
type cliFlags struct {
	configPath string
	cfg        config.Config
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errSubmissionsFailed) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	fl := &cliFlags{cfg: config.Default()}
	rootCmd := &cobra.Command{
		Use:   "examimport [input.csv|input.xlsx|input.json]",
		Short: "Import exams from CSV, XLSX or JSON files",
		Long: `examimport rebuilds exams from a table where each row carries exam
fields, question fields or both, and submits every exam to the admin API,
a database or a JSON file.

Options are encoded in a single cell:
  "A:first:true|B:second:false"   explicit labels
  "first:true|second:false"       labels assigned A, B, ... by position`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, fl)
		},
		SilenceUsage: true,
	}

	f := rootCmd.Flags()
	flagCfg := &fl.cfg
	f.StringVar(&fl.configPath, "config", "", "YAML config file")
	f.StringVar(&flagCfg.Host, "host", flagCfg.Host, "Admin API base URL")
	f.StringVar(&flagCfg.Username, "username", flagCfg.Username, "Admin work number")
	f.StringVar(&flagCfg.Password, "password", "", "Admin password")
	f.DurationVar(&flagCfg.Timeout, "timeout", flagCfg.Timeout, "HTTP request timeout")
	f.StringVar((*string)(&flagCfg.Sink), "sink", string(flagCfg.Sink), "Destination: http, sql or dry-run")
	f.StringVar(&flagCfg.DBDriver, "db-driver", flagCfg.DBDriver, "Database driver for the sql sink: sqlite or postgres")
	f.StringVar(&flagCfg.DBDSN, "db-dsn", "", "Database DSN for the sql sink")
	f.StringVarP(&flagCfg.Output, "output", "o", "", "Dry-run output file (default: stdout)")
	f.BoolVar(&flagCfg.Pretty, "pretty", false, "Pretty-print dry-run JSON output")
	f.StringVar(&flagCfg.Format, "format", flagCfg.Format, "Input format: auto, csv, xlsx or json")
	f.StringVar(&flagCfg.Sheet, "sheet", "", "Worksheet to read from an xlsx file (default: first sheet)")
	f.StringVar(&flagCfg.Delimiter, "delimiter", "", `CSV delimiter (default: "," or tab for .tsv)`)
	f.StringVar(&flagCfg.Encoding, "encoding", flagCfg.Encoding, "CSV encoding: utf-8, gbk or gb18030")
	f.StringVar(&flagCfg.LogLevel, "log-level", flagCfg.LogLevel, "Log level: debug, info, warn or error")

	return rootCmd
}

func run(cmd *cobra.Command, args []string, fl *cliFlags) error {
	cfg, err := resolveConfig(cmd, fl)
	if err != nil {
		return err
	}
	log, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return err
	}

	delim, err := cfg.DelimiterRune()
	if err != nil {
		return err
	}
	opts := examimport.Options{
		Format:    examimport.Format(cfg.Format),
		Sheet:     cfg.Sheet,
		Delimiter: delim,
		Encoding:  cfg.Encoding,
	}

	// Reading happens before any sink is opened so bad input never
	// leaves a half-done import behind.
	exams, err := examimport.Load(args[0], opts, log)
	if err != nil {
		return err
	}

	ctx := context.Background()
	s, closeSink, err := openSink(ctx, cfg, cmd.OutOrStdout(), log)
	if err != nil {
		return err
	}

	sum := dispatch.New(sink.Validate(s), log).Run(ctx, exams)
	if err := closeSink(); err != nil {
		return fmt.Errorf("close sink: %w", err)
	}

	out := cmd.OutOrStdout()
	if cfg.Sink == config.SinkDryRun && cfg.Output == "" {
		out = cmd.ErrOrStderr()
	}
	printSummary(out, sum)

	if sum.Failed > 0 {
		return errSubmissionsFailed
	}
	return nil
}

// resolveConfig layers explicitly set flags over the file and environment.
func resolveConfig(cmd *cobra.Command, fl *cliFlags) (config.Config, error) {
	cfg, err := config.Load(fl.configPath)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	flagCfg := fl.cfg
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("host", func() { cfg.Host = flagCfg.Host })
	set("username", func() { cfg.Username = flagCfg.Username })
	set("password", func() { cfg.Password = flagCfg.Password })
	set("timeout", func() { cfg.Timeout = flagCfg.Timeout })
	set("sink", func() { cfg.Sink = flagCfg.Sink })
	set("db-driver", func() { cfg.DBDriver = flagCfg.DBDriver })
	set("db-dsn", func() { cfg.DBDSN = flagCfg.DBDSN })
	set("output", func() { cfg.Output = flagCfg.Output })
	set("pretty", func() { cfg.Pretty = flagCfg.Pretty })
	set("format", func() { cfg.Format = flagCfg.Format })
	set("sheet", func() { cfg.Sheet = flagCfg.Sheet })
	set("delimiter", func() { cfg.Delimiter = flagCfg.Delimiter })
	set("encoding", func() { cfg.Encoding = flagCfg.Encoding })
	set("log-level", func() { cfg.LogLevel = flagCfg.LogLevel })

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log, nil
}

// openSink builds the configured destination and a function releasing it.
func openSink(ctx context.Context, cfg config.Config, stdout io.Writer, log *logrus.Logger) (dispatch.Sink, func() error, error) {
	switch cfg.Sink {
	case config.SinkHTTP:
		client := sink.NewAdminClient(sink.AdminConfig{
			BaseURL:    cfg.Host,
			Username:   cfg.Username,
			Password:   cfg.Password,
			HTTPClient: &http.Client{Timeout: cfg.Timeout},
			Log:        log,
		})
		if err := client.Login(ctx); err != nil {
			return nil, nil, err
		}
		return client, func() error { return nil }, nil

	case config.SinkSQL:
		db, err := sink.OpenDB(ctx, sink.Driver(cfg.DBDriver), cfg.DBDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		return sink.NewSQLSink(db), db.Close, nil

	default:
		if cfg.Output == "" {
			js := sink.NewJSONSink(stdout, cfg.Pretty)
			return js, js.Close, nil
		}
		f, err := os.Create(cfg.Output)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create output: %w", err)
		}
		js := sink.NewJSONSink(f, cfg.Pretty)
		return js, func() error {
			if err := js.Close(); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		}, nil
	}
}

func printSummary(w io.Writer, sum models.Summary) {
	fmt.Fprintln(w)
	for _, r := range sum.Results {
		switch r.Outcome {
		case models.OutcomeSubmitted:
			fmt.Fprintf(w, "[ok]      %s (%d questions, id %s)\n", r.Title, r.Questions, r.Receipt.ID)
		case models.OutcomeSkipped:
			fmt.Fprintf(w, "[skipped] %s (no questions)\n", r.Title)
		case models.OutcomeFailed:
			fmt.Fprintf(w, "[failed]  %s (%d questions): %s\n", r.Title, r.Questions, r.Error)
		}
	}
	fmt.Fprintf(w, "\nImport finished: %d/%d submitted, %d skipped, %d failed, %d questions in total\n",
		sum.Submitted, sum.Groups, sum.Skipped, sum.Failed, sum.TotalQuestions)
}
