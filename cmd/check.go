package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"sync/atomic"

	"fixture-check/internal/checker"
	"fixture-check/internal/dialect"
	"fixture-check/internal/fixture"
	"fixture-check/internal/introspect"
	"fixture-check/internal/report"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	connection   string
	plugin       string
	fixtureIDs   []string
	strict       bool
	showProgress bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check fixtures against the live database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		useColor := report.AutoColor(os.Stdout, noColor)
		console := report.NewConsole(os.Stdout, useColor)

		configs, err := LoadDBConfigs()
		if err != nil {
			return err
		}
		config, err := SelectDBConfig(configs, connection)
		if err != nil {
			return err
		}

		registry := fixture.NewRegistry()
		dir := fixtureDir(plugin)
		ids, err := discoverFixtures(registry, dir, plugin, fixtureIDs)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			console.Info("No fixtures found in %s", dir)
			return nil
		}

		timeout := viper.GetDuration("database.query_timeout")
		db, err := config.Open(ctx, timeout)
		if err != nil {
			return err
		}
		defer db.Close()

		d := dialect.GetDialect(config.Driver)
		Log.With().Str("connection", config.Name).Str("dialect", d.Name()).Logger().Info("connected")

		live, err := introspect.New(ctx, db, d, config.Schema,
			introspect.WithTimeout(timeout),
			introspect.WithLogger(Log))
		if err != nil {
			return err
		}

		pairs := make([]checker.Pair, len(ids))
		for i, id := range ids {
			pairs[i] = checker.Pair{Fixture: id}
		}

		cfg := checker.Config{
			Ignore: viper.GetStringSlice("fixture_check.ignore"),
			Strict: strict || viper.GetBool("fixture_check.strict"),
		}
		opts := []checker.Option{checker.WithLogger(Log)}

		// The bar redraws the terminal, so report lines are held back until
		// it stops.
		var out io.Writer = os.Stdout
		var held *bytes.Buffer
		if showProgress {
			held = &bytes.Buffer{}
			out = held

			uiprogress.Start()
			bar := uiprogress.AddBar(len(pairs)).AppendCompleted().PrependElapsed()
			var current atomic.Value
			current.Store("")
			bar.PrependFunc(func(b *uiprogress.Bar) string {
				return fmt.Sprintf("Checking %-24s", current.Load())
			})
			opts = append(opts, checker.WithProgress(func(done, total int, r checker.MismatchReport) {
				current.Store(r.Fixture)
				bar.Incr()
			}))
		}
		opts = append(opts, checker.WithReporter(report.NewConsole(out, useColor)))

		summary := checker.New(cfg, registry, live, opts...).Run(ctx, pairs)

		if showProgress {
			uiprogress.Stop()
			io.Copy(os.Stdout, held)
		}

		if err := runError(summary, len(pairs)); err != nil {
			return err
		}
		console.Success("No fixture differences found (%d checked, %d skipped, %d ignored)",
			len(summary.Reports)-summary.Skipped-len(summary.Ignored), summary.Skipped, len(summary.Ignored))
		return nil
	},
}

// discoverFixtures registers the fixtures found in dir and returns the
// identifiers to check. With an explicit list a missing directory registers
// nothing, so each listed fixture fails on its own.
func discoverFixtures(registry *fixture.Registry, dir, plugin string, explicit []string) ([]string, error) {
	discovered, err := registry.LoadDir(dir, plugin)
	if err != nil && (len(explicit) == 0 || !errors.Is(err, fs.ErrNotExist)) {
		return nil, fmt.Errorf("failed to discover fixtures: %w", err)
	}
	if len(explicit) > 0 {
		return qualify(explicit, plugin), nil
	}
	return discovered, nil
}

// runError is the command result of a finished run. An interrupted run
// always fails.
func runError(summary checker.RunSummary, total int) error {
	err := summary.Err()
	if !summary.Canceled {
		return err
	}
	if err == nil {
		err = context.Canceled
	}
	return fmt.Errorf("run canceled after %d of %d fixtures: %w", len(summary.Reports), total, err)
}

// qualify scopes bare fixture names to plugin.
func qualify(ids []string, plugin string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if plugin != "" && !strings.Contains(id, ".") {
			id = fixture.Identifier(plugin, id)
		}
		out = append(out, id)
	}
	return out
}

func init() {
	RootCmd.AddCommand(checkCmd)

	// CLI Flags
	checkCmd.Flags().StringVarP(&connection, "connection", "c", defaultConnection, "Database connection name from config")
	checkCmd.Flags().StringVarP(&plugin, "plugin", "p", "", "Check the fixtures of this plugin")
	checkCmd.Flags().StringSliceVarP(&fixtureIDs, "fixtures", "f", []string{}, "Specific fixtures to check (comma-separated)")
	checkCmd.Flags().BoolVar(&strict, "strict", false, "Fail when a fixture or table cannot be checked")
	checkCmd.Flags().BoolVar(&showProgress, "progress", false, "Show a progress bar")
}
