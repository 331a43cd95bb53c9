package cmd

import (
	"fmt"
	"os"

	"fixture-check/internal/fixture"
	"fixture-check/internal/report"
	"fixture-check/internal/schema"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered fixtures and their tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		console := report.NewConsole(os.Stdout, report.AutoColor(os.Stdout, noColor))

		registry := fixture.NewRegistry()
		dir := fixtureDir(plugin)
		ids, err := registry.LoadDir(dir, plugin)
		if err != nil {
			return fmt.Errorf("failed to discover fixtures: %w", err)
		}
		if len(ids) == 0 {
			console.Info("No fixtures found in %s", dir)
			return nil
		}

		for _, id := range ids {
			fx, err := registry.Resolve(id)
			if err != nil {
				console.Error("%s: %v", id, err)
				continue
			}
			console.Info("%-30s -> %s (%d columns)", id, fx.Table, len(schema.Normalize(fx.Fields, schema.FromFixture)))
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&plugin, "plugin", "p", "", "List the fixtures of this plugin")
}
