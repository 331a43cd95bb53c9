package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"fixture-check/internal/logger"
	"fixture-check/internal/report"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	logLevel string
	noColor  bool
	Log      = logger.Nop()
)

var RootCmd = &cobra.Command{
	Use:   "fixture-check",
	Short: "Compare test fixture schemas with the live database",
	Long: `fixture-check compares the column definitions declared in test fixtures
with the tables of a live database and reports every difference.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		Log = logger.New(&logger.Config{
			Level:   viper.GetString("log.level"),
			Format:  viper.GetString("log.format"),
			NoColor: noColor,
			Output:  os.Stderr,
		})
		if used := viper.ConfigFileUsed(); used != "" {
			Log.With().Str("file", used).Logger().Debug("using config file")
		}
		return nil
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := RootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		report.NewConsole(os.Stderr, report.AutoColor(os.Stderr, noColor)).Error("%v", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Define flags
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./fixture-check.yaml)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	RootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	viper.BindPFlag("log.level", RootCmd.PersistentFlags().Lookup("log-level"))

	// Defaults (fallback if no config/flag)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("database.query_timeout", 30*time.Second)
	viper.SetDefault("fixtures.path", "tests/Fixture")
	viper.SetDefault("fixtures.plugin_path", "plugins/%s/tests/Fixture")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("fixture-check")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("FIXTURE_CHECK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// A missing config file is fine; a broken or explicitly named one is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Error reading config file:", err)
			os.Exit(1)
		}
	}
}
