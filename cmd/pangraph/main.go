// Package main provides the pangraph command-line tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:     "pangraph",
		Short:   "Build and query microbial pangenome graphs",
		Long:    "pangraph builds a pangenome graph from annotated genomes, stores it in DuckDB,\nand answers partition and region-border queries over it.",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newBuildCmd(&verbose))
	cmd.AddCommand(newInfoCmd(&verbose))
	cmd.AddCommand(newBordersCmd(&verbose))
	cmd.AddCommand(newConfigCmd())

	return cmd
}

func initConfig() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("cannot determine home directory: %w", err)
	}
	viper.SetConfigFile(configPath(home))
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; everything has defaults.
		if os.IsNotExist(err) {
			return nil
		}
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// newLogger builds the CLI logger: console encoding, debug level when
// verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	config.EncoderConfig.StacktraceKey = ""
	return config.Build()
}

// dbPath resolves the database path from the flag, falling back to the
// configured default.
func dbPath(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if configured := viper.GetString("db"); configured != "" {
		return configured, nil
	}
	return "", fmt.Errorf("no database given: pass --db or set the %q config key", "db")
}
