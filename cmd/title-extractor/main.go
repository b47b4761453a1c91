// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the title-extractor CLI.
// Running the binary with no arguments reads game_analysis_progress.pkl
// and writes its sorted titles to game_titles.txt.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/title-extractor/internal/extract"
	"github.com/pdiddy/title-extractor/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built in PersistentPreRunE; commands log through it.
var logger = zap.NewNop()

// rootCmd is the base command. On its own it performs the extraction.
var rootCmd = &cobra.Command{
	Use:   "title-extractor",
	Short: "Extract sorted game titles from a game analysis progress file",
	Long: `title-extractor reads a pickled game analysis progress record, takes the
keys of its title_examples field, sorts them, and writes them to a text
file with one title per line.

Run without a subcommand to extract with the configured (or default)
paths: game_analysis_progress.pkl -> game_titles.txt. Failures are
reported on stdout and the process exits 0 unless --strict is set.

The catalog subcommands keep a SQLite index of titles across runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(viper.GetBool("verbose"))
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file", zap.String("path", f))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runExtract,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./title-extractor.yaml or ~/.config/title-extractor/config.yaml)")
	pf.String("input", types.DefaultInput, "progress record to read")
	pf.String("output", types.DefaultOutput, "text file to write, one title per line")
	pf.String("report", "", "write a run summary to this file (YAML, or JSON for .json)")
	pf.Bool("strict", false, "exit non-zero when extraction fails")
	pf.BoolP("verbose", "v", false, "enable debug logging on stderr")

	bindRootFlags()
}

// bindRootFlags connects the root persistent flags to their config keys.
func bindRootFlags() {
	pf := rootCmd.PersistentFlags()
	for _, key := range []string{"input", "output", "report", "strict", "verbose"} {
		_ = viper.BindPFlag(key, pf.Lookup(key))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("title-extractor")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "title-extractor"))
		}
	}

	viper.SetEnvPrefix("TITLE_EXTRACTOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "warning: reading config:", err)
		}
	}
}

// newLogger builds the stderr logger. Only warnings and errors are
// shown unless verbose is set.
func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	var strict *extract.StrictError
	if errors.As(err, &strict) {
		os.Exit(extract.ExitCode(strict.Err))
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
