// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/title-extractor/internal/extract"
	"github.com/pdiddy/title-extractor/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Write the sorted titles of a progress record to a text file",
	Long: `Extract reads the progress record, collects the keys of its
title_examples field, sorts them in byte order, and replaces the output
file with one title per line. This is what the bare command does.`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func extractConfig() types.ExtractConfig {
	return types.ExtractConfig{
		InputPath:  viper.GetString("input"),
		OutputPath: viper.GetString("output"),
		ReportPath: viper.GetString("report"),
		Strict:     viper.GetBool("strict"),
	}
}

func runExtract(cmd *cobra.Command, args []string) error {
	x := extract.New(extractConfig(), logger)
	cfg := x.Config()

	res, err := x.Run(commandContext(cmd))
	extract.PrintStatus(cmd.OutOrStdout(), res, err)

	if cfg.ReportPath != "" {
		if rerr := extract.WriteReport(cfg.ReportPath, extract.NewReport(res, err)); rerr != nil {
			logger.Warn("run report not written", zap.String("path", cfg.ReportPath), zap.Error(rerr))
		}
	}

	if err != nil {
		logger.Debug("extraction failed",
			zap.String("kind", string(extract.KindOf(err))),
			zap.Error(err))
		if cfg.Strict {
			return &extract.StrictError{Err: err}
		}
	}
	return nil
}

// commandContext returns the command's context, or Background when the
// command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
