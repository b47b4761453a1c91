// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/title-extractor/internal/catalog"
	"github.com/pdiddy/title-extractor/internal/progress"
	"github.com/pdiddy/title-extractor/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the title catalog (store, list, runs, export)",
	Long: `Catalog keeps a local SQLite index of every title seen in progress
records, with first and last sighting times and a history of ingest runs.`,
}

// --- store subcommand ---

var catalogStoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Ingest the titles of the progress record into the catalog",
	Args:  cobra.NoArgs,
	RunE:  runCatalogStore,
}

func runCatalogStore(cmd *cobra.Command, args []string) error {
	input := viper.GetString("input")
	if input == "" {
		input = types.DefaultInput
	}

	rec, err := progress.Load(input)
	if err != nil {
		return err
	}

	store, err := catalog.NewStore(catalogConfig(), logger)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Ingest(commandContext(cmd), input, rec, cmd.OutOrStdout())
	return err
}

// --- list subcommand ---

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog titles in sorted order",
	Args:  cobra.NoArgs,
	RunE:  runCatalogList,
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	match, _ := cmd.Flags().GetString("match")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := catalog.NewStore(catalogConfig(), logger)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(commandContext(cmd), catalog.ListOptions{Match: match})
	if err != nil {
		return err
	}
	return formatListOutput(cmd.OutOrStdout(), entries, jsonOutput)
}

func formatListOutput(w io.Writer, entries []types.CatalogEntry, jsonOutput bool) error {
	if jsonOutput {
		if entries == nil {
			entries = []types.CatalogEntry{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No titles found.")
		return nil
	}

	fmt.Fprintf(w, "%-50s  %-6s  %-5s  %s\n", "Title", "Kind", "Seen", "Last seen")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, e := range entries {
		title := e.Title
		if len([]rune(title)) > 50 {
			title = string([]rune(title)[:47]) + "..."
		}
		fmt.Fprintf(w, "%-50s  %-6s  %-5d  %s\n",
			title, e.PayloadKind, e.SeenCount, e.LastSeen.Format("2006-01-02 15:04"))
	}
	return nil
}

// --- runs subcommand ---

var catalogRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show catalog ingest history, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := catalog.NewStore(catalogConfig(), logger)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.Runs(commandContext(cmd))
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(w, "No runs recorded.")
			return nil
		}
		for _, r := range runs {
			fmt.Fprintf(w, "%s  %s  %5d  %s\n", r.At.Format("2006-01-02 15:04:05"), r.ID, r.Count, r.Input)
		}
		return nil
	},
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Export the catalog to a YAML or JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := catalog.NewStore(catalogConfig(), logger)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Export(commandContext(cmd), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported catalog to %s\n", args[0])
		return nil
	},
}

func catalogConfig() types.CatalogConfig {
	cfg := types.DefaultCatalogConfig()
	if db := viper.GetString("catalog.db"); db != "" {
		cfg.DBPath = db
	}
	cfg.MaxResults = viper.GetInt("catalog.max_results")
	return cfg
}

func init() {
	catalogCmd.PersistentFlags().String("db", types.DefaultCatalogDB, "catalog SQLite database")
	_ = viper.BindPFlag("catalog.db", catalogCmd.PersistentFlags().Lookup("db"))

	catalogListCmd.Flags().String("match", "", "only titles containing this text (case-insensitive)")
	catalogListCmd.Flags().Int("max-results", 0, "maximum number of titles (0 = no limit)")
	catalogListCmd.Flags().Bool("json", false, "output results as JSON")
	_ = viper.BindPFlag("catalog.max_results", catalogListCmd.Flags().Lookup("max-results"))

	catalogCmd.AddCommand(catalogStoreCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogRunsCmd)
	catalogCmd.AddCommand(catalogExportCmd)
	rootCmd.AddCommand(catalogCmd)
}
