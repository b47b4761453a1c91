// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdiddy/title-extractor/internal/extract"
	"github.com/pdiddy/title-extractor/internal/progress/progresstest"
	"github.com/pdiddy/title-extractor/pkg/types"
)

// setup resets global CLI state and returns a scratch directory.
func setup(t *testing.T) string {
	t.Helper()
	logger = zap.NewNop()
	viper.Reset()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() {
		viper.Reset()
		color.NoColor = prev
	})
	return t.TempDir()
}

func testCommand() (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	return cmd, &out
}

func TestRunExtract(t *testing.T) {
	dir := setup(t)
	in := progresstest.WriteRecord(t, dir, "progress.pkl", progresstest.Titles("Zelda", "Amnesia", "amnesia"))
	out := filepath.Join(dir, "titles.txt")
	report := filepath.Join(dir, "report.yaml")
	viper.Set("input", in)
	viper.Set("output", out)
	viper.Set("report", report)

	cmd, buf := testCommand()
	require.NoError(t, runExtract(cmd, nil))

	assert.Equal(t, "Successfully extracted 3 game titles to "+out+"\n", buf.String())
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "Amnesia\nZelda\namnesia\n", string(data))

	rep, err := extract.ReadReport(report)
	require.NoError(t, err)
	assert.Equal(t, types.RunSucceeded, rep.Status)
	assert.Equal(t, 3, rep.Count)
}

func TestRunExtractMissingInput(t *testing.T) {
	t.Run("lenient by default", func(t *testing.T) {
		dir := setup(t)
		viper.Set("input", filepath.Join(dir, "nope.pkl"))
		viper.Set("output", filepath.Join(dir, "titles.txt"))

		cmd, buf := testCommand()
		require.NoError(t, runExtract(cmd, nil))
		assert.Contains(t, buf.String(), "file not found")

		_, err := os.Stat(filepath.Join(dir, "titles.txt"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("strict", func(t *testing.T) {
		dir := setup(t)
		viper.Set("input", filepath.Join(dir, "nope.pkl"))
		viper.Set("output", filepath.Join(dir, "titles.txt"))
		viper.Set("strict", true)

		cmd, buf := testCommand()
		err := runExtract(cmd, nil)
		require.Error(t, err)

		var strict *extract.StrictError
		require.True(t, errors.As(err, &strict))
		assert.Equal(t, extract.ExitNotFound, extract.ExitCode(strict.Err))
		assert.Equal(t, 1, strings.Count(buf.String(), "\n"), "status is printed once")
	})
}

func TestRunExtractMalformedStrict(t *testing.T) {
	dir := setup(t)
	in := progresstest.WriteRecord(t, dir, "progress.pkl", map[string]any{"other": 1})
	report := filepath.Join(dir, "report.json")
	viper.Set("input", in)
	viper.Set("output", filepath.Join(dir, "titles.txt"))
	viper.Set("report", report)
	viper.Set("strict", true)

	cmd, buf := testCommand()
	err := runExtract(cmd, nil)
	require.Error(t, err)
	assert.Equal(t, extract.ExitInvalidInput, extract.ExitCode(err))
	assert.True(t, strings.HasPrefix(buf.String(), "An error occurred: "))

	rep, err := extract.ReadReport(report)
	require.NoError(t, err)
	assert.Equal(t, types.RunFailed, rep.Status)
	assert.Equal(t, extract.KindMissingField, rep.ErrorKind)
}

func TestExecuteRoot(t *testing.T) {
	dir := setup(t)
	bindRootFlags()
	in := progresstest.WriteRecord(t, dir, "progress.pkl", progresstest.Titles("Halo", "Fable"))
	out := filepath.Join(dir, "titles.txt")

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"--input", in, "--output", out})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	assert.Equal(t, "Successfully extracted 2 game titles to "+out+"\n", buf.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "Fable\nHalo\n", string(data))
}

func TestCatalogCommands(t *testing.T) {
	dir := setup(t)
	in := progresstest.WriteRecord(t, dir, "progress.pkl", progresstest.Titles("Halo", "Fable", "halo wars"))
	viper.Set("input", in)
	viper.Set("catalog.db", filepath.Join(dir, "titles.db"))

	cmd, buf := testCommand()
	require.NoError(t, runCatalogStore(cmd, nil))
	assert.Equal(t, "added: 3, updated: 0, total: 3\n", buf.String())

	listCmd, listBuf := testCommand()
	listCmd.Flags().Bool("json", false, "")
	listCmd.Flags().String("match", "", "")
	require.NoError(t, listCmd.Flags().Set("json", "true"))
	require.NoError(t, listCmd.Flags().Set("match", "halo"))
	require.NoError(t, runCatalogList(listCmd, nil))

	var entries []types.CatalogEntry
	require.NoError(t, json.Unmarshal(listBuf.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "Halo", entries[0].Title)
	assert.Equal(t, "halo wars", entries[1].Title)
	assert.Equal(t, "dict", entries[0].PayloadKind)
}

func TestCatalogStoreMissingInput(t *testing.T) {
	dir := setup(t)
	viper.Set("input", filepath.Join(dir, "nope.pkl"))
	viper.Set("catalog.db", filepath.Join(dir, "titles.db"))

	cmd, _ := testCommand()
	err := runCatalogStore(cmd, nil)
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestFormatListOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, formatListOutput(&buf, nil, false))
	assert.Equal(t, "No titles found.\n", buf.String())

	buf.Reset()
	require.NoError(t, formatListOutput(&buf, nil, true))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	long := strings.Repeat("Tom Clancy's ", 6)
	require.NoError(t, formatListOutput(&buf, []types.CatalogEntry{{Title: long, PayloadKind: "dict", SeenCount: 2}}, false))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[2], "...")
	assert.NotContains(t, lines[2], long)
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger(false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.InfoLevel))
	assert.True(t, l.Core().Enabled(zap.WarnLevel))

	l, err = newLogger(true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))
}
