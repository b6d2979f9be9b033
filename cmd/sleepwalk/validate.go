package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sleepwalk/internal/level"
)

var validateCmd = &cobra.Command{
	Use:   "validate <dir>",
	Short: "Check a directory of level files",
	Long: `Parse and validate every level file in a directory.
All problems are reported, not just the first one.

Supported extensions: ` + strings.Join(level.FormatExtensions(), ", ") + `

Examples:
  sleepwalk validate ./my-levels`,
	Args: cobra.ExactArgs(1),
	Run:  runValidate,
}

func runValidate(_ *cobra.Command, args []string) {
	dir := args[0]
	entries, err := os.ReadDir(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !slices.Contains(level.FormatExtensions(), filepath.Ext(e.Name())) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)

	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no level files in %s\n", dir)
		os.Exit(1)
	}

	loader := level.NewLoader(dir)
	failed := 0
	for _, f := range files {
		lvl, err := loader.LoadFile(f)
		if err == nil {
			err = level.Validate(lvl)
		}
		if err != nil {
			failed++
			fmt.Printf("FAIL  %s\n      %s\n", filepath.Base(f), describe(err))
			continue
		}
		fmt.Printf("ok    %s  %q %dx%d\n", filepath.Base(f), lvl.Name, lvl.Width, lvl.Height)
	}

	fmt.Println()
	fmt.Printf("%d of %d levels valid\n", len(files)-failed, len(files))
	if failed > 0 {
		os.Exit(1)
	}
}

func describe(err error) string {
	var verr level.ValidationError
	if errors.As(err, &verr) {
		return verr.Code + ": " + verr.Message
	}
	return err.Error()
}
