package main

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hexkit/ihex"
)

var (
	searchHex   string
	searchText  string
	searchRegex string
)

func init() {
	cmd := newSearchCmd()
	cmd.Flags().StringVar(&searchHex, "hex", "", "Byte pattern as hex digits (e.g. DEADBEEF)")
	cmd.Flags().StringVar(&searchText, "text", "", "ASCII text pattern")
	cmd.Flags().StringVar(&searchRegex, "regex", "", "Regular expression over raw bytes")
	rootCmd.AddCommand(cmd)
}

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <file>",
		Short: "Find a byte, text, or regex pattern in an image",
		Long: `The search command scans an image's mapped bytes for a pattern and prints
every match address. Matching runs per contiguous block, so a pattern never
matches across a gap in the address space.

Exactly one of --hex, --text, or --regex selects the pattern.

Example:
  hexctl search firmware.hex --hex DEADBEEF
  hexctl search firmware.hex --text "boot"
  hexctl search firmware.bin --regex "v[0-9]+\.[0-9]+"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(args)
		},
	}
	return cmd
}

func runSearch(args []string) error {
	path := args[0]

	modes := 0
	for _, s := range []string{searchHex, searchText, searchRegex} {
		if s != "" {
			modes++
		}
	}
	if modes != 1 {
		return errors.New("exactly one of --hex, --text, or --regex is required")
	}

	var query ihex.Query
	switch {
	case searchHex != "":
		pattern, err := hex.DecodeString(searchHex)
		if err != nil {
			return fmt.Errorf("invalid hex pattern %q: %w", searchHex, err)
		}
		query = ihex.BytesQuery(pattern)
	case searchText != "":
		query = ihex.TextQuery(searchText)
	default:
		query = ihex.RegexQuery(searchRegex)
	}

	printVerbose("Loading image: %s\n", path)
	im, err := loadImage(path, 0)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	matches := im.Search(query)

	// Output as JSON if requested
	if jsonOut {
		addrs := make([]string, 0, len(matches))
		for _, m := range matches {
			addrs = append(addrs, formatAddr(m))
		}
		return printJSON(map[string]interface{}{
			"file":    path,
			"matches": addrs,
			"count":   len(matches),
		})
	}

	// Text output
	if len(matches) == 0 {
		printInfo("No matches found\n")
		return nil
	}
	printInfo("Found %d match(es):\n", len(matches))
	for _, m := range matches {
		printInfo("  %s\n", formatAddr(m))
	}
	return nil
}
