package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hexkit/ihex"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "hexctl",
	Short: "Inspect and convert Intel HEX and binary image files",
	Long: `hexctl is a tool for inspecting, converting, and manipulating Intel HEX
and flat binary firmware images. It supports relocation, merging, pattern
search, and hex dumps over the sparse address space, with full record
validation on every load.`,
	Version: "0.1.0",
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// File typing and address parsing shared across commands

type fileKind int

const (
	kindHex fileKind = iota
	kindBin
)

func (k fileKind) String() string {
	if k == kindHex {
		return "hex"
	}
	return "bin"
}

// detectKind types a file by its extension, case-insensitive.
func detectKind(path string) (fileKind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hex":
		return kindHex, nil
	case ".bin":
		return kindBin, nil
	}
	return 0, fmt.Errorf("unsupported file extension on %q (expected .hex or .bin)", path)
}

// loadImage loads path per its extension. base places binary input; it is
// ignored for hex input.
func loadImage(path string, base uint32) (*ihex.Image, error) {
	kind, err := detectKind(path)
	if err != nil {
		return nil, err
	}
	if kind == kindBin {
		return ihex.OpenBin(path, base)
	}
	return ihex.OpenHex(path)
}

// parseHexAddr parses a 32-bit address written as hex, with or without a
// leading 0x.
func parseHexAddr(s string) (uint32, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: expected a 32-bit hex value", s)
	}
	return uint32(v), nil
}

// parseFillByte parses a gap fill byte written as hex.
func parseFillByte(s string) (byte, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(trimmed, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid fill byte %q: expected a hex value 00..FF", s)
	}
	return byte(v), nil
}

// formatAddr renders an address in the underscore-grouped form 0xHHHH_HHHH.
func formatAddr(a uint32) string {
	return fmt.Sprintf("0x%04X_%04X", a>>16, a&0xFFFF)
}
