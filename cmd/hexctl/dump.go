package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	dumpStart  string
	dumpLength int
)

func init() {
	cmd := newDumpCmd()
	cmd.Flags().StringVarP(&dumpStart, "start", "s", "", "First address to dump (hex, default: lowest mapped)")
	cmd.Flags().IntVarP(&dumpLength, "length", "n", 256, "Number of addresses to dump")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Hex dump of an image window",
		Long: `The dump command prints a canonical hex dump of an address window, 16
bytes per row with an ASCII gutter. Addresses with no data behind them show
as -- so the sparse layout stays visible.

Example:
  hexctl dump firmware.hex
  hexctl dump firmware.hex --start 0x8000 --length 64`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args)
		},
	}
	return cmd
}

type dumpSpan struct {
	Addr string `json:"addr"`
	Data string `json:"data"`
}

func runDump(args []string) error {
	path := args[0]

	if dumpLength <= 0 {
		return errors.New("--length must be positive")
	}

	printVerbose("Loading image: %s\n", path)
	im, err := loadImage(path, 0)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	start := uint32(0)
	if dumpStart != "" {
		if start, err = parseHexAddr(dumpStart); err != nil {
			return err
		}
	} else {
		lo, ok := im.MinAddr()
		if !ok {
			printInfo("(image holds no data)\n")
			return nil
		}
		start = lo
	}

	cells := im.ReadRangeSafe(start, dumpLength)

	// Output as JSON if requested: the defined runs inside the window.
	if jsonOut {
		spans := make([]dumpSpan, 0)
		var data strings.Builder
		spanStart := uint32(0)
		for i, c := range cells {
			switch {
			case c.Defined && data.Len() == 0:
				spanStart = start + uint32(i)
				fmt.Fprintf(&data, "%02X", c.Value)
			case c.Defined:
				fmt.Fprintf(&data, "%02X", c.Value)
			case data.Len() > 0:
				spans = append(spans, dumpSpan{Addr: formatAddr(spanStart), Data: data.String()})
				data.Reset()
			}
		}
		if data.Len() > 0 {
			spans = append(spans, dumpSpan{Addr: formatAddr(spanStart), Data: data.String()})
		}
		return printJSON(map[string]interface{}{
			"file":  path,
			"start": formatAddr(start),
			"spans": spans,
		})
	}

	// Text output
	for row := 0; row < len(cells); row += 16 {
		rowEnd := min(row+16, len(cells))
		var hexCol, ascii strings.Builder
		for i := row; i < rowEnd; i++ {
			if i > row {
				hexCol.WriteByte(' ')
				if (i-row)%8 == 0 {
					hexCol.WriteByte(' ')
				}
			}
			c := cells[i]
			switch {
			case !c.Defined:
				hexCol.WriteString("--")
				ascii.WriteByte('.')
			case c.Value >= 0x20 && c.Value <= 0x7E:
				fmt.Fprintf(&hexCol, "%02X", c.Value)
				ascii.WriteByte(c.Value)
			default:
				fmt.Fprintf(&hexCol, "%02X", c.Value)
				ascii.WriteByte('.')
			}
		}
		printInfo("%s  %-48s  |%s|\n", formatAddr(start+uint32(row)), hexCol.String(), ascii.String())
	}

	return nil
}
