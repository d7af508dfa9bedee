package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Validate an image file and report basic metadata",
		Long: `The info command loads an Intel HEX or flat binary file, validating every
record along the way, and displays the image layout: data size, address
range, and the contiguous blocks it decomposes into.

Example:
  hexctl info firmware.hex
  hexctl info firmware.bin --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

type blockInfo struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Length int    `json:"length"`
}

type imageInfo struct {
	File        string      `json:"file"`
	SourceSize  int         `json:"source_size"`
	DataBytes   int         `json:"data_bytes"`
	MinAddr     string      `json:"min_addr,omitempty"`
	MaxAddr     string      `json:"max_addr,omitempty"`
	StartRecord bool        `json:"start_record"`
	Blocks      []blockInfo `json:"blocks"`
}

func runInfo(args []string) error {
	path := args[0]

	printVerbose("Loading image: %s\n", path)

	im, err := loadImage(path, 0)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	info := imageInfo{
		File:        path,
		SourceSize:  im.SourceSize,
		DataBytes:   im.NumBytes(),
		StartRecord: im.StartRecord() != nil,
		Blocks:      make([]blockInfo, 0, im.NumBlocks()),
	}
	for _, b := range im.Blocks() {
		info.Blocks = append(info.Blocks, blockInfo{
			Start:  formatAddr(b.Addr),
			End:    formatAddr(b.Addr + uint32(len(b.Data)) - 1),
			Length: len(b.Data),
		})
	}
	if lo, ok := im.MinAddr(); ok {
		hi, _ := im.MaxAddr()
		info.MinAddr = formatAddr(lo)
		info.MaxAddr = formatAddr(hi)
	}

	// Output as JSON if requested
	if jsonOut {
		return printJSON(info)
	}

	// Text output
	p := message.NewPrinter(language.English)

	printInfo("\nImage Information:\n")
	printInfo("  File: %s\n", path)
	printInfo("  Source size: %s bytes\n", p.Sprintf("%d", info.SourceSize))
	printInfo("  Data bytes: %s\n", p.Sprintf("%d", info.DataBytes))
	printInfo("  Blocks: %d\n", len(info.Blocks))
	if info.MinAddr != "" {
		printInfo("  Address range: %s .. %s\n", info.MinAddr, info.MaxAddr)
	} else {
		printInfo("  Address range: (no data)\n")
	}
	if info.StartRecord {
		printInfo("  Start record: present\n")
	} else {
		printInfo("  Start record: none\n")
	}

	if len(info.Blocks) > 0 {
		printInfo("\nBlocks:\n")
		printInfo("  %-4s %-13s %-13s %s\n", "#", "Start", "End", "Length")
		for i, b := range info.Blocks {
			printInfo("  %-4d %-13s %-13s %s\n", i, b.Start, b.End, p.Sprintf("%d", b.Length))
		}
	}

	return nil
}
