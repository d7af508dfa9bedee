package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var relocateAddress string

func init() {
	cmd := newRelocateCmd()
	cmd.Flags().StringVarP(&relocateAddress, "address", "a", "", "New start address (hex)")
	_ = cmd.MarkFlagRequired("address")
	rootCmd.AddCommand(cmd)
}

func newRelocateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relocate <in> <out>",
		Short: "Shift an image so it starts at a new address",
		Long: `The relocate command moves every byte of an image by a uniform offset so
the lowest address becomes --address, preserving the relative layout, and
writes the result in the input's format.

Example:
  hexctl relocate boot.hex boot_high.hex --address 0x08000000
  hexctl relocate app.bin app.bin --address 0x100`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelocate(args)
		},
	}
	return cmd
}

func runRelocate(args []string) error {
	inPath, outPath := args[0], args[1]

	inKind, err := detectKind(inPath)
	if err != nil {
		return err
	}
	outKind, err := detectKind(outPath)
	if err != nil {
		return err
	}
	if inKind != outKind {
		return errors.New("relocate keeps the input format: the output extension must match")
	}

	newStart, err := parseHexAddr(relocateAddress)
	if err != nil {
		return err
	}

	printVerbose("Loading %s\n", inPath)
	im, err := loadImage(inPath, 0)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	if err := im.Relocate(newStart); err != nil {
		return fmt.Errorf("failed to relocate: %w", err)
	}

	if inKind == kindBin {
		err = im.WriteBinFile(outPath, 0xFF)
	} else {
		err = im.WriteHexFile(outPath)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	// Output as JSON if requested
	if jsonOut {
		return printJSON(map[string]interface{}{
			"input":   inPath,
			"output":  outPath,
			"start":   formatAddr(newStart),
			"success": true,
		})
	}

	printInfo("✓ Relocated %s to start at %s → %s\n", inPath, formatAddr(newStart), outPath)
	return nil
}
