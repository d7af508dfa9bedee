package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	convertAddress string
	convertGapFill string
)

func init() {
	cmd := newConvertCmd()
	cmd.Flags().StringVarP(&convertAddress, "address", "a", "", "Load address for binary input (hex)")
	cmd.Flags().StringVarP(&convertGapFill, "gap-fill", "g", "", "Fill byte for gaps in binary output (hex, default FF)")
	rootCmd.AddCommand(cmd)
}

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert between Intel HEX and flat binary",
		Long: `The convert command converts an Intel HEX file to a flat binary or a flat
binary to Intel HEX. Directions are inferred from the file extensions.

Binary input carries no addresses, so --address is required to place it.
Binary output flattens the sparse image, so gaps between blocks are written
as the --gap-fill byte.

Example:
  hexctl convert firmware.hex firmware.bin
  hexctl convert firmware.hex firmware.bin --gap-fill 00
  hexctl convert firmware.bin firmware.hex --address 0x8000`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(args)
		},
	}
	return cmd
}

func runConvert(args []string) error {
	inPath, outPath := args[0], args[1]

	inKind, err := detectKind(inPath)
	if err != nil {
		return err
	}
	outKind, err := detectKind(outPath)
	if err != nil {
		return err
	}
	if inKind == outKind {
		return fmt.Errorf("nothing to convert: %s and %s are both %s files", inPath, outPath, inKind)
	}
	if inKind == kindHex && convertAddress != "" {
		return errors.New("--address applies only to binary input")
	}
	if outKind == kindHex && convertGapFill != "" {
		return errors.New("--gap-fill applies only to binary output")
	}

	var base uint32
	if inKind == kindBin {
		if convertAddress == "" {
			return errors.New("binary input requires --address to place the data")
		}
		if base, err = parseHexAddr(convertAddress); err != nil {
			return err
		}
	}

	fill := byte(0xFF)
	if convertGapFill != "" {
		if fill, err = parseFillByte(convertGapFill); err != nil {
			return err
		}
	}

	printVerbose("Loading %s\n", inPath)
	im, err := loadImage(inPath, base)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	printVerbose("Writing %s\n", outPath)
	if outKind == kindBin {
		err = im.WriteBinFile(outPath, fill)
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
			"bytes":   im.NumBytes(),
			"success": true,
		})
	}

	printInfo("✓ Wrote %s (%d data bytes)\n", outPath, im.NumBytes())
	return nil
}
