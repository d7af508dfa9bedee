package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hexkit/ihex"
)

var mergeGapFill string

func init() {
	cmd := newMergeCmd()
	cmd.Flags().StringVarP(&mergeGapFill, "gap-fill", "g", "", "Fill byte for gaps in binary output (hex, default FF)")
	rootCmd.AddCommand(cmd)
}

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <out> <in1> <in2>...",
		Short: "Combine two or more images into one",
		Long: `The merge command overlays two or more images into a single output.
Inputs are applied in order: where two inputs define the same address, the
later one wins. Binary inputs carry no addresses and take a :addr suffix
giving their load address in hex.

Example:
  hexctl merge combined.hex boot.hex app.hex
  hexctl merge combined.hex boot.hex blob.bin:9000
  hexctl merge flat.bin boot.hex app.hex --gap-fill 00`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(args)
		},
	}
	return cmd
}

// splitInputArg separates an optional ":addr" load-address suffix from an
// input path. The split is on the last ':', so drive-letter paths pass
// through untouched.
func splitInputArg(arg string) (path, addr string) {
	if i := strings.LastIndex(arg, ":"); i > 1 {
		return arg[:i], arg[i+1:]
	}
	return arg, ""
}

func runMerge(args []string) error {
	outPath := args[0]
	inputs := args[1:]

	outKind, err := detectKind(outPath)
	if err != nil {
		return err
	}
	if outKind == kindHex && mergeGapFill != "" {
		return errors.New("--gap-fill applies only to binary output")
	}
	fill := byte(0xFF)
	if mergeGapFill != "" {
		if fill, err = parseFillByte(mergeGapFill); err != nil {
			return err
		}
	}

	printInfo("\nMerging into %s:\n", outPath)

	images := make([]*ihex.Image, 0, len(inputs))
	for _, arg := range inputs {
		path, addrPart := splitInputArg(arg)
		kind, err := detectKind(path)
		if err != nil {
			return err
		}

		var base uint32
		switch {
		case kind == kindBin && addrPart == "":
			return fmt.Errorf("binary input %s requires a :addr load address suffix", path)
		case kind == kindHex && addrPart != "":
			return fmt.Errorf("hex input %s carries its own addresses; the :addr suffix does not apply", path)
		case addrPart != "":
			if base, err = parseHexAddr(addrPart); err != nil {
				return err
			}
		}

		im, err := loadImage(path, base)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		images = append(images, im)
		printInfo("  ✓ %s (%d bytes)\n", path, im.NumBytes())
	}

	merged, err := ihex.MergeAll(images...)
	if err != nil {
		return fmt.Errorf("failed to merge: %w", err)
	}

	if outKind == kindBin {
		err = merged.WriteBinFile(outPath, fill)
	} else {
		err = merged.WriteHexFile(outPath)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	// Output as JSON if requested
	if jsonOut {
		return printJSON(map[string]interface{}{
			"output":  outPath,
			"inputs":  inputs,
			"bytes":   merged.NumBytes(),
			"blocks":  merged.NumBlocks(),
			"success": true,
		})
	}

	printInfo("✓ Merge complete: %d data bytes in %d blocks\n", merged.NumBytes(), merged.NumBlocks())
	return nil
}
