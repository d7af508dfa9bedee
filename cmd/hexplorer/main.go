package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/hexkit/cmd/hexplorer/logger"
	"github.com/joshuapare/hexkit/ihex"
)

// Populated at build time via -ldflags
var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

var elfMagic = []byte{0x7F, 'E', 'L', 'F'}

func main() {
	args := os.Args[1:]
	debugMode := false
	cfgPath := DefaultConfigPath()
	overrides := map[string]string{}

	// Extract flags; everything else is positional
	filteredArgs := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--debug", "-d":
			debugMode = true
		case "--config", "--bytes-per-row", "--gap-fill", "--charset", "--endian":
			i++
			if i >= len(args) {
				fmt.Fprintf(os.Stderr, "Error: %s requires a value\n", arg)
				os.Exit(2)
			}
			if arg == "--config" {
				cfgPath = args[i]
			} else {
				overrides[arg] = args[i]
			}
		default:
			filteredArgs = append(filteredArgs, arg)
		}
	}

	// Initialize logger (must be before any logging calls)
	if err := logger.Init(logger.Options{
		Enabled: debugMode,
		Level:   slog.LevelDebug,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to init logging: %v\n", err)
	}

	if len(filteredArgs) < 1 {
		printUsage()
		os.Exit(1)
	}

	if filteredArgs[0] == "--help" || filteredArgs[0] == "-h" {
		printHelp()
		os.Exit(0)
	}

	if filteredArgs[0] == "--version" || filteredArgs[0] == "-v" {
		fmt.Printf("hexplorer %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built: %s\n", date)
		os.Exit(0)
	}

	cfg, err := LoadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if err := applyOverrides(&cfg, overrides); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	path := filteredArgs[0]
	logger.Info("starting hexplorer", "path", path, "debug", debugMode)

	img, kind, err := openTarget(path)
	if err != nil {
		logger.Error("load failed", "path", path, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("image loaded", "kind", kind.String(), "bytes", img.NumBytes(), "blocks", img.NumBlocks())

	p := tea.NewProgram(
		NewModel(img, path, kind, cfg),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	logger.Info("hexplorer exited normally")
}

// applyOverrides folds command line flag values over the file config
func applyOverrides(cfg *Config, overrides map[string]string) error {
	for flag, val := range overrides {
		switch flag {
		case "--bytes-per-row":
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 || n > 64 {
				return fmt.Errorf("invalid --bytes-per-row %q (want 1..64)", val)
			}
			cfg.BytesPerRow = n
		case "--gap-fill":
			b, err := strconv.ParseUint(strings.TrimPrefix(val, "0x"), 16, 8)
			if err != nil {
				return fmt.Errorf("invalid --gap-fill %q", val)
			}
			cfg.GapFill = uint8(b)
		case "--charset":
			cfg.Charset = val
		case "--endian":
			cfg.Endian = val
		}
	}
	cfg.Normalize()
	return nil
}

// sniffKind decides how to load a file from its leading bytes: Intel HEX
// records always start with ':', and ELF executables are rejected with a
// hint since viewing one as a flat image is almost never what was meant
func sniffKind(path string) (fileKind, error) {
	f, err := os.Open(path)
	if err != nil {
		return kindBin, err
	}
	defer f.Close()

	head := make([]byte, 4)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return kindBin, err
	}
	head = head[:n]

	if bytes.Equal(head, elfMagic) {
		return kindBin, fmt.Errorf("%s is an ELF executable, not a firmware image; extract a loadable section first (objcopy -O binary)", path)
	}
	if len(head) > 0 && head[0] == ':' {
		return kindHex, nil
	}
	return kindBin, nil
}

// openTarget sniffs the file kind and loads the image accordingly
func openTarget(path string) (*ihex.Image, fileKind, error) {
	kind, err := sniffKind(path)
	if err != nil {
		return nil, kind, err
	}

	img := ihex.New()
	if kind == kindHex {
		err = img.LoadHex(path)
	} else {
		err = img.LoadBin(path, 0)
	}
	if err != nil {
		return nil, kind, err
	}
	return img, kind, nil
}

// parseHexAddr parses a hex address with an optional 0x prefix
func parseHexAddr(s string) (uint32, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: expected a 32-bit hex value", s)
	}
	return uint32(v), nil
}

// formatAddr renders an address in the 0xHHHH_LLLL form used everywhere in
// the UI
func formatAddr(a uint32) string {
	return fmt.Sprintf("0x%04X_%04X", a>>16, a&0xFFFF)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: hexplorer [options] <image-file>\n")
	fmt.Fprintf(os.Stderr, "Try 'hexplorer --help' for more information.\n")
}

func printHelp() {
	fmt.Println("hexplorer - Interactive TUI for Intel HEX and binary images")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  hexplorer [options] <image-file>")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Launches an interactive terminal UI over a firmware image. Files whose")
	fmt.Println("  first byte is ':' load as Intel HEX; anything else loads as a flat")
	fmt.Println("  binary based at address 0.")
	fmt.Println()
	fmt.Println("  Features:")
	fmt.Println("    - Sparse hex grid with char gutter (gaps render as --)")
	fmt.Println("    - Data inspector (u8..u64, i8..i64, f32/f64, binary)")
	fmt.Println("    - Search bytes, text, or regex (/, then tab to cycle modes)")
	fmt.Println("    - In-place byte editing with undo (u) and save (Ctrl+S)")
	fmt.Println("    - Jump to address (g), selection (v), clipboard copy (c)")
	fmt.Println()
	fmt.Println("  Navigation:")
	fmt.Println("    ↑/k, ↓/j    Row up/down")
	fmt.Println("    ←/h, →/l    Byte left/right")
	fmt.Println("    ?           Show help")
	fmt.Println("    q           Quit")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -d, --debug            Enable debug logging to ~/.hexplorer/logs/")
	fmt.Println("      --config PATH      Config file (default ~/.hexplorer.yaml)")
	fmt.Println("      --bytes-per-row N  Grid row width (default 16)")
	fmt.Println("      --gap-fill BYTE    Fill byte for binary saves (default 0xFF)")
	fmt.Println("      --charset NAME     Char gutter charset: ascii or cp1252")
	fmt.Println("      --endian NAME      Inspector endianness: little or big")
	fmt.Println("  -h, --help             Show this help message")
	fmt.Println("  -v, --version          Show version information")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  hexplorer firmware.hex")
	fmt.Println("  hexplorer --bytes-per-row 32 dump.bin")
	fmt.Println()
	fmt.Println("For non-interactive operations, use the 'hexctl' command instead.")
}
