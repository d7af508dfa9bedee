// Command benchmark_parser turns `go test -bench` output into a markdown
// report. Given a second run it compares the two, which is how regressions
// in the parser and search hot paths get spotted before a release:
//
//	go test -bench=. -benchmem ./ihex > new.txt
//	go run scripts/benchmark_parser.go -current new.txt -baseline old.txt
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult is one parsed benchmark line.
type BenchmarkResult struct {
	Name        string
	Operation   string
	ImageSize   string
	Iterations  int
	NsPerOp     float64
	MBPerSec    float64
	BytesPerOp  int64
	AllocsPerOp int64
}

// ComparisonResult pairs a current result with its baseline.
type ComparisonResult struct {
	Operation      string
	ImageSize      string
	CurrentNs      float64
	BaselineNs     float64
	Speedup        float64
	CurrentMem     int64
	BaselineMem    int64
	CurrentAllocs  int64
	BaselineAllocs int64
	CurrentOnly    bool
}

var (
	currentFile = flag.String(
		"current",
		"",
		"Benchmark output to report on (stdin if not specified)",
	)
	baselineFile = flag.String("baseline", "", "Optional baseline run to compare against")
	outputFile   = flag.String("output", "", "Output markdown file (stdout if not specified)")
	quiet        = flag.Bool("quiet", false, "Suppress progress output")
)

func main() {
	flag.Parse()

	current, err := readResults(*currentFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading current run: %v\n", err)
		os.Exit(1)
	}

	var baseline []BenchmarkResult
	if *baselineFile != "" {
		baseline, err = readResults(*baselineFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading baseline run: %v\n", err)
			os.Exit(1)
		}
	}

	if !*quiet {
		fmt.Fprintf(os.Stderr, "Parsed %d current and %d baseline results\n", len(current), len(baseline))
	}

	comparisons := generateComparisons(current, baseline)
	report := generateMarkdownReport(comparisons, *baselineFile != "")

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(report), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		if !*quiet {
			fmt.Fprintf(os.Stderr, "Report written to %s\n", *outputFile)
		}
	} else {
		fmt.Fprint(os.Stdout, report)
	}
}

func readResults(path string) ([]BenchmarkResult, error) {
	if path == "" {
		return parseBenchmarks(bufio.NewScanner(os.Stdin)), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseBenchmarks(bufio.NewScanner(f)), nil
}

func parseBenchmarks(scanner *bufio.Scanner) []BenchmarkResult {
	var results []BenchmarkResult

	// BenchmarkParse/1MB-8  500  2104503 ns/op  498.22 MB/s  4096 B/op  8 allocs/op
	benchmarkRegex := regexp.MustCompile(
		`^(Benchmark\S+)\s+(\d+)\s+([\d.]+)\s+ns/op(?:\s+([\d.]+)\s+MB/s)?(?:\s+([\d.]+)\s+B/op)?(?:\s+([\d.]+)\s+allocs/op)?`,
	)

	for scanner.Scan() {
		line := scanner.Text()

		// Tolerate test2json output (from -json) by unwrapping the Output field
		var testEvent map[string]any
		if err := json.Unmarshal([]byte(line), &testEvent); err == nil {
			if output, ok := testEvent["Output"].(string); ok {
				line = output
			}
		}

		matches := benchmarkRegex.FindStringSubmatch(strings.TrimSpace(line))
		if matches == nil {
			continue
		}

		name := matches[1]
		iterations, _ := strconv.Atoi(matches[2])
		nsPerOp, _ := strconv.ParseFloat(matches[3], 64)

		var mbPerSec float64
		var bytesPerOp, allocsPerOp int64
		if matches[4] != "" {
			mbPerSec, _ = strconv.ParseFloat(matches[4], 64)
		}
		if matches[5] != "" {
			bytesPerOp, _ = strconv.ParseInt(matches[5], 10, 64)
		}
		if matches[6] != "" {
			allocsPerOp, _ = strconv.ParseInt(matches[6], 10, 64)
		}

		operation, imageSize := splitBenchName(name)
		results = append(results, BenchmarkResult{
			Name:        name,
			Operation:   operation,
			ImageSize:   imageSize,
			Iterations:  iterations,
			NsPerOp:     nsPerOp,
			MBPerSec:    mbPerSec,
			BytesPerOp:  bytesPerOp,
			AllocsPerOp: allocsPerOp,
		})
	}

	return results
}

// splitBenchName breaks BenchmarkParse/64KB-8 into ("Parse", "64KB").
// Benchmarks without a size sub-run, like BenchmarkUpdateByte-8, report an
// empty size.
func splitBenchName(name string) (string, string) {
	parts := strings.Split(name, "/")

	operation := strings.TrimPrefix(parts[0], "Benchmark")
	if len(parts) == 1 {
		if dashIdx := strings.LastIndex(operation, "-"); dashIdx > 0 {
			operation = operation[:dashIdx]
		}
		return operation, ""
	}

	imageSize := parts[len(parts)-1]
	if dashIdx := strings.LastIndex(imageSize, "-"); dashIdx > 0 {
		imageSize = imageSize[:dashIdx]
	}
	return operation, imageSize
}

func generateComparisons(current, baseline []BenchmarkResult) []ComparisonResult {
	type key struct {
		operation string
		imageSize string
	}

	baselineByKey := make(map[key]BenchmarkResult)
	for _, result := range baseline {
		baselineByKey[key{result.Operation, result.ImageSize}] = result
	}

	var comparisons []ComparisonResult
	for _, result := range current {
		k := key{result.Operation, result.ImageSize}
		base, hasBase := baselineByKey[k]

		comp := ComparisonResult{
			Operation:     result.Operation,
			ImageSize:     result.ImageSize,
			CurrentNs:     result.NsPerOp,
			CurrentMem:    result.BytesPerOp,
			CurrentAllocs: result.AllocsPerOp,
			CurrentOnly:   !hasBase,
		}
		if hasBase {
			comp.BaselineNs = base.NsPerOp
			comp.BaselineMem = base.BytesPerOp
			comp.BaselineAllocs = base.AllocsPerOp
			comp.Speedup = base.NsPerOp / result.NsPerOp
		}
		comparisons = append(comparisons, comp)
	}

	sort.Slice(comparisons, func(i, j int) bool {
		if comparisons[i].Operation != comparisons[j].Operation {
			return comparisons[i].Operation < comparisons[j].Operation
		}
		return comparisons[i].ImageSize < comparisons[j].ImageSize
	})

	return comparisons
}

func generateMarkdownReport(comparisons []ComparisonResult, hasBaseline bool) string {
	var sb strings.Builder

	sb.WriteString("# Benchmark Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	if !hasBaseline {
		sb.WriteString("## Results\n\n")
		sb.WriteString("| Operation | Image | ns/op | Memory (B/op) | Allocs |\n")
		sb.WriteString("|-----------|-------|-------|---------------|--------|\n")
		for _, comp := range comparisons {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
				comp.Operation,
				comp.ImageSize,
				formatNumber(comp.CurrentNs),
				formatBytes(comp.CurrentMem),
				formatNumber(float64(comp.CurrentAllocs)),
			))
		}
		sb.WriteString("\n")
		return sb.String()
	}

	faster := 0
	slower := 0
	currentOnly := 0
	totalSpeedup := 0.0
	for _, comp := range comparisons {
		if comp.CurrentOnly {
			currentOnly++
			continue
		}
		if comp.Speedup > 1.0 {
			faster++
		} else if comp.Speedup < 1.0 {
			slower++
		}
		totalSpeedup += comp.Speedup
	}

	comparableCount := len(comparisons) - currentOnly
	avgSpeedup := 0.0
	if comparableCount > 0 {
		avgSpeedup = totalSpeedup / float64(comparableCount)
	}

	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Total benchmarks**: %d\n", len(comparisons)))
	sb.WriteString(fmt.Sprintf("- **Comparable** (in both runs): %d\n", comparableCount))
	if comparableCount > 0 {
		sb.WriteString(fmt.Sprintf("  - faster than baseline: %d (%.1f%%)\n",
			faster, float64(faster)/float64(comparableCount)*100))
		sb.WriteString(fmt.Sprintf("  - slower than baseline: %d (%.1f%%)\n",
			slower, float64(slower)/float64(comparableCount)*100))
		sb.WriteString(fmt.Sprintf("  - Average speedup: **%.2fx**\n", avgSpeedup))
	}
	sb.WriteString(fmt.Sprintf("- **New benchmarks** (no baseline): %d\n", currentOnly))
	sb.WriteString("\n")

	sb.WriteString("## Detailed Results\n\n")
	sb.WriteString("| Operation | Image | current (ns/op) | baseline (ns/op) | Speedup | Memory (B/op) | Allocs |\n")
	sb.WriteString("|-----------|-------|-----------------|------------------|---------|---------------|--------|\n")

	for _, comp := range comparisons {
		if comp.CurrentOnly {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | *N/A* | *new* | %s | %s |\n",
				comp.Operation,
				comp.ImageSize,
				formatNumber(comp.CurrentNs),
				formatBytes(comp.CurrentMem),
				formatNumber(float64(comp.CurrentAllocs)),
			))
			continue
		}

		indicator := "✓"
		if comp.Speedup < 1.0 {
			indicator = "✗"
		}

		memIndicator := ""
		if comp.CurrentMem < comp.BaselineMem {
			memIndicator = " ✓"
		} else if comp.CurrentMem > comp.BaselineMem {
			memIndicator = " ✗"
		}

		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %.2fx %s | %s vs %s%s | %s vs %s |\n",
			comp.Operation,
			comp.ImageSize,
			formatNumber(comp.CurrentNs),
			formatNumber(comp.BaselineNs),
			comp.Speedup,
			indicator,
			formatBytes(comp.CurrentMem),
			formatBytes(comp.BaselineMem),
			memIndicator,
			formatNumber(float64(comp.CurrentAllocs)),
			formatNumber(float64(comp.BaselineAllocs)),
		))
	}

	sb.WriteString("\n")

	sb.WriteString("## Performance by Category\n\n")
	categories := categorizeOperations(comparisons)
	for _, category := range []string{"Codec", "Search", "Reads", "Writes", "Merge", "Other"} {
		comps := categories[category]
		if len(comps) == 0 {
			continue
		}

		avgSpeed := 0.0
		count := 0
		for _, comp := range comps {
			if !comp.CurrentOnly {
				avgSpeed += comp.Speedup
				count++
			}
		}

		if count > 0 {
			avgSpeed /= float64(count)
			status := "✓"
			if avgSpeed < 1.0 {
				status = "✗"
			}
			sb.WriteString(fmt.Sprintf("- %s **%s**: %.2fx average speedup\n", status, category, avgSpeed))
		} else {
			sb.WriteString(fmt.Sprintf("- **%s**: new benchmarks only\n", category))
		}
	}

	sb.WriteString("\n## Notes\n\n")
	sb.WriteString("- **Speedup > 1.0**: current run is faster ✓\n")
	sb.WriteString("- **Speedup < 1.0**: current run regressed ✗\n")
	sb.WriteString("- **Memory comparison**: Lower is better\n")

	return sb.String()
}

func categorizeOperations(comparisons []ComparisonResult) map[string][]ComparisonResult {
	categories := make(map[string][]ComparisonResult)

	for _, comp := range comparisons {
		op := strings.ToLower(comp.Operation)

		var category string
		switch {
		case strings.Contains(op, "parse") || strings.Contains(op, "encode") ||
			strings.Contains(op, "load") || strings.Contains(op, "write"):
			category = "Codec"
		case strings.Contains(op, "search"):
			category = "Search"
		case strings.Contains(op, "read"):
			category = "Reads"
		case strings.Contains(op, "update"):
			category = "Writes"
		case strings.Contains(op, "merge"):
			category = "Merge"
		default:
			category = "Other"
		}
		categories[category] = append(categories[category], comp)
	}

	return categories
}

func formatNumber(n float64) string {
	if n >= 1000000 {
		return fmt.Sprintf("%.2fM", n/1000000)
	} else if n >= 1000 {
		return fmt.Sprintf("%.1fK", n/1000)
	}
	return fmt.Sprintf("%.0f", n)
}

func formatBytes(b int64) string {
	if b >= 1024*1024 {
		return fmt.Sprintf("%.2fMB", float64(b)/(1024*1024))
	} else if b >= 1024 {
		return fmt.Sprintf("%.1fKB", float64(b)/1024)
	}
	return fmt.Sprintf("%dB", b)
}
