// Package main provides a performance benchmarking tool for the Preflight CLI.
// It measures analyze and recheck times across synthetic source trees of
// different sizes, running each test multiple times, treating the first
// successful run with history as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - preflight binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory used for generated fixtures and history databases
package main

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-history average,
// cold run and average of warm runs).
type BenchmarkResult struct {
	Fixture       string
	Command       string
	NoHistoryTime string
	ColdTime      string
	WarmTime      string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir       string
	Timeout       time.Duration
	NoHistoryRuns int
	HistoryRuns   int
	FixtureSizes  map[string]int // fixture name -> source file count
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}
	workDir := os.Args[1]

	config := BenchmarkConfig{
		WorkDir:       workDir,
		Timeout:       2 * time.Minute,
		NoHistoryRuns: 3,
		HistoryRuns:   4,
		FixtureSizes: map[string]int{
			"small":  20,
			"medium": 200,
			"large":  2000,
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generating fixtures in %s...\n", config.WorkDir)
	fixtures, err := generateFixtures(config)
	if err != nil {
		fmt.Printf("Failed to generate fixtures: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config, fixtures)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the preflight binary and work dir exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("preflight"); err != nil {
		return fmt.Errorf("preflight binary not found in PATH")
	}
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return fmt.Errorf("cannot create work dir: %w", err)
	}
	return nil
}

// generateFixtures writes one ZIP archive per configured size and returns
// fixture name -> archive path.
func generateFixtures(config BenchmarkConfig) (map[string]string, error) {
	fixtures := make(map[string]string)
	for name, fileCount := range config.FixtureSizes {
		archivePath := filepath.Join(config.WorkDir, name+".zip")
		if err := writeSyntheticZip(archivePath, fileCount); err != nil {
			return nil, fmt.Errorf("fixture %s: %w", name, err)
		}
		fixtures[name] = archivePath
	}
	return fixtures, nil
}

// writeSyntheticZip creates an Express-shaped source tree with the given
// number of route files.
func writeSyntheticZip(archivePath string, fileCount int) error {
	f, err := os.Create(archivePath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	zw := zip.NewWriter(f)
	manifest := `{"name":"bench","dependencies":{"express":"^4.18.0","pg":"^8.11.0","stripe":"^14.0.0"}}`
	if err := addZipFile(zw, "bench/package.json", manifest); err != nil {
		return err
	}
	for i := 0; i < fileCount; i++ {
		body := fmt.Sprintf("const route%d = require('express').Router()\nroute%d.get('/r%d', async (req, res) => {\n  const rows = await db.query('SELECT %d')\n  res.json(rows)\n})\n", i, i, i, i)
		if err := addZipFile(zw, fmt.Sprintf("bench/src/route%d.js", i), body); err != nil {
			return err
		}
	}
	return zw.Close()
}

func addZipFile(zw *zip.Writer, name, content string) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write([]byte(content))
	return err
}

// runBenchmarks executes all benchmark tests across the generated fixtures
func runBenchmarks(config BenchmarkConfig, fixtures map[string]string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d fixtures, %v timeout, no-history: %d runs, history: %d runs\n",
		len(fixtures), config.Timeout, config.NoHistoryRuns, config.HistoryRuns)

	for _, name := range []string{"small", "medium", "large"} {
		archive, ok := fixtures[name]
		if !ok {
			continue
		}
		fmt.Printf("Benchmarking %s\n", name)

		result := runBenchmarkSuite(config, name, archive, "analyze")
		results = append(results, result)

		result = runBenchmarkSuite(config, name, archive, "recheck")
		results = append(results, result)
	}

	return results
}

// runBenchmarkSuite runs both no-history and history benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, fixture, archive, command string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, fixture)

	analysisID := fmt.Sprintf("bench-%s", fixture)
	dbPath := filepath.Join(config.WorkDir, fixture+".db")

	// Helper to run a benchmark phase
	runPhase := func(backend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, archive, analysisID, dbPath, command, backend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	noHistoryAvg := "n/a"
	if command == "analyze" {
		// Recheck needs history, so the no-history phase is analyze-only.
		_, noHistoryAvg = runPhase("none", config.NoHistoryRuns, "No-history")
	}

	_ = os.Remove(dbPath)
	coldTime, warmAvg := runPhase("sqlite", config.HistoryRuns, "History")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-history average: %s, Cold time: %s, Warm average: %s\n", noHistoryAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Fixture:       fixture,
		Command:       command,
		NoHistoryTime: noHistoryAvg,
		ColdTime:      coldTimeStr,
		WarmTime:      warmAvg,
	}
}

// runBenchmark executes a preflight command multiple times with the given
// history backend and returns the cold time and warm times
func runBenchmark(config BenchmarkConfig, archive, analysisID, dbPath, command, backend string, numRuns int) (coldTime float64, warmTimes []float64) {
	var args []string
	switch command {
	case "recheck":
		args = []string{"recheck", analysisID}
	default:
		args = []string{"analyze", "--zip-file", archive, "--analysis-id", analysisID}
	}
	args = append(args, "--history-backend", backend)
	if backend == "sqlite" {
		args = append(args, "--history-db-connect", dbPath)
	}

	// A recheck run needs a stored analysis to diff against.
	if command == "recheck" && backend == "sqlite" {
		seed := exec.Command("preflight", "analyze",
			"--zip-file", archive, "--analysis-id", analysisID,
			"--history-backend", "sqlite", "--history-db-connect", dbPath)
		if output, err := seed.CombinedOutput(); err != nil {
			fmt.Printf("  Warning: seed analyze failed: %v\nOutput: %s\n", err, string(output))
			return 0, nil
		}
	}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("preflight", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates a completed analysis
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Launch verdict for") &&
		strings.Contains(outputStr, "Scanned")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/preflight_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"fixture", "cmd", "no_history_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{result.Fixture, result.Command, result.NoHistoryTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "analyze", "Analyze:")
	printCommandSummary(results, "recheck", "Recheck:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-8s: No-history: %s, Cold: %s, Warm: %s\n", result.Fixture, result.NoHistoryTime, result.ColdTime, result.WarmTime)
		}
	}
}
