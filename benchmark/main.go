// Package main provides a performance benchmarking tool for the basket CLI.
// It generates synthetic sales datasets of several sizes, runs 'basket analyze'
// on each with and without run tracking, treating the first successful run as
// cold and averaging the rest as warm, and writes the timings to CSV.
//
// Prerequisites:
// - basket binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where datasets and the tracking database are written
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run.
type BenchmarkResult struct {
	Dataset     string
	Workers     int
	UntrackTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	Workers     []int
	UntrackRuns int
	TrackRuns   int
	Datasets    map[string]int // name -> number of baskets
	Catalog     int            // distinct products
	BasketSize  int            // max items per basket
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     os.Args[1],
		Timeout:     5 * time.Minute,
		Workers:     []int{1, 4, 14},
		UntrackRuns: 3,
		TrackRuns:   4,
		Datasets:    map[string]int{"small": 1_000, "medium": 20_000, "large": 200_000},
		Catalog:     500,
		BasketSize:  12,
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the basket binary and the work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("basket"); err != nil {
		return fmt.Errorf("basket binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// generateDataset writes a CSV of random baskets and returns its path
func generateDataset(config BenchmarkConfig, name string, baskets int) (string, error) {
	path := filepath.Join(config.WorkDir, name+".csv")
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	rng := rand.New(rand.NewPCG(uint64(baskets), 42))
	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"date", "product", "quantity"}); err != nil {
		return "", err
	}
	for b := range baskets {
		key := "basket-" + strconv.Itoa(b)
		for range 1 + rng.IntN(config.BasketSize) {
			// Squared draw skews toward popular products
			p := rng.IntN(config.Catalog) * rng.IntN(config.Catalog) / config.Catalog
			row := []string{key, "product-" + strconv.Itoa(p), strconv.Itoa(1 + rng.IntN(5))}
			if err := writer.Write(row); err != nil {
				return "", err
			}
		}
	}
	writer.Flush()
	return path, writer.Error()
}

// runBenchmarks executes all benchmark tests across configured datasets
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, workers %v, untracked: %d runs, tracked: %d runs\n",
		len(config.Datasets), config.Timeout, config.Workers, config.UntrackRuns, config.TrackRuns)

	for _, name := range []string{"small", "medium", "large"} {
		baskets, ok := config.Datasets[name]
		if !ok {
			continue
		}
		fmt.Printf("Generating %s dataset (%d baskets)\n", name, baskets)
		path, err := generateDataset(config, name, baskets)
		if err != nil {
			fmt.Printf("Warning: failed to generate %s: %v\n", name, err)
			continue
		}
		for _, workers := range config.Workers {
			results = append(results, runBenchmarkSuite(config, name, path, workers))
		}
	}

	return results
}

// runBenchmarkSuite runs both untracked and tracked benchmarks for a dataset
func runBenchmarkSuite(config BenchmarkConfig, name, path string, workers int) BenchmarkResult {
	fmt.Printf("Running %s with %d workers\n", name, workers)

	runPhase := func(backend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, path, workers, backend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: No tracking
	_, untrackAvg := runPhase("none", config.UntrackRuns, "Untracked")

	// Phase 2: SQLite tracking
	coldTime, warmAvg := runPhase("sqlite", config.TrackRuns, "Tracked")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  Untracked average: %s, Cold time: %s, Warm average: %s\n", untrackAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:     name,
		Workers:     workers,
		UntrackTime: untrackAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes basket analyze multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, path string, workers int, backend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{
		"analyze", path,
		"--workers", strconv.Itoa(workers),
		"--threshold", "0.01",
		"--analysis-backend", backend,
		"--analysis-db-connect", filepath.Join(config.WorkDir, "benchmark.db"),
	}
	if backend == "none" {
		args = args[:len(args)-2]
	}

	var times []float64
	for range numRuns {
		start := time.Now()

		cmd := exec.Command("basket", args...)
		cmd.Dir = config.WorkDir

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

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Analysis completed in") &&
		strings.Contains(outputStr, "workers")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/basket_benchmark_%s.csv", timestamp)

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

	if err := writer.Write([]string{"dataset", "workers", "untracked_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		row := []string{result.Dataset, strconv.Itoa(result.Workers), result.UntrackTime, result.ColdTime, result.WarmTime}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-8s %2d workers: Untracked: %s, Cold: %s, Warm: %s\n",
			result.Dataset, result.Workers, result.UntrackTime, result.ColdTime, result.WarmTime)
	}
}
