// Package main provides a performance benchmarking tool for the snapcal CLI.
// It generates synthetic team snapshots of increasing size, runs each command
// several times, treats the first successful cached run as cold and averages
// the rest as warm, and writes the results to CSV.
//
// Prerequisites:
// - snapcal binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where synthetic snapshots are written
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/huangsam/snapcal/schema"
	"gopkg.in/yaml.v3"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Snapshot    string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// SnapshotSize describes one synthetic snapshot.
type SnapshotSize struct {
	Name        string
	Members     int
	Weeks       int
	Initiatives int
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	Workers     int
	NoCacheRuns int
	CacheRuns   int
	Sizes       []SnapshotSize
	Commands    [][]string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     os.Args[1],
		Timeout:     2 * time.Minute,
		Workers:     8,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Sizes: []SnapshotSize{
			{Name: "small", Members: 5, Weeks: 12, Initiatives: 3},
			{Name: "medium", Members: 25, Weeks: 52, Initiatives: 8},
			{Name: "large", Members: 120, Weeks: 104, Initiatives: 20},
		},
		Commands: [][]string{
			{"weeks"},
			{"summary", "--by-month"},
			{"heatmap", "--mode", "module"},
			{"report"},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("snapcal", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// checkPrerequisites verifies that the snapcal binary exists and the work dir is usable.
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("snapcal"); err != nil {
		return fmt.Errorf("snapcal binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// generateSnapshot writes a deterministic synthetic snapshot and returns its path.
func generateSnapshot(dir string, size SnapshotSize) (string, error) {
	rng := rand.New(rand.NewPCG(uint64(size.Members), uint64(size.Weeks)))
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	domains := []string{"Platform", "Growth", "Data", "Mobile"}

	records := make([]schema.SourceRecord, 0, size.Members*size.Weeks)
	for m := range size.Members {
		member := fmt.Sprintf("Member %03d", m)
		for w := range size.Weeks {
			initiatives := make([]schema.SourceInitiative, 0, 3)
			for i := range 1 + rng.IntN(3) {
				project := rng.IntN(size.Initiatives)
				tasks := make([]schema.SourceTask, 0, 4)
				for t := range 1 + rng.IntN(4) {
					tasks = append(tasks, schema.SourceTask{
						Title:    fmt.Sprintf("task-%d-%d", w, t),
						Progress: rng.IntN(5) * 25,
					})
				}
				initiatives = append(initiatives, schema.SourceInitiative{
					Project: fmt.Sprintf("Project %02d", project),
					Module:  fmt.Sprintf("Module %02d-%d", project, i),
					Feature: fmt.Sprintf("Feature %02d-%d", project, rng.IntN(4)),
					Tasks:   tasks,
				})
			}
			records = append(records, schema.SourceRecord{
				Member:      member,
				Date:        start.AddDate(0, 0, 7*w).Format(time.DateOnly),
				Domain:      domains[m%len(domains)],
				Initiatives: initiatives,
			})
		}
	}

	data, err := yaml.Marshal(map[string]any{"records": records})
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, size.Name+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// runBenchmarks executes all benchmark tests across configured snapshot sizes.
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d snapshots, %v timeout, %d workers, no-cache: %d runs, cache: %d runs\n",
		len(config.Sizes), config.Timeout, config.Workers, config.NoCacheRuns, config.CacheRuns)

	for _, size := range config.Sizes {
		path, err := generateSnapshot(config.WorkDir, size)
		if err != nil {
			return nil, fmt.Errorf("failed to generate %s snapshot: %w", size.Name, err)
		}
		fmt.Printf("Benchmarking %s (%d members, %d weeks)\n", size.Name, size.Members, size.Weeks)

		for _, command := range config.Commands {
			results = append(results, runBenchmarkSuite(config, size.Name, path, command))
		}
	}

	return results, nil
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command.
func runBenchmarkSuite(config BenchmarkConfig, snapshot, path string, command []string) BenchmarkResult {
	fmt.Printf("Running %v on %s\n", command, snapshot)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, path, command, cacheBackend, numRuns)
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

	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Snapshot:    snapshot,
		Command:     command[0],
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a snapcal command multiple times and returns cold time and warm times.
// The no-cache phase reports every run as warm.
func runBenchmark(config BenchmarkConfig, path string, command []string, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append([]string{}, command...)
	args = append(args,
		"--source", path,
		"--cache-backend", cacheBackend,
		"--workers", fmt.Sprint(config.Workers),
		"--output", "json",
		"--now", "2026-01-01",
	)

	var times []float64
	for range numRuns {
		start := time.Now()

		cmd := exec.Command("snapcal", args...)
		cmd.Dir = config.WorkDir

		done := make(chan error, 1)
		go func() {
			_, err := cmd.Output()
			done <- err
		}()

		select {
		case err := <-done:
			if err == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if cacheBackend == "none" {
		return 0, times
	}
	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/snapcal_benchmark_%s.csv", timestamp)

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

	if err := writer.Write([]string{"snapshot", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Snapshot, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results grouped by command.
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range config.Commands {
		fmt.Printf("%s:\n", command[0])
		for _, result := range results {
			if result.Command == command[0] {
				fmt.Printf("  %-8s: No-cache: %s, Cold: %s, Warm: %s\n", result.Snapshot, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
