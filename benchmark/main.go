// Package main provides a performance benchmarking tool for the Ratechart CLI.
// It generates synthetic A/B test datasets of several sizes, measures execution
// times per command, treating the first successful cached run as cold and averaging
// the rest as warm, and writes a CSV summary for performance analysis.
//
// Prerequisites:
// - ratechart binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for the generated datasets and cache files
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/ratechart/schema"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset     string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	DatasetDays map[string]int
	Variations  int
	Seed        uint64
}

// benchCommand is one CLI invocation measured per dataset.
type benchCommand struct {
	name    string
	args    []string
	success string
}

var commands = []benchCommand{
	{name: "series", args: []string{"series"}, success: "Plotted"},
	{name: "series-week", args: []string{"series", "--granularity", "week"}, success: "Plotted"},
	{name: "hover", args: []string{"hover", "--x", "400", "--y", "200"}, success: "Anchor:"},
	{name: "zoom", args: []string{"zoom", "--action", "in"}, success: "Action:"},
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     os.Args[1],
		Timeout:     2 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		DatasetDays: map[string]int{"month": 30, "year": 365, "decade": 3650},
		Variations:  4,
		Seed:        42,
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	datasets, err := generateDatasets(config)
	if err != nil {
		fmt.Printf("Failed to generate datasets: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config, datasets)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the ratechart binary and the work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("ratechart"); err != nil {
		return fmt.Errorf("ratechart binary not found in PATH")
	}
	info, err := os.Stat(config.WorkDir)
	if err != nil {
		return fmt.Errorf("work directory %s not accessible: %w", config.WorkDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("work directory %s is not a directory", config.WorkDir)
	}
	return nil
}

// generateDatasets writes one synthetic dataset per configured size and returns their paths by name
func generateDatasets(config BenchmarkConfig) (map[string]string, error) {
	rng := rand.New(rand.NewPCG(config.Seed, config.Seed))
	paths := make(map[string]string, len(config.DatasetDays))
	for name, days := range config.DatasetDays {
		ds := syntheticDataset(rng, days, config.Variations)
		data, err := json.Marshal(ds)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(config.WorkDir, fmt.Sprintf("bench_%s.json", name))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, err
		}
		fmt.Printf("Generated %s dataset: %d days, %d variations -> %s\n", name, days, config.Variations, path)
		paths[name] = path
	}
	return paths, nil
}

// syntheticDataset builds days of traffic where every arm converts around its own base rate
func syntheticDataset(rng *rand.Rand, days, variations int) schema.RawDataset {
	ds := schema.RawDataset{Variations: []schema.RawVariation{{Name: "Original"}}}
	ids := []string{schema.ControlVariationID}
	for i := 1; i < variations; i++ {
		id := int64(10000 + i)
		ds.Variations = append(ds.Variations, schema.RawVariation{ID: &id, Name: fmt.Sprintf("Variation %c", 'A'+i-1)})
		ids = append(ids, strconv.FormatInt(id, 10))
	}

	baseRates := make([]float64, len(ids))
	for i := range baseRates {
		baseRates[i] = 0.05 + rng.Float64()*0.15
	}

	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for d := range days {
		rec := schema.RawRecord{
			Date:        start.AddDate(0, 0, d).Format(time.DateOnly),
			Visits:      make(map[string]int, len(ids)),
			Conversions: make(map[string]int, len(ids)),
		}
		for i, id := range ids {
			visits := 200 + rng.IntN(800)
			rate := baseRates[i] * (0.8 + rng.Float64()*0.4)
			rec.Visits[id] = visits
			rec.Conversions[id] = int(float64(visits) * rate)
		}
		ds.Data = append(ds.Data, rec)
	}
	return ds
}

// runBenchmarks executes all benchmark commands across generated datasets
func runBenchmarks(config BenchmarkConfig, datasets map[string]string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(datasets), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, name := range []string{"month", "year", "decade"} {
		path, ok := datasets[name]
		if !ok {
			continue
		}
		fmt.Printf("Benchmarking %s\n", name)
		for _, command := range commands {
			results = append(results, runBenchmarkSuite(config, name, path, command))
		}
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, name, datasetPath string, command benchCommand) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command.name, name)

	cacheDB := filepath.Join(config.WorkDir, fmt.Sprintf("bench_cache_%s_%s.db", name, command.name))
	_ = os.Remove(cacheDB)

	runPhase := func(cacheArgs []string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, datasetPath, command, cacheArgs, numRuns)
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

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase([]string{"--cache-backend", "none"}, config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs
	coldTime, warmAvg := runPhase([]string{"--cache-backend", "sqlite", "--cache-db-connect", cacheDB}, config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:     name,
		Command:     command.name,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a ratechart command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, datasetPath string, command benchCommand, cacheArgs []string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append(append([]string{}, command.args...), datasetPath, "--color", "no")
	args = append(args, cacheArgs...)

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("ratechart", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && strings.Contains(string(output), command.success) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			if cmd.Process != nil {
				_ = cmd.Process.Kill()
			}
			<-done
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("ratechart_benchmark_%s.csv", timestamp))

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

	if err := writer.Write([]string{"dataset", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range commands {
		fmt.Printf("%s:\n", command.name)
		for _, result := range results {
			if result.Command == command.name {
				fmt.Printf("  %-8s: No-cache: %s, Cold: %s, Warm: %s\n", result.Dataset, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
