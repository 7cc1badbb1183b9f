package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	linker "github.com/nickrallison/obsidian-linker-new"
)

func main() {
	count := flag.Int("count", 1000, "Number of notes to generate")
	mentions := flag.Int("mentions", 5, "Mentions of other notes per note")
	keep := flag.Bool("keep", false, "Keep the benchmark vault after running")
	flag.Parse()

	// 1. Setup Namespace
	benchDir, err := os.MkdirTemp("", "linker_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	fmt.Printf("Generating %d notes in %s...\n", *count, benchDir)
	startGen := time.Now()

	for i := 0; i < *count; i++ {
		var body strings.Builder
		fmt.Fprintf(&body, "---\naliases: [N%d]\n---\n# Note %d\n", i, i)
		for m := 1; m <= *mentions; m++ {
			fmt.Fprintf(&body, "This paragraph talks about Topic %d at length.\n", (i+m*7)%*count)
		}
		filename := filepath.Join(benchDir, fmt.Sprintf("Topic %d.md", i))
		if err := os.WriteFile(filename, []byte(body.String()), 0644); err != nil {
			panic(err)
		}
	}
	fmt.Printf("Generation took: %v\n", time.Since(startGen))

	// 2. Initialize Engine (gitless: measure indexing and scanning, not git)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	eng, err := linker.New(benchDir,
		linker.WithLogger(logger),
		linker.WithVersioning(false),
		linker.WithPreviewStyle("plain"),
		linker.WithFlush(linker.FlushBatch),
	)
	if err != nil {
		panic(err)
	}

	ctx := context.TODO()

	// Run 1: Cold (populates cache)
	startCold := time.Now()
	plan, err := eng.Plan(ctx)
	if err != nil {
		panic(err)
	}
	cold := time.Since(startCold)

	// Run 2: Warm (content cache hit)
	startWarm := time.Now()
	if _, err := eng.Plan(ctx); err != nil {
		panic(err)
	}
	warm := time.Since(startWarm)

	// Run 3: Accept everything
	var accepted linker.DeciderFunc = func(context.Context, linker.Proposal) (linker.Decision, error) {
		return linker.Accepted, nil
	}
	startReview := time.Now()
	report, err := eng.Review(ctx, plan, accepted)
	if err != nil {
		panic(err)
	}
	reviewed := time.Since(startReview)

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d notes, %d titles, %d candidates):\n", *count, len(plan.Titles), len(plan.Candidates))
	fmt.Printf("  Plan (cold): %v\n", cold)
	fmt.Printf("  Plan (warm): %v\n", warm)
	fmt.Printf("  Review:      %v (%d documents written)\n", reviewed, len(report.Written()))
	fmt.Printf("--------------------------------------------------\n")
}
