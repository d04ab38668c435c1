// Command machetli-search wires the evaluator driver and search engine
// together and runs first-choice hill climbing over a grounded task file
// until the evaluator subprocess no longer confirms the target behavior.
// The composition below is the part every search shares; only the
// generator list is task-specific. It ships with transform.DropOperator,
// which minimizes by removing operators one at a time — swap in or add to
// that list for other domains.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/silvanus-labs/machetli/internal/driver"
	"github.com/silvanus-labs/machetli/internal/gscodec"
	"github.com/silvanus-labs/machetli/internal/logctx"
	"github.com/silvanus-labs/machetli/internal/search"
	"github.com/silvanus-labs/machetli/internal/state"
	"github.com/silvanus-labs/machetli/internal/successor"
	"github.com/silvanus-labs/machetli/internal/transform"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("machetli-search", flag.ContinueOnError)
	taskPath := fs.String("task", "", "path to the initial grounded task file")
	evaluatorPath := fs.String("evaluator", "", "path to the evaluator subprocess binary")
	configPath := fs.String("config", "", "path to a TOML environment configuration file")
	workDir := fs.String("work-dir", "", "directory under which candidate run_dirs are created")
	outPath := fs.String("out", "", "path to write the final accepted task to")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *taskPath == "" || *evaluatorPath == "" || *workDir == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "machetli-search: -task, -evaluator, -work-dir, and -out are required")
		return 2
	}

	cfg := driver.DefaultEnvironmentConfig()
	if *configPath != "" {
		loaded, err := driver.LoadEnvironmentConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "machetli-search: %v\n", err)
			return 1
		}
		cfg = loaded
	}

	logger, err := logctx.New(zerolog.ConsoleWriter{Out: os.Stderr}, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "machetli-search: %v\n", err)
		return 1
	}

	if err := os.MkdirAll(*workDir, 0o755); err != nil {
		logctx.Critical(logger, fmt.Sprintf("creating work dir %s: %v", *workDir, err))
		return 1
	}

	f, err := os.Open(*taskPath)
	if err != nil {
		logctx.Critical(logger, err.Error())
		return 1
	}
	task, err := gscodec.Read(f)
	_ = f.Close()
	if err != nil {
		logctx.Critical(logger, fmt.Sprintf("reading %s: %v", *taskPath, err))
		return 1
	}

	env := &driver.LocalEnvironment{Config: cfg, WorkDir: *workDir, Logger: logger}
	d := driver.NewDriver(env, *evaluatorPath, cfg.BatchSize, cfg.Deterministic, logger)
	engine := search.NewEngine(d, logger, generators()...)

	final, err := engine.Run(context.Background(), state.NewGrounded(task))
	if err != nil {
		// engine.Run already logged the critical cause; just report the
		// failing exit code.
		return 1
	}

	if err := gscodec.WriteFile(*outPath, final.GroundedTask); err != nil {
		logctx.Critical(logger, fmt.Sprintf("writing %s: %v", *outPath, err))
		return 1
	}
	return 0
}

func generators() []successor.Generator {
	return []successor.Generator{transform.DropOperator{}}
}
