// Command machetli-shim is the evaluator subprocess the driver spawns once
// per candidate. It is a template: the evaluatePresence function below is
// the part a real evaluator replaces with whatever predicate defines the
// bug or behavior being minimized for. Everything else — locating the
// candidate's state, staging task artifacts, mapping the result onto the
// stable evaluator exit codes — is the part every evaluator shares.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/silvanus-labs/machetli/internal/driver"
	"github.com/silvanus-labs/machetli/internal/evalcode"
	"github.com/silvanus-labs/machetli/internal/gscodec"
	"github.com/silvanus-labs/machetli/internal/shim"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: machetli-shim <run_dir>")
		return evalcode.Critical
	}
	runDir := args[0]
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	in := shim.Input{BlobPath: filepath.Join(runDir, driver.StateBlobFileName)}
	return shim.Run(context.Background(), in, evaluatePresence, logger)
}

// evaluatePresence is the evaluator predicate. This placeholder reports
// the behavior present when the candidate's grounded task still has at
// least one operator; replace it with the actual minimization target.
func evaluatePresence(_ context.Context, paths ...string) (bool, error) {
	if len(paths) != 1 {
		return false, fmt.Errorf("expected exactly one grounded task artifact, got %d", len(paths))
	}
	f, err := os.Open(paths[0])
	if err != nil {
		return false, err
	}
	defer f.Close()

	task, err := gscodec.Read(f)
	if err != nil {
		return false, err
	}
	return len(task.Operators) > 0, nil
}
