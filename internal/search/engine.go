package search

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/silvanus-labs/machetli/internal/driver"
	"github.com/silvanus-labs/machetli/internal/logctx"
	"github.com/silvanus-labs/machetli/internal/state"
	"github.com/silvanus-labs/machetli/internal/successor"
)

// Engine runs the first-choice hill-climbing loop: verify the initial
// state, then repeatedly replace the current state with the first
// successor the driver accepts as improving, until none is.
type Engine struct {
	Driver     *driver.Driver
	Generators []successor.Generator
	Logger     zerolog.Logger
}

// NewEngine constructs an Engine. It panics if d is nil or no generators
// are given, since a search with nothing to search over is a programmer
// error, not a runtime condition.
func NewEngine(d *driver.Driver, logger zerolog.Logger, generators ...successor.Generator) *Engine {
	if d == nil {
		panic("search: driver must not be nil")
	}
	if len(generators) == 0 {
		panic("search: at least one successor generator is required")
	}
	return &Engine{Driver: d, Generators: generators, Logger: logger}
}

// Run verifies initial, then hill-climbs from it. It returns the final
// accepted state, which is initial itself if no successor ever improved on
// it.
func (e *Engine) Run(ctx context.Context, initial *state.State) (*state.State, error) {
	if err := e.verifyInitial(ctx, initial); err != nil {
		return nil, err
	}

	gen := successor.Composite(e.Generators...)
	current := initial
	for {
		verdict, err := e.Driver.Evaluate(ctx, gen.Successors(current))
		if err != nil {
			logctx.Critical(e.Logger, err.Error())
			return nil, err
		}
		if verdict.Improving == nil {
			e.Logger.Info().Msg(verdict.Message)
			return current, nil
		}
		e.Logger.Info().Str("change", verdict.Improving.ChangeMessage).Msg("accepted an improving successor")
		current = verdict.Improving.State
	}
}

func (e *Engine) verifyInitial(ctx context.Context, initial *state.State) error {
	result, err := e.Driver.EvaluateOne(ctx, successor.Successor{State: initial})
	if err != nil {
		logctx.Critical(e.Logger, err.Error())
		return err
	}

	switch result.Status {
	case driver.BehaviorPresent:
		return nil

	case driver.BehaviorNotPresent:
		msg := "the evaluator reported the behavior is not present in the initial state"
		logctx.Critical(e.Logger, msg)
		return &InitialLacksProperty{Message: msg}

	case driver.OutOfResources, driver.Critical:
		// Aborts the search, with a critical log line, only when running
		// deterministically; eager mode logs a warning and continues.
		if e.Driver.Deterministic {
			logctx.Critical(e.Logger, describeInitialFailure(result))
			return &InitialCheckFailed{Reason: describeInitialFailure(result)}
		}
		e.Logger.Warn().Msg(describeInitialFailure(result))
		return nil

	case driver.Canceled:
		panic("search: initial-state check observed a Canceled result; a single-candidate batch has no peer to be canceled in favor of")

	default:
		panic(fmt.Sprintf("search: unrecognized evaluator status %v", result.Status))
	}
}

func describeInitialFailure(r driver.Result) string {
	if r.ErrorMsg != "" {
		return r.ErrorMsg
	}
	return r.Status.String()
}
