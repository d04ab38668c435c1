package gscodec

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/silvanus-labs/machetli/internal/gstask"
)

// lineSource is a strictly single-pass, non-peeking cursor over the input.
// It hands out one line at a time and never looks at a line before the
// caller consumes it.
type lineSource struct {
	sc   *bufio.Scanner
	line int
}

func newLineSource(r io.Reader) *lineSource {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return &lineSource{sc: sc}
}

func (s *lineSource) next() (string, error) {
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return "", fmt.Errorf("gscodec: reading line %d: %w", s.line+1, err)
		}
		return "", &ParseError{Line: s.line + 1, Expected: "another line", Found: "end of input"}
	}
	s.line++
	return s.sc.Text(), nil
}

func (s *lineSource) expect(want string) error {
	line, err := s.next()
	if err != nil {
		return err
	}
	if line != want {
		return &ParseError{Line: s.line, Expected: want, Found: line}
	}
	return nil
}

func (s *lineSource) expectInt() (int, error) {
	line, err := s.next()
	if err != nil {
		return 0, err
	}
	v, convErr := strconv.Atoi(strings.TrimSpace(line))
	if convErr != nil {
		return 0, &ParseError{Line: s.line, Expected: "integer", Found: line}
	}
	return v, nil
}

func (s *lineSource) expectInts(n int) ([]int, error) {
	line, err := s.next()
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(line)
	if len(fields) != n {
		return nil, &ParseError{Line: s.line, Expected: fmt.Sprintf("%d integers", n), Found: line}
	}
	out := make([]int, n)
	for i, f := range fields {
		v, convErr := strconv.Atoi(f)
		if convErr != nil {
			return nil, &ParseError{Line: s.line, Expected: "integer", Found: f}
		}
		out[i] = v
	}
	return out, nil
}

func (s *lineSource) expectFact() (gstask.Fact, error) {
	ints, err := s.expectInts(2)
	if err != nil {
		return gstask.Fact{}, err
	}
	return gstask.Fact{Var: ints[0], Val: ints[1]}, nil
}

// Read parses the grounded-task format from r. Malformed input is reported
// as a *ParseError and well-formed input describing an invalid task as a
// *gstask.ValidationError; a failure reading from r is returned wrapped.
func Read(r io.Reader) (*gstask.Task, error) {
	s := newLineSource(r)

	if err := s.expect("begin_metric"); err != nil {
		return nil, err
	}
	metricLine, err := s.next()
	if err != nil {
		return nil, err
	}
	metric, err := parseBoolLine(s.line, metricLine)
	if err != nil {
		return nil, err
	}
	if err := s.expect("end_metric"); err != nil {
		return nil, err
	}

	numVars, err := s.expectInt()
	if err != nil {
		return nil, err
	}
	variables, err := readVariables(s, numVars)
	if err != nil {
		return nil, err
	}

	numMutex, err := s.expectInt()
	if err != nil {
		return nil, err
	}
	mutexGroups, err := readMutexGroups(s, numMutex)
	if err != nil {
		return nil, err
	}

	init, err := readInitState(s, numVars)
	if err != nil {
		return nil, err
	}

	goal, err := readGoal(s)
	if err != nil {
		return nil, err
	}

	numOperators, err := s.expectInt()
	if err != nil {
		return nil, err
	}
	operators, err := readOperators(s, numOperators)
	if err != nil {
		return nil, err
	}

	numAxioms, err := s.expectInt()
	if err != nil {
		return nil, err
	}
	axioms, err := readAxioms(s, numAxioms)
	if err != nil {
		return nil, err
	}

	return gstask.New(variables, mutexGroups, init, goal, operators, axioms, metric)
}

func parseBoolLine(line int, text string) (bool, error) {
	switch strings.TrimSpace(text) {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, &ParseError{Line: line, Expected: "0 or 1", Found: text}
	}
}

func readVariables(s *lineSource, n int) ([]gstask.Variable, error) {
	variables := make([]gstask.Variable, n)
	for i := 0; i < n; i++ {
		if err := s.expect("begin_variable"); err != nil {
			return nil, err
		}
		if _, err := s.next(); err != nil { // variable name, discarded
			return nil, err
		}
		axiomLayer, err := s.expectInt()
		if err != nil {
			return nil, err
		}
		domainSize, err := s.expectInt()
		if err != nil {
			return nil, err
		}
		valueNames := make([]string, domainSize)
		for j := 0; j < domainSize; j++ {
			name, err := s.next()
			if err != nil {
				return nil, err
			}
			valueNames[j] = name
		}
		if err := s.expect("end_variable"); err != nil {
			return nil, err
		}
		variables[i] = gstask.Variable{DomainSize: domainSize, AxiomLayer: axiomLayer, ValueNames: valueNames}
	}
	return variables, nil
}

func readMutexGroups(s *lineSource, n int) ([]gstask.MutexGroup, error) {
	groups := make([]gstask.MutexGroup, n)
	for i := 0; i < n; i++ {
		if err := s.expect("begin_mutex_group"); err != nil {
			return nil, err
		}
		numFacts, err := s.expectInt()
		if err != nil {
			return nil, err
		}
		facts := make([]gstask.Fact, numFacts)
		for j := 0; j < numFacts; j++ {
			f, err := s.expectFact()
			if err != nil {
				return nil, err
			}
			facts[j] = f
		}
		if err := s.expect("end_mutex_group"); err != nil {
			return nil, err
		}
		groups[i] = gstask.MutexGroup{Facts: facts}
	}
	return groups, nil
}

func readInitState(s *lineSource, numVars int) ([]int, error) {
	if err := s.expect("begin_state"); err != nil {
		return nil, err
	}
	init := make([]int, numVars)
	for i := 0; i < numVars; i++ {
		v, err := s.expectInt()
		if err != nil {
			return nil, err
		}
		init[i] = v
	}
	if err := s.expect("end_state"); err != nil {
		return nil, err
	}
	return init, nil
}

func readGoal(s *lineSource) ([]gstask.Fact, error) {
	if err := s.expect("begin_goal"); err != nil {
		return nil, err
	}
	numPairs, err := s.expectInt()
	if err != nil {
		return nil, err
	}
	goal := make([]gstask.Fact, numPairs)
	for i := 0; i < numPairs; i++ {
		f, err := s.expectFact()
		if err != nil {
			return nil, err
		}
		goal[i] = f
	}
	if err := s.expect("end_goal"); err != nil {
		return nil, err
	}
	return goal, nil
}

func readOperators(s *lineSource, n int) ([]gstask.Operator, error) {
	operators := make([]gstask.Operator, n)
	for i := 0; i < n; i++ {
		if err := s.expect("begin_operator"); err != nil {
			return nil, err
		}
		nameLine, err := s.next()
		if err != nil {
			return nil, err
		}
		numPrevail, err := s.expectInt()
		if err != nil {
			return nil, err
		}
		prevail := make([]gstask.Fact, numPrevail)
		for j := 0; j < numPrevail; j++ {
			f, err := s.expectFact()
			if err != nil {
				return nil, err
			}
			prevail[j] = f
		}
		numEffects, err := s.expectInt()
		if err != nil {
			return nil, err
		}
		effects := make([]gstask.Effect, numEffects)
		for j := 0; j < numEffects; j++ {
			eff, err := readEffectLine(s)
			if err != nil {
				return nil, err
			}
			effects[j] = eff
		}
		cost, err := s.expectInt()
		if err != nil {
			return nil, err
		}
		if err := s.expect("end_operator"); err != nil {
			return nil, err
		}
		operators[i] = gstask.Operator{Name: "(" + nameLine + ")", Prevail: prevail, Effects: effects, Cost: cost}
	}
	return operators, nil
}

func readEffectLine(s *lineSource) (gstask.Effect, error) {
	line, err := s.next()
	if err != nil {
		return gstask.Effect{}, err
	}
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return gstask.Effect{}, &ParseError{Line: s.line, Expected: "effect line (ncond (cv cval)* var pre post)", Found: line}
	}
	ints := make([]int, len(fields))
	for i, f := range fields {
		v, convErr := strconv.Atoi(f)
		if convErr != nil {
			return gstask.Effect{}, &ParseError{Line: s.line, Expected: "integer", Found: f}
		}
		ints[i] = v
	}
	numCond := ints[0]
	if len(ints) != 1+2*numCond+3 {
		return gstask.Effect{}, &ParseError{Line: s.line, Expected: fmt.Sprintf("effect line with %d condition pairs", numCond), Found: line}
	}
	cond := make([]gstask.Fact, numCond)
	for i := 0; i < numCond; i++ {
		cond[i] = gstask.Fact{Var: ints[1+2*i], Val: ints[1+2*i+1]}
	}
	tail := ints[len(ints)-3:]
	return gstask.Effect{Var: tail[0], Pre: tail[1], Post: tail[2], Cond: cond}, nil
}

func readAxioms(s *lineSource, n int) ([]gstask.Axiom, error) {
	axioms := make([]gstask.Axiom, n)
	for i := 0; i < n; i++ {
		if err := s.expect("begin_rule"); err != nil {
			return nil, err
		}
		lengthBody, err := s.expectInt()
		if err != nil {
			return nil, err
		}
		body := make([]gstask.Fact, lengthBody)
		for j := 0; j < lengthBody; j++ {
			f, err := s.expectFact()
			if err != nil {
				return nil, err
			}
			body[j] = f
		}
		ints, err := s.expectInts(3)
		if err != nil {
			return nil, err
		}
		varIdx, oldVal, newVal := ints[0], ints[1], ints[2]
		if oldVal != 1-newVal {
			return nil, &ParseError{Line: s.line, Expected: fmt.Sprintf("old value %d (1 - new value)", 1-newVal), Found: strconv.Itoa(oldVal)}
		}
		if err := s.expect("end_rule"); err != nil {
			return nil, err
		}
		axioms[i] = gstask.Axiom{Body: body, Head: gstask.Fact{Var: varIdx, Val: newVal}}
	}
	return axioms, nil
}
