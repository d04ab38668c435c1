package gstask

import "fmt"

type (
	// Fact is a (variable index, value) pair.
	Fact struct {
		Var int
		Val int
	}

	// Variable is a finite-domain state variable. AxiomLayer is -1 for
	// variables that are not derived.
	Variable struct {
		DomainSize int
		AxiomLayer int
		ValueNames []string
	}

	// MutexGroup is a set of facts that are pairwise mutually exclusive.
	MutexGroup struct {
		Facts []Fact
	}

	// Effect conditionally assigns Var the value Post, provided Var
	// currently holds Pre (or any value, if Pre is -1), and every fact in
	// Cond holds.
	Effect struct {
		Var  int
		Pre  int
		Post int
		Cond []Fact
	}

	// Operator is a grounded action: a set of unconditional prevail facts
	// that must hold and are never changed, plus a set of effects.
	Operator struct {
		Name    string
		Prevail []Fact
		Effects []Effect
		Cost    int
	}

	// Axiom derives a binary variable: Head.Val is the new value, the old
	// value is always 1-Head.Val.
	Axiom struct {
		Body []Fact
		Head Fact
	}

	// Task is a grounded planning task. Values are not mutated in place;
	// transformations such as Rename return a fresh Task.
	Task struct {
		Variables      []Variable
		MutexGroups    []MutexGroup
		Init           []int
		Goal           []Fact
		Operators      []Operator
		Axioms         []Axiom
		UseActionCosts bool
	}
)

// New validates parts and returns a Task, or a *ValidationError.
func New(variables []Variable, mutexGroups []MutexGroup, init []int, goal []Fact, operators []Operator, axioms []Axiom, useActionCosts bool) (*Task, error) {
	t := &Task{
		Variables:      variables,
		MutexGroups:    mutexGroups,
		Init:           init,
		Goal:           goal,
		Operators:      operators,
		Axioms:         axioms,
		UseActionCosts: useActionCosts,
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Task) legalFact(f Fact) error {
	if f.Var < 0 || f.Var >= len(t.Variables) {
		return fmt.Errorf("variable index %d out of range [0,%d)", f.Var, len(t.Variables))
	}
	if f.Val < 0 || f.Val >= t.Variables[f.Var].DomainSize {
		return fmt.Errorf("value %d out of range for variable %d (domain size %d)", f.Val, f.Var, t.Variables[f.Var].DomainSize)
	}
	return nil
}

func (t *Task) legalFacts(facts []Fact) error {
	for _, f := range facts {
		if err := t.legalFact(f); err != nil {
			return err
		}
	}
	return nil
}

// validate checks the structural invariants of a Task. It is called once,
// by New, and again after Rename (which only touches names, so it cannot
// fail, but re-checking documents the guarantee cheaply).
func (t *Task) validate() error {
	if len(t.Init) != len(t.Variables) {
		return &ValidationError{Reason: fmt.Sprintf("init has %d entries, expected %d (one per variable)", len(t.Init), len(t.Variables))}
	}
	for i, v := range t.Init {
		if v < 0 || v >= t.Variables[i].DomainSize {
			return &ValidationError{Reason: fmt.Sprintf("init value %d for variable %d out of range [0,%d)", v, i, t.Variables[i].DomainSize)}
		}
	}

	for gi, mg := range t.MutexGroups {
		if err := t.legalFacts(mg.Facts); err != nil {
			return &ValidationError{Reason: fmt.Sprintf("mutex group %d: %v", gi, err)}
		}
	}

	if len(t.Goal) == 0 {
		return &ValidationError{Reason: "goal must be non-empty"}
	}
	if err := t.legalFacts(t.Goal); err != nil {
		return &ValidationError{Reason: fmt.Sprintf("goal: %v", err)}
	}

	for oi, op := range t.Operators {
		if err := t.legalFacts(op.Prevail); err != nil {
			return &ValidationError{Reason: fmt.Sprintf("operator %d (%s) prevail: %v", oi, op.Name, err)}
		}
		for ei, eff := range op.Effects {
			if eff.Var < 0 || eff.Var >= len(t.Variables) {
				return &ValidationError{Reason: fmt.Sprintf("operator %d (%s) effect %d: variable index %d out of range", oi, op.Name, ei, eff.Var)}
			}
			domain := t.Variables[eff.Var].DomainSize
			if eff.Pre != -1 && (eff.Pre < 0 || eff.Pre >= domain) {
				return &ValidationError{Reason: fmt.Sprintf("operator %d (%s) effect %d: pre %d out of range [-1,%d)", oi, op.Name, ei, eff.Pre, domain)}
			}
			if eff.Post < 0 || eff.Post >= domain {
				return &ValidationError{Reason: fmt.Sprintf("operator %d (%s) effect %d: post %d out of range [0,%d)", oi, op.Name, ei, eff.Post, domain)}
			}
			if err := t.legalFacts(eff.Cond); err != nil {
				return &ValidationError{Reason: fmt.Sprintf("operator %d (%s) effect %d condition: %v", oi, op.Name, ei, err)}
			}
		}
	}

	for ai, ax := range t.Axioms {
		if err := t.legalFacts(ax.Body); err != nil {
			return &ValidationError{Reason: fmt.Sprintf("axiom %d body: %v", ai, err)}
		}
		if err := t.legalFact(ax.Head); err != nil {
			return &ValidationError{Reason: fmt.Sprintf("axiom %d head: %v", ai, err)}
		}
		hv := t.Variables[ax.Head.Var]
		if hv.AxiomLayer < 0 {
			return &ValidationError{Reason: fmt.Sprintf("axiom %d head variable %d is not derived (axiom layer %d)", ai, ax.Head.Var, hv.AxiomLayer)}
		}
		if hv.DomainSize != 2 {
			return &ValidationError{Reason: fmt.Sprintf("axiom %d head variable %d has domain size %d, expected 2", ai, ax.Head.Var, hv.DomainSize)}
		}
	}

	return nil
}

// DeepCopy returns a Task sharing no backing arrays with t.
func (t *Task) DeepCopy() *Task {
	out := &Task{
		Variables:      make([]Variable, len(t.Variables)),
		MutexGroups:    append([]MutexGroup(nil), t.MutexGroups...),
		Init:           append([]int(nil), t.Init...),
		Goal:           append([]Fact(nil), t.Goal...),
		Operators:      make([]Operator, len(t.Operators)),
		Axioms:         append([]Axiom(nil), t.Axioms...),
		UseActionCosts: t.UseActionCosts,
	}
	for i, v := range t.Variables {
		out.Variables[i] = Variable{
			DomainSize: v.DomainSize,
			AxiomLayer: v.AxiomLayer,
			ValueNames: append([]string(nil), v.ValueNames...),
		}
	}
	for i, mg := range t.MutexGroups {
		out.MutexGroups[i] = MutexGroup{Facts: append([]Fact(nil), mg.Facts...)}
	}
	for i, op := range t.Operators {
		out.Operators[i] = Operator{
			Name:    op.Name,
			Prevail: append([]Fact(nil), op.Prevail...),
			Effects: make([]Effect, len(op.Effects)),
			Cost:    op.Cost,
		}
		for j, eff := range op.Effects {
			out.Operators[i].Effects[j] = Effect{
				Var:  eff.Var,
				Pre:  eff.Pre,
				Post: eff.Post,
				Cond: append([]Fact(nil), eff.Cond...),
			}
		}
	}
	for i, ax := range t.Axioms {
		out.Axioms[i] = Axiom{Body: append([]Fact(nil), ax.Body...), Head: ax.Head}
	}
	return out
}
