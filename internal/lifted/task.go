// Package lifted models the lifted (domain + problem) PDDL representation
// as an opaque payload. Parsing and serializing PDDL is out of scope: this
// package carries the raw file contents and the domain-discovery naming
// rules used by the evaluator shim, but never interprets PDDL syntax.
package lifted

// Task holds the raw bytes of a domain and problem file.
type Task struct {
	Domain  []byte
	Problem []byte
}

// DeepCopy returns a Task sharing no backing arrays with t.
func (t *Task) DeepCopy() *Task {
	return &Task{
		Domain:  append([]byte(nil), t.Domain...),
		Problem: append([]byte(nil), t.Problem...),
	}
}
