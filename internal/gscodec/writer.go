package gscodec

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/silvanus-labs/machetli/internal/gstask"
)

// Write serializes t to w in the grounded-task format. Write is
// deterministic: the same Task always produces the same bytes.
func Write(w io.Writer, t *gstask.Task) error {
	bw := bufio.NewWriter(w)

	writeLine(bw, "begin_metric")
	writeLine(bw, boolLine(t.UseActionCosts))
	writeLine(bw, "end_metric")

	writeLine(bw, strconv.Itoa(len(t.Variables)))
	for i, v := range t.Variables {
		writeLine(bw, "begin_variable")
		writeLine(bw, "var"+strconv.Itoa(i))
		writeLine(bw, strconv.Itoa(v.AxiomLayer))
		writeLine(bw, strconv.Itoa(v.DomainSize))
		for _, name := range v.ValueNames {
			writeLine(bw, name)
		}
		writeLine(bw, "end_variable")
	}

	writeLine(bw, strconv.Itoa(len(t.MutexGroups)))
	for _, mg := range t.MutexGroups {
		writeLine(bw, "begin_mutex_group")
		writeLine(bw, strconv.Itoa(len(mg.Facts)))
		for _, f := range mg.Facts {
			writeFact(bw, f)
		}
		writeLine(bw, "end_mutex_group")
	}

	writeLine(bw, "begin_state")
	for _, v := range t.Init {
		writeLine(bw, strconv.Itoa(v))
	}
	writeLine(bw, "end_state")

	writeLine(bw, "begin_goal")
	writeLine(bw, strconv.Itoa(len(t.Goal)))
	for _, f := range t.Goal {
		writeFact(bw, f)
	}
	writeLine(bw, "end_goal")

	writeLine(bw, strconv.Itoa(len(t.Operators)))
	for _, op := range t.Operators {
		writeLine(bw, "begin_operator")
		writeLine(bw, strings.TrimSuffix(strings.TrimPrefix(op.Name, "("), ")"))
		writeLine(bw, strconv.Itoa(len(op.Prevail)))
		for _, f := range op.Prevail {
			writeFact(bw, f)
		}
		writeLine(bw, strconv.Itoa(len(op.Effects)))
		for _, eff := range op.Effects {
			writeEffectLine(bw, eff)
		}
		writeLine(bw, strconv.Itoa(op.Cost))
		writeLine(bw, "end_operator")
	}

	writeLine(bw, strconv.Itoa(len(t.Axioms)))
	for _, ax := range t.Axioms {
		writeLine(bw, "begin_rule")
		writeLine(bw, strconv.Itoa(len(ax.Body)))
		for _, f := range ax.Body {
			writeFact(bw, f)
		}
		oldVal := 1 - ax.Head.Val
		writeLine(bw, fmt.Sprintf("%d %d %d", ax.Head.Var, oldVal, ax.Head.Val))
		writeLine(bw, "end_rule")
	}

	return bw.Flush()
}

// WriteFile atomically writes t to path: the full content is staged in a
// temporary file in the same directory and renamed into place, so readers
// never observe a partially written task.
func WriteFile(path string, t *gstask.Task) (err error) {
	pf, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("gscodec: creating pending file for %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = pf.Cleanup()
		}
	}()

	if err = Write(pf, t); err != nil {
		return fmt.Errorf("gscodec: writing %s: %w", path, err)
	}
	if err = pf.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("gscodec: committing %s: %w", path, err)
	}
	return nil
}

func writeLine(w *bufio.Writer, s string) {
	_, _ = w.WriteString(s)
	_, _ = w.WriteString("\n")
}

func writeFact(w *bufio.Writer, f gstask.Fact) {
	writeLine(w, fmt.Sprintf("%d %d", f.Var, f.Val))
}

func writeEffectLine(w *bufio.Writer, eff gstask.Effect) {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", len(eff.Cond))
	for _, c := range eff.Cond {
		fmt.Fprintf(&b, " %d %d", c.Var, c.Val)
	}
	fmt.Fprintf(&b, " %d %d %d", eff.Var, eff.Pre, eff.Post)
	writeLine(w, b.String())
}

func boolLine(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
