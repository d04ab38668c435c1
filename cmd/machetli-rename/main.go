// Command machetli-rename rewrites a grounded task file's variable and
// operator names into opaque, size-stable placeholders, mirroring the
// original system's standalone rename script. It is used before handing a
// minimized task to a third party, so its names carry no information about
// the domain that produced it.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/silvanus-labs/machetli/internal/gscodec"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("machetli-rename", flag.ContinueOnError)
	in := fs.String("in", "", "path to the grounded task file to rename")
	out := fs.String("out", "", "path to write the renamed task file to")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *in == "" || *out == "" {
		fmt.Fprintln(os.Stderr, "machetli-rename: -in and -out are required")
		return 2
	}

	f, err := os.Open(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "machetli-rename: %v\n", err)
		return 1
	}
	defer f.Close()

	task, err := gscodec.Read(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "machetli-rename: %v\n", err)
		return 1
	}

	renamed, err := task.Rename()
	if err != nil {
		fmt.Fprintf(os.Stderr, "machetli-rename: %v\n", err)
		return 1
	}

	if err := gscodec.WriteFile(*out, renamed); err != nil {
		fmt.Fprintf(os.Stderr, "machetli-rename: %v\n", err)
		return 1
	}
	return 0
}
