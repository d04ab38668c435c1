package lifted

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindDomainFile applies five automatic naming rules, in order, to locate
// a domain file alongside taskFilename. It returns the first candidate
// that exists on disk, or an error if none does.
func FindDomainFile(taskFilename string) (string, error) {
	dir, base := filepath.Split(taskFilename)
	ext := filepath.Ext(base)
	root := base[:len(base)-len(ext)]

	prefix3 := base
	if len(prefix3) > 3 {
		prefix3 = prefix3[:3]
	}

	candidates := []string{
		filepath.Join(dir, "domain.pddl"),
		filepath.Join(dir, root+"-domain"+ext),
		filepath.Join(dir, prefix3+"-domain.pddl"),
		filepath.Join(dir, "domain_"+base),
		filepath.Join(dir, "domain-"+base),
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("lifted: could not find domain file for %s using automatic naming rules", taskFilename)
}
