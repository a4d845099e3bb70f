package deps

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Requirement defines an external dependency the pipeline relies on.
type Requirement struct {
	Name        string
	Command     string
	Path        string
	Description string
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Description string
	Available   bool
	Detail      string
}

// Check evaluates the provided requirements and reports availability. A
// requirement with a Command is resolved via PATH; one with a Path must be
// an existing regular file.
func Check(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		status := Status{
			Name:        req.Name,
			Description: strings.TrimSpace(req.Description),
		}
		switch {
		case strings.TrimSpace(req.Command) != "":
			if resolved, err := exec.LookPath(req.Command); err != nil {
				status.Detail = fmt.Sprintf("binary %q not found", req.Command)
			} else {
				status.Available = true
				status.Detail = resolved
			}
		case strings.TrimSpace(req.Path) != "":
			info, err := os.Stat(req.Path)
			switch {
			case err != nil:
				status.Detail = fmt.Sprintf("file %q not found", req.Path)
			case info.IsDir():
				status.Detail = fmt.Sprintf("%q is a directory", req.Path)
			default:
				status.Available = true
				status.Detail = req.Path
			}
		default:
			status.Detail = "requirement not configured"
		}
		results = append(results, status)
	}
	return results
}

// Missing returns the unavailable statuses from a check result.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available {
			missing = append(missing, status)
		}
	}
	return missing
}
