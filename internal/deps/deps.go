package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external binary romkit relies on. When Command is
// empty, the first of Alternatives found on PATH satisfies it.
type Requirement struct {
	Name         string
	Command      string
	Alternatives []string
	Description  string
	Optional     bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Path        string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		results = append(results, check(req))
	}
	return results
}

func check(req Requirement) Status {
	status := Status{
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		Optional:    req.Optional,
	}
	candidates := candidatesFor(req)
	if len(candidates) == 0 {
		status.Detail = "command not configured"
		return status
	}
	for _, cmd := range candidates {
		path, err := exec.LookPath(cmd)
		if err != nil {
			continue
		}
		status.Command = cmd
		status.Path = path
		status.Available = true
		return status
	}
	status.Command = candidates[0]
	if len(candidates) == 1 {
		status.Detail = fmt.Sprintf("binary %q not found", candidates[0])
	} else {
		status.Detail = fmt.Sprintf("none of %s found", strings.Join(quoteAll(candidates), ", "))
	}
	return status
}

func candidatesFor(req Requirement) []string {
	if cmd := strings.TrimSpace(req.Command); cmd != "" {
		return []string{cmd}
	}
	var out []string
	for _, alt := range req.Alternatives {
		if alt = strings.TrimSpace(alt); alt != "" {
			out = append(out, alt)
		}
	}
	return out
}

func quoteAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%q", v)
	}
	return out
}
