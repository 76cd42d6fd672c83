// Package scheduler renders planned allocations into scheduler directives and
// shell export statements for the workflow launcher.
package scheduler

import (
	"fmt"
	"strings"

	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/planner"
)

// SchedulerType represents the type of job scheduler
type SchedulerType string

const (
	SchedulerUnknown SchedulerType = ""
	SchedulerSLURM   SchedulerType = "SLURM"
	SchedulerLSF     SchedulerType = "LSF"
)

// ParseType maps a scheduler name (any case) to a SchedulerType.
func ParseType(name string) SchedulerType {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "SLURM":
		return SchedulerSLURM
	case "LSF":
		return SchedulerLSF
	}
	return SchedulerUnknown
}

// Export is one `export NAME=VALUE` statement.
type Export struct {
	Name  string
	Value string
}

// Job holds the non-geometry settings a renderer needs besides the allocation.
type Job struct {
	Workflow string // Workflow keyword (grid, bayesian)
	Walltime string // Walltime in the scheduler's syntax
	Project  string // Allocation/project account (LSF sites)
	Queue    string // Queue keyword (fixed-topology sites)
	Env      []Export
}

// Renderer turns an allocation into scheduler-specific output.
type Renderer interface {
	// Type returns the scheduler this renderer targets.
	Type() SchedulerType

	// Directives returns the submission options that realize alloc, in the
	// order they would be passed to the submit command.
	Directives(alloc planner.Allocation, job Job) []string

	// Exports returns the variables run_workflows.sh sources before launching.
	Exports(alloc planner.Allocation, job Job) []Export
}

// CommandLine joins directives into a single option string.
func CommandLine(r Renderer, alloc planner.Allocation, job Job) string {
	return strings.Join(r.Directives(alloc, job), " ")
}

// procsExport is the task total every launcher reads.
func procsExport(alloc planner.Allocation) Export {
	return Export{Name: "PROCS", Value: fmt.Sprintf("%d", alloc.TotalTasks)}
}

// joinArgs joins non-empty option fragments with single spaces.
func joinArgs(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
