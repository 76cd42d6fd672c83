package scheduler

import (
	"fmt"

	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/planner"
)

// LsfRenderer renders allocations for LSF sites launched through bsub/jsrun.
type LsfRenderer struct{}

func (LsfRenderer) Type() SchedulerType { return SchedulerLSF }

// LaunchOptions returns the jsrun resource-set binding of a fixed-topology site.
func (LsfRenderer) LaunchOptions(alloc planner.Allocation) string {
	b := alloc.Launch
	if b == nil {
		return ""
	}
	return fmt.Sprintf("--tasks_per_rs=%d --cpu_per_rs=%d --gpu_per_rs=%d --bind=packed:%d --launch_distribution=packed -E OMP_NUM_THREADS=%d",
		b.TasksPerResourceSet, b.CPUsPerResourceSet, b.GPUsPerResourceSet, b.CPUsPerResourceSet, b.Threads)
}

// Directives returns the bsub options for the allocation.
func (LsfRenderer) Directives(alloc planner.Allocation, job Job) []string {
	var out []string
	if job.Project != "" {
		out = append(out, "-P "+job.Project)
	}
	out = append(out, fmt.Sprintf("-nnodes %d", alloc.NodeCount))
	if job.Walltime != "" {
		out = append(out, "-W "+job.Walltime)
	}
	if job.Queue != "" {
		out = append(out, "-q "+job.Queue)
	}
	if alloc.CustomSchedulerArgs != "" {
		out = append(out, alloc.CustomSchedulerArgs)
	}
	return out
}

// Exports returns PROCS, PPN, TURBINE_LAUNCH_OPTIONS, PROJECT, NODES,
// WALLTIME and QUEUE followed by the job's shared exports.
func (l LsfRenderer) Exports(alloc planner.Allocation, job Job) []Export {
	out := []Export{
		procsExport(alloc),
		{Name: "PPN", Value: fmt.Sprintf("%d", alloc.TasksPerNode)},
	}
	if launch := l.LaunchOptions(alloc); launch != "" {
		out = append(out, Export{Name: "TURBINE_LAUNCH_OPTIONS", Value: launch})
	}
	out = append(out,
		Export{Name: "PROJECT", Value: job.Project},
		Export{Name: "NODES", Value: fmt.Sprintf("%d", alloc.NodeCount)},
		Export{Name: "WALLTIME", Value: job.Walltime},
		Export{Name: "QUEUE", Value: job.Queue},
	)
	return append(out, job.Env...)
}
