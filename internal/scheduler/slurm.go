package scheduler

import (
	"fmt"

	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/planner"
)

// SlurmRenderer renders allocations for SLURM sites launched through sbatch/srun.
type SlurmRenderer struct{}

func (SlurmRenderer) Type() SchedulerType { return SchedulerSLURM }

// SbatchArgs returns the resource options handed to sbatch through TURBINE_SBATCH_ARGS.
func (SlurmRenderer) SbatchArgs(alloc planner.Allocation) string {
	return joinArgs(
		gresOption(alloc),
		alloc.CustomSchedulerArgs,
		fmt.Sprintf("--mem-per-cpu=%dG", alloc.MemPerCoreGB),
		fmt.Sprintf("--cpus-per-task=%d", alloc.CPUsPerTask),
		fmt.Sprintf("--ntasks-per-core=%d", tasksPerCore(alloc)),
		fmt.Sprintf("--nodes=%d", alloc.NodeCount),
	)
}

// LaunchOptions returns the srun options for GPU jobs, "" otherwise.
func (SlurmRenderer) LaunchOptions(alloc planner.Allocation) string {
	if alloc.GPUResource == "" {
		return ""
	}
	return fmt.Sprintf("--ntasks=%d --distribution=cyclic", alloc.TotalTasks)
}

// Directives returns the full sbatch option list for the allocation.
func (s SlurmRenderer) Directives(alloc planner.Allocation, job Job) []string {
	var out []string
	out = append(out, fmt.Sprintf("--ntasks=%d", alloc.TotalTasks))
	if g := gresOption(alloc); g != "" {
		out = append(out, g)
	}
	if alloc.CustomSchedulerArgs != "" {
		out = append(out, alloc.CustomSchedulerArgs)
	}
	out = append(out,
		fmt.Sprintf("--mem-per-cpu=%dG", alloc.MemPerCoreGB),
		fmt.Sprintf("--cpus-per-task=%d", alloc.CPUsPerTask),
		fmt.Sprintf("--ntasks-per-core=%d", tasksPerCore(alloc)),
	)
	if alloc.Queue != "" {
		out = append(out, fmt.Sprintf("--partition=%s", alloc.Queue))
	}
	if job.Walltime != "" {
		out = append(out, fmt.Sprintf("--time=%s", job.Walltime))
	}
	out = append(out,
		fmt.Sprintf("--ntasks-per-node=%d", alloc.TasksPerNode),
		fmt.Sprintf("--nodes=%d", alloc.NodeCount),
	)
	return out
}

// Exports returns PROCS, TURBINE_SBATCH_ARGS, TURBINE_LAUNCH_OPTIONS (GPU
// jobs only), QUEUE, PPN and WALLTIME followed by the job's shared exports.
func (s SlurmRenderer) Exports(alloc planner.Allocation, job Job) []Export {
	out := []Export{
		procsExport(alloc),
		{Name: "TURBINE_SBATCH_ARGS", Value: s.SbatchArgs(alloc)},
	}
	if launch := s.LaunchOptions(alloc); launch != "" {
		out = append(out, Export{Name: "TURBINE_LAUNCH_OPTIONS", Value: launch})
	}
	out = append(out,
		Export{Name: "QUEUE", Value: alloc.Queue},
		Export{Name: "PPN", Value: fmt.Sprintf("%d", alloc.TasksPerNode)},
		Export{Name: "WALLTIME", Value: job.Walltime},
	)
	return append(out, job.Env...)
}

func gresOption(alloc planner.Allocation) string {
	if alloc.GPUResource == "" {
		return ""
	}
	count := alloc.GPUsPerTask
	if count < 1 {
		count = 1
	}
	return fmt.Sprintf("--gres=gpu:%s:%d", alloc.GPUResource, count)
}

// tasksPerCore defaults to one task per core, which SLURM sites recommend for
// MPI launches on every path.
func tasksPerCore(alloc planner.Allocation) int {
	if alloc.TasksPerCore < 1 {
		return 1
	}
	return alloc.TasksPerCore
}

// SbatchOptions renders the full sbatch option line for a job preview.
func (s SlurmRenderer) SbatchOptions(alloc planner.Allocation, job Job) string {
	return CommandLine(s, alloc, job)
}
