package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/config"
	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/planner"
	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/scheduler"
	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/utils"
	"github.com/spf13/cobra"
)

var planOpts struct {
	workflow   string
	nworkers   int
	nthreads   int
	workerType string
	memPerCPU  int
	customArgs string
	walltime   string
	output     outputFormat
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Preview the allocation for a workflow without reading keywords",
	Long: `Size the scheduler allocation for the given workflow settings and print it.

Nothing is written. For SLURM sites the equivalent sbatch options are shown.`,
	Example: `  candle-preprocess plan --site biowulf --nworkers 20 --nthreads 2
  candle-preprocess plan --site biowulf --worker-type v100 --nworkers 4 -o yaml
  candle-preprocess plan --site summit-tf1 --workflow bayesian --nworkers 10 -o json`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runPlan,
}

func init() {
	f := planCmd.Flags()
	f.StringVarP(&planOpts.workflow, "workflow", "w", "grid", "Workflow: grid or bayesian")
	f.IntVarP(&planOpts.nworkers, "nworkers", "n", 1, "Number of workers")
	f.IntVarP(&planOpts.nthreads, "nthreads", "t", 1, "Threads per worker")
	f.StringVarP(&planOpts.workerType, "worker-type", "g", "cpu", "Worker type: cpu or a GPU model")
	f.IntVar(&planOpts.memPerCPU, "mem-per-cpu", 7, "Memory per core in GB")
	f.StringVar(&planOpts.customArgs, "custom-args", "", "Extra scheduler options passed through verbatim")
	f.StringVar(&planOpts.walltime, "walltime", "", "Walltime (default: the site default)")
	addOutputFlag(planCmd, &planOpts.output)

	_ = planCmd.RegisterFlagCompletionFunc("workflow", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"grid", "bayesian"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = planCmd.RegisterFlagCompletionFunc("worker-type", workerTypeCompletion)

	rootCmd.AddCommand(planCmd)
}

// planResult is the encoded form of a plan preview.
type planResult struct {
	Scheduler  string             `yaml:"scheduler" json:"scheduler"`
	Walltime   string             `yaml:"walltime,omitempty" json:"walltime,omitempty"`
	Allocation planner.Allocation `yaml:"allocation" json:"allocation"`
	Directives []string           `yaml:"directives" json:"directives"`
}

func runPlan(cmd *cobra.Command, args []string) error {
	site, err := activeSite()
	if err != nil {
		return err
	}

	req, err := planRequest(site)
	if err != nil {
		return err
	}

	renderer, err := scheduler.RendererFor(site.Scheduler)
	if err != nil {
		return err
	}

	walltime := planOpts.walltime
	if walltime == "" {
		walltime = site.DefaultWalltime
	}
	d, err := scheduler.ParseWalltime(renderer.Type(), walltime)
	if err != nil {
		return fmt.Errorf("--walltime: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("--walltime must be longer than zero, got %q", walltime)
	}
	walltime = scheduler.FormatWalltime(renderer.Type(), d)

	alloc := planner.Plan(req)
	job := scheduler.Job{Workflow: planOpts.workflow, Walltime: walltime}
	result := planResult{
		Scheduler:  string(renderer.Type()),
		Walltime:   walltime,
		Allocation: alloc,
		Directives: renderer.Directives(alloc, job),
	}

	out := cmd.OutOrStdout()
	if planOpts.output != outputTable {
		return encode(out, planOpts.output, result)
	}

	for _, n := range alloc.Notices {
		utils.PrintNote("%s", n.Message)
	}
	utils.PrintTable(out, utils.StyleTitle(fmt.Sprintf("Allocation for %s (%s):", site.Name, alloc.Strategy)), allocationRows(alloc))
	fmt.Fprintln(out)
	if slurm, ok := renderer.(scheduler.SlurmRenderer); ok {
		fmt.Fprintf(out, "sbatch %s\n", slurm.SbatchOptions(alloc, job))
	} else {
		fmt.Fprintf(out, "bsub %s\n", scheduler.CommandLine(renderer, alloc, job))
	}
	return nil
}

// planRequest validates the plan flags against site.
func planRequest(site config.Site) (planner.Request, error) {
	workflow, err := planner.ParseWorkflowKind(planOpts.workflow)
	if err != nil {
		return planner.Request{}, fmt.Errorf("--workflow: %w", err)
	}
	for name, v := range map[string]int{
		"nworkers":    planOpts.nworkers,
		"nthreads":    planOpts.nthreads,
		"mem-per-cpu": planOpts.memPerCPU,
	} {
		if v < 1 {
			return planner.Request{}, fmt.Errorf("--%s must be a positive integer, got %d", name, v)
		}
	}

	workerType := strings.ToLower(strings.TrimSpace(planOpts.workerType))
	if workerType != "cpu" {
		workerType = scheduler.NormalizeGpuType(workerType)
	}
	if valid := site.ValidWorkerTypes(); !slices.Contains(valid, workerType) {
		return planner.Request{}, fmt.Errorf("--worker-type %q is not available on %s (valid: %s)",
			planOpts.workerType, site.Name, strings.Join(valid, ", "))
	}

	return planner.Request{
		Workflow:            workflow,
		RequestedWorkers:    planOpts.nworkers,
		ThreadsPerWorker:    planOpts.nthreads,
		Worker:              planner.ParseWorkerKind(workerType),
		MemPerCoreGB:        planOpts.memPerCPU,
		CustomSchedulerArgs: planOpts.customArgs,
		Site:                site.Profile(),
	}, nil
}

// allocationRows lists the allocation fields shown in table output.
func allocationRows(a planner.Allocation) []utils.KeyValue {
	rows := []utils.KeyValue{
		{Key: "total_tasks", Value: a.TotalTasks},
		{Key: "tasks_per_node", Value: a.TasksPerNode},
		{Key: "node_count", Value: a.NodeCount},
		{Key: "requested_workers", Value: a.RequestedWorkers},
		{Key: "adjusted_workers", Value: a.AdjustedWorkers},
		{Key: "coordinators", Value: a.CoordinatorProcesses},
		{Key: "cpus_per_task", Value: a.CPUsPerTask},
		{Key: "mem_per_core_gb", Value: a.MemPerCoreGB},
	}
	if a.Partition != planner.PartitionNone {
		rows = append(rows, utils.KeyValue{Key: "partition", Value: fmt.Sprintf("%s (%s)", a.Queue, a.Partition)})
	}
	if a.GPUResource != "" {
		rows = append(rows, utils.KeyValue{Key: "gpu", Value: fmt.Sprintf("%s x%d per task", a.GPUResource, a.GPUsPerTask)})
	}
	return rows
}
