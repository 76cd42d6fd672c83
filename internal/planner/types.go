// Package planner sizes batch-scheduler allocations for distributed workflow jobs.
//
// Everything here is pure arithmetic over immutable inputs: no I/O, no logging,
// no shared state. Plan may be called concurrently from any number of goroutines.
package planner

import (
	"fmt"
	"strings"
)

// WorkflowKind selects the workflow driver, which fixes how many coordinator
// processes run alongside the workers.
type WorkflowKind int

const (
	Grid WorkflowKind = iota
	Bayesian
)

// CoordinatorProcesses returns the number of non-worker tasks the workflow engine needs.
func (w WorkflowKind) CoordinatorProcesses() int {
	if w == Bayesian {
		return 2
	}
	return 1
}

func (w WorkflowKind) String() string {
	switch w {
	case Grid:
		return "grid"
	case Bayesian:
		return "bayesian"
	default:
		return fmt.Sprintf("WorkflowKind(%d)", int(w))
	}
}

// ParseWorkflowKind maps "grid" / "bayesian" (any case) to a WorkflowKind.
func ParseWorkflowKind(s string) (WorkflowKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grid":
		return Grid, nil
	case "bayesian":
		return Bayesian, nil
	}
	return Grid, fmt.Errorf("unknown workflow %q (expected grid or bayesian)", s)
}

// WorkerKind is either CPU-only (empty Model) or GPU-attached with a model tag.
type WorkerKind struct {
	Model string
}

// CPU returns the CPU-only worker kind.
func CPU() WorkerKind { return WorkerKind{} }

// GPU returns a GPU worker kind for the given model (e.g. "v100").
func GPU(model string) WorkerKind { return WorkerKind{Model: model} }

// IsGPU reports whether workers reserve a GPU.
func (k WorkerKind) IsGPU() bool { return k.Model != "" }

func (k WorkerKind) String() string {
	if k.IsGPU() {
		return k.Model
	}
	return "cpu"
}

// ParseWorkerKind maps the worker_type keyword to a WorkerKind. "cpu" is CPU-only,
// anything else is taken as a GPU model name.
func ParseWorkerKind(s string) WorkerKind {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "cpu" {
		return CPU()
	}
	return GPU(s)
}

// Layout names the packing model a site's nodes follow.
type Layout string

const (
	// LayoutFixedPPN sites expose a fixed number of task slots per node.
	LayoutFixedPPN Layout = "fixed-ppn"
	// LayoutCoreCutoff sites are sized by a per-node core budget.
	LayoutCoreCutoff Layout = "core-cutoff"
)

// Partition is a site-independent partition tag. Sites map tags to queue names.
type Partition string

const (
	PartitionNone       Partition = ""
	PartitionSingleNode Partition = "single-node"
	PartitionMultiNode  Partition = "multi-node"
	PartitionGPU        Partition = "gpu"
)

// LaunchBinding is the fixed per-task launcher binding of a fixed-topology site.
type LaunchBinding struct {
	TasksPerResourceSet int `yaml:"tasks_per_rs" json:"tasks_per_rs" mapstructure:"tasks_per_rs"`
	CPUsPerResourceSet  int `yaml:"cpu_per_rs" json:"cpu_per_rs" mapstructure:"cpu_per_rs"`
	GPUsPerResourceSet  int `yaml:"gpu_per_rs" json:"gpu_per_rs" mapstructure:"gpu_per_rs"`
	Threads             int `yaml:"threads" json:"threads" mapstructure:"threads"`
}

// SiteProfile carries the topology constants of one HPC site.
type SiteProfile struct {
	Name   string
	Layout Layout

	// SlotsPerNode is P for LayoutFixedPPN sites.
	SlotsPerNode int
	// CoresPerNode is the core budget C for LayoutCoreCutoff sites.
	CoresPerNode int
	// TasksPerCore is the scheduler hint emitted for core-cutoff jobs.
	TasksPerCore int
	// ExclusiveGPUNodes routes GPU workers to the one-node-per-worker path.
	ExclusiveGPUNodes bool

	Launch     *LaunchBinding
	Partitions map[Partition]string
}

// Queue resolves a partition tag to the site's queue name. Unmapped tags are
// returned as-is.
func (s SiteProfile) Queue(p Partition) string {
	if q, ok := s.Partitions[p]; ok {
		return q
	}
	return string(p)
}

// Request is the validated input of one planning call.
type Request struct {
	Workflow            WorkflowKind
	RequestedWorkers    int
	ThreadsPerWorker    int
	Worker              WorkerKind
	MemPerCoreGB        int
	CustomSchedulerArgs string
	Site                SiteProfile
}

// NoticeKind classifies informational adjustments made while planning.
type NoticeKind string

const (
	NoticeWorkersIncreased NoticeKind = "workers-increased"
)

// Notice is a non-fatal message attached to an Allocation.
type Notice struct {
	Kind    NoticeKind `yaml:"kind" json:"kind"`
	Message string     `yaml:"message" json:"message"`
}

// Allocation is the scheduler-ready result of Plan.
type Allocation struct {
	Site     string `yaml:"site" json:"site"`
	Strategy string `yaml:"strategy" json:"strategy"`

	TotalTasks   int `yaml:"total_tasks" json:"total_tasks"`
	TasksPerNode int `yaml:"tasks_per_node" json:"tasks_per_node"`
	NodeCount    int `yaml:"node_count" json:"node_count"`

	Partition Partition `yaml:"partition,omitempty" json:"partition,omitempty"`
	Queue     string    `yaml:"queue,omitempty" json:"queue,omitempty"`

	GPUResource string `yaml:"gpu_resource,omitempty" json:"gpu_resource,omitempty"`
	GPUsPerTask int    `yaml:"gpus_per_task,omitempty" json:"gpus_per_task,omitempty"`

	RequestedWorkers     int `yaml:"requested_workers" json:"requested_workers"`
	AdjustedWorkers      int `yaml:"adjusted_workers" json:"adjusted_workers"`
	CoordinatorProcesses int `yaml:"coordinator_processes" json:"coordinator_processes"`

	CPUsPerTask         int            `yaml:"cpus_per_task" json:"cpus_per_task"`
	TasksPerCore        int            `yaml:"tasks_per_core,omitempty" json:"tasks_per_core,omitempty"`
	MemPerCoreGB        int            `yaml:"mem_per_core_gb" json:"mem_per_core_gb"`
	CustomSchedulerArgs string         `yaml:"custom_scheduler_args,omitempty" json:"custom_scheduler_args,omitempty"`
	Launch              *LaunchBinding `yaml:"launch,omitempty" json:"launch,omitempty"`

	Notices []Notice `yaml:"notices,omitempty" json:"notices,omitempty"`
}

// Adjusted reports whether the worker count was grown to fill allocated nodes.
func (a Allocation) Adjusted() bool {
	return a.AdjustedWorkers != a.RequestedWorkers
}
