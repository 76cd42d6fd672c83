package planner

// Packing is a strategy's answer for one task count.
type Packing struct {
	NodeCount    int
	TasksPerNode int
	Partition    Partition
	GPUResource  string
	GPUsPerTask  int
	TasksPerCore int
	Launch       *LaunchBinding
}

// Strategy sizes nodes for a given total task count.
type Strategy interface {
	// Name identifies the strategy in plan output.
	Name() string

	// FillsNodes reports whether Plan should grow the task total to
	// TasksPerNode*NodeCount when the packing leaves slots unused.
	FillsNodes() bool

	// Pack computes the node geometry for totalTasks tasks.
	Pack(totalTasks int, req Request) Packing
}

// CoreCutoffStrategy packs CPU-only jobs against a per-node core budget.
type CoreCutoffStrategy struct {
	CoresPerNode int
	TasksPerCore int
}

func (CoreCutoffStrategy) Name() string     { return "core-cutoff" }
func (CoreCutoffStrategy) FillsNodes() bool { return true }

func (s CoreCutoffStrategy) Pack(totalTasks int, req Request) Packing {
	nodes := ceilDiv(totalTasks*req.ThreadsPerWorker, s.CoresPerNode)
	if nodes < 1 {
		nodes = 1
	}
	p := Packing{
		NodeCount:    nodes,
		TasksPerNode: ceilDiv(totalTasks, nodes),
		Partition:    PartitionMultiNode,
		TasksPerCore: s.TasksPerCore,
	}
	if p.TasksPerCore < 1 {
		p.TasksPerCore = 1
	}
	if nodes == 1 {
		p.Partition = PartitionSingleNode
	}
	return p
}

// FixedPPNStrategy packs tasks onto nodes with a fixed number of slots.
type FixedPPNStrategy struct {
	SlotsPerNode int
	Launch       *LaunchBinding
}

func (FixedPPNStrategy) Name() string     { return "fixed-ppn" }
func (FixedPPNStrategy) FillsNodes() bool { return true }

func (s FixedPPNStrategy) Pack(totalTasks int, _ Request) Packing {
	return Packing{
		NodeCount:    ceilDiv(totalTasks, s.SlotsPerNode),
		TasksPerNode: s.SlotsPerNode,
		Partition:    PartitionNone,
		Launch:       s.Launch,
	}
}

// GPUStrategy reserves one GPU node per worker and spreads the coordinator
// processes over those nodes. GPUs are fully claimed per node, so there is
// nothing to fill: the task total is never grown on this path.
type GPUStrategy struct{}

func (GPUStrategy) Name() string     { return "gpu-per-node" }
func (GPUStrategy) FillsNodes() bool { return false }

func (GPUStrategy) Pack(_ int, req Request) Packing {
	workers := req.RequestedWorkers
	return Packing{
		NodeCount:    workers,
		TasksPerNode: 1 + ceilDiv(req.Workflow.CoordinatorProcesses(), workers),
		Partition:    PartitionGPU,
		GPUResource:  req.Worker.Model,
		GPUsPerTask:  1,
	}
}

// SelectStrategy picks the sizing strategy by capability: GPU workers on sites
// with exclusive GPU nodes take the GPU path, otherwise the site layout decides.
func SelectStrategy(site SiteProfile, worker WorkerKind) Strategy {
	if worker.IsGPU() && site.ExclusiveGPUNodes {
		return GPUStrategy{}
	}
	if site.Layout == LayoutFixedPPN {
		return FixedPPNStrategy{SlotsPerNode: site.SlotsPerNode, Launch: site.Launch}
	}
	return CoreCutoffStrategy{CoresPerNode: site.CoresPerNode, TasksPerCore: site.TasksPerCore}
}

// ceilDiv returns ceil(a/b) for positive b.
func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}
