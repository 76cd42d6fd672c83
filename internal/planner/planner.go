package planner

import "fmt"

// Selector chooses the sizing strategy for a site and worker kind.
type Selector func(site SiteProfile, worker WorkerKind) Strategy

// Planner turns requests into allocations using a strategy selector.
type Planner struct {
	selector Selector
}

// Option configures a Planner.
type Option func(*Planner)

// WithSelector overrides the default capability-based strategy selection.
func WithSelector(sel Selector) Option {
	return func(p *Planner) {
		if sel != nil {
			p.selector = sel
		}
	}
}

// New returns a Planner using SelectStrategy unless overridden.
func New(opts ...Option) *Planner {
	p := &Planner{selector: SelectStrategy}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultPlanner = New()

// Plan sizes req with the default planner.
func Plan(req Request) Allocation {
	return defaultPlanner.Plan(req)
}

// Plan computes the allocation for req. It never fails for validated input and
// never returns fewer workers than requested: when a filling strategy leaves
// slots unused, the task total grows to occupy them and a notice is attached.
func (p *Planner) Plan(req Request) Allocation {
	coordinators := req.Workflow.CoordinatorProcesses()
	total := req.RequestedWorkers + coordinators

	strategy := p.selector(req.Site, req.Worker)
	pk := strategy.Pack(total, req)

	alloc := Allocation{
		Site:                 req.Site.Name,
		Strategy:             strategy.Name(),
		TasksPerNode:         pk.TasksPerNode,
		NodeCount:            pk.NodeCount,
		Partition:            pk.Partition,
		GPUResource:          pk.GPUResource,
		GPUsPerTask:          pk.GPUsPerTask,
		RequestedWorkers:     req.RequestedWorkers,
		CoordinatorProcesses: coordinators,
		CPUsPerTask:          req.ThreadsPerWorker,
		TasksPerCore:         pk.TasksPerCore,
		MemPerCoreGB:         req.MemPerCoreGB,
		CustomSchedulerArgs:  req.CustomSchedulerArgs,
		Launch:               pk.Launch,
	}
	if pk.Partition != PartitionNone {
		alloc.Queue = req.Site.Queue(pk.Partition)
	}

	if strategy.FillsNodes() {
		if packed := pk.TasksPerNode * pk.NodeCount; packed > total {
			total = packed
			alloc.Notices = append(alloc.Notices, Notice{
				Kind: NoticeWorkersIncreased,
				Message: fmt.Sprintf("requested number of workers (%d) has been increased to %d in order to fill the required number of nodes (%d)",
					req.RequestedWorkers, total-coordinators, pk.NodeCount),
			})
		}
	}

	alloc.TotalTasks = total
	alloc.AdjustedWorkers = total - coordinators
	return alloc
}
