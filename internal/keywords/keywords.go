package keywords

import (
	"strconv"

	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/config"
	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/planner"
	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/scheduler"
	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/utils"
)

// Keywords is the checked, typed set of input keywords for one submission.
type Keywords struct {
	ModelScript      string `yaml:"model_script" json:"model_script"`
	Workflow         string `yaml:"workflow" json:"workflow"`
	Walltime         string `yaml:"walltime" json:"walltime"`
	WorkerType       string `yaml:"worker_type" json:"worker_type"`
	NWorkers         int    `yaml:"nworkers" json:"nworkers"`
	NThreads         int    `yaml:"nthreads" json:"nthreads"`
	CustomSbatchArgs string `yaml:"custom_sbatch_args" json:"custom_sbatch_args"`
	MemPerCPU        int    `yaml:"mem_per_cpu" json:"mem_per_cpu"`
	Project          string `yaml:"project" json:"project"`
	DLBackend        string `yaml:"dl_backend" json:"dl_backend"`
	SuppModules      string `yaml:"supp_modules" json:"supp_modules"`
	PythonBinPath    string `yaml:"python_bin_path" json:"python_bin_path"`
	ExecPythonModule string `yaml:"exec_python_module" json:"exec_python_module"`
	SuppPythonPath   string `yaml:"supp_pythonpath" json:"supp_pythonpath"`
	ExtraScriptArgs  string `yaml:"extra_script_args" json:"extra_script_args"`
	ExecRModule      string `yaml:"exec_r_module" json:"exec_r_module"`
	SuppRLibs        string `yaml:"supp_r_libs" json:"supp_r_libs"`
	RunWorkflow      int    `yaml:"run_workflow" json:"run_workflow"`
	DryRun           int    `yaml:"dry_run" json:"dry_run"`
	Queue            string `yaml:"queue" json:"queue"`
	DefaultModelFile string `yaml:"default_model_file" json:"default_model_file"`
	ParamSpaceFile   string `yaml:"param_space_file" json:"param_space_file"`

	// Defaulted lists the keywords that were filled in from defaults.
	Defaulted []string `yaml:"-" json:"-"`
}

// Request builds the planner input for site.
func (k *Keywords) Request(site config.Site) planner.Request {
	// Workflow was validated by Resolve.
	workflow, _ := planner.ParseWorkflowKind(k.Workflow)
	return planner.Request{
		Workflow:            workflow,
		RequestedWorkers:    k.NWorkers,
		ThreadsPerWorker:    k.NThreads,
		Worker:              planner.ParseWorkerKind(k.WorkerType),
		MemPerCoreGB:        k.MemPerCPU,
		CustomSchedulerArgs: k.CustomSbatchArgs,
		Site:                site.Profile(),
	}
}

// Job returns the non-geometry settings the scheduler renderers need.
func (k *Keywords) Job() scheduler.Job {
	return scheduler.Job{
		Workflow: k.Workflow,
		Walltime: k.Walltime,
		Project:  k.Project,
		Queue:    k.Queue,
		Env:      k.Exports(),
	}
}

// Exports returns the scheduler-independent variables the launcher sources.
func (k *Keywords) Exports() []scheduler.Export {
	return []scheduler.Export{
		{Name: "WORKFLOW_TYPE", Value: k.Workflow},
		{Name: "CANDLE_DL_BACKEND", Value: k.DLBackend},
		{Name: "CANDLE_SUPP_MODULES", Value: k.SuppModules},
		{Name: "CANDLE_PYTHON_BIN_PATH", Value: k.PythonBinPath},
		{Name: "CANDLE_EXEC_PYTHON_MODULE", Value: k.ExecPythonModule},
		{Name: "CANDLE_SUPP_PYTHONPATH", Value: k.SuppPythonPath},
		{Name: "CANDLE_EXTRA_SCRIPT_ARGS", Value: k.ExtraScriptArgs},
		{Name: "CANDLE_EXEC_R_MODULE", Value: k.ExecRModule},
		{Name: "CANDLE_SUPP_R_LIBS", Value: k.SuppRLibs},
		{Name: "CANDLE_RUN_WORKFLOW", Value: strconv.Itoa(k.RunWorkflow)},
		{Name: "CANDLE_DRY_RUN", Value: strconv.Itoa(k.DryRun)},
		{Name: "CANDLE_DEFAULT_MODEL_FILE", Value: k.DefaultModelFile},
		{Name: "CANDLE_WORKFLOW_SETTINGS_FILE", Value: k.ParamSpaceFile},
	}
}

// Rows returns the keywords as display rows in schema order.
func (k *Keywords) Rows() []utils.KeyValue {
	return []utils.KeyValue{
		{Key: "model_script", Value: k.ModelScript},
		{Key: "workflow", Value: k.Workflow},
		{Key: "walltime", Value: k.Walltime},
		{Key: "worker_type", Value: k.WorkerType},
		{Key: "nworkers", Value: strconv.Itoa(k.NWorkers)},
		{Key: "nthreads", Value: strconv.Itoa(k.NThreads)},
		{Key: "custom_sbatch_args", Value: k.CustomSbatchArgs},
		{Key: "mem_per_cpu", Value: strconv.Itoa(k.MemPerCPU)},
		{Key: "project", Value: k.Project},
		{Key: "dl_backend", Value: k.DLBackend},
		{Key: "supp_modules", Value: k.SuppModules},
		{Key: "python_bin_path", Value: k.PythonBinPath},
		{Key: "exec_python_module", Value: k.ExecPythonModule},
		{Key: "supp_pythonpath", Value: k.SuppPythonPath},
		{Key: "extra_script_args", Value: k.ExtraScriptArgs},
		{Key: "exec_r_module", Value: k.ExecRModule},
		{Key: "supp_r_libs", Value: k.SuppRLibs},
		{Key: "run_workflow", Value: strconv.Itoa(k.RunWorkflow)},
		{Key: "dry_run", Value: strconv.Itoa(k.DryRun)},
		{Key: "queue", Value: k.Queue},
		{Key: "default_model_file", Value: k.DefaultModelFile},
		{Key: "param_space_file", Value: k.ParamSpaceFile},
	}
}
