// Package keywords resolves, defaults and validates the input keywords of a
// workflow submission.
package keywords

import (
	"fmt"
	"slices"
	"strings"

	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/config"
	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/planner"
	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/scheduler"
	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/utils"
)

// Kind is the value type of a keyword.
type Kind int

const (
	KindString Kind = iota
	KindInt
)

func (k Kind) String() string {
	if k == KindInt {
		return "int"
	}
	return "string"
}

// Field describes one keyword: how it is typed, defaulted, checked and stored.
type Field struct {
	Name     string
	Kind     Kind
	Required bool

	// Default returns the value used when the keyword is unset. Nil means no default.
	Default func() any

	// Validate checks a user-supplied value. Defaults are not validated.
	// It may return a normalized value to store in place of the input.
	Validate func(v any) (any, error)

	set func(k *Keywords, v any)
}

func static(v any) func() any {
	return func() any { return v }
}

func setString(dst func(k *Keywords) *string) func(*Keywords, any) {
	return func(k *Keywords, v any) { *dst(k) = v.(string) }
}

func setInt(dst func(k *Keywords) *int) func(*Keywords, any) {
	return func(k *Keywords, v any) { *dst(k) = v.(int) }
}

// Schema returns the keyword fields accepted on site, in display order.
func Schema(site config.Site) []Field {
	sched := scheduler.ParseType(site.Scheduler)

	return []Field{
		{
			Name: "model_script", Kind: KindString, Required: true,
			Validate: readableFile,
			set:      setString(func(k *Keywords) *string { return &k.ModelScript }),
		},
		{
			Name: "workflow", Kind: KindString, Required: true,
			Validate: func(v any) (any, error) {
				w, err := planner.ParseWorkflowKind(v.(string))
				if err != nil {
					return nil, invalid("must be grid or bayesian")
				}
				return w.String(), nil
			},
			set: setString(func(k *Keywords) *string { return &k.Workflow }),
		},
		{
			Name: "walltime", Kind: KindString,
			Default: static(site.DefaultWalltime),
			Validate: func(v any) (any, error) {
				d, err := scheduler.ParseWalltime(sched, strings.TrimSpace(v.(string)))
				if err != nil {
					return nil, invalid(err.Error())
				}
				if d <= 0 {
					return nil, invalid("must be longer than zero")
				}
				return scheduler.FormatWalltime(sched, d), nil
			},
			set: setString(func(k *Keywords) *string { return &k.Walltime }),
		},
		{
			Name: "worker_type", Kind: KindString,
			Default: static("cpu"),
			Validate: func(v any) (any, error) {
				t := strings.ToLower(strings.TrimSpace(v.(string)))
				if t != "cpu" {
					t = scheduler.NormalizeGpuType(t)
				}
				valid := site.ValidWorkerTypes()
				if !slices.Contains(valid, t) {
					return nil, invalid(fmt.Sprintf("must be one of %s", strings.Join(valid, ", ")))
				}
				return t, nil
			},
			set: setString(func(k *Keywords) *string { return &k.WorkerType }),
		},
		{
			Name: "nworkers", Kind: KindInt, Default: static(1), Validate: positive,
			set: setInt(func(k *Keywords) *int { return &k.NWorkers }),
		},
		{
			Name: "nthreads", Kind: KindInt, Default: static(1), Validate: positive,
			set: setInt(func(k *Keywords) *int { return &k.NThreads }),
		},
		{
			Name: "custom_sbatch_args", Kind: KindString, Default: static(""),
			set: setString(func(k *Keywords) *string { return &k.CustomSbatchArgs }),
		},
		{
			Name: "mem_per_cpu", Kind: KindInt, Default: static(7), Validate: positive,
			set: setInt(func(k *Keywords) *int { return &k.MemPerCPU }),
		},
		{
			Name: "project", Kind: KindString, Required: site.RequireProject, Default: static(""),
			set: setString(func(k *Keywords) *string { return &k.Project }),
		},
		{
			Name: "dl_backend", Kind: KindString, Default: static("keras"),
			Validate: oneOf("keras", "pytorch"),
			set:      setString(func(k *Keywords) *string { return &k.DLBackend }),
		},
		{
			Name: "supp_modules", Kind: KindString, Default: static(""),
			set: setString(func(k *Keywords) *string { return &k.SuppModules }),
		},
		{
			Name: "python_bin_path", Kind: KindString, Default: static(""),
			Validate: directory,
			set:      setString(func(k *Keywords) *string { return &k.PythonBinPath }),
		},
		{
			Name: "exec_python_module", Kind: KindString, Default: static(""),
			set: setString(func(k *Keywords) *string { return &k.ExecPythonModule }),
		},
		{
			Name: "supp_pythonpath", Kind: KindString, Default: static(""),
			set: setString(func(k *Keywords) *string { return &k.SuppPythonPath }),
		},
		{
			Name: "extra_script_args", Kind: KindString, Default: static(""),
			set: setString(func(k *Keywords) *string { return &k.ExtraScriptArgs }),
		},
		{
			Name: "exec_r_module", Kind: KindString, Default: static(""),
			set: setString(func(k *Keywords) *string { return &k.ExecRModule }),
		},
		{
			Name: "supp_r_libs", Kind: KindString, Default: static(""),
			set: setString(func(k *Keywords) *string { return &k.SuppRLibs }),
		},
		{
			Name: "run_workflow", Kind: KindInt, Default: static(1), Validate: flag,
			set: setInt(func(k *Keywords) *int { return &k.RunWorkflow }),
		},
		{
			Name: "dry_run", Kind: KindInt, Default: static(0), Validate: flag,
			set: setInt(func(k *Keywords) *int { return &k.DryRun }),
		},
		{
			Name: "queue", Kind: KindString, Default: static(""),
			set: setString(func(k *Keywords) *string { return &k.Queue }),
		},
		{
			Name: "default_model_file", Kind: KindString,
			Default:  func() any { return config.Global.DefaultModelFile },
			Validate: readableFile,
			set:      setString(func(k *Keywords) *string { return &k.DefaultModelFile }),
		},
		{
			Name: "param_space_file", Kind: KindString,
			Default:  func() any { return config.Global.WorkflowSettingsFile },
			Validate: readableFile,
			set:      setString(func(k *Keywords) *string { return &k.ParamSpaceFile }),
		},
	}
}

// reason is a validator failure; Resolve wraps it into a KeywordError.
type reason struct {
	err error
	msg string
}

func (r *reason) Error() string { return r.msg }

func invalid(msg string) error {
	return &reason{err: ErrInvalidValue, msg: msg}
}

func unreadable(msg string) error {
	return &reason{err: ErrUnreadablePath, msg: msg}
}

func positive(v any) (any, error) {
	if v.(int) < 1 {
		return nil, invalid("must be a positive integer")
	}
	return v, nil
}

func flag(v any) (any, error) {
	if n := v.(int); n != 0 && n != 1 {
		return nil, invalid("must be 0 or 1")
	}
	return v, nil
}

func oneOf(choices ...string) func(any) (any, error) {
	return func(v any) (any, error) {
		s := strings.ToLower(strings.TrimSpace(v.(string)))
		if !slices.Contains(choices, s) {
			return nil, invalid(fmt.Sprintf("must be one of %s", strings.Join(choices, ", ")))
		}
		return s, nil
	}
}

func readableFile(v any) (any, error) {
	p := strings.TrimSpace(v.(string))
	if !utils.IsReadableFile(p) {
		return nil, unreadable("file does not exist or cannot be read")
	}
	return p, nil
}

func directory(v any) (any, error) {
	p := strings.TrimSpace(v.(string))
	if !utils.DirExists(p) {
		return nil, unreadable("directory does not exist")
	}
	return p, nil
}
