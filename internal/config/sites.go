package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/planner"
	"github.com/spf13/viper"
)

// ErrUnknownSite indicates no site profile is registered under the requested name.
var ErrUnknownSite = errors.New("unknown site")

// Scheduler names accepted in site profiles.
const (
	SchedulerSLURM = "SLURM"
	SchedulerLSF   = "LSF"
)

// Site is one HPC site profile as it appears in the config file.
type Site struct {
	Name              string                 `mapstructure:"-" yaml:"name" json:"name"`
	Scheduler         string                 `mapstructure:"scheduler" yaml:"scheduler" json:"scheduler"`
	Layout            string                 `mapstructure:"layout" yaml:"layout" json:"layout"`
	SlotsPerNode      int                    `mapstructure:"slots_per_node" yaml:"slots_per_node,omitempty" json:"slots_per_node,omitempty"`
	CoresPerNode      int                    `mapstructure:"cores_per_node" yaml:"cores_per_node,omitempty" json:"cores_per_node,omitempty"`
	TasksPerCore      int                    `mapstructure:"tasks_per_core" yaml:"tasks_per_core,omitempty" json:"tasks_per_core,omitempty"`
	ExclusiveGPUNodes bool                   `mapstructure:"exclusive_gpu_nodes" yaml:"exclusive_gpu_nodes" json:"exclusive_gpu_nodes"`
	Launch            *planner.LaunchBinding `mapstructure:"launch" yaml:"launch,omitempty" json:"launch,omitempty"`
	Partitions        map[string]string      `mapstructure:"partitions" yaml:"partitions,omitempty" json:"partitions,omitempty"`
	WorkerTypes       []string               `mapstructure:"worker_types" yaml:"worker_types" json:"worker_types"`
	DefaultWalltime   string                 `mapstructure:"default_walltime" yaml:"default_walltime" json:"default_walltime"`
	RequireProject    bool                   `mapstructure:"require_project" yaml:"require_project" json:"require_project"`
}

// SiteError reports an invalid site definition.
type SiteError struct {
	Site   string
	Reason string
}

func (e *SiteError) Error() string {
	return fmt.Sprintf("site %s: %s", e.Site, e.Reason)
}

// Validate checks the constants a planner strategy divides by.
func (s Site) Validate() error {
	switch strings.ToUpper(s.Scheduler) {
	case SchedulerSLURM, SchedulerLSF:
	default:
		return &SiteError{Site: s.Name, Reason: fmt.Sprintf("unsupported scheduler %q", s.Scheduler)}
	}

	switch planner.Layout(s.Layout) {
	case planner.LayoutFixedPPN:
		if s.SlotsPerNode < 1 {
			return &SiteError{Site: s.Name, Reason: "slots_per_node must be a positive integer"}
		}
	case planner.LayoutCoreCutoff:
		if s.CoresPerNode < 1 {
			return &SiteError{Site: s.Name, Reason: "cores_per_node must be a positive integer"}
		}
	default:
		return &SiteError{Site: s.Name, Reason: fmt.Sprintf("unknown layout %q", s.Layout)}
	}
	return nil
}

// Profile converts the site into the planner's topology description.
func (s Site) Profile() planner.SiteProfile {
	p := planner.SiteProfile{
		Name:              s.Name,
		Layout:            planner.Layout(s.Layout),
		SlotsPerNode:      s.SlotsPerNode,
		CoresPerNode:      s.CoresPerNode,
		TasksPerCore:      s.TasksPerCore,
		ExclusiveGPUNodes: s.ExclusiveGPUNodes,
		Launch:            s.Launch,
	}
	if len(s.Partitions) > 0 {
		p.Partitions = make(map[planner.Partition]string, len(s.Partitions))
		for tag, queue := range s.Partitions {
			p.Partitions[planner.Partition(tag)] = queue
		}
	}
	return p
}

// ValidWorkerTypes returns the worker types accepted on this site, honoring
// the global override.
func (s Site) ValidWorkerTypes() []string {
	if len(Global.ValidWorkerTypes) > 0 {
		return Global.ValidWorkerTypes
	}
	return s.WorkerTypes
}

func builtinSites() map[string]Site {
	summit := func(name string) Site {
		return Site{
			Name:         name,
			Scheduler:    SchedulerLSF,
			Layout:       string(planner.LayoutFixedPPN),
			SlotsPerNode: 6,
			Launch: &planner.LaunchBinding{
				TasksPerResourceSet: 1,
				CPUsPerResourceSet:  7,
				GPUsPerResourceSet:  1,
				Threads:             7,
			},
			WorkerTypes:     []string{"cpu", "v100"},
			DefaultWalltime: "00:05",
			RequireProject:  true,
		}
	}

	return map[string]Site{
		"summit-tf1": summit("summit-tf1"),
		"summit-tf2": summit("summit-tf2"),
		"biowulf": {
			Name:              "biowulf",
			Scheduler:         SchedulerSLURM,
			Layout:            string(planner.LayoutCoreCutoff),
			CoresPerNode:      16,
			TasksPerCore:      1,
			ExclusiveGPUNodes: true,
			Partitions: map[string]string{
				string(planner.PartitionSingleNode): "norm",
				string(planner.PartitionMultiNode):  "multinode",
				string(planner.PartitionGPU):        "gpu",
			},
			WorkerTypes:     []string{"cpu", "k20x", "k80", "p100", "v100", "v100x", "a100"},
			DefaultWalltime: "00:05:00",
		},
	}
}

var (
	sites   = builtinSites()
	sitesMu sync.RWMutex
)

// LoadSites rebuilds the registry from the built-ins plus any "sites.<name>"
// sections in v. Sections for built-in names override individual fields.
func LoadSites(v *viper.Viper) error {
	loaded := builtinSites()

	for name := range v.GetStringMap("sites") {
		site, ok := loaded[name]
		if !ok {
			site = Site{Name: name}
		}
		if err := v.UnmarshalKey("sites."+name, &site); err != nil {
			return &SiteError{Site: name, Reason: err.Error()}
		}
		site.Name = name
		site.Scheduler = strings.ToUpper(site.Scheduler)
		if err := site.Validate(); err != nil {
			return err
		}
		loaded[name] = site
	}

	sitesMu.Lock()
	defer sitesMu.Unlock()
	sites = loaded
	return nil
}

// ResetSites restores the built-in site profiles.
func ResetSites() {
	sitesMu.Lock()
	defer sitesMu.Unlock()
	sites = builtinSites()
}

// LookupSite returns the profile registered under name.
func LookupSite(name string) (Site, error) {
	sitesMu.RLock()
	defer sitesMu.RUnlock()
	s, ok := sites[name]
	if !ok {
		if name == "" {
			return Site{}, fmt.Errorf("%w: no site given (set SITE or use --site)", ErrUnknownSite)
		}
		return Site{}, fmt.Errorf("%w: %s (known: %s)", ErrUnknownSite, name, strings.Join(siteNamesLocked(), ", "))
	}
	return s, nil
}

// SiteNames returns the registered site names in sorted order.
func SiteNames() []string {
	sitesMu.RLock()
	defer sitesMu.RUnlock()
	return siteNamesLocked()
}

func siteNamesLocked() []string {
	names := make([]string, 0, len(sites))
	for name := range sites {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
