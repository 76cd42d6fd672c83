package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/planner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestPlanJSON(t *testing.T) {
	out, err := runCommand(t, "plan", "--site", "biowulf", "--nworkers", "20", "--nthreads", "2", "-o", "json")
	require.NoError(t, err)

	var got planResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "SLURM", got.Scheduler)
	assert.Equal(t, "00:05:00", got.Walltime)
	assert.Equal(t, 21, got.Allocation.TotalTasks)
	assert.Equal(t, 7, got.Allocation.TasksPerNode)
	assert.Equal(t, 3, got.Allocation.NodeCount)
	assert.Equal(t, planner.PartitionMultiNode, got.Allocation.Partition)
	assert.Equal(t, "multinode", got.Allocation.Queue)
	assert.Contains(t, got.Directives, "--partition=multinode")
	assert.Empty(t, got.Allocation.Notices)
}

func TestPlanYAMLFixedPPN(t *testing.T) {
	out, err := runCommand(t, "plan", "--site", "summit-tf1", "--workflow", "bayesian", "--nworkers", "10", "-o", "yaml")
	require.NoError(t, err)

	var got planResult
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "LSF", got.Scheduler)
	assert.Equal(t, 12, got.Allocation.TotalTasks)
	assert.Equal(t, 6, got.Allocation.TasksPerNode)
	assert.Equal(t, 2, got.Allocation.NodeCount)
	assert.Equal(t, 2, got.Allocation.CoordinatorProcesses)
	require.NotNil(t, got.Allocation.Launch)
	assert.Equal(t, 7, got.Allocation.Launch.Threads)
}

func TestPlanTableGPU(t *testing.T) {
	out, err := runCommand(t, "plan", "--site", "biowulf", "--worker-type", "K80", "--nworkers", "3", "--nthreads", "4")
	require.NoError(t, err)

	assert.Contains(t, out, "Allocation for biowulf (gpu-per-node):")
	assert.Contains(t, out, "gpu (gpu)")
	assert.Contains(t, out, "sbatch --ntasks=4 --gres=gpu:k80:1 --mem-per-cpu=7G --cpus-per-task=4")
	assert.True(t, strings.HasSuffix(out, "--ntasks-per-node=2 --nodes=3\n"), out)
}

func TestPlanRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown site", []string{"--site", "nowhere"}, "unknown site"},
		{"bad workflow", []string{"--site", "biowulf", "--workflow", "random"}, "--workflow"},
		{"zero workers", []string{"--site", "biowulf", "--nworkers", "0"}, "--nworkers"},
		{"gpu not on site", []string{"--site", "summit-tf1", "--worker-type", "k80"}, "not available on summit-tf1"},
		{"bad walltime", []string{"--site", "summit-tf1", "--walltime", "1:2:3"}, "--walltime"},
		{"zero walltime", []string{"--site", "biowulf", "--walltime", "0"}, "--walltime"},
		{"bad format", []string{"--site", "biowulf", "-o", "xml"}, "must be one of table, yaml, json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, append([]string{"plan"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestOutputFormatSet(t *testing.T) {
	var o outputFormat
	require.NoError(t, o.Set("YAML"))
	assert.Equal(t, outputYAML, o)
	assert.Error(t, o.Set("csv"))
	assert.Equal(t, outputYAML, o)
	assert.Equal(t, "format", o.Type())
}
