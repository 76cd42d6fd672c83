package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setKeywords(t *testing.T, kv map[string]string) {
	t.Helper()
	for k, v := range kv {
		t.Setenv("CANDLE_KEYWORD_"+k, v)
	}
}

func TestPreprocessWritesExports(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "train.py")
	require.NoError(t, os.WriteFile(script, []byte("print('ok')\n"), 0644))
	setKeywords(t, map[string]string{
		"MODEL_SCRIPT": script,
		"WORKFLOW":     "grid",
		"NWORKERS":     "20",
	})
	t.Setenv("CANDLE_SUBMISSION_DIR", dir)

	out, err := runCommand(t, "preprocess", "--site", "biowulf")
	require.NoError(t, err)
	assert.Contains(t, out, "Checked keywords:")

	data, err := os.ReadFile(filepath.Join(dir, "candle_generated_files", "preprocessed_vars_to_export.sh"))
	require.NoError(t, err)
	exports := string(data)
	assert.Contains(t, exports, "export PROCS=22\n")
	assert.Contains(t, exports, "export TURBINE_SBATCH_ARGS=\"--mem-per-cpu=7G --cpus-per-task=1 --ntasks-per-core=1 --nodes=2\"\n")
	assert.Contains(t, exports, "export QUEUE=multinode\n")
	assert.Contains(t, exports, "export PPN=11\n")
	assert.Contains(t, exports, "export WALLTIME=00:05:00\n")
	assert.Contains(t, exports, "export WORKFLOW_TYPE=grid\n")
	assert.Contains(t, exports, "export CANDLE_DL_BACKEND=keras\n")
}

func TestPreprocessStdoutLSF(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "train.py")
	require.NoError(t, os.WriteFile(script, nil, 0644))
	setKeywords(t, map[string]string{
		"MODEL_SCRIPT": script,
		"WORKFLOW":     "bayesian",
		"NWORKERS":     "10",
		"PROJECT":      "MED106",
		"QUEUE":        "batch",
	})

	out, err := runCommand(t, "preprocess", "--site", "summit-tf2", "--quiet", "--output", "-")
	require.NoError(t, err)
	assert.NotContains(t, out, "Checked keywords:")
	assert.Contains(t, out, "export PROCS=12\nexport PPN=6\n")
	assert.Contains(t, out, "export PROJECT=MED106\nexport NODES=2\nexport WALLTIME=00:05\nexport QUEUE=batch\n")
	assert.Contains(t, out, "export WORKFLOW_TYPE=bayesian\n")
}

func TestPreprocessStdoutIsSourceable(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "train.py")
	require.NoError(t, os.WriteFile(script, nil, 0644))
	setKeywords(t, map[string]string{
		"MODEL_SCRIPT": script,
		"WORKFLOW":     "grid",
		"NWORKERS":     "20",
	})

	out, errOut, err := runCommandStreams(t, "preprocess", "--site", "biowulf", "--output", "-")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.NotEmpty(t, lines)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "export "), "non-export line on stdout: %q", line)
	}
	assert.Contains(t, out, "export PROCS=22\n")

	// The growth notice and keyword table still reach the user.
	assert.Contains(t, errOut, "[NOTE] requested number of workers (20) has been increased to 21")
	assert.Contains(t, errOut, "Checked keywords:")
	assert.Contains(t, errOut, "nworkers:")
}

func TestPreprocessReportsKeywordErrors(t *testing.T) {
	setKeywords(t, map[string]string{
		"WORKFLOW": "grid",
		"NWORKERS": "-3",
	})

	_, err := runCommand(t, "preprocess", "--site", "summit-tf1", "--output", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keyword model_script")
	assert.Contains(t, err.Error(), "keyword project")
	assert.Contains(t, err.Error(), `keyword nworkers="-3"`)
}

func TestPreprocessExportWriteFailure(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "train.py")
	require.NoError(t, os.WriteFile(script, nil, 0644))
	setKeywords(t, map[string]string{"MODEL_SCRIPT": script, "WORKFLOW": "grid"})

	out, _, err := runCommandStreams(t, "preprocess", "--site", "biowulf", "--output", filepath.Join(script, "exports.sh"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write export file")
	assert.Contains(t, out, "[HINT] Set CANDLE_SUBMISSION_DIR or use --output")
}
