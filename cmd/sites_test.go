package cmd

import (
	"path/filepath"
	"testing"

	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSitesYAML(t *testing.T) {
	out, err := runCommand(t, "sites", "-o", "yaml")
	require.NoError(t, err)

	var sites []config.Site
	require.NoError(t, yaml.Unmarshal([]byte(out), &sites))
	require.Len(t, sites, 3)
	assert.Equal(t, "biowulf", sites[0].Name)
	assert.Equal(t, 16, sites[0].CoresPerNode)
	assert.Equal(t, "summit-tf1", sites[1].Name)
	assert.Equal(t, 6, sites[1].SlotsPerNode)
}

func TestSitesTable(t *testing.T) {
	out, err := runCommand(t, "sites", "biowulf")
	require.NoError(t, err)
	assert.Contains(t, out, "partitions:")
	assert.Contains(t, out, "single-node=norm multi-node=multinode gpu=gpu")
	assert.Contains(t, out, "k80 (24GB, entry)")
	assert.Contains(t, out, "a100 (40GB, high)")

	_, err = runCommand(t, "sites", "nowhere")
	assert.Error(t, err)
}

func TestConfigGetAndValidate(t *testing.T) {
	t.Setenv("CANDLE_SITE", "biowulf")

	out, err := runCommand(t, "config", "get", "site")
	require.NoError(t, err)
	assert.Equal(t, "biowulf\n", out)

	out, err = runCommand(t, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Site summit-tf2 (LSF, fixed-ppn)")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candle", "config.yaml")

	_, err := runCommand(t, "--site", "summit-tf1", "config", "init", "--file", path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, err = runCommand(t, "config", "init", "--file", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	out, err := runCommand(t, "--config", path, "config", "get", "sites.biowulf.cores_per_node")
	require.NoError(t, err)
	assert.Equal(t, "16\n", out)

	out, err = runCommand(t, "--config", path, "config", "get", "site")
	require.NoError(t, err)
	assert.Equal(t, "summit-tf1\n", out)
}

func TestGetConfigEnvVars(t *testing.T) {
	vars := getConfigEnvVars()
	assert.Contains(t, vars, "CANDLE_SITE")
	assert.Contains(t, vars, "CANDLE_DEFAULT_MODEL_FILE")
	assert.Contains(t, vars, "SITE")
}
