package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseList(t *testing.T) {
	cases := map[string][]string{
		"cpu,k80,p100":           {"cpu", "k80", "p100"},
		"cpu k80":                {"cpu", "k80"},
		"('cpu', 'K80', 'v100')": {"cpu", "k80", "v100"},
		"['cpu']":                {"cpu"},
		"":                       nil,
		"  ":                     nil,
	}
	for input, want := range cases {
		assert.Equal(t, want, ParseList(input), "ParseList(%q)", input)
	}
}

func TestExportFilePath(t *testing.T) {
	c := Config{SubmissionDir: "/data/user/job1"}
	want := filepath.Join("/data/user/job1", "candle_generated_files", "preprocessed_vars_to_export.sh")
	assert.Equal(t, want, c.ExportFilePath())
}

func TestLoadDefaults(t *testing.T) {
	LoadDefaults()
	assert.Equal(t, VERSION, Global.Version)
	assert.NotEmpty(t, Global.SubmissionDir)
	assert.Empty(t, Global.Site)
}

func TestWriteStarterConfig(t *testing.T) {
	t.Cleanup(ResetSites)
	path := filepath.Join(t.TempDir(), "candle", "config.yaml")

	require.NoError(t, WriteStarterConfig(path, "biowulf"))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	assert.Equal(t, "biowulf", v.GetString("site"))

	require.NoError(t, LoadSites(v))
	for name, want := range builtinSites() {
		got, err := LookupSite(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
}
