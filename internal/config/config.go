package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/utils"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const VERSION = "0.4.0"

// ConfigFilename is the name of the config file
const ConfigFilename = "config"

// ConfigType is the type of config file (yaml, json, toml)
const ConfigType = "yaml"

// ExportFilename is the file the preprocess step writes for run_workflows.sh to source.
const ExportFilename = "preprocessed_vars_to_export.sh"

// GeneratedFilesDir is the subdirectory of the submission directory that holds generated files.
const GeneratedFilesDir = "candle_generated_files"

// Config holds global application settings
type Config struct {
	Debug   bool
	Quiet   bool
	Version string

	// Site names the active site profile (SITE / CANDLE_SITE / --site).
	Site string
	// SubmissionDir is the directory the job is submitted from.
	SubmissionDir string
	// DefaultModelFile backs the default_model_file keyword when it is left empty.
	DefaultModelFile string
	// WorkflowSettingsFile backs the param_space_file keyword when it is left empty.
	WorkflowSettingsFile string
	// ValidWorkerTypes overrides the site's worker type list when non-empty.
	ValidWorkerTypes []string
}

// Global holds the singleton configuration instance
var Global Config

// LoadDefaults resets Global to built-in values.
func LoadDefaults() {
	cwd, _ := os.Getwd()
	Global = Config{
		Version:       VERSION,
		SubmissionDir: cwd,
	}
}

// ExportFilePath returns where the preprocess step writes its export statements.
func (c Config) ExportFilePath() string {
	return filepath.Join(c.SubmissionDir, GeneratedFilesDir, ExportFilename)
}

// InitViper initializes Viper with proper search paths and defaults
// Priority (highest to lowest):
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (CANDLE_*, plus SITE)
// 3. Explicit config file (--config)
// 4. User config file (~/.config/candle/config.yaml)
// 5. System config file (/etc/candle/config.yaml)
// 6. Defaults
func InitViper(configFile string) error {
	viper.SetConfigType(ConfigType)

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(ConfigFilename)

		if userConfigDir, err := os.UserConfigDir(); err == nil {
			viper.AddConfigPath(filepath.Join(userConfigDir, "candle"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".candle"))
		}
		viper.AddConfigPath("/etc/candle")
		viper.AddConfigPath(".")
	}

	// Environment variables
	viper.SetEnvPrefix("CANDLE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	// The launcher scripts export the bare SITE variable.
	_ = viper.BindEnv("site", "CANDLE_SITE", "SITE")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && configFile == "" {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// setDefaults sets default values for all config keys
func setDefaults() {
	viper.SetDefault("site", "")
	viper.SetDefault("submission_dir", "")
	viper.SetDefault("default_model_file", "")
	viper.SetDefault("workflow_settings_file", "")
	viper.SetDefault("valid_worker_types", "")
}

// LoadFromViper copies resolved Viper values into Global and reloads site
// profiles so config-file overrides take effect.
func LoadFromViper() error {
	if site := viper.GetString("site"); site != "" {
		Global.Site = site
	}
	if dir := viper.GetString("submission_dir"); dir != "" {
		Global.SubmissionDir = dir
	}
	Global.DefaultModelFile = viper.GetString("default_model_file")
	Global.WorkflowSettingsFile = viper.GetString("workflow_settings_file")
	Global.ValidWorkerTypes = ParseList(viper.GetString("valid_worker_types"))

	return LoadSites(viper.GetViper())
}

// ConfigFileUsed returns the config file Viper read, or "" when none was found.
func ConfigFileUsed() string {
	return viper.ConfigFileUsed()
}

// GetUserConfigPath returns the path to the user config file
func GetUserConfigPath() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".candle", ConfigFilename+"."+ConfigType), nil
	}

	return filepath.Join(userConfigDir, "candle", ConfigFilename+"."+ConfigType), nil
}

// ParseList splits a list setting. It accepts "a,b c" as well as the
// tuple form "('a', 'b')" older launcher scripts export.
func ParseList(s string) []string {
	s = strings.Trim(strings.TrimSpace(s), "()[]")
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	var out []string
	for _, f := range fields {
		f = strings.ToLower(strings.Trim(f, `'"`))
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// WriteStarterConfig writes a config file naming site as the default and
// spelling out the built-in site profiles so they can be edited in place.
func WriteStarterConfig(path, site string) error {
	doc := struct {
		Site                 string          `yaml:"site"`
		DefaultModelFile     string          `yaml:"default_model_file"`
		WorkflowSettingsFile string          `yaml:"workflow_settings_file"`
		Sites                map[string]Site `yaml:"sites"`
	}{
		Site:  site,
		Sites: builtinSites(),
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, utils.PermFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
