package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/config"
	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/scheduler"
	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	showPath  bool
	initForce bool
	initPath  string
)

// configKeys is the list of known configuration keys for shell completion
var configKeys = []string{
	"site",
	"submission_dir",
	"default_model_file",
	"workflow_settings_file",
	"valid_worker_types",
}

// configKeysCompletion returns config keys for shell completion
func configKeysCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return configKeys, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

// getConfigEnvVars returns the environment variable for each config key.
func getConfigEnvVars() []string {
	vars := make([]string, 0, len(configKeys)+1)
	for _, key := range configKeys {
		vars = append(vars, "CANDLE_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")))
	}
	return append(vars, "SITE")
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage candle configuration",
	Long: `Manage candle configuration settings.

Configuration priority (highest to lowest):
  1. Command-line flags
  2. Environment variables (CANDLE_*, plus SITE)
  3. Config file given with --config
  4. User config file (~/.config/candle/config.yaml)
  5. System config file (/etc/candle/config.yaml)
  6. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the effective configuration, the config file in use and any
environment variable overrides.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if showPath {
			configPath := config.ConfigFileUsed()
			if configPath == "" {
				var err error
				if configPath, err = config.GetUserConfigPath(); err != nil {
					return fmt.Errorf("failed to get config path: %w", err)
				}
			}
			fmt.Fprintln(out, configPath)
			return nil
		}

		fmt.Fprintln(out, utils.StyleTitle("Config File:"))
		if used := config.ConfigFileUsed(); used != "" {
			fmt.Fprintf(out, "  %s %s\n", utils.StylePath(used), utils.StyleSuccess("(in use)"))
		} else {
			fmt.Fprintf(out, "  %s (use 'candle-preprocess config init' to create)\n", utils.StyleWarning("No config file found"))
		}
		fmt.Fprintln(out)

		site := config.Global.Site
		if site == "" {
			site = utils.StyleWarning("not set")
		}
		utils.PrintTable(out, utils.StyleTitle("Current Configuration:"), []utils.KeyValue{
			{Key: "site", Value: site},
			{Key: "submission_dir", Value: config.Global.SubmissionDir},
			{Key: "export_file", Value: config.Global.ExportFilePath()},
			{Key: "default_model_file", Value: config.Global.DefaultModelFile},
			{Key: "workflow_settings_file", Value: config.Global.WorkflowSettingsFile},
			{Key: "valid_worker_types", Value: strings.Join(config.Global.ValidWorkerTypes, ", ")},
			{Key: "sites", Value: strings.Join(config.SiteNames(), ", ")},
		})
		fmt.Fprintln(out)

		fmt.Fprintln(out, utils.StyleTitle("Environment Variable Overrides:"))
		hasEnvOverrides := false
		for _, envVar := range getConfigEnvVars() {
			if val := os.Getenv(envVar); val != "" {
				fmt.Fprintf(out, "  %s=%s\n", envVar, val)
				hasEnvOverrides = true
			}
		}
		if !hasEnvOverrides {
			fmt.Fprintf(out, "  %s\n", utils.StyleInfo("none"))
		}
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a specific configuration value.

Examples:
  candle-preprocess config get site
  candle-preprocess config get sites.biowulf.cores_per_node`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: configKeysCompletion,
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		value := viper.Get(key)
		if value == nil {
			return fmt.Errorf("unknown config key: %s", key)
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file listing the built-in sites",
	Long: `Create a user configuration file with the built-in site profiles spelled
out so they can be edited. The active site (--site or $SITE) is stored as the
default site.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := initPath
		if configPath == "" {
			var err error
			if configPath, err = config.GetUserConfigPath(); err != nil {
				return fmt.Errorf("failed to get config path: %w", err)
			}
		}

		if utils.FileExists(configPath) && !initForce {
			utils.PrintHint("Use --force to overwrite it")
			return fmt.Errorf("config file already exists: %s", configPath)
		}

		if err := config.WriteStarterConfig(configPath, config.Global.Site); err != nil {
			return err
		}
		utils.PrintSuccess("Config file created")
		fmt.Fprintf(cmd.OutOrStdout(), "  Location: %s\n", utils.StylePath(configPath))
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long:  "Check that the active site exists and every site profile can be planned against",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		valid := true

		if !utils.QuietMode {
			fmt.Fprintln(out, utils.StyleTitle("Validating configuration..."))
			fmt.Fprintln(out)
		}

		for _, name := range config.SiteNames() {
			s, err := config.LookupSite(name)
			if err == nil {
				err = s.Validate()
			}
			if err == nil {
				_, err = scheduler.ParseWalltime(scheduler.ParseType(s.Scheduler), s.DefaultWalltime)
			}
			if err != nil {
				fmt.Fprintf(out, "%s Site %s: %v\n", utils.StyleError("✗"), name, err)
				valid = false
				continue
			}
			if !utils.QuietMode {
				fmt.Fprintf(out, "%s Site %s (%s, %s)\n", utils.StyleSuccess("✓"), name, s.Scheduler, s.Layout)
			}
		}

		if config.Global.Site == "" {
			fmt.Fprintf(out, "%s Active site: %s\n", utils.StyleWarning("⚠"), "not set")
		} else if _, err := activeSite(); err != nil {
			fmt.Fprintf(out, "%s Active site: %v\n", utils.StyleError("✗"), err)
			valid = false
		}

		if !valid {
			return fmt.Errorf("configuration has errors")
		}
		if !utils.QuietMode {
			fmt.Fprintln(out)
			utils.PrintSuccess("Configuration is valid")
		}
		return nil
	},
}

func init() {
	configShowCmd.Flags().BoolVar(&showPath, "path", false, "Show only the config file path")
	configInitCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config file")
	configInitCmd.Flags().StringVar(&initPath, "file", "", "Where to write the config file (default ~/.config/candle/config.yaml)")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	rootCmd.AddCommand(configCmd)
}
