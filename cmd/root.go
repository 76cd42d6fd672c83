package cmd

import (
	"os"

	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/config"
	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	debugMode  bool
	quietMode  bool
	siteFlag   string
	configFile string
)

var rootCmd = &cobra.Command{
	Use:           "candle-preprocess",
	Short:         "CANDLE: size scheduler allocations and prepare workflow submissions on HPC sites.",
	Version:       config.VERSION,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Step 1: Load defaults
		config.LoadDefaults()

		// Step 2: Initialize Viper (config file, env vars)
		if err := config.InitViper(configFile); err != nil {
			return err
		}

		// Step 3: Copy resolved values into Global and reload site profiles
		if err := viper.BindPFlag("site", cmd.Root().PersistentFlags().Lookup("site")); err != nil {
			return err
		}
		if err := config.LoadFromViper(); err != nil {
			return err
		}

		// Step 4: Apply command-line flags (--site is bound through viper)
		if quietMode {
			utils.QuietMode = true
			config.Global.Quiet = true
		}
		if debugMode {
			utils.DebugMode = true
			config.Global.Debug = true
			utils.PrintDebug("Debug mode enabled")
			utils.PrintDebug("CANDLE Version: %s", utils.StyleInfo(config.VERSION))
			if used := config.ConfigFileUsed(); used != "" {
				utils.PrintDebug("Config File: %s", utils.StylePath(used))
			}
			utils.PrintDebug("Site: %s", utils.StyleName(config.Global.Site))
			utils.PrintDebug("Submission Directory: %s", utils.StylePath(config.Global.SubmissionDir))
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra's automatic error printing is silenced so every failure
		// gets the same tagged output.
		utils.PrintError("%v", err)
		os.Exit(1)
	}
}

func init() {
	// Subcommands are attached to rootCmd in their respective init() functions
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode with verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Only print warnings and errors")
	rootCmd.PersistentFlags().StringVar(&siteFlag, "site", "", "Site profile to use (default $SITE)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ~/.config/candle/config.yaml)")

	_ = rootCmd.RegisterFlagCompletionFunc("site", siteCompletion)
}

// activeSite returns the profile selected by --site, CANDLE_SITE or SITE.
func activeSite() (config.Site, error) {
	return config.LookupSite(config.Global.Site)
}
