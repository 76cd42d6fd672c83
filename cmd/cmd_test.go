package cmd

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/config"
	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// runCommand executes the root command with args and returns its stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := runCommandStreams(t, args...)
	return out, err
}

// runCommandStreams executes the root command with args and returns stdout
// and stderr separately, console log lines included. Flag values left over
// from earlier runs are reset first.
func runCommandStreams(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var reset func(c *cobra.Command)
	reset = func(c *cobra.Command) {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
		for _, child := range c.Commands() {
			reset(child)
		}
	}
	reset(rootCmd)
	viper.Reset()
	utils.QuietMode = false
	utils.DebugMode = false
	t.Cleanup(config.ResetSites)

	var stdout, stderr bytes.Buffer
	savedOut, savedErr, savedNoColor := utils.Stdout, utils.Stderr, color.NoColor
	utils.Stdout, utils.Stderr, color.NoColor = &stdout, &stderr, true
	defer func() {
		utils.Stdout, utils.Stderr, color.NoColor = savedOut, savedErr, savedNoColor
	}()

	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}
