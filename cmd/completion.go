package cmd

import (
	"os"
	"strings"

	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// detectShell auto-detects the current shell from environment
func detectShell() string {
	shellLower := strings.ToLower(os.Getenv("SHELL"))

	if strings.Contains(shellLower, "fish") {
		return "fish"
	}
	if strings.Contains(shellLower, "zsh") {
		return "zsh"
	}
	if strings.Contains(shellLower, "pwsh") || strings.Contains(shellLower, "powershell") {
		return "powershell"
	}

	// Default to bash
	return "bash"
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for candle-preprocess.

If no shell is specified, it is detected from $SHELL (bash when unknown).

To load completions:

Bash:
  $ source <(candle-preprocess completion bash)

Zsh:
  $ candle-preprocess completion zsh > "${fpath[1]}/_candle-preprocess"

Fish:
  $ candle-preprocess completion fish | source

PowerShell:
  PS> candle-preprocess completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	// Completion must work before a site or config file exists.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		shell := detectShell()
		if len(args) > 0 {
			shell = args[0]
		}

		// Completion lists only long options (e.g. --nworkers); shorthands
		// are restored after generation.
		saved := stripShortFlagShorthands(cmd.Root())
		defer restoreShortFlagShorthands(saved)

		out := cmd.OutOrStdout()
		switch shell {
		case "zsh":
			return cmd.Root().GenZshCompletion(out)
		case "fish":
			return cmd.Root().GenFishCompletion(out, true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletionWithDesc(out)
		default:
			return cmd.Root().GenBashCompletionV2(out, true)
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// loadCompletionConfig reads the config file so sites defined there are
// offered too. Completion never fails, so a broken config leaves the
// built-in sites in place.
func loadCompletionConfig() {
	if err := config.InitViper(configFile); err != nil {
		return
	}
	if err := config.LoadFromViper(); err != nil {
		config.ResetSites()
	}
}

// siteCompletion completes --site with the registered site names.
func siteCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	loadCompletionConfig()
	return config.SiteNames(), cobra.ShellCompDirectiveNoFileComp
}

// workerTypeCompletion completes --worker-type with the worker types of the
// active site, or of every site when none is selected.
func workerTypeCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	loadCompletionConfig()
	name := siteFlag
	if name == "" {
		name = config.Global.Site
	}
	if name == "" {
		name = os.Getenv("SITE")
	}
	if s, err := config.LookupSite(name); err == nil {
		return s.ValidWorkerTypes(), cobra.ShellCompDirectiveNoFileComp
	}

	seen := map[string]bool{}
	var types []string
	for _, n := range config.SiteNames() {
		s, _ := config.LookupSite(n)
		for _, t := range s.ValidWorkerTypes() {
			if !seen[t] {
				seen[t] = true
				types = append(types, t)
			}
		}
	}
	return types, cobra.ShellCompDirectiveNoFileComp
}

// stripShortFlagShorthands walks the command tree and clears the Shorthand
// field for any flag that has one, returning a map of saved values so they
// can be restored later.
func stripShortFlagShorthands(root *cobra.Command) map[*pflag.Flag]string {
	saved := make(map[*pflag.Flag]string)

	stripFlag := func(f *pflag.Flag) {
		if f.Shorthand != "" {
			saved[f] = f.Shorthand
			f.Shorthand = ""
		}
	}

	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		c.LocalFlags().VisitAll(stripFlag)
		c.PersistentFlags().VisitAll(stripFlag)
		c.InheritedFlags().VisitAll(stripFlag)
		for _, child := range c.Commands() {
			walk(child)
		}
	}
	walk(root)
	return saved
}

// restoreShortFlagShorthands restores previously-saved shorthand values.
func restoreShortFlagShorthands(saved map[*pflag.Flag]string) {
	for f, shorthand := range saved {
		f.Shorthand = shorthand
	}
}
