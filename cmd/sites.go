package cmd

import (
	"fmt"
	"strings"

	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/config"
	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/planner"
	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/scheduler"
	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/utils"
	"github.com/spf13/cobra"
)

var sitesOutput outputFormat

var sitesCmd = &cobra.Command{
	Use:   "sites [name...]",
	Short: "List the site profiles",
	Long: `List the built-in site profiles together with any defined under "sites" in
the config file. Names restrict the listing to those sites.`,
	Example: `  candle-preprocess sites
  candle-preprocess sites biowulf -o yaml`,
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return config.SiteNames(), cobra.ShellCompDirectiveNoFileComp
	},
	SilenceUsage: true,
	RunE:         runSites,
}

func init() {
	addOutputFlag(sitesCmd, &sitesOutput)
	rootCmd.AddCommand(sitesCmd)
}

func runSites(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = config.SiteNames()
	}

	sites := make([]config.Site, 0, len(names))
	for _, name := range names {
		s, err := config.LookupSite(name)
		if err != nil {
			return err
		}
		sites = append(sites, s)
	}

	out := cmd.OutOrStdout()
	if sitesOutput != outputTable {
		return encode(out, sitesOutput, sites)
	}

	for i, s := range sites {
		if i > 0 {
			fmt.Fprintln(out)
		}
		title := s.Name
		if s.Name == config.Global.Site {
			title += " " + utils.StyleSuccess("(active)")
		}
		utils.PrintTable(out, utils.StyleTitle(title), siteRows(s))
	}
	return nil
}

func siteRows(s config.Site) []utils.KeyValue {
	rows := []utils.KeyValue{
		{Key: "scheduler", Value: s.Scheduler},
		{Key: "layout", Value: s.Layout},
	}
	if s.SlotsPerNode > 0 {
		rows = append(rows, utils.KeyValue{Key: "slots_per_node", Value: s.SlotsPerNode})
	}
	if s.CoresPerNode > 0 {
		rows = append(rows, utils.KeyValue{Key: "cores_per_node", Value: s.CoresPerNode})
	}
	if s.Launch != nil {
		rows = append(rows, utils.KeyValue{Key: "launch", Value: scheduler.LsfRenderer{}.LaunchOptions(planner.Allocation{Launch: s.Launch})})
	}
	if len(s.Partitions) > 0 {
		var parts []string
		for _, tag := range []string{"single-node", "multi-node", "gpu"} {
			if q, ok := s.Partitions[tag]; ok {
				parts = append(parts, tag+"="+q)
			}
		}
		rows = append(rows, utils.KeyValue{Key: "partitions", Value: strings.Join(parts, " ")})
	}
	rows = append(rows,
		utils.KeyValue{Key: "worker_types", Value: describeWorkerTypes(s.ValidWorkerTypes())},
		utils.KeyValue{Key: "default_walltime", Value: s.DefaultWalltime},
		utils.KeyValue{Key: "require_project", Value: s.RequireProject},
	)
	return rows
}

// describeWorkerTypes annotates known GPU models with memory size and tier.
func describeWorkerTypes(types []string) string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		if info, ok := scheduler.GetGpuInfo(t); ok {
			out = append(out, fmt.Sprintf("%s (%dGB, %s)", t, info.MemoryGB, info.Tier))
			continue
		}
		out = append(out, t)
	}
	return strings.Join(out, ", ")
}
