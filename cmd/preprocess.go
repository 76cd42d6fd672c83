package cmd

import (
	"fmt"

	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/config"
	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/keywords"
	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/planner"
	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/scheduler"
	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/utils"
	"github.com/spf13/cobra"
)

var exportPath string

var preprocessCmd = &cobra.Command{
	Use:   "preprocess",
	Short: "Check the submission keywords and write the launcher exports",
	Long: `Read the input keywords from CANDLE_KEYWORD_* environment variables, fill
in defaults, validate them against the active site, size the allocation and
write the export statements run_workflows.sh sources.

The export file defaults to
  $CANDLE_SUBMISSION_DIR/candle_generated_files/preprocessed_vars_to_export.sh
Use --output - to print the exports instead.`,
	Example: `  SITE=biowulf CANDLE_KEYWORD_MODEL_SCRIPT=train.py CANDLE_KEYWORD_WORKFLOW=grid \
    candle-preprocess preprocess
  candle-preprocess preprocess --site summit-tf1 --output -`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runPreprocess,
}

func init() {
	preprocessCmd.Flags().StringVar(&exportPath, "output", "", "Export file to write, - for stdout")
	rootCmd.AddCommand(preprocessCmd)
}

func runPreprocess(cmd *cobra.Command, args []string) error {
	site, err := activeSite()
	if err != nil {
		return err
	}
	utils.PrintDebug("Using site %s (%s)", utils.StyleName(site.Name), site.Scheduler)

	kw, err := keywords.Resolve(site, keywords.EnvLookup())
	if err != nil {
		return fmt.Errorf("keyword check failed:\n%w", err)
	}

	// With --output - stdout must stay sourceable, so everything else
	// goes to stderr.
	info := cmd.OutOrStdout()
	if exportPath == "-" {
		info = cmd.ErrOrStderr()
		saved := utils.Stdout
		utils.Stdout = utils.Stderr
		defer func() { utils.Stdout = saved }()
	}

	alloc := planner.Plan(kw.Request(site))
	for _, n := range alloc.Notices {
		utils.PrintNote("%s", n.Message)
	}
	if alloc.Adjusted() {
		kw.NWorkers = alloc.AdjustedWorkers
	}

	if !utils.QuietMode {
		utils.PrintTable(info, utils.StyleTitle("Checked keywords:"), kw.Rows())
		fmt.Fprintln(info)
	}

	renderer, err := scheduler.RendererFor(site.Scheduler)
	if err != nil {
		return err
	}
	exports := renderer.Exports(alloc, kw.Job())

	if exportPath == "-" {
		return scheduler.FormatExports(cmd.OutOrStdout(), exports)
	}

	path := exportPath
	if path == "" {
		path = config.Global.ExportFilePath()
	}
	if err := scheduler.WriteExportFile(path, exports); err != nil {
		if scheduler.IsExportWriteError(err) {
			utils.PrintHint("Set CANDLE_SUBMISSION_DIR or use %s to write somewhere else", utils.StyleCommand("--output"))
		}
		return err
	}

	utils.PrintSuccess("Wrote %s exports for %s tasks on %s node(s) to %s",
		renderer.Type(), utils.StyleNumber(alloc.TotalTasks), utils.StyleNumber(alloc.NodeCount), utils.StylePath(path))
	return nil
}
