package main

import (
	"context"
	"io"

	"github.com/carbocation/casecontrol"
	"github.com/carbocation/casecontrol/barplot"
	"github.com/carbocation/casecontrol/table"
	"github.com/spf13/cobra"
)

var plotOpts struct {
	table  string
	prefix string
}

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Draw study and sample counts per tissue group from a match table",
	Long: `Read a table written by match and write two PNG bar charts,
<prefix>_studies.png and <prefix>_samples.png, with case and control counts for
every tissue/cell type group.`,
	Args: cobra.NoArgs,
	RunE: runPlot,
}

func init() {
	f := plotCmd.Flags()
	f.StringVar(&plotOpts.table, "table", "", "Table written by match (local or gs://)")
	f.StringVar(&plotOpts.prefix, "prefix", "", "Output path prefix (local or gs://)")
	plotCmd.MarkFlagRequired("table")
	plotCmd.MarkFlagRequired("prefix")
}

func runPlot(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	client, err := gsClient(ctx, plotOpts.table, plotOpts.prefix)
	if err != nil {
		return err
	}

	rc, err := casecontrol.OpenFileOrGS(ctx, plotOpts.table, client)
	if err != nil {
		return err
	}
	rows, err := table.ReadCohort(rc)
	rc.Close()
	if err != nil {
		return err
	}

	summaries := table.Summarize(rows)
	log.Infow("plotting", "table", plotOpts.table, "rows", len(rows), "bars", len(summaries))

	for suffix, metric := range map[string]barplot.Metric{
		"_studies.png": barplot.Studies,
		"_samples.png": barplot.Samples,
	} {
		metric := metric
		if err := writePlot(ctx, plotOpts.prefix+suffix, func(w io.Writer) error {
			return barplot.RenderSummary(w, summaries, metric)
		}); err != nil {
			return err
		}
	}

	return nil
}

func writePlot(ctx context.Context, path string, render func(io.Writer) error) error {
	client, err := gsClient(ctx, path)
	if err != nil {
		return err
	}

	wc, err := casecontrol.CreateFileOrGS(ctx, path, client)
	if err != nil {
		return err
	}
	if err := render(wc); err != nil {
		wc.Close()
		return err
	}
	if err := wc.Close(); err != nil {
		return err
	}

	log.Infow("wrote plot", "path", path)

	return nil
}
