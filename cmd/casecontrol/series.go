package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/carbocation/casecontrol/barplot"
	"github.com/carbocation/casecontrol/series"
	"github.com/carbocation/casecontrol/table"
	"github.com/spf13/cobra"
	"gopkg.in/guregu/null.v3"
)

var seriesOpts struct {
	term      string
	property  string
	unit      string
	limit     int64
	blacklist []string
	out       string
	plot      string
	bins      int
}

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Bucket samples bearing a term by a numeric property such as age",
	Long: `For every sample bearing --term, bucket it under the integer value of each of
its --property records, optionally restricted to one --unit and to values no
greater than --limit. The same exclusions as match apply.

Examples:
  casecontrol series --metadata ./data --term blood --property age --limit 100 \
    --filter-poor=false --plot blood_age.png`,
	Args: cobra.NoArgs,
	RunE: runSeries,
}

func init() {
	f := seriesCmd.Flags()
	f.StringVar(&seriesOpts.term, "term", "", "Term the samples must bear")
	f.StringVar(&seriesOpts.property, "property", "age", "Real valued property to bucket by")
	f.StringVar(&seriesOpts.unit, "unit", "", "Only use records with this unit")
	f.Int64Var(&seriesOpts.limit, "limit", 0, "Skip records whose value exceeds this")
	f.StringSliceVar(&seriesOpts.blacklist, "blacklist", nil, "Terms that exclude a sample (default from config)")
	f.StringVar(&seriesOpts.out, "out", "", "Output path (local or gs://). Defaults to stdout")
	f.StringVar(&seriesOpts.plot, "plot", "", "If set, write a PNG bar chart of the series here")
	f.IntVar(&seriesOpts.bins, "bins", 20, "Number of bins in the histogram printed to stderr")
	addFilterFlags(seriesCmd)
	seriesCmd.MarkFlagRequired("term")
}

func runSeries(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	filters, err := filterFlags(cmd)
	if err != nil {
		return err
	}

	q := series.Query{
		Term:      seriesOpts.term,
		Property:  seriesOpts.property,
		Blacklist: blacklist(cmd, seriesOpts.blacklist),
		Filters:   filters,
	}
	if cmd.Flags().Changed("unit") {
		q.Unit = null.StringFrom(seriesOpts.unit)
	}
	if cmd.Flags().Changed("limit") {
		q.ValueLimit = null.IntFrom(seriesOpts.limit)
	}

	md, err := loadMetadata(ctx)
	if err != nil {
		return err
	}

	res, err := series.Extract(md, q)
	if err != nil {
		return err
	}

	summary, err := series.Summarize(res.Buckets)
	if err != nil {
		return err
	}
	log.Infow("extracted series",
		"term", q.Term,
		"property", q.Property,
		"values", len(res.Buckets),
		"flagged", res.Flagged.Len(),
		"observations", summary.N,
		"min", summary.Min,
		"median", summary.Median,
		"mean", summary.Mean,
		"max", summary.Max,
	)

	for _, vc := range table.SeriesCounts(res.Buckets) {
		fmt.Fprintf(os.Stderr, "%d\t%d\n", vc.Value, vc.Samples)
	}
	if err := series.WriteHistogram(os.Stderr, res.Buckets, seriesOpts.bins); err != nil {
		return err
	}

	if seriesOpts.plot != "" && len(res.Buckets) == 0 {
		log.Warnw("empty series, not plotting", "path", seriesOpts.plot)
	} else if seriesOpts.plot != "" {
		if err := writePlot(ctx, seriesOpts.plot, func(w io.Writer) error {
			return barplot.RenderSeries(w, table.SeriesCounts(res.Buckets), q.Property)
		}); err != nil {
			return err
		}
	}

	w, closer, err := createOutput(ctx, seriesOpts.out)
	if err != nil {
		return err
	}
	if err := table.WriteSeries(w, res.Rows); err != nil {
		closer()
		return err
	}

	return closer()
}
