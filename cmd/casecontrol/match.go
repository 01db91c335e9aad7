package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/carbocation/casecontrol/cohort"
	"github.com/carbocation/casecontrol/samplefilter"
	"github.com/carbocation/casecontrol/sampleset"
	"github.com/carbocation/casecontrol/table"
	"github.com/spf13/cobra"
)

var matchOpts struct {
	term      string
	blacklist []string
	byRun     bool
	out       string
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Build a matched case/control table for a term",
	Long: `Split every annotated sample on whether it bears --term, filter both sides,
and write one row per sample (or per run, with --by-run) for each tissue/cell
type group that has both cases and controls.

Examples:
  # Breast cancer cohort to a local file
  casecontrol match --metadata ./data --term "breast cancer" --out breast_cancer.tsv

  # Keep cell lines, write per run to Google Storage
  casecontrol match --metadata gs://bucket/metadata --term "glioblastoma multiforme" \
    --filter-cell-line=false --by-run --out gs://bucket/results/gbm.tsv`,
	Args: cobra.NoArgs,
	RunE: runMatch,
}

func init() {
	f := matchCmd.Flags()
	f.StringVar(&matchOpts.term, "term", "", "Disease or condition term that defines the cases")
	f.StringSliceVar(&matchOpts.blacklist, "blacklist", nil, "Terms that exclude a control (default from config)")
	f.BoolVar(&matchOpts.byRun, "by-run", false, "Emit one row per run instead of one per sample?")
	f.StringVar(&matchOpts.out, "out", "", "Output path (local or gs://). Defaults to stdout")
	addFilterFlags(matchCmd)
	matchCmd.MarkFlagRequired("term")
}

func addFilterFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Bool("filter-poor", true, "Exclude samples without any tissue, cell line or cell type annotation?")
	f.Bool("filter-cell-line", true, "Exclude cell lines?")
	f.Bool("filter-differentiated", true, "Exclude in vitro differentiated cells and iPSC lines?")
}

// filterFlags starts from the configured filters and applies any flag the
// user set explicitly.
func filterFlags(cmd *cobra.Command) (samplefilter.Flags, error) {
	flags := cfg.Filters
	f := cmd.Flags()

	for name, dst := range map[string]*bool{
		"filter-poor":           &flags.Poor,
		"filter-cell-line":      &flags.CellLine,
		"filter-differentiated": &flags.Differentiated,
	} {
		if !f.Changed(name) {
			continue
		}
		v, err := f.GetBool(name)
		if err != nil {
			return flags, err
		}
		*dst = v
	}

	return flags, nil
}

func blacklist(cmd *cobra.Command, flagValue []string) sampleset.Set {
	if cmd.Flags().Changed("blacklist") {
		return sampleset.New(flagValue...)
	}

	return sampleset.New(cfg.Blacklist...)
}

func runMatch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	filters, err := filterFlags(cmd)
	if err != nil {
		return err
	}

	md, err := loadMetadata(ctx)
	if err != nil {
		return err
	}

	cases, controls, err := cohort.SplitByTerm(md.Terms, matchOpts.term)
	if err != nil {
		return fmt.Errorf("%s: %w", matchOpts.term, err)
	}
	log.Infow("split samples on term",
		"term", matchOpts.term,
		"cases", cases.Len(),
		"controls", controls.Len(),
	)

	res, err := cohort.Match(md, matchOpts.term, controls, cases, cohort.Options{
		Blacklist: blacklist(cmd, matchOpts.blacklist),
		Filters:   filters,
		ByRun:     matchOpts.byRun,
	})
	if err != nil {
		return err
	}

	log.Infow("matched cohort",
		"term", matchOpts.term,
		"rows", len(res.Rows),
		"tissue_intersections", len(res.TissueIntersections),
	)
	if len(res.TissueIntersections) == 0 {
		log.Warnw("no tissue or cell type group has both cases and controls", "term", matchOpts.term)
	}
	log.Infow("confounds",
		"case", res.CaseConfound.Sorted(),
		"control", res.ControlConfound.Sorted(),
	)
	fmt.Fprintf(os.Stderr, "Tissue intersections: %s\n", strings.Join(quoted(res.TissueIntersections), ", "))

	w, closer, err := createOutput(ctx, matchOpts.out)
	if err != nil {
		return err
	}
	if err := table.WriteCohort(w, res.Rows, matchOpts.byRun); err != nil {
		closer()
		return err
	}

	return closer()
}

func quoted(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, fmt.Sprintf("%q", v))
	}

	return out
}
