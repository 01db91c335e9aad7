// Package cohort selects matched case and control samples for a condition.
// Samples are grouped by the tissue and cell type terms they carry, and only
// groups represented on both sides are kept. Terms that every sample on one
// side carries are reported as confounds.
package cohort

import (
	"fmt"
	"sort"

	"github.com/carbocation/casecontrol/metadata"
	"github.com/carbocation/casecontrol/ontology"
	"github.com/carbocation/casecontrol/samplefilter"
	"github.com/carbocation/casecontrol/sampleset"
	"github.com/carbocation/casecontrol/table"
)

// Options controls a single matching run.
type Options struct {
	// Blacklist terms exclude controls that carry any of them. Cases are never
	// blacklist filtered.
	Blacklist sampleset.Set
	Filters   samplefilter.Flags

	// ByRun emits one row per sequencing run instead of one per sample.
	ByRun bool
}

// DefaultOptions has every quality filter on, no blacklist, and one row per
// sample.
func DefaultOptions() Options {
	return Options{
		Blacklist: sampleset.New(),
		Filters:   samplefilter.DefaultFlags(),
	}
}

// Partition holds the case and control samples sharing one key term set.
type Partition struct {
	Case    sampleset.Set
	Control sampleset.Set
}

// Result is the outcome of Match. An empty TissueIntersections is a valid
// result: no tissue group had both cases and controls.
type Result struct {
	Term                string
	Rows                []table.CohortRow
	ControlConfound     sampleset.Set
	CaseConfound        sampleset.Set
	TissueIntersections []string
	Partitions          map[string]Partition
}

// side is the working state for one of the case or control sets.
type side struct {
	samples     sampleset.Set
	termSamples map[string]sampleset.Set
	keyTermSets map[string]sampleset.Set
}

// Match builds a matched case/control cohort for term from the given control
// and case samples. Neither input set is modified.
func Match(lookup metadata.Lookup, term string, controls, cases sampleset.Set, opts Options) (*Result, error) {
	res, err := match(lookup, term, controls, cases, opts)
	if err != nil {
		return nil, fmt.Errorf("matching %q: %w", term, err)
	}

	return res, nil
}

func match(lookup metadata.Lookup, term string, controls, cases sampleset.Set, opts Options) (*Result, error) {
	if opts.Blacklist == nil {
		opts.Blacklist = sampleset.New()
	}

	controls, err := samplefilter.FilterBlacklist(controls, opts.Blacklist, lookup)
	if err != nil {
		return nil, err
	}

	// Flags are assigned against everything, before any filter is applied
	partitions, err := samplefilter.PartitionQuality(controls.Union(cases), lookup)
	if err != nil {
		return nil, err
	}

	cases, controls = partitions.Apply(cases, controls, opts.Filters)

	caseSide, err := groupSide(cases, lookup)
	if err != nil {
		return nil, err
	}
	controlSide, err := groupSide(controls, lookup)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Term:            term,
		CaseConfound:    caseSide.confounds(),
		ControlConfound: controlSide.confounds(),
		Partitions:      make(map[string]Partition),
	}

	for keyTerms, caseSamples := range caseSide.keyTermSets {
		controlSamples, exists := controlSide.keyTermSets[keyTerms]
		if !exists {
			continue
		}
		res.TissueIntersections = append(res.TissueIntersections, keyTerms)
		res.Partitions[keyTerms] = Partition{Case: caseSamples, Control: controlSamples}
	}
	sort.Strings(res.TissueIntersections)

	res.Rows, err = buildRows(res, partitions, lookup, opts.ByRun)
	if err != nil {
		return nil, err
	}

	return res, nil
}

func groupSide(samples sampleset.Set, lookup metadata.Lookup) (*side, error) {
	s := &side{
		samples:     samples,
		termSamples: make(map[string]sampleset.Set),
		keyTermSets: make(map[string]sampleset.Set),
	}

	for sample := range samples {
		terms, err := lookup.SampleTerms(sample)
		if err != nil {
			return nil, err
		}

		for _, term := range terms {
			if s.termSamples[term] == nil {
				s.termSamples[term] = sampleset.New()
			}
			s.termSamples[term].Add(sample)
		}

		keyTerms, err := ontology.KeyTermSet(terms, lookup.Ontology())
		if err != nil {
			return nil, err
		}
		if s.keyTermSets[keyTerms] == nil {
			s.keyTermSets[keyTerms] = sampleset.New()
		}
		s.keyTermSets[keyTerms].Add(sample)
	}

	return s, nil
}

// confounds are the terms carried by every sample on this side.
func (s *side) confounds() sampleset.Set {
	out := sampleset.New()
	for term, samples := range s.termSamples {
		if samples.Equal(s.samples) {
			out.Add(term)
		}
	}

	return out
}

func buildRows(res *Result, partitions *samplefilter.Partitions, lookup metadata.Lookup, byRun bool) ([]table.CohortRow, error) {
	rows := make([]table.CohortRow, 0)

	for _, keyTerms := range res.TissueIntersections {
		partition := res.Partitions[keyTerms]

		for _, group := range []struct {
			condition table.Condition
			samples   sampleset.Set
		}{
			{table.Case, partition.Case},
			{table.Control, partition.Control},
		} {
			for _, sample := range group.samples.Sorted() {
				study, err := lookup.SampleStudy(sample)
				if err != nil {
					return nil, err
				}

				entities := []string{sample}
				if byRun {
					if entities, err = lookup.SampleRuns(sample); err != nil {
						return nil, err
					}
				}

				flags := partitions.Annotate(sample)
				for _, entity := range entities {
					rows = append(rows, table.CohortRow{
						EntityID:        entity,
						Study:           study,
						Condition:       group.condition,
						TissueKey:       keyTerms,
						MissingMetadata: flags.Poor,
						CellLine:        flags.CellLine,
						Differentiated:  flags.Differentiated,
					})
				}
			}
		}
	}

	return rows, nil
}
