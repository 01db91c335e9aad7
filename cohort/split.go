package cohort

import (
	"errors"

	"github.com/carbocation/casecontrol/sampleset"
)

// ErrDegenerateSplit means splitting on a term produced the same set on both
// sides, which only happens when there were no samples to split.
var ErrDegenerateSplit = errors.New("degenerate term split: samples with and without the term are identical")

// SplitByTerm partitions every annotated sample by whether its terms include
// term. Samples with the term are the candidate cases; the rest are the
// candidate controls.
func SplitByTerm(sampleToTerms map[string][]string, term string) (with, without sampleset.Set, err error) {
	with, without = sampleset.New(), sampleset.New()

	for sample, terms := range sampleToTerms {
		if hasTerm(terms, term) {
			with.Add(sample)
		} else {
			without.Add(sample)
		}
	}

	if with.Equal(without) {
		return nil, nil, ErrDegenerateSplit
	}

	return with, without, nil
}

func hasTerm(terms []string, term string) bool {
	for _, t := range terms {
		if t == term {
			return true
		}
	}

	return false
}
