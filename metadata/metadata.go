// Package metadata holds the sample annotations that cohort selection runs
// over, and the loaders that read them from disk, Google Storage, or BigQuery.
// Everything is loaded up front; nothing here is mutated afterward.
package metadata

import (
	"errors"
	"fmt"
	"sort"

	"github.com/carbocation/casecontrol/ontology"
	"gopkg.in/guregu/null.v3"
)

// Sample types with special handling during filtering.
const (
	TypeCellLine               = "cell line"
	TypeInVitroDifferentiated  = "in vitro differentiated cells"
	TypeInducedPluripotentStem = "induced pluripotent stem cell line"
)

// ErrMissingKey is returned when a sample in the working set is absent from
// one of the auxiliary mappings. This is a broken input, not a recoverable
// condition.
var ErrMissingKey = errors.New("sample is missing from metadata")

// RealValue is one numeric property recorded for a sample, such as its age.
// The unit is frequently absent.
type RealValue struct {
	Property string      `json:"property"`
	Unit     null.String `json:"unit"`
	Value    null.Float  `json:"value"`
}

// Lookup is the data access surface the cohort and series code needs.
type Lookup interface {
	// HasTerms reports whether the sample has an annotation at all. Samples
	// without one are not considered.
	HasTerms(sample string) bool
	SampleTerms(sample string) ([]string, error)
	SampleType(sample string) (string, error)
	SampleStudy(sample string) (string, error)
	SampleRuns(sample string) ([]string, error)
	SampleRealValues(sample string) []RealValue

	// RealValueSamples lists, in ascending order, every sample with at least
	// one real valued property.
	RealValueSamples() []string

	Ontology() ontology.Index
}

// Metadata is the in-memory form of the six sample mappings.
type Metadata struct {
	Terms      map[string][]string    // sample => term names
	TermIDs    map[string]string      // term name => ontology identifier
	Types      map[string]string      // sample => sample type
	Studies    map[string]string      // sample => study accession
	Runs       map[string][]string    // sample => run accessions, in order
	RealValues map[string][]RealValue // sample => numeric properties

	index ontology.Index
}

var _ Lookup = (*Metadata)(nil)

// New assembles Metadata and tags every term with its ontology source. Nil
// maps are replaced with empty ones.
func New(terms map[string][]string, termIDs, types, studies map[string]string, runs map[string][]string, realValues map[string][]RealValue) *Metadata {
	m := &Metadata{
		Terms:      terms,
		TermIDs:    termIDs,
		Types:      types,
		Studies:    studies,
		Runs:       runs,
		RealValues: realValues,
	}

	if m.Terms == nil {
		m.Terms = make(map[string][]string)
	}
	if m.TermIDs == nil {
		m.TermIDs = make(map[string]string)
	}
	if m.Types == nil {
		m.Types = make(map[string]string)
	}
	if m.Studies == nil {
		m.Studies = make(map[string]string)
	}
	if m.Runs == nil {
		m.Runs = make(map[string][]string)
	}
	if m.RealValues == nil {
		m.RealValues = make(map[string][]RealValue)
	}

	m.index = ontology.NewIndex(m.TermIDs)

	return m
}

// RestrictTo drops every term annotation whose sample is not in available.
// The other mappings are left alone since they are only consulted for samples
// that have terms.
func (m *Metadata) RestrictTo(available []string) {
	keep := make(map[string]struct{}, len(available))
	for _, sample := range available {
		keep[sample] = struct{}{}
	}

	for sample := range m.Terms {
		if _, exists := keep[sample]; !exists {
			delete(m.Terms, sample)
		}
	}
}

func (m *Metadata) HasTerms(sample string) bool {
	_, exists := m.Terms[sample]
	return exists
}

func (m *Metadata) SampleTerms(sample string) ([]string, error) {
	terms, exists := m.Terms[sample]
	if !exists {
		return nil, missing("terms", sample)
	}

	return terms, nil
}

func (m *Metadata) SampleType(sample string) (string, error) {
	typ, exists := m.Types[sample]
	if !exists {
		return "", missing("type", sample)
	}

	return typ, nil
}

func (m *Metadata) SampleStudy(sample string) (string, error) {
	study, exists := m.Studies[sample]
	if !exists {
		return "", missing("study", sample)
	}

	return study, nil
}

// SampleRuns returns the runs of a sample. Runs are optional, so a sample
// without an entry simply has none.
func (m *Metadata) SampleRuns(sample string) ([]string, error) {
	return m.Runs[sample], nil
}

func (m *Metadata) SampleRealValues(sample string) []RealValue {
	return m.RealValues[sample]
}

func (m *Metadata) RealValueSamples() []string {
	out := make([]string, 0, len(m.RealValues))
	for sample := range m.RealValues {
		out = append(out, sample)
	}
	sort.Strings(out)

	return out
}

func (m *Metadata) Ontology() ontology.Index {
	return m.index
}

func missing(mapping, sample string) error {
	return fmt.Errorf("%s lookup for %q: %w", mapping, sample, ErrMissingKey)
}
