// Package samplefilter excludes samples that would muddy a case/control
// comparison: samples annotated with blacklisted terms, samples whose
// annotation is too thin to place them in a tissue or cell type, cell lines,
// and in vitro differentiated cells.
package samplefilter

import (
	"github.com/carbocation/casecontrol/metadata"
	"github.com/carbocation/casecontrol/ontology"
	"github.com/carbocation/casecontrol/sampleset"
)

// Flags toggles each quality exclusion independently.
type Flags struct {
	Poor           bool `koanf:"poor"`
	CellLine       bool `koanf:"cell_line"`
	Differentiated bool `koanf:"differentiated"`
}

// DefaultFlags turns every exclusion on.
func DefaultFlags() Flags {
	return Flags{
		Poor:           true,
		CellLine:       true,
		Differentiated: true,
	}
}

// Annotation records which exclusion classes a sample falls into.
type Annotation struct {
	Poor           bool
	CellLine       bool
	Differentiated bool
}

// Excluded reports whether any class the sample is in is switched on in
// flags.
func (a Annotation) Excluded(flags Flags) bool {
	return (flags.Poor && a.Poor) ||
		(flags.CellLine && a.CellLine) ||
		(flags.Differentiated && a.Differentiated)
}

// Classify places one sample into the exclusion classes.
func Classify(sample string, lookup metadata.Lookup) (Annotation, error) {
	terms, err := lookup.SampleTerms(sample)
	if err != nil {
		return Annotation{}, err
	}

	poor, err := ontology.IsPoorQuality(terms, lookup.Ontology())
	if err != nil {
		return Annotation{}, err
	}

	typ, err := lookup.SampleType(sample)
	if err != nil {
		return Annotation{}, err
	}

	differentiated := typ == metadata.TypeInVitroDifferentiated ||
		typ == metadata.TypeInducedPluripotentStem

	return Annotation{
		Poor:           poor,
		CellLine:       typ == metadata.TypeCellLine,
		Differentiated: differentiated,
	}, nil
}

// FilterBlacklist returns the samples that carry none of the blacklisted
// terms. Matching is on the exact term name.
func FilterBlacklist(samples, blacklist sampleset.Set, lookup metadata.Lookup) (sampleset.Set, error) {
	out := sampleset.New()

	for sample := range samples {
		terms, err := lookup.SampleTerms(sample)
		if err != nil {
			return nil, err
		}

		if !blacklist.Intersects(terms) {
			out.Add(sample)
		}
	}

	return out, nil
}

// Partitions are the exclusion classes over one set of samples. A sample may
// sit in several at once.
type Partitions struct {
	Poor           sampleset.Set
	CellLine       sampleset.Set
	Differentiated sampleset.Set
}

// PartitionQuality classifies every sample, regardless of which filters will
// later be applied.
func PartitionQuality(samples sampleset.Set, lookup metadata.Lookup) (*Partitions, error) {
	p := &Partitions{
		Poor:           sampleset.New(),
		CellLine:       sampleset.New(),
		Differentiated: sampleset.New(),
	}

	for sample := range samples {
		a, err := Classify(sample, lookup)
		if err != nil {
			return nil, err
		}

		if a.Poor {
			p.Poor.Add(sample)
		}
		if a.CellLine {
			p.CellLine.Add(sample)
		}
		if a.Differentiated {
			p.Differentiated.Add(sample)
		}
	}

	return p, nil
}

// Annotate reports the classes a sample was placed in.
func (p *Partitions) Annotate(sample string) Annotation {
	return Annotation{
		Poor:           p.Poor.Has(sample),
		CellLine:       p.CellLine.Has(sample),
		Differentiated: p.Differentiated.Has(sample),
	}
}

// Apply removes the classes switched on in flags from copies of cases and
// controls. The inputs are not modified.
func (p *Partitions) Apply(cases, controls sampleset.Set, flags Flags) (sampleset.Set, sampleset.Set) {
	cases, controls = cases.Clone(), controls.Clone()

	for _, excluded := range []struct {
		on  bool
		set sampleset.Set
	}{
		{flags.Poor, p.Poor},
		{flags.CellLine, p.CellLine},
		{flags.Differentiated, p.Differentiated},
	} {
		if !excluded.on {
			continue
		}
		cases.Subtract(excluded.set)
		controls.Subtract(excluded.set)
	}

	return cases, controls
}
