// Package series buckets the samples bearing a term by the integer value of a
// numeric property, such as age, applying the same exclusions used for cohort
// matching.
package series

import (
	"fmt"
	"sort"

	"github.com/carbocation/casecontrol/metadata"
	"github.com/carbocation/casecontrol/samplefilter"
	"github.com/carbocation/casecontrol/sampleset"
	"github.com/carbocation/casecontrol/table"
	"gopkg.in/guregu/null.v3"
)

// Query describes one series. Unit and ValueLimit are optional; when unset,
// any unit and any value are accepted.
type Query struct {
	Term       string
	Property   string
	Unit       null.String
	ValueLimit null.Int
	Blacklist  sampleset.Set
	Filters    samplefilter.Flags
}

// Result maps each truncated value to its samples. Rows flattens the same data
// in ascending value order. Flagged holds the bucketed samples that fall into
// a class switched on in the query filters; they stay in Buckets and Rows
// with their flag columns set.
type Result struct {
	Buckets map[int]sampleset.Set
	Rows    []table.SeriesRow
	Flagged sampleset.Set
}

// Extract walks every sample with real valued properties, record by record.
// A record is skipped if it is for another property or unit, exceeds the
// limit, or belongs to a blacklisted sample. Otherwise the sample is bucketed
// under the record's value if it bears the query term. Quality classes are
// checked only after bucketing, so the filters mark samples rather than drop
// them. A sample with several qualifying records may land in several buckets.
func Extract(lookup metadata.Lookup, q Query) (*Result, error) {
	res, err := extract(lookup, q)
	if err != nil {
		return nil, fmt.Errorf("%s series for %q: %w", q.Property, q.Term, err)
	}

	return res, nil
}

func extract(lookup metadata.Lookup, q Query) (*Result, error) {
	if q.Blacklist == nil {
		q.Blacklist = sampleset.New()
	}

	buckets := make(map[int]sampleset.Set)
	annotations := make(map[string]samplefilter.Annotation)
	flagged := sampleset.New()

	for _, sample := range lookup.RealValueSamples() {
		if !lookup.HasTerms(sample) {
			continue
		}

		terms, err := lookup.SampleTerms(sample)
		if err != nil {
			return nil, err
		}
		bears := hasTerm(terms, q.Term)

		for _, record := range lookup.SampleRealValues(sample) {
			if q.Unit.Valid && (!record.Unit.Valid || record.Unit.String != q.Unit.String) {
				continue
			}
			if record.Property != q.Property || !record.Value.Valid {
				continue
			}

			value := int(record.Value.Float64)
			if q.ValueLimit.Valid && int64(value) > q.ValueLimit.Int64 {
				continue
			}
			if q.Blacklist.Intersects(terms) {
				continue
			}

			if bears {
				if buckets[value] == nil {
					buckets[value] = sampleset.New()
				}
				buckets[value].Add(sample)
			}

			annotation, seen := annotations[sample]
			if !seen {
				if annotation, err = samplefilter.Classify(sample, lookup); err != nil {
					return nil, err
				}
				annotations[sample] = annotation
			}
			if bears && annotation.Excluded(q.Filters) {
				flagged.Add(sample)
			}
		}
	}

	rows, err := buildRows(lookup, q.Property, buckets, annotations)
	if err != nil {
		return nil, err
	}

	return &Result{Buckets: buckets, Rows: rows, Flagged: flagged}, nil
}

func buildRows(lookup metadata.Lookup, property string, buckets map[int]sampleset.Set, annotations map[string]samplefilter.Annotation) ([]table.SeriesRow, error) {
	values := make([]int, 0, len(buckets))
	for value := range buckets {
		values = append(values, value)
	}
	sort.Ints(values)

	rows := make([]table.SeriesRow, 0)
	for _, value := range values {
		for _, sample := range buckets[value].Sorted() {
			study, err := lookup.SampleStudy(sample)
			if err != nil {
				return nil, err
			}

			a := annotations[sample]
			rows = append(rows, table.SeriesRow{
				EntityID:        sample,
				Study:           study,
				Property:        property,
				Value:           value,
				MissingMetadata: a.Poor,
				CellLine:        a.CellLine,
				Differentiated:  a.Differentiated,
			})
		}
	}

	return rows, nil
}

func hasTerm(terms []string, term string) bool {
	for _, t := range terms {
		if t == term {
			return true
		}
	}

	return false
}
