package table

import (
	"sort"

	"github.com/carbocation/casecontrol/sampleset"
)

// SelectExperiments returns the entity IDs of one condition within one tissue
// group, in table order.
func SelectExperiments(rows []CohortRow, condition Condition, tissueKey string) []string {
	out := make([]string, 0)
	for _, row := range rows {
		if row.Condition == condition && row.TissueKey == tissueKey {
			out = append(out, row.EntityID)
		}
	}

	return out
}

// TissueSummary counts the distinct studies and the rows for one condition in
// one tissue group.
type TissueSummary struct {
	TissueKey string
	Condition Condition
	Studies   int
	Samples   int
}

// Summarize produces a case and a control summary for every tissue group in
// rows, ordered by tissue key.
func Summarize(rows []CohortRow) []TissueSummary {
	type groupKey struct {
		tissue    string
		condition Condition
	}

	studies := make(map[groupKey]sampleset.Set)
	samples := make(map[groupKey]int)
	tissues := sampleset.New()

	for _, row := range rows {
		k := groupKey{row.TissueKey, row.Condition}
		if studies[k] == nil {
			studies[k] = sampleset.New()
		}
		studies[k].Add(row.Study)
		samples[k]++
		tissues.Add(row.TissueKey)
	}

	out := make([]TissueSummary, 0, 2*tissues.Len())
	for _, tissue := range tissues.Sorted() {
		for _, condition := range []Condition{Case, Control} {
			k := groupKey{tissue, condition}
			out = append(out, TissueSummary{
				TissueKey: tissue,
				Condition: condition,
				Studies:   studies[k].Len(),
				Samples:   samples[k],
			})
		}
	}

	return out
}

// ValueCount is the number of samples bucketed under one property value.
type ValueCount struct {
	Value   int
	Samples int
}

// SeriesCounts flattens a series bucket map, ordered by value.
func SeriesCounts(buckets map[int]sampleset.Set) []ValueCount {
	out := make([]ValueCount, 0, len(buckets))
	for value, samples := range buckets {
		out = append(out, ValueCount{Value: value, Samples: samples.Len()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })

	return out
}
