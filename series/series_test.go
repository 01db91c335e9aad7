package series

import (
	"bytes"
	"testing"

	"github.com/carbocation/casecontrol/metadata"
	"github.com/carbocation/casecontrol/samplefilter"
	"github.com/carbocation/casecontrol/sampleset"
	"github.com/carbocation/casecontrol/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"
)

func age(value float64, unit string) metadata.RealValue {
	rv := metadata.RealValue{Property: "age", Value: null.FloatFrom(value)}
	if unit != "" {
		rv.Unit = null.StringFrom(unit)
	}

	return rv
}

func testMetadata() *metadata.Metadata {
	return metadata.New(
		map[string][]string{
			"young":    {"blood"},
			"old":      {"blood"},
			"brain":    {"brain"},
			"listed":   {"blood", "disease"},
			"line":     {"blood"},
			"poor":     {"disease"},
			"repeated": {"blood"},
		},
		map[string]string{
			"blood":   "UBERON:0000178",
			"brain":   "UBERON:0000955",
			"disease": "DOID:4",
		},
		map[string]string{
			"young":    "tissue",
			"old":      "tissue",
			"brain":    "tissue",
			"listed":   "tissue",
			"line":     metadata.TypeCellLine,
			"poor":     "tissue",
			"repeated": "tissue",
		},
		map[string]string{
			"young":    "SRP1",
			"old":      "SRP2",
			"brain":    "SRP3",
			"listed":   "SRP4",
			"line":     "SRP5",
			"poor":     "SRP6",
			"repeated": "SRP7",
		},
		nil,
		map[string][]metadata.RealValue{
			"young":      {age(10.7, "year")},
			"old":        {age(20, "year")},
			"brain":      {age(10, "year")},
			"listed":     {age(10, "year")},
			"line":       {age(30, "year")},
			"poor":       {age(40, "")},
			"repeated":   {age(10, "year"), {Property: "weight", Value: null.FloatFrom(70)}, age(12, "month")},
			"unlabelled": {age(10, "year")},
		},
	)
}

func query() Query {
	return Query{
		Term:     "blood",
		Property: "age",
		Filters:  samplefilter.DefaultFlags(),
	}
}

func bucketed(res *Result) map[int][]string {
	out := make(map[int][]string)
	for value, samples := range res.Buckets {
		out[value] = samples.Sorted()
	}

	return out
}

func TestExtract(t *testing.T) {
	res, err := Extract(testMetadata(), query())
	require.NoError(t, err)

	// The cell line is flagged, not dropped
	assert.Equal(t, map[int][]string{
		10: {"listed", "repeated", "young"},
		12: {"repeated"},
		20: {"old"},
		30: {"line"},
	}, bucketed(res))
	assert.Equal(t, []string{"line"}, res.Flagged.Sorted())

	assert.Equal(t, []table.SeriesRow{
		{EntityID: "listed", Study: "SRP4", Property: "age", Value: 10},
		{EntityID: "repeated", Study: "SRP7", Property: "age", Value: 10},
		{EntityID: "young", Study: "SRP1", Property: "age", Value: 10},
		{EntityID: "repeated", Study: "SRP7", Property: "age", Value: 12},
		{EntityID: "old", Study: "SRP2", Property: "age", Value: 20},
		{EntityID: "line", Study: "SRP5", Property: "age", Value: 30, CellLine: true},
	}, res.Rows)
}

func TestExtractValueLimit(t *testing.T) {
	q := query()
	q.ValueLimit = null.IntFrom(15)

	res, err := Extract(testMetadata(), q)
	require.NoError(t, err)

	assert.Contains(t, res.Buckets, 10)
	assert.NotContains(t, res.Buckets, 20)

	// A zero limit is still a limit
	q.ValueLimit = null.IntFrom(0)
	res, err = Extract(testMetadata(), q)
	require.NoError(t, err)
	assert.Empty(t, res.Buckets)
	assert.Empty(t, res.Rows)
}

func TestExtractUnit(t *testing.T) {
	q := query()
	q.Unit = null.StringFrom("month")

	res, err := Extract(testMetadata(), q)
	require.NoError(t, err)
	assert.Equal(t, map[int][]string{12: {"repeated"}}, bucketed(res))
}

func TestExtractBlacklistAndFilters(t *testing.T) {
	q := query()
	q.Blacklist = sampleset.New("disease")
	q.Filters = samplefilter.Flags{}

	res, err := Extract(testMetadata(), q)
	require.NoError(t, err)
	assert.Equal(t, map[int][]string{
		10: {"repeated", "young"},
		12: {"repeated"},
		20: {"old"},
		30: {"line"},
	}, bucketed(res))

	assert.Empty(t, res.Flagged)

	// Flags are still reported when the filters are off
	last := res.Rows[len(res.Rows)-1]
	assert.Equal(t, table.SeriesRow{EntityID: "line", Study: "SRP5", Property: "age", Value: 30, CellLine: true}, last)

}

func TestExtractPoorQuality(t *testing.T) {
	q := query()
	q.Term = "disease"

	for _, filters := range []samplefilter.Flags{samplefilter.DefaultFlags(), {}} {
		q.Filters = filters

		res, err := Extract(testMetadata(), q)
		require.NoError(t, err)
		assert.Equal(t, map[int][]string{10: {"listed"}, 40: {"poor"}}, bucketed(res))
		require.Len(t, res.Rows, 2)
		assert.False(t, res.Rows[0].MissingMetadata)
		assert.True(t, res.Rows[1].MissingMetadata)

		if filters.Poor {
			assert.Equal(t, []string{"poor"}, res.Flagged.Sorted())
		} else {
			assert.Empty(t, res.Flagged)
		}
	}
}

func TestExtractMissingTypeWithoutTerm(t *testing.T) {
	md := testMetadata()
	delete(md.Types, "brain")

	_, err := Extract(md, query())
	require.ErrorIs(t, err, metadata.ErrMissingKey)
}

func TestExtractMissingStudy(t *testing.T) {
	md := testMetadata()
	delete(md.Studies, "old")

	_, err := Extract(md, query())
	require.ErrorIs(t, err, metadata.ErrMissingKey)
}

func TestSummarize(t *testing.T) {
	s, err := Summarize(map[int]sampleset.Set{
		10: sampleset.New("a", "b"),
		20: sampleset.New("c"),
		40: sampleset.New("d"),
	})
	require.NoError(t, err)

	assert.Equal(t, 4, s.N)
	assert.Equal(t, 10.0, s.Min)
	assert.Equal(t, 40.0, s.Max)
	assert.Equal(t, 20.0, s.Mean)
	assert.Equal(t, 15.0, s.Median)

	s, err = Summarize(nil)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, s)
}

func TestWriteHistogram(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHistogram(&buf, map[int]sampleset.Set{10: sampleset.New("a"), 20: sampleset.New("b", "c")}, 5))
	assert.NotEmpty(t, buf.String())

	buf.Reset()
	require.NoError(t, WriteHistogram(&buf, map[int]sampleset.Set{}, 5))
	assert.Empty(t, buf.String())
}
