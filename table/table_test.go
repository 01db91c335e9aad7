package table

import (
	"bytes"
	"strings"
	"testing"

	"github.com/carbocation/casecontrol/sampleset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRows = []CohortRow{
	{EntityID: "SRX1", Study: "SRP1", Condition: Case, TissueKey: "blood,liver"},
	{EntityID: "SRX2", Study: "SRP1", Condition: Control, TissueKey: "blood,liver", CellLine: true},
	{EntityID: "SRX3", Study: "SRP2", Condition: Control, TissueKey: "blood,liver"},
	{EntityID: "SRX4", Study: "SRP3", Condition: Case, TissueKey: "", MissingMetadata: true},
	{EntityID: "SRX5", Study: "SRP3", Condition: Control, TissueKey: "", Differentiated: true},
}

func TestWriteCohortHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCohort(&buf, testRows[:1], false))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "experiment\tproject\tcondition\ttype\tmissing_metadata\tcell_line\tdifferentiated", lines[0])
	assert.Equal(t, "SRX1\tSRP1\tcase\tblood,liver\tfalse\tfalse\tfalse", lines[1])

	buf.Reset()
	require.NoError(t, WriteCohort(&buf, testRows[:1], true))
	assert.True(t, strings.HasPrefix(buf.String(), "Run\tproject\t"))
}

func TestCohortRoundTrip(t *testing.T) {
	for _, byRun := range []bool{false, true} {
		var buf bytes.Buffer
		require.NoError(t, WriteCohort(&buf, testRows, byRun))

		rows, err := ReadCohort(&buf)
		require.NoError(t, err)
		assert.Equal(t, testRows, rows, "byRun=%v", byRun)
	}
}

func TestReadCohortCommaDelimited(t *testing.T) {
	in := "experiment,project,condition,type,missing_metadata,cell_line,differentiated\n" +
		"SRX1,SRP1,case,blood,false,false,false\n" +
		"SRX2,SRP2,control,blood,false,true,false\n"

	rows, err := ReadCohort(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []CohortRow{
		{EntityID: "SRX1", Study: "SRP1", Condition: Case, TissueKey: "blood"},
		{EntityID: "SRX2", Study: "SRP2", Condition: Control, TissueKey: "blood", CellLine: true},
	}, rows)
}

func TestReadCohortEmpty(t *testing.T) {
	rows, err := ReadCohort(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestWriteSeries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSeries(&buf, []SeriesRow{{EntityID: "SRX1", Study: "SRP1", Property: "age", Value: 10, CellLine: true}}))
	assert.Equal(t,
		"experiment_accession\tstudy_accession\tproperty\tvalue\tmissing_metadata\tcell_line\tdifferentiated\n"+
			"SRX1\tSRP1\tage\t10\tfalse\ttrue\tfalse\n",
		buf.String())
}

func TestSelectExperiments(t *testing.T) {
	assert.Equal(t, []string{"SRX2", "SRX3"}, SelectExperiments(testRows, Control, "blood,liver"))
	assert.Equal(t, []string{"SRX4"}, SelectExperiments(testRows, Case, ""))
	assert.Empty(t, SelectExperiments(testRows, Case, "brain"))
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, []TissueSummary{
		{TissueKey: "", Condition: Case, Studies: 1, Samples: 1},
		{TissueKey: "", Condition: Control, Studies: 1, Samples: 1},
		{TissueKey: "blood,liver", Condition: Case, Studies: 1, Samples: 1},
		{TissueKey: "blood,liver", Condition: Control, Studies: 2, Samples: 2},
	}, Summarize(testRows))

	assert.Empty(t, Summarize(nil))
}

func TestSeriesCounts(t *testing.T) {
	counts := SeriesCounts(map[int]sampleset.Set{
		30: sampleset.New("a"),
		2:  sampleset.New("b", "c"),
	})
	assert.Equal(t, []ValueCount{{Value: 2, Samples: 2}, {Value: 30, Samples: 1}}, counts)
}
