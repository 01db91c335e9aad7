// Package table defines the flat result tables produced by cohort matching
// and series extraction, and reads and writes them as delimited text. Column
// names are fixed; the plotting code and downstream notebooks depend on them.
package table

type Condition string

const (
	Case    Condition = "case"
	Control Condition = "control"
)

// CohortRow is one sample (or one run) in a matched tissue group. The flags
// describe the sample before filtering was applied.
type CohortRow struct {
	EntityID        string    `csv:"experiment"`
	Study           string    `csv:"project"`
	Condition       Condition `csv:"condition"`
	TissueKey       string    `csv:"type"`
	MissingMetadata bool      `csv:"missing_metadata"`
	CellLine        bool      `csv:"cell_line"`
	Differentiated  bool      `csv:"differentiated"`
}

// cohortRunRow is the header layout used when rows are expanded per run.
type cohortRunRow struct {
	EntityID        string    `csv:"Run"`
	Study           string    `csv:"project"`
	Condition       Condition `csv:"condition"`
	TissueKey       string    `csv:"type"`
	MissingMetadata bool      `csv:"missing_metadata"`
	CellLine        bool      `csv:"cell_line"`
	Differentiated  bool      `csv:"differentiated"`
}

// SeriesRow is one sample bucketed under an integer property value.
type SeriesRow struct {
	EntityID        string `csv:"experiment_accession"`
	Study           string `csv:"study_accession"`
	Property        string `csv:"property"`
	Value           int    `csv:"value"`
	MissingMetadata bool   `csv:"missing_metadata"`
	CellLine        bool   `csv:"cell_line"`
	Differentiated  bool   `csv:"differentiated"`
}
