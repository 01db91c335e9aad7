package table

import (
	"bytes"
	"encoding/csv"
	"io"

	"github.com/carbocation/casecontrol"
	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
)

const runHeader = "Run"

func tabWriter(w io.Writer) *gocsv.SafeCSVWriter {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	return gocsv.NewSafeCSVWriter(cw)
}

// WriteCohort writes rows as a tab delimited table. With byRun the entity
// column is headed Run instead of experiment.
func WriteCohort(w io.Writer, rows []CohortRow, byRun bool) error {
	var out interface{} = &rows

	if byRun {
		runRows := make([]cohortRunRow, 0, len(rows))
		for _, row := range rows {
			runRows = append(runRows, cohortRunRow(row))
		}
		out = &runRows
	}

	if err := gocsv.MarshalCSV(out, tabWriter(w)); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// WriteSeries writes series rows as a tab delimited table.
func WriteSeries(w io.Writer, rows []SeriesRow) error {
	if err := gocsv.MarshalCSV(&rows, tabWriter(w)); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// ReadCohort reads a cohort table written by WriteCohort, or by anything else
// that uses the same column names. The delimiter is detected, so comma
// separated exports work too.
func ReadCohort(r io.Reader) ([]CohortRow, error) {
	fileBytes, err := io.ReadAll(r)
	if err != nil {
		return nil, pfx.Err(err)
	}
	if len(bytes.TrimSpace(fileBytes)) == 0 {
		return []CohortRow{}, nil
	}

	delim := casecontrol.DetermineDelimiter(bytes.NewReader(fileBytes), '\t')
	reader := func() *csv.Reader {
		cr := csv.NewReader(bytes.NewReader(fileBytes))
		cr.Comma = delim
		cr.LazyQuotes = true
		return cr
	}

	header, err := reader().Read()
	if err == io.EOF {
		return []CohortRow{}, nil
	} else if err != nil {
		return nil, pfx.Err(err)
	}

	byRun := false
	for _, col := range header {
		if col == runHeader {
			byRun = true
		}
	}

	if !byRun {
		rows := []CohortRow{}
		if err := gocsv.UnmarshalCSV(reader(), &rows); err != nil {
			return nil, pfx.Err(err)
		}
		return rows, nil
	}

	runRows := []cohortRunRow{}
	if err := gocsv.UnmarshalCSV(reader(), &runRows); err != nil {
		return nil, pfx.Err(err)
	}
	rows := make([]CohortRow, 0, len(runRows))
	for _, row := range runRows {
		rows = append(rows, CohortRow(row))
	}

	return rows, nil
}
