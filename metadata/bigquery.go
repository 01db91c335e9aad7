package metadata

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/carbocation/pfx"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"gopkg.in/guregu/null.v3"
)

// WrappedBigQuery carries what is needed to query a dataset holding sample
// metadata. Database is formatted as project.dataset.
type WrappedBigQuery struct {
	Context  context.Context
	Client   *bigquery.Client
	Project  string
	Database string
}

// LoadBigQuery reads the same six mappings as Load from tables in
// BQ.Database:
//
//	sample_terms(sample_id, term)
//	term_ids(term, term_id)
//	samples(sample_id, sample_type, study_id)
//	sample_runs(sample_id, run_id, run_index)
//	sample_real_values(sample_id, property, unit, value, record_index)
//
// Runs and real values keep their per-sample order via the index columns.
func LoadBigQuery(BQ *WrappedBigQuery) (*Metadata, error) {
	acc := newAccumulator()

	var termRow bqTermRow
	if err := queryEach(BQ, fmt.Sprintf(`SELECT sample_id, term
FROM %s.sample_terms
ORDER BY sample_id, term`, BQ.Database), &termRow, func() {
		acc.addTerm(termRow)
	}); err != nil {
		return nil, pfx.Err(err)
	}

	var idRow bqTermIDRow
	if err := queryEach(BQ, fmt.Sprintf(`SELECT term, term_id
FROM %s.term_ids`, BQ.Database), &idRow, func() {
		acc.addTermID(idRow)
	}); err != nil {
		return nil, pfx.Err(err)
	}

	var sampleRow bqSampleRow
	if err := queryEach(BQ, fmt.Sprintf(`SELECT sample_id, sample_type, study_id
FROM %s.samples`, BQ.Database), &sampleRow, func() {
		acc.addSample(sampleRow)
	}); err != nil {
		return nil, pfx.Err(err)
	}

	var runRow bqRunRow
	if err := queryEach(BQ, fmt.Sprintf(`SELECT sample_id, run_id
FROM %s.sample_runs
ORDER BY sample_id, run_index`, BQ.Database), &runRow, func() {
		acc.addRun(runRow)
	}); err != nil {
		return nil, pfx.Err(err)
	}

	var valueRow bqRealValueRow
	if err := queryEach(BQ, fmt.Sprintf(`SELECT sample_id, property, unit, value
FROM %s.sample_real_values
ORDER BY sample_id, record_index`, BQ.Database), &valueRow, func() {
		acc.addRealValue(valueRow)
	}); err != nil {
		return nil, pfx.Err(err)
	}

	zap.L().Info("loaded metadata from bigquery",
		zap.String("database", BQ.Database),
		zap.Int("samples", len(acc.terms)),
		zap.Int("terms", len(acc.termIDs)),
	)

	return acc.metadata(), nil
}

type bqTermRow struct {
	SampleID string `bigquery:"sample_id"`
	Term     string `bigquery:"term"`
}

type bqTermIDRow struct {
	Term   string `bigquery:"term"`
	TermID string `bigquery:"term_id"`
}

type bqSampleRow struct {
	SampleID   string `bigquery:"sample_id"`
	SampleType string `bigquery:"sample_type"`
	StudyID    string `bigquery:"study_id"`
}

type bqRunRow struct {
	SampleID string `bigquery:"sample_id"`
	RunID    string `bigquery:"run_id"`
}

type bqRealValueRow struct {
	SampleID string               `bigquery:"sample_id"`
	Property string               `bigquery:"property"`
	Unit     bigquery.NullString  `bigquery:"unit"`
	Value    bigquery.NullFloat64 `bigquery:"value"`
}

// accumulator gathers query rows into the six mappings. Rows must arrive in
// the order the queries request, since runs and real values are appended.
type accumulator struct {
	terms      map[string][]string
	termIDs    map[string]string
	types      map[string]string
	studies    map[string]string
	runs       map[string][]string
	realValues map[string][]RealValue
}

func newAccumulator() *accumulator {
	return &accumulator{
		terms:      make(map[string][]string),
		termIDs:    make(map[string]string),
		types:      make(map[string]string),
		studies:    make(map[string]string),
		runs:       make(map[string][]string),
		realValues: make(map[string][]RealValue),
	}
}

func (a *accumulator) addTerm(row bqTermRow) {
	a.terms[row.SampleID] = append(a.terms[row.SampleID], row.Term)
}

func (a *accumulator) addTermID(row bqTermIDRow) {
	a.termIDs[row.Term] = row.TermID
}

func (a *accumulator) addSample(row bqSampleRow) {
	a.types[row.SampleID] = row.SampleType
	a.studies[row.SampleID] = row.StudyID
}

func (a *accumulator) addRun(row bqRunRow) {
	a.runs[row.SampleID] = append(a.runs[row.SampleID], row.RunID)
}

func (a *accumulator) addRealValue(row bqRealValueRow) {
	a.realValues[row.SampleID] = append(a.realValues[row.SampleID], RealValue{
		Property: row.Property,
		Unit:     null.NewString(row.Unit.StringVal, row.Unit.Valid),
		Value:    null.NewFloat(row.Value.Float64, row.Value.Valid),
	})
}

func (a *accumulator) metadata() *Metadata {
	return New(a.terms, a.termIDs, a.types, a.studies, a.runs, a.realValues)
}

// queryEach runs query and loads each result row into dst before calling fn.
func queryEach(BQ *WrappedBigQuery, query string, dst interface{}, fn func()) error {
	itr, err := BQ.Client.Query(query).Read(BQ.Context)
	if err != nil {
		return err
	}

	for {
		err := itr.Next(dst)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return err
		}
		fn()
	}

	return nil
}
