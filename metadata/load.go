package metadata

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/carbocation/casecontrol"
	"github.com/carbocation/pfx"
	"go.uber.org/zap"
)

// File names inside a metadata directory.
const (
	FileTerms      = "experiment_to_terms.json"
	FileTermIDs    = "term_name_to_id.json"
	FileTypes      = "experiment_to_type.json"
	FileStudies    = "experiment_to_study.json"
	FileRealValues = "experiment_to_real_value_terms.json"
	FileRuns       = "experiment_to_runs.json"
)

// Load reads the six JSON mappings from dir, which may be a local directory or
// a gs:// prefix. Files may be compressed. If available is set, it names a
// JSON list of sample IDs and only those samples keep their term annotations.
// The storage client is only needed for gs:// paths.
func Load(ctx context.Context, dir, available string, client *storage.Client) (*Metadata, error) {
	var (
		terms      map[string][]string
		termIDs    map[string]string
		types      map[string]string
		studies    map[string]string
		runs       map[string][]string
		realValues map[string][]RealValue
	)

	for _, file := range []struct {
		name string
		into interface{}
	}{
		{FileTerms, &terms},
		{FileTermIDs, &termIDs},
		{FileTypes, &types},
		{FileStudies, &studies},
		{FileRealValues, &realValues},
		{FileRuns, &runs},
	} {
		path := casecontrol.JoinPath(dir, file.name)
		if err := readJSON(ctx, path, client, file.into); err != nil {
			return nil, pfx.Err(err)
		}
	}

	zap.L().Info("loaded metadata",
		zap.String("dir", dir),
		zap.Int("samples", len(terms)),
		zap.Int("terms", len(termIDs)),
		zap.Int("samples_with_real_values", len(realValues)),
	)

	m := New(terms, termIDs, types, studies, runs, realValues)

	if available != "" {
		keep, err := ReadSampleList(ctx, available, client)
		if err != nil {
			return nil, err
		}
		m.RestrictTo(keep)

		zap.L().Info("restricted to available samples",
			zap.String("path", available),
			zap.Int("listed", len(keep)),
			zap.Int("retained", len(m.Terms)),
		)
	}

	return m, nil
}

// ReadSampleList reads a JSON list of sample IDs.
func ReadSampleList(ctx context.Context, path string, client *storage.Client) ([]string, error) {
	var samples []string
	if err := readJSON(ctx, path, client, &samples); err != nil {
		return nil, pfx.Err(err)
	}

	return samples, nil
}

func readJSON(ctx context.Context, path string, client *storage.Client, into interface{}) error {
	rc, err := casecontrol.OpenFileOrGS(ctx, path, client)
	if err != nil {
		return err
	}
	defer rc.Close()

	if err := json.NewDecoder(rc).Decode(into); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return nil
}
