package series

import (
	"io"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/carbocation/casecontrol/sampleset"
	"github.com/carbocation/pfx"
	"github.com/montanaflynn/stats"
)

// Summary describes the distribution of bucketed values, with one observation
// per sample per bucket.
type Summary struct {
	N      int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
}

// Summarize an extraction. An empty series yields the zero Summary.
func Summarize(buckets map[int]sampleset.Set) (Summary, error) {
	data := observations(buckets)
	if len(data) == 0 {
		return Summary{}, nil
	}

	var err error
	s := Summary{N: len(data)}

	if s.Min, err = data.Min(); err != nil {
		return s, pfx.Err(err)
	}
	if s.Max, err = data.Max(); err != nil {
		return s, pfx.Err(err)
	}
	if s.Mean, err = data.Mean(); err != nil {
		return s, pfx.Err(err)
	}
	if s.Median, err = data.Median(); err != nil {
		return s, pfx.Err(err)
	}

	return s, nil
}

// WriteHistogram draws a text histogram of the bucketed values to w. Nothing
// is drawn for an empty series.
func WriteHistogram(w io.Writer, buckets map[int]sampleset.Set, bins int) error {
	data := observations(buckets)
	if len(data) == 0 {
		return nil
	}

	hist := histogram.Hist(bins, data)
	if err := histogram.Fprint(w, hist, histogram.Linear(40)); err != nil {
		return pfx.Err(err)
	}

	return nil
}

func observations(buckets map[int]sampleset.Set) stats.Float64Data {
	data := make(stats.Float64Data, 0)
	for value, samples := range buckets {
		for range samples {
			data = append(data, float64(value))
		}
	}

	return data
}
