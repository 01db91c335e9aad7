package barplot

import (
	"bytes"
	"testing"

	"github.com/carbocation/casecontrol/table"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestRenderSummary(t *testing.T) {
	summaries := []table.TissueSummary{
		{TissueKey: "blood", Condition: table.Case, Studies: 1, Samples: 3},
		{TissueKey: "blood", Condition: table.Control, Studies: 1, Samples: 3},
		{TissueKey: "", Condition: table.Case, Studies: 1, Samples: 1},
	}

	for _, metric := range []Metric{Studies, Samples} {
		var buf bytes.Buffer
		if err := RenderSummary(&buf, summaries, metric); err != nil {
			t.Fatalf("%s: %v", metric, err)
		}
		if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
			t.Errorf("%s: output is not a PNG", metric)
		}
	}
}

func TestRenderSeries(t *testing.T) {
	var buf bytes.Buffer
	counts := []table.ValueCount{{Value: 10, Samples: 2}, {Value: 12, Samples: 5}}
	if err := RenderSeries(&buf, counts, "age"); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestNothingToPlot(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil, Studies); err == nil {
		t.Error("expected an error for an empty summary")
	}
	if err := RenderSeries(&buf, nil, "age"); err == nil {
		t.Error("expected an error for an empty series")
	}
	if buf.Len() != 0 {
		t.Error("nothing should be written")
	}
}

func TestTissueLabel(t *testing.T) {
	if got := tissueLabel(""); got != "(none)" {
		t.Errorf("got %q", got)
	}
	if got := tissueLabel("blood,liver"); got != "blood,liver" {
		t.Errorf("got %q", got)
	}
}
