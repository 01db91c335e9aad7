package samplefilter

import (
	"testing"

	"github.com/carbocation/casecontrol/metadata"
	"github.com/carbocation/casecontrol/sampleset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMetadata() *metadata.Metadata {
	return metadata.New(
		map[string][]string{
			"tissue":  {"breast"},
			"poor":    {"breast cancer"},
			"hela":    {"HeLa", "breast cancer"},
			"ipsc":    {"T cell"},
			"both":    {"disease"},
			"listed":  {"breast", "disease"},
			"invitro": {"breast"},
		},
		map[string]string{
			"breast":        "UBERON:0000310",
			"T cell":        "CL:0000084",
			"HeLa":          "CVCL_0030",
			"breast cancer": "DOID:1612",
			"disease":       "DOID:4",
		},
		map[string]string{
			"tissue":  "tissue",
			"poor":    "primary cells",
			"hela":    metadata.TypeCellLine,
			"ipsc":    metadata.TypeInducedPluripotentStem,
			"both":    metadata.TypeCellLine,
			"listed":  "tissue",
			"invitro": metadata.TypeInVitroDifferentiated,
		},
		nil, nil, nil,
	)
}

func TestFilterBlacklist(t *testing.T) {
	md := testMetadata()

	kept, err := FilterBlacklist(sampleset.New("tissue", "listed", "both", "poor"), sampleset.New("disease"), md)
	require.NoError(t, err)
	assert.Equal(t, []string{"poor", "tissue"}, kept.Sorted())

	// Blacklisting is by exact name only
	kept, err = FilterBlacklist(sampleset.New("tissue", "listed"), sampleset.New("Disease", "diseases"), md)
	require.NoError(t, err)
	assert.Equal(t, []string{"listed", "tissue"}, kept.Sorted())
}

func TestFilterBlacklistMissingSample(t *testing.T) {
	_, err := FilterBlacklist(sampleset.New("nobody"), sampleset.New("disease"), testMetadata())
	require.ErrorIs(t, err, metadata.ErrMissingKey)
}

func TestPartitionQuality(t *testing.T) {
	md := testMetadata()

	p, err := PartitionQuality(sampleset.New("tissue", "poor", "hela", "ipsc", "both", "invitro"), md)
	require.NoError(t, err)

	assert.Equal(t, []string{"both", "poor"}, p.Poor.Sorted())
	assert.Equal(t, []string{"both", "hela"}, p.CellLine.Sorted())
	assert.Equal(t, []string{"invitro", "ipsc"}, p.Differentiated.Sorted())

	assert.Equal(t, Annotation{Poor: true, CellLine: true}, p.Annotate("both"))
	assert.Equal(t, Annotation{}, p.Annotate("tissue"))
	assert.Equal(t, Annotation{}, p.Annotate("not partitioned"))
}

func TestApplyFilters(t *testing.T) {
	md := testMetadata()
	cases := sampleset.New("tissue", "poor", "hela")
	controls := sampleset.New("ipsc", "both", "invitro", "listed")

	p, err := PartitionQuality(cases.Union(controls), md)
	require.NoError(t, err)

	c, k := p.Apply(cases, controls, DefaultFlags())
	assert.Equal(t, []string{"tissue"}, c.Sorted())
	assert.Equal(t, []string{"listed"}, k.Sorted())

	c, k = p.Apply(cases, controls, Flags{CellLine: true})
	assert.Equal(t, []string{"poor", "tissue"}, c.Sorted())
	assert.Equal(t, []string{"invitro", "ipsc", "listed"}, k.Sorted())

	c, k = p.Apply(cases, controls, Flags{})
	assert.True(t, c.Equal(cases))
	assert.True(t, k.Equal(controls))

	// Inputs are never modified
	assert.Equal(t, 3, cases.Len())
	assert.Equal(t, 4, controls.Len())
}

func TestAnnotationExcluded(t *testing.T) {
	a := Annotation{CellLine: true}

	assert.True(t, a.Excluded(DefaultFlags()))
	assert.True(t, a.Excluded(Flags{CellLine: true}))
	assert.False(t, a.Excluded(Flags{Poor: true, Differentiated: true}))
	assert.False(t, Annotation{}.Excluded(DefaultFlags()))
}
