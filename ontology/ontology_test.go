package ontology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testIndex = NewIndex(map[string]string{
	"breast":          "UBERON:0000310",
	"brain":           "UBERON:0000955",
	"male organism":   "UBERON:0003101",
	"female organism": "UBERON:0003100",
	"adult organism":  "UBERON:0007023",
	"organ":           "UBERON:0000062",
	"T cell":          "CL:0000084",
	"cultured cell":   "CL:0000010",
	"cell":            "CL:0000000",
	"native cell":     "CL:0000003",
	"HeLa":            "CVCL_0030",
	"breast cancer":   "DOID:1612",
	"RNA-seq":         "EFO:0008896",
})

func TestClassifyID(t *testing.T) {
	for id, expected := range map[string]Source{
		"UBERON:0000310": Anatomical,
		"CVCL_0030":      CellLine,
		"CL:0000084":     CellType,
		"DOID:1612":      Other,
		"":               Other,
	} {
		assert.Equal(t, expected, ClassifyID(id), id)
	}
}

func TestUnknownTerm(t *testing.T) {
	_, err := IsPoorQuality([]string{"breast", "not loaded"}, testIndex)
	require.ErrorIs(t, err, ErrUnknownTerm)

	_, err = KeyTermSet([]string{"not loaded"}, testIndex)
	require.ErrorIs(t, err, ErrUnknownTerm)
}

func TestIsPoorQuality(t *testing.T) {
	for _, v := range []struct {
		terms []string
		poor  bool
	}{
		{[]string{"breast", "breast cancer"}, false},
		{[]string{"HeLa"}, false},
		{[]string{"T cell"}, false},
		{[]string{"breast cancer"}, true},
		{[]string{"male organism", "adult organism", "breast cancer"}, true},
		{[]string{"cultured cell"}, true},
		{[]string{"female organism", "cultured cell", "RNA-seq"}, true},
		{[]string{"organ"}, false},
		{nil, true},
	} {
		poor, err := IsPoorQuality(v.terms, testIndex)
		require.NoError(t, err)
		assert.Equal(t, v.poor, poor, "%v", v.terms)
	}
}

func TestKeyTermSet(t *testing.T) {
	for _, v := range []struct {
		terms    []string
		expected string
	}{
		{[]string{"breast", "breast cancer"}, "breast"},
		{[]string{"T cell", "breast", "male organism"}, "T cell,breast"},
		{[]string{"HeLa", "cultured cell", "cell", "native cell"}, ""},
		{[]string{"organ", "adult organism", "brain"}, "brain"},
		{[]string{"brain", "brain"}, "brain"},
		{nil, ""},
	} {
		key, err := KeyTermSet(v.terms, testIndex)
		require.NoError(t, err)
		assert.Equal(t, v.expected, key, "%v", v.terms)
	}
}

func TestKeyTermSetOrderIndependent(t *testing.T) {
	permutations := [][]string{
		{"brain", "breast", "T cell", "RNA-seq"},
		{"T cell", "RNA-seq", "breast", "brain"},
		{"RNA-seq", "brain", "T cell", "breast"},
	}

	first, err := KeyTermSet(permutations[0], testIndex)
	require.NoError(t, err)
	assert.Equal(t, "T cell,brain,breast", first)

	for _, terms := range permutations[1:] {
		key, err := KeyTermSet(terms, testIndex)
		require.NoError(t, err)
		assert.Equal(t, first, key)

		again, err := KeyTermSet(terms, testIndex)
		require.NoError(t, err)
		assert.Equal(t, key, again)
	}
}
