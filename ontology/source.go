package ontology

import "strings"

// Source is the controlled vocabulary a term identifier belongs to.
type Source byte

const (
	Other Source = iota
	Anatomical
	CellLine
	CellType
)

// Identifier markers. The cell line registry marker contains the cell
// ontology marker, so it must be tested first.
const (
	anatomicalMarker = "UBERON"
	cellLineMarker   = "CVCL"
	cellTypeMarker   = "CL"
)

// ClassifyID tags a term identifier such as UBERON:0000310 or CL:0000236.
func ClassifyID(termID string) Source {
	switch {
	case strings.Contains(termID, anatomicalMarker):
		return Anatomical
	case strings.Contains(termID, cellLineMarker):
		return CellLine
	case strings.Contains(termID, cellTypeMarker):
		return CellType
	}

	return Other
}

func (s Source) String() string {
	switch s {
	case Anatomical:
		return "anatomical"
	case CellLine:
		return "cell line"
	case CellType:
		return "cell type"
	}

	return "other"
}
