// Package ontology classifies sample annotations by the vocabulary of their
// terms: whether a sample is described well enough to be useful, and which of
// its terms describe its tissue or cell type.
package ontology

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrUnknownTerm = errors.New("term has no ontology identifier")

// Terms that carry an anatomical or cell ontology identifier but say nothing
// about the tissue a sample came from.
var (
	notRealTissue = map[string]struct{}{
		"male organism":   {},
		"female organism": {},
		"adult organism":  {},
	}

	notRealCellType = map[string]struct{}{
		"cultured cell": {},
	}

	keyTermStoplist = map[string]struct{}{
		"male organism":   {},
		"female organism": {},
		"adult organism":  {},
		"organ":           {},
		"cultured cell":   {},
		"cell":            {},
		"eukaryotic cell": {},
		"animal cell":     {},
		"native cell":     {},
	}
)

// Index maps term names to the source of their identifier. It is built once
// when metadata is loaded.
type Index map[string]Source

// NewIndex tags every term in a term name => identifier mapping.
func NewIndex(termNameToID map[string]string) Index {
	idx := make(Index, len(termNameToID))
	for name, id := range termNameToID {
		idx[name] = ClassifyID(id)
	}

	return idx
}

// Source returns the tag of a term. Terms that were never loaded are an error.
func (idx Index) Source(term string) (Source, error) {
	src, exists := idx[term]
	if !exists {
		return Other, fmt.Errorf("%q: %w", term, ErrUnknownTerm)
	}

	return src, nil
}

// IsPoorQuality reports whether none of the terms identify a real tissue, a
// cell line, or a cell type.
func IsPoorQuality(terms []string, idx Index) (bool, error) {
	var foundTissue, foundCellLine, foundCellType bool

	for _, term := range terms {
		src, err := idx.Source(term)
		if err != nil {
			return false, err
		}

		switch src {
		case Anatomical:
			if _, skip := notRealTissue[term]; !skip {
				foundTissue = true
			}
		case CellLine:
			foundCellLine = true
		case CellType:
			if _, skip := notRealCellType[term]; !skip {
				foundCellType = true
			}
		}
	}

	return !(foundTissue || foundCellLine || foundCellType), nil
}

// KeyTermSet builds the grouping key for a sample: its anatomical and cell
// type terms, minus generic ones, sorted and comma joined. Samples without any
// informative term share the empty key.
func KeyTermSet(terms []string, idx Index) (string, error) {
	keep := make(map[string]struct{})

	for _, term := range terms {
		src, err := idx.Source(term)
		if err != nil {
			return "", err
		}

		if src != Anatomical && src != CellType {
			continue
		}
		if _, skip := keyTermStoplist[term]; skip {
			continue
		}
		keep[term] = struct{}{}
	}

	out := make([]string, 0, len(keep))
	for term := range keep {
		out = append(out, term)
	}
	sort.Strings(out)

	return strings.Join(out, ","), nil
}
