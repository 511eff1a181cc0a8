package domain

import (
	"sort"

	m "github.com/mouse-blink/optilabel/internal/model"
)

// CompareIgnorePosition compares the label sets of a reference and a
// generated tagged text. Row order and duplicate counts are ignored.
//
// MissingInText1 lists labels found only in generated, MissingInText2 lists
// labels found only in reference. Lists are sorted.
func CompareIgnorePosition(reference, generated string) (m.SetComparison, error) {
	set1, err := labelSet(ExtractRows(reference))
	if err != nil {
		return m.SetComparison{}, err
	}

	set2, err := labelSet(ExtractRows(generated))
	if err != nil {
		return m.SetComparison{}, err
	}

	common := intersect(set1, set2)
	totalUnique := len(set1) + len(set2) - len(common)

	result := m.SetComparison{
		CommonWords:    sortedKeys(common),
		MissingInText1: sortedKeys(subtract(set2, set1)),
		MissingInText2: sortedKeys(subtract(set1, set2)),
	}

	if totalUnique > 0 {
		result.MatchPercentage = float64(len(common)) / float64(totalUnique) * 100
	}

	return result, nil
}

// CompareWithMissingRows compares two tagged texts row by row. Only the first
// min(len) rows are paired; the surplus rows of the longer text are reported
// as missing from the shorter one. No alignment is attempted, so a single
// inserted row shifts every later comparison.
func CompareWithMissingRows(reference, generated string) (m.PositionalComparison, error) {
	rows1, rows2 := ExtractRows(reference), ExtractRows(generated)
	minRows := min(len(rows1), len(rows2))

	words1, err := ExtractLastWords(rows1[:minRows])
	if err != nil {
		return m.PositionalComparison{}, err
	}

	words2, err := ExtractLastWords(rows2[:minRows])
	if err != nil {
		return m.PositionalComparison{}, err
	}

	result := m.PositionalComparison{
		NonMatchingRows: []m.RowPair{},
		MissingInText1:  []string{},
		MissingInText2:  []string{},
	}

	matches := 0

	for i := range minRows {
		if words1[i] == words2[i] {
			matches++
			continue
		}

		result.NonMatchingRows = append(result.NonMatchingRows, m.RowPair{
			Reference: rows1[i],
			Generated: rows2[i],
		})
	}

	if len(rows1) < len(rows2) {
		result.MissingInText1 = append(result.MissingInText1, rows2[len(rows1):]...)
	}

	if len(rows2) < len(rows1) {
		result.MissingInText2 = append(result.MissingInText2, rows1[len(rows2):]...)
	}

	if minRows > 0 {
		result.MatchPercentage = float64(matches) / float64(minRows) * 100
	}

	return result, nil
}

func labelSet(rows []string) (map[string]struct{}, error) {
	words, err := ExtractLastWords(rows)
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		set[word] = struct{}{}
	}

	return set, nil
}

func intersect(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})

	for k := range a {
		if _, ok := b[k]; ok {
			out[k] = struct{}{}
		}
	}

	return out
}

func subtract(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})

	for k := range a {
		if _, ok := b[k]; !ok {
			out[k] = struct{}{}
		}
	}

	return out
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
