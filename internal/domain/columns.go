package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedRow reports a tagged row without any whitespace-delimited field.
var ErrMalformedRow = errors.New("malformed row")

// ExtractRows returns the non-empty lines of text. Rows keep their original
// spacing; only lines that are blank after trimming are dropped.
func ExtractRows(text string) []string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	rows := make([]string, 0, len(lines))

	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			rows = append(rows, line)
		}
	}

	return rows
}

// ExtractLastWords returns the last field (the label column) of every row.
func ExtractLastWords(rows []string) ([]string, error) {
	words := make([]string, 0, len(rows))

	for i, row := range rows {
		word, err := lastField(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		words = append(words, word)
	}

	return words, nil
}

// ExtractFirstColumn keeps the first field (the token column) of every
// non-blank line. Blank lines are skipped, so the line count may shrink.
func ExtractFirstColumn(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	firsts := make([]string, 0, len(lines))

	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		firsts = append(firsts, fields[0])
	}

	return strings.Join(firsts, "\n")
}

func lastField(row string) (string, error) {
	fields := strings.Fields(row)
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: %q", ErrMalformedRow, row)
	}

	return fields[len(fields)-1], nil
}
