package controller

import (
	"fmt"
	"strings"

	m "github.com/mouse-blink/optilabel/internal/model"
)

const previewRunes = 100

// FormatLabeling renders the labels, accuracy and input sections of a result.
func FormatLabeling(result m.LabelingResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=========== Labels ===========\n%s\n\n", result.LabeledText)
	fmt.Fprintf(&b, "=========== Accuracy ===========\n")
	fmt.Fprintf(&b, "Match Percentage: %.2f%%\n", result.Accuracy.MatchPercentage)
	fmt.Fprintf(&b, "Missing in Reference: %s\n", formatList(result.Accuracy.MissingInText1))
	fmt.Fprintf(&b, "Missing in Generated: %s\n", formatList(result.Accuracy.MissingInText2))

	if len(result.UnknownLabels) > 0 {
		fmt.Fprintf(&b, "Unknown Labels: %s\n", formatList(result.UnknownLabels))
	}

	b.WriteString("\n")

	if p := result.Positional; p != nil {
		fmt.Fprintf(&b, "Row Match Percentage: %.2f%%\n", p.MatchPercentage)
		fmt.Fprintf(&b, "Mismatched Rows: %d\n\n", len(p.NonMatchingRows))
	}

	fmt.Fprintf(&b, "=========== Input Processing ===========\n")
	fmt.Fprintf(&b, "Original Input: %s...\n", preview(result.InputText))
	fmt.Fprintf(&b, "Tokenized Input: %s...", preview(result.TokenizedInput))

	return strings.TrimSpace(b.String())
}

func formatList(items []string) string {
	quoted := make([]string, 0, len(items))
	for _, item := range items {
		quoted = append(quoted, "'"+item+"'")
	}

	return "[" + strings.Join(quoted, ", ") + "]"
}

func preview(s string) string {
	runes := []rune(s)
	if len(runes) <= previewRunes {
		return s
	}

	return string(runes[:previewRunes])
}
