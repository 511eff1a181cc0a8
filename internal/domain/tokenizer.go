package domain

import (
	"strings"
	"unicode"
)

// asciiPunctuation is the set of single-character tokens the tokenizer emits.
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Tokenize splits free text into word and punctuation tokens, one per line.
func Tokenize(text string) string {
	return strings.Join(Tokens(text), "\n")
}

// Tokens scans text left to right. Letters, digits, apostrophes and hyphens
// accumulate into a word; any other character ends the current word, and
// ASCII punctuation is emitted as a token of its own. Everything else
// (whitespace, control characters, other symbols) is dropped.
func Tokens(text string) []string {
	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() == 0 {
			return
		}

		tokens = append(tokens, current.String())
		current.Reset()
	}

	for _, r := range text {
		if isWordRune(r) {
			current.WriteRune(r)
			continue
		}

		flush()

		if !unicode.IsSpace(r) && strings.ContainsRune(asciiPunctuation, r) {
			tokens = append(tokens, string(r))
		}
	}

	flush()

	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '\'' || r == '-'
}
