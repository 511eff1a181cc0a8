package model

import "time"

// SetComparison is the position-insensitive comparison of two label sets.
//
// MissingInText1 holds labels present in the generated text but absent from
// the reference; MissingInText2 holds the reverse.
type SetComparison struct {
	MatchPercentage float64  `yaml:"match_percentage"`
	CommonWords     []string `yaml:"common_words"`
	MissingInText1  []string `yaml:"missing_in_text1"`
	MissingInText2  []string `yaml:"missing_in_text2"`
}

// RowPair holds two rows compared at the same index.
type RowPair struct {
	Reference string `yaml:"reference"`
	Generated string `yaml:"generated"`
}

// PositionalComparison is the row-by-row comparison of two tagged texts.
type PositionalComparison struct {
	MatchPercentage float64   `yaml:"match_percentage"`
	NonMatchingRows []RowPair `yaml:"non_matching_rows"`
	MissingInText1  []string  `yaml:"missing_in_text1"` // trailing generated rows
	MissingInText2  []string  `yaml:"missing_in_text2"` // trailing reference rows
}

// LabelingResult aggregates one labeling invocation.
type LabelingResult struct {
	LabeledText    string                `yaml:"labeled_text"`
	Accuracy       SetComparison         `yaml:"accuracy"`
	Positional     *PositionalComparison `yaml:"positional,omitempty"`
	InputText      string                `yaml:"input_text"`
	TokenizedInput string                `yaml:"tokenized_input"`
	UnknownLabels  []string              `yaml:"unknown_labels,omitempty"` // tags outside the label set
	HasReference   bool                  `yaml:"has_reference"`
	Provider       string                `yaml:"provider"`
	Model          string                `yaml:"model"`
	CreatedAt      time.Time             `yaml:"created_at"`
}

// SolveResult holds the outcome of one solving request.
type SolveResult struct {
	Prompt     string
	Output     string // raw model answer
	Code       string // extracted python block, empty when none was found
	CodeOutput string // captured stdout, or an "Error: ..." line
	Executed   bool
	Streamed   bool // Output was already printed chunk by chunk
}

// LabelingRun summarizes a stored labeling invocation.
type LabelingRun struct {
	ID              uint
	SessionID       string
	Provider        string
	Model           string
	MatchPercentage float64
	HasReference    bool
	InputText       string
	CreatedAt       time.Time
}

// ChatTurn is the outcome of one interactive prompt. Labeling is nil when
// the prompt could not be labeled.
type ChatTurn struct {
	Prompt   string
	Reply    string
	Solve    SolveResult
	Labeling *LabelingResult
}
