package model

import "fmt"

// Path represents a file system path.
type Path string

// InputMode selects how labeling input is turned into a token stream.
type InputMode string

const (
	// ModeAuto treats input containing a tab as already tokenized.
	ModeAuto InputMode = "auto"
	// ModeRaw always runs the tokenizer.
	ModeRaw InputMode = "raw"
	// ModeTokenized always takes the first column of each line.
	ModeTokenized InputMode = "tokenized"
)

// ParseInputMode converts a flag value into an InputMode.
func ParseInputMode(s string) (InputMode, error) {
	switch InputMode(s) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeRaw:
		return ModeRaw, nil
	case ModeTokenized:
		return ModeTokenized, nil
	default:
		return "", fmt.Errorf("unknown input mode %q (want auto, raw or tokenized)", s)
	}
}

// Role identifies the author of a chat message.
type Role string

// Available roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn of the interactive transcript.
type ChatMessage struct {
	Role    Role
	Content string
}
