package controller

import (
	m "github.com/mouse-blink/optilabel/internal/model"
)

// Message types.
type turnDoneMsg struct {
	turn m.ChatTurn
	err  error
}

type labelDoneMsg struct {
	result m.LabelingResult
	err    error
}
