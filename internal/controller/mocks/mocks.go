// Package mocks provides testify mocks of the controller interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mouse-blink/optilabel/internal/controller"
	m "github.com/mouse-blink/optilabel/internal/model"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockUI is a mock of controller.UI.
type MockUI struct {
	mock.Mock
}

// NewMockUI creates a MockUI that asserts its expectations on cleanup.
func NewMockUI(t testingT) *MockUI {
	ui := &MockUI{}
	ui.Test(t)
	t.Cleanup(func() { ui.AssertExpectations(t) })

	return ui
}

func (_m *MockUI) DisplayLabeling(result m.LabelingResult) error {
	return _m.Called(result).Error(0)
}

func (_m *MockUI) DisplaySetComparison(cmp m.SetComparison) error {
	return _m.Called(cmp).Error(0)
}

func (_m *MockUI) DisplayPositionalComparison(cmp m.PositionalComparison) error {
	return _m.Called(cmp).Error(0)
}

func (_m *MockUI) DisplaySolution(result m.SolveResult) error {
	return _m.Called(result).Error(0)
}

func (_m *MockUI) DisplayTokens(tokens []string) error {
	return _m.Called(tokens).Error(0)
}

func (_m *MockUI) DisplayCount(count int) error {
	return _m.Called(count).Error(0)
}

func (_m *MockUI) DisplayTranscript(sessionID string, messages []m.ChatMessage) error {
	return _m.Called(sessionID, messages).Error(0)
}

func (_m *MockUI) DisplaySessions(sessions []string) error {
	return _m.Called(sessions).Error(0)
}

func (_m *MockUI) DisplayRuns(runs []m.LabelingRun) error {
	return _m.Called(runs).Error(0)
}

func (_m *MockUI) DisplaySaved(path m.Path) {
	_m.Called(path)
}

func (_m *MockUI) StreamChunk(chunk string) error {
	return _m.Called(chunk).Error(0)
}

func (_m *MockUI) StartChat(ctx context.Context, assistant controller.Assistant, options ...controller.ChatOption) error {
	return _m.Called(ctx, assistant, options).Error(0)
}

var _ controller.UI = (*MockUI)(nil)
