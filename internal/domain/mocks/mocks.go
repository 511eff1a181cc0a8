// Package mocks provides testify mocks of the domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mouse-blink/optilabel/internal/domain"
	m "github.com/mouse-blink/optilabel/internal/model"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockWorkflow is a mock of domain.Workflow.
type MockWorkflow struct {
	mock.Mock
}

// NewMockWorkflow creates a MockWorkflow that asserts its expectations on cleanup.
func NewMockWorkflow(t testingT) *MockWorkflow {
	workflow := &MockWorkflow{}
	workflow.Test(t)
	t.Cleanup(func() { workflow.AssertExpectations(t) })

	return workflow
}

func (_m *MockWorkflow) Label(ctx context.Context, args domain.LabelArgs) error {
	return _m.Called(ctx, args).Error(0)
}

func (_m *MockWorkflow) Solve(ctx context.Context, args domain.SolveArgs) error {
	return _m.Called(ctx, args).Error(0)
}

func (_m *MockWorkflow) Compare(ctx context.Context, args domain.CompareArgs) error {
	return _m.Called(ctx, args).Error(0)
}

func (_m *MockWorkflow) Chat(ctx context.Context, args domain.ChatArgs) error {
	return _m.Called(ctx, args).Error(0)
}

func (_m *MockWorkflow) Count(ctx context.Context) error {
	return _m.Called(ctx).Error(0)
}

func (_m *MockWorkflow) ResetCount(ctx context.Context) error {
	return _m.Called(ctx).Error(0)
}

func (_m *MockWorkflow) History(ctx context.Context, args domain.HistoryArgs) error {
	return _m.Called(ctx, args).Error(0)
}

func (_m *MockWorkflow) Tokenize(ctx context.Context, args domain.TokenizeArgs) error {
	return _m.Called(ctx, args).Error(0)
}

// MockLabeler is a mock of domain.Labeler.
type MockLabeler struct {
	mock.Mock
}

// NewMockLabeler creates a MockLabeler that asserts its expectations on cleanup.
func NewMockLabeler(t testingT) *MockLabeler {
	labeler := &MockLabeler{}
	labeler.Test(t)
	t.Cleanup(func() { labeler.AssertExpectations(t) })

	return labeler
}

func (_m *MockLabeler) Label(ctx context.Context, input string, mode m.InputMode) (m.LabelingResult, error) {
	ret := _m.Called(ctx, input, mode)

	result, _ := ret.Get(0).(m.LabelingResult)

	return result, ret.Error(1)
}

func (_m *MockLabeler) Reference() string {
	return _m.Called().String(0)
}

// MockSolver is a mock of domain.Solver.
type MockSolver struct {
	mock.Mock
}

// NewMockSolver creates a MockSolver that asserts its expectations on cleanup.
func NewMockSolver(t testingT) *MockSolver {
	solver := &MockSolver{}
	solver.Test(t)
	t.Cleanup(func() { solver.AssertExpectations(t) })

	return solver
}

// Solve records how many options were passed; function values cannot be
// compared by testify.
func (_m *MockSolver) Solve(ctx context.Context, problem string, opts ...domain.SolveOption) (m.SolveResult, error) {
	ret := _m.Called(ctx, problem, len(opts))

	result, _ := ret.Get(0).(m.SolveResult)

	return result, ret.Error(1)
}

var (
	_ domain.Workflow = (*MockWorkflow)(nil)
	_ domain.Labeler  = (*MockLabeler)(nil)
	_ domain.Solver   = (*MockSolver)(nil)
)
