// Package mocks provides testify mocks of the adapter interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mouse-blink/optilabel/internal/adapter"
	m "github.com/mouse-blink/optilabel/internal/model"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockLLM is a mock of adapter.LLM.
type MockLLM struct {
	mock.Mock
}

// NewMockLLM creates a MockLLM that asserts its expectations on cleanup.
func NewMockLLM(t testingT) *MockLLM {
	mockLLM := &MockLLM{}
	mockLLM.Test(t)
	t.Cleanup(func() { mockLLM.AssertExpectations(t) })

	return mockLLM
}

func (_m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	ret := _m.Called(ctx, prompt)

	return ret.String(0), ret.Error(1)
}

func (_m *MockLLM) Provider() string {
	return _m.Called().String(0)
}

func (_m *MockLLM) Model() string {
	return _m.Called().String(0)
}

// MockCodeExecutor is a mock of adapter.CodeExecutor.
type MockCodeExecutor struct {
	mock.Mock
}

// NewMockCodeExecutor creates a MockCodeExecutor that asserts its expectations on cleanup.
func NewMockCodeExecutor(t testingT) *MockCodeExecutor {
	executor := &MockCodeExecutor{}
	executor.Test(t)
	t.Cleanup(func() { executor.AssertExpectations(t) })

	return executor
}

func (_m *MockCodeExecutor) Execute(ctx context.Context, code string) (string, error) {
	ret := _m.Called(ctx, code)

	return ret.String(0), ret.Error(1)
}

// MockCounterStore is a mock of adapter.CounterStore.
type MockCounterStore struct {
	mock.Mock
}

// NewMockCounterStore creates a MockCounterStore that asserts its expectations on cleanup.
func NewMockCounterStore(t testingT) *MockCounterStore {
	store := &MockCounterStore{}
	store.Test(t)
	t.Cleanup(func() { store.AssertExpectations(t) })

	return store
}

func (_m *MockCounterStore) Get(ctx context.Context) (int, error) {
	ret := _m.Called(ctx)

	return ret.Int(0), ret.Error(1)
}

func (_m *MockCounterStore) Set(ctx context.Context, value int) error {
	return _m.Called(ctx, value).Error(0)
}

// MockHistoryStore is a mock of adapter.HistoryStore.
type MockHistoryStore struct {
	mock.Mock
}

// NewMockHistoryStore creates a MockHistoryStore that asserts its expectations on cleanup.
func NewMockHistoryStore(t testingT) *MockHistoryStore {
	store := &MockHistoryStore{}
	store.Test(t)
	t.Cleanup(func() { store.AssertExpectations(t) })

	return store
}

func (_m *MockHistoryStore) SaveMessage(ctx context.Context, sessionID string, message m.ChatMessage) error {
	return _m.Called(ctx, sessionID, message).Error(0)
}

func (_m *MockHistoryStore) Messages(ctx context.Context, sessionID string) ([]m.ChatMessage, error) {
	ret := _m.Called(ctx, sessionID)

	messages, _ := ret.Get(0).([]m.ChatMessage)

	return messages, ret.Error(1)
}

func (_m *MockHistoryStore) Sessions(ctx context.Context) ([]string, error) {
	ret := _m.Called(ctx)

	sessions, _ := ret.Get(0).([]string)

	return sessions, ret.Error(1)
}

func (_m *MockHistoryStore) SaveRun(ctx context.Context, sessionID string, result m.LabelingResult) error {
	return _m.Called(ctx, sessionID, result).Error(0)
}

func (_m *MockHistoryStore) Runs(ctx context.Context, limit int) ([]m.LabelingRun, error) {
	ret := _m.Called(ctx, limit)

	runs, _ := ret.Get(0).([]m.LabelingRun)

	return runs, ret.Error(1)
}

// MockReportStore is a mock of adapter.ReportStore.
type MockReportStore struct {
	mock.Mock
}

// NewMockReportStore creates a MockReportStore that asserts its expectations on cleanup.
func NewMockReportStore(t testingT) *MockReportStore {
	store := &MockReportStore{}
	store.Test(t)
	t.Cleanup(func() { store.AssertExpectations(t) })

	return store
}

func (_m *MockReportStore) SaveReport(dir m.Path, result m.LabelingResult) (m.Path, error) {
	ret := _m.Called(dir, result)

	path, _ := ret.Get(0).(m.Path)

	return path, ret.Error(1)
}

func (_m *MockReportStore) LoadReports(dir m.Path) ([]m.LabelingResult, error) {
	ret := _m.Called(dir)

	results, _ := ret.Get(0).([]m.LabelingResult)

	return results, ret.Error(1)
}

func (_m *MockReportStore) RegenerateIndex(dir m.Path) error {
	return _m.Called(dir).Error(0)
}

var (
	_ adapter.LLM          = (*MockLLM)(nil)
	_ adapter.CodeExecutor = (*MockCodeExecutor)(nil)
	_ adapter.CounterStore = (*MockCounterStore)(nil)
	_ adapter.HistoryStore = (*MockHistoryStore)(nil)
	_ adapter.ReportStore  = (*MockReportStore)(nil)
)
