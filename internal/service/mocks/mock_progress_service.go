package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"progressapi/internal/model"
	"progressapi/internal/service"
)

type MockProgressService struct {
	mock.Mock
}

func (m *MockProgressService) Hierarchy(ctx context.Context, clientID string) ([]model.HierarchicalStep, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.HierarchicalStep), args.Error(1)
}

func (m *MockProgressService) Status(ctx context.Context, clientID string) (*model.ClientStatus, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ClientStatus), args.Error(1)
}

func (m *MockProgressService) ListSteps(ctx context.Context, clientID string) ([]model.ProgressStep, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProgressStep), args.Error(1)
}

func (m *MockProgressService) GetStep(ctx context.Context, id string) (*model.ProgressStep, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProgressStep), args.Error(1)
}

func (m *MockProgressService) CreateStep(ctx context.Context, in service.CreateStepInput) (*model.ProgressStep, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProgressStep), args.Error(1)
}

func (m *MockProgressService) UpdateStep(ctx context.Context, id string, in service.UpdateStepInput) (*model.ProgressStep, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProgressStep), args.Error(1)
}

func (m *MockProgressService) DeleteStep(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProgressService) CompleteStep(ctx context.Context, id string) (*model.ProgressStep, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProgressStep), args.Error(1)
}

func (m *MockProgressService) UncompleteStep(ctx context.Context, id string) (*model.ProgressStep, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProgressStep), args.Error(1)
}

func (m *MockProgressService) SetMilestoneDeadline(ctx context.Context, id string, milestone string, date string) (*model.ProgressStep, error) {
	args := m.Called(ctx, id, milestone, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProgressStep), args.Error(1)
}

func (m *MockProgressService) CompleteMilestone(ctx context.Context, id string, milestone string) (*model.ProgressStep, error) {
	args := m.Called(ctx, id, milestone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProgressStep), args.Error(1)
}

func (m *MockProgressService) UncompleteMilestone(ctx context.Context, id string, milestone string) (*model.ProgressStep, error) {
	args := m.Called(ctx, id, milestone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProgressStep), args.Error(1)
}
