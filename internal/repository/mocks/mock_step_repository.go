package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"progressapi/internal/model"
)

type MockStepRepository struct {
	mock.Mock
}

func (m *MockStepRepository) ListByClient(ctx context.Context, clientID string) ([]model.ProgressStep, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProgressStep), args.Error(1)
}

func (m *MockStepRepository) FindByID(ctx context.Context, id string) (*model.ProgressStep, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProgressStep), args.Error(1)
}

func (m *MockStepRepository) Create(ctx context.Context, s *model.ProgressStep) (*model.ProgressStep, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProgressStep), args.Error(1)
}

func (m *MockStepRepository) Update(ctx context.Context, s *model.ProgressStep) (*model.ProgressStep, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProgressStep), args.Error(1)
}

func (m *MockStepRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
