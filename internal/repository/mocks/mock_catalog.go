package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"progressapi/internal/model"
)

type MockPackageProvider struct {
	mock.Mock
}

func (m *MockPackageProvider) ListByClient(ctx context.Context, clientID string) ([]model.Package, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Package), args.Error(1)
}

type MockComponentProvider struct {
	mock.Mock
}

func (m *MockComponentProvider) ListByClient(ctx context.Context, clientID string) ([]model.Component, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Component), args.Error(1)
}
