package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"progressapi/internal/model"
)

type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) ListByStep(ctx context.Context, stepID string) ([]model.Comment, error) {
	args := m.Called(ctx, stepID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *MockCommentRepository) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockCommentRepository) Create(ctx context.Context, c *model.Comment) (*model.Comment, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockFileRepository struct {
	mock.Mock
}

func (m *MockFileRepository) ListByClient(ctx context.Context, clientID string) ([]model.AttachedFile, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AttachedFile), args.Error(1)
}

func (m *MockFileRepository) FindByID(ctx context.Context, id string) (*model.AttachedFile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AttachedFile), args.Error(1)
}

func (m *MockFileRepository) Create(ctx context.Context, f *model.AttachedFile) (*model.AttachedFile, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AttachedFile), args.Error(1)
}

func (m *MockFileRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockLinkRepository struct {
	mock.Mock
}

func (m *MockLinkRepository) ListByClient(ctx context.Context, clientID string) ([]model.ClientLink, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ClientLink), args.Error(1)
}

func (m *MockLinkRepository) FindByID(ctx context.Context, id string) (*model.ClientLink, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ClientLink), args.Error(1)
}

func (m *MockLinkRepository) Create(ctx context.Context, l *model.ClientLink) (*model.ClientLink, error) {
	args := m.Called(ctx, l)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ClientLink), args.Error(1)
}

func (m *MockLinkRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
