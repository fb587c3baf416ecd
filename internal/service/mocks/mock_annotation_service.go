package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"progressapi/internal/model"
	"progressapi/internal/service"
	"progressapi/internal/storage"
)

type MockAnnotationService struct {
	mock.Mock
}

func (m *MockAnnotationService) AddComment(ctx context.Context, stepID string, in service.CommentInput) (*model.Comment, error) {
	args := m.Called(ctx, stepID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockAnnotationService) DeleteComment(ctx context.Context, stepID, commentID string) error {
	args := m.Called(ctx, stepID, commentID)
	return args.Error(0)
}

func (m *MockAnnotationService) ListClientFiles(ctx context.Context, clientID string) ([]model.AttachedFile, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AttachedFile), args.Error(1)
}

func (m *MockAnnotationService) AddClientFile(ctx context.Context, clientID string, in service.FileInput) (*model.AttachedFile, error) {
	args := m.Called(ctx, clientID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AttachedFile), args.Error(1)
}

func (m *MockAnnotationService) DeleteClientFile(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAnnotationService) ListClientLinks(ctx context.Context, clientID string) ([]model.ClientLink, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ClientLink), args.Error(1)
}

func (m *MockAnnotationService) AddClientLink(ctx context.Context, clientID string, in service.LinkInput) (*model.ClientLink, error) {
	args := m.Called(ctx, clientID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ClientLink), args.Error(1)
}

func (m *MockAnnotationService) DeleteClientLink(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAnnotationService) RequestUploadTarget(ctx context.Context, fileName, contentType string) (*storage.UploadTarget, error) {
	args := m.Called(ctx, fileName, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UploadTarget), args.Error(1)
}
