package mocks

import (
	"context"
	"io"
	"time"

	"kmapi/internal/model"
	"kmapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) GetDocuments(ctx context.Context, prefix string, pageSize int, continuationToken string) (*model.DocumentPage, error) {
	args := m.Called(ctx, prefix, pageSize, continuationToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentPage), args.Error(1)
}

func (m *MockDocumentService) UploadDocuments(ctx context.Context, docs []model.Document) (*service.UploadResult, error) {
	args := m.Called(ctx, docs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadResult), args.Error(1)
}

func (m *MockDocumentService) DownloadDocument(ctx context.Context, name string) (io.ReadCloser, *model.DocumentInfo, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*model.DocumentInfo), args.Error(2)
}

func (m *MockDocumentService) DeleteDocument(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockDocumentService) GetDocumentLink(ctx context.Context, name string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, name, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentService) GetDocumentTags(ctx context.Context, name string) (map[string]string, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockDocumentService) GetDocumentMetadata(ctx context.Context, name string) (map[string]string, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockDocumentService) SetDocumentTags(ctx context.Context, name string, updates map[string]string) (map[string]string, error) {
	args := m.Called(ctx, name, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockDocumentService) SetDocumentMetadata(ctx context.Context, name string, updates map[string]string) (map[string]string, error) {
	args := m.Called(ctx, name, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockDocumentService) SetDocumentTraits(ctx context.Context, name string, tags, metadata map[string]string) (*service.Traits, error) {
	args := m.Called(ctx, name, tags, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Traits), args.Error(1)
}
