package mocks

import (
	"context"

	"kmapi/internal/model"
	"kmapi/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Enqueue(ctx context.Context, p repository.EnqueueParams) (*model.QueueReceipt, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.QueueReceipt), args.Error(1)
}

func (m *MockMessageRepository) Count(ctx context.Context, queue string) (int, error) {
	args := m.Called(ctx, queue)
	return args.Int(0), args.Error(1)
}
