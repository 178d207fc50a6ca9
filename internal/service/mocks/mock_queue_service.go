package mocks

import (
	"context"

	"kmapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockQueueService struct {
	mock.Mock
}

func (m *MockQueueService) SendSummaryRequest(ctx context.Context, message string) (*model.QueueReceipt, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.QueueReceipt), args.Error(1)
}

func (m *MockQueueService) SendTraitsRequest(ctx context.Context, message string) (*model.QueueReceipt, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.QueueReceipt), args.Error(1)
}

func (m *MockQueueService) Stats(ctx context.Context) ([]model.QueueStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.QueueStats), args.Error(1)
}
