package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"healthe/internal/model"
	"healthe/internal/service"
)

type MockIntakeService struct {
	mock.Mock
}

func (m *MockIntakeService) Submit(ctx context.Context, req service.SubmitRequest) (*service.SubmitResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SubmitResult), args.Error(1)
}

func (m *MockIntakeService) GetReport(ctx context.Context, refID string) (*model.Payload, error) {
	args := m.Called(ctx, refID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payload), args.Error(1)
}
