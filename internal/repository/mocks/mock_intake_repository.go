package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"healthe/internal/model"
)

type MockIntakeRepository struct {
	mock.Mock
}

func (m *MockIntakeRepository) Create(ctx context.Context, rec *model.IntakeRecord) (*model.IntakeRecord, error) {
	args := m.Called(ctx, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.IntakeRecord), args.Error(1)
}

func (m *MockIntakeRepository) FindByRefID(ctx context.Context, refID string) (*model.IntakeRecord, error) {
	args := m.Called(ctx, refID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.IntakeRecord), args.Error(1)
}
