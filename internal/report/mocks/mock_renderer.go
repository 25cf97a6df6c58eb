package mocks

import (
	"github.com/stretchr/testify/mock"

	"healthe/internal/model"
)

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(path, refID string, p *model.Payload) error {
	args := m.Called(path, refID, p)
	return args.Error(0)
}
