package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"contractapi/internal/model"
)

type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) Load(ctx context.Context) ([]model.Contract, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Contract), args.Error(1)
}

func (m *MockContractRepository) Save(ctx context.Context, contracts []model.Contract) error {
	args := m.Called(ctx, contracts)
	return args.Error(0)
}

func (m *MockContractRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
