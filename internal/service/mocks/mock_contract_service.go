package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"contractapi/internal/model"
	"contractapi/internal/service"
)

type MockContractService struct {
	mock.Mock
}

func (m *MockContractService) List(ctx context.Context, p service.Pagination) (*service.ContractListResult, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ContractListResult), args.Error(1)
}

func (m *MockContractService) Create(ctx context.Context, c model.Contract) (model.Contract, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Contract), args.Error(1)
}

func (m *MockContractService) Delete(ctx context.Context, contractNos []any) (int, error) {
	args := m.Called(ctx, contractNos)
	return args.Int(0), args.Error(1)
}

func (m *MockContractService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
