package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"contractapi/internal/model"
	repoMocks "contractapi/internal/repository/mocks"
)

func threeContracts() []model.Contract {
	return []model.Contract{
		{"id": json.Number("1"), "contractNo": "C-001"},
		{"id": json.Number("2"), "contractNo": "C-002"},
		{"id": json.Number("3"), "contractNo": "C-003"},
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name     string
		page     string
		pageSize string
		want     Pagination
	}{
		{name: "defaults", want: Pagination{Start: 0, End: 10}},
		{name: "second page of one", page: "2", pageSize: "1", want: Pagination{Start: 1, End: 2}},
		{name: "third page of five", page: "3", pageSize: "5", want: Pagination{Start: 10, End: 15}},
		{name: "non-numeric page", page: "abc", pageSize: "10", want: Pagination{}},
		{name: "non-numeric size", page: "1", pageSize: "ten", want: Pagination{}},
		{name: "fractional page", page: "1.5", want: Pagination{}},
		{name: "page zero", page: "0", pageSize: "10", want: Pagination{Start: -10, End: 0}},
		{name: "overflow saturates", page: "9223372036854775807", pageSize: "10", want: Pagination{Start: math.MaxInt, End: math.MaxInt}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePagination(tt.page, tt.pageSize))
		})
	}
}

func TestNextID(t *testing.T) {
	tests := []struct {
		name    string
		stored  string
		want    int64
		wantErr error
	}{
		{name: "empty store", stored: `[]`, want: 1},
		{name: "sequential ids", stored: `[{"id": 1}, {"id": 2}, {"id": 3}]`, want: 4},
		{name: "max wins over order", stored: `[{"id": 7}, {"id": 2}]`, want: 8},
		{name: "ids without integer value are ignored", stored: `[{"id": "9"}, {"id": 1.5}, {"contractNo": "no-id"}, {"id": 2}]`, want: 3},
		{name: "whole number with fraction", stored: `[{"id": 5.0}]`, want: 6},
		{name: "whole number with exponent", stored: `[{"id": 1e2}, {"id": 4}]`, want: 101},
		{name: "largest id is max int64", stored: `[{"id": 9223372036854775807}]`, wantErr: ErrIDSpaceExhausted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var contracts []model.Contract
			require.NoError(t, model.Decode([]byte(tt.stored), &contracts))

			got, err := NextID(contracts)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContractService_List(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		page      Pagination
		stored    []model.Contract
		loadErr   error
		wantItems []model.Contract
		wantTotal int
		wantErr   bool
	}{
		{
			name:      "second item only",
			page:      ParsePagination("2", "1"),
			stored:    threeContracts(),
			wantItems: threeContracts()[1:2],
			wantTotal: 3,
		},
		{
			name:      "defaults return everything",
			page:      ParsePagination("", ""),
			stored:    threeContracts(),
			wantItems: threeContracts(),
			wantTotal: 3,
		},
		{
			name:      "page past the end",
			page:      ParsePagination("5", "10"),
			stored:    threeContracts(),
			wantItems: []model.Contract{},
			wantTotal: 3,
		},
		{
			name:      "invalid pagination yields empty page",
			page:      ParsePagination("abc", "10"),
			stored:    threeContracts(),
			wantItems: []model.Contract{},
			wantTotal: 3,
		},
		{
			name:    "load error",
			page:    ParsePagination("", ""),
			loadErr: errors.New("disk error"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockContractRepository)
			if tt.loadErr != nil {
				mRepo.On("Load", ctx).Return(nil, tt.loadErr).Once()
			} else {
				mRepo.On("Load", ctx).Return(tt.stored, nil).Once()
			}
			svc := NewContractService(mRepo, nil)

			res, err := svc.List(ctx, tt.page)

			if tt.wantErr {
				assert.ErrorIs(t, err, tt.loadErr)
				assert.Nil(t, res)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantItems, res.Items)
				assert.Equal(t, tt.wantTotal, res.Total)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestContractService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("first contract gets id 1", func(t *testing.T) {
		mRepo := new(repoMocks.MockContractRepository)
		mRepo.On("Load", ctx).Return([]model.Contract{}, nil).Once()
		mRepo.On("Save", ctx, []model.Contract{
			{"id": json.Number("1"), "contractNo": "C-001", "party": "ACME"},
		}).Return(nil).Once()
		svc := NewContractService(mRepo, nil)

		created, err := svc.Create(ctx, model.Contract{"contractNo": "C-001", "party": "ACME"})

		require.NoError(t, err)
		id, ok := created.ID()
		assert.True(t, ok)
		assert.Equal(t, int64(1), id)
		assert.Equal(t, "ACME", created["party"])
		mRepo.AssertExpectations(t)
	})

	t.Run("next id is max plus one", func(t *testing.T) {
		stored := []model.Contract{{"id": json.Number("2")}, {"id": json.Number("9")}, {"id": json.Number("4")}}
		mRepo := new(repoMocks.MockContractRepository)
		mRepo.On("Load", ctx).Return(stored, nil).Once()
		mRepo.On("Save", ctx, mock.MatchedBy(func(cs []model.Contract) bool {
			return len(cs) == 4 && cs[3]["id"] == json.Number("10")
		})).Return(nil).Once()
		svc := NewContractService(mRepo, nil)

		created, err := svc.Create(ctx, model.Contract{"contractNo": "C-010"})

		require.NoError(t, err)
		assert.Equal(t, json.Number("10"), created["id"])
		mRepo.AssertExpectations(t)
	})

	t.Run("caller id is overridden", func(t *testing.T) {
		mRepo := new(repoMocks.MockContractRepository)
		mRepo.On("Load", ctx).Return([]model.Contract{}, nil).Once()
		mRepo.On("Save", ctx, mock.Anything).Return(nil).Once()
		svc := NewContractService(mRepo, nil)

		body := model.Contract{"id": json.Number("99"), "contractNo": "C-001"}
		created, err := svc.Create(ctx, body)

		require.NoError(t, err)
		assert.Equal(t, json.Number("1"), created["id"])
		assert.Equal(t, json.Number("99"), body["id"], "input must not be mutated")
		mRepo.AssertExpectations(t)
	})

	t.Run("nil contract", func(t *testing.T) {
		mRepo := new(repoMocks.MockContractRepository)
		svc := NewContractService(mRepo, nil)

		_, err := svc.Create(ctx, nil)

		assert.ErrorIs(t, err, ErrInvalidContract)
		mRepo.AssertNotCalled(t, "Load", mock.Anything)
	})

	t.Run("load error", func(t *testing.T) {
		mRepo := new(repoMocks.MockContractRepository)
		mRepo.On("Load", ctx).Return(nil, errors.New("disk error")).Once()
		svc := NewContractService(mRepo, nil)

		_, err := svc.Create(ctx, model.Contract{})

		assert.EqualError(t, err, "load contracts: disk error")
		mRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("id space exhausted", func(t *testing.T) {
		mRepo := new(repoMocks.MockContractRepository)
		mRepo.On("Load", ctx).Return([]model.Contract{{"id": json.Number("9223372036854775807")}}, nil).Once()
		svc := NewContractService(mRepo, nil)

		created, err := svc.Create(ctx, model.Contract{"contractNo": "C-002"})

		assert.ErrorIs(t, err, ErrIDSpaceExhausted)
		assert.Nil(t, created)
		mRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("save error", func(t *testing.T) {
		mRepo := new(repoMocks.MockContractRepository)
		mRepo.On("Load", ctx).Return([]model.Contract{}, nil).Once()
		mRepo.On("Save", ctx, mock.Anything).Return(errors.New("disk full")).Once()
		svc := NewContractService(mRepo, nil)

		created, err := svc.Create(ctx, model.Contract{})

		assert.EqualError(t, err, "save contracts: disk full")
		assert.Nil(t, created)
		mRepo.AssertExpectations(t)
	})
}

func TestContractService_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		contractNos []any
		setup       func(m *repoMocks.MockContractRepository)
		wantCount   int
		wantErr     error
		wantErrMsg  string
	}{
		{
			name:        "deletes matching contracts",
			contractNos: []any{"C-001", "C-003", "C-404"},
			setup: func(m *repoMocks.MockContractRepository) {
				m.On("Load", ctx).Return(threeContracts(), nil).Once()
				m.On("Save", ctx, []model.Contract{
					{"id": json.Number("2"), "contractNo": "C-002"},
				}).Return(nil).Once()
			},
			wantCount: 2,
		},
		{
			name:        "empty list",
			contractNos: []any{},
			setup:       func(m *repoMocks.MockContractRepository) {},
			wantErr:     ErrContractNosRequired,
		},
		{
			name:        "nil list",
			contractNos: nil,
			setup:       func(m *repoMocks.MockContractRepository) {},
			wantErr:     ErrContractNosRequired,
		},
		{
			name:        "nothing matched leaves store untouched",
			contractNos: []any{"C-404"},
			setup: func(m *repoMocks.MockContractRepository) {
				m.On("Load", ctx).Return(threeContracts(), nil).Once()
			},
			wantErr: ErrNoContractsMatched,
		},
		{
			name:        "type must match",
			contractNos: []any{json.Number("1")},
			setup: func(m *repoMocks.MockContractRepository) {
				m.On("Load", ctx).Return([]model.Contract{{"id": json.Number("1"), "contractNo": "1"}}, nil).Once()
			},
			wantErr: ErrNoContractsMatched,
		},
		{
			name:        "load error",
			contractNos: []any{"C-001"},
			setup: func(m *repoMocks.MockContractRepository) {
				m.On("Load", ctx).Return(nil, errors.New("disk error")).Once()
			},
			wantErrMsg: "load contracts: disk error",
		},
		{
			name:        "save error",
			contractNos: []any{"C-001"},
			setup: func(m *repoMocks.MockContractRepository) {
				m.On("Load", ctx).Return(threeContracts(), nil).Once()
				m.On("Save", ctx, mock.Anything).Return(errors.New("disk full")).Once()
			},
			wantErrMsg: "save contracts: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockContractRepository)
			tt.setup(mRepo)
			svc := NewContractService(mRepo, nil)

			count, err := svc.Delete(ctx, tt.contractNos)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantErrMsg != "":
				assert.EqualError(t, err, tt.wantErrMsg)
			default:
				assert.NoError(t, err)
				assert.Equal(t, tt.wantCount, count)
			}
			mRepo.AssertExpectations(t)
		})
	}
}
