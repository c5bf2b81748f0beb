package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"go.uber.org/zap"

	"contractapi/internal/model"
	"contractapi/internal/repository"
)

var (
	ErrInvalidContract     = errors.New("contract must be a JSON object")
	ErrContractNosRequired = errors.New("contractNos must be a non-empty array")
	ErrNoContractsMatched  = errors.New("no contracts matched")
	ErrIDSpaceExhausted    = errors.New("no id left after the largest stored id")
)

// Default pagination values used when the query omits them.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// ContractListResult is the service-level DTO for a page of contracts.
type ContractListResult struct {
	Items []model.Contract `json:"data"`
	Total int              `json:"total"`
}

// Pagination is a resolved [Start, End) window over the stored array.
type Pagination struct {
	Start int
	End   int
}

// ParsePagination turns raw page/pageSize query values into a window.
// Empty values take the defaults. Values that are not integers produce an
// empty window rather than an error.
func ParsePagination(page, pageSize string) Pagination {
	p, okPage := parseOr(page, DefaultPage)
	size, okSize := parseOr(pageSize, DefaultPageSize)
	if !okPage || !okSize {
		return Pagination{}
	}
	start := mulSat(p-1, size)
	return Pagination{Start: start, End: addSat(start, size)}
}

// ContractService defines the use cases for handling contracts.
type ContractService interface {
	// List returns the requested window and the total number of stored contracts.
	List(ctx context.Context, p Pagination) (*ContractListResult, error)

	// Create assigns the next id to c, appends it and returns the stored record.
	Create(ctx context.Context, c model.Contract) (model.Contract, error)

	// Delete removes every contract whose contractNo equals one of contractNos
	// and returns how many were removed.
	Delete(ctx context.Context, contractNos []any) (int, error)

	// Ping checks the backing store.
	Ping(ctx context.Context) error
}

// contractService is a concrete implementation of ContractService.
// Each call loads the full array and, for mutations, saves it back. There is
// no locking between concurrent mutations.
type contractService struct {
	repo repository.ContractRepository
	log  *zap.Logger
}

// NewContractService constructs a new ContractService.
func NewContractService(repo repository.ContractRepository, log *zap.Logger) ContractService {
	if log == nil {
		log = zap.NewNop()
	}
	return &contractService{repo: repo, log: log.Named("contracts")}
}

func (s *contractService) List(ctx context.Context, p Pagination) (*ContractListResult, error) {
	contracts, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load contracts: %w", err)
	}
	return &ContractListResult{
		Items: repository.Page(contracts, p.Start, p.End),
		Total: len(contracts),
	}, nil
}

func (s *contractService) Create(ctx context.Context, c model.Contract) (model.Contract, error) {
	if c == nil {
		return nil, ErrInvalidContract
	}
	contracts, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load contracts: %w", err)
	}

	created := make(model.Contract, len(c)+1)
	for k, v := range c {
		created[k] = v
	}
	id, err := NextID(contracts)
	if err != nil {
		return nil, err
	}
	created.SetID(id)

	if err := s.repo.Save(ctx, append(contracts, created)); err != nil {
		return nil, fmt.Errorf("save contracts: %w", err)
	}
	s.log.Info("contract_created", zap.Int64("id", id), zap.Any("contract_no", created[model.FieldContractNo]))
	return created, nil
}

func (s *contractService) Delete(ctx context.Context, contractNos []any) (int, error) {
	if len(contractNos) == 0 {
		return 0, ErrContractNosRequired
	}
	contracts, err := s.repo.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load contracts: %w", err)
	}

	kept := make([]model.Contract, 0, len(contracts))
	for _, c := range contracts {
		if !matches(c, contractNos) {
			kept = append(kept, c)
		}
	}
	deleted := len(contracts) - len(kept)
	if deleted == 0 {
		return 0, ErrNoContractsMatched
	}

	if err := s.repo.Save(ctx, kept); err != nil {
		return 0, fmt.Errorf("save contracts: %w", err)
	}
	s.log.Info("contracts_deleted", zap.Int("count", deleted), zap.Int("remaining", len(kept)))
	return deleted, nil
}

func (s *contractService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// NextID returns max(existing ids)+1, or 1 when no contract has an integer id.
// It fails with ErrIDSpaceExhausted when the largest id is math.MaxInt64.
func NextID(contracts []model.Contract) (int64, error) {
	var maxID int64
	for _, c := range contracts {
		if id, ok := c.ID(); ok && id > maxID {
			maxID = id
		}
	}
	if maxID == math.MaxInt64 {
		return 0, ErrIDSpaceExhausted
	}
	return maxID + 1, nil
}

func matches(c model.Contract, contractNos []any) bool {
	no, ok := c.ContractNo()
	if !ok {
		return false
	}
	for _, want := range contractNos {
		if model.SameValue(no, want) {
			return true
		}
	}
	return false
}

func parseOr(raw string, def int) (int, bool) {
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func mulSat(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	r := a * b
	if r/b != a {
		if (a < 0) != (b < 0) {
			return math.MinInt
		}
		return math.MaxInt
	}
	return r
}

func addSat(a, b int) int {
	r := a + b
	if b > 0 && r < a {
		return math.MaxInt
	}
	if b < 0 && r > a {
		return math.MinInt
	}
	return r
}
