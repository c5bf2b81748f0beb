package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"contractapi/internal/model"
	"contractapi/internal/repository"
)

// storeRowID is the primary key of the single row holding the contract array.
const storeRowID = 1

// ContractPostgres is a PostgreSQL implementation of repository.ContractRepository.
// The whole array lives in one JSONB column of one row, so a load or save is a
// single statement, just like reading or rewriting the data file.
type ContractPostgres struct {
	db *sql.DB
}

// NewContractPostgres creates a new ContractPostgres repository.
func NewContractPostgres(db *sql.DB) *ContractPostgres {
	return &ContractPostgres{db: db}
}

var _ repository.ContractRepository = (*ContractPostgres)(nil)

// Load returns the stored array, seeding an empty one if the row is missing.
func (r *ContractPostgres) Load(ctx context.Context) ([]model.Contract, error) {
	const q = `SELECT body FROM contract_store WHERE id = $1`

	var body []byte
	err := r.db.QueryRowContext(ctx, q, storeRowID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		const seed = `INSERT INTO contract_store (id, body) VALUES ($1, '[]'::jsonb) ON CONFLICT (id) DO NOTHING`
		if _, err := r.db.ExecContext(ctx, seed, storeRowID); err != nil {
			return nil, fmt.Errorf("seed contract store: %w", err)
		}
		return []model.Contract{}, nil
	}
	if err != nil {
		return nil, err
	}

	var contracts []model.Contract
	if err := model.Decode(body, &contracts); err != nil {
		return nil, fmt.Errorf("parse contract store: %w", err)
	}
	if contracts == nil {
		contracts = []model.Contract{}
	}
	return contracts, nil
}

// Save overwrites the stored array.
func (r *ContractPostgres) Save(ctx context.Context, contracts []model.Contract) error {
	if contracts == nil {
		contracts = []model.Contract{}
	}
	body, err := json.Marshal(contracts)
	if err != nil {
		return fmt.Errorf("encode contracts: %w", err)
	}

	const q = `
		INSERT INTO contract_store (id, body, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (id) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at
	`
	_, err = r.db.ExecContext(ctx, q, storeRowID, string(body))
	return err
}

// Ping verifies database connectivity.
func (r *ContractPostgres) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
