package object

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"contractapi/internal/model"
	"contractapi/internal/repository"
	"contractapi/internal/storage"
)

const contentType = "application/json"

// ContractObject keeps the contract array as a single JSON object in an
// S3-compatible bucket.
type ContractObject struct {
	store storage.Storage
	key   string
}

// NewContractObject creates a repository that reads and writes key in store.
func NewContractObject(store storage.Storage, key string) *ContractObject {
	return &ContractObject{store: store, key: key}
}

var _ repository.ContractRepository = (*ContractObject)(nil)

// Load downloads and parses the object, uploading "[]" first when it is missing.
func (r *ContractObject) Load(ctx context.Context) ([]model.Contract, error) {
	rc, _, err := r.store.Get(ctx, r.key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		if err := r.put(ctx, []byte("[]")); err != nil {
			return nil, err
		}
		return []model.Contract{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", r.key, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.key, err)
	}

	var contracts []model.Contract
	if err := model.Decode(data, &contracts); err != nil {
		return nil, fmt.Errorf("parse %s: %w", r.key, err)
	}
	if contracts == nil {
		contracts = []model.Contract{}
	}
	return contracts, nil
}

// Save uploads contracts, indented by two spaces, over the existing object.
func (r *ContractObject) Save(ctx context.Context, contracts []model.Contract) error {
	if contracts == nil {
		contracts = []model.Contract{}
	}
	data, err := json.MarshalIndent(contracts, "", "  ")
	if err != nil {
		return fmt.Errorf("encode contracts: %w", err)
	}
	return r.put(ctx, data)
}

// Ping checks the bucket.
func (r *ContractObject) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

func (r *ContractObject) put(ctx context.Context, data []byte) error {
	_, err := r.store.Put(ctx, r.key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", r.key, err)
	}
	return nil
}
