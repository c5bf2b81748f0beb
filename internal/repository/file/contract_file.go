package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"contractapi/internal/model"
	"contractapi/internal/repository"
)

const filePerm = 0o644

var tracer = otel.Tracer("contractapi/repository/file")

// ContractFile stores the contract array as an indented JSON file on local disk.
// It holds no state besides the path; every call goes to disk.
type ContractFile struct {
	path string
}

// NewContractFile creates a file-backed repository rooted at path.
func NewContractFile(path string) *ContractFile {
	return &ContractFile{path: path}
}

var _ repository.ContractRepository = (*ContractFile)(nil)

// Path returns the data file location.
func (r *ContractFile) Path() string {
	return r.path
}

// Load reads and parses the whole file, creating it with "[]" when absent.
func (r *ContractFile) Load(ctx context.Context) ([]model.Contract, error) {
	_, span := r.start(ctx, "ContractFile.Load")
	defer span.End()

	if err := r.ensure(); err != nil {
		return nil, recordErr(span, err)
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, recordErr(span, fmt.Errorf("read %s: %w", r.path, err))
	}

	var contracts []model.Contract
	if err := model.Decode(data, &contracts); err != nil {
		return nil, recordErr(span, fmt.Errorf("parse %s: %w", r.path, err))
	}
	if contracts == nil {
		contracts = []model.Contract{}
	}
	span.SetAttributes(attribute.Int("contracts.count", len(contracts)))
	return contracts, nil
}

// Save rewrites the file with contracts, indented by two spaces.
// The data is written to a temporary sibling and renamed over the target.
func (r *ContractFile) Save(ctx context.Context, contracts []model.Contract) error {
	_, span := r.start(ctx, "ContractFile.Save")
	defer span.End()

	if contracts == nil {
		contracts = []model.Contract{}
	}
	data, err := json.MarshalIndent(contracts, "", "  ")
	if err != nil {
		return recordErr(span, fmt.Errorf("encode contracts: %w", err))
	}
	span.SetAttributes(attribute.Int("contracts.count", len(contracts)))
	return recordErr(span, r.write(data))
}

// Ping checks that the data file exists or can be created.
func (r *ContractFile) Ping(ctx context.Context) error {
	_, span := r.start(ctx, "ContractFile.Ping")
	defer span.End()
	return recordErr(span, r.ensure())
}

func (r *ContractFile) ensure() error {
	_, err := os.Stat(r.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", r.path, err)
	}
	return r.write([]byte("[]"))
}

func (r *ContractFile) write(data []byte) error {
	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename to %s: %w", r.path, err)
	}
	return nil
}

func (r *ContractFile) start(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attribute.String("file.path", r.path)))
}

func recordErr(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
