package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contractapi/internal/model"
)

func TestContractFile_LoadCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contracts.json")
	repo := NewContractFile(path)

	contracts, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, contracts)
	assert.Empty(t, contracts)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestContractFile_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contracts.json")
	repo := NewContractFile(path)
	ctx := context.Background()

	in := []model.Contract{
		{"id": json.Number("1"), "contractNo": "C-001", "amount": json.Number("12.50")},
		{"id": json.Number("2"), "contractNo": "C-002", "tags": []any{"a", "b"}},
	}
	require.NoError(t, repo.Save(ctx, in))

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {\n    \"amount\": 12.50,")

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches, "temp files must not be left behind")
}

func TestContractFile_SaveNil(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contracts.json")
	repo := NewContractFile(path)

	require.NoError(t, repo.Save(context.Background(), nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestContractFile_LoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed json", content: "[{"},
		{name: "object instead of array", content: `{"id": 1}`},
		{name: "trailing data", content: `[] []`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "contracts.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := NewContractFile(path).Load(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestContractFile_LoadNullIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contracts.json")
	require.NoError(t, os.WriteFile(path, []byte("null"), 0o644))

	contracts, err := NewContractFile(path).Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, contracts)
	assert.Empty(t, contracts)
}

func TestContractFile_Ping(t *testing.T) {
	t.Run("creates file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "contracts.json")
		require.NoError(t, NewContractFile(path).Ping(context.Background()))
		_, err := os.Stat(path)
		assert.NoError(t, err)
	})

	t.Run("missing directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "contracts.json")
		assert.Error(t, NewContractFile(path).Ping(context.Background()))
	})
}
