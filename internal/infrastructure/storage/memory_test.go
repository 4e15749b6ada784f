package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travel/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

func TestMemoryBlobStorage_Put(t *testing.T) {
	store := NewMemoryBlobStorage("")
	data := []byte("receipt")

	url, err := store.Put(context.Background(), "receipts/installments/1/r.pdf", data, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "memory://receipts/receipts/installments/1/r.pdf", url)

	data[0] = 'X'
	obj, ok := store.Get("receipts/installments/1/r.pdf")
	require.True(t, ok)
	assert.Equal(t, "receipt", string(obj.Data), "stored bytes are copied")
	assert.Equal(t, "application/pdf", obj.ContentType)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryBlobStorage_PutRequiresKey(t *testing.T) {
	_, err := NewMemoryBlobStorage("http://localhost/files/").Put(context.Background(), "", nil, "")
	require.Error(t, err)
}

func TestNew_SelectsDriver(t *testing.T) {
	store, err := New(context.Background(), &config.StorageConfig{Driver: config.StorageDriverMemory}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryBlobStorage{}, store)

	_, err = New(context.Background(), &config.StorageConfig{Driver: "ftp"}, zap.NewNop())
	require.Error(t, err)
}
