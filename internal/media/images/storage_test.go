package images

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStorage(t *testing.T) {
	t.Run("creates storage with valid path", func(t *testing.T) {
		tmpDir := t.TempDir()

		storage, err := NewStorage(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, storage)
	})

	t.Run("returns error for empty path", func(t *testing.T) {
		storage, err := NewStorage("")
		assert.Error(t, err)
		assert.Nil(t, storage)
		assert.Contains(t, err.Error(), "base path cannot be empty")
	})

	t.Run("creates nested directories if needed", func(t *testing.T) {
		tmpDir := t.TempDir()
		nestedPath := filepath.Join(tmpDir, "nested", "path")

		storage, err := NewStorage(nestedPath)
		require.NoError(t, err)
		require.NotNil(t, storage)

		info, err := os.Stat(nestedPath)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})
}

func TestStorage_Save(t *testing.T) {
	t.Run("saves image data successfully", func(t *testing.T) {
		storage := setupTestStorage(t)
		testData := []byte("test image data")

		err := storage.Save("img-123", testData)
		require.NoError(t, err)

		// Verify file was created.
		path := storage.Path("img-123")
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, testData, data)
	})

	t.Run("returns error for empty ID", func(t *testing.T) {
		storage := setupTestStorage(t)
		testData := []byte("test image data")

		err := storage.Save("", testData)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "ID cannot be empty")
	})

	t.Run("returns error for empty image data", func(t *testing.T) {
		storage := setupTestStorage(t)

		err := storage.Save("img-123", []byte{})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "image data cannot be empty")
	})

	t.Run("overwrites existing file", func(t *testing.T) {
		storage := setupTestStorage(t)
		imageID := "img-123"

		err := storage.Save(imageID, []byte("initial data"))
		require.NoError(t, err)

		newData := []byte("updated data")
		err = storage.Save(imageID, newData)
		require.NoError(t, err)

		data, err := storage.Get(imageID)
		require.NoError(t, err)
		assert.Equal(t, newData, data)
	})
}

func TestStorage_Get(t *testing.T) {
	t.Run("retrieves saved image data", func(t *testing.T) {
		storage := setupTestStorage(t)
		testData := []byte("test image data")
		imageID := "img-123"

		err := storage.Save(imageID, testData)
		require.NoError(t, err)

		data, err := storage.Get(imageID)
		require.NoError(t, err)
		assert.Equal(t, testData, data)
	})

	t.Run("returns error for non-existent image", func(t *testing.T) {
		storage := setupTestStorage(t)

		data, err := storage.Get("non-existent")
		assert.Error(t, err)
		assert.Nil(t, data)
		assert.Contains(t, err.Error(), "image not found")
	})

	t.Run("returns error for empty ID", func(t *testing.T) {
		storage := setupTestStorage(t)

		data, err := storage.Get("")
		assert.Error(t, err)
		assert.Nil(t, data)
		assert.Contains(t, err.Error(), "ID cannot be empty")
	})
}

func TestStorage_Exists(t *testing.T) {
	t.Run("returns true for existing image", func(t *testing.T) {
		storage := setupTestStorage(t)
		imageID := "img-123"

		err := storage.Save(imageID, []byte("test data"))
		require.NoError(t, err)

		assert.True(t, storage.Exists(imageID))
	})

	t.Run("returns false for non-existent image", func(t *testing.T) {
		storage := setupTestStorage(t)

		assert.False(t, storage.Exists("non-existent"))
	})

	t.Run("returns false for empty ID", func(t *testing.T) {
		storage := setupTestStorage(t)

		assert.False(t, storage.Exists(""))
	})
}

func TestStorage_Delete(t *testing.T) {
	t.Run("deletes existing image", func(t *testing.T) {
		storage := setupTestStorage(t)
		imageID := "img-123"

		err := storage.Save(imageID, []byte("test data"))
		require.NoError(t, err)
		require.True(t, storage.Exists(imageID))

		err = storage.Delete(imageID)
		require.NoError(t, err)
		assert.False(t, storage.Exists(imageID))
	})

	t.Run("succeeds when image does not exist", func(t *testing.T) {
		storage := setupTestStorage(t)

		err := storage.Delete("non-existent")
		assert.NoError(t, err) // Not an error to delete non-existent file.
	})

	t.Run("returns error for empty ID", func(t *testing.T) {
		storage := setupTestStorage(t)

		err := storage.Delete("")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "ID cannot be empty")
	})
}

func TestStorage_Hash(t *testing.T) {
	t.Run("computes consistent hash", func(t *testing.T) {
		storage := setupTestStorage(t)
		imageID := "img-123"
		testData := []byte("test image data")

		err := storage.Save(imageID, testData)
		require.NoError(t, err)

		hash1, err := storage.Hash(imageID)
		require.NoError(t, err)
		assert.NotEmpty(t, hash1)

		// Hash should be consistent.
		hash2, err := storage.Hash(imageID)
		require.NoError(t, err)
		assert.Equal(t, hash1, hash2)

		// Hash should be 64 characters (SHA256 hex).
		assert.Len(t, hash1, 64)
	})

	t.Run("different data produces different hash", func(t *testing.T) {
		storage := setupTestStorage(t)

		err := storage.Save("img-1", []byte("data1"))
		require.NoError(t, err)

		err = storage.Save("img-2", []byte("data2"))
		require.NoError(t, err)

		hash1, err := storage.Hash("img-1")
		require.NoError(t, err)

		hash2, err := storage.Hash("img-2")
		require.NoError(t, err)

		assert.NotEqual(t, hash1, hash2)
	})

	t.Run("returns error for non-existent image", func(t *testing.T) {
		storage := setupTestStorage(t)

		hash, err := storage.Hash("non-existent")
		assert.Error(t, err)
		assert.Empty(t, hash)
	})
}

func TestStorage_Path(t *testing.T) {
	tmpDir := t.TempDir()
	storage, err := NewStorage(tmpDir)
	require.NoError(t, err)

	path := storage.Path("img-123")
	expected := filepath.Join(tmpDir, "img-123.jpg")
	assert.Equal(t, expected, path)
}

func TestStorage_Concurrent(t *testing.T) {
	t.Run("handles concurrent writes safely", func(t *testing.T) {
		storage := setupTestStorage(t)
		imageID := "img-123"

		const goroutines = 10
		done := make(chan bool, goroutines)

		for i := 0; i < goroutines; i++ {
			go func(n int) {
				data := []byte{byte(n)}
				err := storage.Save(imageID, data)
				assert.NoError(t, err)
				done <- true
			}(i)
		}

		for i := 0; i < goroutines; i++ {
			<-done
		}

		assert.True(t, storage.Exists(imageID))
		data, err := storage.Get(imageID)
		assert.NoError(t, err)
		assert.NotEmpty(t, data)
	})

	t.Run("handles concurrent reads safely", func(t *testing.T) {
		storage := setupTestStorage(t)
		imageID := "img-123"
		testData := []byte("test data")

		err := storage.Save(imageID, testData)
		require.NoError(t, err)

		const goroutines = 10
		done := make(chan bool, goroutines)

		for i := 0; i < goroutines; i++ {
			go func() {
				data, err := storage.Get(imageID)
				assert.NoError(t, err)
				assert.Equal(t, testData, data)
				done <- true
			}()
		}

		for i := 0; i < goroutines; i++ {
			<-done
		}
	})
}

// setupTestStorage creates a Storage instance with a temporary directory.
func setupTestStorage(t *testing.T) *Storage {
	t.Helper()
	tmpDir := t.TempDir()
	storage, err := NewStorage(tmpDir)
	require.NoError(t, err)
	return storage
}
