package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDocumentStorage_SaveAndDelete(t *testing.T) {
	s, err := NewDocumentStorage(t.TempDir(), 1)
	if err != nil {
		t.Fatalf("storage: %v", err)
	}

	userID := uuid.New()
	rel, written, err := s.Save(context.Background(), userID, "паспорт.jpg", strings.NewReader("содержимое документа"))

	assert.NoError(t, err)
	assert.Equal(t, int64(len("содержимое документа")), written)
	assert.True(t, strings.HasPrefix(rel, userID.String()))

	full := filepath.Join(s.rootPath, rel)
	data, err := os.ReadFile(full)
	assert.NoError(t, err)
	assert.Equal(t, "содержимое документа", string(data))

	assert.NoError(t, s.Delete(context.Background(), rel))
	_, err = os.Stat(full)
	assert.True(t, os.IsNotExist(err))
}

func TestDocumentStorage_RejectsOversizedUpload(t *testing.T) {
	root := t.TempDir()
	s, err := NewDocumentStorage(root, 1)
	if err != nil {
		t.Fatalf("storage: %v", err)
	}

	userID := uuid.New()
	big := strings.NewReader(strings.Repeat("a", 1024*1024+1))

	_, _, err = s.Save(context.Background(), userID, "scan.pdf", big)
	assert.Error(t, err)

	// Временный файл не должен оставаться после отказа.
	entries, readErr := os.ReadDir(filepath.Join(root, userID.String()))
	assert.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "passport.jpg", sanitizeFilename("../../passport.jpg"))
	assert.Equal(t, "document", sanitizeFilename(""))
}
