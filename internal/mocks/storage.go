package mocks

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/volunteer-hours-api/internal/storage"
)

// MockBaseURL prefixes every URL handed out by MockBlobStore
const MockBaseURL = "https://blobs.test/project-thumbnails/"

// MockBlobStore is an in-memory BlobStore
type MockBlobStore struct {
	mu        sync.Mutex
	Objects   map[string][]byte
	Types     map[string]string
	Deleted   []string
	UploadErr error
	DeleteErr error
}

var _ storage.BlobStore = (*MockBlobStore)(nil)

func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{
		Objects: make(map[string][]byte),
		Types:   make(map[string]string),
	}
}

func (m *MockBlobStore) Upload(ctx context.Context, path string, content []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	m.Objects[path] = content
	m.Types[path] = contentType
	return MockBaseURL + path, nil
}

func (m *MockBlobStore) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deleted = append(m.Deleted, path)
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.Objects, path)
	delete(m.Types, path)
	return nil
}

func (m *MockBlobStore) PathFromURL(url string) (string, error) {
	path := strings.TrimPrefix(url, MockBaseURL)
	if path == url || path == "" {
		return "", errors.Join(storage.ErrNotInBucket, errors.New(url))
	}
	return path, nil
}
