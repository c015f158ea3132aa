package firestore

import (
	"context"
	"sync"
)

// MockClient is an in-memory Client for testing
type MockClient struct {
	mu          sync.Mutex
	project     string
	collections map[string][]Document
	listErr     error
	calls       []string
}

// MockOption configures the mock client
type MockOption func(*MockClient)

// WithCollection sets the documents returned for a collection
func WithCollection(name string, docs []Document) MockOption {
	return func(m *MockClient) {
		m.collections[name] = docs
	}
}

// WithListError sets an error to return from ListDocuments
func WithListError(err error) MockOption {
	return func(m *MockClient) {
		m.listErr = err
	}
}

// WithProject sets the project id
func WithProject(project string) MockOption {
	return func(m *MockClient) {
		m.project = project
	}
}

// NewMockClient creates a new mock client
func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{project: "test-project", collections: make(map[string][]Document)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ListDocuments returns the configured documents for a collection
func (m *MockClient) ListDocuments(ctx context.Context, collection string) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, collection)
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.collections[collection], nil
}

// Project returns the configured project id
func (m *MockClient) Project() string {
	return m.project
}

// Calls returns the collections requested so far
func (m *MockClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Doc builds a document from plain field values
func Doc(id string, fields map[string]any) Document {
	return Document{ID: id, Name: "projects/test-project/databases/(default)/documents/x/" + id, Fields: fields}
}

var _ Client = (*MockClient)(nil)
var _ Client = (*HTTPClient)(nil)
