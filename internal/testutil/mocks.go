package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a mock for glossary.Storage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockStorage) SetItem(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}
