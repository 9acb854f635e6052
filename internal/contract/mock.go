package contract

import (
	"context"

	"github.com/huangsam/snapcal/schema"
	"github.com/stretchr/testify/mock"
)

// MockSourceLoader is a mock implementation of SourceLoader for testing.
type MockSourceLoader struct {
	mock.Mock
}

var _ SourceLoader = &MockSourceLoader{} // Compile-time check

// Load implements the SourceLoader interface.
func (m *MockSourceLoader) Load(ctx context.Context, path string) (*schema.SourceBundle, error) {
	args := m.Called(ctx, path)
	if b, ok := args.Get(0).(*schema.SourceBundle); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}
