package contract

import (
	"context"

	"github.com/preflighthq/preflight/schema"
	"github.com/stretchr/testify/mock"
)

// MockSourceFetcher is a mock implementation of SourceFetcher for testing.
type MockSourceFetcher struct {
	mock.Mock
}

// Fetch mocks the Fetch method.
func (m *MockSourceFetcher) Fetch(ctx context.Context) (*schema.SourceBundle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schema.SourceBundle), args.Error(1)
}

var _ SourceFetcher = &MockSourceFetcher{}
