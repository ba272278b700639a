package mockprovider

import (
	"context"

	"github.com/amirasaad/fxconverter/pkg/domain"
	"github.com/amirasaad/fxconverter/pkg/provider"
	"github.com/stretchr/testify/mock"
)

// Name is the provider name reported by MockRateTableProvider.
const Name = "mock-provider"

// MockRateTableProvider is a mock implementation of provider.RateTableProvider for testing
type MockRateTableProvider struct {
	mock.Mock
}

// NewMockRateTableProvider creates a mock that asserts its expectations when t ends.
func NewMockRateTableProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRateTableProvider {
	m := &MockRateTableProvider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRateTableProvider) FetchRates(ctx context.Context, base string) (*domain.RateSnapshot, error) {
	args := m.Called(ctx, base)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateSnapshot), args.Error(1)
}

func (m *MockRateTableProvider) Name() string {
	return Name
}

var _ provider.RateTableProvider = (*MockRateTableProvider)(nil)
