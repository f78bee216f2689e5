package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockImageRemover is a testify mock for images.ImageRemover.
type MockImageRemover struct {
	mock.Mock
}

func (m *MockImageRemover) RemoveImages(ctx context.Context, names []string, force bool) error {
	args := m.Called(ctx, names, force)
	return args.Error(0)
}
