package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTearDowner is a testify mock for compose.TearDowner.
type MockTearDowner struct {
	mock.Mock
}

func (m *MockTearDowner) TearDown(ctx context.Context, definition string, project string) (int, error) {
	args := m.Called(ctx, definition, project)
	return args.Int(0), args.Error(1)
}
