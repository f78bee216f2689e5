package mocks

import (
	"context"

	"github.com/docker/docker/api/types/image"
	"github.com/stretchr/testify/mock"
)

// MockEngineClient is a testify mock for images.EngineClient.
type MockEngineClient struct {
	mock.Mock
}

func (m *MockEngineClient) ImageRemove(ctx context.Context, imageID string, options image.RemoveOptions) ([]image.DeleteResponse, error) {
	args := m.Called(ctx, imageID, options)
	resp, _ := args.Get(0).([]image.DeleteResponse)
	return resp, args.Error(1)
}

func (m *MockEngineClient) Close() error {
	args := m.Called()
	return args.Error(0)
}
