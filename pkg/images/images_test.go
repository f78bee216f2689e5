package images

import (
	"context"
	"errors"
	"fmt"
	"testing"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/image"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"composeclean/pkg/mocks"
)

type recordingObserver struct {
	events []string
}

func (r *recordingObserver) RemovingImages(names []string, force bool) {
	r.events = append(r.events, fmt.Sprintf("removing %v force=%t", names, force))
}

func (r *recordingObserver) ImageDeleted(image, deleted string) {
	r.events = append(r.events, fmt.Sprintf("deleted %s %s", image, deleted))
}

func (r *recordingObserver) ImageUntagged(image, untagged string) {
	r.events = append(r.events, fmt.Sprintf("untagged %s %s", image, untagged))
}

func (r *recordingObserver) ImageFailed(image string, err error) {
	r.events = append(r.events, fmt.Sprintf("failed %s: %v", image, err))
}

func (r *recordingObserver) ImagesRemoved() {
	r.events = append(r.events, "done")
}

func connectTo(c EngineClient) Connector {
	return func() (EngineClient, error) { return c, nil }
}

func forceOpts(force bool) image.RemoveOptions {
	return image.RemoveOptions{Force: force}
}

func removedImages(m *mocks.MockEngineClient) []string {
	var names []string
	for _, call := range m.Calls {
		if call.Method == "ImageRemove" {
			names = append(names, call.Arguments.String(1))
		}
	}
	return names
}

func TestRemoveImages_RemovesInOrderWithForce(t *testing.T) {
	ctx := context.Background()
	cli := &mocks.MockEngineClient{}
	cli.On("ImageRemove", ctx, "docker-web-app", forceOpts(true)).
		Return([]image.DeleteResponse{{Untagged: "docker-web-app:latest"}, {Deleted: "sha256:aaa"}}, nil).Once()
	cli.On("ImageRemove", ctx, "sql-server-backup", forceOpts(true)).
		Return([]image.DeleteResponse{{Deleted: "sha256:bbb"}}, nil).Once()
	cli.On("Close").Return(nil).Once()

	obs := &recordingObserver{}
	err := NewPruner(connectTo(cli), obs).RemoveImages(ctx, []string{"docker-web-app", "sql-server-backup"}, true)
	require.NoError(t, err)

	cli.AssertExpectations(t)
	assert.Equal(t, []string{"docker-web-app", "sql-server-backup"}, removedImages(cli))
	assert.Equal(t, []string{
		"removing [docker-web-app sql-server-backup] force=true",
		"untagged docker-web-app docker-web-app:latest",
		"deleted docker-web-app sha256:aaa",
		"deleted sql-server-backup sha256:bbb",
		"done",
	}, obs.events)
}

func TestRemoveImages_StopsAtFirstFailure(t *testing.T) {
	ctx := context.Background()
	inUse := fmt.Errorf("conflict: unable to remove repository reference \"B\": %w", cerrdefs.ErrConflict)

	cli := &mocks.MockEngineClient{}
	cli.On("ImageRemove", ctx, "A", forceOpts(true)).Return([]image.DeleteResponse{{Deleted: "sha256:a"}}, nil).Once()
	cli.On("ImageRemove", ctx, "B", forceOpts(true)).Return(nil, inUse).Once()
	cli.On("Close").Return(nil).Once()

	obs := &recordingObserver{}
	err := NewPruner(connectTo(cli), obs).RemoveImages(ctx, []string{"A", "B", "C"}, true)
	require.Error(t, err)

	var removeErr *RemoveError
	require.ErrorAs(t, err, &removeErr)
	assert.Equal(t, "B", removeErr.Image)
	assert.ErrorIs(t, err, cerrdefs.ErrConflict)
	assert.True(t, IsInUse(err))
	assert.Contains(t, err.Error(), "failed to remove image 'B'")

	cli.AssertExpectations(t)
	cli.AssertNotCalled(t, "ImageRemove", ctx, "C", mock.Anything)
	assert.Equal(t, []string{"A", "B"}, removedImages(cli))
	assert.Equal(t, []string{
		"removing [A B C] force=true",
		"deleted A sha256:a",
		"failed B: " + inUse.Error(),
	}, obs.events)
}

func TestRemoveImages_DeletedOnlyRecord(t *testing.T) {
	ctx := context.Background()
	cli := &mocks.MockEngineClient{}
	cli.On("ImageRemove", ctx, "A", forceOpts(false)).Return([]image.DeleteResponse{{Deleted: "sha256:a"}}, nil)
	cli.On("Close").Return(nil)

	obs := &recordingObserver{}
	require.NoError(t, NewPruner(connectTo(cli), obs).RemoveImages(ctx, []string{"A"}, false))
	assert.Equal(t, []string{"removing [A] force=false", "deleted A sha256:a", "done"}, obs.events)
}

func TestRemoveImages_DeletedAndUntaggedInOneRecord(t *testing.T) {
	ctx := context.Background()
	cli := &mocks.MockEngineClient{}
	cli.On("ImageRemove", ctx, "A", forceOpts(true)).
		Return([]image.DeleteResponse{{Deleted: "sha256:a", Untagged: "A:latest"}, {}}, nil)
	cli.On("Close").Return(nil)

	obs := &recordingObserver{}
	require.NoError(t, NewPruner(connectTo(cli), obs).RemoveImages(ctx, []string{"A"}, true))
	assert.Equal(t, []string{"removing [A] force=true", "deleted A sha256:a", "untagged A A:latest", "done"}, obs.events)
}

func TestRemoveImages_SecondRunSurfacesNotFound(t *testing.T) {
	ctx := context.Background()
	gone := fmt.Errorf("Error response from daemon: No such image: A:latest: %w", cerrdefs.ErrNotFound)

	cli := &mocks.MockEngineClient{}
	cli.On("ImageRemove", ctx, "A", forceOpts(true)).Return([]image.DeleteResponse{{Deleted: "sha256:a"}}, nil).Once()
	cli.On("ImageRemove", ctx, "A", forceOpts(true)).Return(nil, gone).Once()
	cli.On("Close").Return(nil).Twice()

	p := NewPruner(connectTo(cli), nil)
	require.NoError(t, p.RemoveImages(ctx, []string{"A"}, true))

	err := p.RemoveImages(ctx, []string{"A"}, true)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	cli.AssertExpectations(t)
}

func TestRemoveImages_ConnectFailure(t *testing.T) {
	obs := &recordingObserver{}
	p := NewPruner(func() (EngineClient, error) { return nil, errors.New("dial unix docker.sock: connect: no such file") }, obs)

	err := p.RemoveImages(context.Background(), []string{"A"}, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to docker engine")
	assert.Equal(t, []string{"removing [A] force=true"}, obs.events)
}

func TestRemoveImages_NilConnector(t *testing.T) {
	assert.Error(t, (&Pruner{}).RemoveImages(context.Background(), []string{"A"}, true))
}

func TestRemoveImages_EmptyList(t *testing.T) {
	cli := &mocks.MockEngineClient{}
	cli.On("Close").Return(nil).Once()

	obs := &recordingObserver{}
	require.NoError(t, NewPruner(connectTo(cli), obs).RemoveImages(context.Background(), nil, true))
	cli.AssertExpectations(t)
	cli.AssertNotCalled(t, "ImageRemove", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, []string{"removing [] force=true", "done"}, obs.events)
}

func TestRemoveImages_CloseErrorIsIgnored(t *testing.T) {
	cli := &mocks.MockEngineClient{}
	cli.On("Close").Return(errors.New("already closed")).Once()

	assert.NoError(t, NewPruner(connectTo(cli), nil).RemoveImages(context.Background(), nil, true))
	cli.AssertExpectations(t)
}

func TestNewDockerConnector_DoesNotDial(t *testing.T) {
	cli, err := NewDockerConnector("tcp://127.0.0.1:2375")()
	require.NoError(t, err)
	require.NotNil(t, cli)
	assert.NoError(t, cli.Close())
}
