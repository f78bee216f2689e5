// Package images removes container images through the Docker engine API.
package images

import (
	"context"
	"errors"
	"fmt"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"

	"composeclean/pkg/ui"
)

// EngineClient defines the subset of Docker SDK methods used by this package.
// This interface enables mocking the Docker client in tests.
type EngineClient interface {
	ImageRemove(ctx context.Context, imageID string, options image.RemoveOptions) ([]image.DeleteResponse, error)
	Close() error
}

// Connector opens one engine connection.
type Connector func() (EngineClient, error)

// ImageRemover deletes images in order, stopping at the first failure.
type ImageRemover interface {
	RemoveImages(ctx context.Context, names []string, force bool) error
}

// Observer receives per-image progress from a Pruner.
type Observer interface {
	RemovingImages(names []string, force bool)
	ImageDeleted(image string, deleted string)
	ImageUntagged(image string, untagged string)
	ImageFailed(image string, err error)
	ImagesRemoved()
}

// Record is one entry of an engine delete response. Either field may be empty.
type Record struct {
	Deleted  string
	Untagged string
}

// RemoveError reports the image whose removal stopped the run.
type RemoveError struct {
	Image string
	Err   error
}

func (e *RemoveError) Error() string {
	return fmt.Sprintf("failed to remove image '%s': %v", e.Image, e.Err)
}

func (e *RemoveError) Unwrap() error { return e.Err }

// IsNotFound reports whether err means the engine has no such image.
func IsNotFound(err error) bool { return cerrdefs.IsNotFound(err) }

// IsInUse reports whether err means the image is held by a container.
func IsInUse(err error) bool { return cerrdefs.IsConflict(err) }

// Pruner removes a list of images over a single engine connection.
type Pruner struct {
	Connect  Connector
	Observer Observer
}

// Compile-time check that Pruner implements ImageRemover.
var _ ImageRemover = (*Pruner)(nil)

// NewDockerConnector returns a Connector for the local engine. An empty host
// uses the SDK's environment defaults.
func NewDockerConnector(host string) Connector {
	return func() (EngineClient, error) {
		opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
		if host != "" {
			opts = append(opts, client.WithHost(host))
		}
		cli, err := client.NewClientWithOpts(opts...)
		if err != nil {
			return nil, err
		}
		return cli, nil
	}
}

// NewPruner returns a Pruner reporting to observer.
func NewPruner(connect Connector, observer Observer) *Pruner {
	return &Pruner{Connect: connect, Observer: observer}
}

// RemoveImages deletes names in order. The first rejected request stops the
// loop and is returned as a *RemoveError; images already removed stay removed.
func (p *Pruner) RemoveImages(ctx context.Context, names []string, force bool) error {
	if p.Connect == nil {
		return errors.New("docker connector is nil")
	}
	obs := p.observer()
	obs.RemovingImages(names, force)

	cli, err := p.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to docker engine: %w", err)
	}
	defer func() {
		if cerr := cli.Close(); cerr != nil {
			ui.Log.Debug("Closing docker client failed", ui.Log.Args("error", cerr))
		}
	}()

	for _, name := range names {
		ui.Log.Debug("Removing image", ui.Log.Args("image", name, "force", force))
		resp, err := cli.ImageRemove(ctx, name, image.RemoveOptions{Force: force})
		if err != nil {
			obs.ImageFailed(name, err)
			return &RemoveError{Image: name, Err: err}
		}
		for _, rec := range toRecords(resp) {
			if rec.Deleted != "" {
				obs.ImageDeleted(name, rec.Deleted)
			}
			if rec.Untagged != "" {
				obs.ImageUntagged(name, rec.Untagged)
			}
		}
	}

	obs.ImagesRemoved()
	return nil
}

func toRecords(resp []image.DeleteResponse) []Record {
	records := make([]Record, 0, len(resp))
	for _, r := range resp {
		records = append(records, Record{Deleted: r.Deleted, Untagged: r.Untagged})
	}
	return records
}

func (p *Pruner) observer() Observer {
	if p.Observer == nil {
		return nopObserver{}
	}
	return p.Observer
}

type nopObserver struct{}

func (nopObserver) RemovingImages([]string, bool) {}
func (nopObserver) ImageDeleted(string, string) {}
func (nopObserver) ImageUntagged(string, string) {}
func (nopObserver) ImageFailed(string, error) {}
func (nopObserver) ImagesRemoved() {}
