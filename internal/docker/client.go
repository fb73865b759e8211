package docker

import (
	"context"
	"fmt"
	"os"

	"github.com/containerd/errdefs"
	"github.com/docker/docker/client"
	"github.com/fedy97/branch-db-state-switcher/internal/runtime"
	"github.com/fedy97/branch-db-state-switcher/pkg/models"
)

type Client struct {
	cli         *client.Client
	ctx         context.Context
	runtimeInfo *runtime.RuntimeInfo
}

func NewClient(cfg models.RuntimeConfig) (*Client, error) {
	runtimeInfo, err := runtime.DetectRuntime(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to detect container runtime: %w\nplease install docker or podman", err)
	}

	if err := runtimeInfo.EnsureSocketExists(); err != nil {
		return nil, err
	}

	if os.Getenv("DOCKER_HOST") == "" {
		os.Setenv("DOCKER_HOST", runtimeInfo.GetSocketURI())
	}

	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create container runtime client: %w", err)
	}

	return &Client{
		cli:         cli,
		ctx:         context.Background(),
		runtimeInfo: runtimeInfo,
	}, nil
}

func (c *Client) Close() error {
	return c.cli.Close()
}

func (c *Client) GetRuntimeInfo() *runtime.RuntimeInfo {
	return c.runtimeInfo
}

// ContainerStatus returns the container state ("running", "exited", ...)
// or "not found" when no such container exists.
func (c *Client) ContainerStatus(containerID string) (string, error) {
	ctx, cancel := context.WithTimeout(c.ctx, ContainerOpTimeout)
	defer cancel()

	inspect, err := c.cli.ContainerInspect(ctx, containerID)
	if err != nil {
		if errdefs.IsNotFound(err) {
			return "not found", nil
		}
		return "", fmt.Errorf("failed to inspect container: %w", err)
	}

	return inspect.State.Status, nil
}
