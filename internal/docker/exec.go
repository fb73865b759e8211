package docker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"
)

// ExecResult captures a completed in-container command.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Failed reports whether the command exited non-zero.
func (r ExecResult) Failed() bool {
	return r.ExitCode != 0
}

// Output returns stderr if present, otherwise stdout, trimmed. Useful for
// one-line error reporting.
func (r ExecResult) Output() string {
	if out := strings.TrimSpace(r.Stderr); out != "" {
		return out
	}
	return strings.TrimSpace(r.Stdout)
}

// Exec runs cmd inside the container and waits for it to finish.
// A non-zero exit code is not an error; callers inspect the result.
func (c *Client) Exec(containerID string, cmd []string, env []string) (ExecResult, error) {
	ctx, cancel := context.WithTimeout(c.ctx, ExecTimeout)
	defer cancel()

	execConfig := container.ExecOptions{
		Cmd:          cmd,
		Env:          env,
		AttachStdout: true,
		AttachStderr: true,
	}

	execID, err := c.cli.ContainerExecCreate(ctx, containerID, execConfig)
	if err != nil {
		return ExecResult{}, fmt.Errorf("failed to create exec: %w", err)
	}

	attachResp, err := c.cli.ContainerExecAttach(ctx, execID.ID, container.ExecAttachOptions{})
	if err != nil {
		return ExecResult{}, fmt.Errorf("failed to attach to exec: %w", err)
	}
	defer attachResp.Close()

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, attachResp.Reader); err != nil {
		return ExecResult{}, fmt.Errorf("failed to read exec output: %w", err)
	}

	inspect, err := c.cli.ContainerExecInspect(ctx, execID.ID)
	if err != nil {
		return ExecResult{}, fmt.Errorf("failed to inspect exec: %w", err)
	}

	return ExecResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: inspect.ExitCode,
	}, nil
}

// ExecStreamOut runs cmd inside the container and streams its stdout into
// the given writer. Returns an error when the command exits non-zero.
func (c *Client) ExecStreamOut(containerID string, cmd []string, env []string, stdout io.Writer) error {
	ctx, cancel := context.WithTimeout(c.ctx, ExecTimeout)
	defer cancel()

	execConfig := container.ExecOptions{
		Cmd:          cmd,
		Env:          env,
		AttachStdout: true,
		AttachStderr: true,
	}

	execID, err := c.cli.ContainerExecCreate(ctx, containerID, execConfig)
	if err != nil {
		return fmt.Errorf("failed to create exec: %w", err)
	}

	attachResp, err := c.cli.ContainerExecAttach(ctx, execID.ID, container.ExecAttachOptions{})
	if err != nil {
		return fmt.Errorf("failed to attach to exec: %w", err)
	}
	defer attachResp.Close()

	var stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(stdout, &stderr, attachResp.Reader); err != nil {
		return fmt.Errorf("failed to read exec output: %w", err)
	}

	inspect, err := c.cli.ContainerExecInspect(ctx, execID.ID)
	if err != nil {
		return fmt.Errorf("failed to inspect exec: %w", err)
	}

	if inspect.ExitCode != 0 {
		return fmt.Errorf("command exited with code %d: %s", inspect.ExitCode, strings.TrimSpace(stderr.String()))
	}

	return nil
}

// ExecStreamIn runs cmd inside the container feeding stdin from the given
// reader. Returns an error when the command exits non-zero.
func (c *Client) ExecStreamIn(containerID string, cmd []string, env []string, stdin io.Reader) error {
	ctx, cancel := context.WithTimeout(c.ctx, ExecTimeout)
	defer cancel()

	execConfig := container.ExecOptions{
		Cmd:          cmd,
		Env:          env,
		AttachStdin:  true,
		AttachStdout: true,
		AttachStderr: true,
	}

	execID, err := c.cli.ContainerExecCreate(ctx, containerID, execConfig)
	if err != nil {
		return fmt.Errorf("failed to create exec: %w", err)
	}

	attachResp, err := c.cli.ContainerExecAttach(ctx, execID.ID, container.ExecAttachOptions{
		Tty: false,
	})
	if err != nil {
		return fmt.Errorf("failed to attach to exec: %w", err)
	}
	defer attachResp.Close()

	if _, err := io.Copy(attachResp.Conn, stdin); err != nil {
		return fmt.Errorf("failed to write exec input: %w", err)
	}
	attachResp.CloseWrite()

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, attachResp.Reader); err != nil {
		return fmt.Errorf("failed to read exec output: %w", err)
	}

	inspect, err := c.cli.ContainerExecInspect(ctx, execID.ID)
	if err != nil {
		return fmt.Errorf("failed to inspect exec: %w", err)
	}

	if inspect.ExitCode != 0 {
		return fmt.Errorf("command exited with code %d: %s", inspect.ExitCode, strings.TrimSpace(stderr.String()))
	}

	return nil
}
