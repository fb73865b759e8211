package runtime

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/fedy97/branch-db-state-switcher/pkg/models"
)

type RuntimeType string

const (
	RuntimeDocker RuntimeType = "docker"
	RuntimePodman RuntimeType = "podman"
)

type RuntimeInfo struct {
	Type       RuntimeType
	SocketPath string
	Version    string
	IsRootless bool
}

// DetectRuntime finds a usable container runtime socket. An explicit
// socket_path in the global config wins; otherwise DOCKER_HOST, then
// docker, then podman.
func DetectRuntime(cfg models.RuntimeConfig) (*RuntimeInfo, error) {
	if cfg.SocketPath != "" {
		if _, err := os.Stat(cfg.SocketPath); err != nil {
			return nil, fmt.Errorf("configured socket not found at %s", cfg.SocketPath)
		}
		rt := RuntimeDocker
		if cfg.Prefer == string(RuntimePodman) || strings.Contains(cfg.SocketPath, "podman") {
			rt = RuntimePodman
		}
		return &RuntimeInfo{Type: rt, SocketPath: cfg.SocketPath}, nil
	}

	if dockerHost := os.Getenv("DOCKER_HOST"); dockerHost != "" {
		if strings.Contains(dockerHost, "podman") {
			return detectPodman()
		}
		return detectDocker()
	}

	if cfg.Prefer == string(RuntimePodman) {
		if info, err := detectPodman(); err == nil {
			return info, nil
		}
	}

	if info, err := detectDocker(); err == nil {
		return info, nil
	}

	if info, err := detectPodman(); err == nil {
		return info, nil
	}

	return nil, fmt.Errorf("no container runtime detected (tried docker, podman)")
}

func detectDocker() (*RuntimeInfo, error) {
	if _, err := exec.LookPath("docker"); err != nil {
		return nil, fmt.Errorf("docker command not found")
	}

	socketPath := "/var/run/docker.sock"
	if _, err := os.Stat(socketPath); err != nil {
		return nil, fmt.Errorf("docker socket not found at %s", socketPath)
	}

	cmd := exec.Command("docker", "version", "--format", "{{.Server.Version}}")
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to get docker version: %w", err)
	}

	return &RuntimeInfo{
		Type:       RuntimeDocker,
		SocketPath: socketPath,
		Version:    strings.TrimSpace(string(output)),
	}, nil
}

func detectPodman() (*RuntimeInfo, error) {
	if _, err := exec.LookPath("podman"); err != nil {
		return nil, fmt.Errorf("podman command not found")
	}

	isRootless := os.Getuid() != 0

	var socketPath string
	if isRootless {
		socketPath = fmt.Sprintf("/run/user/%d/podman/podman.sock", os.Getuid())
	} else {
		socketPath = "/run/podman/podman.sock"
	}

	cmd := exec.Command("podman", "version", "--format", "{{.Server.Version}}")
	output, err := cmd.Output()
	if err != nil {
		cmd = exec.Command("podman", "version", "--format", "{{.Client.Version}}")
		output, err = cmd.Output()
		if err != nil {
			return nil, fmt.Errorf("failed to get podman version: %w", err)
		}
	}

	return &RuntimeInfo{
		Type:       RuntimePodman,
		SocketPath: socketPath,
		Version:    strings.TrimSpace(string(output)),
		IsRootless: isRootless,
	}, nil
}

func (r *RuntimeInfo) GetSocketURI() string {
	return fmt.Sprintf("unix://%s", r.SocketPath)
}

func (r *RuntimeInfo) GetRuntimeName() string {
	name := string(r.Type)
	if r.Type == RuntimePodman && r.IsRootless {
		name += " (rootless)"
	}
	return name
}

func (r *RuntimeInfo) EnsureSocketExists() error {
	if _, err := os.Stat(r.SocketPath); err != nil {
		if r.Type == RuntimePodman {
			return fmt.Errorf("podman socket not found at %s - run 'podman system service' to start it", r.SocketPath)
		}
		return fmt.Errorf("runtime socket not found at %s", r.SocketPath)
	}
	return nil
}
