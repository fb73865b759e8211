package docker

import "time"

const (
	ContainerOpTimeout = 30 * time.Second
	// dumps and restores of large databases take a while
	ExecTimeout = 30 * time.Minute
)
