package main_test

import (
	"bytes"
	"context"
	"testing"

	main "github.com/fwojciec/woocrawl/cmd/woocrawl"
)

// newDeps returns dependencies writing to buffers with the default
// configuration.
func newDeps(t *testing.T) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
		Config: main.DefaultConfig(),
	}, stdout, stderr
}
