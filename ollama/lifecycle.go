package ollama

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

// Lifecycle timings. The install check only runs a version print and should
// return immediately; the startup wait gives a freshly spawned daemon time
// to bind its port before the first probe.
const (
	installCheckTimeout = 5 * time.Second
	startupWait         = 2 * time.Second
)

// IsInstalled reports whether the ollama binary is available on PATH by
// running "ollama --version".
func IsInstalled(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, installCheckTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ollama", "--version")
	return cmd.Run() == nil
}

// Start launches "ollama serve" as a detached background process and waits
// for the daemon to come up. Returns nil if the daemon is already running.
//
// The spawned process is not supervised. The daemon outlives this process
// and may be stopped externally at any time, so callers treat the result
// as advisory and re-probe before use.
func (c *Client) Start(ctx context.Context) error {
	if c.IsRunning(ctx) {
		return nil
	}

	if !IsInstalled(ctx) {
		return fmt.Errorf("ollama is not installed")
	}

	cmd := exec.Command("ollama", "serve")
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ollama: %w", err)
	}

	// Reap the child when it exits so it doesn't linger as a zombie.
	go func() { _ = cmd.Wait() }()

	select {
	case <-time.After(startupWait):
	case <-ctx.Done():
		return ctx.Err()
	}

	if !c.IsRunning(ctx) {
		return fmt.Errorf("ollama did not become ready after start")
	}

	return nil
}
