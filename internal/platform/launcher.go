// Package platform provides desktop implementations of the URI launcher and
// clipboard used for invoice delivery.
package platform

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"strings"
	"time"
)

// commandRunner runs a short-lived query command and returns its combined output.
// Replaced in tests.
var commandRunner = func(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// startCommand starts an opener without attaching our stdio, so handlers it
// backgrounds hold no pipes of ours. The channel receives the opener's exit
// result; the process is reaped whether or not anyone reads it.
// Replaced in tests.
var startCommand = func(name string, args ...string) (<-chan error, error) {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()
	return done, nil
}

// openerExitWait bounds how long Open waits for the opener to report a failure.
// An opener still running after this is treated as having handed off.
var openerExitWait = 2 * time.Second

// lookPath is replaced in tests
var lookPath = exec.LookPath

// Launcher opens URIs with the desktop's default handler
type Launcher struct {
	opener opener
}

// opener describes how a platform opens URIs and resolves scheme handlers
type opener interface {
	command(uri string) (string, []string)
	hasHandler(ctx context.Context, scheme string) (bool, error)
}

// NewLauncher returns a Launcher for the current platform
func NewLauncher() *Launcher {
	return &Launcher{opener: newPlatformOpener()}
}

// CanOpen reports whether a handler is registered for the URI's scheme
func (l *Launcher) CanOpen(ctx context.Context, uri string) (bool, error) {
	scheme, err := schemeOf(uri)
	if err != nil {
		return false, err
	}

	name, _ := l.opener.command(uri)
	if _, err := lookPath(name); err != nil {
		return false, nil
	}

	if scheme == "http" || scheme == "https" {
		return true, nil
	}
	return l.opener.hasHandler(ctx, scheme)
}

// Open passes uri to the platform opener and returns without waiting for the
// target application. A non-zero exit of the opener within openerExitWait is
// reported as an error.
func (l *Launcher) Open(ctx context.Context, uri string) error {
	name, args := l.opener.command(uri)
	done, err := startCommand(name, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	timer := time.NewTimer(openerExitWait)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func schemeOf(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid uri: %w", err)
	}
	if u.Scheme == "" {
		return "", fmt.Errorf("uri has no scheme")
	}
	return strings.ToLower(u.Scheme), nil
}
