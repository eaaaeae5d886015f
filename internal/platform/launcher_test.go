//go:build !darwin

package platform

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

func stubExec(t *testing.T, available map[string]bool, output map[string]string, runErr error) *[]call {
	t.Helper()
	calls := &[]call{}

	origRunner, origLook, origStart := commandRunner, lookPath, startCommand
	t.Cleanup(func() {
		commandRunner = origRunner
		lookPath = origLook
		startCommand = origStart
	})

	lookPath = func(name string) (string, error) {
		if available[name] {
			return "/usr/bin/" + name, nil
		}
		return "", exec.ErrNotFound
	}
	commandRunner = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		*calls = append(*calls, call{name: name, args: args})
		return []byte(output[name]), runErr
	}
	startCommand = func(name string, args ...string) (<-chan error, error) {
		*calls = append(*calls, call{name: name, args: args})
		done := make(chan error, 1)
		done <- runErr
		return done, nil
	}
	return calls
}

func linuxLauncher() *Launcher {
	return &Launcher{opener: xdgOpener{goos: "linux"}}
}

func TestLauncherCanOpen_SchemeHandlerRegistered(t *testing.T) {
	calls := stubExec(t,
		map[string]bool{"xdg-open": true, "xdg-mime": true},
		map[string]string{"xdg-mime": "whatsapp.desktop\n"},
		nil,
	)

	ok, err := linuxLauncher().CanOpen(context.Background(), "whatsapp://send?phone=919876543210&text=hi")

	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, *calls, 1)
	assert.Equal(t, []string{"query", "default", "x-scheme-handler/whatsapp"}, (*calls)[0].args)
}

func TestLauncherCanOpen_NoHandler(t *testing.T) {
	stubExec(t, map[string]bool{"xdg-open": true, "xdg-mime": true}, map[string]string{"xdg-mime": ""}, nil)

	ok, err := linuxLauncher().CanOpen(context.Background(), "whatsapp://send?phone=1")

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLauncherCanOpen_NoOpener(t *testing.T) {
	stubExec(t, map[string]bool{}, nil, nil)

	ok, err := linuxLauncher().CanOpen(context.Background(), "https://wa.me/1")

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLauncherCanOpen_HTTPSNeedsOnlyOpener(t *testing.T) {
	calls := stubExec(t, map[string]bool{"xdg-open": true}, nil, nil)

	ok, err := linuxLauncher().CanOpen(context.Background(), "https://wa.me/919876543210?text=hi")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, *calls)
}

func TestLauncherCanOpen_InvalidURI(t *testing.T) {
	stubExec(t, map[string]bool{"xdg-open": true}, nil, nil)

	_, err := linuxLauncher().CanOpen(context.Background(), "no-scheme-here")
	assert.Error(t, err)
}

func TestLauncherOpen(t *testing.T) {
	calls := stubExec(t, map[string]bool{"xdg-open": true}, nil, nil)

	require.NoError(t, linuxLauncher().Open(context.Background(), "whatsapp://send?phone=1"))
	require.Len(t, *calls, 1)
	assert.Equal(t, "xdg-open", (*calls)[0].name)
	assert.Equal(t, []string{"whatsapp://send?phone=1"}, (*calls)[0].args)
}

func TestLauncherOpen_Error(t *testing.T) {
	stubExec(t, map[string]bool{"xdg-open": true}, nil, errors.New("exit status 3"))

	err := linuxLauncher().Open(context.Background(), "whatsapp://send?phone=1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 3")
}

func TestLauncherOpen_StartFailure(t *testing.T) {
	stubExec(t, nil, nil, nil)
	startCommand = func(name string, args ...string) (<-chan error, error) {
		return nil, exec.ErrNotFound
	}

	err := linuxLauncher().Open(context.Background(), "whatsapp://send?phone=1")
	assert.ErrorIs(t, err, exec.ErrNotFound)
}

func TestLauncherOpen_ReturnsWhileOpenerStillRuns(t *testing.T) {
	stubExec(t, nil, nil, nil)
	origWait := openerExitWait
	t.Cleanup(func() { openerExitWait = origWait })
	openerExitWait = 20 * time.Millisecond

	// never exits
	startCommand = func(name string, args ...string) (<-chan error, error) {
		return make(chan error), nil
	}

	start := time.Now()
	require.NoError(t, linuxLauncher().Open(context.Background(), "whatsapp://send?phone=1"))
	assert.Less(t, time.Since(start), time.Second)
}

func TestLauncherOpen_DoesNotWaitForBackgroundedHandler(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	// An opener that backgrounds a long-running handler and exits, as xdg-open does
	dir := t.TempDir()
	script := "#!/bin/sh\nsleep 5 &\nexit 0\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "xdg-open"), []byte(script), 0o755))
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	start := time.Now()
	err := linuxLauncher().Open(context.Background(), "whatsapp://send?phone=919876543210&text=hi")

	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestLauncherOpen_ReportsQuickOpenerFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "xdg-open"), []byte("#!/bin/sh\nexit 3\n"), 0o755))
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	err := linuxLauncher().Open(context.Background(), "whatsapp://send?phone=1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 3")
}

func TestWindowsOpenerCommand(t *testing.T) {
	name, args := xdgOpener{goos: "windows"}.command("https://wa.me/1")
	assert.Equal(t, "rundll32", name)
	assert.Equal(t, []string{"url.dll,FileProtocolHandler", "https://wa.me/1"}, args)
}

func TestWindowsCanOpen_ChecksRegistry(t *testing.T) {
	tests := []struct {
		name      string
		available map[string]bool
		regErr    error
		want      bool
		wantCalls int
	}{
		{"scheme registered", map[string]bool{"rundll32": true, "reg": true}, nil, true, 1},
		{"scheme not registered", map[string]bool{"rundll32": true, "reg": true}, errors.New("exit status 1"), false, 1},
		{"reg missing", map[string]bool{"rundll32": true}, nil, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := stubExec(t, tt.available, nil, tt.regErr)
			l := &Launcher{opener: xdgOpener{goos: "windows"}}

			ok, err := l.CanOpen(context.Background(), "whatsapp://send?phone=1")

			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			require.Len(t, *calls, tt.wantCalls)
			if tt.wantCalls > 0 {
				assert.Equal(t, "reg", (*calls)[0].name)
				assert.Equal(t, []string{"query", `HKEY_CLASSES_ROOT\whatsapp`, "/v", "URL Protocol"}, (*calls)[0].args)
			}
		})
	}
}
