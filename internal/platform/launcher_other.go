//go:build !darwin

package platform

import (
	"context"
	"runtime"
	"strings"
)

type xdgOpener struct {
	goos string
}

func newPlatformOpener() opener {
	return xdgOpener{goos: runtime.GOOS}
}

func (o xdgOpener) command(uri string) (string, []string) {
	if o.goos == "windows" {
		return "rundll32", []string{"url.dll,FileProtocolHandler", uri}
	}
	return "xdg-open", []string{uri}
}

// hasHandler asks xdg-mime for the default handler of the scheme, or the
// registry on Windows where rundll32 succeeds even for unregistered schemes.
func (o xdgOpener) hasHandler(ctx context.Context, scheme string) (bool, error) {
	if o.goos == "windows" {
		return windowsHasHandler(ctx, scheme)
	}
	if _, err := lookPath("xdg-mime"); err != nil {
		return false, nil
	}

	out, err := commandRunner(ctx, "xdg-mime", "query", "default", "x-scheme-handler/"+scheme)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(string(out)) != "", nil
}

// windowsHasHandler looks for the "URL Protocol" marker on the scheme's class key.
// reg exits non-zero when the key or value is absent.
func windowsHasHandler(ctx context.Context, scheme string) (bool, error) {
	if _, err := lookPath("reg"); err != nil {
		return false, nil
	}
	if _, err := commandRunner(ctx, "reg", "query", `HKEY_CLASSES_ROOT\`+scheme, "/v", "URL Protocol"); err != nil {
		return false, nil
	}
	return true, nil
}
