//go:build darwin

package platform

import (
	"context"
	"os"
	"path/filepath"
)

type darwinOpener struct{}

func newPlatformOpener() opener {
	return darwinOpener{}
}

func (darwinOpener) command(uri string) (string, []string) {
	return "open", []string{uri}
}

// knownSchemeApps maps custom URI schemes to the app bundles that register them
var knownSchemeApps = map[string]string{
	"whatsapp": "WhatsApp.app",
}

// hasHandler checks for the app bundle in the system and user Applications folders
func (darwinOpener) hasHandler(ctx context.Context, scheme string) (bool, error) {
	bundle, ok := knownSchemeApps[scheme]
	if !ok {
		return false, nil
	}

	dirs := []string{"/Applications"}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, "Applications"))
	}

	for _, dir := range dirs {
		if _, err := os.Stat(filepath.Join(dir, bundle)); err == nil {
			return true, nil
		}
	}
	return false, nil
}
