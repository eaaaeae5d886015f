package platform

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

// Clipboard writes to the system clipboard
type Clipboard struct{}

// NewClipboard returns the system clipboard
func NewClipboard() *Clipboard {
	return &Clipboard{}
}

// WriteText copies text to the clipboard
func (c *Clipboard) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility found on this system")
	}
	if err := clipboardWriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}
