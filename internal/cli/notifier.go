package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/andy/billbook/internal/delivery"
	"github.com/charmbracelet/lipgloss"
)

var (
	noticeWarnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	noticeErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

// cliNotifier prints delivery notices for command-line use
type cliNotifier struct {
	w io.Writer
}

func newCLINotifier(w io.Writer) *cliNotifier {
	return &cliNotifier{w: w}
}

func (n *cliNotifier) Notify(_ context.Context, notice delivery.Notice) {
	style := noticeWarnStyle
	if notice.Kind == delivery.NoticeHandoffError {
		style = noticeErrorStyle
	}
	fmt.Fprintf(n.w, "%s\n%s\n", style.Render("! "+notice.Title), notice.Body)
}
