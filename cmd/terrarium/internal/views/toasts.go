package views

import (
	"strings"

	"github.com/germanamz/terrarium/cmd/terrarium/internal/styles"
	"github.com/germanamz/terrarium/pkg/notify"
)

// Toasts renders the notification stack, oldest first.
func Toasts(list []notify.Notification, width int) string {
	if len(list) == 0 {
		return ""
	}

	lines := make([]string, 0, len(list))
	for _, n := range list {
		st := styles.InfoToast
		switch n.Category {
		case notify.Success:
			st = styles.SuccessToast
		case notify.Error:
			st = styles.ErrorToast
		}
		lines = append(lines, st.Render(Pad(n.Message, max(width-4, 10))))
	}
	return strings.Join(lines, "\n")
}
