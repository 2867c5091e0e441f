package views

import (
	"fmt"
	"strings"

	"github.com/tgienger/ytl/internal/ui/styles"
)

// SelectedVideo asks the app to open the detail view for a video
type SelectedVideo struct {
	ID int64
}

// GoBack signals to leave the current view
type GoBack struct{}

// ShowStats asks the app to open the statistics view
type ShowStats struct{}

// ShowDeadlines asks the app to open the upcoming deadlines view
type ShowDeadlines struct{}

// errMsg carries a failed load back into Update
type errMsg struct {
	err error
}

func (e errMsg) Error() string { return e.err.Error() }

// notice is a one-line message shown under a view
type notice struct {
	text  string
	isErr bool
}

func infoNotice(format string, args ...any) notice {
	return notice{text: fmt.Sprintf(format, args...)}
}

func errNotice(err error) notice {
	return notice{text: err.Error(), isErr: true}
}

func (n notice) render(s *styles.Styles) string {
	if n.text == "" {
		return ""
	}
	if n.isErr {
		return s.StatusError.Render("✗ " + n.text)
	}
	return s.StatusBar.Render("✓ " + n.text)
}

// helpLine renders "key desc • key desc" pairs
func helpLine(s *styles.Styles, pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, s.HelpKey.Render(pairs[i])+" "+pairs[i+1])
	}
	return s.Help.Render(strings.Join(parts, " • "))
}
