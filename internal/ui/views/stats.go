package views

import (
	"fmt"
	"log"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/ytl/internal/db"
	"github.com/tgienger/ytl/internal/models"
	"github.com/tgienger/ytl/internal/ui/keys"
	"github.com/tgienger/ytl/internal/ui/styles"
)

// StatsView shows learning statistics
type StatsView struct {
	db     *db.DB
	stats  *models.Stats
	bar    progress.Model
	styles *styles.Styles
	keys   keys.KeyMap
	width  int
	height int
	notice notice
}

func NewStatsView(database *db.DB) *StatsView {
	bar := progress.New(
		progress.WithGradient(string(styles.Current.Primary), string(styles.Current.Success)),
	)
	bar.Width = 40

	return &StatsView{
		db:     database,
		bar:    bar,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
	}
}

type statsLoadedMsg struct {
	stats models.Stats
}

func (v *StatsView) Init() tea.Cmd {
	return v.load
}

func (v *StatsView) load() tea.Msg {
	stats, err := v.db.GetStats()
	if err != nil {
		return errMsg{err}
	}
	return statsLoadedMsg{stats: stats}
}

func (v *StatsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.bar.Width = styles.Clamp(styles.ContentWidth(msg.Width)-12, 10, 50)

	case statsLoadedMsg:
		v.stats = &msg.stats
		v.notice = notice{}

	case errMsg:
		log.Printf("stats: %v", msg.err)
		v.notice = errNotice(msg.err)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return GoBack{} }
		case msg.String() == "r":
			return v, v.load
		}
	}
	return v, nil
}

func (v *StatsView) View() string {
	s := v.styles

	rows := []string{s.Title.Render("Learning Statistics"), ""}

	if v.stats == nil {
		rows = append(rows, s.TitleMuted.Render("Loading..."))
	} else {
		st := v.stats
		rows = append(rows,
			stat(s, "Total videos", fmt.Sprint(st.TotalVideos)),
			stat(s, "Completed", fmt.Sprint(st.CompletedVideos)),
			stat(s, "Completion rate", fmt.Sprintf("%.1f%%", st.CompletionRate)),
			"",
			v.bar.ViewAs(st.CompletionRate/100),
			"",
			stat(s, "Time spent", fmt.Sprintf("%d minutes (%.1f hours)", st.TotalTimeMinutes, st.TotalTimeHours())),
			stat(s, "Pending tasks", fmt.Sprint(st.PendingTasks)),
		)
	}

	if n := v.notice.render(s); n != "" {
		rows = append(rows, "", n)
	}
	rows = append(rows, helpLine(s, "r", "refresh", "esc", "back", "q", "quit"))

	content := s.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return styles.CenterView(content, v.width, v.height)
}

func stat(s *styles.Styles, label, value string) string {
	return s.TitleMuted.Render(fmt.Sprintf("%-17s", label+":")) + value
}
