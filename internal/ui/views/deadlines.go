package views

import (
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/ytl/internal/db"
	"github.com/tgienger/ytl/internal/models"
	"github.com/tgienger/ytl/internal/ui/keys"
	"github.com/tgienger/ytl/internal/ui/styles"
)

const maxDeadlineDays = 365

// DeadlinesView lists videos due within a number of days, overdue ones included
type DeadlinesView struct {
	db     *db.DB
	days   int
	videos []models.Video
	cursor int
	loaded bool
	styles *styles.Styles
	keys   keys.KeyMap
	width  int
	height int
	notice notice
}

func NewDeadlinesView(database *db.DB, days int) *DeadlinesView {
	return &DeadlinesView{
		db:     database,
		days:   styles.Clamp(days, 0, maxDeadlineDays),
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
	}
}

type deadlinesLoadedMsg struct {
	videos []models.Video
}

func (v *DeadlinesView) Init() tea.Cmd {
	return v.load()
}

// load snapshots the day count; the Cmd runs off the update loop
func (v *DeadlinesView) load() tea.Cmd {
	database, days := v.db, v.days
	return func() tea.Msg {
		videos, err := database.UpcomingDeadlines(days)
		if err != nil {
			return errMsg{err}
		}
		return deadlinesLoadedMsg{videos: videos}
	}
}

func (v *DeadlinesView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height

	case deadlinesLoadedMsg:
		v.videos = msg.videos
		v.loaded = true
		if v.cursor >= len(v.videos) {
			v.cursor = max(len(v.videos)-1, 0)
		}

	case errMsg:
		log.Printf("deadlines: %v", msg.err)
		v.notice = errNotice(msg.err)
		v.loaded = true

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return GoBack{} }
		case key.Matches(msg, v.keys.Up):
			if v.cursor > 0 {
				v.cursor--
			}
		case key.Matches(msg, v.keys.Down):
			if v.cursor < len(v.videos)-1 {
				v.cursor++
			}
		case key.Matches(msg, v.keys.MoreDays):
			if v.days < maxDeadlineDays {
				v.days++
				return v, v.load()
			}
		case key.Matches(msg, v.keys.LessDays):
			if v.days > 0 {
				v.days--
				return v, v.load()
			}
		case key.Matches(msg, v.keys.Enter):
			if v.cursor < len(v.videos) {
				id := v.videos[v.cursor].ID
				return v, func() tea.Msg { return SelectedVideo{ID: id} }
			}
		}
	}
	return v, nil
}

func (v *DeadlinesView) View() string {
	s := v.styles
	width := styles.Clamp(styles.ContentWidth(v.width)-4, 20, styles.MaxWidth)

	rows := []string{
		s.Title.Render(fmt.Sprintf("Deadlines in the next %d days", v.days)),
		"",
	}

	switch {
	case !v.loaded:
		rows = append(rows, s.TitleMuted.Render("Loading..."))
	case len(v.videos) == 0:
		rows = append(rows, s.TitleMuted.Render(fmt.Sprintf("No deadlines in the next %d days.", v.days)))
	default:
		today := time.Now().Format(models.DateLayout)
		for i, video := range v.videos {
			style := s.ListItem
			if i == v.cursor {
				style = s.ListSelected
			}
			due := video.DeadlineString()
			if due < today {
				due = lipgloss.NewStyle().Foreground(styles.Current.Error).Render(due + " overdue")
			}
			line := fmt.Sprintf("#%d %s  %s  %s", video.ID, video.Title, s.PriorityBadge(video.Priority), due)
			rows = append(rows, style.Width(width).Render(line))
		}
	}

	if n := v.notice.render(s); n != "" {
		rows = append(rows, "", n)
	}
	rows = append(rows, helpLine(s, "↵", "open", "+/-", "days", "esc", "back", "q", "quit"))

	return styles.CenterView(lipgloss.JoinVertical(lipgloss.Left, rows...), v.width, v.height)
}
