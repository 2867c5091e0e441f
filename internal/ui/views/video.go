package views

import (
	"fmt"
	"log"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/ytl/internal/db"
	"github.com/tgienger/ytl/internal/models"
	"github.com/tgienger/ytl/internal/ui/keys"
	"github.com/tgienger/ytl/internal/ui/styles"
)

type videoMode int

const (
	modeBrowse videoMode = iota
	modeAddTask
	modeLogTime
	modeEditNotes
	modeConfirmDelete
)

// VideoView shows one video with its tasks
type VideoView struct {
	db     *db.DB
	id     int64
	video  *models.Video
	tasks  []models.Task
	cursor int
	styles *styles.Styles
	keys   keys.KeyMap
	width  int
	height int

	mode videoMode

	// Add task form: description, then timestamp
	taskDesc  textinput.Model
	taskTime  textinput.Model
	taskFocus int

	minutes textinput.Model
	notes   textarea.Model

	formErr string
	notice  notice
}

// NewVideoView creates the detail view for the video with the given ID
func NewVideoView(database *db.DB, id int64) *VideoView {
	s := styles.NewStyles()

	taskDesc := textinput.New()
	taskDesc.Placeholder = "What to do"
	taskDesc.CharLimit = 200

	taskTime := textinput.New()
	taskTime.Placeholder = "Timestamp, e.g. 12:30 (optional)"
	taskTime.CharLimit = 20

	minutes := textinput.New()
	minutes.Placeholder = "Minutes"
	minutes.CharLimit = 6

	notes := textarea.New()
	notes.Placeholder = "Notes"
	notes.CharLimit = 5000
	notes.SetWidth(50)
	notes.SetHeight(6)
	notes.ShowLineNumbers = false

	return &VideoView{
		db:       database,
		id:       id,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
		taskDesc: taskDesc,
		taskTime: taskTime,
		minutes:  minutes,
		notes:    notes,
	}
}

type videoLoadedMsg struct {
	video *models.Video
	tasks []models.Task
}

func (v *VideoView) Init() tea.Cmd {
	return v.load
}

func (v *VideoView) load() tea.Msg {
	video, err := v.db.GetVideo(v.id)
	if err != nil {
		return errMsg{err}
	}
	tasks, err := v.db.GetVideoTasks(v.id)
	if err != nil {
		return errMsg{err}
	}
	return videoLoadedMsg{video: video, tasks: tasks}
}

func (v *VideoView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.notes.SetWidth(styles.Clamp(styles.ContentWidth(msg.Width)-10, 20, 70))
		return v, nil

	case videoLoadedMsg:
		v.video = msg.video
		v.tasks = msg.tasks
		if v.cursor >= len(v.tasks) {
			v.cursor = max(len(v.tasks)-1, 0)
		}
		return v, nil

	case errMsg:
		log.Printf("video %d: %v", v.id, msg.err)
		v.notice = errNotice(msg.err)
		return v, nil

	case tea.KeyMsg:
		if key.Matches(msg, v.keys.ForceQuit) {
			return v, tea.Quit
		}
		switch v.mode {
		case modeAddTask:
			return v.updateAddTask(msg)
		case modeLogTime:
			return v.updateLogTime(msg)
		case modeEditNotes:
			return v.updateEditNotes(msg)
		case modeConfirmDelete:
			return v.updateConfirmDelete(msg)
		}
		return v.updateBrowse(msg)
	}

	return v, nil
}

func (v *VideoView) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v.notice = notice{}

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
		if v.cursor < len(v.tasks)-1 {
			v.cursor++
		}
	}

	// The rest needs a loaded video
	if v.video == nil {
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.AddTask):
		v.mode = modeAddTask
		v.formErr = ""
		v.taskFocus = 0
		v.taskDesc.Reset()
		v.taskTime.Reset()
		v.taskTime.Blur()
		return v, v.taskDesc.Focus()

	case key.Matches(msg, v.keys.ToggleTask):
		if v.cursor < len(v.tasks) {
			task := v.tasks[v.cursor]
			if err := v.db.UpdateTaskStatus(task.ID, task.Status.Toggle()); err != nil {
				v.notice = errNotice(err)
				return v, nil
			}
			return v, v.load
		}

	case key.Matches(msg, v.keys.Status):
		next := v.video.Status.Next()
		if err := v.db.UpdateVideoStatus(v.id, next); err != nil {
			v.notice = errNotice(err)
			return v, nil
		}
		v.notice = infoNotice("Status set to %s", next.Label())
		return v, v.load

	case key.Matches(msg, v.keys.Time):
		v.mode = modeLogTime
		v.formErr = ""
		v.minutes.Reset()
		return v, v.minutes.Focus()

	case key.Matches(msg, v.keys.Notes):
		v.mode = modeEditNotes
		v.notes.SetValue(v.video.Notes)
		return v, v.notes.Focus()

	case key.Matches(msg, v.keys.Delete):
		v.mode = modeConfirmDelete
	}

	return v, nil
}

func (v *VideoView) updateAddTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = modeBrowse
		return v, nil
	case key.Matches(msg, v.keys.Tab), msg.String() == "shift+tab":
		v.taskFocus = 1 - v.taskFocus
		if v.taskFocus == 0 {
			v.taskTime.Blur()
			return v, v.taskDesc.Focus()
		}
		v.taskDesc.Blur()
		return v, v.taskTime.Focus()
	case key.Matches(msg, v.keys.Enter), key.Matches(msg, v.keys.Save):
		if v.taskFocus == 0 && key.Matches(msg, v.keys.Enter) {
			v.taskFocus = 1
			v.taskDesc.Blur()
			return v, v.taskTime.Focus()
		}
		if _, err := v.db.AddTask(v.id, v.taskDesc.Value(), v.taskTime.Value()); err != nil {
			v.formErr = err.Error()
			return v, nil
		}
		v.mode = modeBrowse
		v.notice = infoNotice("Task added")
		v.cursor = len(v.tasks)
		return v, v.load
	}

	var cmd tea.Cmd
	if v.taskFocus == 0 {
		v.taskDesc, cmd = v.taskDesc.Update(msg)
	} else {
		v.taskTime, cmd = v.taskTime.Update(msg)
	}
	return v, cmd
}

func (v *VideoView) updateLogTime(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = modeBrowse
		v.minutes.Blur()
		return v, nil
	case key.Matches(msg, v.keys.Enter):
		minutes, err := models.ParseMinutes(v.minutes.Value())
		if err == nil {
			err = v.db.RecordTimeSpent(v.id, minutes)
		}
		if err != nil {
			v.formErr = err.Error()
			return v, nil
		}
		v.mode = modeBrowse
		v.minutes.Blur()
		v.notice = infoNotice("Logged %d minutes", minutes)
		return v, v.load
	}

	var cmd tea.Cmd
	v.minutes, cmd = v.minutes.Update(msg)
	return v, cmd
}

func (v *VideoView) updateEditNotes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = modeBrowse
		v.notes.Blur()
		return v, nil
	case key.Matches(msg, v.keys.Save):
		if err := v.db.SetVideoNotes(v.id, v.notes.Value()); err != nil {
			v.notice = errNotice(err)
		} else {
			v.notice = infoNotice("Notes saved")
		}
		v.mode = modeBrowse
		v.notes.Blur()
		return v, v.load
	}

	// Enter inserts newlines in the textarea
	var cmd tea.Cmd
	v.notes, cmd = v.notes.Update(msg)
	return v, cmd
}

func (v *VideoView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.mode = modeBrowse
		if err := v.db.DeleteVideo(v.id); err != nil {
			v.notice = errNotice(err)
			return v, nil
		}
		return v, func() tea.Msg { return GoBack{} }
	case "n", "N", "esc":
		v.mode = modeBrowse
	}
	return v, nil
}

// View renders the view
func (v *VideoView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	if v.video == nil {
		if n := v.notice.render(s); n != "" {
			return styles.CenterView(n+"\n"+helpLine(s, "esc", "back"), v.width, v.height)
		}
		return s.TitleMuted.Render("Loading...")
	}

	if v.mode == modeConfirmDelete {
		return v.renderDeleteConfirm()
	}

	textWidth := styles.Clamp(contentWidth-10, 20, 70)
	video := v.video

	rows := []string{
		s.Title.Width(textWidth).Render(fmt.Sprintf("#%d %s", video.ID, video.Title)),
		s.TitleMuted.Render(video.URL),
		"",
		s.PriorityBadge(video.Priority) + " • " + s.StatusBadge(video.Status),
		field(s, "Channel", video.Channel),
		field(s, "Duration", video.Duration),
		field(s, "Category", video.Category),
		field(s, "Deadline", video.DeadlineString()),
		field(s, "Time spent", fmt.Sprintf("%d min (%.1f h)", video.TimeSpent, float64(video.TimeSpent)/60)),
		field(s, "Added", video.CreatedAt.Format("Jan 2, 2006 3:04 PM")),
		"",
		s.TitleMuted.Render("Notes"),
	}

	if v.mode == modeEditNotes {
		rows = append(rows, s.InputFocused.Render(v.notes.View()))
	} else if video.Notes == "" {
		rows = append(rows, s.TitleMuted.Render("No notes"))
	} else {
		rows = append(rows, lipgloss.NewStyle().Width(textWidth).Render(video.Notes))
	}

	rows = append(rows, "", s.TitleMuted.Render(fmt.Sprintf("Tasks (%d)", len(v.tasks))))
	rows = append(rows, v.renderTasks(textWidth)...)

	switch v.mode {
	case modeAddTask:
		descStyle, timeStyle := s.InputFocused, s.Input
		if v.taskFocus == 1 {
			descStyle, timeStyle = s.Input, s.InputFocused
		}
		inputWidth := styles.Clamp(textWidth, 20, 50)
		rows = append(rows, "",
			"Description:", descStyle.Width(inputWidth).Render(v.taskDesc.View()),
			"Timestamp:", timeStyle.Width(inputWidth).Render(v.taskTime.View()),
		)
	case modeLogTime:
		rows = append(rows, "", "Minutes to add:", s.InputFocused.Width(20).Render(v.minutes.View()))
	}

	if v.formErr != "" && (v.mode == modeAddTask || v.mode == modeLogTime) {
		rows = append(rows, s.StatusError.Render(v.formErr))
	}
	if n := v.notice.render(s); n != "" {
		rows = append(rows, "", n)
	}
	rows = append(rows, v.renderHelp())

	return styles.CenterView(lipgloss.JoinVertical(lipgloss.Left, rows...), v.width, v.height)
}

func field(s *styles.Styles, label, value string) string {
	if value == "" {
		value = s.TitleMuted.Render("Not specified")
	}
	return s.TitleMuted.Render(fmt.Sprintf("%-11s", label+":")) + value
}

func (v *VideoView) renderTasks(width int) []string {
	s := v.styles
	if len(v.tasks) == 0 {
		return []string{s.TitleMuted.Render("No tasks yet. Press 'a' to add one.")}
	}

	lines := make([]string, 0, len(v.tasks))
	for i, task := range v.tasks {
		check := "[ ]"
		if task.Status == models.TaskCompleted {
			check = "[x]"
		}
		text := check + " " + task.Description
		if task.Timestamp != "" {
			text += " @ " + task.Timestamp
		}

		style := s.ListItem
		if i == v.cursor && v.mode == modeBrowse {
			style = s.ListSelected
		}
		if task.Status == models.TaskCompleted {
			style = style.Foreground(styles.Current.ForegroundDim).Strikethrough(true)
		}
		lines = append(lines, style.Width(width).Render(text))
	}
	return lines
}

func (v *VideoView) renderHelp() string {
	s := v.styles
	switch v.mode {
	case modeAddTask:
		return helpLine(s, "tab", "switch", "↵", "next/save", "esc", "cancel")
	case modeLogTime:
		return helpLine(s, "↵", "save", "esc", "cancel")
	case modeEditNotes:
		return helpLine(s, "ctrl+s", "save", "esc", "cancel")
	}

	pairs := []string{"a", "task", "space", "toggle", "s", "status", "t", "time", "e", "notes", "d", "delete", "esc", "back"}
	if styles.ContentWidth(v.width) < 60 {
		pairs = []string{"a", "task", "space", "toggle", "esc", "back"}
	}
	return helpLine(s, pairs...)
}

func (v *VideoView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Video?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%q and its %d task(s) will be removed.", v.video.Title, len(v.tasks))),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}
