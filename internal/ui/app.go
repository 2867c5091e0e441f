package ui

import (
	"log"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/ytl/internal/db"
	"github.com/tgienger/ytl/internal/ui/views"
)

const lastVideoKey = "last_video_id"

// Currently active view
type View int

const (
	ViewVideos View = iota
	ViewVideo
	ViewStats
	ViewDeadlines
)

type App struct {
	db           *db.DB
	deadlineDays int
	currentView  View
	// returnTo is where esc leads from the video view
	returnTo  View
	videoList *views.VideoListView
	video     *views.VideoView
	stats     *views.StatsView
	deadlines *views.DeadlinesView
	width     int
	height    int
}

// Creates a new application
func NewApp(database *db.DB, deadlineDays int) *App {
	return &App{
		db:           database,
		deadlineDays: deadlineDays,
		currentView:  ViewVideos,
		videoList:    views.NewVideoListView(database),
	}
}

func (a *App) Init() tea.Cmd {
	// Reopen the last video if it still exists
	lastVideoID, err := a.db.GetSetting(lastVideoKey)
	if err == nil && lastVideoID != "" {
		id, err := strconv.ParseInt(lastVideoID, 10, 64)
		if err == nil {
			if _, err := a.db.GetVideo(id); err == nil {
				return a.openVideo(id)
			}
		}
	}

	return a.videoList.Init()
}

func (a *App) CurrentView() View {
	return a.currentView
}

func (a *App) resize() tea.Cmd {
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: a.width, Height: a.height}
	}
}

func (a *App) openVideo(id int64) tea.Cmd {
	if a.currentView != ViewVideo {
		a.returnTo = a.currentView
	}
	a.currentView = ViewVideo
	a.video = views.NewVideoView(a.db, id)

	a.saveLastVideo(strconv.FormatInt(id, 10))

	return tea.Batch(a.video.Init(), a.resize())
}

func (a *App) saveLastVideo(value string) {
	if err := a.db.SetSetting(lastVideoKey, value); err != nil {
		log.Printf("app: save %s: %v", lastVideoKey, err)
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// The list persists across views, keep its size current
		a.videoList.Update(msg)

	case views.SelectedVideo:
		return a, a.openVideo(msg.ID)

	case views.ShowStats:
		a.currentView = ViewStats
		a.stats = views.NewStatsView(a.db)
		return a, tea.Batch(a.stats.Init(), a.resize())

	case views.ShowDeadlines:
		a.currentView = ViewDeadlines
		a.deadlines = views.NewDeadlinesView(a.db, a.deadlineDays)
		return a, tea.Batch(a.deadlines.Init(), a.resize())

	case views.GoBack:
		back := ViewVideos
		if a.currentView == ViewVideo {
			a.saveLastVideo("")
			back = a.returnTo
		}
		a.currentView = back
		a.returnTo = ViewVideos

		if back == ViewDeadlines && a.deadlines != nil {
			return a, tea.Batch(a.deadlines.Init(), a.resize())
		}
		a.currentView = ViewVideos
		return a, tea.Batch(a.videoList.Init(), a.resize())
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewVideos:
		_, cmd = a.videoList.Update(msg)
	case ViewVideo:
		_, cmd = a.video.Update(msg)
	case ViewStats:
		_, cmd = a.stats.Update(msg)
	case ViewDeadlines:
		_, cmd = a.deadlines.Update(msg)
	}

	return a, cmd
}

func (a *App) View() string {
	switch a.currentView {
	case ViewVideo:
		if a.video != nil {
			return a.video.View()
		}
	case ViewStats:
		if a.stats != nil {
			return a.stats.View()
		}
	case ViewDeadlines:
		if a.deadlines != nil {
			return a.deadlines.View()
		}
	}
	return a.videoList.View()
}
