package views

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/ytl/internal/db"
	"github.com/tgienger/ytl/internal/models"
	"github.com/tgienger/ytl/internal/ui/keys"
	"github.com/tgienger/ytl/internal/ui/styles"
)

type videoItem struct {
	video models.Video
}

func (i videoItem) FilterValue() string { return i.video.Title }

type videoDelegate struct {
	styles *styles.Styles
	width  int
}

func (d videoDelegate) Height() int                               { return 2 }
func (d videoDelegate) Spacing() int                              { return 1 }
func (d videoDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d videoDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(videoItem)
	if !ok {
		return
	}
	v := it.video

	selected := index == m.Index()
	width := max(d.width-4, 20)

	var lineStyle lipgloss.Style
	if selected {
		lineStyle = d.styles.ListSelected.Width(width)
	} else {
		lineStyle = d.styles.ListItem.Width(width)
	}

	title := fmt.Sprintf("#%d %s", v.ID, v.Title)

	meta := []string{
		d.styles.PriorityBadge(v.Priority),
		d.styles.StatusBadge(v.Status),
	}
	if dl := v.DeadlineString(); dl != "" {
		meta = append(meta, "due "+dl)
	}
	if v.Channel != "" {
		meta = append(meta, v.Channel)
	}
	if v.Category != "" {
		meta = append(meta, "["+v.Category+"]")
	}

	fmt.Fprintf(w, "%s\n%s", lineStyle.Render(title), lineStyle.Render(strings.Join(meta, " • ")))
}

// form field indexes for the new video form
const (
	fieldTitle = iota
	fieldURL
	fieldChannel
	fieldDuration
	fieldCategory
	fieldPriority
	fieldDeadline
	fieldNotes
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Title:", "URL:", "Channel:", "Duration:", "Category:",
	"Priority (1=High, 2=Medium, 3=Low):", "Deadline (YYYY-MM-DD):", "Notes:",
}

// VideoListView lists videos with status, category and search filters
type VideoListView struct {
	db       *db.DB
	list     list.Model
	delegate *videoDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int
	loaded   bool

	// Filters
	statusFilter *models.VideoStatus
	category     string
	categories   []string
	query        string
	searching    bool
	searchInput  textinput.Model

	// New video form
	creating bool
	fields   [fieldCount]textinput.Model
	focusIdx int // fieldCount = create button
	formErr  string

	// Delete confirmation
	confirmingDelete bool
	deleteTargetID   int64
	deleteTargetName string

	// Help popup (shown with ? at narrow widths)
	showHelpPopup bool

	notice notice
}

// NewVideoListView creates the video list
func NewVideoListView(database *db.DB) *VideoListView {
	s := styles.NewStyles()

	search := textinput.New()
	search.Placeholder = "Search title or channel..."
	search.CharLimit = 100

	placeholders := [fieldCount]string{
		"Video title", "https://...", "Channel (optional)", "Duration (optional)",
		"Category (optional)", "2", "Deadline (optional)", "Notes (optional)",
	}
	limits := [fieldCount]int{200, 500, 100, 20, 50, 6, 10, 1000}

	var fields [fieldCount]textinput.Model
	for i := range fields {
		fields[i] = textinput.New()
		fields[i].Placeholder = placeholders[i]
		fields[i].CharLimit = limits[i]
	}

	delegate := &videoDelegate{styles: s, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Videos"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.Styles.Title = s.Title
	// q and esc are handled by the view
	l.KeyMap.Quit.SetEnabled(false)

	return &VideoListView{
		db:          database,
		list:        l,
		delegate:    delegate,
		styles:      s,
		keys:        keys.DefaultKeyMap(),
		searchInput: search,
		fields:      fields,
	}
}

type videosLoadedMsg struct {
	videos     []models.Video
	categories []string
}

func (v *VideoListView) Init() tea.Cmd {
	return v.loadVideos()
}

// videoQuery is a snapshot of the list filters taken when a load is issued
type videoQuery struct {
	search   string
	category string
	status   *models.VideoStatus
}

// loadVideos builds a Cmd from the current filters. The Cmd runs off the
// update loop, so it only sees the snapshot.
func (v *VideoListView) loadVideos() tea.Cmd {
	q := videoQuery{search: v.query, category: v.category}
	if v.statusFilter != nil {
		status := *v.statusFilter
		q.status = &status
	}
	database := v.db
	return func() tea.Msg {
		return fetchVideos(database, q)
	}
}

func fetchVideos(database *db.DB, q videoQuery) tea.Msg {
	var videos []models.Video
	var err error

	switch {
	case q.search != "":
		videos, err = database.SearchVideos(q.search)
	case q.category != "":
		videos, err = database.ListVideosByCategory(q.category)
	default:
		videos, err = database.ListVideos(q.status)
	}
	if err != nil {
		return errMsg{err}
	}

	// Search and category queries don't filter by status themselves.
	if q.status != nil && (q.search != "" || q.category != "") {
		filtered := videos[:0]
		for _, video := range videos {
			if video.Status == *q.status {
				filtered = append(filtered, video)
			}
		}
		videos = filtered
	}

	categories, err := database.ListCategories()
	if err != nil {
		return errMsg{err}
	}
	return videosLoadedMsg{videos: videos, categories: categories}
}

func (v *VideoListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, max(msg.Height-8, 4))
		return v, nil

	case videosLoadedMsg:
		items := make([]list.Item, len(msg.videos))
		for i, video := range msg.videos {
			items[i] = videoItem{video: video}
		}
		v.categories = msg.categories
		v.list.Title = v.title()
		v.loaded = true
		return v, v.list.SetItems(items)

	case errMsg:
		log.Printf("videos: %v", msg.err)
		v.notice = errNotice(msg.err)
		v.loaded = true
		return v, nil

	case tea.KeyMsg:
		if key.Matches(msg, v.keys.ForceQuit) {
			return v, tea.Quit
		}

		// Handle help popup first - any key closes it
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if v.creating {
			return v.updateCreating(msg)
		}

		if v.searching {
			return v.updateSearching(msg)
		}

		v.notice = notice{}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back):
			// Esc clears filters; only q quits
			if v.query != "" || v.category != "" || v.statusFilter != nil {
				v.query = ""
				v.category = ""
				v.statusFilter = nil
				v.searchInput.Reset()
				return v, v.loadVideos()
			}
			return v, nil
		case key.Matches(msg, v.keys.New):
			return v, v.startCreate()
		case key.Matches(msg, v.keys.Help):
			v.showHelpPopup = true
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			if item, ok := v.list.SelectedItem().(videoItem); ok {
				id := item.video.ID
				return v, func() tea.Msg { return SelectedVideo{ID: id} }
			}
			return v, nil
		case key.Matches(msg, v.keys.Delete):
			if item, ok := v.list.SelectedItem().(videoItem); ok {
				v.confirmingDelete = true
				v.deleteTargetID = item.video.ID
				v.deleteTargetName = item.video.Title
			}
			return v, nil
		case key.Matches(msg, v.keys.Status):
			if item, ok := v.list.SelectedItem().(videoItem); ok {
				next := item.video.Status.Next()
				if err := v.db.UpdateVideoStatus(item.video.ID, next); err != nil {
					v.notice = errNotice(err)
					return v, nil
				}
				v.notice = infoNotice("%q is now %s", item.video.Title, next.Label())
				return v, v.loadVideos()
			}
			return v, nil
		case key.Matches(msg, v.keys.Search):
			v.searching = true
			v.searchInput.SetValue(v.query)
			return v, v.searchInput.Focus()
		case key.Matches(msg, v.keys.Filter):
			v.statusFilter = nextStatusFilter(v.statusFilter)
			v.list.Select(0)
			return v, v.loadVideos()
		case key.Matches(msg, v.keys.Category):
			v.category = nextCategory(v.categories, v.category)
			v.list.Select(0)
			return v, v.loadVideos()
		case key.Matches(msg, v.keys.Deadlines):
			return v, func() tea.Msg { return ShowDeadlines{} }
		case key.Matches(msg, v.keys.Stats):
			return v, func() tea.Msg { return ShowStats{} }
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

// nextStatusFilter cycles all -> pending -> in-progress -> completed -> all
func nextStatusFilter(cur *models.VideoStatus) *models.VideoStatus {
	if cur == nil {
		s := models.VideoStatuses[0]
		return &s
	}
	for i, s := range models.VideoStatuses {
		if s == *cur && i+1 < len(models.VideoStatuses) {
			next := models.VideoStatuses[i+1]
			return &next
		}
	}
	return nil
}

// nextCategory cycles "" -> each category -> ""
func nextCategory(categories []string, cur string) string {
	if cur == "" {
		if len(categories) > 0 {
			return categories[0]
		}
		return ""
	}
	for i, c := range categories {
		if c == cur && i+1 < len(categories) {
			return categories[i+1]
		}
	}
	return ""
}

func (v *VideoListView) title() string {
	parts := []string{"Videos"}
	if v.statusFilter != nil {
		parts = append(parts, v.statusFilter.Label())
	}
	if v.category != "" {
		parts = append(parts, "["+v.category+"]")
	}
	if v.query != "" {
		parts = append(parts, fmt.Sprintf("%q", v.query))
	}
	return strings.Join(parts, " · ")
}

func (v *VideoListView) updateSearching(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.searching = false
		v.searchInput.Blur()
		return v, nil
	case key.Matches(msg, v.keys.Enter):
		v.searching = false
		v.searchInput.Blur()
		v.query = strings.TrimSpace(v.searchInput.Value())
		return v, v.loadVideos()
	}

	var cmd tea.Cmd
	v.searchInput, cmd = v.searchInput.Update(msg)
	v.query = strings.TrimSpace(v.searchInput.Value())
	return v, tea.Batch(cmd, v.loadVideos())
}

func (v *VideoListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		if err := v.db.DeleteVideo(v.deleteTargetID); err != nil {
			v.notice = errNotice(err)
			return v, nil
		}
		v.notice = infoNotice("Deleted %q", v.deleteTargetName)
		return v, v.loadVideos()
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *VideoListView) startCreate() tea.Cmd {
	v.creating = true
	v.focusIdx = 0
	v.formErr = ""
	for i := range v.fields {
		v.fields[i].Reset()
	}
	v.updateFocus()
	return textinput.Blink
}

func (v *VideoListView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		return v, nil

	case key.Matches(msg, v.keys.Save):
		return v, v.saveVideo()

	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + fieldCount) % (fieldCount + 1)
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % (fieldCount + 1)
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx < fieldCount {
			v.focusIdx++
			v.updateFocus()
			return v, nil
		}
		return v, v.saveVideo()
	}

	if v.focusIdx >= fieldCount {
		return v, nil
	}
	var cmd tea.Cmd
	v.fields[v.focusIdx], cmd = v.fields[v.focusIdx].Update(msg)
	return v, cmd
}

func (v *VideoListView) updateFocus() {
	for i := range v.fields {
		if i == v.focusIdx {
			v.fields[i].Focus()
		} else {
			v.fields[i].Blur()
		}
	}
}

// saveVideo validates the form and opens the new video on success
func (v *VideoListView) saveVideo() tea.Cmd {
	priority, err := models.ParsePriority(v.fields[fieldPriority].Value())
	if err != nil {
		v.formErr = err.Error()
		return nil
	}
	deadline, err := models.ParseDeadline(v.fields[fieldDeadline].Value())
	if err != nil {
		v.formErr = err.Error()
		return nil
	}

	id, err := v.db.AddVideo(models.NewVideo{
		Title:    v.fields[fieldTitle].Value(),
		URL:      v.fields[fieldURL].Value(),
		Channel:  v.fields[fieldChannel].Value(),
		Duration: v.fields[fieldDuration].Value(),
		Category: v.fields[fieldCategory].Value(),
		Priority: priority,
		Deadline: deadline,
		Notes:    v.fields[fieldNotes].Value(),
	})
	if err != nil {
		v.formErr = err.Error()
		return nil
	}

	v.creating = false
	return func() tea.Msg { return SelectedVideo{ID: id} }
}

// View renders the view
func (v *VideoListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}

	if v.creating {
		return v.renderCreateForm()
	}

	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading...")
	}

	var b strings.Builder
	if v.searching {
		b.WriteString(v.styles.InputFocused.Width(styles.Clamp(styles.ContentWidth(v.width)-6, 20, 60)).Render(v.searchInput.View()))
		b.WriteString("\n")
	}

	if len(v.list.Items()) == 0 {
		b.WriteString(v.renderEmpty())
	} else {
		b.WriteString(v.list.View())
	}
	b.WriteString("\n")
	if n := v.notice.render(v.styles); n != "" {
		b.WriteString(n + "\n")
	}
	b.WriteString(v.renderHelp())
	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *VideoListView) renderEmpty() string {
	s := v.styles

	if v.query != "" || v.category != "" || v.statusFilter != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			s.Title.Render(v.title()),
			"",
			s.TitleMuted.Render("No videos match. Press esc to clear filters."),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("No Videos"),
		"",
		s.TitleMuted.Render("Press 'n' to add your first learning video"),
		"",
		s.ButtonPrimary.Render(" New Video "),
	)
}

func (v *VideoListView) renderCreateForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	// Dynamic input width based on content width
	inputWidth := styles.Clamp(contentWidth-6, 20, 60)

	rows := []string{s.Title.Render("New Video"), ""}
	for i := range v.fields {
		style := s.Input
		if i == v.focusIdx {
			style = s.InputFocused
		}
		rows = append(rows, fieldLabels[i], style.Width(inputWidth).Render(v.fields[i].View()))
	}

	btnStyle := s.Button
	if v.focusIdx == fieldCount {
		btnStyle = s.ButtonFocused
	}
	rows = append(rows, "", btnStyle.Render(" Create "))
	if v.formErr != "" {
		rows = append(rows, s.StatusError.Render(v.formErr))
	}
	rows = append(rows, "", s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"))

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *VideoListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	// At narrow widths, show hint to press ? for help
	if contentWidth > 0 && contentWidth < 60 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	return helpLine(v.styles,
		"↵", "open", "n", "new", "s", "status", "/", "search",
		"f", "filter", "u", "due", "i", "stats", "q", "quit",
	)
}

func (v *VideoListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	bindings := []key.Binding{
		v.keys.Enter, v.keys.New, v.keys.Delete, v.keys.Status, v.keys.Search,
		v.keys.Filter, v.keys.Category, v.keys.Deadlines, v.keys.Stats, v.keys.Back, v.keys.Quit,
	}
	helpItems := make([]string, 0, len(bindings)+2)
	for _, b := range bindings {
		h := b.Help()
		helpItems = append(helpItems, fmt.Sprintf("%-8s %s", s.HelpKey.Render(h.Key), h.Desc))
	}
	helpItems = append(helpItems, "", s.TitleMuted.Render("Press any key to close"))

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Panel.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *VideoListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Video?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%q and all its tasks will be removed.", v.deleteTargetName)),
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
