// Package menu implements the plain numbered-menu shell for ytl.
package menu

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"
	"github.com/tgienger/ytl/internal/db"
	"github.com/tgienger/ytl/internal/models"
)

// Prompter reads one line of user input. *liner.State satisfies it.
type Prompter interface {
	Prompt(prompt string) (string, error)
}

type historyAppender interface {
	AppendHistory(item string)
}

type menuStyles struct {
	heading lipgloss.Style
	ok      lipgloss.Style
	fail    lipgloss.Style
	muted   lipgloss.Style
}

// Menu is the numbered text menu
type Menu struct {
	db           *db.DB
	in           Prompter
	out          io.Writer
	deadlineDays int
	styles       menuStyles
}

// New creates a menu reading from in and writing to out
func New(database *db.DB, in Prompter, out io.Writer, deadlineDays int) *Menu {
	r := lipgloss.NewRenderer(out)
	return &Menu{
		db:           database,
		in:           in,
		out:          out,
		deadlineDays: deadlineDays,
		styles: menuStyles{
			heading: r.NewStyle().Bold(true),
			ok:      r.NewStyle().Foreground(lipgloss.Color("#9ece6a")),
			fail:    r.NewStyle().Foreground(lipgloss.Color("#f7768e")),
			muted:   r.NewStyle().Foreground(lipgloss.Color("#565f89")),
		},
	}
}

var menuItems = []string{
	"Add New Learning Video",
	"List Videos",
	"Update Video Status",
	"Add Task to Video",
	"View Video Details & Tasks",
	"View Upcoming Deadlines",
	"View Learning Statistics",
	"Search Videos",
	"Record Time Spent",
	"Delete Video",
	"Exit",
	"List Videos by Category",
	"Update Task Status",
}

// isQuit reports whether err means the user ended input
func isQuit(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted)
}

// Run shows the menu until the user exits or input ends.
// Store failures are reported and the loop continues.
func (m *Menu) Run() error {
	m.printf("Welcome to YouTube Learning Manager!\n")
	m.printf("Your personal learning companion for YouTube videos\n")

	for {
		m.printMenu()

		choice, err := m.ask(fmt.Sprintf("Enter your choice (1-%d): ", len(menuItems)))
		if err != nil {
			return m.finish(err)
		}

		var actionErr error
		switch strings.TrimSpace(choice) {
		case "1":
			actionErr = m.addVideo()
		case "2":
			actionErr = m.listVideos()
		case "3":
			actionErr = m.updateVideoStatus()
		case "4":
			actionErr = m.addTask()
		case "5":
			actionErr = m.showVideo()
		case "6":
			actionErr = m.upcomingDeadlines()
		case "7":
			m.showStats()
		case "8":
			actionErr = m.search()
		case "9":
			actionErr = m.recordTime()
		case "10":
			actionErr = m.deleteVideo()
		case "11", "q", "quit", "exit":
			m.printf("\nThank you for using YouTube Learning Manager!\n")
			m.printf("Keep learning and growing!\n")
			return nil
		case "12":
			actionErr = m.listByCategory()
		case "13":
			actionErr = m.updateTaskStatus()
		default:
			m.failf("Invalid choice! Please enter a number between 1-%d.", len(menuItems))
		}

		if actionErr != nil {
			return m.finish(actionErr)
		}
	}
}

func (m *Menu) finish(err error) error {
	if isQuit(err) {
		m.printf("\n\nGoodbye!\n")
		return nil
	}
	return fmt.Errorf("reading input: %w", err)
}

func (m *Menu) printMenu() {
	rule := strings.Repeat("=", 50)
	m.printf("\n%s\n%s\n%s\n", rule, m.styles.heading.Render("YouTube Learning Manager"), rule)
	for i, item := range menuItems {
		m.printf("%d. %s\n", i+1, item)
	}
	m.printf("%s\n", strings.Repeat("-", 50))
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}

func (m *Menu) okf(format string, args ...any) {
	m.printf("%s\n", m.styles.ok.Render("✓ "+fmt.Sprintf(format, args...)))
}

func (m *Menu) failf(format string, args ...any) {
	m.printf("%s\n", m.styles.fail.Render("✗ "+fmt.Sprintf(format, args...)))
}

// report prints a store error and logs it
func (m *Menu) report(action string, err error) {
	log.Printf("menu: %s: %v", action, err)
	m.failf("Error %s: %v", action, err)
}

func (m *Menu) ask(prompt string) (string, error) {
	answer, err := m.in.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if h, ok := m.in.(historyAppender); ok && strings.TrimSpace(answer) != "" {
		h.AppendHistory(answer)
	}
	return answer, nil
}

// askVideoID prompts for a video ID and checks it exists.
// ok is false when the ID was rejected and a message was printed.
func (m *Menu) askVideoID(prompt string) (id int64, ok bool, err error) {
	raw, err := m.ask(prompt)
	if err != nil {
		return 0, false, err
	}
	if !m.db.ValidateVideoID(raw) {
		m.failf("Invalid video ID!")
		return 0, false, nil
	}
	id, _ = strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	return id, true, nil
}

func (m *Menu) addVideo() error {
	m.printf("\n--- Add New Learning Video ---\n")

	answers := make([]string, 8)
	prompts := []string{
		"Enter video title: ",
		"Enter video URL: ",
		"Enter channel name (optional): ",
		"Enter duration (optional): ",
		"Enter category (optional): ",
		"Enter priority (1=High, 2=Medium, 3=Low) [2]: ",
		"Enter deadline (YYYY-MM-DD, optional): ",
		"Enter notes (optional): ",
	}
	for i, p := range prompts {
		a, err := m.ask(p)
		if err != nil {
			return err
		}
		answers[i] = a
	}

	priority, err := models.ParsePriority(answers[5])
	if err != nil {
		m.report("adding video", err)
		return nil
	}
	deadline, err := models.ParseDeadline(answers[6])
	if err != nil {
		m.report("adding video", err)
		return nil
	}

	id, err := m.db.AddVideo(models.NewVideo{
		Title:    answers[0],
		URL:      answers[1],
		Channel:  answers[2],
		Duration: answers[3],
		Category: answers[4],
		Priority: priority,
		Deadline: deadline,
		Notes:    answers[7],
	})
	if err != nil {
		m.report("adding video", err)
		return nil
	}
	m.okf("Video added successfully with ID: %d", id)

	for {
		more, err := m.ask("\nAdd a task for this video? (y/n): ")
		if err != nil {
			return err
		}
		if strings.ToLower(strings.TrimSpace(more)) != "y" {
			return nil
		}
		if err := m.promptTask(id); err != nil {
			return err
		}
	}
}

func (m *Menu) promptTask(videoID int64) error {
	desc, err := m.ask("Task description: ")
	if err != nil {
		return err
	}
	timestamp, err := m.ask("Timestamp (optional, format HH:MM:SS): ")
	if err != nil {
		return err
	}
	if _, err := m.db.AddTask(videoID, desc, timestamp); err != nil {
		m.report("adding task", err)
		return nil
	}
	m.okf("Task added!")
	return nil
}

func (m *Menu) listVideos() error {
	m.printf("\n--- List Videos ---\n")
	raw, err := m.ask("Filter by status (pending, in-progress, completed, or leave empty for all): ")
	if err != nil {
		return err
	}

	var filter *models.VideoStatus
	if strings.TrimSpace(raw) != "" {
		status, err := models.ParseVideoStatus(raw)
		if err != nil {
			m.report("listing videos", err)
			return nil
		}
		filter = &status
	}

	videos, err := m.db.ListVideos(filter)
	if err != nil {
		m.report("listing videos", err)
		return nil
	}
	m.printVideoList(videos, "No videos found.")
	return nil
}

func (m *Menu) listByCategory() error {
	m.printf("\n--- List Videos by Category ---\n")
	if categories, err := m.db.ListCategories(); err == nil && len(categories) > 0 {
		m.printf("%s\n", m.styles.muted.Render("Categories: "+strings.Join(categories, ", ")))
	}
	category, err := m.ask("Enter category: ")
	if err != nil {
		return err
	}
	videos, err := m.db.ListVideosByCategory(strings.TrimSpace(category))
	if err != nil {
		m.report("listing videos", err)
		return nil
	}
	m.printVideoList(videos, fmt.Sprintf("No videos in category '%s'.", strings.TrimSpace(category)))
	return nil
}

func (m *Menu) printVideoList(videos []models.Video, empty string) {
	if len(videos) == 0 {
		m.printf("%s\n", empty)
		return
	}
	m.printf("\nFound %d video(s):\n%s\n", len(videos), strings.Repeat("-", 80))
	for _, v := range videos {
		m.printf("ID: %d | %s | Status: %s | Priority: %s | Deadline: %s\n",
			v.ID, v.Title, v.Status, v.Priority.Label(), orDefault(v.DeadlineString(), "None"))
	}
}

func (m *Menu) updateVideoStatus() error {
	m.printf("\n--- Update Video Status ---\n")
	id, ok, err := m.askVideoID("Enter video ID to update: ")
	if err != nil || !ok {
		return err
	}
	raw, err := m.ask("Enter new status (pending, in-progress, completed): ")
	if err != nil {
		return err
	}
	status, err := models.ParseVideoStatus(raw)
	if err == nil {
		err = m.db.UpdateVideoStatus(id, status)
	}
	if err != nil {
		m.report("updating status", err)
		return nil
	}
	m.okf("Status updated successfully!")
	return nil
}

func (m *Menu) updateTaskStatus() error {
	m.printf("\n--- Update Task Status ---\n")
	rawID, err := m.ask("Enter task ID: ")
	if err != nil {
		return err
	}
	rawStatus, err := m.ask("Enter new status (pending, completed): ")
	if err != nil {
		return err
	}

	id, err := models.ParseID(rawID)
	if err != nil {
		m.report("updating task", err)
		return nil
	}
	status, err := models.ParseTaskStatus(rawStatus)
	if err == nil {
		err = m.db.UpdateTaskStatus(id, status)
	}
	if err != nil {
		m.report("updating task", err)
		return nil
	}
	m.okf("Task updated successfully!")
	return nil
}

func (m *Menu) addTask() error {
	m.printf("\n--- Add Task to Video ---\n")
	id, ok, err := m.askVideoID("Enter video ID to add task: ")
	if err != nil || !ok {
		return err
	}
	return m.promptTask(id)
}

func (m *Menu) showVideo() error {
	m.printf("\n--- View Video Details & Tasks ---\n")
	id, ok, err := m.askVideoID("Enter video ID to view details: ")
	if err != nil || !ok {
		return err
	}

	v, err := m.db.GetVideo(id)
	if err != nil {
		m.report("loading video", err)
		return nil
	}

	m.printf("\n%s\n", m.styles.heading.Render("Video Details:"))
	m.printf("Title: %s\n", v.Title)
	m.printf("URL: %s\n", v.URL)
	m.printf("Channel: %s\n", orDefault(v.Channel, "Not specified"))
	m.printf("Duration: %s\n", orDefault(v.Duration, "Not specified"))
	m.printf("Category: %s\n", orDefault(v.Category, "Not specified"))
	m.printf("Priority: %s\n", v.Priority.Label())
	m.printf("Status: %s\n", v.Status)
	m.printf("Time spent: %d minutes\n", v.TimeSpent)
	m.printf("Created: %s\n", v.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	m.printf("Deadline: %s\n", orDefault(v.DeadlineString(), "No deadline"))
	m.printf("Notes: %s\n", orDefault(v.Notes, "No notes"))

	tasks, err := m.db.GetVideoTasks(id)
	if err != nil {
		m.report("loading tasks", err)
		return nil
	}
	if len(tasks) == 0 {
		m.printf("\nNo tasks for this video.\n")
		return nil
	}
	m.printf("\n%s\n", m.styles.heading.Render(fmt.Sprintf("Tasks (%d):", len(tasks))))
	for _, t := range tasks {
		line := fmt.Sprintf("  • [%d] %s [Status: %s]", t.ID, t.Description, t.Status)
		if t.Timestamp != "" {
			line += " at " + t.Timestamp
		}
		m.printf("%s\n", line)
	}
	return nil
}

func (m *Menu) upcomingDeadlines() error {
	m.printf("\n--- Upcoming Deadlines ---\n")
	raw, err := m.ask(fmt.Sprintf("Show deadlines within how many days? [%d]: ", m.deadlineDays))
	if err != nil {
		return err
	}

	days := m.deadlineDays
	if strings.TrimSpace(raw) != "" {
		days, err = strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			m.report("listing deadlines", fmt.Errorf("%w: days must be a whole number", models.ErrValidation))
			return nil
		}
	}

	videos, err := m.db.UpcomingDeadlines(days)
	if err != nil {
		m.report("listing deadlines", err)
		return nil
	}
	if len(videos) == 0 {
		m.printf("No videos with deadlines in the next %d days.\n", days)
		return nil
	}
	m.printf("\nVideos with deadlines in the next %d days:\n%s\n", days, strings.Repeat("-", 60))
	for _, v := range videos {
		m.printf("ID: %d | %s | Deadline: %s\n", v.ID, v.Title, v.DeadlineString())
	}
	return nil
}

func (m *Menu) showStats() {
	m.printf("\n--- Learning Statistics ---\n")
	stats, err := m.db.GetStats()
	if err != nil {
		m.report("loading statistics", err)
		return
	}
	m.printf("%s\n", m.styles.heading.Render("Your Learning Progress:"))
	m.printf("Total videos: %d\n", stats.TotalVideos)
	m.printf("Completed videos: %d\n", stats.CompletedVideos)
	m.printf("Completion rate: %.1f%%\n", stats.CompletionRate)
	m.printf("Total time spent: %d minutes (%.1f hours)\n", stats.TotalTimeMinutes, stats.TotalTimeHours())
	m.printf("Pending tasks: %d\n", stats.PendingTasks)
}

func (m *Menu) search() error {
	m.printf("\n--- Search Videos ---\n")
	term, err := m.ask("Enter search term (title or channel): ")
	if err != nil {
		return err
	}
	videos, err := m.db.SearchVideos(term)
	if err != nil {
		m.report("searching", err)
		return nil
	}
	if len(videos) == 0 {
		m.printf("No videos found matching '%s'.\n", term)
		return nil
	}
	m.printf("\nFound %d video(s) matching '%s':\n%s\n", len(videos), term, strings.Repeat("-", 80))
	for _, v := range videos {
		m.printf("ID: %d | %s | Channel: %s | Status: %s | Priority: %s\n",
			v.ID, v.Title, orDefault(v.Channel, "Unknown"), v.Status, v.Priority.Label())
	}
	return nil
}

func (m *Menu) recordTime() error {
	m.printf("\n--- Record Time Spent ---\n")
	id, ok, err := m.askVideoID("Enter video ID: ")
	if err != nil || !ok {
		return err
	}
	raw, err := m.ask("Enter minutes spent: ")
	if err != nil {
		return err
	}
	minutes, err := models.ParseMinutes(raw)
	if err == nil {
		err = m.db.RecordTimeSpent(id, minutes)
	}
	if err != nil {
		m.report("recording time", err)
		return nil
	}
	m.okf("Time recorded successfully!")
	return nil
}

func (m *Menu) deleteVideo() error {
	m.printf("\n--- Delete Video ---\n")
	id, ok, err := m.askVideoID("Enter video ID to delete: ")
	if err != nil || !ok {
		return err
	}
	confirm, err := m.ask("Are you sure? This will delete the video and all its tasks! (y/n): ")
	if err != nil {
		return err
	}
	if strings.ToLower(strings.TrimSpace(confirm)) != "y" {
		m.printf("Deletion cancelled.\n")
		return nil
	}
	if err := m.db.DeleteVideo(id); err != nil {
		m.report("deleting video", err)
		return nil
	}
	m.okf("Video deleted successfully!")
	return nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
