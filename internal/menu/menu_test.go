package menu_test

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/ytl/internal/db"
	"github.com/tgienger/ytl/internal/menu"
	"github.com/tgienger/ytl/internal/models"
)

// script answers prompts from a fixed list, then reports EOF
type script struct {
	answers []string
	prompts []string
	history []string
}

func (s *script) Prompt(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.answers) == 0 {
		return "", io.EOF
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]
	return answer, nil
}

func (s *script) AppendHistory(item string) {
	s.history = append(s.history, item)
}

func openTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "ytl.db"))
	require.NoError(t, err)

	t.Cleanup(func() { _ = database.Close() })

	return database
}

func run(t *testing.T, database *db.DB, answers ...string) (string, *script) {
	t.Helper()

	in := &script{answers: answers}
	var out bytes.Buffer

	err := menu.New(database, in, &out, 7).Run()
	require.NoError(t, err)

	return out.String(), in
}

func TestMenu_AddVideoWithNotesAndTask(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)

	out, in := run(t, database,
		"1",
		"Intro to X", "http://x.test/1", "XChannel", "10:00", "go", "1", "2024-01-01", "rewatch part 2",
		"y", "write summary", "05:00",
		"n",
		"11",
	)

	assert.Contains(t, out, "Video added successfully with ID: 1")
	assert.Contains(t, out, "Task added!")
	assert.Contains(t, out, "Thank you for using YouTube Learning Manager!")
	assert.Contains(t, in.history, "Intro to X")

	v, err := database.GetVideo(1)
	require.NoError(t, err)
	assert.Equal(t, "Intro to X", v.Title)
	assert.Equal(t, models.PriorityHigh, v.Priority)
	assert.Equal(t, "2024-01-01", v.DeadlineString())
	assert.Equal(t, "rewatch part 2", v.Notes)

	tasks, err := database.GetVideoTasks(1)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "write summary", tasks[0].Description)
	assert.Equal(t, "05:00", tasks[0].Timestamp)
}

func TestMenu_AddVideoReportsValidationErrors(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)

	out, _ := run(t, database,
		"1", "", "http://x.test", "", "", "", "", "", "",
		"1", "t", "u", "", "", "", "9", "", "",
		"1", "t", "u", "", "", "", "", "next week", "",
	)

	assert.Equal(t, 3, strings.Count(out, "Error adding video"))
	assert.Contains(t, out, "title is required")
	assert.Contains(t, out, "unknown priority")
	assert.Contains(t, out, "deadline must be YYYY-MM-DD")
	assert.Contains(t, out, "Goodbye!", "EOF ends the session cleanly")

	count, err := database.VideoCount()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestMenu_ListAndSearch(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)

	_, err := database.AddVideo(models.NewVideo{Title: "Basics", URL: "u", Priority: models.PriorityLow})
	require.NoError(t, err)
	_, err = database.AddVideo(models.NewVideo{Title: "Intro to X", URL: "u", Channel: "XChan", Priority: models.PriorityHigh})
	require.NoError(t, err)

	out, _ := run(t, database, "2", "", "8", "xchan", "8", "zzz", "2", "done", "11")

	assert.Contains(t, out, "Found 2 video(s):")
	assert.Less(t, strings.Index(out, "| Intro to X |"), strings.Index(out, "| Basics |"))
	assert.Contains(t, out, "Found 1 video(s) matching 'xchan':")
	assert.Contains(t, out, "Channel: XChan")
	assert.Contains(t, out, "No videos found matching 'zzz'.")
	assert.Contains(t, out, "Error listing videos")
}

func TestMenu_StatusTimeAndStats(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)

	id, err := database.AddVideo(models.NewVideo{Title: "Video", URL: "u"})
	require.NoError(t, err)
	_, err = database.AddTask(id, "quiz", "")
	require.NoError(t, err)

	out, _ := run(t, database,
		"3", "1", "completed",
		"9", "1", "30",
		"9", "1", "-5",
		"9", "1", "9223372036854775807",
		"9", "abc",
		"13", "1", "completed",
		"7",
		"11",
	)

	assert.Contains(t, out, "Status updated successfully!")
	assert.Contains(t, out, "Time recorded successfully!")
	assert.Contains(t, out, "minutes cannot be negative")
	assert.Contains(t, out, "minutes cannot exceed 2147483647")
	assert.Contains(t, out, "Invalid video ID!")
	assert.Contains(t, out, "Task updated successfully!")
	assert.Contains(t, out, "Completion rate: 100.0%")
	assert.Contains(t, out, "Total time spent: 30 minutes (0.5 hours)")
	assert.Contains(t, out, "Pending tasks: 0")
}

func TestMenu_DetailsDeadlinesAndDelete(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)

	soon, err := models.ParseDeadline("2000-01-01")
	require.NoError(t, err)

	id, err := database.AddVideo(models.NewVideo{Title: "Overdue talk", URL: "http://x.test/o", Deadline: soon, Category: "talks"})
	require.NoError(t, err)
	_, err = database.AddTask(id, "notes", "12:00")
	require.NoError(t, err)

	out, _ := run(t, database,
		"5", "1",
		"6", "",
		"12", "talks",
		"10", "1", "n",
		"10", "1", "y",
		"5", "1",
		"11",
	)

	assert.Contains(t, out, "Title: Overdue talk")
	assert.Contains(t, out, "Channel: Not specified")
	assert.Contains(t, out, "• [1] notes [Status: pending] at 12:00")
	assert.Contains(t, out, "Videos with deadlines in the next 7 days:")
	assert.Contains(t, out, "ID: 1 | Overdue talk | Deadline: 2000-01-01")
	assert.Contains(t, out, "Categories: talks")
	assert.Contains(t, out, "Deletion cancelled.")
	assert.Contains(t, out, "Video deleted successfully!")
	assert.Contains(t, out, "Invalid video ID!")

	_, err = database.GetVideo(id)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestMenu_InvalidChoice(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)

	out, in := run(t, database, "42")

	assert.Contains(t, out, "Invalid choice!")
	assert.Contains(t, out, "Goodbye!")
	assert.Len(t, in.prompts, 2)
}
