package db_test

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/ytl/internal/db"
	"github.com/tgienger/ytl/internal/models"
)

func TestAddVideo_AppliesDefaults(t *testing.T) {
	t.Parallel()

	database := openTestDB(t, db.WithClock(func() time.Time { return fixedNow }))

	id, err := database.AddVideo(models.NewVideo{Title: "  Intro to X ", URL: "http://x.test/1"})
	require.NoError(t, err)

	v, err := database.GetVideo(id)
	require.NoError(t, err)

	assert.Equal(t, id, v.ID)
	assert.Equal(t, "Intro to X", v.Title)
	assert.Equal(t, "http://x.test/1", v.URL)
	assert.Equal(t, models.PriorityMedium, v.Priority)
	assert.Equal(t, models.VideoPending, v.Status)
	assert.Equal(t, 0, v.TimeSpent)
	assert.Empty(t, v.Channel)
	assert.Empty(t, v.Notes)
	assert.Nil(t, v.Deadline)
	assert.True(t, v.CreatedAt.Equal(fixedNow), "CreatedAt = %v, want %v", v.CreatedAt, fixedNow)
}

func TestAddVideo_StoresOptionalFields(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)

	id := mustAddVideo(t, database, models.NewVideo{
		Title:    "Go Concurrency",
		URL:      "http://x.test/go",
		Channel:  "GopherCon",
		Duration: "45:12",
		Category: "go",
		Priority: models.PriorityHigh,
		Deadline: date(t, "2026-04-02"),
		Notes:    "watch twice",
	})

	v, err := database.GetVideo(id)
	require.NoError(t, err)

	assert.Equal(t, "GopherCon", v.Channel)
	assert.Equal(t, "45:12", v.Duration)
	assert.Equal(t, "go", v.Category)
	assert.Equal(t, models.PriorityHigh, v.Priority)
	assert.Equal(t, "2026-04-02", v.DeadlineString())
	assert.Equal(t, "watch twice", v.Notes)
}

func TestAddVideo_RejectsInvalidInput(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)

	testCases := []struct {
		name  string
		input models.NewVideo
	}{
		{name: "EmptyTitle", input: models.NewVideo{Title: "", URL: "http://x.test"}},
		{name: "BlankTitle", input: models.NewVideo{Title: "   ", URL: "http://x.test"}},
		{name: "EmptyURL", input: models.NewVideo{Title: "t", URL: ""}},
		{name: "UnknownPriority", input: models.NewVideo{Title: "t", URL: "u", Priority: 7}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := database.AddVideo(tc.input)
			require.ErrorIs(t, err, models.ErrValidation)
		})
	}

	count, err := database.VideoCount()
	require.NoError(t, err)
	assert.Equal(t, 0, count, "rejected videos must not be written")
}

func TestGetVideo_NotFound(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)

	_, err := database.GetVideo(404)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestRecordTimeSpent_Accumulates(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)
	id := mustAddVideo(t, database, models.NewVideo{Title: "t", URL: "u"})

	require.NoError(t, database.RecordTimeSpent(id, 25))
	require.NoError(t, database.RecordTimeSpent(id, 0))
	require.NoError(t, database.RecordTimeSpent(id, 17))

	v, err := database.GetVideo(id)
	require.NoError(t, err)
	assert.Equal(t, 42, v.TimeSpent)
}

func TestRecordTimeSpent_Errors(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)
	id := mustAddVideo(t, database, models.NewVideo{Title: "t", URL: "u"})

	require.ErrorIs(t, database.RecordTimeSpent(id, -1), models.ErrValidation)
	require.ErrorIs(t, database.RecordTimeSpent(id+100, 5), models.ErrNotFound)

	v, err := database.GetVideo(id)
	require.NoError(t, err)
	assert.Equal(t, 0, v.TimeSpent)
}

func TestRecordTimeSpent_RejectsTotalPastMax(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)
	id := mustAddVideo(t, database, models.NewVideo{Title: "t", URL: "u"})
	other := mustAddVideo(t, database, models.NewVideo{Title: "o", URL: "u"})

	require.ErrorIs(t, database.RecordTimeSpent(id, math.MaxInt), models.ErrValidation)

	require.NoError(t, database.RecordTimeSpent(id, models.MaxMinutes-10))
	require.NoError(t, database.RecordTimeSpent(other, models.MaxMinutes))

	err := database.RecordTimeSpent(id, 11)
	require.ErrorIs(t, err, models.ErrValidation)
	assert.Contains(t, err.Error(), "cannot exceed")
	require.ErrorIs(t, database.RecordTimeSpent(other, 1), models.ErrValidation)

	// The rejected adds leave the totals readable and unchanged.
	v, err := database.GetVideo(id)
	require.NoError(t, err)
	assert.Equal(t, models.MaxMinutes-10, v.TimeSpent)

	require.NoError(t, database.RecordTimeSpent(id, 10))

	videos, err := database.ListVideos(nil)
	require.NoError(t, err)
	require.Len(t, videos, 2)
	for _, v := range videos {
		assert.Equal(t, models.MaxMinutes, v.TimeSpent)
	}

	stats, err := database.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 2*models.MaxMinutes, stats.TotalTimeMinutes)

	// Unknown IDs still report not found rather than the cap.
	require.ErrorIs(t, database.RecordTimeSpent(other+100, 1), models.ErrNotFound)
}

func TestUpdateVideoStatus(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)
	id := mustAddVideo(t, database, models.NewVideo{Title: "t", URL: "u"})

	require.NoError(t, database.UpdateVideoStatus(id, models.VideoInProgress))

	v, err := database.GetVideo(id)
	require.NoError(t, err)
	assert.Equal(t, models.VideoInProgress, v.Status)

	// Setting the same value again still finds the row.
	require.NoError(t, database.UpdateVideoStatus(id, models.VideoInProgress))

	require.ErrorIs(t, database.UpdateVideoStatus(id, "done"), models.ErrValidation)
	require.ErrorIs(t, database.UpdateVideoStatus(id+1, models.VideoCompleted), models.ErrNotFound)
}

func TestSetVideoNotes(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)
	id := mustAddVideo(t, database, models.NewVideo{Title: "t", URL: "u"})

	require.NoError(t, database.SetVideoNotes(id, "pause at 10:00"))

	v, err := database.GetVideo(id)
	require.NoError(t, err)
	assert.Equal(t, "pause at 10:00", v.Notes)

	require.ErrorIs(t, database.SetVideoNotes(id+1, "x"), models.ErrNotFound)
}

func TestDeleteVideo_CascadesToTasks(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)
	id := mustAddVideo(t, database, models.NewVideo{Title: "doomed", URL: "u"})
	other := mustAddVideo(t, database, models.NewVideo{Title: "kept", URL: "u"})

	_, err := database.AddTask(id, "take notes", "01:00")
	require.NoError(t, err)
	_, err = database.AddTask(id, "practice", "")
	require.NoError(t, err)
	keptTask, err := database.AddTask(other, "unrelated", "")
	require.NoError(t, err)

	require.NoError(t, database.DeleteVideo(id))

	tasks, err := database.GetVideoTasks(id)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, err = database.GetVideo(id)
	require.ErrorIs(t, err, models.ErrNotFound)

	_, err = database.GetTask(keptTask)
	require.NoError(t, err, "tasks of other videos survive")

	stats, err := database.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.PendingTasks)
}

func TestDeleteVideo_MissingIsNoOp(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)

	require.NoError(t, database.DeleteVideo(12345))
}

func TestListVideos_PriorityScenario(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)

	mustAddVideo(t, database, models.NewVideo{Title: "Basics", URL: "http://x.test/2", Priority: models.PriorityLow})
	mustAddVideo(t, database, models.NewVideo{
		Title:    "Intro to X",
		URL:      "http://x.test/1",
		Priority: models.PriorityHigh,
		Deadline: date(t, "2024-01-01"),
	})

	videos, err := database.ListVideos(nil)
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"Intro to X", "Basics"}, titles(videos)); diff != "" {
		t.Fatalf("ListVideos mismatch (-want +got):\n%s", diff)
	}
}

func TestListVideos_FiltersByStatus(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)

	a := mustAddVideo(t, database, models.NewVideo{Title: "a", URL: "u"})
	mustAddVideo(t, database, models.NewVideo{Title: "b", URL: "u"})
	require.NoError(t, database.UpdateVideoStatus(a, models.VideoCompleted))

	completed := models.VideoCompleted
	videos, err := database.ListVideos(&completed)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, titles(videos))

	pending := models.VideoPending
	videos, err = database.ListVideos(&pending)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, titles(videos))

	bogus := models.VideoStatus("bogus")
	_, err = database.ListVideos(&bogus)
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestListVideosByCategory(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)

	mustAddVideo(t, database, models.NewVideo{Title: "go 2", URL: "u", Category: "go", Priority: models.PriorityLow})
	mustAddVideo(t, database, models.NewVideo{Title: "rust", URL: "u", Category: "rust"})
	mustAddVideo(t, database, models.NewVideo{Title: "go 1", URL: "u", Category: "go", Priority: models.PriorityHigh})
	mustAddVideo(t, database, models.NewVideo{Title: "none", URL: "u"})

	videos, err := database.ListVideosByCategory("go")
	require.NoError(t, err)
	assert.Equal(t, []string{"go 1", "go 2"}, titles(videos))

	videos, err = database.ListVideosByCategory("Go")
	require.NoError(t, err)
	assert.Empty(t, videos, "category match is exact")

	categories, err := database.ListCategories()
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "rust"}, categories)
}

func TestSearchVideos_MatchesTitleOrChannel(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)

	mustAddVideo(t, database, models.NewVideo{Title: "Learning Go", URL: "u", Priority: models.PriorityLow})
	mustAddVideo(t, database, models.NewVideo{Title: "Databases", URL: "u", Channel: "GoTime"})
	mustAddVideo(t, database, models.NewVideo{Title: "Cooking", URL: "u", Channel: "Chef"})

	videos, err := database.SearchVideos("go")
	require.NoError(t, err)
	assert.Equal(t, []string{"Databases", "Learning Go"}, titles(videos))

	videos, err = database.SearchVideos("nothing here")
	require.NoError(t, err)
	assert.Empty(t, videos)
}

func TestSearchVideos_WildcardsMatchLiterally(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)

	mustAddVideo(t, database, models.NewVideo{Title: "100% coverage", URL: "u"})
	mustAddVideo(t, database, models.NewVideo{Title: "1000 tips", URL: "u"})
	mustAddVideo(t, database, models.NewVideo{Title: "snake_case", URL: "u"})
	mustAddVideo(t, database, models.NewVideo{Title: "snakeXcase", URL: "u"})

	videos, err := database.SearchVideos("100%")
	require.NoError(t, err)
	assert.Equal(t, []string{"100% coverage"}, titles(videos))

	videos, err = database.SearchVideos("e_c")
	require.NoError(t, err)
	assert.Equal(t, []string{"snake_case"}, titles(videos))
}

func TestUpcomingDeadlines(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)

	soon := time.Now().AddDate(0, 0, 3)
	id := mustAddVideo(t, database, models.NewVideo{Title: "due soon", URL: "u", Deadline: &soon})
	mustAddVideo(t, database, models.NewVideo{Title: "undated", URL: "u"})

	videos, err := database.UpcomingDeadlines(7)
	require.NoError(t, err)
	assert.Equal(t, []string{"due soon"}, titles(videos))

	videos, err = database.UpcomingDeadlines(1)
	require.NoError(t, err)
	assert.Empty(t, videos)

	require.NoError(t, database.UpdateVideoStatus(id, models.VideoCompleted))

	videos, err = database.UpcomingDeadlines(7)
	require.NoError(t, err)
	assert.Empty(t, videos)

	videos, err = database.UpcomingDeadlines(1)
	require.NoError(t, err)
	assert.Empty(t, videos)
}

func TestUpcomingDeadlines_OrderedAndIncludesOverdue(t *testing.T) {
	t.Parallel()

	database := openTestDB(t, db.WithClock(func() time.Time { return fixedNow }))

	mustAddVideo(t, database, models.NewVideo{Title: "in five", URL: "u", Deadline: date(t, "2026-03-15"), Priority: models.PriorityHigh})
	mustAddVideo(t, database, models.NewVideo{Title: "overdue", URL: "u", Deadline: date(t, "2026-03-01"), Priority: models.PriorityLow})
	mustAddVideo(t, database, models.NewVideo{Title: "today", URL: "u", Deadline: date(t, "2026-03-10")})
	mustAddVideo(t, database, models.NewVideo{Title: "far", URL: "u", Deadline: date(t, "2026-06-01")})

	videos, err := database.UpcomingDeadlines(5)
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"overdue", "today", "in five"}, titles(videos)); diff != "" {
		t.Fatalf("UpcomingDeadlines mismatch (-want +got):\n%s", diff)
	}

	videos, err = database.UpcomingDeadlines(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"overdue", "today"}, titles(videos))

	_, err = database.UpcomingDeadlines(-1)
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestValidateVideoID(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)
	id := mustAddVideo(t, database, models.NewVideo{Title: "t", URL: "u"})

	assert.False(t, database.ValidateVideoID("abc"))
	assert.False(t, database.ValidateVideoID(""))
	assert.False(t, database.ValidateVideoID("999999"))
	assert.True(t, database.ValidateVideoID(formatID(id)))
	assert.True(t, database.ValidateVideoID(" "+formatID(id)+" "))
}
