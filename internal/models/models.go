package models

import "time"

// DateLayout is the storage and display format for deadlines
const DateLayout = "2006-01-02"

// Video represents a learning video the user wants to watch
type Video struct {
	ID        int64
	Title     string
	URL       string
	Channel   string
	Duration  string
	Category  string
	Priority  Priority
	Status    VideoStatus
	Notes     string
	CreatedAt time.Time
	Deadline  *time.Time // nil when no deadline is set
	TimeSpent int        // minutes
}

// DeadlineString returns the deadline as YYYY-MM-DD, or "" when unset
func (v Video) DeadlineString() string {
	if v.Deadline == nil {
		return ""
	}
	return v.Deadline.Format(DateLayout)
}

// NewVideo holds the fields accepted when adding a video
type NewVideo struct {
	Title    string
	URL      string
	Channel  string
	Duration string
	Category string
	Priority Priority // zero means PriorityMedium
	Deadline *time.Time
	Notes    string
}

// Task represents a sub-item of work attached to a video
type Task struct {
	ID          int64
	VideoID     int64
	Description string
	Timestamp   string // free-text position in the video, e.g. "12:30"
	Status      TaskStatus
}

// Stats is a snapshot of learning progress
type Stats struct {
	TotalVideos      int
	CompletedVideos  int
	CompletionRate   float64 // percent
	TotalTimeMinutes int
	PendingTasks     int
}

// TotalTimeHours returns the total time spent in hours
func (s Stats) TotalTimeHours() float64 {
	return float64(s.TotalTimeMinutes) / 60
}
