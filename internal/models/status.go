package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Priority is the ordinal urgency of a video. Lower values sort first.
type Priority int

const (
	PriorityHigh   Priority = 1
	PriorityMedium Priority = 2
	PriorityLow    Priority = 3
)

// Priorities lists every priority in sort order
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	return p >= PriorityHigh && p <= PriorityLow
}

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

// Label returns the capitalized name shown to users
func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	}
	return "Unknown"
}

// ParsePriority coerces user input into a Priority.
// Accepts "", "1"-"3" and the names high/medium/low in any case.
// Empty input yields PriorityMedium.
func ParsePriority(raw string) (Priority, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "":
		return PriorityMedium, nil
	case "1", "high":
		return PriorityHigh, nil
	case "2", "medium":
		return PriorityMedium, nil
	case "3", "low":
		return PriorityLow, nil
	}
	return 0, fmt.Errorf("%w: unknown priority %q (use 1=High, 2=Medium, 3=Low)", ErrValidation, raw)
}

// VideoStatus is the workflow state of a video
type VideoStatus string

const (
	VideoPending    VideoStatus = "pending"
	VideoInProgress VideoStatus = "in-progress"
	VideoCompleted  VideoStatus = "completed"
)

// VideoStatuses lists every video status in workflow order
var VideoStatuses = []VideoStatus{VideoPending, VideoInProgress, VideoCompleted}

func (s VideoStatus) String() string {
	return string(s)
}

// Valid reports whether s is one of the known video statuses
func (s VideoStatus) Valid() bool {
	switch s {
	case VideoPending, VideoInProgress, VideoCompleted:
		return true
	}
	return false
}

// Label returns the human readable status
func (s VideoStatus) Label() string {
	switch s {
	case VideoPending:
		return "Pending"
	case VideoInProgress:
		return "In progress"
	case VideoCompleted:
		return "Completed"
	}
	return string(s)
}

// Next returns the following status in workflow order, wrapping around
func (s VideoStatus) Next() VideoStatus {
	for i, st := range VideoStatuses {
		if st == s {
			return VideoStatuses[(i+1)%len(VideoStatuses)]
		}
	}
	return VideoPending
}

// ParseVideoStatus coerces user input into a VideoStatus
func ParseVideoStatus(raw string) (VideoStatus, error) {
	s := VideoStatus(strings.ToLower(strings.TrimSpace(raw)))
	if s == "in_progress" {
		s = VideoInProgress
	}
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown video status %q (use pending, in-progress, completed)", ErrValidation, raw)
	}
	return s, nil
}

// TaskStatus is the state of a task
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
)

func (s TaskStatus) String() string {
	return string(s)
}

// Valid reports whether s is one of the known task statuses
func (s TaskStatus) Valid() bool {
	return s == TaskPending || s == TaskCompleted
}

// Toggle flips a task between pending and completed
func (s TaskStatus) Toggle() TaskStatus {
	if s == TaskCompleted {
		return TaskPending
	}
	return TaskCompleted
}

// ParseTaskStatus coerces user input into a TaskStatus
func ParseTaskStatus(raw string) (TaskStatus, error) {
	s := TaskStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown task status %q (use pending, completed)", ErrValidation, raw)
	}
	return s, nil
}

// MaxMinutes bounds both a single time entry and a video's running total.
// It fits an int on every platform, so totals always scan back.
const MaxMinutes = math.MaxInt32

// ParseMinutes parses a whole number of minutes in [0, MaxMinutes]
func ParseMinutes(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: minutes must be a whole number, got %q", ErrValidation, raw)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: minutes cannot be negative", ErrValidation)
	}
	if n > MaxMinutes {
		return 0, fmt.Errorf("%w: minutes cannot exceed %d", ErrValidation, MaxMinutes)
	}
	return n, nil
}

// ParseDeadline parses a YYYY-MM-DD date. Empty input means no deadline.
func ParseDeadline(raw string) (*time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: deadline must be YYYY-MM-DD, got %q", ErrValidation, raw)
	}
	return &d, nil
}

// ParseID parses a positive record identity
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", ErrValidation, raw)
	}
	return id, nil
}
