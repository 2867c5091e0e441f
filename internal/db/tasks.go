package db

import (
	"database/sql"
	"strings"

	"github.com/tgienger/ytl/internal/models"
)

// AddTask attaches a new pending task to an existing video
func (db *DB) AddTask(videoID int64, description, timestamp string) (int64, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return 0, validationErr("task description is required")
	}

	exists, err := db.videoExists(videoID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, notFoundErr("video", videoID)
	}

	result, err := db.Exec(`
		INSERT INTO tasks (video_id, description, timestamp, status) VALUES (?, ?, ?, ?)
	`, videoID, description, nullable(strings.TrimSpace(timestamp)), string(models.TaskPending))
	if err != nil {
		return 0, storageErr("add task", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, storageErr("add task", err)
	}
	return id, nil
}

// GetTask retrieves a task by ID
func (db *DB) GetTask(id int64) (*models.Task, error) {
	var t models.Task
	var timestamp sql.NullString
	var status string
	err := db.QueryRow(`
		SELECT id, video_id, description, timestamp, status
		FROM tasks WHERE id = ?
	`, id).Scan(&t.ID, &t.VideoID, &t.Description, &timestamp, &status)
	if err == sql.ErrNoRows {
		return nil, notFoundErr("task", id)
	}
	if err != nil {
		return nil, storageErr("get task", err)
	}
	t.Timestamp = timestamp.String
	t.Status = models.TaskStatus(status)
	return &t, nil
}

// GetVideoTasks returns the tasks of a video in the order they were added
func (db *DB) GetVideoTasks(videoID int64) ([]models.Task, error) {
	rows, err := db.Query(`
		SELECT id, video_id, description, timestamp, status
		FROM tasks
		WHERE video_id = ?
		ORDER BY id ASC
	`, videoID)
	if err != nil {
		return nil, storageErr("get video tasks", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		var timestamp sql.NullString
		var status string
		if err := rows.Scan(&t.ID, &t.VideoID, &t.Description, &timestamp, &status); err != nil {
			return nil, storageErr("get video tasks", err)
		}
		t.Timestamp = timestamp.String
		t.Status = models.TaskStatus(status)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("get video tasks", err)
	}
	return tasks, nil
}

// UpdateTaskStatus marks a task pending or completed
func (db *DB) UpdateTaskStatus(id int64, status models.TaskStatus) error {
	if !status.Valid() {
		return validationErr("unknown task status %q", string(status))
	}
	result, err := db.Exec("UPDATE tasks SET status = ? WHERE id = ?", string(status), id)
	if err != nil {
		return storageErr("update task status", err)
	}
	return requireAffected(result, "task", id)
}
