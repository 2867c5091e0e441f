package db

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tgienger/ytl/internal/models"
)

const videoColumns = `id, title, url, channel, duration, category, priority, status, notes, created_at, deadline, time_spent`

// videoOrder sorts by priority, then deadline with undated videos last
const videoOrder = ` ORDER BY priority ASC, deadline IS NULL, deadline ASC, id ASC`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVideo(row rowScanner) (models.Video, error) {
	var v models.Video
	var channel, duration, category, notes, deadline sql.NullString
	var priority int
	var status string
	err := row.Scan(&v.ID, &v.Title, &v.URL, &channel, &duration, &category,
		&priority, &status, &notes, &v.CreatedAt, &deadline, &v.TimeSpent)
	if err != nil {
		return models.Video{}, err
	}

	v.Channel = channel.String
	v.Duration = duration.String
	v.Category = category.String
	v.Notes = notes.String
	v.Priority = models.Priority(priority)
	v.Status = models.VideoStatus(status)

	if deadline.Valid && deadline.String != "" {
		d, err := time.ParseInLocation(models.DateLayout, deadline.String, time.Local)
		if err != nil {
			return models.Video{}, fmt.Errorf("video %d: deadline %q: %w", v.ID, deadline.String, err)
		}
		v.Deadline = &d
	}
	return v, nil
}

func (db *DB) queryVideos(op, query string, args ...any) ([]models.Video, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, storageErr(op, err)
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return videos, nil
}

// AddVideo validates and inserts a new video, returning its ID.
// New videos start pending with no time spent.
func (db *DB) AddVideo(in models.NewVideo) (int64, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return 0, validationErr("title is required")
	}
	url := strings.TrimSpace(in.URL)
	if url == "" {
		return 0, validationErr("url is required")
	}

	priority := in.Priority
	if priority == 0 {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return 0, validationErr("unknown priority %d", int(priority))
	}

	var deadline any
	if in.Deadline != nil {
		deadline = in.Deadline.Format(models.DateLayout)
	}

	result, err := db.Exec(`
		INSERT INTO videos (title, url, channel, duration, category, priority, status, notes, created_at, deadline)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, title, url,
		nullable(strings.TrimSpace(in.Channel)),
		nullable(strings.TrimSpace(in.Duration)),
		nullable(strings.TrimSpace(in.Category)),
		int(priority), string(models.VideoPending),
		nullable(strings.TrimSpace(in.Notes)),
		db.now(), deadline)
	if err != nil {
		return 0, storageErr("add video", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, storageErr("add video", err)
	}
	return id, nil
}

// GetVideo retrieves a video by ID
func (db *DB) GetVideo(id int64) (*models.Video, error) {
	row := db.QueryRow(`SELECT `+videoColumns+` FROM videos WHERE id = ?`, id)
	v, err := scanVideo(row)
	if err == sql.ErrNoRows {
		return nil, notFoundErr("video", id)
	}
	if err != nil {
		return nil, storageErr("get video", err)
	}
	return &v, nil
}

// ListVideos returns all videos, or only those with the given status
func (db *DB) ListVideos(status *models.VideoStatus) ([]models.Video, error) {
	if status == nil {
		return db.queryVideos("list videos", `SELECT `+videoColumns+` FROM videos`+videoOrder)
	}
	if !status.Valid() {
		return nil, validationErr("unknown video status %q", string(*status))
	}
	return db.queryVideos("list videos",
		`SELECT `+videoColumns+` FROM videos WHERE status = ?`+videoOrder, string(*status))
}

// ListVideosByCategory returns videos whose category matches exactly
func (db *DB) ListVideosByCategory(category string) ([]models.Video, error) {
	return db.queryVideos("list videos by category",
		`SELECT `+videoColumns+` FROM videos WHERE category = ?`+videoOrder, category)
}

// ListCategories returns the distinct non-empty categories in use
func (db *DB) ListCategories() ([]string, error) {
	rows, err := db.Query(`
		SELECT DISTINCT category FROM videos
		WHERE category IS NOT NULL AND category != ''
		ORDER BY category
	`)
	if err != nil {
		return nil, storageErr("list categories", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, storageErr("list categories", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list categories", err)
	}
	return categories, nil
}

// SearchVideos matches term as a substring of the title or channel.
// Matching is case-insensitive for ASCII, as SQLite's LIKE is.
func (db *DB) SearchVideos(term string) ([]models.Video, error) {
	pattern := likePattern(term)
	return db.queryVideos("search videos", `
		SELECT `+videoColumns+` FROM videos
		WHERE title LIKE ? ESCAPE '\' OR channel LIKE ? ESCAPE '\'`+videoOrder,
		pattern, pattern)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// UpcomingDeadlines returns unfinished videos due within the next days days,
// overdue ones included, soonest first. Videos without a deadline never match.
func (db *DB) UpcomingDeadlines(days int) ([]models.Video, error) {
	if days < 0 {
		return nil, validationErr("days cannot be negative")
	}
	target := db.now().AddDate(0, 0, days).Format(models.DateLayout)
	return db.queryVideos("upcoming deadlines", `
		SELECT `+videoColumns+` FROM videos
		WHERE deadline IS NOT NULL AND deadline <= ? AND status != ?
		ORDER BY deadline ASC, id ASC
	`, target, string(models.VideoCompleted))
}

// UpdateVideoStatus sets the workflow status of a video
func (db *DB) UpdateVideoStatus(id int64, status models.VideoStatus) error {
	if !status.Valid() {
		return validationErr("unknown video status %q", string(status))
	}
	result, err := db.Exec("UPDATE videos SET status = ? WHERE id = ?", string(status), id)
	if err != nil {
		return storageErr("update video status", err)
	}
	return requireAffected(result, "video", id)
}

// SetVideoNotes replaces the notes of a video
func (db *DB) SetVideoNotes(id int64, notes string) error {
	result, err := db.Exec("UPDATE videos SET notes = ? WHERE id = ?", nullable(strings.TrimSpace(notes)), id)
	if err != nil {
		return storageErr("set video notes", err)
	}
	return requireAffected(result, "video", id)
}

// RecordTimeSpent adds minutes to the running total for a video.
// The total never exceeds models.MaxMinutes; an add that would pass it is
// rejected and leaves the row unchanged.
func (db *DB) RecordTimeSpent(id int64, minutes int) error {
	if minutes < 0 {
		return validationErr("minutes cannot be negative")
	}
	if minutes > models.MaxMinutes {
		return validationErr("minutes cannot exceed %d", models.MaxMinutes)
	}
	result, err := db.Exec(`
		UPDATE videos SET time_spent = time_spent + ?
		WHERE id = ? AND time_spent <= ?
	`, minutes, id, models.MaxMinutes-minutes)
	if err != nil {
		return storageErr("record time spent", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return storageErr("record time spent", err)
	}
	if n > 0 {
		return nil
	}

	exists, err := db.videoExists(id)
	if err != nil {
		return err
	}
	if !exists {
		return notFoundErr("video", id)
	}
	return validationErr("total time spent cannot exceed %d minutes", models.MaxMinutes)
}

// DeleteVideo deletes a video and all its tasks. Deleting a missing video is a no-op.
func (db *DB) DeleteVideo(id int64) error {
	tx, err := db.Begin()
	if err != nil {
		return storageErr("delete video", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM tasks WHERE video_id = ?", id); err != nil {
		return storageErr("delete video tasks", err)
	}
	if _, err := tx.Exec("DELETE FROM videos WHERE id = ?", id); err != nil {
		return storageErr("delete video", err)
	}
	if err := tx.Commit(); err != nil {
		return storageErr("delete video", err)
	}
	return nil
}

// ValidateVideoID reports whether raw is an integer naming an existing video.
// It never fails; parse and lookup errors both yield false.
func (db *DB) ValidateVideoID(raw string) bool {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return false
	}
	exists, err := db.videoExists(id)
	return err == nil && exists
}

// VideoCount returns the number of videos
func (db *DB) VideoCount() (int, error) {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM videos").Scan(&count); err != nil {
		return 0, storageErr("count videos", err)
	}
	return count, nil
}

func (db *DB) videoExists(id int64) (bool, error) {
	var one int
	err := db.QueryRow("SELECT 1 FROM videos WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, storageErr("look up video", err)
	}
	return true, nil
}

func requireAffected(result sql.Result, kind string, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return storageErr("update "+kind, err)
	}
	if n == 0 {
		return notFoundErr(kind, id)
	}
	return nil
}
