package db

import "github.com/tgienger/ytl/internal/models"

// GetStats computes a fresh progress snapshot on every call
func (db *DB) GetStats() (models.Stats, error) {
	var s models.Stats
	err := db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(time_spent), 0)
		FROM videos
	`, string(models.VideoCompleted)).Scan(&s.TotalVideos, &s.CompletedVideos, &s.TotalTimeMinutes)
	if err != nil {
		return models.Stats{}, storageErr("video stats", err)
	}

	err = db.QueryRow("SELECT COUNT(*) FROM tasks WHERE status = ?", string(models.TaskPending)).
		Scan(&s.PendingTasks)
	if err != nil {
		return models.Stats{}, storageErr("task stats", err)
	}

	if s.TotalVideos > 0 {
		s.CompletionRate = float64(s.CompletedVideos) / float64(s.TotalVideos) * 100
	}
	return s, nil
}
