package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidInterval is returned when a task is inserted with start >= end.
var ErrInvalidInterval = errors.New("db: trim interval must have start < end")

// InsertTrimTask queues a pending trim of [start, end] for videoPath and
// returns the stored task.
func InsertTrimTask(db *sql.DB, videoPath string, start, end float64) (*TrimTask, error) {
	if !(start < end) {
		return nil, ErrInvalidInterval
	}
	id := uuid.NewString()
	result, err := db.Exec(InsertTrimTaskSQL, id, videoPath, start, end)
	if err != nil {
		return nil, fmt.Errorf("insert trim task: %w", err)
	}
	rowID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get trim task id: %w", err)
	}
	return SelectTrimTaskByID(db, rowID)
}

// SelectTrimTaskByID returns a single trim task.
func SelectTrimTaskByID(db *sql.DB, id int64) (*TrimTask, error) {
	t, err := scanTrimTask(db.QueryRow(SelectTrimTaskByIDSQL, id))
	if err != nil {
		return nil, fmt.Errorf("select trim task %d: %w", id, err)
	}
	return t, nil
}

// SelectTrimTasks returns all trim tasks in insertion order. An empty
// videoPath selects tasks for every video.
func SelectTrimTasks(db *sql.DB, videoPath string) ([]TrimTask, error) {
	rows, err := db.Query(SelectTrimTasksSQL, videoPath, videoPath)
	if err != nil {
		return nil, fmt.Errorf("select trim tasks: %w", err)
	}
	defer rows.Close()

	var tasks []TrimTask
	for rows.Next() {
		t, err := scanTrimTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trim task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// SelectNextPendingTask returns the oldest pending task, or nil when the
// queue is empty.
func SelectNextPendingTask(db *sql.DB) (*PendingTask, error) {
	var t PendingTask
	err := db.QueryRow(SelectNextPendingTaskSQL).Scan(&t.ID, &t.UUID, &t.VideoPath, &t.Start, &t.End)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select next pending task: %w", err)
	}
	return &t, nil
}

// MarkTaskProcessing updates a trim_tasks row to processing status with the given start time.
func MarkTaskProcessing(db *sql.DB, id int64, startedAt time.Time) error {
	if _, err := db.Exec(MarkTaskProcessingSQL, startedAt, id); err != nil {
		return fmt.Errorf("mark task processing: %w", err)
	}
	return nil
}

// MarkTaskComplete records the output file of a finished trim.
func MarkTaskComplete(db *sql.DB, id int64, finishedAt time.Time, outputPath string, filesize int64) error {
	if _, err := db.Exec(MarkTaskCompleteSQL, finishedAt, outputPath, filesize, id); err != nil {
		return fmt.Errorf("mark task complete: %w", err)
	}
	return nil
}

// MarkTaskError updates a trim_tasks row to error status with the given error time and log message.
func MarkTaskError(db *sql.DB, id int64, errorAt time.Time, logMsg string) error {
	if _, err := db.Exec(MarkTaskErrorSQL, errorAt, logMsg, id); err != nil {
		return fmt.Errorf("mark task error: %w", err)
	}
	return nil
}

// ResetStaleTasks puts tasks left in processing by a crashed worker back
// into the queue. It returns how many rows were reset.
func ResetStaleTasks(db *sql.DB) (int64, error) {
	result, err := db.Exec(ResetStaleTasksSQL)
	if err != nil {
		return 0, fmt.Errorf("reset stale tasks: %w", err)
	}
	return result.RowsAffected()
}

// DeleteTrimTasks removes every task with the given status.
func DeleteTrimTasks(db *sql.DB, status string) (int64, error) {
	result, err := db.Exec(DeleteTrimTasksByStatusSQL, status)
	if err != nil {
		return 0, fmt.Errorf("delete %s tasks: %w", status, err)
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrimTask(row rowScanner) (*TrimTask, error) {
	var (
		t                          TrimTask
		started, finished, errored sql.NullTime
		created                    sql.NullTime
	)
	err := row.Scan(&t.ID, &t.UUID, &t.VideoPath, &t.Start, &t.End, &t.Status, &t.OutputPath, &t.Filesize,
		&started, &finished, &errored, &t.Log, &created)
	if err != nil {
		return nil, err
	}
	t.StartedAt = nullTimePtr(started)
	t.FinishedAt = nullTimePtr(finished)
	t.ErrorAt = nullTimePtr(errored)
	if created.Valid {
		t.CreatedAt = created.Time
	}
	return &t, nil
}

func nullTimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	v := nt.Time
	return &v
}
