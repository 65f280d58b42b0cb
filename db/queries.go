package db

import (
	_ "embed"
)

// Schema

//go:embed sql/create_tables.sql
var CreateTablesSQL string

// Trim task queries

//go:embed sql/insert_trim_task.sql
var InsertTrimTaskSQL string

//go:embed sql/select_trim_tasks.sql
var SelectTrimTasksSQL string

//go:embed sql/select_trim_task_by_id.sql
var SelectTrimTaskByIDSQL string

//go:embed sql/select_next_pending_task.sql
var SelectNextPendingTaskSQL string

//go:embed sql/delete_trim_tasks_by_status.sql
var DeleteTrimTasksByStatusSQL string

// Worker status transitions

//go:embed sql/mark_task_processing.sql
var MarkTaskProcessingSQL string

//go:embed sql/mark_task_complete.sql
var MarkTaskCompleteSQL string

//go:embed sql/mark_task_error.sql
var MarkTaskErrorSQL string

//go:embed sql/reset_stale_tasks.sql
var ResetStaleTasksSQL string
