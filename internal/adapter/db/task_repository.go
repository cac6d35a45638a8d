package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/faha1999/team-to-do-app-sub000/internal/core/domain"
	"github.com/faha1999/team-to-do-app-sub000/internal/core/ports"
)

const getTaskQuery = `
SELECT t.*
FROM tasks t
WHERE t.id = ?;
`

const taskAssigneesQuery = `
SELECT ta.task_id, u.id, u.name, u.email
FROM task_assignments ta
JOIN users u ON u.id = ta.user_id
WHERE ta.task_id IN (?)
ORDER BY u.name;
`

const taskLabelsQuery = `
SELECT tl.task_id, l.id, l.name, l.color
FROM task_labels tl
JOIN labels l ON l.id = tl.label_id
WHERE tl.task_id IN (?)
ORDER BY l.name;
`

const taskRemindersQuery = `
SELECT id, remind_at, channel
FROM reminders
WHERE task_id = ?
ORDER BY remind_at, id;
`

const taskAttachmentsQuery = `
SELECT id, file_name, file_path, created_at
FROM attachments
WHERE task_id = ?
ORDER BY created_at, id;
`

const taskSubtasksQuery = `
SELECT id, title, status
FROM tasks
WHERE parent_task_id = ?
ORDER BY created_at, id;
`

// Option set: the task's project team members, project members and the
// task creator, de-duplicated.
const availableUsersQuery = `
SELECT DISTINCT u.id, u.name, u.email
FROM users u
WHERE u.id IN (
    SELECT tm.user_id
    FROM team_members tm
    JOIN projects p ON p.team_id = tm.team_id
    WHERE p.id = ?
  )
  OR u.id IN (SELECT pm.user_id FROM project_members pm WHERE pm.project_id = ?)
  OR u.id = ?
ORDER BY u.name, u.id;
`

const creatorOnlyQuery = `
SELECT u.id, u.name, u.email
FROM users u
WHERE u.id = ?;
`

// Team labels plus global (team-less) labels.
const availableLabelsQuery = `
SELECT l.id, l.name, l.color
FROM labels l
WHERE l.team_id IS NULL
   OR l.team_id = (SELECT p.team_id FROM projects p WHERE p.id = ?)
ORDER BY l.name, l.id;
`

const globalLabelsQuery = `
SELECT l.id, l.name, l.color
FROM labels l
WHERE l.team_id IS NULL
ORDER BY l.name, l.id;
`

type TaskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

type taskRow struct {
	ID             string         `db:"id"`
	ParentTaskID   sql.NullString `db:"parent_task_id"`
	ProjectID      sql.NullString `db:"project_id"`
	SectionID      sql.NullString `db:"section_id"`
	CreatorID      string         `db:"creator_id"`
	Title          string         `db:"title"`
	Description    sql.NullString `db:"description"`
	Priority       string         `db:"priority"`
	Status         string         `db:"status"`
	StartDate      sql.NullTime   `db:"start_date"`
	DueDate        sql.NullTime   `db:"due_date"`
	RecurrenceRule sql.NullString `db:"recurrence_rule"`
	Version        int64          `db:"version"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

type userRow struct {
	TaskID string `db:"task_id"`
	ID     string `db:"id"`
	Name   string `db:"name"`
	Email  string `db:"email"`
}

type labelRow struct {
	TaskID string         `db:"task_id"`
	ID     string         `db:"id"`
	Name   string         `db:"name"`
	Color  sql.NullString `db:"color"`
}

type optionUserRow struct {
	ID    string `db:"id"`
	Name  string `db:"name"`
	Email string `db:"email"`
}

type optionLabelRow struct {
	ID    string         `db:"id"`
	Name  string         `db:"name"`
	Color sql.NullString `db:"color"`
}

type reminderRow struct {
	ID       string    `db:"id"`
	RemindAt time.Time `db:"remind_at"`
	Channel  string    `db:"channel"`
}

type attachmentRow struct {
	ID        string    `db:"id"`
	FileName  string    `db:"file_name"`
	FilePath  string    `db:"file_path"`
	CreatedAt time.Time `db:"created_at"`
}

type subtaskRow struct {
	ID     string `db:"id"`
	Title  string `db:"title"`
	Status string `db:"status"`
}

func (r *TaskRepository) GetEditorBundle(ctx context.Context, taskID string) (domain.EditorBundle, error) {
	var row taskRow
	if err := r.db.GetContext(ctx, &row, getTaskQuery, taskID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.EditorBundle{}, domain.ErrTaskNotFound
		}
		return domain.EditorBundle{}, err
	}

	task := mapTaskRow(row)

	var subtaskRows []subtaskRow
	if err := r.db.SelectContext(ctx, &subtaskRows, taskSubtasksQuery, taskID); err != nil {
		return domain.EditorBundle{}, err
	}

	relationIDs := make([]string, 0, len(subtaskRows)+1)
	relationIDs = append(relationIDs, taskID)
	for _, st := range subtaskRows {
		relationIDs = append(relationIDs, st.ID)
	}

	assignmentsByTask, err := r.loadAssignments(ctx, relationIDs)
	if err != nil {
		return domain.EditorBundle{}, err
	}
	labelsByTask, err := r.loadLabels(ctx, relationIDs)
	if err != nil {
		return domain.EditorBundle{}, err
	}

	task.Assignments = assignmentsByTask[taskID]
	task.Labels = labelsByTask[taskID]

	var reminderRows []reminderRow
	if err := r.db.SelectContext(ctx, &reminderRows, taskRemindersQuery, taskID); err != nil {
		return domain.EditorBundle{}, err
	}
	task.Reminders = make([]domain.Reminder, 0, len(reminderRows))
	for _, rr := range reminderRows {
		id := rr.ID
		task.Reminders = append(task.Reminders, domain.Reminder{
			ID:       &id,
			RemindAt: rr.RemindAt,
			Channel:  domain.ReminderChannel(rr.Channel),
		})
	}

	var attachmentRows []attachmentRow
	if err := r.db.SelectContext(ctx, &attachmentRows, taskAttachmentsQuery, taskID); err != nil {
		return domain.EditorBundle{}, err
	}
	task.Attachments = make([]domain.Attachment, 0, len(attachmentRows))
	for _, ar := range attachmentRows {
		task.Attachments = append(task.Attachments, domain.Attachment{
			ID:        ar.ID,
			FileName:  ar.FileName,
			FilePath:  ar.FilePath,
			CreatedAt: ar.CreatedAt,
		})
	}

	task.Subtasks = make([]domain.Subtask, 0, len(subtaskRows))
	for _, st := range subtaskRows {
		task.Subtasks = append(task.Subtasks, domain.Subtask{
			ID:          st.ID,
			Title:       st.Title,
			Status:      domain.TaskStatus(st.Status),
			Assignments: assignmentsByTask[st.ID],
			Labels:      labelsByTask[st.ID],
		})
	}

	users, err := r.loadAvailableUsers(ctx, task)
	if err != nil {
		return domain.EditorBundle{}, err
	}
	labels, err := r.loadAvailableLabels(ctx, task)
	if err != nil {
		return domain.EditorBundle{}, err
	}

	return domain.EditorBundle{Task: task, AvailableUsers: users, AvailableLabels: labels}, nil
}

// UpdateTask replaces the aggregate in one transaction: the scalar row
// guarded by the version stamp, then the relation sets and the
// reminder list wholesale, then subtask titles/statuses by id.
func (r *TaskRepository) UpdateTask(ctx context.Context, taskID string, payload domain.UpdateTaskPayload) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
UPDATE tasks
SET title = ?, description = ?, priority = ?, status = ?, start_date = ?,
    due_date = ?, recurrence_rule = ?, section_id = ?, project_id = ?,
    version = version + 1, updated_at = NOW()
WHERE id = ? AND version = ?;`,
		payload.Title,
		payload.Description,
		string(payload.Priority),
		string(payload.Status),
		payload.StartDate,
		payload.DueDate,
		payload.RecurrenceRule,
		payload.SectionID,
		payload.ProjectID,
		taskID,
		payload.BaseVersion,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var version int64
		err := tx.GetContext(ctx, &version, "SELECT version FROM tasks WHERE id = ?", taskID)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		if err != nil {
			return err
		}
		return domain.ErrVersionConflict
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM task_assignments WHERE task_id = ?", taskID); err != nil {
		return err
	}
	for _, userID := range payload.AssigneeIDs {
		if _, err := tx.ExecContext(ctx, "INSERT INTO task_assignments (task_id, user_id) VALUES (?, ?)", taskID, userID); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM task_labels WHERE task_id = ?", taskID); err != nil {
		return err
	}
	for _, labelID := range payload.LabelIDs {
		if _, err := tx.ExecContext(ctx, "INSERT INTO task_labels (task_id, label_id) VALUES (?, ?)", taskID, labelID); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM reminders WHERE task_id = ?", taskID); err != nil {
		return err
	}
	for _, reminder := range payload.Reminders {
		id := uuid.NewString()
		if reminder.ID != nil && *reminder.ID != "" {
			id = *reminder.ID
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO reminders (id, task_id, remind_at, channel) VALUES (?, ?, ?, ?)",
			id, taskID, reminder.RemindAt, string(reminder.Channel),
		); err != nil {
			return err
		}
	}

	for _, subtask := range payload.Subtasks {
		if _, err := tx.ExecContext(ctx,
			"UPDATE tasks SET title = ?, status = ?, updated_at = NOW() WHERE id = ? AND parent_task_id = ?",
			subtask.Title, string(subtask.Status), subtask.ID, taskID,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *TaskRepository) AddAttachments(ctx context.Context, taskID string, files []domain.StoredFile) ([]domain.Attachment, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT COUNT(*) FROM tasks WHERE id = ?", taskID); err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, domain.ErrTaskNotFound
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Truncate(time.Second)
	attachments := make([]domain.Attachment, 0, len(files))
	for _, file := range files {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO attachments (id, task_id, file_name, file_path, created_at) VALUES (?, ?, ?, ?, ?)",
			file.ID, taskID, file.Name, file.Path, now,
		); err != nil {
			return nil, err
		}
		attachments = append(attachments, domain.Attachment{
			ID:        file.ID,
			FileName:  file.Name,
			FilePath:  file.Path,
			CreatedAt: now,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return attachments, nil
}

func (r *TaskRepository) RemoveAttachment(ctx context.Context, attachmentID string) (domain.Attachment, error) {
	var row attachmentRow
	err := r.db.GetContext(ctx, &row,
		"SELECT id, file_name, file_path, created_at FROM attachments WHERE id = ?", attachmentID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Attachment{}, domain.ErrAttachmentNotFound
	}
	if err != nil {
		return domain.Attachment{}, err
	}

	if _, err := r.db.ExecContext(ctx, "DELETE FROM attachments WHERE id = ?", attachmentID); err != nil {
		return domain.Attachment{}, err
	}

	return domain.Attachment{
		ID:        row.ID,
		FileName:  row.FileName,
		FilePath:  row.FilePath,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (r *TaskRepository) CreateTask(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error) {
	if input.ParentTaskID != nil {
		var exists int
		if err := r.db.GetContext(ctx, &exists, "SELECT COUNT(*) FROM tasks WHERE id = ?", *input.ParentTaskID); err != nil {
			return domain.Task{}, err
		}
		if exists == 0 {
			return domain.Task{}, domain.ErrTaskNotFound
		}
	}

	id := uuid.NewString()
	now := time.Now().UTC().Truncate(time.Second)
	if _, err := r.db.ExecContext(ctx, `
INSERT INTO tasks (id, parent_task_id, project_id, section_id, creator_id, title,
                   priority, status, version, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?);`,
		id,
		input.ParentTaskID,
		input.ProjectID,
		input.SectionID,
		input.CreatorID,
		input.Title,
		string(domain.PriorityP4),
		string(domain.TaskStatusOpen),
		now,
		now,
	); err != nil {
		return domain.Task{}, err
	}

	return domain.Task{
		ID:        id,
		Title:     input.Title,
		Priority:  domain.PriorityP4,
		Status:    domain.TaskStatusOpen,
		ProjectID: input.ProjectID,
		SectionID: input.SectionID,
		CreatorID: input.CreatorID,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (r *TaskRepository) loadAssignments(ctx context.Context, taskIDs []string) (map[string][]domain.Assignment, error) {
	query, args, err := sqlx.In(taskAssigneesQuery, taskIDs)
	if err != nil {
		return nil, err
	}

	var rows []userRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	byTask := make(map[string][]domain.Assignment, len(taskIDs))
	for _, row := range rows {
		byTask[row.TaskID] = append(byTask[row.TaskID], domain.Assignment{
			User: domain.UserOption{ID: row.ID, Name: row.Name, Email: row.Email},
		})
	}
	return byTask, nil
}

func (r *TaskRepository) loadLabels(ctx context.Context, taskIDs []string) (map[string][]domain.LabelRef, error) {
	query, args, err := sqlx.In(taskLabelsQuery, taskIDs)
	if err != nil {
		return nil, err
	}

	var rows []labelRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	byTask := make(map[string][]domain.LabelRef, len(taskIDs))
	for _, row := range rows {
		label := domain.LabelOption{ID: row.ID, Name: row.Name}
		if row.Color.Valid {
			value := row.Color.String
			label.Color = &value
		}
		byTask[row.TaskID] = append(byTask[row.TaskID], domain.LabelRef{Label: label})
	}
	return byTask, nil
}

func (r *TaskRepository) loadAvailableUsers(ctx context.Context, task domain.Task) ([]domain.UserOption, error) {
	var rows []optionUserRow
	if task.ProjectID != nil {
		if err := r.db.SelectContext(ctx, &rows, availableUsersQuery, *task.ProjectID, *task.ProjectID, task.CreatorID); err != nil {
			return nil, err
		}
	} else {
		if err := r.db.SelectContext(ctx, &rows, creatorOnlyQuery, task.CreatorID); err != nil {
			return nil, err
		}
	}

	users := make([]domain.UserOption, 0, len(rows))
	for _, row := range rows {
		users = append(users, domain.UserOption{ID: row.ID, Name: row.Name, Email: row.Email})
	}
	return users, nil
}

func (r *TaskRepository) loadAvailableLabels(ctx context.Context, task domain.Task) ([]domain.LabelOption, error) {
	var rows []optionLabelRow
	if task.ProjectID != nil {
		if err := r.db.SelectContext(ctx, &rows, availableLabelsQuery, *task.ProjectID); err != nil {
			return nil, err
		}
	} else {
		if err := r.db.SelectContext(ctx, &rows, globalLabelsQuery); err != nil {
			return nil, err
		}
	}

	labels := make([]domain.LabelOption, 0, len(rows))
	for _, row := range rows {
		label := domain.LabelOption{ID: row.ID, Name: row.Name}
		if row.Color.Valid {
			value := row.Color.String
			label.Color = &value
		}
		labels = append(labels, label)
	}
	return labels, nil
}

func mapTaskRow(row taskRow) domain.Task {
	task := domain.Task{
		ID:        row.ID,
		Title:     row.Title,
		Priority:  domain.Priority(row.Priority),
		Status:    domain.TaskStatus(row.Status),
		CreatorID: row.CreatorID,
		Version:   row.Version,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}

	if row.Description.Valid {
		value := row.Description.String
		task.Description = &value
	}
	if row.StartDate.Valid {
		value := row.StartDate.Time
		task.StartDate = &value
	}
	if row.DueDate.Valid {
		value := row.DueDate.Time
		task.DueDate = &value
	}
	if row.RecurrenceRule.Valid {
		value := row.RecurrenceRule.String
		task.RecurrenceRule = &value
	}
	if row.SectionID.Valid {
		value := row.SectionID.String
		task.SectionID = &value
	}
	if row.ProjectID.Valid {
		value := row.ProjectID.String
		task.ProjectID = &value
	}

	return task
}
