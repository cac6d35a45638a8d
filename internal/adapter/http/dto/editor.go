// Package dto defines the wire shapes of the task editor contract.
// Both the server handlers and the HTTP gateway client marshal
// through these types so the two sides cannot drift.
package dto

type UserOption struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type LabelOption struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Color *string `json:"color,omitempty"`
}

type ReminderItem struct {
	ID       *string `json:"id,omitempty"`
	RemindAt string  `json:"remind_at"`
	Channel  string  `json:"channel"`
}

type AttachmentItem struct {
	ID        string `json:"id"`
	FileName  string `json:"file_name"`
	FilePath  string `json:"file_path"`
	CreatedAt string `json:"created_at"`
}

type SubtaskItem struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Status    string        `json:"status"`
	Assignees []UserOption  `json:"assignees,omitempty"`
	Labels    []LabelOption `json:"labels,omitempty"`
}

type TaskDetail struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Description    *string          `json:"description,omitempty"`
	Priority       string           `json:"priority"`
	Status         string           `json:"status"`
	StartDate      *string          `json:"start_date,omitempty"`
	DueDate        *string          `json:"due_date,omitempty"`
	RecurrenceRule *string          `json:"recurrence_rule,omitempty"`
	SectionID      *string          `json:"section_id,omitempty"`
	ProjectID      *string          `json:"project_id,omitempty"`
	CreatorID      string           `json:"creator_id"`
	Version        int64            `json:"version"`
	CreatedAt      string           `json:"created_at"`
	UpdatedAt      string           `json:"updated_at"`
	Assignees      []UserOption     `json:"assignees"`
	Labels         []LabelOption    `json:"labels"`
	Reminders      []ReminderItem   `json:"reminders"`
	Attachments    []AttachmentItem `json:"attachments"`
	Subtasks       []SubtaskItem    `json:"subtasks"`
}

// EditorBundleResponse is the single read the editor performs: the
// aggregate plus the option sets for the assignee and label pickers.
type EditorBundleResponse struct {
	Task            TaskDetail    `json:"task"`
	AvailableUsers  []UserOption  `json:"available_users"`
	AvailableLabels []LabelOption `json:"available_labels"`
}

type ReminderPayload struct {
	ID       *string `json:"id,omitempty"`
	RemindAt string  `json:"remind_at" binding:"required"`
	Channel  string  `json:"channel" binding:"required,oneof=web push email"`
}

type SubtaskPayload struct {
	ID     string `json:"id" binding:"required"`
	Title  string `json:"title" binding:"required,max=255"`
	Status string `json:"status" binding:"required,oneof=open in_progress blocked done cancelled"`
}

// UpdateTaskRequest carries the full draft; the server replaces the
// aggregate wholesale rather than patching fields.
type UpdateTaskRequest struct {
	Title          string            `json:"title" binding:"required,max=255"`
	Description    *string           `json:"description" binding:"omitempty,max=65535"`
	Priority       string            `json:"priority" binding:"required,oneof=P1 P2 P3 P4"`
	Status         string            `json:"status" binding:"required,oneof=open in_progress blocked done cancelled"`
	StartDate      *string           `json:"start_date"`
	DueDate        *string           `json:"due_date"`
	RecurrenceRule *string           `json:"recurrence_rule"`
	SectionID      *string           `json:"section_id"`
	ProjectID      *string           `json:"project_id"`
	AssigneeIDs    []string          `json:"assignee_ids"`
	LabelIDs       []string          `json:"label_ids"`
	Reminders      []ReminderPayload `json:"reminders"`
	Subtasks       []SubtaskPayload  `json:"subtasks"`
	BaseVersion    int64             `json:"base_version" binding:"required,gt=0"`
}

type CreateTaskRequest struct {
	Title        string  `json:"title" binding:"required,max=255"`
	ProjectID    *string `json:"project_id"`
	SectionID    *string `json:"section_id"`
	ParentTaskID *string `json:"parent_task_id"`
}

type CreateTaskResponse struct {
	ID string `json:"id"`
}
