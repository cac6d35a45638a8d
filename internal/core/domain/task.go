package domain

import "time"

type Priority string

const (
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
	PriorityP3 Priority = "P3"
	PriorityP4 Priority = "P4"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityP1, PriorityP2, PriorityP3, PriorityP4:
		return true
	}
	return false
}

type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "open"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusBlocked    TaskStatus = "blocked"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusOpen, TaskStatusInProgress, TaskStatusBlocked, TaskStatusDone, TaskStatusCancelled:
		return true
	}
	return false
}

// Completed reports whether the status counts as finished work for
// "hide completed" style views.
func (s TaskStatus) Completed() bool {
	return s == TaskStatusDone || s == TaskStatusCancelled
}

type ReminderChannel string

const (
	ReminderChannelWeb   ReminderChannel = "web"
	ReminderChannelPush  ReminderChannel = "push"
	ReminderChannelEmail ReminderChannel = "email"
)

func (c ReminderChannel) Valid() bool {
	switch c {
	case ReminderChannelWeb, ReminderChannelPush, ReminderChannelEmail:
		return true
	}
	return false
}

type UserOption struct {
	ID    string
	Name  string
	Email string
}

type LabelOption struct {
	ID    string
	Name  string
	Color *string
}

// Assignment references a user; the user itself is owned elsewhere.
type Assignment struct {
	User UserOption
}

type LabelRef struct {
	Label LabelOption
}

// Reminder has no ID until it has been persisted.
type Reminder struct {
	ID       *string
	RemindAt time.Time
	Channel  ReminderChannel
}

// Attachment rows are immutable once created; they are only ever
// added or removed, never edited in place.
type Attachment struct {
	ID        string
	FileName  string
	FilePath  string
	CreatedAt time.Time
}

type Subtask struct {
	ID          string
	Title       string
	Status      TaskStatus
	Assignments []Assignment
	Labels      []LabelRef
}

// Task is the server-canonical aggregate the editor works against.
type Task struct {
	ID             string
	Title          string
	Description    *string
	Priority       Priority
	Status         TaskStatus
	StartDate      *time.Time
	DueDate        *time.Time
	RecurrenceRule *string
	SectionID      *string
	ProjectID      *string
	CreatorID      string
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Assignments    []Assignment
	Labels         []LabelRef
	Reminders      []Reminder
	Attachments    []Attachment
	Subtasks       []Subtask
}

// EditorBundle is everything the task editor needs in one read:
// the aggregate plus the option sets the edit form offers.
type EditorBundle struct {
	Task            Task
	AvailableUsers  []UserOption
	AvailableLabels []LabelOption
}

type FileUpload struct {
	Name    string
	Content []byte
}

// StoredFile is what the file store hands back after persisting an upload.
type StoredFile struct {
	ID   string
	Name string
	Path string
}

type CreateTaskInput struct {
	Title        string
	CreatorID    string
	ProjectID    *string
	SectionID    *string
	ParentTaskID *string
}

type CreateSubtaskInput struct {
	ParentTaskID string
	Title        string
	ProjectID    *string
	SectionID    *string
}

// UpdateTaskPayload mirrors the full draft: every save replaces the
// whole aggregate (scalars, relation sets, reminder list, subtask
// titles/statuses) rather than patching individual fields.
type UpdateTaskPayload struct {
	Title          string
	Description    *string
	Priority       Priority
	Status         TaskStatus
	StartDate      *time.Time
	DueDate        *time.Time
	RecurrenceRule *string
	SectionID      *string
	ProjectID      *string
	AssigneeIDs    []string
	LabelIDs       []string
	Reminders      []ReminderDraft
	Subtasks       []SubtaskDraft
	BaseVersion    int64
}
