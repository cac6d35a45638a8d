package ports

import (
	"context"

	"github.com/faha1999/team-to-do-app-sub000/internal/core/domain"
)

// TaskGateway is the editor's view of the backend: one read that
// returns the whole aggregate plus option sets, and four mutations
// that each end in the editor refetching that read.
type TaskGateway interface {
	FetchEditorBundle(ctx context.Context, taskID string) (domain.EditorBundle, error)
	UpdateTask(ctx context.Context, taskID string, payload domain.UpdateTaskPayload) error
	UploadAttachments(ctx context.Context, taskID string, files []domain.FileUpload) error
	RemoveAttachment(ctx context.Context, attachmentID string) error
	CreateSubtask(ctx context.Context, input domain.CreateSubtaskInput) error
}

// EditorService is the server-side counterpart the HTTP handlers call.
type EditorService interface {
	GetEditorBundle(ctx context.Context, taskID string) (domain.EditorBundle, error)
	UpdateTask(ctx context.Context, taskID string, payload domain.UpdateTaskPayload) error
	AddAttachments(ctx context.Context, taskID string, files []domain.FileUpload) ([]domain.Attachment, error)
	RemoveAttachment(ctx context.Context, attachmentID string) error
	CreateTask(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error)
}

type TaskRepository interface {
	GetEditorBundle(ctx context.Context, taskID string) (domain.EditorBundle, error)
	UpdateTask(ctx context.Context, taskID string, payload domain.UpdateTaskPayload) error
	AddAttachments(ctx context.Context, taskID string, files []domain.StoredFile) ([]domain.Attachment, error)
	RemoveAttachment(ctx context.Context, attachmentID string) (domain.Attachment, error)
	CreateTask(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error)
}

// FileStore persists raw attachment content outside the database.
type FileStore interface {
	Save(name string, content []byte) (domain.StoredFile, error)
	Remove(path string) error
}
