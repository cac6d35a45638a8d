package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/faha1999/team-to-do-app-sub000/internal/core/domain"
	"github.com/faha1999/team-to-do-app-sub000/internal/core/ports"
)

// EditorService backs the task editor endpoints: the aggregate read,
// the full-replacement update, attachment add/remove, and task (and
// thereby subtask) creation.
type EditorService struct {
	tasks ports.TaskRepository
	files ports.FileStore
}

func NewEditorService(tasks ports.TaskRepository, files ports.FileStore) *EditorService {
	return &EditorService{tasks: tasks, files: files}
}

func (s *EditorService) GetEditorBundle(ctx context.Context, taskID string) (domain.EditorBundle, error) {
	return s.tasks.GetEditorBundle(ctx, taskID)
}

func (s *EditorService) UpdateTask(ctx context.Context, taskID string, payload domain.UpdateTaskPayload) error {
	return s.tasks.UpdateTask(ctx, taskID, payload)
}

// AddAttachments stores file content first, then records the rows. If
// recording fails the stored files are removed so the batch has no
// half-applied remains.
func (s *EditorService) AddAttachments(ctx context.Context, taskID string, files []domain.FileUpload) ([]domain.Attachment, error) {
	stored := make([]domain.StoredFile, 0, len(files))
	for _, file := range files {
		sf, err := s.files.Save(file.Name, file.Content)
		if err != nil {
			s.removeStored(stored)
			return nil, err
		}
		stored = append(stored, sf)
	}

	attachments, err := s.tasks.AddAttachments(ctx, taskID, stored)
	if err != nil {
		s.removeStored(stored)
		return nil, err
	}
	return attachments, nil
}

func (s *EditorService) RemoveAttachment(ctx context.Context, attachmentID string) error {
	attachment, err := s.tasks.RemoveAttachment(ctx, attachmentID)
	if err != nil {
		return err
	}

	// The row is gone; a leftover file only wastes disk, so log and move on.
	if err := s.files.Remove(attachment.FilePath); err != nil {
		zap.L().Warn("failed to remove attachment file", zap.String("path", attachment.FilePath), zap.Error(err))
	}
	return nil
}

func (s *EditorService) CreateTask(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error) {
	return s.tasks.CreateTask(ctx, input)
}

func (s *EditorService) removeStored(stored []domain.StoredFile) {
	for _, sf := range stored {
		if err := s.files.Remove(sf.Path); err != nil {
			zap.L().Warn("failed to clean up stored file", zap.String("path", sf.Path), zap.Error(err))
		}
	}
}

var _ ports.EditorService = (*EditorService)(nil)
