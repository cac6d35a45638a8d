package api

import (
	"fmt"
	"time"

	"github.com/faha1999/team-to-do-app-sub000/internal/adapter/http/dto"
	"github.com/faha1999/team-to-do-app-sub000/internal/core/domain"
)

func toEditorBundle(body dto.EditorBundleResponse) (domain.EditorBundle, error) {
	task, err := toTask(body.Task)
	if err != nil {
		return domain.EditorBundle{}, err
	}

	return domain.EditorBundle{
		Task:            task,
		AvailableUsers:  toUserOptions(body.AvailableUsers),
		AvailableLabels: toLabelOptions(body.AvailableLabels),
	}, nil
}

func toTask(detail dto.TaskDetail) (domain.Task, error) {
	createdAt, err := time.Parse(time.RFC3339, detail.CreatedAt)
	if err != nil {
		return domain.Task{}, fmt.Errorf("task %s: bad created_at: %w", detail.ID, err)
	}
	updatedAt, err := time.Parse(time.RFC3339, detail.UpdatedAt)
	if err != nil {
		return domain.Task{}, fmt.Errorf("task %s: bad updated_at: %w", detail.ID, err)
	}

	task := domain.Task{
		ID:        detail.ID,
		Title:     detail.Title,
		Priority:  domain.Priority(detail.Priority),
		Status:    domain.TaskStatus(detail.Status),
		CreatorID: detail.CreatorID,
		Version:   detail.Version,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}

	if detail.Description != nil {
		value := *detail.Description
		task.Description = &value
	}
	if task.StartDate, err = parseTimePtr(detail.StartDate); err != nil {
		return domain.Task{}, fmt.Errorf("task %s: bad start_date: %w", detail.ID, err)
	}
	if task.DueDate, err = parseTimePtr(detail.DueDate); err != nil {
		return domain.Task{}, fmt.Errorf("task %s: bad due_date: %w", detail.ID, err)
	}
	if detail.RecurrenceRule != nil {
		value := *detail.RecurrenceRule
		task.RecurrenceRule = &value
	}
	if detail.SectionID != nil {
		value := *detail.SectionID
		task.SectionID = &value
	}
	if detail.ProjectID != nil {
		value := *detail.ProjectID
		task.ProjectID = &value
	}

	task.Assignments = toAssignments(detail.Assignees)
	task.Labels = toLabelRefs(detail.Labels)

	task.Reminders = make([]domain.Reminder, 0, len(detail.Reminders))
	for _, item := range detail.Reminders {
		remindAt, err := time.Parse(time.RFC3339, item.RemindAt)
		if err != nil {
			return domain.Task{}, fmt.Errorf("task %s: bad remind_at: %w", detail.ID, err)
		}
		reminder := domain.Reminder{RemindAt: remindAt, Channel: domain.ReminderChannel(item.Channel)}
		if item.ID != nil {
			value := *item.ID
			reminder.ID = &value
		}
		task.Reminders = append(task.Reminders, reminder)
	}

	task.Attachments = make([]domain.Attachment, 0, len(detail.Attachments))
	for _, item := range detail.Attachments {
		createdAt, err := time.Parse(time.RFC3339, item.CreatedAt)
		if err != nil {
			return domain.Task{}, fmt.Errorf("attachment %s: bad created_at: %w", item.ID, err)
		}
		task.Attachments = append(task.Attachments, domain.Attachment{
			ID:        item.ID,
			FileName:  item.FileName,
			FilePath:  item.FilePath,
			CreatedAt: createdAt,
		})
	}

	task.Subtasks = make([]domain.Subtask, 0, len(detail.Subtasks))
	for _, item := range detail.Subtasks {
		task.Subtasks = append(task.Subtasks, domain.Subtask{
			ID:          item.ID,
			Title:       item.Title,
			Status:      domain.TaskStatus(item.Status),
			Assignments: toAssignments(item.Assignees),
			Labels:      toLabelRefs(item.Labels),
		})
	}

	return task, nil
}

func toUpdateTaskRequest(payload domain.UpdateTaskPayload) dto.UpdateTaskRequest {
	req := dto.UpdateTaskRequest{
		Title:          payload.Title,
		Description:    payload.Description,
		Priority:       string(payload.Priority),
		Status:         string(payload.Status),
		StartDate:      formatTimePtr(payload.StartDate),
		DueDate:        formatTimePtr(payload.DueDate),
		RecurrenceRule: payload.RecurrenceRule,
		SectionID:      payload.SectionID,
		ProjectID:      payload.ProjectID,
		AssigneeIDs:    payload.AssigneeIDs,
		LabelIDs:       payload.LabelIDs,
		BaseVersion:    payload.BaseVersion,
	}

	req.Reminders = make([]dto.ReminderPayload, 0, len(payload.Reminders))
	for _, reminder := range payload.Reminders {
		item := dto.ReminderPayload{
			RemindAt: reminder.RemindAt.Format(time.RFC3339),
			Channel:  string(reminder.Channel),
		}
		if reminder.ID != nil {
			value := *reminder.ID
			item.ID = &value
		}
		req.Reminders = append(req.Reminders, item)
	}

	req.Subtasks = make([]dto.SubtaskPayload, 0, len(payload.Subtasks))
	for _, subtask := range payload.Subtasks {
		req.Subtasks = append(req.Subtasks, dto.SubtaskPayload{
			ID:     subtask.ID,
			Title:  subtask.Title,
			Status: string(subtask.Status),
		})
	}

	return req
}

func toUserOptions(options []dto.UserOption) []domain.UserOption {
	users := make([]domain.UserOption, 0, len(options))
	for _, o := range options {
		users = append(users, domain.UserOption{ID: o.ID, Name: o.Name, Email: o.Email})
	}
	return users
}

func toLabelOptions(options []dto.LabelOption) []domain.LabelOption {
	labels := make([]domain.LabelOption, 0, len(options))
	for _, o := range options {
		label := domain.LabelOption{ID: o.ID, Name: o.Name}
		if o.Color != nil {
			value := *o.Color
			label.Color = &value
		}
		labels = append(labels, label)
	}
	return labels
}

func toAssignments(options []dto.UserOption) []domain.Assignment {
	assignments := make([]domain.Assignment, 0, len(options))
	for _, o := range options {
		assignments = append(assignments, domain.Assignment{
			User: domain.UserOption{ID: o.ID, Name: o.Name, Email: o.Email},
		})
	}
	return assignments
}

func toLabelRefs(options []dto.LabelOption) []domain.LabelRef {
	refs := make([]domain.LabelRef, 0, len(options))
	for _, o := range options {
		label := domain.LabelOption{ID: o.ID, Name: o.Name}
		if o.Color != nil {
			value := *o.Color
			label.Color = &value
		}
		refs = append(refs, domain.LabelRef{Label: label})
	}
	return refs
}

func parseTimePtr(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	value := t.Format(time.RFC3339)
	return &value
}
