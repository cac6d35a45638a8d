package mapper

import (
	"time"

	"github.com/faha1999/team-to-do-app-sub000/internal/adapter/http/dto"
	"github.com/faha1999/team-to-do-app-sub000/internal/core/domain"
)

func ToEditorBundleResponse(bundle domain.EditorBundle) dto.EditorBundleResponse {
	return dto.EditorBundleResponse{
		Task:            ToTaskDetail(bundle.Task),
		AvailableUsers:  ToUserOptions(bundle.AvailableUsers),
		AvailableLabels: ToLabelOptions(bundle.AvailableLabels),
	}
}

func ToTaskDetail(task domain.Task) dto.TaskDetail {
	detail := dto.TaskDetail{
		ID:        task.ID,
		Title:     task.Title,
		Priority:  string(task.Priority),
		Status:    string(task.Status),
		CreatorID: task.CreatorID,
		Version:   task.Version,
		CreatedAt: task.CreatedAt.Format(time.RFC3339),
		UpdatedAt: task.UpdatedAt.Format(time.RFC3339),
	}

	if task.Description != nil {
		value := *task.Description
		detail.Description = &value
	}
	detail.StartDate = formatTimePtr(task.StartDate)
	detail.DueDate = formatTimePtr(task.DueDate)
	if task.RecurrenceRule != nil {
		value := *task.RecurrenceRule
		detail.RecurrenceRule = &value
	}
	if task.SectionID != nil {
		value := *task.SectionID
		detail.SectionID = &value
	}
	if task.ProjectID != nil {
		value := *task.ProjectID
		detail.ProjectID = &value
	}

	detail.Assignees = assigneeOptions(task.Assignments)
	detail.Labels = labelRefOptions(task.Labels)

	detail.Reminders = make([]dto.ReminderItem, 0, len(task.Reminders))
	for _, r := range task.Reminders {
		item := dto.ReminderItem{
			RemindAt: r.RemindAt.Format(time.RFC3339),
			Channel:  string(r.Channel),
		}
		if r.ID != nil {
			value := *r.ID
			item.ID = &value
		}
		detail.Reminders = append(detail.Reminders, item)
	}

	detail.Attachments = make([]dto.AttachmentItem, 0, len(task.Attachments))
	for _, a := range task.Attachments {
		detail.Attachments = append(detail.Attachments, dto.AttachmentItem{
			ID:        a.ID,
			FileName:  a.FileName,
			FilePath:  a.FilePath,
			CreatedAt: a.CreatedAt.Format(time.RFC3339),
		})
	}

	detail.Subtasks = make([]dto.SubtaskItem, 0, len(task.Subtasks))
	for _, st := range task.Subtasks {
		detail.Subtasks = append(detail.Subtasks, dto.SubtaskItem{
			ID:        st.ID,
			Title:     st.Title,
			Status:    string(st.Status),
			Assignees: assigneeOptions(st.Assignments),
			Labels:    labelRefOptions(st.Labels),
		})
	}

	return detail
}

func ToUserOptions(users []domain.UserOption) []dto.UserOption {
	options := make([]dto.UserOption, 0, len(users))
	for _, u := range users {
		options = append(options, dto.UserOption{ID: u.ID, Name: u.Name, Email: u.Email})
	}
	return options
}

func ToLabelOptions(labels []domain.LabelOption) []dto.LabelOption {
	options := make([]dto.LabelOption, 0, len(labels))
	for _, l := range labels {
		option := dto.LabelOption{ID: l.ID, Name: l.Name}
		if l.Color != nil {
			value := *l.Color
			option.Color = &value
		}
		options = append(options, option)
	}
	return options
}

func ToAttachmentItems(attachments []domain.Attachment) []dto.AttachmentItem {
	items := make([]dto.AttachmentItem, 0, len(attachments))
	for _, a := range attachments {
		items = append(items, dto.AttachmentItem{
			ID:        a.ID,
			FileName:  a.FileName,
			FilePath:  a.FilePath,
			CreatedAt: a.CreatedAt.Format(time.RFC3339),
		})
	}
	return items
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	value := t.Format(time.RFC3339)
	return &value
}

func assigneeOptions(assignments []domain.Assignment) []dto.UserOption {
	options := make([]dto.UserOption, 0, len(assignments))
	for _, a := range assignments {
		options = append(options, dto.UserOption{ID: a.User.ID, Name: a.User.Name, Email: a.User.Email})
	}
	return options
}

func labelRefOptions(labels []domain.LabelRef) []dto.LabelOption {
	options := make([]dto.LabelOption, 0, len(labels))
	for _, l := range labels {
		option := dto.LabelOption{ID: l.Label.ID, Name: l.Label.Name}
		if l.Label.Color != nil {
			value := *l.Label.Color
			option.Color = &value
		}
		options = append(options, option)
	}
	return options
}
