package validation

import (
	"errors"
	"strings"
	"time"

	"github.com/faha1999/team-to-do-app-sub000/internal/adapter/http/dto"
	"github.com/faha1999/team-to-do-app-sub000/internal/core/domain"
)

var ErrInvalidTaskPayload = errors.New("invalid task payload")

// BuildUpdateTaskPayload turns the wire request into the domain
// payload, rejecting anything the draft layer deliberately does not
// validate: empty titles, unknown enum values, malformed timestamps,
// and a due date before the start date.
func BuildUpdateTaskPayload(req dto.UpdateTaskRequest) (domain.UpdateTaskPayload, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.UpdateTaskPayload{}, ErrInvalidTaskPayload
	}

	priority := domain.Priority(req.Priority)
	if !priority.Valid() {
		return domain.UpdateTaskPayload{}, ErrInvalidTaskPayload
	}

	status := domain.TaskStatus(req.Status)
	if !status.Valid() {
		return domain.UpdateTaskPayload{}, ErrInvalidTaskPayload
	}

	startDate, err := parseTimePtr(req.StartDate)
	if err != nil {
		return domain.UpdateTaskPayload{}, ErrInvalidTaskPayload
	}
	dueDate, err := parseTimePtr(req.DueDate)
	if err != nil {
		return domain.UpdateTaskPayload{}, ErrInvalidTaskPayload
	}
	if startDate != nil && dueDate != nil && dueDate.Before(*startDate) {
		return domain.UpdateTaskPayload{}, ErrInvalidTaskPayload
	}

	if req.BaseVersion <= 0 {
		return domain.UpdateTaskPayload{}, ErrInvalidTaskPayload
	}

	reminders := make([]domain.ReminderDraft, 0, len(req.Reminders))
	for _, r := range req.Reminders {
		remindAt, err := time.Parse(time.RFC3339, r.RemindAt)
		if err != nil {
			return domain.UpdateTaskPayload{}, ErrInvalidTaskPayload
		}
		channel := domain.ReminderChannel(r.Channel)
		if !channel.Valid() {
			return domain.UpdateTaskPayload{}, ErrInvalidTaskPayload
		}
		reminder := domain.ReminderDraft{RemindAt: remindAt, Channel: channel}
		if r.ID != nil && *r.ID != "" {
			value := *r.ID
			reminder.ID = &value
		}
		reminders = append(reminders, reminder)
	}

	subtasks := make([]domain.SubtaskDraft, 0, len(req.Subtasks))
	for _, st := range req.Subtasks {
		subtaskTitle := strings.TrimSpace(st.Title)
		if st.ID == "" || subtaskTitle == "" {
			return domain.UpdateTaskPayload{}, ErrInvalidTaskPayload
		}
		subtaskStatus := domain.TaskStatus(st.Status)
		if !subtaskStatus.Valid() {
			return domain.UpdateTaskPayload{}, ErrInvalidTaskPayload
		}
		subtasks = append(subtasks, domain.SubtaskDraft{
			ID:     st.ID,
			Title:  subtaskTitle,
			Status: subtaskStatus,
		})
	}

	return domain.UpdateTaskPayload{
		Title:          title,
		Description:    req.Description,
		Priority:       priority,
		Status:         status,
		StartDate:      startDate,
		DueDate:        dueDate,
		RecurrenceRule: req.RecurrenceRule,
		SectionID:      req.SectionID,
		ProjectID:      req.ProjectID,
		AssigneeIDs:    dedupeIDs(req.AssigneeIDs),
		LabelIDs:       dedupeIDs(req.LabelIDs),
		Reminders:      reminders,
		Subtasks:       subtasks,
		BaseVersion:    req.BaseVersion,
	}, nil
}

func BuildCreateTaskInput(req dto.CreateTaskRequest, creatorID string) (domain.CreateTaskInput, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}
	if req.ParentTaskID != nil && strings.TrimSpace(*req.ParentTaskID) == "" {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}

	return domain.CreateTaskInput{
		Title:        title,
		CreatorID:    creatorID,
		ProjectID:    req.ProjectID,
		SectionID:    req.SectionID,
		ParentTaskID: req.ParentTaskID,
	}, nil
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

func dedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
