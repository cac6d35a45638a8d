package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/faha1999/team-to-do-app-sub000/internal/adapter/http/dto"
	"github.com/faha1999/team-to-do-app-sub000/internal/core/domain"
)

func validUpdateRequest() dto.UpdateTaskRequest {
	description := "polish the rollout plan"
	start := "2026-09-01T00:00:00Z"
	due := "2026-09-15T17:00:00Z"
	reminderID := "rem-1"

	return dto.UpdateTaskRequest{
		Title:       "  Prepare launch  ",
		Description: &description,
		Priority:    "P2",
		Status:      "in_progress",
		StartDate:   &start,
		DueDate:     &due,
		AssigneeIDs: []string{"u-1", "u-2", "u-1", ""},
		LabelIDs:    []string{"l-1"},
		Reminders: []dto.ReminderPayload{
			{ID: &reminderID, RemindAt: "2026-09-14T17:00:00Z", Channel: "email"},
			{RemindAt: "2026-09-15T08:00:00Z", Channel: "web"},
		},
		Subtasks: []dto.SubtaskPayload{
			{ID: "st-1", Title: "  Draft copy  ", Status: "done"},
		},
		BaseVersion: 4,
	}
}

func TestBuildUpdateTaskPayload_Success(t *testing.T) {
	payload, err := BuildUpdateTaskPayload(validUpdateRequest())
	require.NoError(t, err)

	require.Equal(t, "Prepare launch", payload.Title)
	require.Equal(t, domain.PriorityP2, payload.Priority)
	require.Equal(t, domain.TaskStatusInProgress, payload.Status)
	require.Equal(t, time.Date(2026, 9, 15, 17, 0, 0, 0, time.UTC), payload.DueDate.UTC())

	// Duplicates and empty ids are dropped.
	require.Equal(t, []string{"u-1", "u-2"}, payload.AssigneeIDs)

	require.Len(t, payload.Reminders, 2)
	require.Equal(t, "rem-1", *payload.Reminders[0].ID)
	require.Equal(t, domain.ReminderChannelEmail, payload.Reminders[0].Channel)
	require.Nil(t, payload.Reminders[1].ID)

	require.Len(t, payload.Subtasks, 1)
	require.Equal(t, "Draft copy", payload.Subtasks[0].Title)
	require.Equal(t, domain.TaskStatusDone, payload.Subtasks[0].Status)

	require.Equal(t, int64(4), payload.BaseVersion)
}

func TestBuildUpdateTaskPayload_EmptyReminderIDBecomesNil(t *testing.T) {
	req := validUpdateRequest()
	emptyID := ""
	req.Reminders[0].ID = &emptyID

	payload, err := BuildUpdateTaskPayload(req)
	require.NoError(t, err)
	require.Nil(t, payload.Reminders[0].ID)
}

func TestBuildUpdateTaskPayload_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*dto.UpdateTaskRequest)
	}{
		{name: "blank title", mutate: func(r *dto.UpdateTaskRequest) { r.Title = "   " }},
		{name: "unknown priority", mutate: func(r *dto.UpdateTaskRequest) { r.Priority = "P9" }},
		{name: "unknown status", mutate: func(r *dto.UpdateTaskRequest) { r.Status = "paused" }},
		{name: "bad start date", mutate: func(r *dto.UpdateTaskRequest) {
			bad := "yesterday"
			r.StartDate = &bad
		}},
		{name: "due before start", mutate: func(r *dto.UpdateTaskRequest) {
			due := "2026-08-01T00:00:00Z"
			r.DueDate = &due
		}},
		{name: "zero base version", mutate: func(r *dto.UpdateTaskRequest) { r.BaseVersion = 0 }},
		{name: "bad reminder timestamp", mutate: func(r *dto.UpdateTaskRequest) { r.Reminders[0].RemindAt = "soon" }},
		{name: "unknown reminder channel", mutate: func(r *dto.UpdateTaskRequest) { r.Reminders[0].Channel = "sms" }},
		{name: "subtask without id", mutate: func(r *dto.UpdateTaskRequest) { r.Subtasks[0].ID = "" }},
		{name: "blank subtask title", mutate: func(r *dto.UpdateTaskRequest) { r.Subtasks[0].Title = "  " }},
		{name: "unknown subtask status", mutate: func(r *dto.UpdateTaskRequest) { r.Subtasks[0].Status = "paused" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validUpdateRequest()
			tc.mutate(&req)

			_, err := BuildUpdateTaskPayload(req)
			require.ErrorIs(t, err, ErrInvalidTaskPayload)
		})
	}
}

func TestBuildCreateTaskInput(t *testing.T) {
	projectID := "p-launch"
	parentID := "task-1"

	input, err := BuildCreateTaskInput(dto.CreateTaskRequest{
		Title:        "  Review copy  ",
		ProjectID:    &projectID,
		ParentTaskID: &parentID,
	}, "u-1")
	require.NoError(t, err)

	require.Equal(t, "Review copy", input.Title)
	require.Equal(t, "u-1", input.CreatorID)
	require.Equal(t, "p-launch", *input.ProjectID)
	require.Equal(t, "task-1", *input.ParentTaskID)
	require.Nil(t, input.SectionID)
}

func TestBuildCreateTaskInput_Rejections(t *testing.T) {
	_, err := BuildCreateTaskInput(dto.CreateTaskRequest{Title: "  "}, "u-1")
	require.ErrorIs(t, err, ErrInvalidTaskPayload)

	blankParent := "  "
	_, err = BuildCreateTaskInput(dto.CreateTaskRequest{Title: "ok", ParentTaskID: &blankParent}, "u-1")
	require.ErrorIs(t, err, ErrInvalidTaskPayload)
}
