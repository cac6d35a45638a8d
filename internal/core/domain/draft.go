package domain

import (
	"sort"
	"time"
)

// New reminders default to one hour out on the web channel.
const defaultReminderLead = time.Hour

type ReminderDraft struct {
	ID       *string
	RemindAt time.Time
	Channel  ReminderChannel
}

type SubtaskDraft struct {
	ID     string
	Title  string
	Status TaskStatus
}

// Draft is the locally editable projection of a task aggregate. It is
// a value type: every mutation returns a new snapshot and never
// touches the aggregate it was derived from. A draft lives only while
// the editor is open and is always rebuilt wholesale from the last
// fetched aggregate, never merged field by field.
type Draft struct {
	TaskID         string
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

// NewDraft projects an aggregate into editable form. The projection is
// deterministic: relation sets are de-duplicated and sorted so the
// same aggregate always yields an identical draft regardless of the
// order the server returned its relations in.
func NewDraft(task Task) Draft {
	d := Draft{
		TaskID:         task.ID,
		Title:          task.Title,
		Description:    copyStringPtr(task.Description),
		Priority:       task.Priority,
		Status:         task.Status,
		StartDate:      copyTimePtr(task.StartDate),
		DueDate:        copyTimePtr(task.DueDate),
		RecurrenceRule: copyStringPtr(task.RecurrenceRule),
		SectionID:      copyStringPtr(task.SectionID),
		ProjectID:      copyStringPtr(task.ProjectID),
		BaseVersion:    task.Version,
	}

	d.AssigneeIDs = make([]string, 0, len(task.Assignments))
	for _, a := range task.Assignments {
		d.AssigneeIDs = append(d.AssigneeIDs, a.User.ID)
	}
	d.AssigneeIDs = normalizeIDSet(d.AssigneeIDs)

	d.LabelIDs = make([]string, 0, len(task.Labels))
	for _, l := range task.Labels {
		d.LabelIDs = append(d.LabelIDs, l.Label.ID)
	}
	d.LabelIDs = normalizeIDSet(d.LabelIDs)

	d.Reminders = make([]ReminderDraft, 0, len(task.Reminders))
	for _, r := range task.Reminders {
		d.Reminders = append(d.Reminders, ReminderDraft{
			ID:       copyStringPtr(r.ID),
			RemindAt: r.RemindAt,
			Channel:  r.Channel,
		})
	}

	d.Subtasks = make([]SubtaskDraft, 0, len(task.Subtasks))
	for _, st := range task.Subtasks {
		d.Subtasks = append(d.Subtasks, SubtaskDraft{
			ID:     st.ID,
			Title:  st.Title,
			Status: st.Status,
		})
	}

	return d
}

// FieldPatch carries at most a handful of scalar replacements. The
// XSet flags distinguish "set to null" from "leave untouched" for the
// nullable fields; a nil AssigneeIDs/LabelIDs slice leaves the set
// untouched while an empty one clears it.
type FieldPatch struct {
	Title             *string
	Description       *string
	DescriptionSet    bool
	Priority          *Priority
	Status            *TaskStatus
	StartDate         *time.Time
	StartDateSet      bool
	DueDate           *time.Time
	DueDateSet        bool
	RecurrenceRule    *string
	RecurrenceRuleSet bool
	SectionID         *string
	SectionIDSet      bool
	ProjectID         *string
	ProjectIDSet      bool
	AssigneeIDs       []string
	LabelIDs          []string
}

type ReminderPatch struct {
	RemindAt *time.Time
	Channel  *ReminderChannel
}

type SubtaskPatch struct {
	Title  *string
	Status *TaskStatus
}

// Apply returns a new draft with the patched fields replaced. No
// cross-field validation happens here; the save path owns that.
func (d Draft) Apply(patch FieldPatch) Draft {
	next := d.clone()

	if patch.Title != nil {
		next.Title = *patch.Title
	}
	if patch.DescriptionSet {
		next.Description = copyStringPtr(patch.Description)
	}
	if patch.Priority != nil {
		next.Priority = *patch.Priority
	}
	if patch.Status != nil {
		next.Status = *patch.Status
	}
	if patch.StartDateSet {
		next.StartDate = copyTimePtr(patch.StartDate)
	}
	if patch.DueDateSet {
		next.DueDate = copyTimePtr(patch.DueDate)
	}
	if patch.RecurrenceRuleSet {
		next.RecurrenceRule = copyStringPtr(patch.RecurrenceRule)
	}
	if patch.SectionIDSet {
		next.SectionID = copyStringPtr(patch.SectionID)
	}
	if patch.ProjectIDSet {
		next.ProjectID = copyStringPtr(patch.ProjectID)
	}
	if patch.AssigneeIDs != nil {
		next.AssigneeIDs = normalizeIDSet(patch.AssigneeIDs)
	}
	if patch.LabelIDs != nil {
		next.LabelIDs = normalizeIDSet(patch.LabelIDs)
	}

	return next
}

// AddReminder appends an unsaved reminder defaulted to one hour from
// now on the web channel. It has no ID until a save round-trips it.
func (d Draft) AddReminder() Draft {
	next := d.clone()
	next.Reminders = append(next.Reminders, ReminderDraft{
		RemindAt: time.Now().Add(defaultReminderLead),
		Channel:  ReminderChannelWeb,
	})
	return next
}

// SetReminder patches the reminder at the given position. Out-of-range
// indices are ignored; positions shift after removals, so the caller
// always addresses the current list.
func (d Draft) SetReminder(index int, patch ReminderPatch) Draft {
	next := d.clone()
	if index < 0 || index >= len(next.Reminders) {
		return next
	}
	if patch.RemindAt != nil {
		next.Reminders[index].RemindAt = *patch.RemindAt
	}
	if patch.Channel != nil {
		next.Reminders[index].Channel = *patch.Channel
	}
	return next
}

func (d Draft) RemoveReminder(index int) Draft {
	next := d.clone()
	if index < 0 || index >= len(next.Reminders) {
		return next
	}
	next.Reminders = append(next.Reminders[:index], next.Reminders[index+1:]...)
	return next
}

// SetSubtask patches title/status of the subtask at the given
// position. Subtask identity is stable; only these two fields are
// editable from the task editor.
func (d Draft) SetSubtask(index int, patch SubtaskPatch) Draft {
	next := d.clone()
	if index < 0 || index >= len(next.Subtasks) {
		return next
	}
	if patch.Title != nil {
		next.Subtasks[index].Title = *patch.Title
	}
	if patch.Status != nil {
		next.Subtasks[index].Status = *patch.Status
	}
	return next
}

// VisibleSubtasks returns the subtasks the editor should show and how
// many were hidden. With hideCompleted off the full list comes back.
func (d Draft) VisibleSubtasks(hideCompleted bool) ([]SubtaskDraft, int) {
	if !hideCompleted {
		return append([]SubtaskDraft(nil), d.Subtasks...), 0
	}

	visible := make([]SubtaskDraft, 0, len(d.Subtasks))
	hidden := 0
	for _, st := range d.Subtasks {
		if st.Status.Completed() {
			hidden++
			continue
		}
		visible = append(visible, st)
	}
	return visible, hidden
}

// UpdatePayload builds the full-replacement save payload from every
// draft field.
func (d Draft) UpdatePayload() UpdateTaskPayload {
	src := d.clone()
	return UpdateTaskPayload{
		Title:          src.Title,
		Description:    src.Description,
		Priority:       src.Priority,
		Status:         src.Status,
		StartDate:      src.StartDate,
		DueDate:        src.DueDate,
		RecurrenceRule: src.RecurrenceRule,
		SectionID:      src.SectionID,
		ProjectID:      src.ProjectID,
		AssigneeIDs:    src.AssigneeIDs,
		LabelIDs:       src.LabelIDs,
		Reminders:      src.Reminders,
		Subtasks:       src.Subtasks,
		BaseVersion:    src.BaseVersion,
	}
}

// clone deep-copies the draft so snapshots never share list storage
// or pointed-to scalars.
func (d Draft) clone() Draft {
	next := d
	next.Description = copyStringPtr(d.Description)
	next.StartDate = copyTimePtr(d.StartDate)
	next.DueDate = copyTimePtr(d.DueDate)
	next.RecurrenceRule = copyStringPtr(d.RecurrenceRule)
	next.SectionID = copyStringPtr(d.SectionID)
	next.ProjectID = copyStringPtr(d.ProjectID)

	next.AssigneeIDs = append([]string(nil), d.AssigneeIDs...)
	next.LabelIDs = append([]string(nil), d.LabelIDs...)

	next.Reminders = make([]ReminderDraft, len(d.Reminders))
	for i, r := range d.Reminders {
		next.Reminders[i] = ReminderDraft{
			ID:       copyStringPtr(r.ID),
			RemindAt: r.RemindAt,
			Channel:  r.Channel,
		}
	}

	next.Subtasks = append([]SubtaskDraft(nil), d.Subtasks...)

	return next
}

func normalizeIDSet(ids []string) []string {
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
	sort.Strings(out)
	return out
}

func copyStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

func copyTimePtr(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
