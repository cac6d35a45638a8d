// Package editor implements the task editor overlay: one task open at
// a time, a local draft of the server-owned aggregate, and a
// reconcile step that re-derives the draft from server truth after
// every mutating round trip.
package editor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/faha1999/team-to-do-app-sub000/internal/core/domain"
	"github.com/faha1999/team-to-do-app-sub000/internal/core/ports"
	"github.com/faha1999/team-to-do-app-sub000/pkg/apierrors"
	"github.com/faha1999/team-to-do-app-sub000/pkg/translator"
)

var (
	ErrNoDraft       = errors.New("editor: no draft loaded")
	ErrInvalidTaskID = errors.New("editor: task id must not be empty")
)

// FocusTarget is the UI element that opened the editor; it gets focus
// back shortly after the editor closes.
type FocusTarget interface {
	Focus()
}

// Focus return waits out the closing transition.
const focusReturnDelay = 200 * time.Millisecond

// Session is the single editor instance the rest of the application
// shares. Open/Close drive the overlay lifecycle; in between, the
// draft is mutated locally and pushed wholesale on Save. Every
// server-mutating operation ends by refetching the aggregate and
// resetting the draft from it, so the draft never drifts from server
// truth for longer than one round trip.
//
// A generation counter stamps every fetch: Open and Close bump it, and
// a fetch result is applied only if the generation it was dispatched
// under is still current. That is how a response for a task that is no
// longer open gets discarded without transport-level cancellation.
type Session struct {
	gateway ports.TaskGateway
	logger  *zap.Logger
	lang    string

	// opMu is the single-slot queue for mutating operations: at most
	// one save/upload/remove/create in flight, later calls wait. This
	// makes the final refetch-reset order deterministic.
	opMu sync.Mutex

	mu     sync.Mutex
	gen    uint64
	open   bool
	taskID string
	origin FocusTarget
	bundle *domain.EditorBundle
	draft  *domain.Draft
	errMsg string
}

type Option func(*Session)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithLanguage sets the language user-visible error messages are
// localized to. Defaults to English.
func WithLanguage(lang string) Option {
	return func(s *Session) { s.lang = lang }
}

func NewSession(gateway ports.TaskGateway, opts ...Option) *Session {
	s := &Session{
		gateway: gateway,
		logger:  zap.L(),
		lang:    translator.LanguageEn,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open targets the editor at a task and loads its aggregate. Opening
// while already open replaces the current target; there is no
// stacking. On fetch failure the draft stays unset and a retrievable
// error message is recorded; the overlay remains open.
func (s *Session) Open(ctx context.Context, taskID string, origin FocusTarget) error {
	if strings.TrimSpace(taskID) == "" {
		return ErrInvalidTaskID
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.open = true
	s.taskID = taskID
	s.origin = origin
	s.bundle = nil
	s.draft = nil
	s.errMsg = ""
	s.mu.Unlock()

	bundle, err := s.gateway.FetchEditorBundle(ctx, taskID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		// Superseded by a later Open or a Close while this fetch was
		// in flight; the stale result must not overwrite newer state.
		s.logger.Debug("discarding superseded editor fetch", zap.String("task_id", taskID))
		return nil
	}
	if err != nil {
		s.logger.Error("failed to load task editor", zap.String("task_id", taskID), zap.Error(err))
		s.errMsg = s.userMessage(apierrors.MsgFailLoadEditor, err)
		return err
	}

	draft := domain.NewDraft(bundle.Task)
	s.bundle = &bundle
	s.draft = &draft
	return nil
}

// Close hides the editor and drops all aggregate, draft and error
// state. Results of any in-flight operation are discarded via the
// generation bump. Focus returns to the opening element after a short
// delay, then the element is forgotten.
func (s *Session) Close() {
	s.mu.Lock()
	origin := s.origin
	s.gen++
	s.open = false
	s.taskID = ""
	s.origin = nil
	s.bundle = nil
	s.draft = nil
	s.errMsg = ""
	s.mu.Unlock()

	if origin != nil {
		time.AfterFunc(focusReturnDelay, origin.Focus)
	}
}

func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

func (s *Session) TaskID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.taskID
}

// Err returns the current user-visible error message, empty when the
// last operation succeeded.
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Bundle returns the last fetched aggregate bundle, if any.
func (s *Session) Bundle() (domain.EditorBundle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bundle == nil {
		return domain.EditorBundle{}, false
	}
	return *s.bundle, true
}

// Draft returns a snapshot of the current draft, if one is loaded.
func (s *Session) Draft() (domain.Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return domain.Draft{}, false
	}
	return *s.draft, true
}

// Local draft mutations. All synchronous, no network, each swaps in a
// fresh immutable snapshot.

func (s *Session) ApplyPatch(patch domain.FieldPatch) error {
	return s.mutate(func(d domain.Draft) domain.Draft { return d.Apply(patch) })
}

func (s *Session) AddReminder() error {
	return s.mutate(domain.Draft.AddReminder)
}

func (s *Session) SetReminder(index int, patch domain.ReminderPatch) error {
	return s.mutate(func(d domain.Draft) domain.Draft { return d.SetReminder(index, patch) })
}

func (s *Session) RemoveReminder(index int) error {
	return s.mutate(func(d domain.Draft) domain.Draft { return d.RemoveReminder(index) })
}

func (s *Session) SetSubtask(index int, patch domain.SubtaskPatch) error {
	return s.mutate(func(d domain.Draft) domain.Draft { return d.SetSubtask(index, patch) })
}

func (s *Session) mutate(fn func(domain.Draft) domain.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return ErrNoDraft
	}
	next := fn(*s.draft)
	s.draft = &next
	return nil
}

// Save pushes the full draft as one atomic update, then refetches and
// resets the draft from server truth. On failure the draft is left
// exactly as it was so the user's edits survive a retry.
func (s *Session) Save(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	if s.draft == nil {
		s.mu.Unlock()
		return ErrNoDraft
	}
	gen := s.gen
	taskID := s.taskID
	payload := s.draft.UpdatePayload()
	s.mu.Unlock()

	if err := s.gateway.UpdateTask(ctx, taskID, payload); err != nil {
		s.logger.Error("failed to save task", zap.String("task_id", taskID), zap.Error(err))
		s.recordError(gen, apierrors.MsgFailSaveTask, err)
		return err
	}

	return s.refresh(ctx, gen, taskID)
}

// UploadAttachments submits a batch of files, then refetches. Unsaved
// draft edits made while the upload was in flight are discarded by the
// reset; attachments are deliberately not part of the save
// transaction.
func (s *Session) UploadAttachments(ctx context.Context, files []domain.FileUpload) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	gen, taskID, err := s.currentTarget()
	if err != nil {
		return err
	}

	if err := s.gateway.UploadAttachments(ctx, taskID, files); err != nil {
		s.logger.Error("failed to upload attachments", zap.String("task_id", taskID), zap.Int("files", len(files)), zap.Error(err))
		s.recordError(gen, apierrors.MsgFailUploadAttachments, err)
		return err
	}

	return s.refresh(ctx, gen, taskID)
}

func (s *Session) RemoveAttachment(ctx context.Context, attachmentID string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	gen, taskID, err := s.currentTarget()
	if err != nil {
		return err
	}

	if err := s.gateway.RemoveAttachment(ctx, attachmentID); err != nil {
		s.logger.Error("failed to remove attachment", zap.String("attachment_id", attachmentID), zap.Error(err))
		s.recordError(gen, apierrors.MsgFailRemoveAttachment, err)
		return err
	}

	return s.refresh(ctx, gen, taskID)
}

// CreateSubtask creates a child of the open task, inheriting its
// project and section. The new subtask appears through the refetch;
// nothing is inserted locally before the server confirms.
func (s *Session) CreateSubtask(ctx context.Context, title string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	if s.bundle == nil {
		s.mu.Unlock()
		return ErrNoDraft
	}
	gen := s.gen
	taskID := s.taskID
	input := domain.CreateSubtaskInput{
		ParentTaskID: taskID,
		Title:        title,
		ProjectID:    s.bundle.Task.ProjectID,
		SectionID:    s.bundle.Task.SectionID,
	}
	s.mu.Unlock()

	if err := s.gateway.CreateSubtask(ctx, input); err != nil {
		s.logger.Error("failed to create subtask", zap.String("parent_task_id", taskID), zap.Error(err))
		s.recordError(gen, apierrors.MsgFailCreateSubtask, err)
		return err
	}

	return s.refresh(ctx, gen, taskID)
}

func (s *Session) currentTarget() (uint64, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bundle == nil {
		return 0, "", ErrNoDraft
	}
	return s.gen, s.taskID, nil
}

// refresh pulls the canonical aggregate and resets the draft from it,
// unless the session moved on while the operation ran.
func (s *Session) refresh(ctx context.Context, gen uint64, taskID string) error {
	bundle, err := s.gateway.FetchEditorBundle(ctx, taskID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return nil
	}
	if err != nil {
		s.logger.Error("failed to refresh task editor", zap.String("task_id", taskID), zap.Error(err))
		s.errMsg = s.userMessage(apierrors.MsgFailLoadEditor, err)
		return err
	}

	draft := domain.NewDraft(bundle.Task)
	s.bundle = &bundle
	s.draft = &draft
	s.errMsg = ""
	return nil
}

func (s *Session) recordError(gen uint64, msgKey string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	s.errMsg = s.userMessage(msgKey, err)
}

// userMessage maps an operation failure to one localized string. Known
// domain errors get their specific message, anything else the
// operation's generic one.
func (s *Session) userMessage(msgKey string, err error) string {
	switch {
	case errors.Is(err, domain.ErrVersionConflict):
		msgKey = apierrors.MsgTaskConflict
	case errors.Is(err, domain.ErrTaskNotFound):
		msgKey = apierrors.MsgTaskNotFound
	case errors.Is(err, domain.ErrAttachmentNotFound):
		msgKey = apierrors.MsgAttachmentNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		msgKey = apierrors.MsgUnauthorized
	}
	return apierrors.GetTransErrorMsg(msgKey, s.lang)
}
