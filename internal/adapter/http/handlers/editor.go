package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/faha1999/team-to-do-app-sub000/internal/adapter/http/dto"
	"github.com/faha1999/team-to-do-app-sub000/internal/adapter/http/mapper"
	"github.com/faha1999/team-to-do-app-sub000/internal/adapter/http/middleware"
	"github.com/faha1999/team-to-do-app-sub000/internal/adapter/http/validation"
	"github.com/faha1999/team-to-do-app-sub000/internal/core/domain"
	"github.com/faha1999/team-to-do-app-sub000/internal/core/ports"
	"github.com/faha1999/team-to-do-app-sub000/pkg/apierrors"
)

type TaskEditorHandler struct {
	editorService ports.EditorService
}

func NewTaskEditorHandler(editorService ports.EditorService) *TaskEditorHandler {
	return &TaskEditorHandler{editorService: editorService}
}

// GetTaskEditor serves the single read the editor performs: the task
// aggregate plus the assignee and label option sets.
func (h *TaskEditorHandler) GetTaskEditor(c *gin.Context) {
	lang := middleware.GetLang(c)

	taskID := strings.TrimSpace(c.Param("id"))
	if taskID == "" {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskID, lang),
		)
		return
	}

	bundle, err := h.editorService.GetEditorBundle(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			c.JSON(
				http.StatusNotFound,
				apierrors.CreateError(http.StatusNotFound, apierrors.MsgTaskNotFound, lang),
			)
			return
		}

		zap.L().Error("failed to load editor bundle", zap.String("task_id", taskID), zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailLoadEditor, lang),
		)
		return
	}

	c.JSON(http.StatusOK, mapper.ToEditorBundleResponse(bundle))
}

// UpdateTask applies a full-replacement save of the aggregate. The
// payload carries the base version; a mismatch with the stored row is
// a conflict, not a silent overwrite.
func (h *TaskEditorHandler) UpdateTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	taskID := strings.TrimSpace(c.Param("id"))
	if taskID == "" {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskID, lang),
		)
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	payload, err := validation.BuildUpdateTaskPayload(req)
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	if err := h.editorService.UpdateTask(c.Request.Context(), taskID, payload); err != nil {
		switch {
		case errors.Is(err, domain.ErrTaskNotFound):
			c.JSON(
				http.StatusNotFound,
				apierrors.CreateError(http.StatusNotFound, apierrors.MsgTaskNotFound, lang),
			)
		case errors.Is(err, domain.ErrVersionConflict):
			c.JSON(
				http.StatusConflict,
				apierrors.CreateError(http.StatusConflict, apierrors.MsgTaskConflict, lang),
			)
		default:
			zap.L().Error("failed to update task", zap.String("task_id", taskID), zap.Error(err))
			c.JSON(
				http.StatusInternalServerError,
				apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailSaveTask, lang),
			)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadAttachments accepts a multipart batch under the "files" field.
func (h *TaskEditorHandler) UploadAttachments(c *gin.Context) {
	lang := middleware.GetLang(c)

	taskID := strings.TrimSpace(c.Param("id"))
	if taskID == "" {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskID, lang),
		)
		return
	}

	form, err := c.MultipartForm()
	if err != nil || len(form.File["files"]) == 0 {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	files := make([]domain.FileUpload, 0, len(form.File["files"]))
	for _, header := range form.File["files"] {
		src, err := header.Open()
		if err != nil {
			c.JSON(
				http.StatusBadRequest,
				apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
			)
			return
		}
		content, err := io.ReadAll(src)
		_ = src.Close()
		if err != nil {
			c.JSON(
				http.StatusBadRequest,
				apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
			)
			return
		}
		files = append(files, domain.FileUpload{Name: header.Filename, Content: content})
	}

	attachments, err := h.editorService.AddAttachments(c.Request.Context(), taskID, files)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			c.JSON(
				http.StatusNotFound,
				apierrors.CreateError(http.StatusNotFound, apierrors.MsgTaskNotFound, lang),
			)
			return
		}

		zap.L().Error("failed to store attachments", zap.String("task_id", taskID), zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailUploadAttachments, lang),
		)
		return
	}

	c.JSON(http.StatusCreated, mapper.ToAttachmentItems(attachments))
}

func (h *TaskEditorHandler) RemoveAttachment(c *gin.Context) {
	lang := middleware.GetLang(c)

	attachmentID := strings.TrimSpace(c.Param("id"))
	if attachmentID == "" {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskID, lang),
		)
		return
	}

	if err := h.editorService.RemoveAttachment(c.Request.Context(), attachmentID); err != nil {
		if errors.Is(err, domain.ErrAttachmentNotFound) {
			c.JSON(
				http.StatusNotFound,
				apierrors.CreateError(http.StatusNotFound, apierrors.MsgAttachmentNotFound, lang),
			)
			return
		}

		zap.L().Error("failed to remove attachment", zap.String("attachment_id", attachmentID), zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailRemoveAttachment, lang),
		)
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateTask is generic task creation; subtask creation is the same
// call with a parent reference.
func (h *TaskEditorHandler) CreateTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	input, err := validation.BuildCreateTaskInput(req, middleware.CurrentUserID(c))
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	task, err := h.editorService.CreateTask(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			// Parent reference points at a task that does not exist.
			c.JSON(
				http.StatusNotFound,
				apierrors.CreateError(http.StatusNotFound, apierrors.MsgTaskNotFound, lang),
			)
			return
		}

		zap.L().Error("failed to create task", zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailCreateTask, lang),
		)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateTaskResponse{ID: task.ID})
}
