//go:build integration
// +build integration

package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	dbadapter "github.com/faha1999/team-to-do-app-sub000/internal/adapter/db"
	httpadapter "github.com/faha1999/team-to-do-app-sub000/internal/adapter/http"
	"github.com/faha1999/team-to-do-app-sub000/internal/adapter/http/dto"
	"github.com/faha1999/team-to-do-app-sub000/internal/adapter/http/handlers"
	"github.com/faha1999/team-to-do-app-sub000/internal/adapter/storage"
	appservice "github.com/faha1999/team-to-do-app-sub000/internal/app/service"
	"github.com/faha1999/team-to-do-app-sub000/pkg/apierrors"
	"github.com/faha1999/team-to-do-app-sub000/pkg/translator"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
)

const integrationJWTSecret = "integration-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	translator.InitTranslator(translator.Config{
		TranslationFolder:  "../../../../pkg/translator/translation",
		SupportedLanguages: []string{translator.LanguageFr, translator.LanguageEn},
	})
	os.Exit(m.Run())
}

type EditorIntegrationSuite struct {
	IntegrationSuiteBase
	router *gin.Engine
	token  string
}

func TestEditorIntegrationSuite(t *testing.T) {
	suite.Run(t, new(EditorIntegrationSuite))
}

func (s *EditorIntegrationSuite) SetupTest() {
	s.ResetDatabase()

	seed, err := dbadapter.LoadSeed(filepath.Join(projectRoot(s.T()), "db", "seed", "dev.yaml"))
	s.Require().NoError(err)
	s.Require().NoError(seed.Apply(context.Background(), s.DB))

	attachmentDir := s.T().TempDir()
	store, err := storage.NewDiskStore(attachmentDir)
	s.Require().NoError(err)

	repository := dbadapter.NewTaskRepository(s.DB)
	editorService := appservice.NewEditorService(repository, store)

	router := gin.New()
	healthHandler := handlers.NewHealthHandler(s.DB, attachmentDir)
	editorHandler := handlers.NewTaskEditorHandler(editorService)
	httpadapter.RegisterRoutes(router, healthHandler, editorHandler, integrationJWTSecret)

	s.router = router
	s.token = s.signToken("u-amelia")
}

func (s *EditorIntegrationSuite) signToken(subject string) string {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(integrationJWTSecret))
	s.Require().NoError(err)
	return token
}

func (s *EditorIntegrationSuite) authedRequest(method, target string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Accept-Language", translator.LanguageEn)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *EditorIntegrationSuite) fetchEditorBundle(taskID string) dto.EditorBundleResponse {
	rec := s.authedRequest(http.MethodGet, "/api/tasks/"+taskID+"/editor", nil, "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var got dto.EditorBundleResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	return got
}

func (s *EditorIntegrationSuite) TestHealthEndpointIsPublic() {
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusOK, rec.Code)
}

func (s *EditorIntegrationSuite) TestEditorEndpointsRequireAuth() {
	req := httptest.NewRequest(http.MethodGet, "/api/tasks/task-landing/editor", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusUnauthorized, rec.Code)
}

func (s *EditorIntegrationSuite) TestGetTaskEditor_ReturnsFullAggregate() {
	got := s.fetchEditorBundle("task-landing")

	s.Require().Equal("task-landing", got.Task.ID)
	s.Require().Equal("Finalize landing page copy", got.Task.Title)
	s.Require().Equal("P2", got.Task.Priority)
	s.Require().Equal("in_progress", got.Task.Status)
	s.Require().Equal(int64(1), got.Task.Version)
	s.Require().NotNil(got.Task.DueDate)

	s.Require().Len(got.Task.Assignees, 1)
	s.Require().Equal("u-bruno", got.Task.Assignees[0].ID)

	s.Require().Len(got.Task.Labels, 1)
	s.Require().Equal("l-urgent", got.Task.Labels[0].ID)

	s.Require().Len(got.Task.Reminders, 1)
	s.Require().Equal("email", got.Task.Reminders[0].Channel)

	s.Require().Len(got.Task.Subtasks, 1)
	s.Require().Equal("task-landing-hero", got.Task.Subtasks[0].ID)

	s.Require().Empty(got.Task.Attachments)

	// Team members, project members and the creator, de-duplicated.
	s.Require().Len(got.AvailableUsers, 3)
	// Team labels plus the global one.
	s.Require().Len(got.AvailableLabels, 3)
}

func (s *EditorIntegrationSuite) TestGetTaskEditor_NotFound() {
	rec := s.authedRequest(http.MethodGet, "/api/tasks/task-missing/editor", nil, "")
	s.Require().Equal(http.StatusNotFound, rec.Code)

	var got apierrors.JsonErr
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Equal("Task not found", got.ErrDetails.Message)
}

func (s *EditorIntegrationSuite) updateRequestFromBundle(bundle dto.EditorBundleResponse) dto.UpdateTaskRequest {
	req := dto.UpdateTaskRequest{
		Title:          bundle.Task.Title,
		Description:    bundle.Task.Description,
		Priority:       bundle.Task.Priority,
		Status:         bundle.Task.Status,
		StartDate:      bundle.Task.StartDate,
		DueDate:        bundle.Task.DueDate,
		RecurrenceRule: bundle.Task.RecurrenceRule,
		SectionID:      bundle.Task.SectionID,
		ProjectID:      bundle.Task.ProjectID,
		BaseVersion:    bundle.Task.Version,
	}
	for _, assignee := range bundle.Task.Assignees {
		req.AssigneeIDs = append(req.AssigneeIDs, assignee.ID)
	}
	for _, label := range bundle.Task.Labels {
		req.LabelIDs = append(req.LabelIDs, label.ID)
	}
	for _, reminder := range bundle.Task.Reminders {
		req.Reminders = append(req.Reminders, dto.ReminderPayload{
			ID:       reminder.ID,
			RemindAt: reminder.RemindAt,
			Channel:  reminder.Channel,
		})
	}
	for _, subtask := range bundle.Task.Subtasks {
		req.Subtasks = append(req.Subtasks, dto.SubtaskPayload{
			ID:     subtask.ID,
			Title:  subtask.Title,
			Status: subtask.Status,
		})
	}
	return req
}

func (s *EditorIntegrationSuite) putUpdate(taskID string, update dto.UpdateTaskRequest) *httptest.ResponseRecorder {
	body, err := json.Marshal(update)
	s.Require().NoError(err)
	return s.authedRequest(http.MethodPut, "/api/tasks/"+taskID, bytes.NewBuffer(body), "application/json")
}

func (s *EditorIntegrationSuite) TestUpdateTask_FullReplacementBumpsVersion() {
	bundle := s.fetchEditorBundle("task-landing")

	update := s.updateRequestFromBundle(bundle)
	update.Title = "Finalize landing page copy v2"
	update.Priority = "P1"
	update.Status = "blocked"
	update.AssigneeIDs = []string{"u-amelia", "u-chen"}
	update.LabelIDs = []string{"l-design"}
	update.Reminders = append(update.Reminders, dto.ReminderPayload{
		RemindAt: "2026-09-15T08:00:00Z",
		Channel:  "push",
	})
	update.Subtasks[0].Title = "Rewrite hero headline and subtitle"
	update.Subtasks[0].Status = "done"

	rec := s.putUpdate("task-landing", update)
	s.Require().Equal(http.StatusNoContent, rec.Code)

	got := s.fetchEditorBundle("task-landing")
	s.Require().Equal("Finalize landing page copy v2", got.Task.Title)
	s.Require().Equal("P1", got.Task.Priority)
	s.Require().Equal("blocked", got.Task.Status)
	s.Require().Equal(int64(2), got.Task.Version)

	s.Require().Len(got.Task.Assignees, 2)
	s.Require().Len(got.Task.Labels, 1)
	s.Require().Equal("l-design", got.Task.Labels[0].ID)

	s.Require().Len(got.Task.Reminders, 2)
	for _, reminder := range got.Task.Reminders {
		s.Require().NotNil(reminder.ID)
	}

	s.Require().Len(got.Task.Subtasks, 1)
	s.Require().Equal("Rewrite hero headline and subtitle", got.Task.Subtasks[0].Title)
	s.Require().Equal("done", got.Task.Subtasks[0].Status)
}

func (s *EditorIntegrationSuite) TestUpdateTask_StaleVersionConflicts() {
	bundle := s.fetchEditorBundle("task-landing")

	first := s.updateRequestFromBundle(bundle)
	first.Title = "First writer wins"
	s.Require().Equal(http.StatusNoContent, s.putUpdate("task-landing", first).Code)

	// Same base version again: the row moved on, the save must not
	// silently overwrite it.
	second := s.updateRequestFromBundle(bundle)
	second.Title = "Second writer loses"
	rec := s.putUpdate("task-landing", second)
	s.Require().Equal(http.StatusConflict, rec.Code)

	var got apierrors.JsonErr
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Equal("This task changed on the server, reload before saving", got.ErrDetails.Message)

	current := s.fetchEditorBundle("task-landing")
	s.Require().Equal("First writer wins", current.Task.Title)
	s.Require().Equal(int64(2), current.Task.Version)
}

func (s *EditorIntegrationSuite) TestUpdateTask_UnknownTask() {
	bundle := s.fetchEditorBundle("task-landing")
	update := s.updateRequestFromBundle(bundle)
	update.Subtasks = nil

	rec := s.putUpdate("task-missing", update)
	s.Require().Equal(http.StatusNotFound, rec.Code)
}

func (s *EditorIntegrationSuite) TestAttachmentLifecycle() {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("files", "brief.pdf")
	s.Require().NoError(err)
	_, err = part.Write([]byte("pdf-bytes"))
	s.Require().NoError(err)
	s.Require().NoError(writer.Close())

	rec := s.authedRequest(http.MethodPost, "/api/tasks/task-landing/attachments", &buf, writer.FormDataContentType())
	s.Require().Equal(http.StatusCreated, rec.Code)

	var created []dto.AttachmentItem
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &created))
	s.Require().Len(created, 1)
	s.Require().Equal("brief.pdf", created[0].FileName)

	content, err := os.ReadFile(created[0].FilePath)
	s.Require().NoError(err)
	s.Require().Equal([]byte("pdf-bytes"), content)

	bundle := s.fetchEditorBundle("task-landing")
	s.Require().Len(bundle.Task.Attachments, 1)

	rec = s.authedRequest(http.MethodDelete, "/api/attachments/"+created[0].ID, nil, "")
	s.Require().Equal(http.StatusNoContent, rec.Code)

	bundle = s.fetchEditorBundle("task-landing")
	s.Require().Empty(bundle.Task.Attachments)

	_, err = os.Stat(created[0].FilePath)
	s.Require().True(os.IsNotExist(err))
}

func (s *EditorIntegrationSuite) TestRemoveAttachment_UnknownID() {
	rec := s.authedRequest(http.MethodDelete, "/api/attachments/a-missing", nil, "")
	s.Require().Equal(http.StatusNotFound, rec.Code)
}

func (s *EditorIntegrationSuite) TestCreateSubtask_AppearsInParentEditor() {
	parentID := "task-landing"
	projectID := "p-launch"
	body, err := json.Marshal(dto.CreateTaskRequest{
		Title:        "Collect pricing screenshots",
		ProjectID:    &projectID,
		ParentTaskID: &parentID,
	})
	s.Require().NoError(err)

	rec := s.authedRequest(http.MethodPost, "/api/tasks", bytes.NewBuffer(body), "application/json")
	s.Require().Equal(http.StatusCreated, rec.Code)

	var created dto.CreateTaskResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &created))
	s.Require().NotEmpty(created.ID)

	bundle := s.fetchEditorBundle("task-landing")
	s.Require().Len(bundle.Task.Subtasks, 2)

	found := false
	for _, subtask := range bundle.Task.Subtasks {
		if subtask.ID == created.ID {
			found = true
			s.Require().Equal("Collect pricing screenshots", subtask.Title)
			s.Require().Equal("open", subtask.Status)
		}
	}
	s.Require().True(found)
}

func (s *EditorIntegrationSuite) TestCreateSubtask_UnknownParent() {
	parentID := "task-missing"
	body, err := json.Marshal(dto.CreateTaskRequest{
		Title:        "orphan",
		ParentTaskID: &parentID,
	})
	s.Require().NoError(err)

	rec := s.authedRequest(http.MethodPost, "/api/tasks", bytes.NewBuffer(body), "application/json")
	s.Require().Equal(http.StatusNotFound, rec.Code)
}
