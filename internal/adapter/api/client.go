// Package api is the editor's HTTP gateway: it implements
// ports.TaskGateway against the task service's editor endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/faha1999/team-to-do-app-sub000/internal/adapter/http/dto"
	"github.com/faha1999/team-to-do-app-sub000/internal/core/domain"
	"github.com/faha1999/team-to-do-app-sub000/internal/core/ports"
	"github.com/faha1999/team-to-do-app-sub000/pkg/apierrors"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	lang       string
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithLanguage(lang string) Option {
	return func(c *Client) { c.lang = lang }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		lang:       "en",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ ports.TaskGateway = (*Client)(nil)

func (c *Client) FetchEditorBundle(ctx context.Context, taskID string) (domain.EditorBundle, error) {
	if strings.TrimSpace(taskID) == "" {
		return domain.EditorBundle{}, fmt.Errorf("fetch editor bundle: %w", domain.ErrTaskNotFound)
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/api/tasks/"+url.PathEscape(taskID)+"/editor", nil, "")
	if err != nil {
		return domain.EditorBundle{}, err
	}

	var body dto.EditorBundleResponse
	if err := c.do(req, domain.ErrTaskNotFound, &body); err != nil {
		return domain.EditorBundle{}, err
	}

	return toEditorBundle(body)
}

func (c *Client) UpdateTask(ctx context.Context, taskID string, payload domain.UpdateTaskPayload) error {
	content, err := json.Marshal(toUpdateTaskRequest(payload))
	if err != nil {
		return fmt.Errorf("encode update payload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(taskID), bytes.NewReader(content), "application/json")
	if err != nil {
		return err
	}

	return c.do(req, domain.ErrTaskNotFound, nil)
}

func (c *Client) UploadAttachments(ctx context.Context, taskID string, files []domain.FileUpload) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, file := range files {
		part, err := writer.CreateFormFile("files", file.Name)
		if err != nil {
			return fmt.Errorf("build multipart body: %w", err)
		}
		if _, err := part.Write(file.Content); err != nil {
			return fmt.Errorf("build multipart body: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("build multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/tasks/"+url.PathEscape(taskID)+"/attachments", &buf, writer.FormDataContentType())
	if err != nil {
		return err
	}

	return c.do(req, domain.ErrTaskNotFound, nil)
}

func (c *Client) RemoveAttachment(ctx context.Context, attachmentID string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/attachments/"+url.PathEscape(attachmentID), nil, "")
	if err != nil {
		return err
	}

	return c.do(req, domain.ErrAttachmentNotFound, nil)
}

func (c *Client) CreateSubtask(ctx context.Context, input domain.CreateSubtaskInput) error {
	parentID := input.ParentTaskID
	content, err := json.Marshal(dto.CreateTaskRequest{
		Title:        input.Title,
		ProjectID:    input.ProjectID,
		SectionID:    input.SectionID,
		ParentTaskID: &parentID,
	})
	if err != nil {
		return fmt.Errorf("encode create payload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/tasks", bytes.NewReader(content), "application/json")
	if err != nil {
		return err
	}

	return c.do(req, domain.ErrTaskNotFound, nil)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept-Language", c.lang)
	return req, nil
}

// do runs the request and, on a 2xx, decodes the body into out when
// one is wanted. notFound is the sentinel a 404 maps to; a given call
// knows whether that means the task or the attachment.
func (c *Client) do(req *http.Request, notFound error, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, domain.ErrUnauthorized)
	case http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, notFound)
	case http.StatusConflict:
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, domain.ErrVersionConflict)
	}

	var jsonErr apierrors.JsonErr
	if err := json.NewDecoder(resp.Body).Decode(&jsonErr); err == nil && jsonErr.ErrDetails.Message != "" {
		return jsonErr
	}
	return fmt.Errorf("%s %s: unexpected status %d", req.Method, req.URL.Path, resp.StatusCode)
}
