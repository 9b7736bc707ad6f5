package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/nulltale/nulltale-go/tool"
	"github.com/nulltale/nulltale-go/types"
)

// Client is the REST boundary to the NullTale backend. Every operation
// issues one HTTP request; any non-2xx status collapses into a generic
// error without inspecting the error body.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a gateway client for the given backend base URL
// (e.g. "http://localhost:5000").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: tool.GetHttpClient(),
	}
}

// NewClientWithHTTP creates a gateway client with a custom HTTP client.
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = tool.GetHttpClient()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// BaseURL returns the backend base URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doJSON issues the request and decodes a JSON body into out (skipped when
// out is nil). Non-2xx statuses become a generic failure.
func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if req.Context().Err() != nil {
			return fmt.Errorf("request cancelled: %w", req.Context().Err())
		}
		return fmt.Errorf("failed to send request: %v", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close response body: %v", err)
		}
	}()

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return fmt.Errorf("failed to read response body: %v", readErr)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("request failed: %s", resp.Status)
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %v", err)
	}
	return nil
}

func (c *Client) newJSONRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	var reader io.Reader
	if payload != nil {
		data, err := sonic.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// SendMessage posts a chat message into a session.
func (c *Client) SendMessage(ctx context.Context, content, sessionID string) (*types.ChatResponse, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/api/chat", types.ChatRequest{
		Content:   content,
		SessionID: sessionID,
	})
	if err != nil {
		return nil, err
	}
	var response types.ChatResponse
	if err := c.doJSON(req, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// GetMessages fetches the message history of a session.
func (c *Client) GetMessages(ctx context.Context, sessionID string) (*types.MessagesResponse, error) {
	req, err := c.newJSONRequest(ctx, http.MethodGet, "/api/messages/"+sessionID, nil)
	if err != nil {
		return nil, err
	}
	var response types.MessagesResponse
	if err := c.doJSON(req, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// GetSessions lists chat sessions.
func (c *Client) GetSessions(ctx context.Context) (*types.SessionsResponse, error) {
	req, err := c.newJSONRequest(ctx, http.MethodGet, "/api/sessions", nil)
	if err != nil {
		return nil, err
	}
	var response types.SessionsResponse
	if err := c.doJSON(req, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// CreateSession creates a new chat session.
func (c *Client) CreateSession(ctx context.Context, name string) (*types.Session, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/api/sessions", types.CreateSessionRequest{Name: name})
	if err != nil {
		return nil, err
	}
	var session types.Session
	if err := c.doJSON(req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteSession deletes a chat session.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	req, err := c.newJSONRequest(ctx, http.MethodDelete, "/api/sessions/"+sessionID, nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, nil)
}

// UploadFile uploads one file into a category as multipart form data with
// field name "file".
func (c *Client) UploadFile(ctx context.Context, category types.UploadCategory, fileName string, data io.Reader) (*types.UploadResponse, error) {
	if fileName == "" {
		return nil, fmt.Errorf("invalid parameters: fileName must not be empty")
	}
	if data == nil {
		return nil, fmt.Errorf("invalid parameters: data must not be nil")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart form: %v", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return nil, fmt.Errorf("failed to write file data: %v", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart form: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/files/"+string(category), &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var response types.UploadResponse
	if err := c.doJSON(req, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// SelectZipConversations imports the chosen conversations of a pending
// chat export archive. The backend replies with the batch upload shape.
func (c *Client) SelectZipConversations(ctx context.Context, zipID string, folderNames []string) (*types.UploadResponse, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/api/files/text/zip/select", types.ZipSelectRequest{
		ZipID:         zipID,
		Conversations: folderNames,
	})
	if err != nil {
		return nil, err
	}
	var response types.UploadResponse
	if err := c.doJSON(req, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// ListFiles lists the backend's stored files for a category.
func (c *Client) ListFiles(ctx context.Context, category types.UploadCategory) (*types.FileListResponse, error) {
	req, err := c.newJSONRequest(ctx, http.MethodGet, "/api/files/"+string(category), nil)
	if err != nil {
		return nil, err
	}
	var response types.FileListResponse
	if err := c.doJSON(req, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// DeleteFile removes a stored file from a category.
func (c *Client) DeleteFile(ctx context.Context, category types.UploadCategory, fileID string) error {
	req, err := c.newJSONRequest(ctx, http.MethodDelete, "/api/files/"+string(category)+"/"+fileID, nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, nil)
}

// SetFileSubject assigns a subject to a stored file.
func (c *Client) SetFileSubject(ctx context.Context, category types.UploadCategory, fileID, subject string) error {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/api/files/"+string(category)+"/"+fileID+"/subject", map[string]string{"subject": subject})
	if err != nil {
		return err
	}
	return c.doJSON(req, nil)
}

// RefreshMemory triggers backend reindexing of the uploaded material. The
// call returns only success or failure; progress is simulated client-side.
func (c *Client) RefreshMemory(ctx context.Context) error {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/api/refresh", nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, nil)
}

// CheckRefreshReady asks whether the backend has enough material to refresh.
func (c *Client) CheckRefreshReady(ctx context.Context) (*types.RefreshReadyResponse, error) {
	req, err := c.newJSONRequest(ctx, http.MethodGet, "/api/refresh/ready", nil)
	if err != nil {
		return nil, err
	}
	var response types.RefreshReadyResponse
	if err := c.doJSON(req, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// GetSettings fetches the backend settings object.
func (c *Client) GetSettings(ctx context.Context) (*types.Settings, error) {
	req, err := c.newJSONRequest(ctx, http.MethodGet, "/api/settings", nil)
	if err != nil {
		return nil, err
	}
	var settings types.Settings
	if err := c.doJSON(req, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings writes the backend settings object.
func (c *Client) UpdateSettings(ctx context.Context, settings types.Settings) (*types.Settings, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPut, "/api/settings", settings)
	if err != nil {
		return nil, err
	}
	var response types.UpdateSettingsResponse
	if err := c.doJSON(req, &response); err != nil {
		return nil, err
	}
	return &response.Settings, nil
}
