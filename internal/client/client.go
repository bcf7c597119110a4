// Package client talks to the catalog HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/imgcatalog/backend/internal/models"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a Client from a server URL such as http://localhost:8080.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/") + "/api",
		HTTPClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

// Response is the { success, data, error } envelope returned by the server.
type Response[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error,omitempty"`
}

type UploadResult struct {
	FileName string `json:"fileName"`
	FileURL  string `json:"fileUrl"`
	FileSize int64  `json:"fileSize"`
	Message  string `json:"message"`
}

// APIError is returned when the server answers with a non-2xx status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var resp Response[[]models.Category]
	if err := c.get(ctx, "/categories", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var resp Response[models.Category]
	if err := c.get(ctx, fmt.Sprintf("/categories/%d", id), &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) CreateCategory(ctx context.Context, title string) (*models.Category, error) {
	var resp Response[models.Category]
	if err := c.sendJSON(ctx, http.MethodPost, "/categories", map[string]string{"title": title}, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id uint) error {
	return c.sendJSON(ctx, http.MethodDelete, fmt.Sprintf("/categories/%d", id), nil, nil)
}

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var resp Response[[]models.Product]
	if err := c.get(ctx, "/products", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) ListProductsByCategory(ctx context.Context, categoryID uint) ([]models.Product, error) {
	var resp Response[[]models.Product]
	if err := c.get(ctx, fmt.Sprintf("/products/category/%d", categoryID), &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var resp Response[[]models.User]
	if err := c.get(ctx, "/users", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// UploadFile streams a local image to the standalone upload endpoint.
func (c *Client) UploadFile(ctx context.Context, filePath string) (*UploadResult, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		part, err := writer.CreateFormFile("file", filepath.Base(filePath))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, f); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	req, err := c.newRequest(ctx, http.MethodPost, "/files/upload", pr)
	if err != nil {
		_ = pr.Close()
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var resp Response[UploadResult]
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(data)
	}
	req, err := c.newRequest(ctx, method, path, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
			return &APIError{Status: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
