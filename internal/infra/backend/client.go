package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"portfolio-site/internal/domain/works"
)

var ErrNotConfigured = errors.New("backend API url is not configured")

// StatusError is returned for any non-2xx answer from the backend or the
// storage service.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
}

// PresignedUpload is the answer of GET /works/presigned-url.
type PresignedUpload struct {
	PresignedURL string `json:"presignedUrl"`
	FileURL      string `json:"fileUrl"`
}

// Client talks to the works REST API. It holds no state besides the base
// URL and the http client, so one value is shared by all handlers.
type Client struct {
	baseURL string
	http    *http.Client
}

// New uses http.DefaultClient when httpClient is nil. Requests are bounded
// only by their context, so large uploads are never cut off.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrNotConfigured
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("backend API url: %w", err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: httpClient}, nil
}

// ------------------------------
// works
// ------------------------------

// ListWorks fetches every work, unfiltered.
func (c *Client) ListWorks(ctx context.Context) ([]works.Work, error) {
	var out []works.Work
	if err := c.doJSON(ctx, "list works", http.MethodGet, "/works", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []works.Work{}
	}
	return out, nil
}

// GetWork returns nil without error when the backend answers 404.
func (c *Client) GetWork(ctx context.Context, id string) (*works.Work, error) {
	var w works.Work
	err := c.doJSON(ctx, "get work", http.MethodGet, "/works/"+url.PathEscape(id), nil, &w)
	var se *StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) CreateWork(ctx context.Context, w works.Work) (works.Work, error) {
	w.ID = ""
	return c.saveWork(ctx, "create work", http.MethodPost, "/works", w)
}

func (c *Client) UpdateWork(ctx context.Context, id string, w works.Work) (works.Work, error) {
	if id == "" {
		return works.Work{}, errors.New("update work: id is required")
	}
	w.ID = id
	return c.saveWork(ctx, "update work", http.MethodPut, "/works/"+url.PathEscape(id), w)
}

func (c *Client) saveWork(ctx context.Context, op, method, path string, w works.Work) (works.Work, error) {
	body, err := json.Marshal(w)
	if err != nil {
		return works.Work{}, fmt.Errorf("%s: encode payload: %w", op, err)
	}
	var saved works.Work
	if err := c.doJSON(ctx, op, method, path, bytes.NewReader(body), &saved); err != nil {
		return works.Work{}, err
	}
	// some revisions answer with {"id": ...} only
	if saved.Title == "" && saved.ID != "" {
		id := saved.ID
		saved = w
		saved.ID = id
	}
	if saved.ID == "" {
		saved.ID = w.ID
	}
	return saved, nil
}

// ------------------------------
// uploads
// ------------------------------

// PresignedURL asks the backend for a direct-upload URL for filename.
func (c *Client) PresignedURL(ctx context.Context, filename string) (PresignedUpload, error) {
	q := url.Values{"filename": {filename}}
	var out PresignedUpload
	if err := c.doJSON(ctx, "presigned url", http.MethodGet, "/works/presigned-url?"+q.Encode(), nil, &out); err != nil {
		return PresignedUpload{}, err
	}
	if out.PresignedURL == "" || out.FileURL == "" {
		return PresignedUpload{}, fmt.Errorf("presigned url: incomplete answer for %q", filename)
	}
	return out, nil
}

// UploadToURL PUTs the bytes straight to object storage.
func (c *Client) UploadToURL(ctx context.Context, presignedURL, contentType string, body io.Reader, size int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, presignedURL, body)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	if size >= 0 {
		req.ContentLength = size
	}
	req.Header.Set("Content-Type", contentType)

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return statusError("upload", res)
	}
	_, _ = io.Copy(io.Discard, res.Body)
	return nil
}

// UploadLegacy is the single-step uploader: multipart POST /upload with a
// "file" field, answered by {"url": ...}.
func (c *Client) UploadLegacy(ctx context.Context, filename string, body io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("legacy upload: %w", err)
	}
	if _, err := io.Copy(part, body); err != nil {
		return "", fmt.Errorf("legacy upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("legacy upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return "", fmt.Errorf("legacy upload: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		URL string `json:"url"`
	}
	if err := c.send(req, "legacy upload", &out); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", errors.New("legacy upload: answer has no url")
	}
	return out.URL, nil
}

// ------------------------------
// plumbing
// ------------------------------

func (c *Client) doJSON(ctx context.Context, op, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, op, out)
}

func (c *Client) send(req *http.Request, op string, out any) error {
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return statusError(op, res)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%s: decode answer: %w", op, err)
	}
	return nil
}

func statusError(op string, res *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	return &StatusError{Op: op, StatusCode: res.StatusCode, Body: strings.TrimSpace(string(snippet))}
}
