package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// Upload sends a file as multipart form field "file" and returns its public URL.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("client.Upload: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("client.Upload: copy: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("client.Upload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/media/upload", &buf)
	if err != nil {
		return "", fmt.Errorf("client.Upload: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.send(req)
	if err != nil {
		return "", fmt.Errorf("client.Upload: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	var out struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("client.Upload: decode response: %w", err)
	}
	return out.URL, nil
}
