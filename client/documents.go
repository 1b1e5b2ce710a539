package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// ErrNotPDF reports a rejected upload before any network traffic happens.
var ErrNotPDF = fmt.Errorf("only PDF documents are accepted")

// ListDocuments returns the documents attached to a contract.
func (c *Client) ListDocuments(ctx context.Context, contractID uint) ([]Document, error) {
	var docs []Document
	found, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/contracts/%d/documents", contractID), nil, &docs)
	if err != nil {
		return nil, err
	}
	if !found {
		return []Document{}, nil
	}
	return docs, nil
}

// UploadDocument attaches a PDF to a contract. The extension is checked
// locally first so an obviously wrong file never leaves the machine.
func (c *Client) UploadDocument(ctx context.Context, contractID uint, fileName string, content io.Reader) (*Document, error) {
	if !strings.EqualFold(filepath.Ext(fileName), ".pdf") {
		return nil, ErrNotPDF
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("document", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/contracts/%d/documents", contractID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api"+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.roundTrip(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, apiErrorFromResponse(resp)
	}

	var doc Document
	if err := decodeJSON(resp.Body, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DownloadDocument streams a document into w and returns the server-supplied
// filename. When the Content-Disposition header is missing or unreadable,
// the name falls back to document-<id>.pdf.
func (c *Client) DownloadDocument(ctx context.Context, id uint, w io.Writer) (string, error) {
	path := fmt.Sprintf("/documents/%d/download", id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api"+path, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.roundTrip(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", apiErrorFromResponse(resp)
	}

	fileName := fmt.Sprintf("document-%d.pdf", id)
	if disposition := resp.Header.Get("Content-Disposition"); disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if name := params["filename"]; name != "" {
				fileName = name
			}
		}
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return "", fmt.Errorf("download interrupted: %w", err)
	}
	return fileName, nil
}

// DeleteDocument removes a document and its stored file.
func (c *Client) DeleteDocument(ctx context.Context, id uint) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/documents/%d", id), nil, nil)
	return err
}
