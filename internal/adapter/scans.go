package adapter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	apperrors "github.com/cardvault-cli/internal/errors"
	"github.com/cardvault-cli/internal/models"
	"github.com/cardvault-cli/internal/types"
)

// ScanUpload is an image submitted for recognition
type ScanUpload struct {
	Filename    string
	ContentType string
	Content     io.Reader
	ScanType    types.ScanType
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (u ScanUpload) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, quoteEscaper.Replace(u.Filename)))
	contentType := u.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, u.Content); err != nil {
		return nil, "", fmt.Errorf("reading image: %w", err)
	}
	if err := w.WriteField("scan_type", string(u.ScanType)); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

// UploadScan submits an image as multipart form data (fields image and scan_type)
func (c *Client) UploadScan(ctx context.Context, u ScanUpload) (*models.ScanReceipt, error) {
	if u.Content == nil {
		return nil, apperrors.NewValidationError("no image selected")
	}
	body, contentType, err := u.encode()
	if err != nil {
		return nil, apperrors.NewInternalError("encoding upload", err)
	}

	var receipt models.ScanReceipt
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/scans/upload",
		body:        body,
		contentType: contentType,
		fallback:    "Upload failed",
	}, &receipt)
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// GetScan fetches the current state of a scan
func (c *Client) GetScan(ctx context.Context, scanID string) (*models.ScanRecord, error) {
	var record models.ScanRecord
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/scans/" + url.PathEscape(scanID),
		fallback: "Failed to fetch scan status",
	}, &record)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// SaveScan persists the given detections to the inventory
func (c *Client) SaveScan(ctx context.Context, scanID string, cardIDs []string) (*models.SaveResult, error) {
	body, err := jsonBody(map[string][]string{"card_ids": cardIDs})
	if err != nil {
		return nil, err
	}

	var result models.SaveResult
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/scans/" + url.PathEscape(scanID) + "/save",
		body:        body,
		contentType: "application/json",
		fallback:    "Failed to save to inventory",
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
