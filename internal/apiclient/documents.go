package apiclient

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

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/lifecycle"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
)

// DocumentUpload описывает загружаемый документ компании.
type DocumentUpload struct {
	CompanyID   string
	Name        string
	Type        models.DocumentType
	FileName    string
	ContentType string
	File        io.Reader
}

// UploadDocument загружает документ полями multipart: file, name, type.
func (c *Client) UploadDocument(ctx context.Context, up DocumentUpload) (*models.Document, error) {
	switch {
	case up.File == nil:
		return nil, &lifecycle.ValidationError{Field: "file", Reason: "is required"}
	case strings.TrimSpace(up.Name) == "":
		return nil, &lifecycle.ValidationError{Field: "name", Reason: "is required"}
	case !up.Type.IsValid():
		return nil, &lifecycle.ValidationError{Field: "type", Reason: fmt.Sprintf("unsupported document type %q", up.Type)}
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := [][2]string{{"name", up.Name}, {"type", string(up.Type)}, {"companyId", up.CompanyID}}
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, err
		}
	}
	if err := writeFilePart(mw, up.FileName, up.ContentType, up.File); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, endpoint("api", "documents"), nil, &buf, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}
	var doc models.Document
	if err := c.send(req, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Documents возвращает документы компании.
func (c *Client) Documents(ctx context.Context, companyID string) ([]models.Document, error) {
	var out Collection[models.Document]
	q := url.Values{"companyId": {companyID}}
	if err := c.do(ctx, http.MethodGet, endpoint("api", "documents"), q, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// DeleteDocument удаляет документ.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, endpoint("api", "documents", id), nil, nil, nil)
}

func writeFilePart(mw *multipart.Writer, fileName, contentType string, r io.Reader) error {
	if fileName == "" {
		fileName = "upload"
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(fileName)))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("write file part: %w", err)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
