package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/diarify/internal/client/models"
)

// FilePart is one file of a multipart upload.
type FilePart struct {
	Field       string
	FileName    string
	ContentType string
	Content     io.Reader
}

// FormField is a plain value of a multipart upload. A slice keeps the part
// order stable.
type FormField struct {
	Name  string
	Value string
}

// FetchUploadWithAuth posts a multipart form. The Content-Type header comes
// from the multipart writer, not the JSON default.
func (c *Client) FetchUploadWithAuth(ctx context.Context, path string, fields []FormField, files []FilePart) (*models.Envelope, error) {
	body, contentType, err := buildMultipart(fields, files)
	if err != nil {
		return nil, err
	}
	r := Request{
		Method: http.MethodPost,
		Body:   body,
		Header: http.Header{"Content-Type": {contentType}},
	}
	return c.do(ctx, path, r, true, false)
}

func buildMultipart(fields []FormField, files []FilePart) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.Name, err)
		}
	}

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.FileName))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create part %s: %w", f.FileName, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, "", fmt.Errorf("copy %s: %w", f.FileName, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// openImage reads a local file into a FilePart, detecting its content type
// from the extension and falling back to sniffing the first bytes.
func openImage(field, path string) (FilePart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FilePart{}, fmt.Errorf("read image: %w", err)
	}

	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}

	return FilePart{
		Field:       field,
		FileName:    filepath.Base(path),
		ContentType: ct,
		Content:     bytes.NewReader(data),
	}, nil
}
