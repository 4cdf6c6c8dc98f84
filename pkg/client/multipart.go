package client

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"staybook/pkg/model"
)

type filePart struct {
	field  string
	upload *model.Upload
}

// Multipart is an ordered multipart/form-data body.
type Multipart struct {
	fields [][2]string
	files  []filePart
}

func NewMultipart() *Multipart {
	return &Multipart{}
}

func (m *Multipart) Field(name, value string) *Multipart {
	m.fields = append(m.fields, [2]string{name, value})
	return m
}

// File attaches upload under field. A nil upload is skipped, which keeps optional
// pictures optional.
func (m *Multipart) File(field string, upload *model.Upload) *Multipart {
	if upload == nil || upload.Content == nil {
		return m
	}
	m.files = append(m.files, filePart{field: field, upload: upload})
	return m
}

func (m *Multipart) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, f := range m.fields {
		if err := writer.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("field %s: %w", f[0], err)
		}
	}

	for _, f := range m.files {
		part, err := writer.CreateFormFile(f.field, f.upload.FileName)
		if err != nil {
			return nil, "", fmt.Errorf("file %s: %w", f.field, err)
		}
		if _, err := io.Copy(part, f.upload.Content); err != nil {
			return nil, "", fmt.Errorf("file %s: %w", f.field, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}
