// File path: internal/upload/datauri.go
package upload

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/nicodishanthj/advisor_portal/internal/portal"
)

var errNotDataURI = errors.New("content is not a data URI")

// ContentType guesses the MIME type from the file extension.
func ContentType(filename string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// DataURI encodes data as a base64 data URI.
func DataURI(contentType string, data []byte) string {
	if strings.TrimSpace(contentType) == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI splits a data URI into its media type and payload.
func DecodeDataURI(uri string) (string, []byte, error) {
	if !strings.HasPrefix(uri, "data:") {
		return "", nil, errNotDataURI
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return "", nil, fmt.Errorf("data URI missing payload separator")
	}
	contentType := header
	encoded := false
	if strings.HasSuffix(header, ";base64") {
		contentType = strings.TrimSuffix(header, ";base64")
		encoded = true
	}
	if contentType == "" {
		contentType = "text/plain;charset=US-ASCII"
	}
	if encoded {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", nil, fmt.Errorf("decode data URI: %w", err)
		}
		return contentType, data, nil
	}
	text, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, fmt.Errorf("unescape data URI: %w", err)
	}
	return contentType, []byte(text), nil
}

// Download is the body served for a download request.
type Download struct {
	Filename    string
	ContentType string
	Body        []byte
	Placeholder bool
}

// Payload returns the stored content of doc, or a plain-text placeholder
// describing the document when nothing was uploaded.
func Payload(doc portal.Document) (Download, error) {
	if doc.HasContent() {
		contentType, body, err := DecodeDataURI(doc.Content)
		if err != nil {
			return Download{}, err
		}
		return Download{Filename: doc.Name, ContentType: contentType, Body: body}, nil
	}
	return Download{
		Filename:    doc.Name,
		ContentType: "text/plain; charset=utf-8",
		Body:        []byte(placeholderText(doc)),
		Placeholder: true,
	}, nil
}

func placeholderText(doc portal.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Document: %s\n", doc.Name)
	fmt.Fprintf(&b, "Category: %s\n", doc.Category)
	fmt.Fprintf(&b, "Project: %s\n", doc.Project)
	fmt.Fprintf(&b, "Uploaded: %s\n", doc.UploadDate)
	fmt.Fprintf(&b, "Size: %s\n", doc.Size)
	if len(doc.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(doc.Tags, ", "))
	}
	b.WriteString("\nThis is a sample file. The original document is held by your advisor.\n")
	return b.String()
}
