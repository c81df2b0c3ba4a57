// File path: internal/upload/batch.go
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/nicodishanthj/advisor_portal/internal/common"
	"github.com/nicodishanthj/advisor_portal/internal/common/telemetry"
	"github.com/nicodishanthj/advisor_portal/internal/portal"
)

// DefaultProject is the soft project reference given to uploads that do not
// name one.
const DefaultProject = "General"

// DefaultMaxBytes caps a single uploaded file.
const DefaultMaxBytes int64 = 50 << 20

var (
	ErrNotAllowed = errors.New("file type not allowed")
	ErrTooLarge   = errors.New("file exceeds upload limit")
)

// File is one member of an upload batch. Open is called once, when the
// file's turn comes.
type File struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// Result reports the outcome for one file of a batch.
type Result struct {
	Name     string           `json:"name"`
	Document *portal.Document `json:"document,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// OK reports whether the file was committed.
func (r Result) OK() bool {
	return r.Document != nil
}

// Sink receives committed documents.
type Sink interface {
	AddDocument(portal.Document)
	Today() string
}

// Batch processes uploads sequentially, committing each file as soon as it
// has been read.
type Batch struct {
	sink     Sink
	project  string
	maxBytes int64
	newID    func() string
}

type BatchOption func(*Batch)

// WithProject sets the project name recorded on uploaded documents.
func WithProject(name string) BatchOption {
	return func(b *Batch) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			b.project = trimmed
		}
	}
}

// WithMaxBytes overrides the per-file size cap.
func WithMaxBytes(n int64) BatchOption {
	return func(b *Batch) {
		if n > 0 {
			b.maxBytes = n
		}
	}
}

// WithIDGenerator overrides document identifier generation.
func WithIDGenerator(fn func() string) BatchOption {
	return func(b *Batch) {
		if fn != nil {
			b.newID = fn
		}
	}
}

func NewBatch(sink Sink, opts ...BatchOption) *Batch {
	b := &Batch{
		sink:     sink,
		project:  DefaultProject,
		maxBytes: DefaultMaxBytes,
		newID:    func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Project returns the project name recorded on uploaded documents.
func (b *Batch) Project() string {
	return b.project
}

// Process reads files one after another. A failing file is reported in its
// Result and the remaining files are still attempted; files committed
// before a failure stay committed.
func (b *Batch) Process(ctx context.Context, files []File) []Result {
	logger := common.Logger()
	results := make([]Result, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			results = append(results, Result{Name: file.Name, Error: err.Error()})
			telemetry.RecordUpload(false, 0)
			continue
		}
		doc, size, err := b.processOne(file)
		if err != nil {
			logger.Warn("upload: file rejected", "file", file.Name, "error", err)
			results = append(results, Result{Name: file.Name, Error: err.Error()})
			telemetry.RecordUpload(false, 0)
			continue
		}
		b.sink.AddDocument(doc)
		telemetry.RecordUpload(true, size)
		logger.Info("upload: document committed", "file", file.Name, "category", doc.Category, "size", doc.Size)
		committed := doc
		results = append(results, Result{Name: file.Name, Document: &committed})
	}
	return results
}

func (b *Batch) processOne(file File) (portal.Document, int64, error) {
	name := strings.TrimSpace(file.Name)
	if name == "" {
		return portal.Document{}, 0, fmt.Errorf("file name required")
	}
	if !Allowed(name) {
		return portal.Document{}, 0, fmt.Errorf("%s: %w", name, ErrNotAllowed)
	}
	if file.Open == nil {
		return portal.Document{}, 0, fmt.Errorf("%s: no content", name)
	}
	if err := telemetry.CheckMemoryBudget("upload"); err != nil {
		return portal.Document{}, 0, err
	}
	rc, err := file.Open()
	if err != nil {
		return portal.Document{}, 0, fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, b.maxBytes+1))
	if err != nil {
		return portal.Document{}, 0, fmt.Errorf("read %s: %w", name, err)
	}
	if int64(len(data)) > b.maxBytes {
		return portal.Document{}, 0, fmt.Errorf("%s: %w", name, ErrTooLarge)
	}
	class := Classify(name)
	doc := portal.Document{
		ID:         b.newID(),
		Name:       name,
		Category:   class.Category,
		Project:    b.project,
		UploadDate: b.sink.Today(),
		Size:       FormatSize(int64(len(data))),
		Tags:       class.Tags,
		Type:       class.Type,
		Content:    DataURI(ContentType(name), data),
	}
	return doc, int64(len(data)), nil
}
