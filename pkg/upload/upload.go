package upload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// FieldName is the multipart field carrying the upload.
const FieldName = "file"

// DefaultMaxBodyBytes caps the request body when Config.MaxBodyBytes is zero.
const DefaultMaxBodyBytes = 32 << 20

const tracerName = "github.com/vango-dev/lexmart/pkg/upload"

var (
	// ErrNoFile is returned when the request has no "file" part.
	ErrNoFile = errors.New("upload: no file in request")

	// ErrStore wraps any failure reported by the MediaStore.
	ErrStore = errors.New("upload: media store failed")
)

// Meta describes a spooled upload.
type Meta struct {
	Filename    string
	ContentType string
	Size        int64
}

// MediaStore forwards a spooled file to a storage provider.
// path names a temporary file that is removed after Upload returns.
type MediaStore interface {
	Upload(ctx context.Context, path string, meta Meta) (url string, err error)
}

// StoreFunc adapts a function to MediaStore.
type StoreFunc func(ctx context.Context, path string, meta Meta) (string, error)

// Upload implements MediaStore.
func (f StoreFunc) Upload(ctx context.Context, path string, meta Meta) (string, error) {
	return f(ctx, path, meta)
}

// Config configures the upload handler.
type Config struct {
	// MaxBodyBytes caps the request body (default: 32MB).
	MaxBodyBytes int64

	// TempDir is where uploads are spooled (default: os.TempDir()).
	TempDir string

	Logger *slog.Logger
}

// Response is the JSON body of every answer from the handler.
type Response struct {
	ImageURL string `json:"imageUrl,omitempty"`
	Error    string `json:"error,omitempty"`
}

type handler struct {
	store  MediaStore
	config Config
	logger *slog.Logger
	tracer trace.Tracer
}

// Handler returns the upload route. It expects to be mounted for POST only.
func Handler(store MediaStore, cfg Config) http.Handler {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &handler{
		store:  store,
		config: cfg,
		logger: logger.With("component", "upload"),
		tracer: otel.Tracer(tracerName),
	}
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "upload.receive", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes)

	path, meta, err := h.spool(r)
	if err != nil {
		h.fail(w, span, err)
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			h.logger.Warn("temp file not removed", "path", path, "error", err)
		}
	}()

	span.SetAttributes(
		attribute.String("upload.filename", meta.Filename),
		attribute.String("upload.content_type", meta.ContentType),
		attribute.Int64("upload.size", meta.Size),
	)

	url, err := h.store.Upload(ctx, path, meta)
	if err != nil {
		h.fail(w, span, fmt.Errorf("%w: %w", ErrStore, err))
		return
	}

	h.logger.Info("upload stored", "filename", meta.Filename, "size", meta.Size, "url", url)
	span.SetStatus(codes.Ok, "")
	writeJSON(w, http.StatusOK, Response{ImageURL: url})
}

// spool copies the first "file" part into a temporary file.
func (h *handler) spool(r *http.Request) (string, Meta, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return "", Meta{}, fmt.Errorf("%w: %w", ErrNoFile, err)
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return "", Meta{}, ErrNoFile
		}
		if err != nil {
			return "", Meta{}, fmt.Errorf("upload: reading multipart body: %w", err)
		}
		if part.FormName() != FieldName || part.FileName() == "" {
			part.Close()
			continue
		}
		path, meta, err := h.writeTemp(part)
		part.Close()
		return path, meta, err
	}
}

func (h *handler) writeTemp(part *multipart.Part) (string, Meta, error) {
	name := filepath.Base(part.FileName())
	f, err := os.CreateTemp(h.config.TempDir, "lexmart-upload-*"+filepath.Ext(name))
	if err != nil {
		return "", Meta{}, fmt.Errorf("upload: creating temp file: %w", err)
	}

	n, err := io.Copy(f, part)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return "", Meta{}, fmt.Errorf("upload: spooling %q: %w", name, err)
	}

	return f.Name(), Meta{
		Filename:    name,
		ContentType: part.Header.Get("Content-Type"),
		Size:        n,
	}, nil
}

func (h *handler) fail(w http.ResponseWriter, span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	h.logger.Error("upload failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, Response{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
