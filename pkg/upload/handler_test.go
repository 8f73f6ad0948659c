package upload_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/lexmart/pkg/upload"
)

type recordingStore struct {
	calls   int
	path    string
	meta    upload.Meta
	content []byte
	url     string
	err     error
}

func (s *recordingStore) Upload(_ context.Context, path string, meta upload.Meta) (string, error) {
	s.calls++
	s.path = path
	s.meta = meta
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	s.content = b
	if s.err != nil {
		return "", s.err
	}
	return s.url, nil
}

func quietConfig(t *testing.T) upload.Config {
	t.Helper()
	return upload.Config{
		TempDir: t.TempDir(),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func newMultipartRequest(t *testing.T, field, filename, contentType string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("caption", "headshot"); err != nil {
		t.Fatalf("WriteField: %v", err)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := writer.CreatePart(h)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("part.Write: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("writer.Close: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) upload.Response {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", ct)
	}
	var resp upload.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestHandler_Success(t *testing.T) {
	store := &recordingStore{url: "https://cdn.example.com/media/abc.png"}
	cfg := quietConfig(t)
	h := upload.Handler(store, cfg)

	content := []byte("\x89PNG fake image")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, newMultipartRequest(t, "file", "avatar.png", "image/png", content))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body=%s", rec.Code, rec.Body.String())
	}
	if diff := cmp.Diff(upload.Response{ImageURL: store.url}, decode(t, rec)); diff != "" {
		t.Fatalf("response mismatch (-want +got):\n%s", diff)
	}

	wantMeta := upload.Meta{Filename: "avatar.png", ContentType: "image/png", Size: int64(len(content))}
	if diff := cmp.Diff(wantMeta, store.meta); diff != "" {
		t.Fatalf("meta mismatch (-want +got):\n%s", diff)
	}
	if !bytes.Equal(store.content, content) {
		t.Fatalf("store saw %q, want %q", store.content, content)
	}
	if !strings.HasPrefix(store.path, cfg.TempDir) {
		t.Fatalf("spooled to %q, want under %q", store.path, cfg.TempDir)
	}
	if _, err := os.Stat(store.path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("temp file still present after upload: %v", err)
	}
}

func TestHandler_SuccessBodyIsExactlyImageURL(t *testing.T) {
	store := &recordingStore{url: "/media/x.jpg"}
	h := upload.Handler(store, quietConfig(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, newMultipartRequest(t, "file", "x.jpg", "", []byte("jpeg")))

	var raw map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"imageUrl": "/media/x.jpg"}, raw); diff != "" {
		t.Fatalf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_Failures(t *testing.T) {
	tests := []struct {
		name      string
		store     *recordingStore
		request   func(t *testing.T) *http.Request
		maxBody   int64
		wantCalls int
		wantErr   string
	}{
		{
			name:  "not multipart",
			store: &recordingStore{},
			request: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(`{"file":"x"}`))
			},
			wantErr: "no file",
		},
		{
			name:  "wrong field name",
			store: &recordingStore{},
			request: func(t *testing.T) *http.Request {
				return newMultipartRequest(t, "image", "a.png", "image/png", []byte("x"))
			},
			wantErr: "no file",
		},
		{
			name:  "store error",
			store: &recordingStore{err: errors.New("provider down")},
			request: func(t *testing.T) *http.Request {
				return newMultipartRequest(t, "file", "a.png", "image/png", []byte("x"))
			},
			wantCalls: 1,
			wantErr:   "provider down",
		},
		{
			name:  "body too large",
			store: &recordingStore{},
			request: func(t *testing.T) *http.Request {
				return newMultipartRequest(t, "file", "big.bin", "", bytes.Repeat([]byte("a"), 4096))
			},
			maxBody: 1024,
			wantErr: "too large",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := quietConfig(t)
			cfg.MaxBodyBytes = tc.maxBody
			h := upload.Handler(tc.store, cfg)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, tc.request(t))

			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d, want 500", rec.Code)
			}
			resp := decode(t, rec)
			if resp.ImageURL != "" {
				t.Fatalf("imageUrl = %q on failure", resp.ImageURL)
			}
			if !strings.Contains(resp.Error, tc.wantErr) {
				t.Fatalf("error = %q, want it to contain %q", resp.Error, tc.wantErr)
			}
			if tc.store.calls != tc.wantCalls {
				t.Fatalf("store calls = %d, want %d", tc.store.calls, tc.wantCalls)
			}

			entries, err := os.ReadDir(cfg.TempDir)
			if err != nil {
				t.Fatalf("ReadDir: %v", err)
			}
			if len(entries) != 0 {
				t.Fatalf("%d temp files left behind", len(entries))
			}
		})
	}
}

func TestStoreFunc(t *testing.T) {
	var got upload.Meta
	h := upload.Handler(upload.StoreFunc(func(_ context.Context, _ string, meta upload.Meta) (string, error) {
		got = meta
		return "/media/ok", nil
	}), quietConfig(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, newMultipartRequest(t, "file", "../../etc/brief.pdf", "application/pdf", []byte("%PDF")))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got.Filename != "brief.pdf" {
		t.Fatalf("filename = %q, want base name only", got.Filename)
	}
}
