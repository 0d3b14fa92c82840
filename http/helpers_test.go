package http_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/sagarc03/filekeep"
	filekeephttp "github.com/sagarc03/filekeep/http"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	alice = filekeep.Principal{ID: "user-alice", Email: "alice@example.com"}
	bob   = filekeep.Principal{ID: "user-bob", Email: "bob@example.com"}
)

// MockService is a mock implementation of http.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Upload(ctx context.Context, p filekeep.Principal, in filekeep.UploadInput) (filekeep.FileRecord, error) {
	args := m.Called(ctx, p, in)
	return args.Get(0).(filekeep.FileRecord), args.Error(1)
}

func (m *MockService) List(ctx context.Context, p filekeep.Principal, q filekeep.ListQuery) ([]filekeep.FileRecord, error) {
	args := m.Called(ctx, p, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]filekeep.FileRecord), args.Error(1)
}

func (m *MockService) Delete(ctx context.Context, p filekeep.Principal, id string) error {
	args := m.Called(ctx, p, id)
	return args.Error(0)
}

func (m *MockService) Download(ctx context.Context, p filekeep.Principal, id string) (filekeep.Download, error) {
	args := m.Called(ctx, p, id)
	return args.Get(0).(filekeep.Download), args.Error(1)
}

// tokenVerifier accepts a fixed set of tokens.
type tokenVerifier map[string]filekeep.Principal

func (v tokenVerifier) Verify(_ context.Context, token string) (filekeep.Principal, error) {
	p, ok := v[token]
	if !ok {
		return filekeep.Principal{}, fmt.Errorf("%w: unknown token", filekeep.ErrUnauthorized)
	}
	return p, nil
}

var testVerifier = tokenVerifier{
	"alice-token": alice,
	"bob-token":   bob,
}

func newRouter(t *testing.T, service *MockService, opts ...func(*filekeephttp.HandlerConfig)) http.Handler {
	t.Helper()

	cfg := &filekeephttp.HandlerConfig{Verifier: testVerifier}
	for _, opt := range opts {
		opt(cfg)
	}

	return filekeephttp.NewHandler(cfg, service).Router()
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func authed(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// multipartBody builds a multipart/form-data body with a single file part.
func multipartBody(t *testing.T, field, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, quoteEscaper.Replace(filename)))
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}

	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func uploadRequest(t *testing.T, filename, contentType string, content []byte) *http.Request {
	t.Helper()
	body, ct := multipartBody(t, "file", filename, contentType, content)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	return req
}

func sampleRecord() filekeep.FileRecord {
	return filekeep.FileRecord{
		ID:          "file-1",
		Filename:    "report.pdf",
		ContentType: "application/pdf",
		Size:        11,
		UploadDate:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		OwnerID:     alice.ID,
		OwnerEmail:  alice.Email,
		StorageKey:  "user-alice/file-1_report.pdf",
	}
}

// drainContent reads the upload content inside a mocked Upload call.
func drainContent(t *testing.T, got *[]byte) func(mock.Arguments) {
	return func(args mock.Arguments) {
		in := args.Get(2).(filekeep.UploadInput)
		data, err := io.ReadAll(in.Content)
		require.NoError(t, err)
		*got = data
	}
}
