package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/sagarc03/filekeep"
)

// uploadField is the multipart form field carrying the file.
const uploadField = "file"

type Service interface {
	Upload(ctx context.Context, p filekeep.Principal, in filekeep.UploadInput) (filekeep.FileRecord, error)
	List(ctx context.Context, p filekeep.Principal, q filekeep.ListQuery) ([]filekeep.FileRecord, error)
	Delete(ctx context.Context, p filekeep.Principal, id string) error
	Download(ctx context.Context, p filekeep.Principal, id string) (filekeep.Download, error)
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type HandlerConfig struct {
	Verifier      filekeep.TokenVerifier
	MaxUploadSize int64 // 0 means no limit
	CORS          CORSConfig
	Logger        *slog.Logger
	Metrics       *Metrics // nil disables /metrics and request metrics
}

// Handler provides the HTTP API for file operations.
type Handler struct {
	config  HandlerConfig
	service Service
}

// NewHandler creates a new Handler with the given configuration and service.
func NewHandler(config *HandlerConfig, service Service) *Handler {
	cfg := *config
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Handler{
		config:  cfg,
		service: service,
	}
}

// Router returns an http.Handler with all routes configured.
// /health and /metrics are public; file routes require a bearer token.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestLogger(h.config.Logger))
	if h.config.Metrics != nil {
		r.Use(h.config.Metrics.Middleware)
	}
	r.Use(Recoverer)

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusNotFound, string(filekeep.KindNotFound), "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
	})

	r.Get("/health", h.handleHealth)
	if h.config.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.config.Metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(h.config.Verifier))
		r.Post("/upload", h.handleUpload)
		r.Get("/files", h.handleList)
		r.Delete("/files/{id}", h.handleDelete)
		r.Get("/files/{id}/download", h.handleDownload)
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())

	if h.config.MaxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadSize)
	}

	mr, err := r.MultipartReader()
	if err != nil {
		HandleError(w, r, fmt.Errorf("%w: expected multipart/form-data body", filekeep.ErrInvalidInput))
		return
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			HandleError(w, r, fmt.Errorf("%w: read multipart body: %w", filekeep.ErrInvalidInput, err))
			return
		}

		if part.FormName() != uploadField || part.FileName() == "" {
			_ = part.Close()
			continue
		}

		record, err := h.service.Upload(r.Context(), p, filekeep.UploadInput{
			Filename:    part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			Content:     part,
		})
		_ = part.Close()
		if err != nil {
			HandleError(w, r, err)
			return
		}

		_ = WriteJSON(w, http.StatusOK, record)
		return
	}

	HandleError(w, r, fmt.Errorf("%w: missing %q file field", filekeep.ErrInvalidInput, uploadField))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	params := r.URL.Query()

	sortBy, err := filekeep.ParseSortBy(params.Get("sort_by"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	records, err := h.service.List(r.Context(), p, filekeep.ListQuery{
		SortBy:   sortBy,
		FileType: params.Get("file_type"),
		Search:   params.Get("search"),
	})
	if err != nil {
		HandleError(w, r, err)
		return
	}

	if records == nil {
		records = []filekeep.FileRecord{}
	}

	_ = WriteJSON(w, http.StatusOK, records)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())

	if err := h.service.Delete(r.Context(), p, chi.URLParam(r, "id")); err != nil {
		HandleError(w, r, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, MessageResponse{Message: "File deleted successfully"})
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())

	dl, err := h.service.Download(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		HandleError(w, r, err)
		return
	}
	defer func() { _ = dl.Body.Close() }()

	w.Header().Set("Content-Type", dl.Record.ContentType)
	w.Header().Set("Content-Disposition", contentDisposition(dl.Record.Filename))
	w.Header().Set("Content-Length", strconv.FormatInt(dl.Record.Size, 10))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, dl.Body); err != nil {
		h.config.Logger.WarnContext(r.Context(), "download interrupted", "id", dl.Record.ID, "error", err)
	}
}

// contentDisposition builds an attachment header. Quotes and backslashes in
// the name are escaped and non-ASCII names use the RFC 2231 form.
func contentDisposition(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}
