// Package http exposes the filekeep file service over HTTP.
//
// # Routes
//
//	POST   /upload               multipart upload, field "file"
//	GET    /files                list visible files (?sort_by=date|size&file_type=&search=)
//	DELETE /files/{id}           delete an owned file
//	GET    /files/{id}/download  stream file content as an attachment
//	GET    /health               liveness, no authentication
//	GET    /metrics              Prometheus metrics, no authentication
//
// File routes require "Authorization: Bearer <token>". The token is checked by
// the filekeep.TokenVerifier in HandlerConfig and the resulting principal is
// available to handlers through PrincipalFromContext.
//
// # Errors
//
// Errors are returned as JSON:
//
//	{"error": "not_found", "message": "File not found"}
//
// The error code is the filekeep.Kind of the failure and the status comes from
// StatusForKind. Internal errors are logged and answered with a generic message.
//
// # Usage
//
//	handler := http.NewHandler(&http.HandlerConfig{
//	    Verifier:      verifier,
//	    MaxUploadSize: 32 << 20,
//	    Metrics:       http.NewMetrics(prometheus.NewRegistry()),
//	}, service)
//	srv := &nethttp.Server{Addr: ":5708", Handler: handler.Router()}
package http
