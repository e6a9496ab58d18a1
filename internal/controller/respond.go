package controller

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/mailpulse-backend/internal/errors"
	"github.com/unclebandit/mailpulse-backend/internal/scraper"
)

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return appErrors.NewValidation("request body is required")
		}
		return appErrors.NewValidation("invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError logs err and answers with {"error": msg}. Client errors, mail
// transport failures and errors reported by the scraper carry their own
// message; anything else gets fallback.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error, fallback string) {
	status := appErrors.HTTPStatus(err)

	msg := fallback
	var (
		dispatchErr *appErrors.DispatchError
		reportedErr *scraper.ReportedError
	)
	switch {
	case status < http.StatusInternalServerError:
		msg = err.Error()
	case errors.As(err, &dispatchErr):
		msg = dispatchErr.Error()
	case errors.As(err, &reportedErr):
		msg = reportedErr.Message
	}

	fields := []zap.Field{
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", fields...)
	} else {
		logger.Info("request rejected", fields...)
	}

	writeJSON(w, status, map[string]string{"error": msg})
}
