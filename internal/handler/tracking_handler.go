package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// transparentGIF is a 1x1 transparent GIF89a.
var transparentGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x01, 0x00, 0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00,
	0x01, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

// OpenMarker records that the email with the given id was opened.
type OpenMarker interface {
	MarkOpened(ctx context.Context, rawID string) (bool, error)
}

// TrackingHandler serves the pixel embedded in composed emails.
type TrackingHandler struct {
	Emails OpenMarker
	Logger *zap.Logger
}

func NewTrackingHandler(emails OpenMarker, logger *zap.Logger) *TrackingHandler {
	return &TrackingHandler{Emails: emails, Logger: logger}
}

// TrackOpen always answers 200 with the pixel. Mail clients render whatever
// comes back, so failures are only logged.
func (h *TrackingHandler) TrackOpen(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	matched, err := h.Emails.MarkOpened(r.Context(), id)
	switch {
	case err != nil:
		h.Logger.Error("failed to record email open", zap.String("email_id", id), zap.Error(err))
	case !matched:
		h.Logger.Debug("open for unknown email", zap.String("email_id", id))
	default:
		h.Logger.Info("email opened", zap.String("email_id", id))
	}

	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.WriteHeader(http.StatusOK)
	w.Write(transparentGIF)
}
