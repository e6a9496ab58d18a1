package controller

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/unclebandit/mailpulse-backend/internal/service"
)

// EmailController serves composition, dispatch and AI drafting.
type EmailController struct {
	EmailService    *service.EmailService
	DispatchService *service.DispatchService
	DraftingService *service.DraftingService
	Logger          *zap.Logger
}

func (c *EmailController) GenerateEmail(w http.ResponseWriter, r *http.Request) {
	var body service.ComposeInput
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, c.Logger, err, "")
		return
	}

	rec, err := c.EmailService.Compose(r.Context(), body)
	if err != nil {
		writeError(w, r, c.Logger, err, "Error saving email")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Email generated successfully",
		"email":   rec,
	})
}

func (c *EmailController) SendEmail(w http.ResponseWriter, r *http.Request) {
	var body service.DispatchInput
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, c.Logger, err, "")
		return
	}

	receipt, err := c.DispatchService.Send(r.Context(), body)
	if err != nil {
		writeError(w, r, c.Logger, err, "Failed to send email")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Email sent successfully!",
		"info":    receipt,
	})
}

func (c *EmailController) ScrapeAndGenerate(w http.ResponseWriter, r *http.Request) {
	var body service.DraftInput
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, c.Logger, err, "")
		return
	}

	text, err := c.DraftingService.Draft(r.Context(), body)
	if err != nil {
		writeError(w, r, c.Logger, err, "Failed to process request")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"email": text})
}
