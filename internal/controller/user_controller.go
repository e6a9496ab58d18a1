package controller

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/unclebandit/mailpulse-backend/internal/service"
)

type UserController struct {
	UserService *service.UserService
	Logger      *zap.Logger
}

func (c *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var body service.RegisterInput
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, c.Logger, err, "")
		return
	}

	if _, err := c.UserService.Register(r.Context(), body); err != nil {
		writeError(w, r, c.Logger, err, "Server error during registration")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
}
