package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/contabilidadepro/contabilidade-api/internal/auth"
	"github.com/contabilidadepro/contabilidade-api/internal/utils"
)

type AuthHandler struct {
	Service auth.Service
}

// POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := utils.DecodeStrict(r.Body, &dto); err != nil {
		utils.BadRequest(w, utils.FormatDecodeError(err))
		return
	}
	if dto.Username == "" || dto.Password == "" {
		utils.BadRequest(w, "username and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	token, err := h.Service.Login(ctx, dto.Username, dto.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			utils.WriteError(w, http.StatusUnauthorized, err.Error())
			return
		}
		slog.Error("login_error", "username", dto.Username, "err", err)
		utils.WriteError(w, http.StatusInternalServerError, "login failed")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}
