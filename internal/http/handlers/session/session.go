// Package session handles logging in.
package session

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/student-portal/internal/auth"
	"github.com/aanand-mishra/student-portal/internal/storage"
	"github.com/aanand-mishra/student-portal/internal/utils/response"
)

type credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// Login handles POST /api/login
//
// Request body (JSON):
//
//	{ "username": "S1", "password": "secret" }
//
// Success response (200 OK):
//
//	{ "token": "<jwt>", "role": "student" }
//
// Unknown users and wrong passwords get the same 401 response.
func Login(store storage.Storage, a *auth.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds credentials
		err := json.NewDecoder(r.Body).Decode(&creds)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := validator.New().Struct(creds); err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(err.(validator.ValidationErrors)))
			return
		}

		slog.Info("login attempt", slog.String("username", creds.Username))

		user, err := store.GetUser(r.Context(), creds.Username)
		if err != nil && !errors.Is(err, storage.ErrNoRecord) {
			slog.Error("error loading user",
				slog.String("username", creds.Username),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(errors.New("internal server error")))
			return
		}
		if err != nil || auth.CheckPassword(user.PasswordHash, creds.Password) != nil {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(auth.ErrInvalidCredentials))
			return
		}

		token, err := a.IssueToken(user)
		if err != nil {
			slog.Error("error issuing token", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(errors.New("internal server error")))
			return
		}

		slog.Info("logged in", slog.String("username", user.Username), slog.String("role", user.Role))
		response.WriteJSON(w, http.StatusOK, loginResponse{Token: token, Role: user.Role})
	}
}
