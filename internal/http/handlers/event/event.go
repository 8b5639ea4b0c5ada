// Package event contains the HTTP handlers for the events bulletin.
// Anyone logged in can read it; only admins post and delete.
package event

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/aanand-mishra/student-portal/internal/auth"
	"github.com/aanand-mishra/student-portal/internal/storage"
	"github.com/aanand-mishra/student-portal/internal/types"
	"github.com/aanand-mishra/student-portal/internal/uploads"
	"github.com/aanand-mishra/student-portal/internal/utils/response"
)

// multipart overhead allowed on top of the attachment limit
const formSlack = 1 << 20

var errInternal = errors.New("internal server error")

// List handles GET /api/events
func List(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := store.ListEvents(r.Context())
		if err != nil {
			slog.Error("error listing events", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errInternal))
			return
		}

		response.WriteJSON(w, http.StatusOK, events)
	}
}

// Create handles POST /api/events
//
// Request body (multipart/form-data): title, description, date
// (YYYY-MM-DD) and an optional "attachment" file.
//
// Success response (201 Created): the stored event.
func Create(store storage.Storage, files *uploads.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := auth.FromContext(r.Context())

		r.Body = http.MaxBytesReader(w, r.Body, files.MaxBytes+formSlack)
		if err := r.ParseMultipartForm(formSlack); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				response.WriteJSON(w, http.StatusRequestEntityTooLarge, response.GeneralError(uploads.ErrTooLarge))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		defer r.MultipartForm.RemoveAll()

		event := types.Event{
			ID:          uuid.NewString(),
			Title:       strings.TrimSpace(r.FormValue("title")),
			Description: strings.TrimSpace(r.FormValue("description")),
			Date:        strings.TrimSpace(r.FormValue("date")),
			CreatedBy:   session.StudentID,
			CreatedAt:   time.Now().UTC(),
		}

		if err := validator.New().Struct(event); err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(err.(validator.ValidationErrors)))
			return
		}

		if fhs := r.MultipartForm.File["attachment"]; len(fhs) > 0 {
			name, err := files.Save(fhs[0])
			if errors.Is(err, uploads.ErrTooLarge) {
				response.WriteJSON(w, http.StatusRequestEntityTooLarge, response.GeneralError(err))
				return
			}
			if err != nil {
				slog.Error("error saving attachment", slog.String("error", err.Error()))
				response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errInternal))
				return
			}
			event.Attachment = name
		}

		if err := store.CreateEvent(r.Context(), event); err != nil {
			slog.Error("error creating event", slog.String("error", err.Error()))
			if rmErr := files.Remove(event.Attachment); rmErr != nil {
				slog.Error("error removing orphaned attachment", slog.String("error", rmErr.Error()))
			}
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errInternal))
			return
		}

		slog.Info("event created",
			slog.String("id", event.ID), slog.String("by", event.CreatedBy))
		response.WriteJSON(w, http.StatusCreated, event)
	}
}

// Delete handles DELETE /api/events/{id}
func Delete(store storage.Storage, files *uploads.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		event, err := store.GetEvent(r.Context(), id)
		if err == nil {
			err = store.DeleteEvent(r.Context(), id)
		}
		if errors.Is(err, storage.ErrNoRecord) {
			response.WriteJSON(w, http.StatusNotFound,
				response.GeneralError(errors.New("no event found with id: "+id)))
			return
		}
		if err != nil {
			slog.Error("error deleting event", slog.String("id", id), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errInternal))
			return
		}

		if err := files.Remove(event.Attachment); err != nil {
			slog.Error("error removing attachment", slog.String("id", id), slog.String("error", err.Error()))
		}

		slog.Info("event deleted", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
