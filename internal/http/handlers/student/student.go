// Package student contains the HTTP handlers for a student's own records:
// marks, attendance, fees, profile and password.
//
// Every handler is a factory that receives its dependencies once at
// startup and returns the http.HandlerFunc run on each request:
//
//	router.Handle("GET /api/students/{id}/marks", authed(student.Marks(agg)))
//
// The {id} path segment is either "me" or an explicit student ID. Only
// admins may read records that are not their own.
package student

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/student-portal/internal/auth"
	"github.com/aanand-mishra/student-portal/internal/report"
	"github.com/aanand-mishra/student-portal/internal/storage"
	"github.com/aanand-mishra/student-portal/internal/types"
	"github.com/aanand-mishra/student-portal/internal/utils/response"
)

var (
	errForbidden    = errors.New("you may only view your own records")
	errInternal     = errors.New("internal server error")
	errUnauthorized = errors.New("not logged in")
)

type badRequestError struct{ msg string }

func (e badRequestError) Error() string { return e.msg }

// Marks handles GET /api/students/{id}/marks?semester=N
//
// Success response (200 OK):
//
//	{ "marks": [{ "subject": "Subject1", "value": 80 }, ...], "sgpa": 76.7, "cgpa": 8.2 }
//
// A semester with no row for the student returns empty marks and zero
// SGPA/CGPA, not an error.
func Marks(agg *report.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID, err := resolveStudent(r)
		if err != nil {
			writeError(w, err)
			return
		}

		semester, err := intQuery(r, "semester")
		if err != nil {
			writeError(w, err)
			return
		}

		slog.Info("computing marks",
			slog.String("student", studentID), slog.Int("semester", semester))

		summary, err := agg.ComputeMarks(r.Context(), types.Semester(semester), studentID)
		if err != nil {
			writeError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, summary)
	}
}

// Attendance handles GET /api/students/{id}/attendance
func Attendance(agg *report.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID, err := resolveStudent(r)
		if err != nil {
			writeError(w, err)
			return
		}

		slog.Info("computing attendance", slog.String("student", studentID))

		summary, err := agg.ComputeAttendance(r.Context(), studentID)
		if err != nil {
			writeError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, summary)
	}
}

// Fees handles GET /api/students/{id}/fees?category=C&year=Y
//
// category: 0 tuition, 1 hostel, 2 transport.
func Fees(agg *report.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID, err := resolveStudent(r)
		if err != nil {
			writeError(w, err)
			return
		}

		category, err := intQuery(r, "category")
		if err != nil {
			writeError(w, err)
			return
		}
		year, err := intQuery(r, "year")
		if err != nil {
			writeError(w, err)
			return
		}

		slog.Info("computing fees",
			slog.String("student", studentID),
			slog.Int("category", category),
			slog.Int("year", year))

		fees, err := agg.ComputeFees(r.Context(), types.FeeCategory(category), year, studentID)
		if err != nil {
			writeError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, fees)
	}
}

// Profile handles GET /api/students/{id}/profile
func Profile(agg *report.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID, err := resolveStudent(r)
		if err != nil {
			writeError(w, err)
			return
		}

		profile, err := agg.ComputeProfile(r.Context(), studentID)
		if err != nil {
			writeError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, profile)
	}
}

type passwordChange struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=6,max=72"`
}

// ChangePassword handles PUT /api/students/me/password
//
// Request body (JSON):
//
//	{ "current_password": "old", "new_password": "new-secret" }
func ChangePassword(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := auth.FromContext(r.Context())
		if !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errUnauthorized))
			return
		}

		var req passwordChange
		err := json.NewDecoder(r.Body).Decode(&req)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := validator.New().Struct(req); err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(err.(validator.ValidationErrors)))
			return
		}

		user, err := store.GetUser(r.Context(), session.StudentID)
		if err != nil {
			if errors.Is(err, storage.ErrNoRecord) {
				response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errUnauthorized))
				return
			}
			slog.Error("error loading user",
				slog.String("student", session.StudentID),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errInternal))
			return
		}

		if err := auth.CheckPassword(user.PasswordHash, req.CurrentPassword); err != nil {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(err))
			return
		}

		hash, err := auth.HashPassword(req.NewPassword)
		if err == nil {
			err = store.UpdatePassword(r.Context(), user.Username, hash)
		}
		if err != nil {
			slog.Error("error changing password",
				slog.String("student", session.StudentID),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errInternal))
			return
		}

		slog.Info("password changed", slog.String("student", session.StudentID))
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": response.StatusOK})
	}
}

// resolveStudent maps the {id} path segment to the student whose records
// are requested.
func resolveStudent(r *http.Request) (string, error) {
	session, ok := auth.FromContext(r.Context())
	if !ok {
		return "", errUnauthorized
	}

	id := r.PathValue("id")
	if id == "" || id == "me" || id == session.StudentID {
		return session.StudentID, nil
	}
	if !session.IsAdmin() {
		return "", errForbidden
	}
	return id, nil
}

func intQuery(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, badRequestError{"missing query parameter: " + name}
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequestError{"invalid " + name + ": must be an integer"}
	}
	return v, nil
}

func writeError(w http.ResponseWriter, err error) {
	var badReq badRequestError
	var dataErr *report.DataAccessError

	switch {
	case errors.Is(err, errUnauthorized):
		response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(err))
	case errors.Is(err, errForbidden):
		response.WriteJSON(w, http.StatusForbidden, response.GeneralError(err))
	case errors.As(err, &badReq),
		errors.Is(err, report.ErrInvalidSemester),
		errors.Is(err, report.ErrInvalidCategory):
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
	case errors.Is(err, report.ErrNotFound):
		response.WriteJSON(w, http.StatusNotFound, response.GeneralError(err))
	case errors.As(err, &dataErr):
		slog.Error("report data access failed", slog.String("error", err.Error()))
		response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errInternal))
	default:
		slog.Error("unexpected error", slog.String("error", err.Error()))
		response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errInternal))
	}
}
