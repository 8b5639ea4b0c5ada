// main is the entry point of the student portal API.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Open (and set up) the SQLite database and the uploads directory
//  4. Register all HTTP routes
//  5. Start the HTTP server in a separate goroutine
//  6. Block until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, then exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/student-portal --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/student-portal
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aanand-mishra/student-portal/internal/auth"
	"github.com/aanand-mishra/student-portal/internal/config"
	"github.com/aanand-mishra/student-portal/internal/http/handlers/event"
	"github.com/aanand-mishra/student-portal/internal/http/handlers/session"
	"github.com/aanand-mishra/student-portal/internal/http/handlers/student"
	"github.com/aanand-mishra/student-portal/internal/report"
	"github.com/aanand-mishra/student-portal/internal/storage/sqlite"
	"github.com/aanand-mishra/student-portal/internal/uploads"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting student-portal",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	// ── Storage ───────────────────────────────────────────────────────────
	storage, err := sqlite.New(cfg)
	if err != nil {
		log.Error("failed to initialise storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer storage.Close()

	log.Info("storage initialised", slog.String("path", cfg.StoragePath))

	files, err := uploads.New(cfg.Uploads.Dir, cfg.Uploads.MaxBytes)
	if err != nil {
		log.Error("failed to initialise uploads", slog.String("error", err.Error()))
		os.Exit(1)
	}

	authenticator := auth.New(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	aggregator := report.New(storage)

	// ── Routes ────────────────────────────────────────────────────────────
	//   POST   /api/login                        → session token
	//   GET    /api/students/{id}/marks          → semester marks, SGPA, CGPA
	//   GET    /api/students/{id}/attendance     → attendance percentage
	//   GET    /api/students/{id}/fees           → fee records and due status
	//   GET    /api/students/{id}/profile        → profile
	//   PUT    /api/students/me/password         → change own password
	//   GET    /api/events                       → events bulletin
	//   POST   /api/events                       → post an event (admin)
	//   DELETE /api/events/{id}                  → remove an event (admin)
	//   GET    /uploads/...                      → event attachments
	authed := authenticator.Middleware
	admin := func(h http.Handler) http.Handler { return authed(auth.RequireAdmin(h)) }

	router := http.NewServeMux()

	router.HandleFunc("POST /api/login", session.Login(storage, authenticator))

	router.Handle("GET /api/students/{id}/marks", authed(student.Marks(aggregator)))
	router.Handle("GET /api/students/{id}/attendance", authed(student.Attendance(aggregator)))
	router.Handle("GET /api/students/{id}/fees", authed(student.Fees(aggregator)))
	router.Handle("GET /api/students/{id}/profile", authed(student.Profile(aggregator)))
	router.Handle("PUT /api/students/me/password", authed(student.ChangePassword(storage)))

	router.Handle("GET /api/events", authed(event.List(storage)))
	router.Handle("POST /api/events", admin(event.Create(storage, files)))
	router.Handle("DELETE /api/events/{id}", admin(event.Delete(storage, files)))

	router.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(files.Dir))))

	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: logRequests(router),

		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			log.Error("server encountered an error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully", slog.String("error", err.Error()))
		return
	}

	log.Info("server stopped gracefully")
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	default:
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		slog.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}
