// portal-admin is the command line for portal administrators.
//
//	portal-admin adduser -config config/local.yaml -username S1 -password secret
//	portal-admin adduser -config config/local.yaml -username root -password secret -role admin
//
// adduser creates the login or, when it exists, replaces its password and role.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/aanand-mishra/student-portal/internal/auth"
	"github.com/aanand-mishra/student-portal/internal/config"
	"github.com/aanand-mishra/student-portal/internal/storage"
	"github.com/aanand-mishra/student-portal/internal/storage/sqlite"
	"github.com/aanand-mishra/student-portal/internal/types"
)

var errUsage = errors.New("usage: portal-admin adduser -username U -password P [-role student|admin] [-config path]")

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("portal-admin failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 || args[0] != "adduser" {
		return errUsage
	}

	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	configPath := fs.String("config", os.Getenv("CONFIG_PATH"), "Path to the configuration YAML file")
	username := fs.String("username", "", "login name; the student ID for students")
	password := fs.String("password", "", "plain-text password, stored hashed")
	role := fs.String("role", types.RoleStudent, "student or admin")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	store, err := sqlite.New(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := addUser(context.Background(), store, *username, *password, *role); err != nil {
		return err
	}

	slog.Info("user saved", slog.String("username", *username), slog.String("role", *role))
	return nil
}

func addUser(ctx context.Context, store storage.Storage, username, password, role string) error {
	if username == "" || password == "" {
		return errUsage
	}
	if role != types.RoleStudent && role != types.RoleAdmin {
		return fmt.Errorf("unknown role %q", role)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	return store.UpsertUser(ctx, types.User{Username: username, PasswordHash: hash, Role: role})
}
