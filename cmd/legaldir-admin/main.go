// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Command legaldir-admin manages super-admin accounts from the shell:
//
//	legaldir-admin create-admin -email a@b.ge -name "Nino" (password from LEGALDIR_ADMIN_PASSWORD)
//	legaldir-admin reset-2fa -email a@b.ge
//
// It reads the same environment as the server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"legaldir/internal/config"
	"legaldir/internal/database"
	"legaldir/internal/models"
	"legaldir/internal/store"
)

const (
	passwordEnv       = "LEGALDIR_ADMIN_PASSWORD"
	minPasswordLength = 12
)

// accounts is the part of *store.UserStore the commands use.
type accounts interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, email, password, displayName string, role models.Role) (*models.User, error)
	ResetTOTP(ctx context.Context, userID uuid.UUID) error
}

var errUsage = errors.New("usage: legaldir-admin create-admin|reset-2fa -email EMAIL [-name NAME]")

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	err = run(context.Background(), os.Args[1:], os.Getenv(passwordEnv), store.NewUserStore(db), os.Stdout)
	if err != nil {
		slog.Error("command failed", "error", err)
		db.Close()
		os.Exit(2)
	}
}

func run(ctx context.Context, args []string, password string, users accounts, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	email := fs.String("email", "", "account email")
	name := fs.String("name", "Admin", "display name")
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	*email = strings.ToLower(strings.TrimSpace(*email))
	if *email == "" {
		return errUsage
	}

	switch args[0] {
	case "create-admin":
		if len(password) < minPasswordLength {
			return fmt.Errorf("%s must hold a password of at least %d characters", passwordEnv, minPasswordLength)
		}
		u, err := users.Create(ctx, *email, password, *name, models.RoleSuperAdmin)
		if err != nil {
			return fmt.Errorf("create %s: %w", *email, err)
		}
		fmt.Fprintf(out, "created super admin %s (%s); 2FA enrollment happens on first login\n", u.Email, u.ID)
		return nil

	case "reset-2fa":
		u, err := users.FindByEmail(ctx, *email)
		if err != nil {
			return fmt.Errorf("find %s: %w", *email, err)
		}
		if u == nil {
			return fmt.Errorf("no account with email %s", *email)
		}
		if err := users.ResetTOTP(ctx, u.ID); err != nil {
			return err
		}
		fmt.Fprintf(out, "2FA reset for %s; a new authenticator is enrolled on next login\n", u.Email)
		return nil
	}
	return errUsage
}
