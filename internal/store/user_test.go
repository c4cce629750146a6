// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"legaldir/internal/models"
)

func TestUserStoreCreate(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	email := "test-create@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user, err := s.Create(ctx, email, "testpass123", "Test User", models.RoleEditor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if user.Role != models.RoleEditor {
		t.Errorf("role: got %q, want %q", user.Role, models.RoleEditor)
	}
	if user.TOTPEnabled {
		t.Error("expected totp_enabled=false for new user")
	}
	if user.PasswordHash == "" || user.PasswordHash == "testpass123" {
		t.Error("password must be stored hashed")
	}

	_, err = s.Create(ctx, email, "other", "Dup", models.RoleEditor)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate email: got %v, want ErrConflict", err)
	}
}

func TestUserStoreFind(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	email := "test-find@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		t.Fatalf("FindByEmail (not found): %v", err)
	}
	if user != nil {
		t.Error("expected nil for non-existent user")
	}

	created, err := s.Create(ctx, email, "pass", "Find Me", models.RoleSuperAdmin)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	byEmail, err := s.FindByEmail(ctx, email)
	if err != nil || byEmail == nil {
		t.Fatalf("FindByEmail: %v, %v", byEmail, err)
	}
	byID, err := s.FindByID(ctx, created.ID)
	if err != nil || byID == nil {
		t.Fatalf("FindByID: %v, %v", byID, err)
	}
	if byEmail.ID != byID.ID {
		t.Errorf("ID mismatch: %s vs %s", byEmail.ID, byID.ID)
	}
	if !byID.IsSuperAdmin() {
		t.Error("expected super admin role to round-trip")
	}

	missing, err := s.FindByID(ctx, uuid.New())
	if err != nil || missing != nil {
		t.Errorf("FindByID random: got %v, %v", missing, err)
	}
}

func TestUserStoreCheckPassword(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "test-checkpass@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user, err := s.Create(context.Background(), email, "correct-password", "PW Check", models.RoleEditor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !s.CheckPassword(user, "correct-password") {
		t.Error("expected CheckPassword to accept the correct password")
	}
	if s.CheckPassword(user, "wrong-password") {
		t.Error("expected CheckPassword to reject a wrong password")
	}
	if s.CheckPassword(user, "") {
		t.Error("expected CheckPassword to reject an empty password")
	}
}

func TestUserStoreTOTPLifecycle(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	email := "test-totp@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user, err := s.Create(ctx, email, "pass", "TOTP User", models.RoleEditor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.TOTPSecret != nil || user.TOTPEnabled {
		t.Fatal("new user must not have 2FA configured")
	}

	if err := s.SetTOTPSecret(ctx, user.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("SetTOTPSecret: %v", err)
	}
	user, _ = s.FindByID(ctx, user.ID)
	if user.TOTPSecret == nil || *user.TOTPSecret != "JBSWY3DPEHPK3PXP" {
		t.Errorf("expected TOTP secret set, got %v", user.TOTPSecret)
	}
	if user.TOTPEnabled {
		t.Error("TOTP should not be enabled before verification")
	}

	if err := s.EnableTOTP(ctx, user.ID); err != nil {
		t.Fatalf("EnableTOTP: %v", err)
	}
	user, _ = s.FindByID(ctx, user.ID)
	if !user.TOTPEnabled {
		t.Error("expected TOTP enabled after EnableTOTP")
	}

	if err := s.ResetTOTP(ctx, user.ID); err != nil {
		t.Fatalf("ResetTOTP: %v", err)
	}
	user, _ = s.FindByID(ctx, user.ID)
	if user.TOTPSecret != nil || user.TOTPEnabled {
		t.Error("expected 2FA cleared after ResetTOTP")
	}
}
