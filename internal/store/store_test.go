// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Shared helpers for the store integration tests. Tests skip when
// PostgreSQL is not reachable.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"legaldir/internal/database"
	"legaldir/internal/models"
)

func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "legaldir")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "legaldir")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens the test database and applies migrations, or skips the test.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

func cleanRows(t *testing.T, db *sql.DB, table string, ids ...uuid.UUID) {
	t.Helper()
	for _, id := range ids {
		db.Exec("DELETE FROM "+table+" WHERE id = $1", id)
	}
}

func cleanMediaByKey(t *testing.T, db *sql.DB, s3keys ...string) {
	t.Helper()
	for _, key := range s3keys {
		db.Exec("DELETE FROM media WHERE s3_key = $1", key)
	}
}

// uniq returns a short random suffix so parallel runs do not collide on
// unique slugs.
func uniq() string {
	return uuid.NewString()[:8]
}

func categoryTranslations(base string) models.Translations[models.CategoryTranslation] {
	tr := models.Translations[models.CategoryTranslation]{}
	for _, lang := range models.Languages {
		tr[lang] = models.CategoryTranslation{
			Language: lang,
			Name:     base + " " + string(lang),
			Slug:     base + "-" + string(lang),
		}
	}
	return tr
}

func profileTranslations(base string) models.Translations[models.ProfileTranslation] {
	tr := models.Translations[models.ProfileTranslation]{}
	for _, lang := range models.Languages {
		tr[lang] = models.ProfileTranslation{
			Language: lang,
			Name:     base + " " + string(lang),
			Slug:     base + "-" + string(lang),
		}
	}
	return tr
}
