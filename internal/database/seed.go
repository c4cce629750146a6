// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"legaldir/internal/models"
	"legaldir/internal/slug"
)

//go:embed seeddata/practices.yaml
var defaultPractices []byte

const (
	seedAdminEmail    = "admin@legaldir.local"
	seedAdminPassword = "admin"
)

// SeedPractice is one practice area in the seed file.
type SeedPractice struct {
	Names    map[models.Language]string `yaml:"names"`
	Children []SeedPractice             `yaml:"children"`
}

type seedFile struct {
	Practices []SeedPractice `yaml:"practices"`
}

// ParsePractices decodes a practice seed document and checks that every
// entry is named in all supported languages.
func ParsePractices(data []byte) ([]SeedPractice, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse practice seed: %w", err)
	}
	if err := checkSeedNames(f.Practices, ""); err != nil {
		return nil, err
	}
	return f.Practices, nil
}

func checkSeedNames(practices []SeedPractice, path string) error {
	for i, p := range practices {
		at := fmt.Sprintf("%s[%d]", path, i)
		for _, lang := range models.Languages {
			if p.Names[lang] == "" {
				return fmt.Errorf("practice seed %s: missing %s name", at, lang)
			}
		}
		if err := checkSeedNames(p.Children, at+".children"); err != nil {
			return err
		}
	}
	return nil
}

// Seed populates an empty database with a super-admin account and the
// practice-area taxonomy. Each part is skipped when its table already has
// rows, so Seed is safe to call on every start. practicesFile overrides the
// embedded practice list when non-empty.
func Seed(db *sql.DB, practicesFile string) error {
	if err := seedAdmin(db); err != nil {
		return err
	}

	data := defaultPractices
	if practicesFile != "" {
		var err error
		if data, err = os.ReadFile(practicesFile); err != nil {
			return fmt.Errorf("read practice seed: %w", err)
		}
	}
	practices, err := ParsePractices(data)
	if err != nil {
		return err
	}
	return seedPractices(db, practices)
}

func seedAdmin(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		slog.Info("users already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	// 2FA enrollment happens on first login.
	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
	`, seedAdminEmail, string(hash), "Admin", models.RoleSuperAdmin, false)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", seedAdminEmail,
		"password", seedAdminPassword,
	)
	return nil
}

func seedPractices(db *sql.DB, practices []SeedPractice) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM practices").Scan(&count); err != nil {
		return fmt.Errorf("seed check practices: %w", err)
	}
	if count > 0 {
		slog.Info("practices already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed practices begin: %w", err)
	}
	defer tx.Rollback()

	n, err := insertSeedPractices(tx, practices, nil)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed practices commit: %w", err)
	}

	slog.Info("database seeded with practice areas", "count", n)
	return nil
}

func insertSeedPractices(tx *sql.Tx, practices []SeedPractice, parentID *string) (int, error) {
	total := 0
	for i, p := range practices {
		var id string
		err := tx.QueryRow(
			`INSERT INTO practices (parent_id, sort_order) VALUES ($1, $2) RETURNING id`,
			parentID, i,
		).Scan(&id)
		if err != nil {
			return total, fmt.Errorf("seed insert practice: %w", err)
		}
		for _, lang := range models.Languages {
			_, err := tx.Exec(`
				INSERT INTO practice_translations (category_id, language_code, name, slug)
				VALUES ($1, $2, $3, $4)
			`, id, lang, p.Names[lang], slug.Generate(p.Names[lang]))
			if err != nil {
				return total, fmt.Errorf("seed insert practice translation: %w", err)
			}
		}
		total++

		n, err := insertSeedPractices(tx, p.Children, &id)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
