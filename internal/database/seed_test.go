// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"strings"
	"testing"

	"legaldir/internal/models"
	"legaldir/internal/slug"
)

func TestParsePracticesEmbedded(t *testing.T) {
	practices, err := ParsePractices(defaultPractices)
	if err != nil {
		t.Fatalf("ParsePractices: %v", err)
	}
	if len(practices) == 0 {
		t.Fatal("embedded seed has no practices")
	}

	// Every seeded name must produce a usable slug in every language,
	// otherwise the UNIQUE (language_code, slug) constraint would reject it.
	seen := map[string]bool{}
	var walk func([]SeedPractice)
	walk = func(ps []SeedPractice) {
		for _, p := range ps {
			for _, lang := range models.Languages {
				s := slug.Generate(p.Names[lang])
				if s == "" {
					t.Errorf("empty slug for %s name %q", lang, p.Names[lang])
				}
				key := string(lang) + "/" + s
				if seen[key] {
					t.Errorf("duplicate slug %s", key)
				}
				seen[key] = true
			}
			walk(p.Children)
		}
	}
	walk(practices)
}

func TestParsePracticesMissingName(t *testing.T) {
	doc := `
practices:
  - names: {ka: "ა", en: "A", ru: "А"}
    children:
      - names: {ka: "ბ", en: "B"}
`
	_, err := ParsePractices([]byte(doc))
	if err == nil {
		t.Fatal("expected error for missing ru name")
	}
	if !strings.Contains(err.Error(), "[0].children[0]") || !strings.Contains(err.Error(), "ru") {
		t.Errorf("error should locate the entry, got %v", err)
	}
}

func TestParsePracticesInvalidYAML(t *testing.T) {
	if _, err := ParsePractices([]byte("practices: [")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestSeedIdempotent(t *testing.T) {
	db, err := Connect(testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// Seed only writes into empty tables. Other packages may share this
	// database, so nothing is cleared first.
	if err := Seed(db, ""); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := Seed(db, ""); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	var userCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE role = 'super_admin'").Scan(&userCount); err != nil {
		t.Fatalf("count admin users: %v", err)
	}
	if userCount < 1 {
		t.Errorf("expected at least 1 super admin, got %d", userCount)
	}

	var practiceCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM practices").Scan(&practiceCount); err != nil {
		t.Fatalf("count practices: %v", err)
	}
	if practiceCount < 1 {
		t.Errorf("expected at least 1 practice, got %d", practiceCount)
	}

	// Each practice carries one translation per language.
	var incomplete int
	err = db.QueryRow(`
		SELECT COUNT(*) FROM practices p
		WHERE (SELECT COUNT(*) FROM practice_translations t WHERE t.category_id = p.id) <> 3
	`).Scan(&incomplete)
	if err != nil {
		t.Fatalf("count incomplete practices: %v", err)
	}
	if incomplete != 0 {
		t.Errorf("%d practices lack a translation", incomplete)
	}
}

func TestSeedMissingFile(t *testing.T) {
	db, err := Connect(testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if err := Seed(db, "/nonexistent/practices.yaml"); err == nil {
		t.Error("expected error for missing seed file")
	}
}
