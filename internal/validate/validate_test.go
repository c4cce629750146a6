// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package validate

import (
	"errors"
	"strings"
	"testing"

	"legaldir/internal/models"
)

func TestRequired(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantError bool
	}{
		{"present", "Tax Law", false},
		{"empty", "", true},
		{"whitespace", "   ", true},
		{"georgian", "სამართალი", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Errors
			v.Required("name", tt.value)
			err := v.Err()
			if tt.wantError && err == nil {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestMaxLenCountsRunes(t *testing.T) {
	var v Errors
	// 200 Georgian letters are 600 bytes but still within the limit.
	v.MaxLen("name", strings.Repeat("ა", MaxNameLen), MaxNameLen)
	if err := v.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v.MaxLen("name", strings.Repeat("ა", MaxNameLen+1), MaxNameLen)
	if v.Err() == nil {
		t.Fatal("expected an error for 201 runes")
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		name      string
		slug      string
		wantError bool
	}{
		{"valid", "tax-law", false},
		{"digits", "article-2024", false},
		{"empty", "", true},
		{"uppercase", "Tax-Law", true},
		{"spaces", "tax law", true},
		{"double hyphen", "tax--law", true},
		{"leading hyphen", "-tax", true},
		{"non-latin", "სამართალი", true},
		{"too long", strings.Repeat("a", MaxSlugLen+1), true},
		{"at limit", strings.Repeat("a", MaxSlugLen), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Errors
			v.Slug("slug", tt.slug)
			err := v.Err()
			if tt.wantError && err == nil {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestFirstErrorWins(t *testing.T) {
	var v Errors
	v.Required("name.ka", "")
	v.MaxLen("name.ka", "", 0)
	v.Add("name.ka", "something else")

	var verr *Error
	if !errors.As(v.Err(), &verr) {
		t.Fatal("expected *Error")
	}
	if got := verr.Fields["name.ka"]; got != "is required" {
		t.Errorf("message = %q, want %q", got, "is required")
	}
}

func TestErrorMessageIsSorted(t *testing.T) {
	var v Errors
	v.Add(Field("name", models.LangRU), "is required")
	v.Add(Field("name", models.LangEN), "is required")

	got := v.Err().Error()
	want := "validation failed: name.en: is required; name.ru: is required"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestZeroValueHasNoError(t *testing.T) {
	var v Errors
	if err := v.Err(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
