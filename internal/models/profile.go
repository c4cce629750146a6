// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ProfileKind distinguishes companies from individual specialists. Both
// live in the profiles table.
type ProfileKind string

const (
	ProfileCompany    ProfileKind = "company"
	ProfileSpecialist ProfileKind = "specialist"
)

// Status is the publication state shared by directory entities.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Toggle returns the opposite status.
func (s Status) Toggle() Status {
	if s == StatusActive {
		return StatusInactive
	}
	return StatusActive
}

// Profile is a company or specialist listed in the directory.
type Profile struct {
	ID           uuid.UUID                        `json:"id"`
	Kind         ProfileKind                      `json:"kind"`
	Status       Status                           `json:"status"`
	Blocked      bool                             `json:"blocked"`
	CompanyID    *uuid.UUID                       `json:"company_id,omitempty"`
	Email        string                           `json:"email"`
	Phone        string                           `json:"phone"`
	Website      string                           `json:"website"`
	AvatarURL    *string                          `json:"avatar_url,omitempty"`
	LogoURL      *string                          `json:"logo_url,omitempty"`
	PracticeIDs  []uuid.UUID                      `json:"practice_ids"`
	Translations Translations[ProfileTranslation] `json:"translations"`
	CreatedAt    time.Time                        `json:"created_at"`
	UpdatedAt    time.Time                        `json:"updated_at"`
}

// IsCompany reports whether the profile represents a company.
func (p *Profile) IsCompany() bool {
	return p.Kind == ProfileCompany
}

// ProfileTranslation holds the localized text of a profile.
type ProfileTranslation struct {
	Language       Language `json:"language"`
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Position       string   `json:"position"`
	Bio            string   `json:"bio"`
	Address        string   `json:"address"`
	SEOTitle       string   `json:"seo_title"`
	SEODescription string   `json:"seo_description"`
}
