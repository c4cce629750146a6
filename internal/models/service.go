// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Service is a legal service offered by a company or specialist.
type Service struct {
	ID           uuid.UUID                        `json:"id"`
	ProfileID    uuid.UUID                        `json:"profile_id"`
	PracticeID   *uuid.UUID                       `json:"practice_id,omitempty"`
	Status       Status                           `json:"status"`
	Price        *int64                           `json:"price,omitempty"` // minor units (tetri)
	ImageURL     *string                          `json:"image_url,omitempty"`
	Translations Translations[ServiceTranslation] `json:"translations"`
	CreatedAt    time.Time                        `json:"created_at"`
	UpdatedAt    time.Time                        `json:"updated_at"`
}

// ServiceTranslation holds the localized text of a service.
type ServiceTranslation struct {
	Language       Language `json:"language"`
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Description    string   `json:"description"`
	SEOTitle       string   `json:"seo_title"`
	SEODescription string   `json:"seo_description"`
}
