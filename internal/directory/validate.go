// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package directory

import (
	"net/mail"
	"net/url"
	"strings"

	"legaldir/internal/models"
	"legaldir/internal/slug"
	"legaldir/internal/validate"
)

const (
	maxEmailLen   = 255
	maxPhoneLen   = 64
	maxWebsiteLen = 500
	maxAddressLen = 500
)

// nameAndSlug trims the name, derives an empty slug from it and records
// errors for both.
func nameAndSlug(v *validate.Errors, lang models.Language, name, s *string) {
	*name = strings.TrimSpace(*name)
	*s = strings.TrimSpace(*s)
	v.Required(validate.Field("name", lang), *name)
	v.MaxLen(validate.Field("name", lang), *name, validate.MaxTitleLen)
	if *s == "" {
		*s = slug.Generate(*name)
	}
	if *name != "" {
		v.Slug(validate.Field("slug", lang), *s)
	}
}

func seo(v *validate.Errors, lang models.Language, title, description string) {
	v.MaxLen(validate.Field("seo_title", lang), title, validate.MaxSEOTitleLen)
	v.MaxLen(validate.Field("seo_description", lang), description, validate.MaxMetaDescLen)
}

func prepareProfileTranslations(v *validate.Errors, in models.Translations[models.ProfileTranslation]) models.Translations[models.ProfileTranslation] {
	out := make(models.Translations[models.ProfileTranslation], len(models.Languages))
	for _, lang := range models.Languages {
		t := in[lang]
		t.Language = lang
		nameAndSlug(v, lang, &t.Name, &t.Slug)
		t.Position = strings.TrimSpace(t.Position)
		t.Address = strings.TrimSpace(t.Address)
		v.MaxLen(validate.Field("position", lang), t.Position, validate.MaxTitleLen)
		v.MaxLen(validate.Field("address", lang), t.Address, maxAddressLen)
		v.MaxLen(validate.Field("bio", lang), t.Bio, validate.MaxBodyLen)
		seo(v, lang, t.SEOTitle, t.SEODescription)
		out[lang] = t
	}
	return out
}

func prepareServiceTranslations(v *validate.Errors, in models.Translations[models.ServiceTranslation]) models.Translations[models.ServiceTranslation] {
	out := make(models.Translations[models.ServiceTranslation], len(models.Languages))
	for _, lang := range models.Languages {
		t := in[lang]
		t.Language = lang
		nameAndSlug(v, lang, &t.Name, &t.Slug)
		v.MaxLen(validate.Field("description", lang), t.Description, validate.MaxBodyLen)
		seo(v, lang, t.SEOTitle, t.SEODescription)
		out[lang] = t
	}
	return out
}

func contact(v *validate.Errors, email, phone, website *string) {
	*email = strings.TrimSpace(*email)
	*phone = strings.TrimSpace(*phone)
	*website = strings.TrimSpace(*website)

	if *email != "" {
		v.MaxLen("email", *email, maxEmailLen)
		if addr, err := mail.ParseAddress(*email); err != nil || addr.Address != *email {
			v.Add("email", "is not a valid address")
		}
	}
	v.MaxLen("phone", *phone, maxPhoneLen)
	if *website != "" {
		v.MaxLen("website", *website, maxWebsiteLen)
		u, err := url.Parse(*website)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			v.Add("website", "must be an http or https URL")
		}
	}
}
