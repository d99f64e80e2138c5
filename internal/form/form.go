// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package form validates raw post-creation input. Form submissions arrive as
// flat string maps, so every field is coerced here before constraint checks
// run. Callers get back either a typed CreatePost or an ordered list of
// human-readable field errors; malformed input never panics.
package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// CreatePost is the validated shape of a post-creation request.
type CreatePost struct {
	Title            string `validate:"required,min=3,max=120"`
	Excerpt          string `validate:"required,min=3,max=300"`
	Body             string `validate:"required,min=3"`
	CoverImageURL    string `validate:"omitempty,max=2048"`
	CoverImageWidth  int64  `validate:"gte=0,lte=10000"`
	CoverImageHeight int64  `validate:"gte=0,lte=10000"`
	CoverImageAlt    string `validate:"max=200"`
	Published        bool
}

// FieldError describes a single validation failure in caller-facing terms.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Message
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ugcPolicy strips markup from user-supplied text fields before they are
// handed to entity construction.
var ugcPolicy = bluemonday.UGCPolicy()

// fieldOrder fixes the reporting order of errors regardless of which
// coercion or constraint produced them.
var fieldOrder = []string{
	"Title", "Excerpt", "Body",
	"CoverImageURL", "CoverImageWidth", "CoverImageHeight", "CoverImageAlt",
	"Published",
}

var fieldLabels = map[string]string{
	"Title":            "title",
	"Excerpt":          "excerpt",
	"Body":             "body",
	"CoverImageURL":    "cover image URL",
	"CoverImageWidth":  "cover image width",
	"CoverImageHeight": "cover image height",
	"CoverImageAlt":    "cover image alt text",
	"Published":        "published",
}

// ParseCreate coerces and validates a raw form submission. Unknown keys are
// ignored. A nil or empty map is handled like any other invalid submission.
// On success the returned errors slice is empty and the text fields have
// been sanitized.
func ParseCreate(raw map[string]string) (CreatePost, []FieldError) {
	byField := make(map[string][]FieldError)

	cp := CreatePost{
		Title:         strings.TrimSpace(raw["title"]),
		Excerpt:       strings.TrimSpace(raw["excerpt"]),
		Body:          raw["body"],
		CoverImageURL: strings.TrimSpace(raw["cover_image_url"]),
		CoverImageAlt: strings.TrimSpace(raw["cover_image_alt"]),
	}

	cp.CoverImageWidth = coerceInt(raw, "cover_image_width", "CoverImageWidth", byField)
	cp.CoverImageHeight = coerceInt(raw, "cover_image_height", "CoverImageHeight", byField)
	cp.Published = coerceBool(raw["published"])

	if err := validate.Struct(cp); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			for _, fe := range vErrs {
				field := fe.StructField()
				byField[field] = append(byField[field], FieldError{
					Field:   fieldLabels[field],
					Message: constraintMessage(field, fe),
				})
			}
		} else {
			byField["Title"] = append(byField["Title"], FieldError{
				Field:   "form",
				Message: "invalid form submission",
			})
		}
	}

	var errs []FieldError
	for _, field := range fieldOrder {
		errs = append(errs, byField[field]...)
	}
	if len(errs) > 0 {
		return CreatePost{}, errs
	}

	cp.Title = ugcPolicy.Sanitize(cp.Title)
	cp.Excerpt = ugcPolicy.Sanitize(cp.Excerpt)
	cp.Body = ugcPolicy.Sanitize(cp.Body)
	cp.CoverImageAlt = ugcPolicy.Sanitize(cp.CoverImageAlt)
	return cp, nil
}

func coerceInt(raw map[string]string, key, field string, byField map[string][]FieldError) int64 {
	s := strings.TrimSpace(raw[key])
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		byField[field] = append(byField[field], FieldError{
			Field:   fieldLabels[field],
			Message: fmt.Sprintf("%s must be a whole number", fieldLabels[field]),
		})
		return 0
	}
	return n
}

// coerceBool accepts the browser checkbox value "on" alongside the usual
// boolean spellings. Anything unrecognized means unpublished.
func coerceBool(s string) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "on" {
		return true
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return b
}

func constraintMessage(field string, fe validator.FieldError) string {
	label := fieldLabels[field]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}
