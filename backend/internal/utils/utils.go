package utils

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/potatoland/potatoland/shared/errors"
)

const (
	maxNameLen        = 100
	maxDescriptionLen = 500
)

var colorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// BoardValidator checks and cleans user supplied board fields.
type BoardValidator struct {
	policy *bluemonday.Policy
}

func New() *BoardValidator {
	return &BoardValidator{policy: bluemonday.StrictPolicy()}
}

// Clean strips every HTML tag from s and trims surrounding whitespace.
func (v *BoardValidator) Clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(v.policy.Sanitize(s)))
}

func (v *BoardValidator) Name(name string) error {
	if name == "" {
		return errors.BadRequest("Name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return errors.BadRequest("Name is too long")
	}
	return nil
}

func (v *BoardValidator) Description(description string) error {
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return errors.BadRequest("Description is too long")
	}
	return nil
}

// BackgroundColor accepts an empty value or #RRGGBB.
func (v *BoardValidator) BackgroundColor(color string) error {
	if color != "" && !colorRe.MatchString(color) {
		return errors.BadRequest("Background color must look like #RRGGBB")
	}
	return nil
}
