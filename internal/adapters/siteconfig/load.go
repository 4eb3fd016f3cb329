// Package siteconfig loads the site content document. The document is YAML,
// decoded strictly (unknown keys and unknown enum values are errors) and
// validated before it becomes a domain.Site. A Store keeps the current
// snapshot and a Watcher reloads it when the file changes on disk.
package siteconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jsamuelsen/marketing-site/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// Load reads and parses the content document at path.
func Load(path string) (*domain.Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content %s: %w", path, err)
	}

	site, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading content %s: %w", path, err)
	}

	return site, nil
}

// Parse decodes and validates a content document.
func Parse(data []byte) (*domain.Site, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var site domain.Site
	if err := dec.Decode(&site); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.NewValidationError("content", "document is empty")
		}

		return nil, fmt.Errorf("decoding content: %w", err)
	}

	if err := Validate(&site); err != nil {
		return nil, err
	}

	return &site, nil
}

// Validate checks the field rules of a decoded site. Every failed rule is
// reported as a domain.ValidationError, joined into one error.
func Validate(site *domain.Site) error {
	err := validate.Struct(site)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating content: %w", err)
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, domain.NewValidationErrorWithValue(fieldPath(fe.Namespace()), fieldMessage(fe), fe.Value()))
	}

	return errors.Join(errs...)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid absolute URL"
	default:
		return "failed validation: " + fe.Tag()
	}
}

// fieldPath turns "Site.projects[0].status" into "projects[0].status".
func fieldPath(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}

	return rest
}
