package model

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

func (e *ValidationError) add(field, msg string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: msg})
}

// resourceNamePattern keeps resource names usable as a single URL path segment.
var resourceNamePattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidateProject checks a Project for constraint violations.
func ValidateProject(p *Project) error {
	var ve ValidationError

	name := strings.TrimSpace(p.Name)
	if name == "" {
		ve.add("name", "is required")
	} else if len([]rune(name)) > 200 {
		ve.add("name", "must be 200 characters or fewer")
	}
	if p.Slug != "" && !resourceNamePattern.MatchString(p.Slug) {
		ve.add("slug", fmt.Sprintf("invalid value %q", p.Slug))
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateResource checks a Resource for constraint violations.
func ValidateResource(r *Resource) error {
	var ve ValidationError

	switch {
	case r.Name == "":
		ve.add("name", "is required")
	case !resourceNamePattern.MatchString(r.Name):
		ve.add("name", "must be lower-case letters, digits and single dashes")
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateEndpoint checks an Endpoint and its schema fields for constraint
// violations. Duplicate field names are allowed.
func ValidateEndpoint(e *Endpoint) error {
	var ve ValidationError

	if strings.TrimSpace(e.Name) == "" {
		ve.add("name", "is required")
	}
	if !e.Method.IsValid() {
		ve.add("method", fmt.Sprintf("invalid value %q", e.Method))
	}
	if e.Route != "" && !strings.HasPrefix(e.Route, "/") {
		ve.add("route", "must start with /")
	}
	if strings.ContainsAny(e.Route, "?#") {
		ve.add("route", "must not contain a query or fragment")
	}
	if e.ListLimit != nil && *e.ListLimit <= 0 {
		ve.add("list_limit", fmt.Sprintf("must be positive, got %d", *e.ListLimit))
	}

	for i, f := range e.Schemas {
		field := fmt.Sprintf("schemas[%d]", i)
		if strings.TrimSpace(f.Name) == "" {
			ve.add(field+".name", "is required")
		}
		if !f.Type.IsValid() {
			ve.add(field+".type", fmt.Sprintf("invalid value %q", f.Type))
		}
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
