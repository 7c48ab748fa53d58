// Package validation holds the shallow client-side checks run before a form
// is submitted. They filter obvious typos; the backend stays authoritative.
package validation

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strings"

	validator "github.com/go-playground/validator/v10"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = validator.New()

// ValidateEmail checks the local@domain.tld shape: no whitespace, a single
// @ and at least one dot after it. It is not an RFC 5322 parser.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateForm reports whether every field is filled in. A field fails when
// its value is nil, a zero number, NaN, false, or text that is empty once
// trimmed. Lists count by their comma-joined elements, so an empty list fails.
// An empty form is valid.
func ValidateForm(formData map[string]any) bool {
	for _, value := range formData {
		if !filled(value) {
			return false
		}
	}

	return true
}

// MissingFields returns the sorted names of the fields ValidateForm rejects.
func MissingFields(formData map[string]any) []string {
	var missing []string
	for key, value := range formData {
		if !filled(value) {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)

	return missing
}

func filled(value any) bool {
	if value == nil {
		return false
	}
	if err := validate.Var(value, "required"); err != nil {
		return false
	}
	if isNaN(value) {
		return false
	}

	return strings.TrimSpace(stringify(value)) != ""
}

func isNaN(value any) bool {
	switch v := value.(type) {
	case float64:
		return math.IsNaN(v)
	case float32:
		return math.IsNaN(float64(v))
	}

	return false
}

// stringify renders a value the way string coercion does in the browser:
// list elements are joined with commas and nil elements are empty.
func stringify(value any) string {
	if value == nil {
		return ""
	}

	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = stringify(rv.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	case reflect.Pointer:
		if rv.IsNil() {
			return ""
		}
		return stringify(rv.Elem().Interface())
	}

	return fmt.Sprint(value)
}
