package http

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

var emailRX = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Form wraps submitted values with per-field errors so templates can re-render
// a failed submission inline next to the offending field.
type Form struct {
	url.Values
	Errors map[string]string
}

func NewForm(values url.Values) *Form {
	return &Form{Values: values, Errors: map[string]string{}}
}

func (f *Form) Valid() bool {
	return len(f.Errors) == 0
}

// AddError records the first error per field; later checks don't overwrite it.
func (f *Form) AddError(field, message string) {
	if _, ok := f.Errors[field]; !ok {
		f.Errors[field] = message
	}
}

func (f *Form) Required(fields ...string) {
	for _, field := range fields {
		if strings.TrimSpace(f.Get(field)) == "" {
			f.AddError(field, "This field is required")
		}
	}
}

func (f *Form) MinLength(field string, n int) {
	v := f.Get(field)
	if v != "" && utf8.RuneCountInString(v) < n {
		f.AddError(field, "Must be at least "+strconv.Itoa(n)+" characters")
	}
}

func (f *Form) MaxLength(field string, n int) {
	if utf8.RuneCountInString(f.Get(field)) > n {
		f.AddError(field, "Must be at most "+strconv.Itoa(n)+" characters")
	}
}

func (f *Form) IsEmail(field string) {
	if v := f.Get(field); v != "" && !emailRX.MatchString(v) {
		f.AddError(field, "Invalid email address")
	}
}

// EqualFields flags the second field when the two values differ.
func (f *Form) EqualFields(field, confirm string) {
	if f.Get(field) != f.Get(confirm) {
		f.AddError(confirm, "Fields must match")
	}
}

func (f *Form) OneOf(field string, allowed ...string) {
	v := f.Get(field)
	for _, a := range allowed {
		if v == a {
			return
		}
	}
	f.AddError(field, "Invalid choice")
}

// Float parses a non-negative decimal, defaulting to 0 when blank.
func (f *Form) Float(field string) float64 {
	v := strings.TrimSpace(f.Get(field))
	if v == "" {
		return 0
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || n < 0 {
		f.AddError(field, "Must be a non-negative number")
		return 0
	}
	return n
}

// Int parses an integer no smaller than min.
func (f *Form) Int(field string, min int) int {
	n, err := strconv.Atoi(strings.TrimSpace(f.Get(field)))
	if err != nil || n < min {
		f.AddError(field, "Must be a whole number of at least "+strconv.Itoa(min))
		return min
	}
	return n
}

// DateTime combines a YYYY-MM-DD date field and an HH:MM time field.
func (f *Form) DateTime(dateField, timeField string) time.Time {
	d, err := time.Parse("2006-01-02", f.Get(dateField))
	if err != nil {
		f.AddError(dateField, "Use the YYYY-MM-DD format")
		return time.Time{}
	}
	t, err := time.Parse("15:04", f.Get(timeField))
	if err != nil {
		f.AddError(timeField, "Use the HH:MM format")
		return time.Time{}
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}
