package http

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForm_Required(t *testing.T) {
	f := NewForm(url.Values{"name": {"Ada"}, "phone": {"   "}})
	f.Required("name", "phone", "email")

	assert.False(t, f.Valid())
	assert.Contains(t, f.Errors, "phone")
	assert.Contains(t, f.Errors, "email")
	assert.NotContains(t, f.Errors, "name")
}

func TestForm_IsEmail(t *testing.T) {
	f := NewForm(url.Values{"good": {"a@b.com"}, "bad": {"not-an-email"}})
	f.IsEmail("good")
	f.IsEmail("bad")

	assert.NotContains(t, f.Errors, "good")
	assert.Contains(t, f.Errors, "bad")
}

func TestForm_Lengths(t *testing.T) {
	f := NewForm(url.Values{"pw": {"abc"}, "title": {"ok"}})
	f.MinLength("pw", 6)
	f.MaxLength("title", 200)

	assert.Contains(t, f.Errors, "pw")
	assert.NotContains(t, f.Errors, "title")
}

func TestForm_EqualFields(t *testing.T) {
	f := NewForm(url.Values{"password": {"secret1"}, "confirm": {"secret2"}})
	f.EqualFields("password", "confirm")
	assert.Contains(t, f.Errors, "confirm")
}

func TestForm_OneOf(t *testing.T) {
	f := NewForm(url.Values{"role": {"organizer"}, "category": {"rave"}})
	f.OneOf("role", "attendee", "organizer")
	f.OneOf("category", "concert", "conference")

	assert.NotContains(t, f.Errors, "role")
	assert.Contains(t, f.Errors, "category")
}

func TestForm_Numbers(t *testing.T) {
	f := NewForm(url.Values{"price": {"10.50"}, "capacity": {"0"}, "blank": {""}})

	assert.Equal(t, 10.5, f.Float("price"))
	assert.Equal(t, 0.0, f.Float("blank"))

	f.Int("capacity", 1)
	assert.Contains(t, f.Errors, "capacity")

	g := NewForm(url.Values{"price": {"-3"}})
	g.Float("price")
	assert.Contains(t, g.Errors, "price")
}

func TestForm_DateTime(t *testing.T) {
	f := NewForm(url.Values{"date": {"2026-10-01"}, "time": {"19:30"}})
	ts := f.DateTime("date", "time")

	assert.True(t, f.Valid())
	assert.Equal(t, 2026, ts.Year())
	assert.Equal(t, 19, ts.Hour())
	assert.Equal(t, 30, ts.Minute())

	g := NewForm(url.Values{"date": {"01/10/2026"}, "time": {"19:30"}})
	g.DateTime("date", "time")
	assert.Contains(t, g.Errors, "date")
}

func TestForm_FirstErrorWins(t *testing.T) {
	f := NewForm(url.Values{})
	f.AddError("email", "first")
	f.AddError("email", "second")
	assert.Equal(t, "first", f.Errors["email"])
}
