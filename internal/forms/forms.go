// Package forms validates the values typed into the TUI before anything is
// sent to the backend.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/bance-assetou/mindvision/pkg/domain"
)

// Errors maps a form field to the message shown under it. Empty means valid.
type Errors map[string]string

// Login is the sign-in form.
type Login struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// Registration is the sign-up form.
type Registration struct {
	Name     string `form:"name" validate:"required"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,password"`
	Confirm  string `form:"confirm" validate:"required,eqfield=Password"`
}

// Booking is the book-a-coach form. Date is YYYY-MM-DD, Time is HH:MM.
type Booking struct {
	CoachID string `form:"coach" validate:"required"`
	Date    string `form:"date" validate:"required,datetime=2006-01-02,notpast"`
	Time    string `form:"time" validate:"required,datetime=15:04"`
}

// When combines the booking's date and time in loc.
func (b Booking) When(loc *time.Location) (time.Time, error) {
	return when(b.Date, b.Time, loc)
}

// Appointment is the book-a-service form.
type Appointment struct {
	ServiceID string `form:"service" validate:"required"`
	Date      string `form:"date" validate:"required,datetime=2006-01-02,notpast"`
	Time      string `form:"time" validate:"required,datetime=15:04"`
	Notes     string `form:"notes" validate:"max=500"`
}

// When combines the appointment's date and time in loc.
func (a Appointment) When(loc *time.Location) (time.Time, error) {
	return when(a.Date, a.Time, loc)
}

func when(date, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(domain.DateLayout+" 15:04", date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("forms.When: %w", err)
	}
	return t, nil
}

// Validator checks forms. now decides what "past" means for bookings.
type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

// New returns a Validator using the wall clock.
func New() *Validator {
	return NewAt(time.Now)
}

// NewAt returns a Validator with an injected clock.
func NewAt(now func() time.Time) *Validator {
	fv := &Validator{v: validator.New(validator.WithRequiredStructEnabled()), now: now}
	fv.v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	fv.v.RegisterValidation("password", validPassword) //nolint:errcheck // static tag
	fv.v.RegisterValidation("notpast", fv.notPast)     //nolint:errcheck // static tag
	return fv
}

// Check validates a form struct and returns one message per failing field.
func (fv *Validator) Check(form any) Errors {
	err := fv.v.Struct(form)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return Errors{"form": err.Error()}
	}
	out := make(Errors, len(ve))
	for _, fe := range ve {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = fieldError(fe)
		}
	}
	return out
}

// First returns the message for the earliest field in order that failed.
func (e Errors) First(order ...string) string {
	for _, f := range order {
		if msg, ok := e[f]; ok {
			return msg
		}
	}
	return ""
}

// validPassword wants 8+ letters and digits with at least one of each.
func validPassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) < 8 {
		return false
	}
	var letter, digit bool
	for _, r := range s {
		switch {
		case r < unicode.MaxASCII && unicode.IsLetter(r):
			letter = true
		case r < unicode.MaxASCII && unicode.IsDigit(r):
			digit = true
		default:
			return false
		}
	}
	return letter && digit
}

// notPast accepts today and later, compared by calendar day.
func (fv *Validator) notPast(fl validator.FieldLevel) bool {
	day, err := time.ParseInLocation(domain.DateLayout, fl.Field().String(), time.Local)
	if err != nil {
		return false
	}
	now := fv.now().In(time.Local)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	return !day.Before(today)
}

func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	label := strings.ToUpper(field[:1]) + field[1:]
	switch fe.Tag() {
	case "required":
		if field == "confirm" {
			return "Please confirm your password"
		}
		return label + " is required"
	case "email":
		return "Invalid email address"
	case "password":
		return "Password must be at least 8 characters and include at least one letter and one number"
	case "eqfield":
		return "Passwords do not match"
	case "notpast":
		return "Please select a future date"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must look like %s", label, layoutHint(fe.Param()))
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

func layoutHint(layout string) string {
	switch layout {
	case domain.DateLayout:
		return "YYYY-MM-DD"
	case "15:04":
		return "HH:MM"
	}
	return layout
}

// FormatName capitalizes each word of a display name.
func FormatName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		rs := []rune(strings.ToLower(w))
		rs[0] = unicode.ToUpper(rs[0])
		words[i] = string(rs)
	}
	return strings.Join(words, " ")
}
