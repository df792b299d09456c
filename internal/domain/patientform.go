package domain

import (
	"regexp"
	"strings"
	"time"
)

// PatientForm holds the data a patient enters before confirming a booking.
type PatientForm struct {
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	BirthDate     *time.Time `json:"birthDate,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	TermsAccepted bool       `json:"termsAccepted"`
}

var (
	// Letters (including accented), spaces only.
	nameRegexp = regexp.MustCompile(`^[\p{L}]+(?: [\p{L}]+)*$`)

	// local@domain.tld
	emailRegexp = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

	// (NN) NNNNN-NNNN or (NN) NNNN-NNNN
	phoneRegexp = regexp.MustCompile(`^\(\d{2}\) \d{4,5}-\d{4}$`)
)

// Validate checks every form rule and returns all violations together; it
// never stops at the first failing field. An empty slice means the form
// passes.
func (f *PatientForm) Validate(now time.Time) []FieldError {
	errs := make([]FieldError, 0)

	name := strings.TrimSpace(f.Name)
	switch {
	case name == "":
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	case len([]rune(name)) < MinPatientNameLength:
		errs = append(errs, FieldError{Field: "name", Message: "name is too short"})
	case len([]rune(name)) > MaxPatientNameLength:
		errs = append(errs, FieldError{Field: "name", Message: "name is too long"})
	case !nameRegexp.MatchString(name):
		errs = append(errs, FieldError{Field: "name", Message: "name may contain letters and spaces only"})
	}

	if !emailRegexp.MatchString(strings.TrimSpace(f.Email)) {
		errs = append(errs, FieldError{Field: "email", Message: "invalid email address"})
	}

	if !phoneRegexp.MatchString(strings.TrimSpace(f.Phone)) {
		errs = append(errs, FieldError{Field: "phone", Message: "phone must match (NN) NNNNN-NNNN or (NN) NNNN-NNNN"})
	}

	if f.BirthDate != nil {
		switch {
		case f.BirthDate.After(now):
			errs = append(errs, FieldError{Field: "birthDate", Message: "birth date must not be in the future"})
		case f.BirthDate.Before(now.AddDate(-MaxPatientAgeYears, 0, 0)):
			errs = append(errs, FieldError{Field: "birthDate", Message: "birth date is out of range"})
		}
	}

	if f.Notes != nil && len([]rune(*f.Notes)) > MaxNotesLength {
		errs = append(errs, FieldError{Field: "notes", Message: "notes are too long"})
	}

	if !f.TermsAccepted {
		errs = append(errs, FieldError{Field: "termsAccepted", Message: "terms must be accepted"})
	}

	return errs
}
