package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

func validForm() PatientForm {
	return PatientForm{
		Name:          "João da Silva",
		Email:         "joao.silva@example.com",
		Phone:         "(11) 98765-4321",
		TermsAccepted: true,
	}
}

func fieldsOf(errs []FieldError) []string {
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	return fields
}

func TestPatientFormValidate_Valid(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)
	form := validForm()

	assert.Empty(t, form.Validate(now))
}

func TestPatientFormValidate_OptionalFields(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)
	form := validForm()
	form.BirthDate = ptr.Ptr(time.Date(1990, 5, 20, 0, 0, 0, 0, time.Local))
	form.Notes = ptr.Ptr("prefere sessões pela manhã")
	form.Phone = "(21) 2345-6789" // landline format also accepted

	assert.Empty(t, form.Validate(now))
}

func TestPatientFormValidate_Name(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name  string
		value string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"single letter", "A"},
		{"too long", strings.Repeat("a", 101)},
		{"digits", "John 2nd"},
		{"symbols", "Ana<script>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			form.Name = tt.value
			assert.Contains(t, fieldsOf(form.Validate(now)), "name")
		})
	}

	accented := validForm()
	accented.Name = "José Antônio Gonçalves"
	assert.Empty(t, accented.Validate(now))
}

func TestPatientFormValidate_EmailAndPhone(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)

	form := validForm()
	form.Email = "not-an-email"
	assert.Contains(t, fieldsOf(form.Validate(now)), "email")

	form = validForm()
	form.Phone = "11987654321"
	assert.Contains(t, fieldsOf(form.Validate(now)), "phone")

	form = validForm()
	form.Phone = "(11) 987-654321"
	assert.Contains(t, fieldsOf(form.Validate(now)), "phone")
}

func TestPatientFormValidate_BirthDate(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)

	form := validForm()
	form.BirthDate = ptr.Ptr(now.AddDate(0, 0, 1))
	assert.Contains(t, fieldsOf(form.Validate(now)), "birthDate")

	form = validForm()
	form.BirthDate = ptr.Ptr(now.AddDate(-130, 0, 0))
	assert.Contains(t, fieldsOf(form.Validate(now)), "birthDate")
}

func TestPatientFormValidate_NotesAndTerms(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)

	form := validForm()
	form.Notes = ptr.Ptr(strings.Repeat("x", 501))
	assert.Contains(t, fieldsOf(form.Validate(now)), "notes")

	form = validForm()
	form.TermsAccepted = false
	assert.Contains(t, fieldsOf(form.Validate(now)), "termsAccepted")
}

func TestPatientFormValidate_CollectsAllViolations(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)

	form := PatientForm{
		Name:          "",
		Email:         "broken",
		Phone:         "123",
		Notes:         ptr.Ptr(strings.Repeat("x", 600)),
		TermsAccepted: false,
	}

	errs := form.Validate(now)

	require.Len(t, errs, 5)
	fields := fieldsOf(errs)
	for _, want := range []string{"name", "email", "phone", "notes", "termsAccepted"} {
		assert.Contains(t, fields, want)
	}
}
