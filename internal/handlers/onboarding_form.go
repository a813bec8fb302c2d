package handlers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"hr-onboarding/internal/models"
)

var regexDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

const minYear = 1900

var requiredFields = []string{
	"fullName", "email", "phone", "dob",
	"streetAddress", "city", "state", "zipCode",
	"department", "jobRole", "jobStartDate",
	"emergencyContactName", "emergencyContactRelationship",
	"emergencyContactPhone", "emergencyContactAddress",
}

type formValues map[string][]string

func (v formValues) get(key string) string {
	if vs := v[key]; len(vs) > 0 {
		return strings.TrimSpace(vs[0])
	}
	return ""
}

func (v formValues) optional(key string) *string {
	s := v.get(key)
	if s == "" {
		return nil
	}
	return &s
}

// validationError is reported to the client as a 400.
type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func invalid(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

// parseOnboardingForm maps multipart values onto a record. Required dates must
// be real YYYY-MM-DD dates; malformed optional dates are dropped with a warning.
func parseOnboardingForm(v formValues, now time.Time, log *zerolog.Logger) (*models.OnboardingRecord, error) {
	var missing []string
	for _, key := range requiredFields {
		if v.get(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, invalid("missing required fields: %s", strings.Join(missing, ", "))
	}

	dob, err := requiredDate(v, "dob")
	if err != nil {
		return nil, err
	}
	start, err := requiredDate(v, "jobStartDate")
	if err != nil {
		return nil, err
	}

	rec := &models.OnboardingRecord{
		EmpID:         v.get("empId"),
		FullName:      v.get("fullName"),
		Email:         v.get("email"),
		Phone:         v.get("phone"),
		DOB:           &dob,
		StreetAddress: v.get("streetAddress"),
		City:          v.get("city"),
		State:         v.get("state"),
		ZipCode:       v.get("zipCode"),
		Department:    v.get("department"),
		JobRole:       v.get("jobRole"),
		JobStartDate:  &start,

		SSCInstitution:   v.optional("sscInstitution"),
		InterInstitution: v.optional("interInstitution"),
		Degree:           v.optional("degree"),
		Institution:      v.optional("institution"),

		BankName:      v.optional("bankName"),
		MobileNumber:  v.optional("mobileNumber"),
		AccountNumber: v.optional("accountNumber"),
		IFSCNumber:    v.optional("ifscNumber"),

		PrevCompanyName:     v.optional("prevCompanyName"),
		PrevJobRole:         v.optional("prevJobRole"),
		PrevEmploymentStart: optionalDate(v, "prevEmploymentStart", log),
		PrevEmploymentEnd:   optionalDate(v, "prevEmploymentEnd", log),

		EmergencyContactName:         v.get("emergencyContactName"),
		EmergencyContactRelationship: v.get("emergencyContactRelationship"),
		EmergencyContactPhone:        v.get("emergencyContactPhone"),
		EmergencyContactAddress:      v.get("emergencyContactAddress"),

		Status: models.StatusPending,
	}

	if !strings.Contains(rec.Email, "@") {
		return nil, invalid("invalid email address")
	}

	years := []struct {
		key string
		dst **int
	}{
		{"sscYear", &rec.SSCYear},
		{"interYear", &rec.InterYear},
		{"graduationYear", &rec.GraduationYear},
	}
	for _, y := range years {
		if *y.dst, err = optionalYear(v, y.key, now.Year()); err != nil {
			return nil, err
		}
	}

	return rec, nil
}

func validDate(s string) bool {
	if !regexDate.MatchString(s) {
		return false
	}
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}

func requiredDate(v formValues, key string) (string, error) {
	s := v.get(key)
	if !validDate(s) {
		return "", invalid("invalid date for '%s', expected YYYY-MM-DD", key)
	}
	return s, nil
}

func optionalDate(v formValues, key string, log *zerolog.Logger) *string {
	s := v.get(key)
	if s == "" || s == "null" {
		return nil
	}
	if !validDate(s) {
		log.Warn().Str("field", key).Str("value", s).Msg("invalid date format, storing null")
		return nil
	}
	return &s
}

func optionalYear(v formValues, key string, maxYear int) (*int, error) {
	s := v.get(key)
	if s == "" || s == "null" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < minYear || n > maxYear {
		return nil, invalid("invalid year for '%s', expected %d-%d", key, minYear, maxYear)
	}
	return &n, nil
}
