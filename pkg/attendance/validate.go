package attendance

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/schoolattendance/backend/models/attendance"
	"github.com/schoolattendance/backend/pkg/apperr"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("section", func(fl validator.FieldLevel) bool {
		return attendance.Section(fl.Field().String()).Valid()
	})

	return v
}

func sectionList() string {
	names := make([]string, 0, len(attendance.Sections()))
	for _, s := range attendance.Sections() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

// toValidationError turns the first validator failure into a ValidationError.
func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Invalid("", err.Error())
	}

	fe := verrs[0]
	var reason string
	switch fe.Tag() {
	case "required":
		reason = "is required"
	case "section":
		reason = "must be one of " + sectionList()
	case "datetime":
		reason = "must be a date in YYYY-MM-DD format"
	default:
		reason = fmt.Sprintf("failed %q check", fe.Tag())
	}
	return apperr.Invalid(fe.Field(), reason)
}

// validateInput checks in and converts it into the record to store. No
// value is coerced: a malformed count is an error.
func (r *Repository) validateInput(in attendance.Input) (attendance.Record, error) {
	in.SchoolID = strings.TrimSpace(in.SchoolID)
	in.Date = strings.TrimSpace(in.Date)
	in.TeacherID = strings.TrimSpace(in.TeacherID)

	if err := r.validate.Struct(in); err != nil {
		return attendance.Record{}, toValidationError(err)
	}

	date, err := attendance.ParseDate(in.Date)
	if err != nil {
		return attendance.Record{}, apperr.Invalid("date", "must be a date in YYYY-MM-DD format")
	}

	boys, err := in.BoysPresent.Parse()
	if err != nil {
		return attendance.Record{}, apperr.Invalid("boys_present", err.Error())
	}
	girls, err := in.GirlsPresent.Parse()
	if err != nil {
		return attendance.Record{}, apperr.Invalid("girls_present", err.Error())
	}

	rec := attendance.Record{
		SchoolID:     in.SchoolID,
		Section:      in.Section,
		Date:         date,
		BoysPresent:  boys,
		GirlsPresent: girls,
	}
	if in.TeacherID != "" {
		teacherID := in.TeacherID
		rec.TeacherID = &teacherID
	}
	return rec, nil
}

// validateBatch validates every row before anything is written. The first
// failing row fails the whole batch.
func (r *Repository) validateBatch(b attendance.BatchInput) ([]attendance.Record, error) {
	if strings.TrimSpace(b.SchoolID) == "" {
		return nil, apperr.Invalid("school_id", "is required")
	}
	if strings.TrimSpace(b.Date) == "" {
		return nil, apperr.Invalid("date", "is required")
	}
	if len(b.Records) == 0 {
		return nil, apperr.Invalid("records", "must contain at least one row")
	}

	recs := make([]attendance.Record, 0, len(b.Records))
	for i := range b.Records {
		rec, err := r.validateInput(b.Input(i))
		if err != nil {
			var ve *apperr.ValidationError
			if errors.As(err, &ve) {
				switch ve.Field {
				case "school_id", "date", "teacher_id":
					return nil, ve
				}
				return nil, apperr.Invalid(fmt.Sprintf("records[%d].%s", i, ve.Field), ve.Reason)
			}
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func validateFilter(f attendance.Filter) (attendance.Filter, error) {
	if f.DateFrom != nil {
		d := attendance.NormalizeDate(*f.DateFrom)
		f.DateFrom = &d
	}
	if f.DateTo != nil {
		d := attendance.NormalizeDate(*f.DateTo)
		f.DateTo = &d
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return f, apperr.Invalid("date_to", "must not be before date_from")
	}
	if f.Section != "" && !f.Section.Valid() {
		return f, apperr.Invalid("section", "must be one of "+sectionList())
	}
	f.SchoolID = strings.TrimSpace(f.SchoolID)
	return f, nil
}
