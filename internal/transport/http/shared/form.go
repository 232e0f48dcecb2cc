package shared

import (
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const multipartMemory = 8 << 20

// Form reads typed values out of a submitted form and collects every
// conversion problem in one Validator.
type Form struct {
	values url.Values
	files  map[string][]*multipart.FileHeader
	*Validator
}

// ParseForm accepts urlencoded and multipart bodies.
func ParseForm(r *http.Request) (*Form, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return nil, err
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, err
	}
	form := &Form{values: r.Form, Validator: NewValidator()}
	if r.MultipartForm != nil {
		form.files = r.MultipartForm.File
	}
	return form, nil
}

// NewForm wraps already parsed values, such as query parameters.
func NewForm(values url.Values) *Form {
	return &Form{values: values, Validator: NewValidator()}
}

func (f *Form) String(field string) string {
	return strings.TrimSpace(f.values.Get(field))
}

func (f *Form) RequiredString(field string) string {
	value := f.String(field)
	if value == "" {
		f.Add(field, "is required")
	}
	return value
}

// OptionalDate returns the zero time for a blank field.
func (f *Form) OptionalDate(field string) time.Time {
	raw := f.String(field)
	if raw == "" {
		return time.Time{}
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		f.Add(field, "must be a date like 2024-01-31")
		return time.Time{}
	}
	return parsed
}

func (f *Form) OptionalDatePtr(field string) *time.Time {
	parsed := f.OptionalDate(field)
	if parsed.IsZero() {
		return nil
	}
	return &parsed
}

func (f *Form) RequiredDate(field string) time.Time {
	if f.String(field) == "" {
		f.Add(field, "is required")
		return time.Time{}
	}
	return f.OptionalDate(field)
}

func (f *Form) OptionalInt(field string) *int {
	raw := f.String(field)
	if raw == "" {
		return nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		f.Add(field, "must be a whole number")
		return nil
	}
	return &parsed
}

// LenientFloat drops values that do not parse instead of rejecting the form.
func (f *Form) LenientFloat(field string) *float64 {
	raw := f.String(field)
	if raw == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

func (f *Form) Decimal(field string) decimal.Decimal {
	raw := strings.ReplaceAll(f.String(field), ",", "")
	if raw == "" {
		return decimal.Zero
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		f.Add(field, "must be a number")
		return decimal.Zero
	}
	return parsed
}

// OneOf lower-cases the value and checks it against allowed. Blank passes.
func (f *Form) OneOf(field string, allowed []string) string {
	value := strings.ToLower(f.String(field))
	if value == "" {
		return value
	}
	for _, candidate := range allowed {
		if value == candidate {
			return value
		}
	}
	f.Add(field, "must be one of "+strings.Join(allowed, ", "))
	return value
}

// File returns nil when the field carried no upload.
func (f *Form) File(field string) *multipart.FileHeader {
	headers := f.files[field]
	if len(headers) == 0 || headers[0].Filename == "" {
		return nil
	}
	return headers[0]
}

// Err returns the collected issues as one error, or nil.
func (f *Form) Err() error {
	if !f.HasIssues() {
		return nil
	}
	return errors.New(f.Message())
}
