package httpx

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
)

var (
	// ErrInvalidJSON means the body could not be parsed as JSON at all.
	ErrInvalidJSON = errors.New("invalid JSON body")
	// ErrBodyTooLarge means the body exceeded the configured size limit.
	ErrBodyTooLarge = errors.New("request body too large")
)

var validate *validator.Validate

// strictJSON matches object keys to json tags case sensitively.
var strictJSON = jsoniter.Config{CaseSensitive: true}.Froze()

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// ValidationError carries field level problems found in a request payload.
type ValidationError struct {
	Details []ErrorDetail
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		parts = append(parts, d.Field+": "+d.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Details: []ErrorDetail{{Field: field, Message: message}}}
}

// ValidateStruct runs the struct tags of s and returns one detail per
// failing field, named after its JSON tag.
func ValidateStruct(s interface{}) []ErrorDetail {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ErrorDetail{{Field: "body", Message: err.Error()}}
	}

	details := make([]ErrorDetail, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		param := fe.Param()

		var message string
		switch fe.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s", field, param)
		case "max":
			message = fmt.Sprintf("%s must be at most %s", field, param)
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", field, param)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}

		details = append(details, ErrorDetail{Field: field, Message: message})
	}
	return details
}

// DecodeAndValidate decodes raw JSON into the struct pointed to by dst and
// validates it. Keys match json tags exactly, case included, and unknown
// keys are ignored. Syntax errors yield ErrInvalidJSON. Wrongly typed
// fields and failed tags yield one *ValidationError with a detail per
// field, in struct order.
func DecodeAndValidate(raw []byte, dst interface{}) error {
	var fields map[string]jsoniter.RawMessage
	if err := strictJSON.Unmarshal(raw, &fields); err != nil {
		if strictJSON.Valid(raw) {
			return NewValidationError("body", "body must be a JSON object")
		}
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("decode target must be a pointer to a struct, got %T", dst)
	}
	v = v.Elem()
	t := v.Type()

	known := make(map[string]bool, t.NumField())
	byField := make(map[string]ErrorDetail)
	for i := 0; i < t.NumField(); i++ {
		name := jsonName(t.Field(i))
		if name == "" {
			continue
		}
		known[name] = true
		value, ok := fields[name]
		if !ok {
			continue
		}
		fv := v.Field(i)
		if err := strictJSON.Unmarshal(value, fv.Addr().Interface()); err != nil {
			byField[name] = ErrorDetail{Field: name, Message: fmt.Sprintf("%s must be %s", name, describeKind(fv.Type()))}
		}
	}

	// A wrongly typed field keeps its type detail instead of "required".
	var extra []ErrorDetail
	for _, d := range ValidateStruct(dst) {
		switch _, typed := byField[d.Field]; {
		case typed:
		case known[d.Field]:
			byField[d.Field] = d
		default:
			extra = append(extra, d)
		}
	}
	if len(byField) == 0 && len(extra) == 0 {
		return nil
	}

	details := make([]ErrorDetail, 0, len(byField)+len(extra))
	for i := 0; i < t.NumField(); i++ {
		if d, ok := byField[jsonName(t.Field(i))]; ok {
			details = append(details, d)
		}
	}
	return &ValidationError{Details: append(details, extra...)}
}

// jsonName is the key a field is decoded from, or "" when it is skipped.
func jsonName(f reflect.StructField) string {
	if !f.IsExported() {
		return ""
	}
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

// ReadBody reads the whole request body.
func ReadBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, ErrBodyTooLarge
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return raw, nil
}

// WriteDecodeError maps the errors of DecodeAndValidate and ReadBody to
// responses. It reports false when err is of neither kind.
func WriteDecodeError(w http.ResponseWriter, r *http.Request, err error) bool {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		JSONErrorWithRequest(r, w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid input", verr.Details)
		return true
	case errors.Is(err, ErrBodyTooLarge):
		JSONErrorWithRequest(r, w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large", nil)
		return true
	case errors.Is(err, ErrInvalidJSON):
		JSONErrorWithRequest(r, w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return true
	}
	return false
}

// PathID parses a positive integer path value.
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, NewValidationError(name, name+" must be a positive integer")
	}
	return id, nil
}

func describeKind(t reflect.Type) string {
	if t == nil {
		return "of a different type"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Int32:
		return "an integer between -2147483648 and 2147483647"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Bool:
		return "a boolean"
	default:
		return "of type " + t.Kind().String()
	}
}
