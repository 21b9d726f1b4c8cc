package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	english := en.New()
	uni := ut.New(english, english)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Report fields by their JSON names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// decodeInput parses raw into a new In and validates it. Absent input decodes
// to the zero value, so required fields still fail validation.
func decodeInput[In any](raw json.RawMessage) (*In, error) {
	in := new(In)
	if _, ok := any(in).(*NoInput); ok {
		return in, nil
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, in); err != nil {
			return nil, inputError(err)
		}
	}

	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string][]string, len(verrs))
			for _, fe := range verrs {
				name := fieldPath(fe.Namespace())
				fields[name] = append(fields[name], fe.Translate(translator))
			}
			return nil, &Error{Code: CodeBadRequest, Message: "Input validation failed", FieldErrors: fields, cause: err}
		}
		return nil, &Error{Code: CodeBadRequest, Message: err.Error(), cause: err}
	}
	return in, nil
}

func inputError(err error) *Error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "input"
		}
		msg := fmt.Sprintf("Expected %s, received %s", jsonTypeName(typeErr.Type), typeErr.Value)
		return &Error{
			Code:        CodeBadRequest,
			Message:     "Input validation failed",
			FieldErrors: map[string][]string{field: {msg}},
			cause:       err,
		}
	}
	return &Error{Code: CodeParseError, Message: "Malformed JSON input", cause: err}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func jsonTypeName(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "value"
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}
