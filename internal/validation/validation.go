// Package validation checks raw JSON request bodies against declarative
// schemas and reports the first violation in a stable, documented shape:
//
//	{"message": "...", "path": ["title"], "type": "string.empty",
//	 "context": {"label": "title", "value": "", "key": "title"}}
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrMalformedBody is returned when the body is not parseable JSON.
var ErrMalformedBody = errors.New("invalid JSON body")

const (
	TypeRequired     = "any.required"
	TypeString       = "string.base"
	TypeEmpty        = "string.empty"
	TypeMax          = "string.max"
	TypePattern      = "string.pattern.base"
	TypeUnknownKey   = "object.unknown"
	TypeObject       = "object.base"
	imageURLRuleName = "imageurl"
)

// imageURLPattern is searched, not anchored: query strings after the
// extension still match.
var imageURLPattern = regexp.MustCompile(`(?i)(https?://.*\.(?:png|jpg|gif|webp))`)

const imageURLPatternSource = `/(https?:\/\/.*\.(?:png|jpg|gif|webp))/i`

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation(imageURLRuleName, func(fl validator.FieldLevel) bool {
		return imageURLPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Detail describes a single violation.
type Detail struct {
	Message string   `json:"message"`
	Path    []string `json:"path"`
	Type    string   `json:"type"`
	Context Context  `json:"context"`
}

// Context carries the offending field and value. Value holds the raw JSON
// that was submitted and is absent when the field was missing.
type Context struct {
	Child string          `json:"child,omitempty"`
	Limit int             `json:"limit,omitempty"`
	Label string          `json:"label"`
	Value json.RawMessage `json:"value,omitempty"`
	Key   string          `json:"key,omitempty"`
}

// Error wraps the violations found in a body.
type Error struct {
	Details []Detail
}

func (e *Error) Error() string {
	if len(e.Details) == 0 {
		return "validation failed"
	}
	return e.Details[0].Message
}

// Field declares one string key of a schema. Rules uses validator tag syntax
// and runs against the decoded string.
type Field struct {
	Key      string
	Required bool
	Rules    string
}

// Schema is an ordered set of string fields. Keys outside the schema are
// rejected.
type Schema struct {
	fields []Field
}

// NewSchema builds a schema; fields are checked in the given order.
func NewSchema(fields ...Field) Schema {
	return Schema{fields: fields}
}

// Optional returns a copy of the schema where no field is required.
func (s Schema) Optional() Schema {
	fields := make([]Field, len(s.fields))
	for i, f := range s.fields {
		f.Required = false
		fields[i] = f
	}
	return Schema{fields: fields}
}

// Validate checks body against the schema and, when it passes, decodes it into
// dst. An empty body is treated as an empty object. It returns ErrMalformedBody
// for unparseable JSON and *Error for schema violations.
func (s Schema) Validate(body []byte, dst any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		trimmed = []byte("{}")
	}
	if !json.Valid(trimmed) {
		return ErrMalformedBody
	}

	var raw map[string]json.RawMessage
	if trimmed[0] != '{' || json.Unmarshal(trimmed, &raw) != nil {
		return &Error{Details: []Detail{{
			Message: `"value" must be of type object`,
			Path:    []string{},
			Type:    TypeObject,
			Context: Context{Label: "value", Value: json.RawMessage(trimmed)},
		}}}
	}

	if d, ok := s.check(raw); !ok {
		return &Error{Details: []Detail{d}}
	}

	if dst == nil {
		return nil
	}
	return json.Unmarshal(trimmed, dst)
}

func (s Schema) check(raw map[string]json.RawMessage) (Detail, bool) {
	known := make(map[string]struct{}, len(s.fields))
	for _, field := range s.fields {
		known[field.Key] = struct{}{}

		value, present := raw[field.Key]
		if !present {
			if field.Required {
				return detail(field.Key, TypeRequired, fmt.Sprintf(`"%s" is required`, field.Key), nil), false
			}
			continue
		}

		var text string
		if !isJSONString(value) || json.Unmarshal(value, &text) != nil {
			return detail(field.Key, TypeString, fmt.Sprintf(`"%s" must be a string`, field.Key), value), false
		}

		if field.Rules == "" {
			continue
		}
		if err := validate.Var(text, field.Rules); err != nil {
			var fieldErrs validator.ValidationErrors
			if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
				panic(fmt.Sprintf("validation: bad rules %q for %s: %v", field.Rules, field.Key, err))
			}
			return ruleDetail(field.Key, fieldErrs[0], text, value), false
		}
	}

	var unknown []string
	for key := range raw {
		if _, ok := known[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		key := unknown[0]
		d := detail(key, TypeUnknownKey, fmt.Sprintf(`"%s" is not allowed`, key), raw[key])
		d.Context.Child = key
		return d, false
	}

	return Detail{}, true
}

func ruleDetail(key string, fe validator.FieldError, text string, value json.RawMessage) Detail {
	switch fe.Tag() {
	case "min":
		return detail(key, TypeEmpty, fmt.Sprintf(`"%s" is not allowed to be empty`, key), value)
	case "max":
		d := detail(key, TypeMax, fmt.Sprintf(`"%s" length must be less than or equal to %s characters long`, key, fe.Param()), value)
		d.Context.Limit, _ = strconv.Atoi(fe.Param())
		return d
	case imageURLRuleName:
		return detail(key, TypePattern, fmt.Sprintf(`"%s" with value "%s" fails to match the required pattern: %s`, key, text, imageURLPatternSource), value)
	default:
		return detail(key, "any.invalid", fmt.Sprintf(`"%s" contains an invalid value`, key), value)
	}
}

func detail(key, kind, message string, value json.RawMessage) Detail {
	return Detail{
		Message: message,
		Path:    []string{key},
		Type:    kind,
		Context: Context{Label: key, Value: value, Key: key},
	}
}

func isJSONString(value json.RawMessage) bool {
	return strings.HasPrefix(strings.TrimSpace(string(value)), `"`)
}
