// Package validation is the single place request payloads are checked.
// Both the gateway and the orders service validate order payloads through it,
// so the two layers cannot drift apart on what a well-formed order is.
package validation

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
)

// Errors maps a field path to a human-readable message.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return strings.Join(parts, "; ")
}

// New returns the configured validator shared by all services. Field names
// in messages come from the json tags, matching what clients actually sent.
func New() *validatorv10.Validate {
	v := validatorv10.New(validatorv10.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeAndValidate decodes the JSON request body into out and validates it.
// Malformed JSON and failed validation both come back as Errors so handlers
// can return the field messages to the client.
func DecodeAndValidate(v *validatorv10.Validate, r *http.Request, out any) error {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return Errors{"body": "invalid request body"}
	}
	return Check(v, out)
}

// Check validates a struct and converts failures into per-field messages.
func Check(v *validatorv10.Validate, in any) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validatorv10.ValidationErrors)
	if !ok {
		return Errors{"body": err.Error()}
	}

	out := Errors{}
	for _, fe := range verrs {
		out[fieldPath(fe)] = message(fe)
	}
	return out
}

// fieldPath strips the top-level struct name from the namespace, leaving
// e.g. "items[0].productId".
func fieldPath(fe validatorv10.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	return ns
}

func message(fe validatorv10.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must not exceed %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must not exceed %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
