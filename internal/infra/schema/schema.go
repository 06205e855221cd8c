// Package schema validates outbound payloads against CUE definitions.
package schema

import (
	_ "embed"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/dto"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/interfaces"
)

//go:embed onboarding.cue
var onboardingSchema string

// AssignPlanPayload is the definition the plan assignment request is checked against.
const AssignPlanPayload = "#AssignPlanPayload"

type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

var _ interfaces.SchemaValidator = (*Validator)(nil)

func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(onboardingSchema, cue.Filename("onboarding.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("error compiling onboarding schema, %v", err)
	}
	return &Validator{ctx: ctx, schema: schema}, nil
}

// Validate unifies payload with the named definition. Every violation becomes one FieldError whose
// field is the dotted path inside the payload.
func (v *Validator) Validate(payload any, schemaName string, label string) dto.ValidationResult {
	def := v.schema.LookupPath(cue.ParsePath(schemaName))
	if !def.Exists() {
		return dto.ValidationResult{Errors: []dto.FieldError{{Field: label, Message: fmt.Sprintf("unknown schema %s", schemaName)}}}
	}

	value := v.ctx.Encode(payload)
	if err := value.Err(); err != nil {
		return dto.ValidationResult{Errors: []dto.FieldError{{Field: label, Message: err.Error()}}}
	}

	if err := def.Unify(value).Validate(cue.Concrete(true)); err != nil {
		fieldErrs := toFieldErrors(err, label)
		slog.Debug("payload failed schema validation", "schema", schemaName, "label", label, "errors", len(fieldErrs))
		return dto.ValidationResult{Errors: fieldErrs}
	}

	return dto.ValidationResult{IsValid: true, Data: payload}
}

// toFieldErrors reports one FieldError per payload field. Paths are relative to the payload, so
// the definition selector is dropped, and the per-branch errors of a failed disjunction are joined
// into a single message.
func toFieldErrors(err error, label string) []dto.FieldError {
	var fields []string
	messages := map[string][]string{}
	for _, e := range errors.Errors(err) {
		field := fieldPath(e.Path())
		if field == "" {
			field = label
		}
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		// "N errors in empty disjunction:" heads the branch errors and carries no detail
		if strings.HasSuffix(msg, ":") {
			msg = ""
		}
		if _, ok := messages[field]; !ok {
			fields = append(fields, field)
			messages[field] = nil
		}
		if msg != "" && !slices.Contains(messages[field], msg) {
			messages[field] = append(messages[field], msg)
		}
	}

	out := make([]dto.FieldError, 0, len(fields))
	for _, field := range fields {
		msg := strings.Join(messages[field], "; ")
		if msg == "" {
			msg = "invalid value"
		}
		out = append(out, dto.FieldError{Field: field, Message: msg})
	}
	if len(out) == 0 {
		out = append(out, dto.FieldError{Field: label, Message: err.Error()})
	}
	return out
}

func fieldPath(path []string) string {
	for len(path) > 0 && strings.HasPrefix(path[0], "#") {
		path = path[1:]
	}
	return strings.Join(path, ".")
}
