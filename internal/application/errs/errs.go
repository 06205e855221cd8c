package errs

import (
	"fmt"
	"strings"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/dto"
)

type RetryableError struct {
	Err error
}

func (t RetryableError) Error() string {
	return fmt.Sprintf("retryable error: %v", t.Err)
}

func (t RetryableError) Unwrap() error {
	return t.Err
}

// FieldErrors is a schema or input validation failure rendered as comma-joined "field: message" pairs.
type FieldErrors []dto.FieldError

func (f FieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for _, e := range f {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return strings.Join(parts, ", ")
}

type TenantRequiredError struct{}

func (TenantRequiredError) Error() string {
	return "tenant identity required"
}

// RemoteError is a well-formed response from a remote service that reported failure.
type RemoteError struct {
	Message string
}

func (r RemoteError) Error() string {
	return r.Message
}

// PreconditionError rejects an operation whose earlier onboarding steps are missing.
type PreconditionError struct {
	Message string
}

func (p PreconditionError) Error() string {
	return p.Message
}
