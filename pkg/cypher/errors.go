package cypher

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes builder errors.
type ErrorCode string

const (
	// ErrCodeUnknownAlias indicates DeclaredNode named an alias that no
	// earlier node pattern introduced, or that a WITH clause dropped.
	ErrCodeUnknownAlias ErrorCode = "UNKNOWN_ALIAS"

	// ErrCodeTenancyRequired indicates a tenant-scoped node pattern was
	// requested from a TenantEngine configured without tenants.
	ErrCodeTenancyRequired ErrorCode = "TENANCY_REQUIRED"

	// ErrCodeAmbiguousTenancy indicates MERGE or CREATE was requested from a
	// TenantEngine configured with more than one tenant.
	ErrCodeAmbiguousTenancy ErrorCode = "AMBIGUOUS_TENANCY"
)

// BuildError is recorded by a builder when a call cannot be honoured.
// The builder stops appending fragments once an error is recorded.
type BuildError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Op is the builder method that failed (e.g. "DeclaredNode").
	Op string

	// Alias is the offending alias for ErrCodeUnknownAlias.
	Alias string

	// Tenants is the configured tenant count for tenancy errors.
	Tenants int
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s (op=%s)", e.Code, e.Message, e.Op)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsUnknownAlias reports whether err is an unknown-alias BuildError.
func IsUnknownAlias(err error) bool {
	return hasCode(err, ErrCodeUnknownAlias)
}

// IsTenancyRequired reports whether err is a missing-tenancy BuildError.
func IsTenancyRequired(err error) bool {
	return hasCode(err, ErrCodeTenancyRequired)
}

// IsAmbiguousTenancy reports whether err is a write-ambiguity BuildError.
func IsAmbiguousTenancy(err error) bool {
	return hasCode(err, ErrCodeAmbiguousTenancy)
}

func hasCode(err error, code ErrorCode) bool {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func newUnknownAliasError(alias string) *BuildError {
	return &BuildError{
		Code:    ErrCodeUnknownAlias,
		Message: fmt.Sprintf("could not find node %s", alias),
		Op:      "DeclaredNode",
		Alias:   alias,
	}
}

func newTenancyRequiredError(op string) *BuildError {
	return &BuildError{
		Code:    ErrCodeTenancyRequired,
		Message: "tenancy is required for this operation",
		Op:      op,
	}
}

func newAmbiguousTenancyError(op, clause string, tenants int) *BuildError {
	return &BuildError{
		Code:    ErrCodeAmbiguousTenancy,
		Message: fmt.Sprintf("only exactly one or none tenancy is allowed for %s", clause),
		Op:      op,
		Tenants: tenants,
	}
}
