package apperrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates a missing or invalid caller identity.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller is known but may not perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates a stale write: the row changed since it was read.
var ErrConflict = errors.New("conflicting concurrent modification")

// ErrInternal is the opaque failure surfaced for storage and other unexpected errors.
var ErrInternal = errors.New("internal error")

// AppError wraps an underlying error with an HTTP-ish code and a message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ValidationError carries a field -> message mapping for input failures.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// DomainCode names a recoverable business-rule violation.
type DomainCode string

const (
	CodeParentNotInProject      DomainCode = "PARENT_NOT_IN_PROJECT"
	CodeNodeNotInProject        DomainCode = "NODE_NOT_FOUND_IN_PROJECT"
	CodeRootMustBePhase         DomainCode = "ROOT_MUST_BE_PHASE"
	CodeCategoryNotAllowed      DomainCode = "CATEGORY_NOT_ALLOWED"
	CodeMaxDepthExceeded        DomainCode = "MAX_DEPTH_EXCEEDED"
	CodeCycleDetected           DomainCode = "CYCLE_DETECTED"
	CodeHasChildren             DomainCode = "HAS_CHILDREN"
	CodeNodeInactive            DomainCode = "NODE_INACTIVE"
	CodeVersionLocked           DomainCode = "VERSION_LOCKED"
	CodeInvalidStatusTransition DomainCode = "INVALID_STATUS_TRANSITION"
	CodePercentageOutOfRange    DomainCode = "PERCENTAGE_OUT_OF_RANGE"
	CodeCrossProjectImport      DomainCode = "CROSS_PROJECT_IMPORT"
	CodeDirectCostDerived       DomainCode = "DIRECT_COST_DERIVED"
)

// DomainError is an expected invariant violation that callers present to users.
// Two DomainErrors match under errors.Is when their codes are equal.
type DomainError struct {
	Code    DomainCode
	Message string
	// ChildrenCount is set for CodeHasChildren.
	ChildrenCount int
}

// NewDomainError creates a DomainError.
func NewDomainError(code DomainCode, format string, args ...any) *DomainError {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NewHasChildrenError reports that a node cannot be removed without cascading.
func NewHasChildrenError(nodeID string, childrenCount int) *DomainError {
	return &DomainError{
		Code:          CodeHasChildren,
		Message:       fmt.Sprintf("node %s has %d active children", nodeID, childrenCount),
		ChildrenCount: childrenCount,
	}
}

func (e *DomainError) Error() string {
	return string(e.Code) + ": " + e.Message
}

func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// HasChildren reports whether the error signals a node with active children.
func (e *DomainError) HasChildren() bool {
	return e.Code == CodeHasChildren && e.ChildrenCount > 0
}

// Sentinels usable with errors.Is, e.g. errors.Is(err, apperrors.ErrVersionLocked).
var (
	ErrVersionLocked = &DomainError{Code: CodeVersionLocked, Message: "budget version is not DRAFT"}
	ErrCycleDetected = &DomainError{Code: CodeCycleDetected, Message: "move would create a cycle"}
	ErrHasChildren   = &DomainError{Code: CodeHasChildren, Message: "node has active children"}
)

// AsDomainError extracts a DomainError from err's chain.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
