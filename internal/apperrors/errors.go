package apperrors

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the requested change collides with the current state
// of the resource: mutating or deleting a posted entry, a combination or its
// details, double posting, or deleting a dimension entity that is still in use.
var ErrConflict = errors.New("conflict with current resource state")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrUnbalanced indicates that an entry's debit and credit totals differ.
var ErrUnbalanced = errors.New("entry debits and credits do not balance")

// ErrPeriodClosed indicates GL activity was attempted for a date whose
// accounting period does not permit posting.
var ErrPeriodClosed = errors.New("accounting period is closed")

// ErrNoOpenPeriod indicates that no accounting period covers the requested date at all.
var ErrNoOpenPeriod = errors.New("no accounting period found")

// ErrDuplicateSegmentType indicates that two pairs in one combination request
// named the same segment type.
var ErrDuplicateSegmentType = errors.New("duplicate segment type in combination request")

// ErrUnknownSegment indicates a segment type or value code that does not exist,
// or a code claimed under a type it does not belong to.
var ErrUnknownSegment = errors.New("unknown segment reference")

// AppError pairs an internal status code with a message and the underlying cause.
// Repositories use it for infrastructure failures that carry no business meaning.
type AppError struct {
	Code    int
	Message string
	Err     error
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

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// PeriodScope identifies which of the two gated dates failed the period check.
type PeriodScope string

const (
	ScopeEntryDate   PeriodScope = "ENTRY_DATE"
	ScopePostingDate PeriodScope = "POSTING_DATE"
)

// PeriodClosedError reports a GL action rejected by the accounting period gate.
// Cause is ErrNoOpenPeriod when no period covers Date at all, nil when the
// covering period is simply closed.
type PeriodClosedError struct {
	Date  time.Time
	Scope PeriodScope
	Cause error
}

func (e *PeriodClosedError) Error() string {
	day := e.Date.Format("2006-01-02")
	scope := "entry date"
	if e.Scope == ScopePostingDate {
		scope = "posting date"
	}
	if errors.Is(e.Cause, ErrNoOpenPeriod) {
		return fmt.Sprintf("no accounting period found for %s %s", scope, day)
	}
	return fmt.Sprintf("accounting period is closed for %s %s", scope, day)
}

func (e *PeriodClosedError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrPeriodClosed, e.Cause}
	}
	return []error{ErrPeriodClosed}
}

// NewPeriodClosedError creates a new PeriodClosedError.
func NewPeriodClosedError(date time.Time, scope PeriodScope, cause error) *PeriodClosedError {
	return &PeriodClosedError{Date: date, Scope: scope, Cause: cause}
}

// UnbalancedError reports the exact totals that prevented a post.
type UnbalancedError struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// NewUnbalancedError creates a new UnbalancedError from the two totals.
func NewUnbalancedError(totalDebit, totalCredit decimal.Decimal) *UnbalancedError {
	return &UnbalancedError{TotalDebit: totalDebit, TotalCredit: totalCredit}
}

// Difference returns total debit minus total credit at full precision.
func (e *UnbalancedError) Difference() decimal.Decimal {
	return e.TotalDebit.Sub(e.TotalCredit)
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("entry is unbalanced: total debit %s, total credit %s, difference %s",
		e.TotalDebit.String(), e.TotalCredit.String(), e.Difference().String())
}

func (e *UnbalancedError) Unwrap() error {
	return ErrUnbalanced
}

// UsageError rejects a guarded deletion and enumerates every reason the entity
// is still in use. Hint, when set, names the sanctioned alternative.
type UsageError struct {
	Entity  string
	ID      string
	Reasons []string
	Hint    string
}

func (e *UsageError) Error() string {
	msg := fmt.Sprintf("%s %s cannot be deleted: %s", e.Entity, e.ID, strings.Join(e.Reasons, "; "))
	if e.Hint != "" {
		msg += "; " + e.Hint
	}
	return msg
}

func (e *UsageError) Unwrap() error {
	return ErrConflict
}

// NewUsageError creates a new UsageError.
func NewUsageError(entity, id string, reasons []string, hint string) *UsageError {
	return &UsageError{Entity: entity, ID: id, Reasons: reasons, Hint: hint}
}
