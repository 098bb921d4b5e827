package httperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ===============================
// Kinds
// ===============================

type Kind string

const (
	KindValidation           Kind = "ValidationError"
	KindSlotConflict         Kind = "SlotConflict"
	KindInvalidTemporalRange Kind = "InvalidTemporalRange"
	KindNotFound             Kind = "NotFound"
	KindDuplicateRating      Kind = "DuplicateRating"
	KindInvalidTransition    Kind = "InvalidTransition"
	KindConflict             Kind = "Conflict"
	KindUnauthorized         Kind = "Unauthorized"
	KindForbidden            Kind = "Forbidden"
	KindStore                Kind = "StoreError"
)

var statusByKind = map[Kind]int{
	KindValidation:           http.StatusBadRequest,
	KindSlotConflict:         http.StatusConflict,
	KindInvalidTemporalRange: http.StatusUnprocessableEntity,
	KindNotFound:             http.StatusNotFound,
	KindDuplicateRating:      http.StatusConflict,
	KindInvalidTransition:    http.StatusConflict,
	KindConflict:             http.StatusConflict,
	KindUnauthorized:         http.StatusUnauthorized,
	KindForbidden:            http.StatusForbidden,
	KindStore:                http.StatusInternalServerError,
}

func (k Kind) Status() int {
	if s, ok := statusByKind[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// ===============================
// Business errors
// ===============================

type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func New(kind Kind, code, message string) error {
	return BusinessError{Kind: kind, Code: code, Message: message}
}

// ErrBusiness é a regra de negócio genérica (400).
func ErrBusiness(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func ErrValidation(code, message string) error {
	return New(KindValidation, code, message)
}

func ErrSlotConflict() error {
	return New(KindSlotConflict, "slot_conflict", "the requested time overlaps an existing appointment")
}

func ErrInvalidTemporalRange() error {
	return New(KindInvalidTemporalRange, "appointment_in_past", "appointment start must be in the future")
}

func ErrNotFound(entity string) error {
	return New(KindNotFound, entity+"_not_found", entity+" not found")
}

func ErrDuplicateRating() error {
	return New(KindDuplicateRating, "duplicate_rating", "appointment already rated")
}

func ErrInvalidTransition(from, to string) error {
	return New(KindInvalidTransition, "invalid_state", fmt.Sprintf("cannot move appointment from %s to %s", from, to))
}

func ErrConflict(code, message string) error {
	return New(KindConflict, code, message)
}

func ErrUnauthorized(code string) error {
	return New(KindUnauthorized, code, "")
}

func ErrForbidden(code string) error {
	return New(KindForbidden, code, "")
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// KindOf devolve KindStore para qualquer erro que não seja de negócio.
func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindStore
}

// ===============================
// Store errors
// ===============================

type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ErrStore embrulha falhas de persistência; erros de negócio passam intactos.
func ErrStore(op string, err error) error {
	if err == nil {
		return nil
	}
	var be BusinessError
	if errors.As(err, &be) {
		return err
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
