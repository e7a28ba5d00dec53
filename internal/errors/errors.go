// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

// Kind names a failure that callers are expected to branch on.
type Kind string

const (
	KindInvalidFilterField Kind = "InvalidFilterField"
	KindInvalidFilterValue Kind = "InvalidFilterValue"
	KindMissingField       Kind = "MissingField"
	KindDuplicateEmail     Kind = "DuplicateEmail"
	KindInvalidPhoneFormat Kind = "InvalidPhoneFormat"
	KindInvalidPrice       Kind = "InvalidPrice"
	KindInvalidStock       Kind = "InvalidStock"
	KindCustomerNotFound   Kind = "CustomerNotFound"
	KindEmptyProductList   Kind = "EmptyProductList"
	KindProductNotFound    Kind = "ProductNotFound"
	KindNotFound           Kind = "NotFound"
)

// Error is a validation or lookup failure carrying a human readable message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches on Kind so errors.Is(err, &Error{Kind: KindDuplicateEmail}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// HasKind reports whether err (or anything it wraps) is an *Error of kind k.
func HasKind(err error, k Kind) bool {
	return KindOf(err) == k
}

func New(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NewInvalidFilterField(entity, field string) error {
	return New(KindInvalidFilterField, "unknown %s filter field %q", entity, field)
}

func NewInvalidFilterValue(field, value, want string) error {
	return New(KindInvalidFilterValue, "invalid value %q for filter %s: expected %s", value, field, want)
}

func NewMissingField(field string) error {
	return New(KindMissingField, "%s is required", field)
}

func NewDuplicateEmail(email string) error {
	return New(KindDuplicateEmail, "Email %s already exists", email)
}

func NewInvalidPhoneFormat(phone string) error {
	return New(KindInvalidPhoneFormat, "Invalid phone format: %s", phone)
}

func NewInvalidPrice() error {
	return New(KindInvalidPrice, "Price must be positive")
}

func NewInvalidStock() error {
	return New(KindInvalidStock, "Stock cannot be negative")
}

func NewCustomerNotFound(id int64) error {
	return New(KindCustomerNotFound, "Invalid Customer ID: %d", id)
}

func NewEmptyProductList() error {
	return New(KindEmptyProductList, "Order must contain at least one product")
}

// NewProductNotFound lists the ids that did not resolve.
func NewProductNotFound(ids []int64) error {
	return New(KindProductNotFound, "One or more Product IDs are invalid: %v", ids)
}

func NewNotFound(entity string, id int64) error {
	return New(KindNotFound, "%s with ID %d not found", entity, id)
}
