package domain

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind — классификация отказа доставки; ветвление по виду, не по тексту.
type ErrorKind string

const (
	KindValidation        ErrorKind = "VALIDATION"
	KindTransport         ErrorKind = "TRANSPORT"
	KindVendorRejected    ErrorKind = "VENDOR_REJECTED"
	KindBalanceUnparsable ErrorKind = "BALANCE_UNPARSEABLE"
	KindCancelled         ErrorKind = "CANCELLED"
)

// FulfillmentError несёт вид отказа и сырые код/причину вендора дословно.
type FulfillmentError struct {
	Kind       ErrorKind
	VendorCode string
	Reason     string
	Err        error
}

func (e *FulfillmentError) Error() string {
	if e.VendorCode != "" {
		return fmt.Sprintf("%s: vendor code %s: %s", e.Kind, e.VendorCode, e.Reason)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *FulfillmentError) Unwrap() error { return e.Err }

// KindOf возвращает вид отказа для произвольной ошибки.
func KindOf(err error) ErrorKind {
	var fe *FulfillmentError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &fe):
		return fe.Kind
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCancelled
	default:
		return KindTransport
	}
}

// Retryable — повторять имеет смысл только транспортные отказы;
// отказ вендора это бизнес-ответ, повтор рискует двойной доставкой.
func Retryable(err error) bool {
	return KindOf(err) == KindTransport
}

// Общие доменные ошибки
var (
	ErrNotFound   = notFoundError("not found")
	ErrValidation = validationError("invalid data")
)

type notFoundError string

func (e notFoundError) Error() string { return string(e) }

type validationError string

func (e validationError) Error() string { return string(e) }
