package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/gh-bundle-service/internal/domain"
)

// StatusFunc получает каждый переход статуса заказа; единственный побочный
// эффект движка помимо вызова вендора.
type StatusFunc func(orderID string, status domain.Status, detail string)

// FulfillmentEngine прогоняет оплаченный заказ через вендора с повторами.
// Попытки одного заказа строго последовательны: две отправки одного
// заказа никогда не находятся в полёте одновременно.
type FulfillmentEngine struct {
	Vendor         domain.VendorGateway
	Policy         RetryPolicy
	OnStatusChange StatusFunc

	// Sleep подменяется в тестах; nil — ожидание с отменой по контексту.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Fulfill ведёт заказ по машине состояний
// VALIDATING -> SUBMITTING(attempt=1..N) -> DELIVERED | FAILED.
// Всегда возвращает ровно один итог; успех никогда не выдумывается.
func (e *FulfillmentEngine) Fulfill(ctx context.Context, order domain.Order) domain.DeliveryOutcome {
	if res := domain.Validate(order.Phone, order.BundleCode); !res.IsValid {
		reason := strings.Join(res.Errors, "; ")
		e.notify(order.ID, domain.StatusDeliveryFailed, reason)
		return domain.DeliveryOutcome{
			OrderID:   order.ID,
			ErrorKind: domain.KindValidation,
			Reason:    reason,
			Attempts:  0,
		}
	}

	for attempt := 1; ; attempt++ {
		ref := domain.SubmissionReference(order.ID, attempt)
		e.notify(order.ID, domain.StatusSubmitting, fmt.Sprintf("attempt %d, reference %s", attempt, ref))

		sub, err := e.Vendor.Submit(ctx, order.Phone, order.BundleCode, ref)
		if err == nil {
			e.notify(order.ID, domain.StatusDelivered, "transaction "+sub.TransactionID)
			return domain.DeliveryOutcome{
				OrderID:       order.ID,
				Success:       true,
				TransactionID: sub.TransactionID,
				RawVendorCode: sub.VendorCode,
				Attempts:      attempt,
			}
		}

		if !domain.Retryable(err) {
			return e.fail(order.ID, attempt, err)
		}

		delay, ok := e.Policy.NextDelay(attempt)
		if !ok {
			return e.fail(order.ID, attempt, err)
		}
		if serr := e.sleep(ctx, delay); serr != nil {
			e.notify(order.ID, domain.StatusDeliveryFailed, "cancelled during backoff")
			return domain.DeliveryOutcome{
				OrderID:   order.ID,
				ErrorKind: domain.KindCancelled,
				Reason:    serr.Error(),
				Attempts:  attempt,
			}
		}
	}
}

func (e *FulfillmentEngine) fail(orderID string, attempts int, err error) domain.DeliveryOutcome {
	out := domain.DeliveryOutcome{
		OrderID:   orderID,
		ErrorKind: domain.KindOf(err),
		Reason:    err.Error(),
		Attempts:  attempts,
	}
	var fe *domain.FulfillmentError
	if errors.As(err, &fe) {
		out.RawVendorCode = fe.VendorCode
		if fe.Reason != "" {
			out.Reason = fe.Reason
		}
	}
	e.notify(orderID, domain.StatusDeliveryFailed, out.Reason)
	return out
}

func (e *FulfillmentEngine) notify(orderID string, status domain.Status, detail string) {
	if e.OnStatusChange != nil {
		e.OnStatusChange(orderID, status, detail)
	}
}

func (e *FulfillmentEngine) sleep(ctx context.Context, d time.Duration) error {
	if e.Sleep != nil {
		return e.Sleep(ctx, d)
	}
	return sleepOrDone(ctx, d)
}

// sleepOrDone ждёт паузу либо возвращается раньше при отмене контекста.
func sleepOrDone(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
