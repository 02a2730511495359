package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Status — стадия жизненного цикла заказа.
type Status string

const (
	StatusPending        Status = "pending"
	StatusPaid           Status = "paid"
	StatusSubmitting     Status = "submitting"
	StatusDelivered      Status = "delivered"
	StatusDeliveryFailed Status = "delivery_failed"
)

// Order — доменная сущность заказа на пакет данных.
type Order struct {
	ID            string          `json:"id"`
	Phone         string          `json:"phone"`
	BundleCode    string          `json:"bundle_code"`
	PriceQuote    decimal.Decimal `json:"price_quote"`
	Status        Status          `json:"status"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Attempts      int             `json:"attempts,omitempty"`
	FailureReason string          `json:"failure_reason,omitempty"`
	CreatedAt     string          `json:"created_at,omitempty"`
	UpdatedAt     string          `json:"updated_at,omitempty"`
}

// bundleVolumes — каталог пакетов: код -> объём в единицах вендора (МБ).
var bundleVolumes = map[string]int{
	"100MB": 100,
	"300MB": 300,
	"500MB": 500,
	"1GB":   1024,
	"2GB":   2048,
	"3GB":   3072,
	"4GB":   4096,
	"5GB":   5120,
	"10GB":  10240,
}

// VolumeFor возвращает объём вендора для кода пакета.
// Неизвестный код — ошибка, объём по умолчанию не подставляется.
func VolumeFor(bundleCode string) (int, bool) {
	v, ok := bundleVolumes[bundleCode]
	return v, ok
}

// KnownBundle проверяет, входит ли код в каталог.
func KnownBundle(bundleCode string) bool {
	_, ok := bundleVolumes[bundleCode]
	return ok
}

// SubmissionReference строит детерминированную ссылку отправки:
// первая попытка — голый id заказа, повторные — с суффиксом RETRY.
func SubmissionReference(orderID string, attempt int) string {
	if attempt <= 1 {
		return orderID
	}
	return fmt.Sprintf("%s-RETRY-%d", orderID, attempt)
}

// DeliveryOutcome — итоговая запись одного прогона доставки. Неизменяема.
type DeliveryOutcome struct {
	OrderID       string    `json:"order_id"`
	Success       bool      `json:"success"`
	TransactionID string    `json:"transaction_id,omitempty"`
	ErrorKind     ErrorKind `json:"error_kind,omitempty"`
	RawVendorCode string    `json:"raw_vendor_code,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	Attempts      int       `json:"attempts"`
}

// BalanceReading — результат разбора ответа вендора о балансе кошелька.
type BalanceReading struct {
	Available     decimal.Decimal `json:"available"`
	Currency      string          `json:"currency"`
	ExtractedFrom string          `json:"extracted_from"`
}
