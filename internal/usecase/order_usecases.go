package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/example/gh-bundle-service/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GetOrderByID — получить заказ из кэша по идентификатору.
type GetOrderByID struct {
	Cache domain.OrderCache
}

func (uc GetOrderByID) Execute(id string) (domain.Order, bool) {
	return uc.Cache.Get(id)
}

// LoadCache — загрузить все заказы из хранилища в кэш при старте.
type LoadCache struct {
	Store domain.OrderStore
	Cache domain.OrderCache
}

func (uc LoadCache) Execute(ctx context.Context) error {
	orders, err := uc.Store.GetAll(ctx)
	if err != nil {
		return err
	}
	for _, o := range orders {
		uc.Cache.Set(o.ID, o)
	}
	return nil
}

// PaidOrderEvent — событие захвата оплаты; bundle_code либо задан
// напрямую, либо берётся первым словом из plan ("1GB MTN Data" -> "1GB").
type PaidOrderEvent struct {
	ID         string          `json:"id"`
	Phone      string          `json:"phone"`
	BundleCode string          `json:"bundle_code"`
	Plan       string          `json:"plan"`
	PriceQuote decimal.Decimal `json:"price_quote"`
}

// Bundle возвращает действующий код пакета события.
func (e PaidOrderEvent) Bundle() string {
	if e.BundleCode != "" {
		return e.BundleCode
	}
	if fields := strings.Fields(e.Plan); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// ProcessPaidOrder — принять событие оплаченного заказа, сохранить его,
// провести через движок доставки и зафиксировать итог.
type ProcessPaidOrder struct {
	Store  domain.OrderStore
	Cache  domain.OrderCache
	Engine *FulfillmentEngine
}

func (uc ProcessPaidOrder) Execute(ctx context.Context, raw []byte) error {
	var evt PaidOrderEvent
	if err := json.Unmarshal(raw, &evt); err != nil {
		return err
	}
	if evt.Phone == "" || evt.Bundle() == "" {
		return domain.ErrValidation
	}
	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}

	quote := evt.PriceQuote
	if quote.IsZero() {
		if p, ok := domain.PriceFor(evt.Bundle()); ok {
			quote = p
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	order := domain.Order{
		ID:         evt.ID,
		Phone:      domain.NormalizePhone(evt.Phone),
		BundleCode: evt.Bundle(),
		PriceQuote: quote,
		Status:     domain.StatusPaid,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.Store.Save(ctx, order); err != nil {
		return err
	}
	uc.Cache.Set(order.ID, order)

	outcome := uc.Engine.Fulfill(ctx, order)
	if outcome.ErrorKind == domain.KindCancelled {
		// не подтверждаем событие: после рестарта доставка повторится,
		// вендор дедуплицирует по reference
		return ctx.Err()
	}

	status := domain.StatusDeliveryFailed
	if outcome.Success {
		status = domain.StatusDelivered
	}
	patch := domain.OrderPatch{
		Status:        &status,
		Attempts:      &outcome.Attempts,
		TransactionID: &outcome.TransactionID,
		FailureReason: &outcome.Reason,
	}
	if err := uc.Store.Update(ctx, order.ID, patch); err != nil {
		return err
	}

	order.Status = status
	order.Attempts = outcome.Attempts
	order.TransactionID = outcome.TransactionID
	order.FailureReason = outcome.Reason
	order.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	uc.Cache.Set(order.ID, order)
	return nil
}

// ListOrders — получить все заказы из хранилища.
type ListOrders struct {
	Store domain.OrderStore
}

func (uc ListOrders) Execute(ctx context.Context) ([]domain.Order, error) {
	return uc.Store.GetAll(ctx)
}

// GetBalance — запросить баланс кошелька у вендора.
type GetBalance struct {
	Vendor domain.VendorGateway
}

func (uc GetBalance) Execute(ctx context.Context) (domain.BalanceReading, error) {
	return uc.Vendor.CheckBalance(ctx)
}
