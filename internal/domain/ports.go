package domain

import "context"

// OrderPatch — частичное обновление заказа; nil-поля не трогаются.
type OrderPatch struct {
	Status        *Status
	TransactionID *string
	Attempts      *int
	FailureReason *string
}

// OrderStore — порт для операций персистентности заказов.
type OrderStore interface {
	Save(ctx context.Context, o Order) error
	GetAll(ctx context.Context) ([]Order, error)
	Update(ctx context.Context, id string, patch OrderPatch) error
	Delete(ctx context.Context, id string) error
}

// OrderCache — порт быстрого доступа к заказам (кэш).
type OrderCache interface {
	Get(id string) (Order, bool)
	Set(id string, o Order)
}

// VendorGateway — порт отправки транзакций вендору. Без повторов:
// повторами управляет только движок доставки.
type VendorGateway interface {
	Submit(ctx context.Context, phone, bundleCode, reference string) (Submission, error)
	CheckBalance(ctx context.Context) (BalanceReading, error)
}

// Submission — нормализованный успешный ответ вендора на отправку.
type Submission struct {
	TransactionID string
	Reference     string
	VendorCode    string
}

// MessageSubscriber — порт подписчика на события оплаченных заказов.
type MessageSubscriber interface {
	// Subscribe регистрирует обработчик; ack/повторные доставки реализует адаптер.
	Subscribe(ctx context.Context, handler func(ctx context.Context, raw []byte) error) error
}
