package usecase

import (
	"context"
	"time"

	"github.com/example/gh-bundle-service/internal/domain"
)

// BulkRunner прогоняет пачку заказов строго последовательно с паузой
// между заказами, чтобы не упереться в лимиты вендора.
type BulkRunner struct {
	Engine *FulfillmentEngine
	Pause  time.Duration // пауза между заказами; по умолчанию 1s
}

// RunAll возвращает итоги в порядке входа; отказ одного заказа не
// прерывает пачку. Отмена помечает оставшиеся заказы как CANCELLED.
func (r BulkRunner) RunAll(ctx context.Context, orders []domain.Order) []domain.DeliveryOutcome {
	pause := r.Pause
	if pause <= 0 {
		pause = time.Second
	}

	out := make([]domain.DeliveryOutcome, 0, len(orders))
	for i, o := range orders {
		if err := ctx.Err(); err != nil {
			out = append(out, domain.DeliveryOutcome{
				OrderID:   o.ID,
				ErrorKind: domain.KindCancelled,
				Reason:    err.Error(),
			})
			continue
		}

		out = append(out, r.Engine.Fulfill(ctx, o))

		if i < len(orders)-1 {
			// прерванную паузу не считаем ошибкой: следующая итерация
			// сама пометит оставшиеся заказы
			_ = r.Engine.sleep(ctx, pause)
		}
	}
	return out
}
