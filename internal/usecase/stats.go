package usecase

import (
	"context"

	"github.com/example/gh-bundle-service/internal/domain"
	"github.com/shopspring/decimal"
)

// OrderStats — сводка по заказам для операторской панели.
type OrderStats struct {
	Total       int             `json:"total"`
	Delivered   int             `json:"delivered"`
	Failed      int             `json:"failed"`
	Pending     int             `json:"pending"`
	SuccessRate string          `json:"success_rate"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// GetStats — посчитать сводку по всем заказам хранилища.
type GetStats struct {
	Store domain.OrderStore
}

func (uc GetStats) Execute(ctx context.Context) (OrderStats, error) {
	orders, err := uc.Store.GetAll(ctx)
	if err != nil {
		return OrderStats{}, err
	}

	st := OrderStats{Total: len(orders), Revenue: decimal.Zero}
	for _, o := range orders {
		switch o.Status {
		case domain.StatusDelivered:
			st.Delivered++
			st.Revenue = st.Revenue.Add(o.PriceQuote)
		case domain.StatusDeliveryFailed:
			st.Failed++
		case domain.StatusPending, domain.StatusPaid, domain.StatusSubmitting:
			st.Pending++
		}
	}

	if st.Total > 0 {
		rate := decimal.NewFromInt(int64(st.Delivered)).
			Div(decimal.NewFromInt(int64(st.Total))).
			Mul(decimal.NewFromInt(100))
		st.SuccessRate = rate.StringFixed(2)
	} else {
		st.SuccessRate = "0.00"
	}
	return st, nil
}
