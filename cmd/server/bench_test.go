package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/gh-bundle-service/internal/adapter/cache"
	"github.com/example/gh-bundle-service/internal/adapter/httpapi"
	"github.com/example/gh-bundle-service/internal/domain"
	"github.com/example/gh-bundle-service/internal/usecase"
)

type noopStore struct{}

func (noopStore) Save(ctx context.Context, o domain.Order) error { return nil }

func (noopStore) GetAll(ctx context.Context) ([]domain.Order, error) { return nil, nil }

func (noopStore) Update(ctx context.Context, id string, patch domain.OrderPatch) error { return nil }

func (noopStore) Delete(ctx context.Context, id string) error { return nil }

type noopVendor struct{}

func (noopVendor) Submit(ctx context.Context, phone, bundleCode, reference string) (domain.Submission, error) {
	return domain.Submission{TransactionID: "txn", Reference: reference, VendorCode: "0000"}, nil
}

func (noopVendor) CheckBalance(ctx context.Context) (domain.BalanceReading, error) {
	return domain.BalanceReading{Currency: "GHS"}, nil
}

func BenchmarkHandleGet(b *testing.B) {
	// HTTP adapter with in-memory cache and seeded data
	orderCache := cache.NewMemoryOrderCache()
	for i := 0; i < 1000; i++ {
		id := fmt.Sprintf("order-%d", i)
		orderCache.Set(id, domain.Order{ID: id, Status: domain.StatusDelivered})
	}
	engine := &usecase.FulfillmentEngine{Vendor: noopVendor{}, Policy: usecase.DefaultRetryPolicy()}
	router := httpapi.NewServer(
		usecase.GetOrderByID{Cache: orderCache},
		usecase.ListOrders{Store: noopStore{}},
		usecase.GetStats{Store: noopStore{}},
		usecase.GetBalance{Vendor: noopVendor{}},
		usecase.BulkRunner{Engine: engine, Pause: time.Millisecond},
	).Router

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			orderID := fmt.Sprintf("order-%d", i%1000)
			req := httptest.NewRequest(http.MethodGet, "/api/order/"+orderID, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			i++
		}
	})
}

func BenchmarkCacheGet(b *testing.B) {
	c := cache.NewMemoryOrderCache()
	for i := 0; i < 10000; i++ {
		id := fmt.Sprintf("order-%d", i)
		c.Set(id, domain.Order{ID: id})
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Get(fmt.Sprintf("order-%d", i%10000))
	}
}
