package hubnet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/example/gh-bundle-service/internal/domain"
	"github.com/shopspring/decimal"
)

func newTestClient(ts *httptest.Server) *Client {
	return New(Config{
		BaseURL:    ts.URL,
		BalanceURL: ts.URL + "/check_balance",
		APIKey:     "test-key",
		Network:    "mtn",
		HTTPClient: ts.Client(),
	})
}

func TestSubmitSuccess(t *testing.T) {
	var gotBody map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/mtn-new-transaction" {
			t.Errorf("path = %q, want /mtn-new-transaction", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if got := r.Header.Get("token"); got != "Bearer test-key" {
			t.Errorf("token header = %q, want Bearer test-key", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":         true,
			"code":           "0000",
			"transaction_id": "txn-555",
			"reference":      gotBody["reference"],
		})
	}))
	defer ts.Close()

	c := newTestClient(ts)
	sub, err := c.Submit(context.Background(), "+233241234567", "1GB", "ord-1")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if sub.TransactionID != "txn-555" {
		t.Errorf("transaction id = %q, want txn-555", sub.TransactionID)
	}
	if gotBody["phone"] != "0241234567" {
		t.Errorf("phone sent = %q, want normalized 0241234567", gotBody["phone"])
	}
	if gotBody["volume"] != "1024" {
		t.Errorf("volume sent = %q, want 1024 for 1GB", gotBody["volume"])
	}
	if gotBody["reference"] != "ord-1" {
		t.Errorf("reference sent = %q, want ord-1", gotBody["reference"])
	}
	if gotBody["referrer"] != gotBody["phone"] {
		t.Errorf("referrer = %q, must equal phone %q", gotBody["referrer"], gotBody["phone"])
	}
}

func TestSubmitVendorRejection(t *testing.T) {
	// HTTP 200, но полезная нагрузка сигналит отказ
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": false,
			"code":   "2023",
			"reason": "insufficient balance",
		})
	}))
	defer ts.Close()

	_, err := newTestClient(ts).Submit(context.Background(), "0241234567", "1GB", "ord-2")

	var fe *domain.FulfillmentError
	if !errors.As(err, &fe) {
		t.Fatalf("error type = %T, want *FulfillmentError", err)
	}
	if fe.Kind != domain.KindVendorRejected {
		t.Errorf("kind = %q, want VENDOR_REJECTED", fe.Kind)
	}
	if fe.VendorCode != "2023" || fe.Reason != "insufficient balance" {
		t.Errorf("vendor code/reason not verbatim: %+v", fe)
	}
}

func TestSubmitAmbiguousSuccessCode(t *testing.T) {
	// status true, но код не "0000" — это не успех
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"status": true, "code": "0001"})
	}))
	defer ts.Close()

	_, err := newTestClient(ts).Submit(context.Background(), "0241234567", "1GB", "ord-a")
	if domain.KindOf(err) != domain.KindVendorRejected {
		t.Errorf("kind = %q, want VENDOR_REJECTED for non-0000 code", domain.KindOf(err))
	}
}

func TestSubmitTransportFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http 500",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "non-json content type",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				_, _ = w.Write([]byte("<html>gateway error</html>"))
			},
		},
		{
			name: "malformed json body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte("{truncated"))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			_, err := newTestClient(ts).Submit(context.Background(), "0241234567", "1GB", "ord-3")
			if domain.KindOf(err) != domain.KindTransport {
				t.Errorf("kind = %q, want TRANSPORT", domain.KindOf(err))
			}
		})
	}
}

func TestSubmitUnknownBundleSkipsNetwork(t *testing.T) {
	var calls atomic.Int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer ts.Close()

	_, err := newTestClient(ts).Submit(context.Background(), "0241234567", "7GB", "ord-4")

	if domain.KindOf(err) != domain.KindValidation {
		t.Errorf("kind = %q, want VALIDATION", domain.KindOf(err))
	}
	if calls.Load() != 0 {
		t.Errorf("vendor called %d times, want 0: never ship a guessed volume", calls.Load())
	}
}

func TestCheckBalanceProbesKnownFields(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		want     string
		wantFrom string
	}{
		{"root balance", `{"balance": 100.25}`, "100.25", "balance"},
		{"root available_balance", `{"available_balance": 7}`, "7", "available_balance"},
		{"nested wallet_balance", `{"data":{"wallet_balance": 42.5}}`, "42.5", "data.wallet_balance"},
		{"nested amount", `{"data":{"amount": "12.30"}}`, "12.3", "data.amount"},
		{"root wins over nested", `{"balance": 1, "data":{"wallet_balance": 2}}`, "1", "balance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("token"); got != "Bearer test-key" {
					t.Errorf("token header = %q", got)
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			reading, err := newTestClient(ts).CheckBalance(context.Background())
			if err != nil {
				t.Fatalf("CheckBalance() error = %v", err)
			}
			if !reading.Available.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("available = %s, want %s", reading.Available, tt.want)
			}
			if reading.ExtractedFrom != tt.wantFrom {
				t.Errorf("extracted from %q, want %q", reading.ExtractedFrom, tt.wantFrom)
			}
			if reading.Currency != "GHS" {
				t.Errorf("currency = %q, want GHS", reading.Currency)
			}
		})
	}
}

func TestCheckBalanceUnparseable(t *testing.T) {
	// поля не из списка не угадываются, даже числовые
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"foo":"bar","total_sales": 9999.99}`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts).CheckBalance(context.Background())
	if domain.KindOf(err) != domain.KindBalanceUnparsable {
		t.Errorf("kind = %q, want BALANCE_UNPARSEABLE", domain.KindOf(err))
	}
}
