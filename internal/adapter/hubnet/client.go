package hubnet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/gh-bundle-service/internal/domain"
	"github.com/shopspring/decimal"
)

// Config — параметры клиента вендора; задаются снаружи, без глобального состояния.
type Config struct {
	BaseURL    string
	BalanceURL string
	APIKey     string
	Network    string // сегмент эндпоинта транзакций, например "mtn"
	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	balanceURL string
	apiKey     string
	network    string
	http       *http.Client
}

func New(cfg Config) *Client {
	network := cfg.Network
	if network == "" {
		network = "mtn"
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		balanceURL: cfg.BalanceURL,
		apiKey:     cfg.APIKey,
		network:    network,
		http:       hc,
	}
}

type submitRequest struct {
	Phone     string `json:"phone"`
	Volume    string `json:"volume"`
	Reference string `json:"reference"`
	Referrer  string `json:"referrer"`
}

type submitResponse struct {
	Status        bool   `json:"status"`
	Code          string `json:"code"`
	TransactionID string `json:"transaction_id"`
	Reference     string `json:"reference"`
	Reason        string `json:"reason"`
}

// Submit отправляет транзакцию вендору и нормализует ответ.
// Неизвестный пакет — отказ без сетевого вызова: за оплаченный заказ
// нельзя молча отправить не тот объём.
func (c *Client) Submit(ctx context.Context, phone, bundleCode, reference string) (domain.Submission, error) {
	volume, ok := domain.VolumeFor(bundleCode)
	if !ok {
		return domain.Submission{}, &domain.FulfillmentError{
			Kind:   domain.KindValidation,
			Reason: "unknown bundle code " + bundleCode,
		}
	}

	phone = domain.NormalizePhone(phone)
	body, err := json.Marshal(submitRequest{
		Phone:     phone,
		Volume:    strconv.Itoa(volume),
		Reference: reference,
		Referrer:  phone,
	})
	if err != nil {
		return domain.Submission{}, &domain.FulfillmentError{Kind: domain.KindTransport, Err: err}
	}

	url := fmt.Sprintf("%s/%s-new-transaction", c.baseURL, c.network)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return domain.Submission{}, &domain.FulfillmentError{Kind: domain.KindTransport, Err: err}
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Submission{}, &domain.FulfillmentError{Kind: domain.KindTransport, Err: err}
	}
	defer resp.Body.Close()

	if err := checkJSONResponse(resp); err != nil {
		return domain.Submission{}, err
	}

	var vr submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return domain.Submission{}, &domain.FulfillmentError{Kind: domain.KindTransport, Err: err}
	}

	if vr.Status && vr.Code == "0000" {
		return domain.Submission{
			TransactionID: vr.TransactionID,
			Reference:     vr.Reference,
			VendorCode:    vr.Code,
		}, nil
	}

	// отказ вендора — бизнес-ответ; код и причину сохраняем дословно
	return domain.Submission{}, &domain.FulfillmentError{
		Kind:       domain.KindVendorRejected,
		VendorCode: vr.Code,
		Reason:     vr.Reason,
	}
}

// balanceFields — порядок проверки полей баланса; схема вендора не
// зафиксирована контрактом, берётся первое совпадение.
var balanceFields = []string{"balance", "available_balance", "wallet_balance", "amount"}

// CheckBalance запрашивает баланс кошелька и разбирает ответ по
// упорядоченному списку известных полей. Угадывание по наибольшему
// числовому полю недопустимо для финансовой величины.
func (c *Client) CheckBalance(ctx context.Context) (domain.BalanceReading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.balanceURL, nil)
	if err != nil {
		return domain.BalanceReading{}, &domain.FulfillmentError{Kind: domain.KindTransport, Err: err}
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.BalanceReading{}, &domain.FulfillmentError{Kind: domain.KindTransport, Err: err}
	}
	defer resp.Body.Close()

	if err := checkJSONResponse(resp); err != nil {
		return domain.BalanceReading{}, err
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return domain.BalanceReading{}, &domain.FulfillmentError{Kind: domain.KindTransport, Err: err}
	}

	if reading, ok := probeBalance(payload, ""); ok {
		return reading, nil
	}
	if nested, ok := payload["data"].(map[string]any); ok {
		if reading, ok := probeBalance(nested, "data."); ok {
			return reading, nil
		}
	}

	return domain.BalanceReading{}, &domain.FulfillmentError{
		Kind:   domain.KindBalanceUnparsable,
		Reason: "no known balance field in vendor response",
	}
}

func probeBalance(m map[string]any, prefix string) (domain.BalanceReading, bool) {
	for _, field := range balanceFields {
		v, ok := m[field]
		if !ok {
			continue
		}
		amount, ok := coerceDecimal(v)
		if !ok {
			continue
		}
		return domain.BalanceReading{
			Available:     amount,
			Currency:      "GHS",
			ExtractedFrom: prefix + field,
		}, true
	}
	return domain.BalanceReading{}, false
}

func coerceDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(n)
		return d, err == nil
	default:
		return decimal.Decimal{}, false
	}
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("token", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
}

// checkJSONResponse относит не-2xx статус и не-JSON тело к транспортным
// отказам: вызов до вендора не дошёл либо ответил не вендор.
func checkJSONResponse(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.FulfillmentError{
			Kind:   domain.KindTransport,
			Reason: fmt.Sprintf("unexpected HTTP status %d", resp.StatusCode),
		}
	}
	ct := resp.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != "application/json" {
		return &domain.FulfillmentError{
			Kind:   domain.KindTransport,
			Reason: "non-JSON response content-type " + ct,
		}
	}
	return nil
}

var _ domain.VendorGateway = (*Client)(nil)
