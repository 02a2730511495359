package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/example/gh-bundle-service/internal/domain"
	"github.com/example/gh-bundle-service/internal/usecase"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type Server struct {
	Router    *mux.Router
	UCGet     usecase.GetOrderByID
	UCList    usecase.ListOrders
	UCStats   usecase.GetStats
	UCBalance usecase.GetBalance
	Bulk      usecase.BulkRunner
}

func NewServer(get usecase.GetOrderByID, list usecase.ListOrders, stats usecase.GetStats, balance usecase.GetBalance, bulk usecase.BulkRunner) *Server {
	s := &Server{
		Router:    mux.NewRouter(),
		UCGet:     get,
		UCList:    list,
		UCStats:   stats,
		UCBalance: balance,
		Bulk:      bulk,
	}
	s.Router.HandleFunc("/api/order/{id}", s.handleGet).Methods(http.MethodGet)
	s.Router.HandleFunc("/api/orders", s.handleList).Methods(http.MethodGet)
	s.Router.HandleFunc("/api/stats", s.handleStats).Methods(http.MethodGet)
	s.Router.HandleFunc("/api/balance", s.handleBalance).Methods(http.MethodGet)
	s.Router.HandleFunc("/api/prices", s.handlePrices).Methods(http.MethodGet)
	s.Router.HandleFunc("/api/bulk", s.handleBulk).Methods(http.MethodPost)
	return s
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	o, ok := s.UCGet.Execute(id)
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	orders, err := s.UCList.Execute(r.Context())
	if err != nil {
		http.Error(w, "store unavailable", http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.UCStats.Execute(r.Context())
	if err != nil {
		http.Error(w, "store unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	reading, err := s.UCBalance.Execute(r.Context())
	if err != nil {
		if domain.KindOf(err) == domain.KindBalanceUnparsable {
			http.Error(w, "vendor balance response unrecognized", http.StatusBadGateway)
			return
		}
		http.Error(w, "vendor unavailable", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, reading)
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.DefaultPrices())
}

type bulkOrderRequest struct {
	ID         string          `json:"id"`
	Phone      string          `json:"phone"`
	BundleCode string          `json:"bundle_code"`
	PriceQuote decimal.Decimal `json:"price_quote"`
}

// handleBulk прогоняет пачку заказов через движок последовательно и
// возвращает итоги в порядке входа.
func (s *Server) handleBulk(w http.ResponseWriter, r *http.Request) {
	var reqs []bulkOrderRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&reqs); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if len(reqs) == 0 {
		http.Error(w, "empty batch", http.StatusBadRequest)
		return
	}

	orders := make([]domain.Order, 0, len(reqs))
	for _, req := range reqs {
		id := req.ID
		if id == "" {
			id = uuid.NewString()
		}
		orders = append(orders, domain.Order{
			ID:         id,
			Phone:      domain.NormalizePhone(req.Phone),
			BundleCode: req.BundleCode,
			PriceQuote: req.PriceQuote,
			Status:     domain.StatusPaid,
		})
	}

	outcomes := s.Bulk.RunAll(r.Context(), orders)
	writeJSON(w, http.StatusOK, outcomes)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
