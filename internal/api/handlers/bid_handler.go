package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"bidding-system/internal/domain"
	"bidding-system/pkg/logger"

	"github.com/gorilla/mux"
)

type CreateBidRequest struct {
	UserID    string     `json:"user_id"`
	Amount    float64    `json:"amount"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type BidResponse struct {
	ItemID    string    `json:"item_id"`
	UserID    string    `json:"user_id"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

type BidHistoryResponse struct {
	ItemID string             `json:"item_id"`
	Offset int                `json:"offset"`
	Count  int                `json:"count"`
	Bids   []domain.BidRecord `json:"bids"`
}

type BidHandler struct {
	service         BidService
	defaultPageSize int
	log             logger.Logger
}

func NewBidHandler(service BidService, defaultPageSize int, log logger.Logger) *BidHandler {
	return &BidHandler{
		service:         service,
		defaultPageSize: defaultPageSize,
		log:             log,
	}
}

func (h *BidHandler) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/items/{itemID}/bids", h.CreateBid).Methods(http.MethodPost)
	api.HandleFunc("/items/{itemID}/bids", h.GetBidHistory).Methods(http.MethodGet)
}

func (h *BidHandler) CreateBid(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["itemID"]

	var req CreateBidRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		h.log.Debug("Failed to decode bid request", "item_id", itemID, "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Reason: "invalid_bid"})
		return
	}

	bid := domain.Bid{
		ItemID: itemID,
		UserID: req.UserID,
		Amount: req.Amount,
	}
	if req.CreatedAt != nil {
		bid.CreatedAt = *req.CreatedAt
	}

	accepted, err := h.service.CreateBid(r.Context(), bid)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, BidResponse{
		ItemID:    accepted.ItemID,
		UserID:    accepted.UserID,
		Amount:    accepted.Amount,
		CreatedAt: accepted.CreatedAt,
	})
}

func (h *BidHandler) GetBidHistory(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["itemID"]
	query := r.URL.Query()

	offset, err := intParam(query.Get("offset"), 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "offset must be an integer", Reason: "invalid_page"})
		return
	}
	count, err := intParam(query.Get("count"), h.defaultPageSize)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "count must be an integer", Reason: "invalid_page"})
		return
	}

	records, err := h.service.GetBidHistory(r.Context(), itemID, offset, count)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, BidHistoryResponse{
		ItemID: itemID,
		Offset: offset,
		Count:  len(records),
		Bids:   records,
	})
}

func (h *BidHandler) writeError(w http.ResponseWriter, err error) {
	status, reason, retry := classify(err)
	if status == http.StatusInternalServerError {
		h.log.Error("Request failed", "error", err)
	}
	if retry {
		w.Header().Set("Retry-After", retryAfterSeconds)
	}
	writeJSON(w, status, errorBody(err, status, reason))
}

func Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func intParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
