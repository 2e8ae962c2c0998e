package handlers

import (
	"errors"
	"net/http"

	"bidding-system/internal/domain"
)

const retryAfterSeconds = "1"

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

// classify maps a service error to its HTTP status and a stable reason code.
// Lock errors also ask the client to retry.
func classify(err error) (status int, reason string, retry bool) {
	switch {
	case errors.Is(err, domain.ErrInvalidBid):
		return http.StatusBadRequest, "invalid_bid", false
	case errors.Is(err, domain.ErrInvalidItem):
		return http.StatusBadRequest, "invalid_item", false
	case errors.Is(err, domain.ErrInvalidPage):
		return http.StatusBadRequest, "invalid_page", false
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound, "item_not_found", false
	case errors.Is(err, domain.ErrBidTooLow):
		return http.StatusConflict, "bid_too_low", false
	case errors.Is(err, domain.ErrAuctionClosed):
		return http.StatusConflict, "auction_closed", false
	case errors.Is(err, domain.ErrLockTimeout):
		return http.StatusServiceUnavailable, "lock_timeout", true
	case errors.Is(err, domain.ErrLockLost):
		return http.StatusServiceUnavailable, "lock_lost", true
	case errors.Is(err, domain.ErrMalformedRecord):
		return http.StatusInternalServerError, "malformed_record", false
	default:
		return http.StatusInternalServerError, "internal_error", false
	}
}

// errorBody hides internal error text behind a generic message.
func errorBody(err error, status int, reason string) errorResponse {
	if status == http.StatusInternalServerError {
		return errorResponse{Error: "internal server error", Reason: reason}
	}
	return errorResponse{Error: err.Error(), Reason: reason}
}
