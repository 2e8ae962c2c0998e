package domain

import "errors"

// Lock errors. Both are retryable by the caller; nothing retries internally.
var (
	ErrLockTimeout = errors.New("timed out acquiring item lock")
	ErrLockLost    = errors.New("item lock lost before commit")
)

// Bid rejections. Terminal for the submitted bid.
var (
	ErrInvalidBid    = errors.New("invalid bid")
	ErrInvalidItem   = errors.New("invalid item")
	ErrItemNotFound  = errors.New("item not found")
	ErrBidTooLow     = errors.New("bid amount too low")
	ErrAuctionClosed = errors.New("auction closed")
)

var (
	ErrMalformedRecord = errors.New("malformed bid history record")
	ErrInvalidPage     = errors.New("invalid page")
)

// IsRetryable reports whether resubmitting the whole bid may succeed.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrLockTimeout) || errors.Is(err, ErrLockLost)
}
