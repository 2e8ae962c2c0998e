package redis

import (
	"bidding-system/internal/domain"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// SerializeHistory encodes a bid as "<amount>:<createdAt epoch millis>".
// The amount uses the shortest representation that parses back to the same float.
func SerializeHistory(amount float64, createdAt time.Time) string {
	return strconv.FormatFloat(amount, 'f', -1, 64) + ":" + strconv.FormatInt(createdAt.UnixMilli(), 10)
}

func DeserializeHistory(stored string) (domain.BidRecord, error) {
	parts := strings.Split(stored, ":")
	if len(parts) != 2 {
		return domain.BidRecord{}, fmt.Errorf("%w: %q", domain.ErrMalformedRecord, stored)
	}

	amount, err := strconv.ParseFloat(parts[0], 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return domain.BidRecord{}, fmt.Errorf("%w: bad amount in %q", domain.ErrMalformedRecord, stored)
	}

	millis, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return domain.BidRecord{}, fmt.Errorf("%w: bad timestamp in %q", domain.ErrMalformedRecord, stored)
	}

	return domain.BidRecord{
		Amount:    amount,
		CreatedAt: time.UnixMilli(millis),
	}, nil
}
