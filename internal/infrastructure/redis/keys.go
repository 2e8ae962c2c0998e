package redis

// Key layout shared by every process touching the bidding keyspace.
const itemsByPriceKey = "items:price"

func itemsKey(itemID string) string {
	return "items#" + itemID
}

func bidHistoryKey(itemID string) string {
	return "history#" + itemID
}

// LockKey is the lease key guarding all bid writes for itemID.
func LockKey(itemID string) string {
	return "lock:" + itemID
}
