package redis

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

func setupTest(t *testing.T) (*redis.Client, *miniredis.Miniredis, func()) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return client, mr, func() {
		client.Close()
		mr.Close()
	}
}

// stubLease is a lease whose validity the test controls directly.
type stubLease struct {
	resource string
	token    string
	valid    bool
}

func (l *stubLease) Resource() string     { return l.resource }
func (l *stubLease) Token() string        { return l.token }
func (l *stubLease) Valid() bool          { return l.valid }
func (l *stubLease) ExpiresAt() time.Time { return time.Now().Add(time.Second) }

// holdLease plants a lease token for itemID the way the lock manager would.
func holdLease(t *testing.T, mr *miniredis.Miniredis, itemID string) *stubLease {
	lease := &stubLease{resource: itemID, token: "token-" + itemID, valid: true}
	require.NoError(t, mr.Set(LockKey(itemID), lease.token))
	return lease
}
