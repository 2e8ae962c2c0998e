package utils

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateID returns "<prefix>_<uuid>", or a bare uuid when prefix is empty.
func GenerateID(prefix string) string {
	if prefix == "" {
		return uuid.NewString()
	}
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString())
}
