package cache

import (
	"fmt"
	"strings"
)

// GenerateKey creates a cache key with prefix and ID.
func GenerateKey(prefix string, id string) string {
	return fmt.Sprintf("%s:%s", prefix, id)
}

// GenerateKeyFromParts joins parts with commas under prefix.
func GenerateKeyFromParts(prefix string, parts []string) string {
	return GenerateKey(prefix, strings.Join(parts, ","))
}
