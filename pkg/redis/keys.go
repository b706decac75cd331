package redis

import "fmt"

// Key naming conventions for Redis keys.
// All keys follow the pattern: {namespace}:{entity}:{id}:{field}
//
// Example: "aa:artist:123" for a cached artist record.

const (
	// Namespace prefix for all keys
	KeyNamespace = "aa" // Artist Atlas
)

// ArtistKey returns the cache key for an artist record.
// Example: aa:artist:6f1e...
func ArtistKey(artistID string) string {
	return fmt.Sprintf("%s:artist:%s", KeyNamespace, artistID)
}

// OTPRateKey returns the rate-limit key for OTP issuance per email.
// Example: aa:otp:rate:fan@example.com
func OTPRateKey(email string) string {
	return fmt.Sprintf("%s:otp:rate:%s", KeyNamespace, email)
}
