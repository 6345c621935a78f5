package redis

const (
	// KeyPrefixCache is the prefix for cached responses
	KeyPrefixCache = "toolhub:cache:"
)

// CacheKey returns the Redis key for a cached response signature
func CacheKey(signature string) string {
	return KeyPrefixCache + signature
}

// Signature strips the prefix from a Redis cache key
func Signature(key string) string {
	if len(key) <= len(KeyPrefixCache) {
		return ""
	}
	return key[len(KeyPrefixCache):]
}
