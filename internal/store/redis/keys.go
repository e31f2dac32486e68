package redis

const (
	// KeyPrefixUsage is the prefix for per-token redirect counters
	KeyPrefixUsage = "mj:usage:"
	// KeyAllTokens is the set of every token ever counted
	KeyAllTokens = "mj:usage:all"
)

// UsageKey returns the Redis key counting redirects of token
func UsageKey(token string) string {
	return KeyPrefixUsage + "token:" + token
}
