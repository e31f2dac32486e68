package redis

import (
	"strings"
	"testing"
)

func TestUsageKey(t *testing.T) {
	tests := []string{"standup", "3f2504e0-4f89-11d3-9a0c-0305e82c3301", "with:colon"}

	for _, token := range tests {
		t.Run(token, func(t *testing.T) {
			got := UsageKey(token)
			if !strings.HasPrefix(got, KeyPrefixUsage) || !strings.HasSuffix(got, token) {
				t.Errorf("UsageKey(%q) = %v", token, got)
			}
		})
	}
}

func TestAllTokensKeyDoesNotCollide(t *testing.T) {
	if UsageKey("all") == KeyAllTokens {
		t.Error("usage key of token \"all\" collides with the token set")
	}
}
