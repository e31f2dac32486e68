package utils

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// RemoteIP returns the address of the peer of r, without port.
// Forwarding headers are ignored: the redirect server is meant to be reached directly.
func RemoteIP(r *http.Request) (netip.Addr, bool) {
	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

// PrefixMatcher matches addresses against a list of CIDRs and single IPs.
type PrefixMatcher struct {
	prefixes []netip.Prefix
}

// NewPrefixMatcher parses entries like "127.0.0.1", "::1" or "10.0.0.0/8".
// Invalid entries are returned separately so callers can log them.
func NewPrefixMatcher(list []string) (*PrefixMatcher, []string) {
	m := &PrefixMatcher{}
	var invalid []string
	for _, raw := range list {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		if p, err := netip.ParsePrefix(s); err == nil {
			m.prefixes = append(m.prefixes, p.Masked())
			continue
		}
		if a, err := netip.ParseAddr(s); err == nil {
			m.prefixes = append(m.prefixes, netip.PrefixFrom(a.Unmap(), a.Unmap().BitLen()))
			continue
		}
		invalid = append(invalid, s)
	}
	return m, invalid
}

func (m *PrefixMatcher) IsEmpty() bool {
	return len(m.prefixes) == 0
}

func (m *PrefixMatcher) Allow(addr netip.Addr) bool {
	for _, p := range m.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
