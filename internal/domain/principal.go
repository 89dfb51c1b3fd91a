package domain

import "strings"

// ZeroPrincipal is the null address; it can never hold the administrator
// role or receive a transfer.
const ZeroPrincipal = "0x0000000000000000000000000000000000000000"

// IsValidPrincipal reports whether s is a well-formed, non-zero principal
// address (0x-prefixed, 40 hex characters).
func IsValidPrincipal(s string) bool {
	if len(s) != 42 || !strings.HasPrefix(s, "0x") {
		return false
	}

	for _, c := range s[2:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}

	return !strings.EqualFold(s, ZeroPrincipal)
}
