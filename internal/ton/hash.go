package ton

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// NormalizeHash parses a 32-byte transaction, message or trace hash given as
// hex (optionally 0x-prefixed), standard base64 or base64url. toncenter v2
// speaks base64 while tonapi speaks hex, so comparisons go through here.
func NormalizeHash(s string) (common.Hash, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return common.Hash{}, fmt.Errorf("empty hash")
	}

	clean := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(clean) == 2*common.HashLength {
		if b, err := hex.DecodeString(clean); err == nil {
			return common.BytesToHash(b), nil
		}
	}

	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.RawURLEncoding,
	} {
		b, err := enc.DecodeString(s)
		if err == nil && len(b) == common.HashLength {
			return common.BytesToHash(b), nil
		}
	}
	return common.Hash{}, fmt.Errorf("invalid hash %q: want 32 bytes as hex or base64", s)
}

// HexHash returns the lowercase hex form of h without the 0x prefix, as
// tonapi and tonviewer expect it.
func HexHash(h common.Hash) string {
	return hex.EncodeToString(h.Bytes())
}

// SameHash reports whether a and b encode the same 32-byte hash.
func SameHash(a, b string) bool {
	ha, err := NormalizeHash(a)
	if err != nil {
		return false
	}
	hb, err := NormalizeHash(b)
	if err != nil {
		return false
	}
	return ha == hb
}
